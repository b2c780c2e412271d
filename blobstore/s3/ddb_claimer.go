package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DDBClaimer hands out exclusive claims on block keys so several workers
// can split a distance run without computing the same block twice.
//
// A claim is a conditional PutItem on the block key. The first worker to
// write the item owns the block; every other worker sees the condition
// fail and skips it. Claims expire after the lease, so a block whose
// worker died mid-computation is taken over by the next run.
//
// Table schema:
//   - Partition key: block_key (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name ncd-claims \
//	  --attribute-definitions AttributeName=block_key,AttributeType=S \
//	  --key-schema AttributeName=block_key,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type DDBClaimer struct {
	client    DDBClient
	tableName string
	owner     string
	lease     time.Duration
	now       func() time.Time
}

// DefaultClaimLease is how long a claim blocks other workers.
const DefaultClaimLease = time.Hour

// DDBClaimerOptions configures a DDBClaimer.
type DDBClaimerOptions struct {
	// Lease is how long a claim is honoured. It must exceed the time to
	// compute one block. Zero selects DefaultClaimLease.
	Lease time.Duration
}

// NewDDBClaimer creates a claimer writing to tableName on behalf of owner.
func NewDDBClaimer(client DDBClient, tableName, owner string, optFns ...func(o *DDBClaimerOptions)) *DDBClaimer {
	opts := DDBClaimerOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Lease <= 0 {
		opts.Lease = DefaultClaimLease
	}
	return &DDBClaimer{
		client:    client,
		tableName: tableName,
		owner:     owner,
		lease:     opts.Lease,
		now:       time.Now,
	}
}

// Claim reports whether this worker now owns key. It returns false
// without error when another worker holds a claim younger than the lease.
// Expired claims and claims of the same owner are taken over.
func (c *DDBClaimer) Claim(ctx context.Context, key string) (bool, error) {
	now := c.now()
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"block_key":  &types.AttributeValueMemberS{Value: key},
			"owner":      &types.AttributeValueMemberS{Value: c.owner},
			"claimed_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(block_key) OR claimed_at < :stale OR #o = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#o": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stale": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(-c.lease).Unix(), 10)},
			":owner": &types.AttributeValueMemberS{Value: c.owner},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	return true, nil
}

// Release drops this worker's claim on key so another run can retry it.
// Claims held by other owners are left untouched.
func (c *DDBClaimer) Release(ctx context.Context, key string) error {
	_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"block_key": &types.AttributeValueMemberS{Value: key},
		},
		ConditionExpression: aws.String("#o = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#o": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: c.owner},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil
		}
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}
