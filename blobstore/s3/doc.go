// Package s3 provides an S3 implementation of the blobstore.BlobStore
// interface and a DynamoDB-backed block claimer for distributed workers.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("ncd/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	claimer := s3.NewDDBClaimer(dynamodb.NewFromConfig(cfg), "ncd-claims", "worker-1")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads via the S3 upload manager
//   - Automatic pagination for listing
//   - Conditional DynamoDB writes so only one worker computes a block
package s3
