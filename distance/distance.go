package distance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDegenerateInput is returned when a distance is undefined for the given
// lengths (for example both items compress to zero bytes).
var ErrDegenerateInput = errors.New("degenerate input")

// DegenerateInputError reports the lengths that made a distance undefined.
type DegenerateInputError struct {
	Metric Metric
	LenA   int
	LenB   int
	LenAB  int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s undefined for lengths a=%d b=%d ab=%d: zero denominator", e.Metric, e.LenA, e.LenB, e.LenAB)
}

// Is reports whether target is ErrDegenerateInput.
func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// NCD computes the Normalized Compression Distance:
//
//	(lenAB - min(lenA, lenB)) / max(lenA, lenB)
func NCD(lenA, lenB, lenAB int) (float64, error) {
	hi := max(lenA, lenB)
	if hi == 0 {
		return 0, &DegenerateInputError{Metric: MetricNCD, LenA: lenA, LenB: lenB, LenAB: lenAB}
	}
	return float64(lenAB-min(lenA, lenB)) / float64(hi), nil
}

// CLM computes the Compression-based Length Metric:
//
//	1 - (lenA + lenB - lenAB) / lenAB
func CLM(lenA, lenB, lenAB int) (float64, error) {
	if lenAB == 0 {
		return 0, &DegenerateInputError{Metric: MetricCLM, LenA: lenA, LenB: lenB, LenAB: lenAB}
	}
	return 1 - float64(lenA+lenB-lenAB)/float64(lenAB), nil
}

// CDM computes the Compression-based Dissimilarity Measure:
//
//	lenAB / (lenA + lenB)
func CDM(lenA, lenB, lenAB int) (float64, error) {
	if lenA+lenB == 0 {
		return 0, &DegenerateInputError{Metric: MetricCDM, LenA: lenA, LenB: lenB, LenAB: lenAB}
	}
	return float64(lenAB) / float64(lenA+lenB), nil
}

// Metric represents the distance formula applied to compressed lengths.
type Metric int

const (
	MetricNCD Metric = iota
	MetricCLM
	MetricCDM
)

func (m Metric) String() string {
	switch m {
	case MetricNCD:
		return "NCD"
	case MetricCLM:
		return "CLM"
	case MetricCDM:
		return "CDM"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric parses a metric name (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NCD":
		return MetricNCD, nil
	case "CLM":
		return MetricCLM, nil
	case "CDM":
		return MetricCDM, nil
	default:
		return 0, fmt.Errorf("unknown distance metric %q", s)
	}
}

// Func is a function type for distance calculation on compressed lengths.
type Func func(lenA, lenB, lenAB int) (float64, error)

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricNCD:
		return NCD, nil
	case MetricCLM:
		return CLM, nil
	case MetricCDM:
		return CDM, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
