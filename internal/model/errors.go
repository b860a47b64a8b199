package model

import "fmt"

// MalformedTableError means a table has no usable structure.
type MalformedTableError struct {
	Reason string
}

func (e *MalformedTableError) Error() string {
	return "malformed table: " + e.Reason
}

// InsufficientDataError means an operation lacks the periods or rows it needs.
type InsufficientDataError struct {
	Operation string
	Reason    string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %s", e.Operation, e.Reason)
}

// UnknownMetricError means a waterfall metric name is not recognized.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.Metric)
}
