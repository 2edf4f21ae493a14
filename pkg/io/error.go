package io

import "fmt"

// InsufficientBufferError tells the caller that the buffer provided is not sufficient/big
// enough to hold the whole data/sample.
type InsufficientBufferError struct {
	// Name identifies the buffer that was too small, e.g. "dst" or "y plane".
	// It may be empty.
	Name         string
	RequiredSize int
	ActualSize   int
}

func (e *InsufficientBufferError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("provided buffer doesn't meet the size requirement of length, %d (got %d)", e.RequiredSize, e.ActualSize)
	}
	return fmt.Sprintf("provided %s buffer doesn't meet the size requirement of length, %d (got %d)", e.Name, e.RequiredSize, e.ActualSize)
}

// CheckSize returns an InsufficientBufferError naming buf if it is shorter
// than required.
func CheckSize(name string, buf []byte, required int) error {
	if len(buf) < required {
		return &InsufficientBufferError{Name: name, RequiredSize: required, ActualSize: len(buf)}
	}
	return nil
}
