package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a profile or sink selection rejected before any work starts
	ErrConfiguration = errors.New("invalid configuration")
	// ErrSinkUnavailable marks a sink whose connection or schema setup failed
	ErrSinkUnavailable = errors.New("sink unavailable")
	// ErrSinkWrite marks a bulk insert or promotion failure on a sink
	ErrSinkWrite = errors.New("sink write failed")
	// ErrJobRunning is returned when a generation job is already in progress
	ErrJobRunning = errors.New("generation job already running")
)

// ConfigError collects every validation problem found in a profile
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(e.Problems, "; "))
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// SinkError wraps a failure on a single sink together with its kind
type SinkError struct {
	Sink string
	Op   string
	Kind error
	Err  error
}

// NewSinkError builds a SinkError; kind should be ErrSinkUnavailable or ErrSinkWrite
func NewSinkError(sink, op string, kind, err error) *SinkError {
	return &SinkError{Sink: sink, Op: op, Kind: kind, Err: err}
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s: sink %s: %s: %v", e.Kind, e.Sink, e.Op, e.Err)
}

func (e *SinkError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
