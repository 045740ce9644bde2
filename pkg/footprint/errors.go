package footprint

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a FootprintError came from
type Stage string

const (
	StageHosting    Stage = "hosting"
	StageAnalysis   Stage = "analysis"
	StageStatistics Stage = "statistics"
)

// ErrNoResult is matched by NoResultError
var ErrNoResult = errors.New("no footprint computed")

// ValidationError reports a URL the calculator refuses to analyze
type ValidationError struct {
	URL    string
	Reason string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid url %q: %s: %v", e.URL, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// FootprintError wraps any failure past validation. The collaborator error is
// kept as Cause and stays reachable through errors.As.
type FootprintError struct {
	URL   string
	Stage Stage
	Cause error
}

func (e *FootprintError) Error() string {
	return fmt.Sprintf("footprint of %s failed during %s: %v", e.URL, e.Stage, e.Cause)
}

func (e *FootprintError) Unwrap() error { return e.Cause }

// NoResultError is returned by accessors when no footprint has succeeded
type NoResultError struct {
	Field string
}

func (e *NoResultError) Error() string {
	if e.Field == "" {
		return ErrNoResult.Error()
	}
	return fmt.Sprintf("%s: %s unavailable", ErrNoResult, e.Field)
}

func (e *NoResultError) Is(target error) bool { return target == ErrNoResult }
