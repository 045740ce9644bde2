package mock

import (
	"context"
	"fmt"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/greenweb"
)

// MockClassifier implements greenweb.Classifier with a fixed answer
type MockClassifier struct {
	green     bool
	errorMode bool

	// Calls counts Check invocations
	Calls int
}

// New creates a mock classifier that always answers green
func New(green bool) *MockClassifier {
	return &MockClassifier{green: green}
}

// NewWithError creates a mock classifier that fails every lookup
func NewWithError() *MockClassifier {
	return &MockClassifier{errorMode: true}
}

// Check returns the configured answer
func (m *MockClassifier) Check(ctx context.Context, url string) (bool, error) {
	m.Calls++
	if m.errorMode {
		return false, &greenweb.LookupError{
			Op:      greenweb.OpQuery,
			Path:    "mock",
			Message: "lookup failed",
			Cause:   fmt.Errorf("green web dataset error (mock)"),
		}
	}
	return m.green, nil
}

// MockClassifierFunc gives tests full control over Check
type MockClassifierFunc struct {
	CheckFunc func(ctx context.Context, url string) (bool, error)
}

// Check delegates to CheckFunc
func (m *MockClassifierFunc) Check(ctx context.Context, url string) (bool, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, url)
	}
	return false, nil
}

var (
	_ greenweb.Classifier = &MockClassifier{}
	_ greenweb.Classifier = &MockClassifierFunc{}
)
