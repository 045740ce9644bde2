package mock

import (
	"context"
	"fmt"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/lighthouse"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/types"
)

// MockAnalyzer implements lighthouse.Analyzer with a fixed page weight
type MockAnalyzer struct {
	breakdown types.ByteBreakdown
	errorMode bool

	// Calls counts Analyze invocations
	Calls int
}

// New creates a mock analyzer returning breakdown for every page
func New(breakdown types.ByteBreakdown) *MockAnalyzer {
	return &MockAnalyzer{breakdown: breakdown}
}

// NewWithBytes creates a mock analyzer reporting a single HTML document of
// the given transfer size
func NewWithBytes(transferred int64) *MockAnalyzer {
	return New(types.NewBreakdownBuilder().Add("text/html", transferred, transferred).Build())
}

// NewWithError creates a mock analyzer that fails every run
func NewWithError() *MockAnalyzer {
	return &MockAnalyzer{errorMode: true}
}

// Analyze returns the configured breakdown
func (m *MockAnalyzer) Analyze(ctx context.Context, url string) (types.ByteBreakdown, error) {
	m.Calls++
	if m.errorMode {
		return types.ByteBreakdown{}, &lighthouse.AnalysisError{
			Op:      lighthouse.OpRun,
			URL:     url,
			Message: "exited with status 1",
			Cause:   fmt.Errorf("lighthouse error (mock)"),
		}
	}
	return m.breakdown, nil
}

// MockAnalyzerFunc gives tests full control over Analyze
type MockAnalyzerFunc struct {
	AnalyzeFunc func(ctx context.Context, url string) (types.ByteBreakdown, error)
}

// Analyze delegates to AnalyzeFunc
func (m *MockAnalyzerFunc) Analyze(ctx context.Context, url string) (types.ByteBreakdown, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, url)
	}
	return types.ByteBreakdown{}, nil
}

var (
	_ lighthouse.Analyzer = &MockAnalyzer{}
	_ lighthouse.Analyzer = &MockAnalyzerFunc{}
)
