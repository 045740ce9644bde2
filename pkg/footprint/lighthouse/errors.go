package lighthouse

import (
	"fmt"
	"strings"
)

// Operations reported by AnalysisError
const (
	OpRun   = "run"
	OpParse = "parse"
)

// maxStderrInMessage bounds how much analyzer output ends up in an error string
const maxStderrInMessage = 512

// AnalysisError is returned when the analyzer cannot run or its report cannot
// be read
type AnalysisError struct {
	Op      string
	URL     string
	Message string
	Stderr  string
	Cause   error
}

func (e *AnalysisError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lighthouse %s %s: %s", e.Op, e.URL, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		if len(stderr) > maxStderrInMessage {
			stderr = stderr[:maxStderrInMessage] + "..."
		}
		fmt.Fprintf(&b, " (stderr: %s)", stderr)
	}
	return b.String()
}

func (e *AnalysisError) Unwrap() error { return e.Cause }
