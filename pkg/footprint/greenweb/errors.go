package greenweb

import "fmt"

// Operations reported by LookupError
const (
	OpOpen  = "open"
	OpQuery = "query"
)

// LookupError is returned when the dataset cannot be opened or queried
type LookupError struct {
	Op      string
	Path    string
	Message string
	Cause   error
}

func (e *LookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("green web %s %s: %s: %v", e.Op, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("green web %s %s: %s", e.Op, e.Path, e.Message)
}

func (e *LookupError) Unwrap() error { return e.Cause }
