package lighthouse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/klog/v2"
	utilexec "k8s.io/utils/exec"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/types"
)

// Analyzer measures the network weight of a page
type Analyzer interface {
	Analyze(ctx context.Context, url string) (types.ByteBreakdown, error)
}

const (
	// DefaultPath is looked up in PATH when no executable is configured
	DefaultPath = "lighthouse"
	// DefaultTimeout bounds a single analyzer run
	DefaultTimeout = 2 * time.Minute
)

// Service runs the Lighthouse CLI as a subprocess
type Service struct {
	path    string
	timeout time.Duration
	exec    utilexec.Interface
}

// Option configures a Service
type Option func(*Service)

// WithTimeout bounds each run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithExec replaces the process runner
func WithExec(e utilexec.Interface) Option {
	return func(s *Service) {
		s.exec = e
	}
}

// NewService creates an analyzer running the executable at path, or
// DefaultPath when path is empty.
func NewService(path string, opts ...Option) *Service {
	if path == "" {
		path = DefaultPath
	}
	s := &Service{
		path:    path,
		timeout: DefaultTimeout,
		exec:    utilexec.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the executable the service runs
func (s *Service) Path() string {
	return s.path
}

// Args returns the command line arguments for analyzing url
func Args(url string) []string {
	return []string{
		"--quiet",
		"--no-update-notifier",
		"--no-enable-error-reporting",
		"--output=json",
		"--chrome-flags=--headless",
		url,
		"--only-audits=" + NetworkRequestsAudit,
	}
}

// Analyze runs Lighthouse against url and returns the page weight
func (s *Service) Analyze(ctx context.Context, url string) (types.ByteBreakdown, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	klog.V(2).InfoS("Running lighthouse", "path", s.path, "url", url, "timeout", s.timeout)

	cmd := s.exec.CommandContext(ctx, s.path, Args(url)...)
	var stderr bytes.Buffer
	cmd.SetStderr(&stderr)

	out, err := cmd.Output()
	if err != nil {
		return types.ByteBreakdown{}, s.runError(ctx, url, stderr.String(), err)
	}

	breakdown, err := ParseReport(out)
	if err != nil {
		return types.ByteBreakdown{}, &AnalysisError{
			Op:      OpParse,
			URL:     url,
			Message: "unreadable report",
			Stderr:  stderr.String(),
			Cause:   err,
		}
	}

	klog.V(2).InfoS("Lighthouse finished",
		"url", url,
		"duration", time.Since(start),
		"transferred", breakdown.TransferTotal(),
		"decoded", breakdown.ResourceTotal())
	return breakdown, nil
}

func (s *Service) runError(ctx context.Context, url, stderr string, err error) error {
	aerr := &AnalysisError{Op: OpRun, URL: url, Stderr: stderr, Cause: err}

	var exitErr utilexec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		aerr.Message = fmt.Sprintf("timed out after %s", s.timeout)
		aerr.Cause = ctx.Err()
	case errors.Is(ctx.Err(), context.Canceled):
		aerr.Message = "cancelled"
		aerr.Cause = ctx.Err()
	case errors.Is(err, utilexec.ErrExecutableNotFound):
		aerr.Message = fmt.Sprintf("executable %q not found, install lighthouse or pass its path", s.path)
	case errors.As(err, &exitErr):
		aerr.Message = fmt.Sprintf("exited with status %d", exitErr.ExitStatus())
	default:
		aerr.Message = "failed to run"
	}
	return aerr
}
