package scan

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/pyoutline/internal/outline"
)

// Runner parses discovered files and renders the report. Files are parsed
// concurrently with a bounded errgroup, but results are collated into an
// index-addressed slice so the rendered output is identical to a sequential
// run: concurrency is never observable in the report.
type Runner struct {
	rootDir     string
	concurrency int
	logger      *slog.Logger
	progress    func(path string)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency caps the number of files parsed in parallel.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithProgress registers a callback invoked as each file completes. The
// callback runs on parser goroutines and must be safe for concurrent use.
func WithProgress(fn func(path string)) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

// NewRunner creates a Runner rooted at rootDir.
func NewRunner(rootDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		rootDir:     rootDir,
		concurrency: defaultConcurrency(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func defaultConcurrency() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// Generate reads and parses the given root-relative paths and renders the
// report. A file that cannot be parsed becomes a stub line; a file that
// cannot be read is logged and recorded the same way. Neither aborts the
// run. Generate returns an error only on cancellation.
func (r *Runner) Generate(ctx context.Context, relPaths []string) (string, error) {
	results := make([]outline.FileResult, len(relPaths))
	parser := outline.NewParser()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, rel := range relPaths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			text, err := os.ReadFile(filepath.Join(r.rootDir, filepath.FromSlash(rel)))
			if err != nil {
				r.logger.Warn("could not read file", "path", rel, "error", err)
				results[i] = outline.FileResult{Path: rel, Err: errors.New("could not read file")}
			} else {
				fileOutline, perr := parser.Parse(rel, text)
				results[i] = outline.FileResult{Path: rel, Outline: fileOutline, Err: perr}
			}

			if r.progress != nil {
				r.progress(rel)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return outline.Render(results), nil
}

// GenerateReport discovers files with the given Discovery and generates the
// report in one step.
func (r *Runner) GenerateReport(ctx context.Context, discovery *Discovery) (string, error) {
	paths, err := discovery.Discover()
	if err != nil {
		return "", err
	}
	return r.Generate(ctx, paths)
}
