package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is how many runs a batch executes at once when unset
const DefaultConcurrency = 1

// BatchOptions configures RunBatch
type BatchOptions struct {
	InputsDir   string
	Concurrency int
	// Base is applied to every run; InputPath is set per input
	Base Options
}

// BatchItem is the outcome of one input in a batch
type BatchItem struct {
	InputPath string
	Result    *Result
	Err       error
}

// BatchResult collects every item in input order
type BatchResult struct {
	Items []BatchItem
}

// Failed returns the items that ended with an error
func (b *BatchResult) Failed() []BatchItem {
	var failed []BatchItem
	for _, item := range b.Items {
		if item.Err != nil {
			failed = append(failed, item)
		}
	}
	return failed
}

// BatchInputs lists the regular, non-hidden files directly inside dir, sorted by name
func BatchInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read inputs directory %s: %w", dir, err)
	}
	var inputs []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(inputs)
	return inputs, nil
}

// RunBatch runs every input in InputsDir through RunPipeline, at most Concurrency at a time.
// A failing input is recorded in its item and does not stop the others. Runs share only the
// client, the output writer and the logger.
func RunBatch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	inputs, err := BatchInputs(opts.InputsDir)
	if err != nil {
		return nil, err
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	logger := opts.Base.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Base.Out
	if out == nil {
		out = io.Discard
	}
	shared := &lockedWriter{w: out}

	result := &BatchResult{Items: make([]BatchItem, len(inputs))}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, input := range inputs {
		g.Go(func() error {
			runOpts := opts.Base
			runOpts.InputPath = input
			runOpts.Out = shared
			runOpts.Logger = logger.With(zap.String("input", input))

			res, err := RunPipeline(gCtx, runOpts)
			result.Items[i] = BatchItem{InputPath: input, Result: res, Err: err}
			if err != nil {
				runOpts.Logger.Warn("batch item failed", zap.Error(err))
			}
			return nil
		})
	}

	// items carry their own errors; Wait only joins the workers
	_ = g.Wait()
	return result, nil
}

// lockedWriter serializes progress output from concurrent runs
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
