package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ramckay/voiceloom/internal/pipeline"
)

// Runner analyzes one manuscript file
type Runner interface {
	AnalyzeFile(ctx context.Context, path string) (*pipeline.Result, error)
}

// AnalyzeJob analyzes a single manuscript
type AnalyzeJob struct {
	Path   string
	Runner Runner
}

// Execute runs the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result, err := j.Runner.AnalyzeFile(ctx, j.Path)
	if err != nil {
		return &AnalyzeResult{Path: j.Path, Error: err}
	}
	return &AnalyzeResult{Path: j.Path, Result: result}
}

// AnalyzeResult is the outcome of one manuscript analysis
type AnalyzeResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the job error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple manuscripts concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes the given manuscript files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AnalyzeJob{Path: path, Runner: b.runner})
	}

	results := pool.Wait()

	out := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		out[i] = result.(*AnalyzeResult)
	}

	return out
}

// ProcessFile reads manuscript paths from a list file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*AnalyzeResult, error) {
	paths, err := ReadManuscriptList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read manuscript list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadManuscriptList reads manuscript paths from a file, one per line.
// Blank lines and # comments are skipped; duplicates are dropped.
func ReadManuscriptList(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
