package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rvanwijk/caseview/internal/model"
)

// CaseRenderer renders one case file from disk into its renderable tree.
type CaseRenderer interface {
	RenderCase(ctx context.Context, path string) (*model.RenderedNode, error)
}

// RenderJob renders a single case file
type RenderJob struct {
	Path     string
	Renderer CaseRenderer
}

// Execute executes the render job
func (j *RenderJob) Execute(ctx context.Context) Result {
	rendered, err := j.Renderer.RenderCase(ctx, j.Path)
	return &RenderResult{
		Path:     j.Path,
		Rendered: rendered,
		Err:      err,
	}
}

// RenderResult is the outcome of rendering one case file
type RenderResult struct {
	Path     string
	Rendered *model.RenderedNode
	Err      error
}

// GetError returns the error from the render result
func (r *RenderResult) GetError() error {
	return r.Err
}

// BatchProcessor renders multiple case files concurrently
type BatchProcessor struct {
	renderer    CaseRenderer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(renderer CaseRenderer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		renderer:    renderer,
		concurrency: concurrency,
	}
}

// ProcessPaths renders the given case files concurrently. When ctx expires
// mid-batch the remaining jobs are abandoned and the results rendered so far
// are returned.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*RenderResult {
	if len(paths) == 0 {
		return []*RenderResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	for _, path := range paths {
		pool.Submit(&RenderJob{
			Path:     path,
			Renderer: b.renderer,
		})
	}

	results := pool.Wait()

	renderResults := make([]*RenderResult, len(results))
	for i, result := range results {
		renderResults[i] = result.(*RenderResult)
	}

	return renderResults
}

// ProcessFile reads case-file paths from a list file and renders them
// concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*RenderResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read case list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads case-file paths from a file (one per line).
// Empty lines and #-comments are skipped; duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
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
