package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rvanwijk/caseview/internal/cache"
	"github.com/rvanwijk/caseview/internal/casefile"
	"github.com/rvanwijk/caseview/internal/claims"
	"github.com/rvanwijk/caseview/internal/llm"
	"github.com/rvanwijk/caseview/internal/model"
	"github.com/rvanwijk/caseview/internal/output"
	"github.com/rvanwijk/caseview/internal/render"
)

// Pipeline orchestrates the complete render process: case file in, report
// out. Rendering itself is pure; the pipeline adds the cache and the optional
// explanation around it.
type Pipeline struct {
	writer      *output.Writer
	explainer   *llm.Explainer // Optional LLM explainer (disabled when unconfigured)
	renderCache cache.Cache    // nil when caching is disabled
	config      *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	// Create LLM explainer if configured
	var explainer *llm.Explainer
	if cfg.LLM.Provider != "" {
		e, err := llm.NewExplainer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			explainer = e
		}
	}

	var renderCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			renderCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			renderCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
	}

	return &Pipeline{
		writer:      output.NewWriter(cfg.Output.IncludeFooter),
		explainer:   explainer,
		renderCache: renderCache,
		config:      cfg,
	}
}

// Render renders one loaded case into a report.
func (p *Pipeline) Render(ctx context.Context, cf *casefile.CaseFile) (*model.Report, error) {
	// 1. Build the claim snapshot through the claims collaborator, which
	// validates statuses and enforces one live claim per key.
	store := claims.NewStore()
	if err := store.Seed(cf.Claims); err != nil {
		return nil, fmt.Errorf("seed claims: %w", err)
	}
	snapshot := store.Snapshot()

	// 2. Check the render cache. All three render inputs are in the key.
	var key string
	if p.renderCache != nil {
		treeDigest := cache.TreeDigest(cf.Tree)
		claimsDigest := cache.ClaimsDigest(snapshot)
		if treeDigest != "" {
			key = cache.RenderKey(treeDigest, claimsDigest, cf.CanApprove)
			if tree, found := p.renderCache.Get(key); found {
				return p.buildReport(ctx, cf, tree, true)
			}
		}
	}

	// 3. Render the tree.
	renderer := render.NewRenderer(cf.CaseID, cf.Claimant)
	tree := renderer.Render(cf.Tree, cf.Service, cf.Law, snapshot, cf.CanApprove)

	if p.renderCache != nil && key != "" {
		if err := p.renderCache.Set(key, tree, p.config.Cache.MemoryTTL); err != nil {
			fmt.Printf("Warning: Failed to cache render: %v\n", err)
		}
	}

	return p.buildReport(ctx, cf, tree, false)
}

// buildReport assembles the report and, if enabled, attaches the LLM
// explanation AFTER rendering. The explanation never affects the tree.
func (p *Pipeline) buildReport(ctx context.Context, cf *casefile.CaseFile, tree *model.RenderedNode, fromCache bool) (*model.Report, error) {
	report := &model.Report{
		CaseID:     cf.CaseID,
		Service:    cf.Service,
		Law:        cf.Law,
		Claimant:   cf.Claimant,
		CanApprove: cf.CanApprove,
		RenderedAt: time.Now().UTC(),
		FromCache:  fromCache,
		Tree:       tree,
	}

	if p.explainer.IsEnabled() {
		explanation, err := p.explainer.GenerateExplanation(ctx, cf.CaseID, tree)
		if err != nil {
			// Don't fail the render, just warn
			fmt.Printf("Warning: Explanation generation failed: %v\n", err)
		} else if explanation != nil {
			report.Explanation = explanation
		}
	}

	return report, nil
}

// RenderCase loads and renders a case file from disk. This is the
// worker.CaseRenderer implementation used by batch processing.
func (p *Pipeline) RenderCase(ctx context.Context, path string) (*model.RenderedNode, error) {
	cf, err := casefile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	report, err := p.Render(ctx, cf)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return report.Tree, nil
}

// WriteReport renders the report to the configured outputs
func (p *Pipeline) WriteReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.writer.WriteJSON(report, jsonPath); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.writer.WriteMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// The explanation goes to its own file, clearly separated from the result
	if report.Explanation != nil && report.Explanation.Enabled && mdPath != "" {
		explanationPath := strings.TrimSuffix(mdPath, ".md") + ".explanation.md"
		markdown := llm.RenderSeparateMarkdown(report.Explanation)
		if err := p.writer.WriteExplanationMarkdown(markdown, explanationPath); err != nil {
			fmt.Printf("Warning: Failed to write explanation: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote Explanation: %s\n", explanationPath)
		}
	}

	p.writer.PrintSummary(report)

	return nil
}
