package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rvanwijk/caseview/internal/model"
)

// Explainer wraps a Provider and turns rendered trees into optional
// plain-language explanations. A nil provider means the feature is disabled;
// callers render exactly the same output either way.
type Explainer struct {
	provider Provider
	config   Config
}

// NewExplainer creates an explainer from configuration. Returns an explainer
// with a nil provider (disabled) when no provider is configured.
func NewExplainer(config Config) (*Explainer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Explainer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether an explanation will actually be generated.
func (e *Explainer) IsEnabled() bool {
	return e != nil && e.provider != nil
}

// GenerateExplanation asks the provider to explain a rendered case. The
// result is annotation only; it never affects the rendered tree.
func (e *Explainer) GenerateExplanation(ctx context.Context, caseID string, tree *model.RenderedNode) (*model.Explanation, error) {
	if !e.IsEnabled() {
		return nil, nil
	}

	fieldKeys := CollectFieldKeys(tree)

	resp, err := e.provider.Explain(ctx, ExplainRequest{
		CaseID:    caseID,
		Tree:      tree,
		FieldKeys: fieldKeys,
		Model:     e.config.Model,
		MaxTokens: e.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate explanation: %w", err)
	}

	explanation := &model.Explanation{
		Enabled:          true,
		Provider:         e.provider.Name(),
		Model:            resp.Model,
		StrictFields:     e.config.StrictFields,
		Text:             resp.Explanation,
		ReferencedFields: resp.ReferencedFields,
	}

	if resp.Explanation == "" {
		explanation.Warnings = append(explanation.Warnings, "provider returned an empty explanation")
	}

	return explanation, nil
}

// RenderSeparateMarkdown renders an explanation as a standalone markdown
// document, clearly separated from the computed result it describes.
func RenderSeparateMarkdown(explanation *model.Explanation) string {
	if explanation == nil || !explanation.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Explanation (generated)\n\n")
	b.WriteString(fmt.Sprintf("> Generated by %s/%s. This text describes the computed result; it is not part of it and carries no legal weight.\n\n", explanation.Provider, explanation.Model))
	b.WriteString(explanation.Text)
	b.WriteString("\n")

	if len(explanation.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range explanation.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return b.String()
}
