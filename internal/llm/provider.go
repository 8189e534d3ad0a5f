package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rvanwijk/caseview/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Explain generates a plain-language explanation of a rendered result
	Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ExplainRequest contains the input for explanation generation
type ExplainRequest struct {
	// CaseID identifies the case being explained
	CaseID string

	// Tree is the rendered result to explain
	Tree *model.RenderedNode

	// FieldKeys is the STRICT allowlist of field keys the LLM may reference.
	// The model cannot point at fields that are not in the rendered tree.
	FieldKeys []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExplainResponse contains the LLM's explanation output
type ExplainResponse struct {
	// Explanation is the generated text
	Explanation string

	// ReferencedFields are the field keys the LLM actually referenced
	ReferencedFields []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictFields enforces the field-key allowlist (should always be true)
	StrictFields bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:     "", // Disabled by default
		Model:        "",
		Timeout:      30,
		StrictFields: true,
		MaxTokens:    1000,
	}
}

// BuildPrompt constructs the default explanation prompt with the strict
// field allowlist embedded.
func BuildPrompt(caseID string, tree *model.RenderedNode, fieldKeys []string) string {
	var lines []string
	flattenForPrompt(tree, 0, &lines)

	prompt := fmt.Sprintf(`You are explaining the outcome of an automated benefit/eligibility computation to a citizen. The computation is already final - you describe it, you never recompute or second-guess it.

CRITICAL RULES:
1. You may ONLY reference fields from this allowed list (write them in backticks):
%s

2. DO NOT invent fields, amounts, or rules that are not shown below.
3. Where a value is marked missing, say the data was not available - do not guess it.
4. Pending corrections are proposals, not facts. Describe them as "a correction has been submitted".
5. Never give legal advice; only describe what was computed and from which inputs.

Case: %s

Computed result:
%s

Provide a 3-5 sentence plain-language explanation of the result and the inputs it came from.`,
		joinFieldKeys(fieldKeys), caseID, strings.Join(lines, "\n"))

	return prompt
}

// flattenForPrompt writes one indented line per node, including any claim
// overlay, so the model sees exactly what the citizen sees.
func flattenForPrompt(node *model.RenderedNode, depth int, lines *[]string) {
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s- `%s`: %s", indent, node.Key, node.Display)
	if node.Kind == model.KindSubResult && node.Label != "" {
		line = fmt.Sprintf("%s- `%s` (%s): %s", indent, node.Key, node.Label, node.Display)
	}
	if node.Overlay != nil {
		line += fmt.Sprintf(" [correction %s: proposed %v]", strings.ToLower(string(node.Overlay.Status)), node.Overlay.Value)
	}
	*lines = append(*lines, line)

	for _, child := range node.Children {
		flattenForPrompt(child, depth+1, lines)
	}
}

// CollectFieldKeys walks a rendered tree and returns every node key, the
// allowlist for strict-field checking.
func CollectFieldKeys(tree *model.RenderedNode) []string {
	var keys []string
	seen := make(map[string]bool)

	var walk func(*model.RenderedNode)
	walk = func(node *model.RenderedNode) {
		if node == nil {
			return
		}
		if !seen[node.Key] {
			seen[node.Key] = true
			keys = append(keys, node.Key)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(tree)

	return keys
}

// Helper functions

func joinFieldKeys(keys []string) string {
	if len(keys) == 0 {
		return "(No fields available)"
	}
	result := ""
	for i, key := range keys {
		if i >= 50 { // Limit to avoid token bloat
			result += fmt.Sprintf("\n... and %d more fields", len(keys)-50)
			break
		}
		result += fmt.Sprintf("\n- `%s`", key)
	}
	return result
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
