package casefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rvanwijk/caseview/internal/model"
)

// CaseFile is one renderable case: the computation tree produced for a
// citizen by the rule-evaluation service, the claims filed against it, and
// the render context.
type CaseFile struct {
	CaseID     string            `json:"case_id" yaml:"case_id"`
	Service    string            `json:"service" yaml:"service"`
	Law        string            `json:"law" yaml:"law"`
	Claimant   string            `json:"claimant,omitempty" yaml:"claimant,omitempty"`
	CanApprove bool              `json:"can_approve,omitempty" yaml:"can_approve,omitempty"`
	Tree       *model.ResultNode `json:"tree" yaml:"tree"`
	Claims     []model.Claim     `json:"claims,omitempty" yaml:"claims,omitempty"`
}

// Load reads a case file from disk. The format is chosen by extension:
// .json is JSON, everything else is parsed as YAML.
func Load(path string) (*CaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case file: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	cf, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cf, nil
}

// Parse decodes and normalizes a case file from raw bytes. format is "json"
// or "yaml".
func Parse(data []byte, format string) (*CaseFile, error) {
	var cf CaseFile
	switch format {
	case "json":
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	if cf.Tree == nil {
		return nil, fmt.Errorf("case file has no tree")
	}
	if cf.CaseID == "" {
		return nil, fmt.Errorf("case file has no case_id")
	}

	normalizeNode(cf.Tree)
	return &cf, nil
}

// Save writes a case file back to disk in the format its extension implies.
// Used by the claim commands to persist lifecycle changes.
func Save(cf *CaseFile, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(cf, "", "  ")
	} else {
		data, err = yaml.Marshal(cf)
	}
	if err != nil {
		return fmt.Errorf("encode case file: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write case file: %w", err)
	}
	return nil
}

// normalizeNode walks the tree, canonicalizing decoded values and applying
// each node's type spec before anything is rendered.
func normalizeNode(node *model.ResultNode) {
	if node == nil {
		return
	}
	node.Value = node.TypeSpec.Enforce(normalizeValue(node.Value))
	for _, child := range node.Children {
		normalizeNode(child)
	}
}

// normalizeValue converts YAML's occasional map[interface{}]interface{}
// shapes into the map[string]any the formatter understands, recursively.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = normalizeValue(inner)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[fmt.Sprintf("%v", k)] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return value
	}
}
