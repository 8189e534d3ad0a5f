package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rvanwijk/caseview/internal/casefile"
	"github.com/rvanwijk/caseview/internal/model"
)

func testCase() *casefile.CaseFile {
	return &casefile.CaseFile{
		CaseID:     "case-2024-001",
		Service:    "TOESLAGEN",
		Law:        "zorgtoeslagwet",
		Claimant:   "citizen-42",
		CanApprove: true,
		Tree: &model.ResultNode{
			Key:     "result",
			Service: "TOESLAGEN",
			Law:     "zorgtoeslagwet",
			Value:   map[string]any{"result": 1234.5},
			Children: []*model.ResultNode{
				{Key: "income", Value: 1234.5, Required: true},
				{Key: "has_partner", Value: false},
			},
		},
		Claims: []model.Claim{{
			ServiceKey: "TOESLAGEN",
			LawKey:     "zorgtoeslagwet",
			FieldKey:   "income",
			NewValue:   1500,
			Status:     model.StatusPending,
		}},
	}
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	return cfg
}

func TestPipeline_Render(t *testing.T) {
	p := NewPipeline(testConfig())

	report, err := p.Render(context.Background(), testCase())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if report.CaseID != "case-2024-001" {
		t.Errorf("Expected case ID carried through, got %q", report.CaseID)
	}
	if report.FromCache {
		t.Error("Expected fresh render with cache disabled")
	}
	if report.Tree == nil {
		t.Fatal("Expected a rendered tree")
	}
	if report.Explanation != nil {
		t.Error("Expected no explanation when LLM is unconfigured")
	}

	income := report.Tree.Children[0]
	if income.Overlay == nil {
		t.Fatal("Expected overlay from seeded claim")
	}
	if income.Overlay.Value != 1500 {
		t.Errorf("Expected overlay value 1500, got %v", income.Overlay.Value)
	}
	if !income.Overlay.HasAction(model.ActionApprove) {
		t.Error("Expected pending claim to carry the approve action for an approver")
	}
}

func TestPipeline_RenderUsesCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.MemoryTTL = time.Minute
	p := NewPipeline(cfg)

	first, err := p.Render(context.Background(), testCase())
	if err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	if first.FromCache {
		t.Error("Expected first render to miss the cache")
	}

	second, err := p.Render(context.Background(), testCase())
	if err != nil {
		t.Fatalf("Second render failed: %v", err)
	}
	if !second.FromCache {
		t.Error("Expected second render to hit the cache")
	}
	if second.Tree.Children[0].Display != first.Tree.Children[0].Display {
		t.Error("Expected cached tree to match the fresh render")
	}
}

func TestPipeline_CacheKeyTracksClaims(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	p := NewPipeline(cfg)

	if _, err := p.Render(context.Background(), testCase()); err != nil {
		t.Fatalf("First render failed: %v", err)
	}

	// Same tree, different claim set: must not reuse the cached render.
	cf := testCase()
	cf.Claims[0].Status = model.StatusApproved
	report, err := p.Render(context.Background(), cf)
	if err != nil {
		t.Fatalf("Second render failed: %v", err)
	}
	if report.FromCache {
		t.Error("Expected changed claims to bypass the cached render")
	}
	if report.Tree.Children[0].Overlay.Status != model.StatusApproved {
		t.Errorf("Expected approved overlay, got %v", report.Tree.Children[0].Overlay.Status)
	}
}

func TestPipeline_RenderCaseFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	data := `case_id: case-2024-002
service: TOESLAGEN
law: zorgtoeslagwet
tree:
  key: result
  service: TOESLAGEN
  law: zorgtoeslagwet
  value:
    result: true
  children:
    - key: income
      value: 900
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write case file: %v", err)
	}

	p := NewPipeline(testConfig())
	tree, err := p.RenderCase(context.Background(), path)
	if err != nil {
		t.Fatalf("RenderCase failed: %v", err)
	}
	if tree.Kind != model.KindSubResult {
		t.Errorf("Expected sub-result root, got %v", tree.Kind)
	}
	if len(tree.Children) != 1 || tree.Children[0].Key != "income" {
		t.Errorf("Unexpected children: %+v", tree.Children)
	}
}

func TestPipeline_WriteReport(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")

	p := NewPipeline(testConfig())
	report, err := p.Render(context.Background(), testCase())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if err := p.WriteReport(report, jsonPath, mdPath, false); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	for _, path := range []string{jsonPath, mdPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected output file %s: %v", path, err)
		}
	}
}
