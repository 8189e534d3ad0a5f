package render

import (
	"reflect"
	"testing"

	"github.com/rvanwijk/caseview/internal/model"
)

func sampleTree() *model.ResultNode {
	return &model.ResultNode{
		Key:     "result",
		Service: "TOESLAGEN",
		Law:     "zorgtoeslagwet",
		Value:   map[string]any{"result": 1234.5},
		Children: []*model.ResultNode{
			{Key: "income", Value: 1234.5, Required: true},
			{Key: "has_partner", Value: false},
			{
				Key:     "aow_result",
				Service: "SVB",
				Law:     "algemene_ouderdomswet",
				Value:   map[string]any{"result": true},
				Children: []*model.ResultNode{
					{Key: "pension_age", Value: 67, Required: true},
				},
			},
		},
	}
}

func TestRenderer_LeafFormatting(t *testing.T) {
	r := NewRenderer("case-1", "citizen-42")

	rendered := r.Render(sampleTree(), "", "", model.ClaimMap{}, false)
	if rendered.Kind != model.KindSubResult {
		t.Fatalf("Expected root to be a sub-result, got %v", rendered.Kind)
	}
	if len(rendered.Children) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(rendered.Children))
	}

	income := rendered.Children[0]
	if income.Kind != model.KindLeaf {
		t.Errorf("Expected income to be a leaf, got %v", income.Kind)
	}
	if income.Display != "1234.50000" {
		t.Errorf("Expected display '1234.50000', got %q", income.Display)
	}
	if income.Missing {
		t.Error("Expected income not to be marked missing")
	}
}

func TestRenderer_MissingRequiredLeaf(t *testing.T) {
	r := NewRenderer("case-1", "citizen-42")
	tree := &model.ResultNode{Key: "income", Value: nil, Required: true}

	rendered := r.Render(tree, "svc", "lawA", model.ClaimMap{}, false)
	if rendered.Display != MissingRequired {
		t.Errorf("Expected required-missing marker, got %q", rendered.Display)
	}
	if !rendered.Missing || !rendered.Required {
		t.Errorf("Expected Missing and Required set, got missing=%v required=%v", rendered.Missing, rendered.Required)
	}
}

func TestRenderer_ContextInheritance(t *testing.T) {
	r := NewRenderer("case-1", "citizen-42")

	// The claim targets the nested section's context, not the root's.
	claims := model.BuildClaimMap([]model.Claim{{
		ID:         "claim-9",
		ServiceKey: "SVB",
		LawKey:     "algemene_ouderdomswet",
		FieldKey:   "pension_age",
		NewValue:   66,
		Status:     model.StatusPending,
	}})

	rendered := r.Render(sampleTree(), "", "", claims, true)

	section := rendered.Children[2]
	if section.Service != "SVB" || section.Law != "algemene_ouderdomswet" {
		t.Fatalf("Expected section to carry its own context, got %s/%s", section.Service, section.Law)
	}

	leaf := section.Children[0]
	if leaf.Service != "SVB" {
		t.Errorf("Expected child to inherit nearest ancestor's service, got %q", leaf.Service)
	}
	if leaf.Overlay == nil {
		t.Fatal("Expected overlay resolved against inherited context")
	}
	if leaf.Overlay.Value != 66 {
		t.Errorf("Expected overlay value 66, got %v", leaf.Overlay.Value)
	}

	// The same field key directly under the root must not pick up the claim.
	income := rendered.Children[0]
	if income.Overlay != nil {
		t.Errorf("Expected no overlay on root-context leaf, got %+v", income.Overlay)
	}
}

func TestRenderer_OverlayActionsOnLeaf(t *testing.T) {
	r := NewRenderer("case-1", "citizen-42")
	tree := &model.ResultNode{Key: "income", Value: 1234, Required: true}
	claims := model.BuildClaimMap([]model.Claim{{
		ID:         "claim-1",
		ServiceKey: "svc",
		LawKey:     "lawA",
		FieldKey:   "income",
		NewValue:   1500,
		Status:     model.StatusPending,
	}})

	rendered := r.Render(tree, "svc", "lawA", claims, true)
	if rendered.Overlay == nil {
		t.Fatal("Expected overlay on leaf with matching claim")
	}
	if rendered.Overlay.Value != 1500 {
		t.Errorf("Expected overlay value 1500, got %v", rendered.Overlay.Value)
	}
	want := []model.ClaimAction{model.ActionApprove, model.ActionReject}
	if !reflect.DeepEqual(rendered.Overlay.Actions, want) {
		t.Errorf("Expected actions %v, got %v", want, rendered.Overlay.Actions)
	}
}

func TestRenderer_EditDescriptorOnLeaves(t *testing.T) {
	r := NewRenderer("case-7", "citizen-42")

	rendered := r.Render(sampleTree(), "", "", model.ClaimMap{}, false)

	leaf := rendered.Children[0]
	if leaf.Edit == nil {
		t.Fatal("Expected edit descriptor on leaf")
	}
	want := &model.EditAction{
		CaseID:       "case-7",
		Service:      "TOESLAGEN",
		Law:          "zorgtoeslagwet",
		Key:          "income",
		CurrentValue: 1234.5,
		Claimant:     "citizen-42",
	}
	if !reflect.DeepEqual(leaf.Edit, want) {
		t.Errorf("Edit descriptor = %+v, want %+v", leaf.Edit, want)
	}

	if rendered.Edit != nil {
		t.Error("Expected no edit descriptor on a sub-result section")
	}
}

func TestRenderer_MalformedSubResultFallsBackToLeaf(t *testing.T) {
	r := NewRenderer("case-1", "")

	tests := []struct {
		name string
		node *model.ResultNode
	}{
		{
			"children without service",
			&model.ResultNode{
				Key:      "x",
				Value:    map[string]any{"result": 1},
				Children: []*model.ResultNode{{Key: "y", Value: 2}},
			},
		},
		{
			"service without result value",
			&model.ResultNode{
				Key:      "x",
				Service:  "svc",
				Value:    map[string]any{"outcome": 1},
				Children: []*model.ResultNode{{Key: "y", Value: 2}},
			},
		},
		{
			"empty children",
			&model.ResultNode{
				Key:     "x",
				Service: "svc",
				Value:   map[string]any{"result": 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := r.Render(tt.node, "svc", "lawA", model.ClaimMap{}, false)
			if rendered.Kind != model.KindLeaf {
				t.Errorf("Expected leaf fallback, got %v", rendered.Kind)
			}
		})
	}
}

func TestRenderer_SubResultSummaryAndHeader(t *testing.T) {
	r := NewRenderer("case-1", "")

	rendered := r.Render(sampleTree(), "", "", model.ClaimMap{}, false)
	if rendered.Label != "Zorgtoeslagwet" {
		t.Errorf("Expected humanized law header 'Zorgtoeslagwet', got %q", rendered.Label)
	}
	if rendered.Display != "1234.50000" {
		t.Errorf("Expected inline summary '1234.50000', got %q", rendered.Display)
	}

	section := rendered.Children[2]
	if section.Label != "Algemene ouderdomswet" {
		t.Errorf("Expected humanized header 'Algemene ouderdomswet', got %q", section.Label)
	}
	if section.Display != "yes" {
		t.Errorf("Expected boolean summary 'yes', got %q", section.Display)
	}
}

func TestRenderer_ChildOrderIsPreserved(t *testing.T) {
	r := NewRenderer("case-1", "")

	rendered := r.Render(sampleTree(), "", "", model.ClaimMap{}, false)
	wantOrder := []string{"income", "has_partner", "aow_result"}
	for i, want := range wantOrder {
		if rendered.Children[i].Key != want {
			t.Errorf("Child %d = %q, want %q", i, rendered.Children[i].Key, want)
		}
	}
}

func TestRenderer_Idempotent(t *testing.T) {
	r := NewRenderer("case-1", "citizen-42")
	claims := claimFixture(model.StatusApproved)

	first := r.Render(sampleTree(), "", "", claims, true)
	second := r.Render(sampleTree(), "", "", claims, true)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical input")
	}
}

func TestHumanizeLaw(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"zorgtoeslagwet", "Zorgtoeslagwet"},
		{"algemene_ouderdomswet", "Algemene ouderdomswet"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := HumanizeLaw(tt.in); got != tt.want {
			t.Errorf("HumanizeLaw(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
