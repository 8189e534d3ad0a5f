package model

import "time"

// Report is the complete render output for one case: the renderable tree
// plus the context it was produced under. This is what the output writers
// and the HTTP surface hand to consumers.
type Report struct {
	CaseID      string        `json:"case_id"`
	Service     string        `json:"service"`
	Law         string        `json:"law"`
	Claimant    string        `json:"claimant,omitempty"`
	CanApprove  bool          `json:"can_approve"`
	RenderedAt  time.Time     `json:"rendered_at"`
	FromCache   bool          `json:"from_cache,omitempty"`
	Tree        *RenderedNode `json:"tree"`
	Explanation *Explanation  `json:"explanation,omitempty"` // Optional, never affects the tree
}

// CountLeaves returns the number of leaf fields in the report, a cheap
// summary statistic for verbose output.
func (r *Report) CountLeaves() int {
	return countLeaves(r.Tree)
}

// CountOverlays returns the number of nodes carrying a claim overlay.
func (r *Report) CountOverlays() int {
	return countOverlays(r.Tree)
}

func countLeaves(node *RenderedNode) int {
	if node == nil {
		return 0
	}
	if node.Kind == KindLeaf {
		return 1
	}
	total := 0
	for _, child := range node.Children {
		total += countLeaves(child)
	}
	return total
}

func countOverlays(node *RenderedNode) int {
	if node == nil {
		return 0
	}
	total := 0
	if node.Overlay != nil {
		total++
	}
	for _, child := range node.Children {
		total += countOverlays(child)
	}
	return total
}
