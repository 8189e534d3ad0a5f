package render

import (
	"strings"
	"unicode"

	"github.com/rvanwijk/caseview/internal/model"
)

// Renderer walks a result tree and produces its renderable mirror. It keeps
// no state across calls beyond the case context it was constructed with, so
// rendering the same (tree, claims, permission) triple always yields the
// same output and concurrent renders need no coordination.
type Renderer struct {
	caseID   string
	claimant string
}

// NewRenderer creates a renderer for one case. claimant identifies the user
// on whose behalf edit actions would be opened.
func NewRenderer(caseID, claimant string) *Renderer {
	return &Renderer{caseID: caseID, claimant: claimant}
}

// Render renders the tree rooted at node. inheritedService and inheritedLaw
// seed the context for nodes that do not carry their own; the root of a case
// usually carries both.
func (r *Renderer) Render(node *model.ResultNode, inheritedService, inheritedLaw string, claims model.ClaimMap, canApprove bool) *model.RenderedNode {
	if node == nil {
		return nil
	}

	// A node's own service/law override the inherited context for itself
	// and everything below it.
	service := inheritedService
	if node.Service != "" {
		service = node.Service
	}
	law := inheritedLaw
	if node.Law != "" {
		law = node.Law
	}

	switch node.Kind() {
	case model.KindSubResult:
		return r.renderSubResult(node, service, law, claims, canApprove)
	default:
		return r.renderLeaf(node, service, law, claims, canApprove)
	}
}

// renderSubResult produces a collapsible section: a humanized law header, an
// inline summary of the nested computation's outcome rendered like a leaf
// value, and the recursively rendered children in their original order.
func (r *Renderer) renderSubResult(node *model.ResultNode, service, law string, claims model.ClaimMap, canApprove bool) *model.RenderedNode {
	summary, _ := node.SubResultValue()

	rendered := &model.RenderedNode{
		Key:      node.Key,
		Kind:     model.KindSubResult,
		Label:    HumanizeLaw(law),
		Display:  Format(summary, node.Required),
		Missing:  summary == nil,
		Required: node.Required,
		Service:  service,
		Law:      law,
		Overlay:  ResolveOverlay(service, law, node.Key, claims, canApprove),
		Children: make([]*model.RenderedNode, 0, len(node.Children)),
	}

	for _, child := range node.Children {
		rendered.Children = append(rendered.Children, r.Render(child, service, law, claims, canApprove))
	}

	return rendered
}

// renderLeaf produces an inline field: formatted value, claim overlay keyed
// on the effective context, and an edit descriptor for the external edit
// flow. The renderer never performs the edit itself.
func (r *Renderer) renderLeaf(node *model.ResultNode, service, law string, claims model.ClaimMap, canApprove bool) *model.RenderedNode {
	return &model.RenderedNode{
		Key:      node.Key,
		Kind:     model.KindLeaf,
		Display:  Format(node.Value, node.Required),
		Missing:  node.Value == nil,
		Required: node.Required,
		Service:  service,
		Law:      law,
		Overlay:  ResolveOverlay(service, law, node.Key, claims, canApprove),
		Edit: &model.EditAction{
			CaseID:       r.caseID,
			Service:      service,
			Law:          law,
			Key:          node.Key,
			CurrentValue: node.Value,
			Claimant:     r.claimant,
		},
	}
}

// HumanizeLaw turns a law key like "zorgtoeslagwet" or "algemene_ouderdomswet"
// into a section header: underscores become spaces, the first letter is
// capitalized.
func HumanizeLaw(law string) string {
	s := strings.ReplaceAll(law, "_", " ")
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
