package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rvanwijk/caseview/internal/model"
)

// Writer renders reports to their output formats
type Writer struct {
	includeFooter bool
}

// NewWriter creates a new writer
func NewWriter(includeFooter bool) *Writer {
	return &Writer{includeFooter: includeFooter}
}

// WriteJSON writes the report as indented JSON
func (w *Writer) WriteJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// WriteMarkdown writes the report as a nested markdown document
func (w *Writer) WriteMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(w.Markdown(report)), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// WriteExplanationMarkdown writes a pre-rendered explanation document
func (w *Writer) WriteExplanationMarkdown(markdown, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write explanation markdown: %w", err)
	}
	return nil
}

// Markdown renders the report body. Sub-results become nested sections,
// leaves become list entries with their overlay and status badges inline.
func (w *Writer) Markdown(report *model.Report) string {
	var b strings.Builder

	title := report.CaseID
	if report.Tree != nil && report.Tree.Label != "" {
		title = fmt.Sprintf("%s — %s", report.CaseID, report.Tree.Label)
	}
	b.WriteString(fmt.Sprintf("# %s\n\n", title))
	b.WriteString(fmt.Sprintf("Rendered: %s\n\n", report.RenderedAt.Format("2006-01-02 15:04:05 MST")))

	writeNode(&b, report.Tree, 2)

	if w.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Produced by caseview. Values marked as corrections are proposals under review, not established facts.\n")
	}

	return b.String()
}

func writeNode(b *strings.Builder, node *model.RenderedNode, depth int) {
	if node == nil {
		return
	}

	if node.Kind == model.KindSubResult {
		// Heading level is clamped; very deep nesting stays readable as h6
		level := depth
		if level > 6 {
			level = 6
		}
		b.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", level), node.Label))
		b.WriteString(fmt.Sprintf("Result: %s%s\n\n", node.Display, badges(node)))
		for _, child := range node.Children {
			writeNode(b, child, depth+1)
		}
		return
	}

	b.WriteString(fmt.Sprintf("- **%s**: %s%s\n", node.Key, node.Display, badges(node)))
}

// badges renders the inline annotations for a node: missing-data urgency and
// the claim overlay with its currently valid actions.
func badges(node *model.RenderedNode) string {
	var parts []string

	if node.Missing && node.Required {
		parts = append(parts, "❗ required")
	}

	if o := node.Overlay; o != nil {
		switch o.Status {
		case model.StatusRejected:
			parts = append(parts, "correction withdrawn")
		default:
			badge := fmt.Sprintf("correction %s: %v", strings.ToLower(string(o.Status)), o.Value)
			if len(o.Actions) > 0 {
				actions := make([]string, len(o.Actions))
				for i, a := range o.Actions {
					actions[i] = strings.ToLower(string(a))
				}
				badge += fmt.Sprintf(" (%s)", strings.Join(actions, "/"))
			}
			parts = append(parts, badge)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return " _[" + strings.Join(parts, "; ") + "]_"
}

// PrintSummary writes a short human summary to stdout
func (w *Writer) PrintSummary(report *model.Report) {
	fmt.Printf("Case:     %s\n", report.CaseID)
	fmt.Printf("Law:      %s (%s)\n", report.Law, report.Service)
	if report.Tree != nil {
		fmt.Printf("Result:   %s\n", report.Tree.Display)
	}
	fmt.Printf("Fields:   %d\n", report.CountLeaves())
	if n := report.CountOverlays(); n > 0 {
		fmt.Printf("Claims:   %d field(s) under correction\n", n)
	}
	if report.FromCache {
		fmt.Printf("Source:   cache\n")
	}
	if report.Explanation != nil && report.Explanation.Enabled {
		fmt.Printf("Explained by %s/%s\n", report.Explanation.Provider, report.Explanation.Model)
	}
}
