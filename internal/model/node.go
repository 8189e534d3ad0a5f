package model

// ResultNode is one node of the hierarchical computation-result tree produced
// by the rule-evaluation service. A node is either a plain leaf field or the
// output of a nested law computation (a sub-result). Trees are built fresh per
// render request and are read-only to this module.
type ResultNode struct {
	Key      string        `json:"key" yaml:"key"`                             // Field identifier, unique among siblings
	Value    any           `json:"value,omitempty" yaml:"value,omitempty"`     // Runtime value (nil, bool, number, sequence, mapping, string)
	Required bool          `json:"required,omitempty" yaml:"required,omitempty"` // Whether a missing value is a missing mandatory input
	Service  string        `json:"service,omitempty" yaml:"service,omitempty"` // Producing service; overrides inherited context when set
	Law      string        `json:"law,omitempty" yaml:"law,omitempty"`         // Producing law; overrides inherited context when set
	TypeSpec *TypeSpec     `json:"type_spec,omitempty" yaml:"type_spec,omitempty"`
	Children []*ResultNode `json:"children,omitempty" yaml:"children,omitempty"` // Ordered; present only for nested computation results
}

// NodeKind distinguishes the two renderable node shapes
type NodeKind string

const (
	KindLeaf      NodeKind = "leaf"       // Plain field, rendered inline
	KindSubResult NodeKind = "sub_result" // Nested law computation, rendered as a collapsible section
)

// Kind classifies the node. A node is a sub-result only when it simultaneously
// carries its own service, a non-empty child list, and a mapping value with a
// "result" entry. Anything malformed (children without a service, a service
// without a result value) deliberately falls back to leaf rendering.
func (n *ResultNode) Kind() NodeKind {
	if n.Service == "" || len(n.Children) == 0 {
		return KindLeaf
	}
	if _, ok := n.SubResultValue(); ok {
		return KindSubResult
	}
	return KindLeaf
}

// SubResultValue returns the nested computation outcome carried under the
// "result" entry of the node's mapping value, if present.
func (n *ResultNode) SubResultValue() (any, bool) {
	m, ok := n.Value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m["result"]
	return v, ok
}

// FindChild returns the direct child with the given key, or nil.
func (n *ResultNode) FindChild(key string) *ResultNode {
	for _, child := range n.Children {
		if child.Key == key {
			return child
		}
	}
	return nil
}
