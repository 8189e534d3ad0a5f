package model

// ClaimAction is a review action currently offered on a claim overlay
type ClaimAction string

const (
	ActionApprove ClaimAction = "APPROVE"
	ActionReject  ClaimAction = "REJECT"
)

// Overlay is the claim-derived decoration shown alongside a leaf's base value:
// the proposed replacement value exactly as submitted, plus the actions valid
// for the claim's current lifecycle state.
type Overlay struct {
	ClaimID  string        `json:"claim_id"`
	Value    any           `json:"value"` // The claim's NewValue, verbatim, never reformatted
	Status   ClaimStatus   `json:"status"`
	Claimant string        `json:"claimant,omitempty"`
	Actions  []ClaimAction `json:"actions"`
}

// HasAction reports whether the overlay currently offers the given action.
func (o *Overlay) HasAction(action ClaimAction) bool {
	for _, a := range o.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// EditAction describes everything an external edit flow needs to open a
// correction form for a field. The renderer only describes the action, it
// never performs the edit.
type EditAction struct {
	CaseID       string `json:"case_id"`
	Service      string `json:"service"`
	Law          string `json:"law"`
	Key          string `json:"key"`
	CurrentValue any    `json:"current_value"`
	Claimant     string `json:"claimant,omitempty"`
}

// ApproveRequest is the descriptor dispatched to the external approve-claim
// interface.
type ApproveRequest struct {
	ClaimID string `json:"claim_id"`
}

// RejectRequest is the descriptor dispatched to the external reject-claim
// interface.
type RejectRequest struct {
	ClaimID string `json:"claim_id"`
}

// RenderedNode mirrors a ResultNode in renderable form: the display string for
// its value, the claim overlay if one applies, the edit descriptor for leaves,
// and recursively rendered children for sub-result sections.
type RenderedNode struct {
	Key      string          `json:"key"`
	Kind     NodeKind        `json:"kind"`
	Label    string          `json:"label,omitempty"` // Humanized law name, set on sub-result sections
	Display  string          `json:"display"`
	Missing  bool            `json:"missing,omitempty"`
	Required bool            `json:"required,omitempty"`
	Service  string          `json:"service"` // Effective service after context inheritance
	Law      string          `json:"law"`     // Effective law after context inheritance
	Overlay  *Overlay        `json:"overlay,omitempty"`
	Edit     *EditAction     `json:"edit,omitempty"`
	Children []*RenderedNode `json:"children,omitempty"`
}
