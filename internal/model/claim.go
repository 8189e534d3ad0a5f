package model

// ClaimStatus is the review lifecycle state of a claim
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "PENDING"  // Submitted, awaiting review
	StatusApproved ClaimStatus = "APPROVED" // Accepted by a reviewer
	StatusRejected ClaimStatus = "REJECTED" // Withdrawn; terminal
)

// Valid reports whether s is one of the three known lifecycle states.
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
// The only legal transitions are PENDING→APPROVED, PENDING→REJECTED and
// APPROVED→REJECTED. REJECTED is terminal; a resubmission is a new claim.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusRejected
	}
	return false
}

// Claim is a user-submitted correction for a single field, identified by the
// composite (service, law, field) key and carrying a lifecycle status.
type Claim struct {
	ID         string      `json:"id" yaml:"id"`
	ServiceKey string      `json:"service_key" yaml:"service_key"`
	LawKey     string      `json:"law_key" yaml:"law_key"`
	FieldKey   string      `json:"field_key" yaml:"field_key"`
	NewValue   any         `json:"new_value" yaml:"new_value"`
	Status     ClaimStatus `json:"status" yaml:"status"`
	Claimant   string      `json:"claimant,omitempty" yaml:"claimant,omitempty"`
}

// Key returns the composite lookup key for this claim.
func (c Claim) Key() ClaimKey {
	return ClaimKey{Service: c.ServiceKey, Law: c.LawKey, Field: c.FieldKey}
}

// ClaimKey is the (service, law, field) triple correlating a leaf node with
// its claim. A single comparable struct keeps the lookup O(1) and the
// one-live-claim-per-key invariant enforceable.
type ClaimKey struct {
	Service string
	Law     string
	Field   string
}

// ClaimMap holds at most one live claim per composite key. History and
// supersession are the claims service's concern; the renderer only ever sees
// the current snapshot.
type ClaimMap map[ClaimKey]Claim

// BuildClaimMap folds a claim list into a snapshot. Later entries supersede
// earlier ones on the same key, matching the claims service's last-writer view.
func BuildClaimMap(claims []Claim) ClaimMap {
	m := make(ClaimMap, len(claims))
	for _, c := range claims {
		m[c.Key()] = c
	}
	return m
}
