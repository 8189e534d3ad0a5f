package render

import "github.com/rvanwijk/caseview/internal/model"

// ResolveOverlay looks up the composite (service, law, field) key in the
// claim snapshot. It returns nil when no claim exists, which is the common
// case, not an error. The overlay carries the claim's proposed value verbatim
// and the actions valid for its current lifecycle state.
//
// canApprove is supplied by the caller; who may approve is the claims
// service's policy, not this module's.
func ResolveOverlay(service, law, field string, claims model.ClaimMap, canApprove bool) *model.Overlay {
	claim, ok := claims[model.ClaimKey{Service: service, Law: law, Field: field}]
	if !ok {
		return nil
	}

	return &model.Overlay{
		ClaimID:  claim.ID,
		Value:    claim.NewValue,
		Status:   claim.Status,
		Claimant: claim.Claimant,
		Actions:  ActionsFor(claim.Status, canApprove),
	}
}

// ActionsFor returns the review actions the renderer may offer for a claim
// in the given state:
//
//	PENDING  → REJECT, plus APPROVE when the render context may approve
//	APPROVED → REJECT (un-approving)
//	REJECTED → nothing; terminal, rendered as a withdrawn badge
func ActionsFor(status model.ClaimStatus, canApprove bool) []model.ClaimAction {
	switch status {
	case model.StatusPending:
		if canApprove {
			return []model.ClaimAction{model.ActionApprove, model.ActionReject}
		}
		return []model.ClaimAction{model.ActionReject}
	case model.StatusApproved:
		return []model.ClaimAction{model.ActionReject}
	default:
		return []model.ClaimAction{}
	}
}
