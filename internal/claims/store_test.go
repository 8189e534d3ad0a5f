package claims

import (
	"errors"
	"testing"

	"github.com/rvanwijk/caseview/internal/model"
)

func TestStore_SubmitCreatesPendingClaim(t *testing.T) {
	store := NewStore()

	claim, err := store.Submit("svc", "lawA", "income", 1500, "citizen-42")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claim.ID == "" {
		t.Error("Expected a generated claim ID")
	}
	if claim.Status != model.StatusPending {
		t.Errorf("Expected PENDING, got %v", claim.Status)
	}

	snapshot := store.Snapshot()
	key := model.ClaimKey{Service: "svc", Law: "lawA", Field: "income"}
	if got, ok := snapshot[key]; !ok || got.ID != claim.ID {
		t.Errorf("Expected submitted claim in snapshot, got %+v", snapshot)
	}
}

func TestStore_SubmitRequiresCompleteKey(t *testing.T) {
	store := NewStore()

	if _, err := store.Submit("svc", "", "income", 1, ""); err == nil {
		t.Error("Expected error for incomplete composite key")
	}
}

func TestStore_SubmitSupersedesLiveClaim(t *testing.T) {
	store := NewStore()

	first, _ := store.Submit("svc", "lawA", "income", 1500, "a")
	second, _ := store.Submit("svc", "lawA", "income", 1600, "b")

	snapshot := store.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("Expected one live claim per key, got %d", len(snapshot))
	}
	key := model.ClaimKey{Service: "svc", Law: "lawA", Field: "income"}
	if snapshot[key].ID != second.ID {
		t.Errorf("Expected the later claim to be live, got %s", snapshot[key].ID)
	}

	// The superseded claim is still retrievable by ID.
	if _, ok := store.Get(first.ID); !ok {
		t.Error("Expected superseded claim to remain retrievable")
	}
}

func TestStore_ApproveThenReject(t *testing.T) {
	store := NewStore()
	claim, _ := store.Submit("svc", "lawA", "income", 1500, "")

	approved, err := store.Approve(claim.ID)
	if err != nil {
		t.Fatalf("Expected approve to succeed, got %v", err)
	}
	if approved.Status != model.StatusApproved {
		t.Errorf("Expected APPROVED, got %v", approved.Status)
	}

	// Un-approving is allowed.
	rejected, err := store.Reject(claim.ID)
	if err != nil {
		t.Fatalf("Expected reject of approved claim to succeed, got %v", err)
	}
	if rejected.Status != model.StatusRejected {
		t.Errorf("Expected REJECTED, got %v", rejected.Status)
	}
}

func TestStore_RejectedIsTerminal(t *testing.T) {
	store := NewStore()
	claim, _ := store.Submit("svc", "lawA", "income", 1500, "")
	if _, err := store.Reject(claim.ID); err != nil {
		t.Fatalf("Expected reject to succeed, got %v", err)
	}

	if _, err := store.Approve(claim.ID); err == nil {
		t.Error("Expected approve of rejected claim to fail")
	}
	if _, err := store.Reject(claim.ID); err == nil {
		t.Error("Expected reject of rejected claim to fail")
	}
}

func TestStore_ApproveTwiceFails(t *testing.T) {
	store := NewStore()
	claim, _ := store.Submit("svc", "lawA", "income", 1500, "")
	if _, err := store.Approve(claim.ID); err != nil {
		t.Fatalf("Expected first approve to succeed, got %v", err)
	}
	if _, err := store.Approve(claim.ID); err == nil {
		t.Error("Expected second approve to fail")
	}
}

func TestStore_UnknownClaim(t *testing.T) {
	store := NewStore()

	_, err := store.Approve("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_Seed(t *testing.T) {
	store := NewStore()

	err := store.Seed([]model.Claim{
		{ServiceKey: "svc", LawKey: "lawA", FieldKey: "income", NewValue: 1500, Status: model.StatusApproved},
		{ServiceKey: "svc", LawKey: "lawA", FieldKey: "rent", NewValue: 800}, // status defaults to PENDING
	})
	if err != nil {
		t.Fatalf("Expected seed to succeed, got %v", err)
	}

	snapshot := store.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 live claims, got %d", len(snapshot))
	}
	rent := snapshot[model.ClaimKey{Service: "svc", Law: "lawA", Field: "rent"}]
	if rent.Status != model.StatusPending {
		t.Errorf("Expected defaulted PENDING status, got %v", rent.Status)
	}
	if rent.ID == "" {
		t.Error("Expected generated ID for seeded claim")
	}
}

func TestStore_AllPreservesSubmissionOrder(t *testing.T) {
	store := NewStore()

	first, _ := store.Submit("svc", "lawA", "income", 1500, "")
	second, _ := store.Submit("svc", "lawA", "income", 1600, "")
	if _, err := store.Approve(second.ID); err != nil {
		t.Fatalf("Expected approve to succeed, got %v", err)
	}

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("Expected both claims including the superseded one, got %d", len(all))
	}
	if all[0].ID != first.ID || all[1].ID != second.ID {
		t.Errorf("Expected submission order, got [%s %s]", all[0].ID, all[1].ID)
	}
	if all[1].Status != model.StatusApproved {
		t.Errorf("Expected transition reflected in All, got %v", all[1].Status)
	}

	// Round trip: seeding All reproduces the same live set.
	reloaded := NewStore()
	if err := reloaded.Seed(all); err != nil {
		t.Fatalf("Expected seed to succeed, got %v", err)
	}
	key := model.ClaimKey{Service: "svc", Law: "lawA", Field: "income"}
	if reloaded.Snapshot()[key].ID != second.ID {
		t.Errorf("Expected later claim live after round trip")
	}
}

func TestStore_SeedRejectsUnknownStatus(t *testing.T) {
	store := NewStore()

	err := store.Seed([]model.Claim{
		{ServiceKey: "svc", LawKey: "lawA", FieldKey: "income", Status: "DISPUTED"},
	})
	if err == nil {
		t.Error("Expected error for unknown status")
	}
}
