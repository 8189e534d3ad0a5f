package claims

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rvanwijk/caseview/internal/model"
)

// ErrNotFound is returned when a claim ID does not exist in the store.
var ErrNotFound = errors.New("claim not found")

// Store is an in-memory claims collaborator. It owns claim lifecycle
// transitions and hands out read-only snapshots for rendering; the renderer
// itself never mutates claim state. Disallowed transitions are rejected here,
// at the boundary where actions are accepted.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]model.Claim
	live  map[model.ClaimKey]string // composite key → ID of the current live claim
	order []string                  // IDs in submission order, superseded ones included
}

// NewStore creates an empty claims store.
func NewStore() *Store {
	return &Store{
		byID: make(map[string]model.Claim),
		live: make(map[model.ClaimKey]string),
	}
}

// Submit records a new PENDING claim for the composite key. A previously live
// claim on the same key is superseded: it stays retrievable by ID but no
// longer appears in snapshots, keeping at most one live claim per key.
func (s *Store) Submit(service, law, field string, newValue any, claimant string) (model.Claim, error) {
	if service == "" || law == "" || field == "" {
		return model.Claim{}, fmt.Errorf("incomplete composite key (%q, %q, %q)", service, law, field)
	}

	claim := model.Claim{
		ID:         uuid.NewString(),
		ServiceKey: service,
		LawKey:     law,
		FieldKey:   field,
		NewValue:   newValue,
		Status:     model.StatusPending,
		Claimant:   claimant,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[claim.ID] = claim
	s.live[claim.Key()] = claim.ID
	s.order = append(s.order, claim.ID)
	return claim, nil
}

// Approve transitions a claim to APPROVED. Only PENDING claims may be
// approved.
func (s *Store) Approve(claimID string) (model.Claim, error) {
	return s.transition(claimID, model.StatusApproved)
}

// Reject transitions a claim to REJECTED. Valid from PENDING and from
// APPROVED (un-approving); REJECTED is terminal.
func (s *Store) Reject(claimID string) (model.Claim, error) {
	return s.transition(claimID, model.StatusRejected)
}

func (s *Store) transition(claimID string, next model.ClaimStatus) (model.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.byID[claimID]
	if !ok {
		return model.Claim{}, fmt.Errorf("%w: %s", ErrNotFound, claimID)
	}
	if !claim.Status.CanTransitionTo(next) {
		return model.Claim{}, fmt.Errorf("invalid transition %s → %s for claim %s", claim.Status, next, claimID)
	}

	claim.Status = next
	s.byID[claimID] = claim
	return claim, nil
}

// Get returns a claim by ID, including superseded ones.
func (s *Store) Get(claimID string) (model.Claim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.byID[claimID]
	return claim, ok
}

// Snapshot returns the current live claim per composite key. The returned
// map is a copy; renders hold it without further coordination.
func (s *Store) Snapshot() model.ClaimMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(model.ClaimMap, len(s.live))
	for key, id := range s.live {
		snapshot[key] = s.byID[id]
	}
	return snapshot
}

// Seed loads existing claims, e.g. from a case file. Claims must carry a
// valid status and a complete composite key; IDs are generated when absent.
// Later entries supersede earlier ones on the same key.
func (s *Store) Seed(claims []model.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, claim := range claims {
		if claim.ServiceKey == "" || claim.LawKey == "" || claim.FieldKey == "" {
			return fmt.Errorf("claim %d: incomplete composite key", i)
		}
		if claim.Status == "" {
			claim.Status = model.StatusPending
		}
		if !claim.Status.Valid() {
			return fmt.Errorf("claim %d: unknown status %q", i, claim.Status)
		}
		if claim.ID == "" {
			claim.ID = uuid.NewString()
		}
		s.byID[claim.ID] = claim
		s.live[claim.Key()] = claim.ID
		s.order = append(s.order, claim.ID)
	}
	return nil
}

// All returns every claim in submission order, superseded ones included.
// Round-tripping All through Seed reproduces the same live set.
func (s *Store) All() []model.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Claim, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.byID[id])
	}
	return all
}
