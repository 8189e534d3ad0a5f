package cache

import (
	"testing"
	"time"

	"github.com/rvanwijk/caseview/internal/model"
)

func TestRenderKey_AllInputsAffectKey(t *testing.T) {
	base := RenderKey("tree-a", "claims-a", false)

	if RenderKey("tree-b", "claims-a", false) == base {
		t.Error("Expected tree digest to affect the key")
	}
	if RenderKey("tree-a", "claims-b", false) == base {
		t.Error("Expected claims digest to affect the key")
	}
	if RenderKey("tree-a", "claims-a", true) == base {
		t.Error("Expected permission flag to affect the key")
	}
	if RenderKey("tree-a", "claims-a", false) != base {
		t.Error("Expected identical inputs to produce identical keys")
	}
}

func TestClaimsDigest_Deterministic(t *testing.T) {
	claims := model.BuildClaimMap([]model.Claim{
		{ID: "1", ServiceKey: "a", LawKey: "l", FieldKey: "x", Status: model.StatusPending},
		{ID: "2", ServiceKey: "b", LawKey: "l", FieldKey: "y", Status: model.StatusApproved},
		{ID: "3", ServiceKey: "a", LawKey: "l", FieldKey: "z", Status: model.StatusRejected},
	})

	first := ClaimsDigest(claims)
	for i := 0; i < 20; i++ {
		if got := ClaimsDigest(claims); got != first {
			t.Fatalf("Claims digest not deterministic: %s vs %s", first, got)
		}
	}
}

func TestClaimsDigest_IgnoresGeneratedIDs(t *testing.T) {
	a := model.BuildClaimMap([]model.Claim{
		{ID: "1", ServiceKey: "a", LawKey: "l", FieldKey: "x", NewValue: 10, Status: model.StatusPending},
	})
	b := model.BuildClaimMap([]model.Claim{
		{ID: "2", ServiceKey: "a", LawKey: "l", FieldKey: "x", NewValue: 10, Status: model.StatusPending},
	})

	if ClaimsDigest(a) != ClaimsDigest(b) {
		t.Error("Expected ID-only differences not to affect the digest")
	}

	c := model.BuildClaimMap([]model.Claim{
		{ID: "1", ServiceKey: "a", LawKey: "l", FieldKey: "x", NewValue: 10, Status: model.StatusApproved},
	})
	if ClaimsDigest(a) == ClaimsDigest(c) {
		t.Error("Expected status change to affect the digest")
	}
}

func TestTreeDigest_ChangesWithTree(t *testing.T) {
	a := &model.ResultNode{Key: "income", Value: 1234}
	b := &model.ResultNode{Key: "income", Value: 1235}

	if TreeDigest(a) == TreeDigest(b) {
		t.Error("Expected different trees to have different digests")
	}
}

func renderedFixture() *model.RenderedNode {
	return &model.RenderedNode{
		Key:     "result",
		Kind:    model.KindSubResult,
		Label:   "Zorgtoeslagwet",
		Display: "1234.50000",
		Service: "TOESLAGEN",
		Law:     "zorgtoeslagwet",
		Children: []*model.RenderedNode{
			{Key: "income", Kind: model.KindLeaf, Display: "1234.50000", Service: "TOESLAGEN", Law: "zorgtoeslagwet"},
		},
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := RenderKey("t", "c", true)
	if err := c.Set(key, renderedFixture(), time.Minute); err != nil {
		t.Fatalf("Expected set to succeed, got %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("Expected cached tree back")
	}
	if got.Display != "1234.50000" || len(got.Children) != 1 {
		t.Errorf("Expected stored tree back, got %+v", got)
	}

	_ = c.Delete(key)
	if _, found := c.Get(key); found {
		t.Error("Expected key gone after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := RenderKey("t", "c", false)
	if err := c.Set(key, renderedFixture(), time.Minute); err != nil {
		t.Fatalf("Expected set to succeed, got %v", err)
	}
	got, found := c.Get(key)
	if !found {
		t.Fatal("Expected cached tree back")
	}
	if got.Children[0].Key != "income" {
		t.Errorf("Expected children to survive the round trip, got %+v", got.Children)
	}

	// An already-expired entry must not be served.
	if err := c.Set(key, renderedFixture(), -time.Second); err != nil {
		t.Fatalf("Expected set to succeed, got %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Expected expired entry to be a miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	key := RenderKey("t", "c", false)
	// Write through the disk layer only, simulating a fresh process.
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set(key, renderedFixture(), time.Minute); err != nil {
		t.Fatal(err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("Expected layered cache to find disk entry")
	}
	if got.Key != "result" {
		t.Errorf("Expected stored tree back, got %+v", got)
	}
}
