package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rvanwijk/caseview/internal/model"
)

// Cache defines the interface for caching rendered trees. Entries are whole
// trees keyed by render key; how each layer stores them is its own business.
type Cache interface {
	Get(key string) (*model.RenderedNode, bool)
	Set(key string, tree *model.RenderedNode, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// RenderKey generates the cache key for one render. Tree identity, claim
// snapshot identity and the permission flag all affect the output, so all
// three are part of the key.
func RenderKey(treeDigest, claimsDigest string, canApprove bool) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%t", treeDigest, claimsDigest, canApprove)))
	return "caseview:v1:" + hex.EncodeToString(hash[:])
}

// TreeDigest fingerprints a result tree via its canonical JSON form.
func TreeDigest(node *model.ResultNode) string {
	return digestJSON(node)
}

// claimFingerprint is the cache-relevant part of a claim. The ID is excluded:
// IDs are regenerated for claims seeded without one, and two snapshots that
// differ only in generated IDs render the same tree.
type claimFingerprint struct {
	Service  string            `json:"service"`
	Law      string            `json:"law"`
	Field    string            `json:"field"`
	NewValue any               `json:"new_value"`
	Status   model.ClaimStatus `json:"status"`
	Claimant string            `json:"claimant"`
}

// ClaimsDigest fingerprints a claim snapshot. Map iteration order is not
// stable, so claims are sorted by composite key before hashing.
func ClaimsDigest(claims model.ClaimMap) string {
	keys := make([]model.ClaimKey, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		if a.Law != b.Law {
			return a.Law < b.Law
		}
		return a.Field < b.Field
	})

	ordered := make([]claimFingerprint, 0, len(keys))
	for _, k := range keys {
		c := claims[k]
		ordered = append(ordered, claimFingerprint{
			Service:  c.ServiceKey,
			Law:      c.LawKey,
			Field:    c.FieldKey,
			NewValue: c.NewValue,
			Status:   c.Status,
			Claimant: c.Claimant,
		})
	}
	return digestJSON(ordered)
}

func digestJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Unmarshalable values cannot be fingerprinted; an empty digest
		// disables cache hits for them rather than failing the render.
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
