// Package reconcile maps free-text brand and model values from the stock
// table onto canonical catalog entries. Matching is an ordered list of
// strategies evaluated in sequence; the first hit wins and the catalog's
// fixed order is the only tie-break, so results are deterministic and
// re-running the reconciliation is idempotent.
package reconcile

import (
	"strings"

	"github.com/autocentru/dealer/internal/catalog"
)

// Tier identifies which strategy produced a match.
type Tier int

const (
	// TierExact means brand and model both matched case-insensitively.
	TierExact Tier = iota

	// TierSubstring means brand and model matched by symmetric substring
	// containment.
	TierSubstring

	// TierFallback means nothing matched and the first catalog entry's
	// brand and first model were returned.
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierFallback:
		return "fallback"
	}
	return "unknown"
}

// Match is a canonical (brand, model) pair drawn from the catalog. The input
// is never echoed back.
type Match struct {
	Brand string
	Model string
	Tier  Tier
}

type strategy struct {
	tier  Tier
	match func(brand, model string, cat catalog.Catalog) (string, string, bool)
}

var strategies = []strategy{
	{TierExact, matchExact},
	{TierSubstring, matchSubstring},
}

// Reconcile finds the best canonical match for a free-text brand/model pair.
// It never fails: when no strategy matches it falls back to the first
// catalog entry, a deterministic default the batch job relies on. The
// compiled-in catalog is never empty; an empty one is a programming error.
func Reconcile(brand, model string, cat catalog.Catalog) Match {
	if len(cat) == 0 {
		panic("reconcile: empty catalog")
	}

	for _, s := range strategies {
		if b, m, ok := s.match(brand, model, cat); ok {
			return Match{Brand: b, Model: m, Tier: s.tier}
		}
	}
	return Match{Brand: cat[0].Brand, Model: cat[0].Models[0], Tier: TierFallback}
}

func matchExact(brand, model string, cat catalog.Catalog) (string, string, bool) {
	for _, entry := range cat {
		if !strings.EqualFold(entry.Brand, brand) {
			continue
		}
		for _, m := range entry.Models {
			if strings.EqualFold(m, model) {
				return entry.Brand, m, true
			}
		}
	}
	return "", "", false
}

func matchSubstring(brand, model string, cat catalog.Catalog) (string, string, bool) {
	for _, entry := range cat {
		if !containsEitherWay(entry.Brand, brand) {
			continue
		}
		for _, m := range entry.Models {
			if containsEitherWay(m, model) {
				return entry.Brand, m, true
			}
		}
	}
	return "", "", false
}

// containsEitherWay tests case-insensitive substring containment in both
// directions, so "BMW X" matches catalog brand "BMW" and vice versa.
func containsEitherWay(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
