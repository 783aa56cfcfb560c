package suggest

import (
	"sort"

	"github.com/cognicore/gourmet/pkg/gourmet/review"
	"github.com/cognicore/gourmet/pkg/gourmet/taxonomy"
)

// Ranker turns negative-review counts per category into a ranked action
// list using a fixed rule catalog.
type Ranker struct {
	catalog taxonomy.Catalog
}

// NewRanker creates a ranker over catalog.
func NewRanker(catalog taxonomy.Catalog) *Ranker {
	return &Ranker{catalog: catalog}
}

// Rank emits one record per rule of every category with a positive count,
// stamped with that count. Records are ordered by issue count descending,
// then priority ascending; category name settles equal pairs so output
// never depends on map iteration.
func (r *Ranker) Rank(counts map[review.Category]int) []review.SuggestionRecord {
	out := make([]review.SuggestionRecord, 0)
	for cat, n := range counts {
		if n <= 0 {
			continue
		}
		for _, rule := range r.catalog.RulesFor(cat) {
			out = append(out, review.SuggestionRecord{
				Category:     cat,
				Suggestion:   rule.Suggestion,
				Severity:     rule.Severity,
				ResourceCost: rule.Resources,
				PriorityRank: rule.Priority,
				IssueCount:   n,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IssueCount != b.IssueCount {
			return a.IssueCount > b.IssueCount
		}
		if a.PriorityRank != b.PriorityRank {
			return a.PriorityRank < b.PriorityRank
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Suggestion < b.Suggestion
	})
	return out
}
