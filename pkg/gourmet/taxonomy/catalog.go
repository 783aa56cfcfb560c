package taxonomy

import (
	"fmt"

	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// Rule is one remediation entry of the suggestion catalog.
type Rule struct {
	Suggestion string `yaml:"suggestion"`
	Severity   string `yaml:"severity"`
	Resources  string `yaml:"resources"`
	Priority   int    `yaml:"priority"`
}

// Catalog maps a category to its ordered rule list.
type Catalog map[review.Category][]Rule

// RulesFor returns the rules of cat. Categories without a dedicated list
// use the food rules.
func (c Catalog) RulesFor(cat review.Category) []Rule {
	if rules, ok := c[cat]; ok {
		return rules
	}
	return c[review.Food]
}

// KnowledgeBase bundles the static vocabulary and rule table. It is
// built once and shared read-only by the classifier, aggregator and ranker.
type KnowledgeBase struct {
	Keywords       *KeywordMap
	StrongNegative []string
	WeakNegative   []string
	Business       []string
	Rules          Catalog
}

// Validate checks the tables the pipeline relies on.
func (kb *KnowledgeBase) Validate() error {
	if kb.Keywords == nil {
		return fmt.Errorf("%w: keyword map is required", internalerr.ErrInvalidConfig)
	}
	for _, name := range []string{GroupPositive, GroupNegative} {
		if len(kb.Keywords.Words(name)) == 0 {
			return fmt.Errorf("%w: keyword group %q is empty", internalerr.ErrInvalidConfig, name)
		}
	}
	for _, list := range [][]string{kb.StrongNegative, kb.WeakNegative, kb.Business} {
		for _, w := range list {
			if w == "" {
				return fmt.Errorf("%w: empty keyword", internalerr.ErrInvalidConfig)
			}
		}
	}
	if len(kb.Rules[review.Food]) == 0 {
		return fmt.Errorf("%w: food rules are required as the fallback list", internalerr.ErrInvalidConfig)
	}
	for cat, rules := range kb.Rules {
		for i, r := range rules {
			if r.Suggestion == "" {
				return fmt.Errorf("%w: %s rule %d has no suggestion", internalerr.ErrInvalidConfig, cat, i)
			}
			if r.Priority <= 0 {
				return fmt.Errorf("%w: %s rule %d needs a positive priority", internalerr.ErrInvalidConfig, cat, i)
			}
		}
	}
	return nil
}
