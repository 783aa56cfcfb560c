package classify

import (
	"strings"

	"github.com/cognicore/gourmet/pkg/gourmet/review"
	"github.com/cognicore/gourmet/pkg/gourmet/taxonomy"
)

// RatingAware is the three-way policy combining negative tiers with the
// numeric rating.
type RatingAware struct {
	kb *taxonomy.KnowledgeBase
}

// NewRatingAware creates the policy over a knowledge base.
func NewRatingAware(kb *taxonomy.KnowledgeBase) *RatingAware {
	return &RatingAware{kb: kb}
}

func (p *RatingAware) Name() string { return PolicyRatingAware }

// Classify implements Classifier. The category uses the same best-category
// rule as the keyword-score policy; keywords are the business keywords
// found in the text.
func (p *RatingAware) Classify(r review.NormalizedReview) review.ClassifiedReview {
	sentiment, complaint := DecideRating(r.Clean, r.Rating, p.kb.StrongNegative, p.kb.WeakNegative)

	out := review.ClassifiedReview{
		NormalizedReview: r,
		Sentiment:        sentiment,
		Category:         review.DefaultCategory,
		HasComplaint:     complaint,
	}
	if r.HasText() {
		out.Category = p.kb.Keywords.BestCategory(r.Clean)
		out.Keywords = taxonomy.Contained(p.kb.Business, r.Clean)
	}
	return out
}

// DecideRating is the rating-aware decision:
//
//	empty text                  → neutral, no complaint
//	any strong negative keyword → negative, complaint (rating ignored)
//	rating unknown              → negative, complaint
//	rating ≥ 4                  → positive, complaint if weak keyword
//	rating == 3                 → neutral, complaint if weak keyword
//	otherwise                   → negative, complaint
func DecideRating(text string, rating review.Rating, strong, weak []string) (review.Sentiment, bool) {
	if strings.TrimSpace(text) == "" {
		return review.Neutral, false
	}
	if taxonomy.ContainsAny(strong, text) {
		return review.Negative, true
	}
	if !rating.Valid {
		return review.Negative, true
	}

	hasWeak := taxonomy.ContainsAny(weak, text)
	switch {
	case rating.Value >= 4:
		return review.Positive, hasWeak
	case rating.Value == 3:
		return review.Neutral, hasWeak
	default:
		return review.Negative, true
	}
}
