// Package classify assigns sentiment, category, matched keywords and a
// complaint flag to normalized reviews.
//
// Two policies exist and are kept separate; a deployment picks one:
//
//   - keyword-score: good/bad from positive vs negative list hits, no rating.
//   - rating-aware: positive/neutral/negative from strong and weak negative
//     tiers combined with the numeric rating.
//
// Both are pure functions of the text, the rating and the knowledge base.
package classify

import (
	"fmt"

	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
	"github.com/cognicore/gourmet/pkg/gourmet/taxonomy"
)

// Policy names accepted by ForPolicy.
const (
	PolicyKeywordScore = "keyword-score"
	PolicyRatingAware  = "rating-aware"
)

// Classifier maps a normalized review to its classification.
type Classifier interface {
	Name() string
	Classify(r review.NormalizedReview) review.ClassifiedReview
}

// ForPolicy returns the classifier for a configured policy name.
func ForPolicy(name string, kb *taxonomy.KnowledgeBase) (Classifier, error) {
	switch name {
	case PolicyKeywordScore, "":
		return NewKeywordScore(kb.Keywords), nil
	case PolicyRatingAware:
		return NewRatingAware(kb), nil
	default:
		return nil, fmt.Errorf("%w: unknown classification policy %q", internalerr.ErrInvalidConfig, name)
	}
}

// ClassifyAll runs c over every review, preserving order.
func ClassifyAll(c Classifier, reviews []review.NormalizedReview) []review.ClassifiedReview {
	out := make([]review.ClassifiedReview, len(reviews))
	for i, r := range reviews {
		out[i] = c.Classify(r)
	}
	return out
}

// PreClassify is the coarse sampling heuristic over raw text: good when
// positive hits outnumber negative ones, bad for the reverse, neutral on
// a tie.
func PreClassify(km *taxonomy.KeywordMap, text string) review.Sentiment {
	pos := km.CountMatches(taxonomy.GroupPositive, text)
	neg := km.CountMatches(taxonomy.GroupNegative, text)
	switch {
	case neg > pos:
		return review.Bad
	case pos > neg:
		return review.Good
	default:
		return review.Neutral
	}
}
