package classify

import (
	"github.com/cognicore/gourmet/pkg/gourmet/review"
	"github.com/cognicore/gourmet/pkg/gourmet/taxonomy"
)

// KeywordScore is the two-way policy driven only by keyword hits.
type KeywordScore struct {
	keywords *taxonomy.KeywordMap
}

// NewKeywordScore creates the policy over a keyword map.
func NewKeywordScore(km *taxonomy.KeywordMap) *KeywordScore {
	return &KeywordScore{keywords: km}
}

func (k *KeywordScore) Name() string { return PolicyKeywordScore }

// Classify implements Classifier. Complaint is set for bad reviews.
func (k *KeywordScore) Classify(r review.NormalizedReview) review.ClassifiedReview {
	sentiment, category, keywords := ScoreKeywords(k.keywords, r.Clean)
	return review.ClassifiedReview{
		NormalizedReview: r,
		Sentiment:        sentiment,
		Category:         category,
		Keywords:         keywords,
		HasComplaint:     sentiment == review.Bad,
	}
}

// ScoreKeywords decides the keyword-score outcome for text. Sentiment is bad
// only when negative hits strictly exceed positive hits. Empty text has no
// hits and comes out good, food, no keywords.
func ScoreKeywords(km *taxonomy.KeywordMap, text string) (review.Sentiment, review.Category, []string) {
	pos := km.CountMatches(taxonomy.GroupPositive, text)
	neg := km.CountMatches(taxonomy.GroupNegative, text)

	sentiment := review.Good
	if neg > pos {
		sentiment = review.Bad
	}
	return sentiment, km.BestCategory(text), km.Matches(text)
}
