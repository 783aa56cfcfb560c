package review

import "fmt"

// Sentiment is a classification label. Two label schemes coexist:
// positive/neutral/negative from the rating-aware policy and good/bad
// from the keyword-score policy.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
	Good     Sentiment = "good"
	Bad      Sentiment = "bad"
)

// Sentiments lists every label in reporting order.
var Sentiments = []Sentiment{Positive, Neutral, Negative, Good, Bad}

// IsNegative reports whether the label counts as an issue for ranking.
func (s Sentiment) IsNegative() bool {
	return s == Negative || s == Bad
}

// ParseSentiment validates a stored label.
func ParseSentiment(s string) (Sentiment, error) {
	for _, v := range Sentiments {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment %q", s)
}

// Category is the topical bucket of a review.
type Category string

const (
	Food       Category = "food"
	Service    Category = "service"
	Price      Category = "price"
	Atmosphere Category = "atmosphere"
	Location   Category = "location"
)

// DefaultCategory is assigned when no category keyword matches.
const DefaultCategory = Food

// Categories lists every category; food is never matched by keyword.
var Categories = []Category{Food, Service, Price, Atmosphere, Location}
