// Package review defines the records that flow through the pipeline:
// raw source rows, normalized rows, classified rows and the derived
// keyword and suggestion tables.
package review

import (
	"math"
	"strconv"
	"strings"
)

// MaxStoredKeywords caps how many matched keywords are written per review.
const MaxStoredKeywords = 5

// Rating is a numeric score that may be unknown after coercion.
type Rating struct {
	Value float64
	Valid bool
}

// NoRating is the unknown rating.
var NoRating = Rating{}

// RatingOf returns a known rating.
func RatingOf(v float64) Rating {
	return Rating{Value: v, Valid: true}
}

// ParseRating coerces a cell to a rating. Anything that is not a finite
// number yields NoRating.
func ParseRating(s string) Rating {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoRating
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return NoRating
	}
	return RatingOf(v)
}

// String formats the rating for a CSV cell; unknown ratings are empty.
func (r Rating) String() string {
	if !r.Valid {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// RawReview is one source record. It is never mutated after ingestion.
type RawReview struct {
	Body   string
	Rating Rating
	Extra  map[string]string // passthrough columns
}

// NormalizedReview carries the cleaned text next to the raw record.
type NormalizedReview struct {
	RawReview
	Clean string
}

// HasText reports whether the cleaned text is non-empty.
func (n NormalizedReview) HasText() bool {
	return strings.TrimSpace(n.Clean) != ""
}

// ClassifiedReview is a normalized review with its classification.
type ClassifiedReview struct {
	NormalizedReview
	Sentiment    Sentiment
	Category     Category
	Keywords     []string // full match list in declaration order
	HasComplaint bool
}

// StoredKeywords returns the keyword list truncated for storage.
func (c ClassifiedReview) StoredKeywords() []string {
	if len(c.Keywords) > MaxStoredKeywords {
		return c.Keywords[:MaxStoredKeywords]
	}
	return c.Keywords
}

// KeywordRecord is one row of the keyword frequency table.
type KeywordRecord struct {
	Keyword   string `json:"keyword"`
	Category  string `json:"category_type"`
	Frequency int    `json:"frequency"`
}

// SuggestionRecord is one row of the ranked suggestion table.
type SuggestionRecord struct {
	Category     Category `json:"category"`
	Suggestion   string   `json:"suggestion"`
	Severity     string   `json:"severity_of_issue"`
	ResourceCost string   `json:"resource_cost"`
	PriorityRank int      `json:"priority_rank"`
	IssueCount   int      `json:"issue_count"`
}
