package aggregate

import (
	"sort"

	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// UnknownRating keys reviews without a usable rating in RatingCounts.
const UnknownRating = "unknown"

// Ownership resolves the category that owns a keyword.
type Ownership interface {
	OwnerOrGeneral(word string) string
}

// Aggregator tallies keyword, category and sentiment counts across a
// classified corpus.
type Aggregator struct {
	owner       Ownership
	keywordFreq map[string]int
	firstSeen   []string // keyword order of first appearance
	issues      map[review.Category]int
	sentiments  map[review.Sentiment]int
	ratings     map[string]int
	complaints  int
	total       int
}

// NewAggregator creates an empty aggregator.
func NewAggregator(owner Ownership) *Aggregator {
	return &Aggregator{
		owner:       owner,
		keywordFreq: make(map[string]int),
		issues:      make(map[review.Category]int),
		sentiments:  make(map[review.Sentiment]int),
		ratings:     make(map[string]int),
	}
}

// Process consumes one classified review. Every entry of its keyword list
// counts, so a keyword listed twice counts twice.
func (a *Aggregator) Process(r review.ClassifiedReview) {
	a.total++
	a.sentiments[r.Sentiment]++
	if r.HasComplaint {
		a.complaints++
	}
	if r.Sentiment.IsNegative() {
		a.issues[r.Category]++
	}

	rating := UnknownRating
	if r.Rating.Valid {
		rating = r.Rating.String()
	}
	a.ratings[rating]++

	for _, kw := range r.Keywords {
		if kw == "" {
			continue
		}
		if _, ok := a.keywordFreq[kw]; !ok {
			a.firstSeen = append(a.firstSeen, kw)
		}
		a.keywordFreq[kw]++
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalReviews    int
	Complaints      int
	Keywords        []review.KeywordRecord  // frequency desc, ties by first appearance
	CategoryCounts  map[review.Category]int // negative reviews per category
	SentimentCounts map[review.Sentiment]int
	RatingCounts    map[string]int
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Aggregator) Snapshot() Stats {
	keywords := make([]review.KeywordRecord, 0, len(a.firstSeen))
	for _, kw := range a.firstSeen {
		keywords = append(keywords, review.KeywordRecord{
			Keyword:   kw,
			Category:  a.owner.OwnerOrGeneral(kw),
			Frequency: a.keywordFreq[kw],
		})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Frequency > keywords[j].Frequency
	})

	issues := make(map[review.Category]int, len(a.issues))
	for k, v := range a.issues {
		issues[k] = v
	}
	sentiments := make(map[review.Sentiment]int, len(a.sentiments))
	for k, v := range a.sentiments {
		sentiments[k] = v
	}
	ratings := make(map[string]int, len(a.ratings))
	for k, v := range a.ratings {
		ratings[k] = v
	}

	return Stats{
		TotalReviews:    a.total,
		Complaints:      a.complaints,
		Keywords:        keywords,
		CategoryCounts:  issues,
		SentimentCounts: sentiments,
		RatingCounts:    ratings,
	}
}

// Aggregate runs a fresh aggregator over reviews.
func Aggregate(owner Ownership, reviews []review.ClassifiedReview) Stats {
	a := NewAggregator(owner)
	for _, r := range reviews {
		a.Process(r)
	}
	return a.Snapshot()
}
