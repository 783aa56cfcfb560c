package artifact

import (
	"strconv"
	"strings"

	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// Staged columns.
const (
	ColReviewText  = "review_text"
	ColCleanReview = "clean_review"
)

var stagedHeader = []string{ColReviewText, ColRating, ColCleanReview}

// WriteStaged writes the cleaned sample.
func WriteStaged(path string, reviews []review.NormalizedReview) error {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []string{r.Body, r.Rating.String(), r.Clean})
	}
	return writeTable(path, stagedHeader, rows)
}

// ReadStaged loads the cleaned sample.
func ReadStaged(path string) ([]review.NormalizedReview, ReadReport, error) {
	var out []review.NormalizedReview
	report, err := readTable(path, requireColumns(stagedHeader...), func(r row) error {
		out = append(out, review.NormalizedReview{
			RawReview: review.RawReview{
				Body:   r.get(ColReviewText),
				Rating: review.ParseRating(r.get(ColRating)),
			},
			Clean: r.get(ColCleanReview),
		})
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

// Analysis columns.
const (
	ColSentiment    = "sentiment"
	ColCategory     = "category"
	ColKeywords     = "keywords"
	ColHasComplaint = "has_complaint"
)

var analysisHeader = []string{ColSentiment, ColCategory, ColKeywords, ColHasComplaint, ColRating, ColReviewText}

// keywordSep joins stored keywords in one cell.
const keywordSep = ","

// WriteAnalysis writes one row per classified review. Keywords are capped
// at review.MaxStoredKeywords; review_text holds the cleaned text.
func WriteAnalysis(path string, reviews []review.ClassifiedReview) error {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []string{
			string(r.Sentiment),
			string(r.Category),
			strings.Join(r.StoredKeywords(), keywordSep),
			strconv.FormatBool(r.HasComplaint),
			r.Rating.String(),
			r.Clean,
		})
	}
	return writeTable(path, analysisHeader, rows)
}

// ReadAnalysis loads classified reviews. Rows with an unknown sentiment
// label or an unparseable complaint flag are skipped.
func ReadAnalysis(path string) ([]review.ClassifiedReview, ReadReport, error) {
	var out []review.ClassifiedReview
	report, err := readTable(path, requireColumns(ColSentiment, ColCategory, ColKeywords), func(r row) error {
		sentiment, err := review.ParseSentiment(r.get(ColSentiment))
		if err != nil {
			return r.fail("%v", err)
		}
		complaint := sentiment == review.Bad
		if v := r.get(ColHasComplaint); v != "" {
			complaint, err = strconv.ParseBool(v)
			if err != nil {
				return r.fail("has_complaint %q: %v", v, err)
			}
		}
		text := r.get(ColReviewText)
		out = append(out, review.ClassifiedReview{
			NormalizedReview: review.NormalizedReview{
				RawReview: review.RawReview{Body: text, Rating: review.ParseRating(r.get(ColRating))},
				Clean:     text,
			},
			Sentiment:    sentiment,
			Category:     review.Category(r.get(ColCategory)),
			Keywords:     splitKeywords(r.get(ColKeywords)),
			HasComplaint: complaint,
		})
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

func splitKeywords(cell string) []string {
	if cell == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(cell, keywordSep) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Keyword table columns.
const (
	ColKeyword      = "keyword"
	ColCategoryType = "category_type"
	ColFrequency    = "frequency"
)

var keywordHeader = []string{ColKeyword, ColCategoryType, ColFrequency}

// WriteKeywords writes the keyword frequency table in the given order.
func WriteKeywords(path string, records []review.KeywordRecord) error {
	rows := make([][]string, 0, len(records))
	for _, k := range records {
		rows = append(rows, []string{k.Keyword, k.Category, strconv.Itoa(k.Frequency)})
	}
	return writeTable(path, keywordHeader, rows)
}

// ReadKeywords loads the keyword frequency table.
func ReadKeywords(path string) ([]review.KeywordRecord, ReadReport, error) {
	out := []review.KeywordRecord{}
	report, err := readTable(path, requireColumns(keywordHeader...), func(r row) error {
		freq, err := strconv.Atoi(r.get(ColFrequency))
		if err != nil {
			return r.fail("frequency: %v", err)
		}
		out = append(out, review.KeywordRecord{
			Keyword:   r.get(ColKeyword),
			Category:  r.get(ColCategoryType),
			Frequency: freq,
		})
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

// Suggestion table columns.
const (
	ColSuggestion   = "suggestion"
	ColSeverity     = "severity_of_issue"
	ColResourceCost = "resource_cost"
	ColPriorityRank = "priority_rank"
	ColIssueCount   = "issue_count"
)

var suggestionHeader = []string{ColCategory, ColSuggestion, ColSeverity, ColResourceCost, ColPriorityRank, ColIssueCount}

// WriteSuggestions writes ranked suggestions. An empty list still produces
// the header row.
func WriteSuggestions(path string, records []review.SuggestionRecord) error {
	rows := make([][]string, 0, len(records))
	for _, s := range records {
		rows = append(rows, []string{
			string(s.Category),
			s.Suggestion,
			s.Severity,
			s.ResourceCost,
			strconv.Itoa(s.PriorityRank),
			strconv.Itoa(s.IssueCount),
		})
	}
	return writeTable(path, suggestionHeader, rows)
}

// ReadSuggestions loads the ranked suggestion table.
func ReadSuggestions(path string) ([]review.SuggestionRecord, ReadReport, error) {
	out := []review.SuggestionRecord{}
	report, err := readTable(path, requireColumns(suggestionHeader...), func(r row) error {
		prio, err := strconv.Atoi(r.get(ColPriorityRank))
		if err != nil {
			return r.fail("priority_rank: %v", err)
		}
		count, err := strconv.Atoi(r.get(ColIssueCount))
		if err != nil {
			return r.fail("issue_count: %v", err)
		}
		out = append(out, review.SuggestionRecord{
			Category:     review.Category(r.get(ColCategory)),
			Suggestion:   r.get(ColSuggestion),
			Severity:     r.get(ColSeverity),
			ResourceCost: r.get(ColResourceCost),
			PriorityRank: prio,
			IssueCount:   count,
		})
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}
