package artifact

import (
	"fmt"
	"sort"

	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// Raw file columns. Older snapshots use review/rating instead.
const (
	ColReviewBody = "review_body"
	ColStars      = "stars"
	ColReview     = "review"
	ColRating     = "rating"
)

// ReadRaw loads the raw review snapshot. The body column may be named
// review_body or review and the score column stars or rating. A file
// without a score column yields unknown ratings. Other columns are kept as
// passthrough fields.
func ReadRaw(path string) ([]review.RawReview, ReadReport, error) {
	var (
		bodyCol, ratingCol string
		extra              []string
		out                []review.RawReview
	)

	resolve := func(header map[string]int) error {
		bodyCol = pick(header, ColReviewBody, ColReview)
		if bodyCol == "" {
			return fmt.Errorf("%w: no %q or %q column", internalerr.ErrInvalidInput, ColReviewBody, ColReview)
		}
		ratingCol = pick(header, ColStars, ColRating)
		for name := range header {
			if name != bodyCol && name != ratingCol && name != "" {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		return nil
	}

	report, err := readTable(path, resolve, func(r row) error {
		rec := review.RawReview{Body: r.get(bodyCol), Rating: review.NoRating}
		if ratingCol != "" {
			rec.Rating = review.ParseRating(r.get(ratingCol))
		}
		if len(extra) > 0 {
			rec.Extra = make(map[string]string, len(extra))
			for _, name := range extra {
				rec.Extra[name] = r.get(name)
			}
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

func pick(header map[string]int, candidates ...string) string {
	for _, c := range candidates {
		if _, ok := header[c]; ok {
			return c
		}
	}
	return ""
}

// WriteRaw writes reviews as review_body,stars followed by the sorted
// union of passthrough columns.
func WriteRaw(path string, reviews []review.RawReview) error {
	seen := map[string]bool{}
	var extra []string
	for _, r := range reviews {
		for name := range r.Extra {
			if !seen[name] && name != ColReviewBody && name != ColStars {
				seen[name] = true
				extra = append(extra, name)
			}
		}
	}
	sort.Strings(extra)

	header := append([]string{ColReviewBody, ColStars}, extra...)
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.Body, r.Rating.String())
		for _, name := range extra {
			rec = append(rec, r.Extra[name])
		}
		rows = append(rows, rec)
	}
	return writeTable(path, header, rows)
}
