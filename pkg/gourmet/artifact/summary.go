package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// Manifest records how a staged sample was drawn so a run can be
// reproduced from its seeds.
type Manifest struct {
	RunID        string    `json:"run_id"`
	CreatedAt    time.Time `json:"created_at"`
	Policy       string    `json:"policy"`
	SampleSize   int       `json:"sample_size"`
	Ratio        float64   `json:"ratio"`
	RatioSeed    uint64    `json:"ratio_seed"`
	SelectSeed   uint64    `json:"select_seed"`
	RawRows      int       `json:"raw_rows"`
	SkippedRows  int       `json:"skipped_rows"`
	PoolGood     int       `json:"pool_good"`
	PoolBad      int       `json:"pool_bad"`
	PoolNeutral  int       `json:"pool_neutral"`
	TargetGood   int       `json:"target_good"`
	TargetBad    int       `json:"target_bad"`
	SelectedGood int       `json:"selected_good"`
	SelectedBad  int       `json:"selected_bad"`
	DroppedShort int       `json:"dropped_short"`
	StagedRows   int       `json:"staged_rows"`
}

// Counts is the headline block of the summary bundle.
type Counts struct {
	Total      int                      `json:"total"`
	Complaints int                      `json:"complaints"`
	Sentiments map[review.Sentiment]int `json:"sentiments"`
	Issues     map[review.Category]int  `json:"issues"`
}

// SummaryReview is one review as shown by presentation layers.
type SummaryReview struct {
	Text         string           `json:"review_text"`
	Sentiment    review.Sentiment `json:"sentiment"`
	Category     review.Category  `json:"category"`
	Keywords     []string         `json:"keywords"`
	HasComplaint bool             `json:"has_complaint"`
	Rating       *float64         `json:"rating"`
}

// NewSummaryReview converts a classified review, keeping only the stored
// keywords.
func NewSummaryReview(r review.ClassifiedReview) SummaryReview {
	out := SummaryReview{
		Text:         r.Clean,
		Sentiment:    r.Sentiment,
		Category:     r.Category,
		Keywords:     append([]string{}, r.StoredKeywords()...),
		HasComplaint: r.HasComplaint,
	}
	if r.Rating.Valid {
		v := r.Rating.Value
		out.Rating = &v
	}
	return out
}

// Summary is the consolidated bundle read by dashboards.
type Summary struct {
	Summary  Counts                 `json:"summary"`
	Ratings  map[string]int         `json:"ratings"`
	Keywords []review.KeywordRecord `json:"keywords"`
	Reviews  []SummaryReview        `json:"reviews"`
	Run      *Manifest              `json:"run,omitempty"`
}

// WriteManifest writes the run manifest.
func WriteManifest(path string, m Manifest) error {
	return writeJSON(path, m)
}

// ReadManifest loads the run manifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	err := readJSON(path, &m)
	return m, err
}

// WriteSummary writes the summary bundle.
func WriteSummary(path string, s Summary) error {
	return writeJSON(path, s)
}

// ReadSummary loads the summary bundle.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	err := readJSON(path, &s)
	return s, err
}

func writeJSON(path string, v any) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return internalerr.MissingInput(path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidInput, path, err)
	}
	return nil
}
