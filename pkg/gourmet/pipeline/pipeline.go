// Package pipeline runs the batch stages over the artifact directory:
// Extract fetches the raw snapshot, Stage samples and cleans it, Analyze
// classifies and ranks, and Export builds the summary bundle. Each stage
// reads its predecessor's complete output and rewrites its own.
package pipeline

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/gourmet/internal/logging"
	"github.com/cognicore/gourmet/pkg/gourmet/aggregate"
	"github.com/cognicore/gourmet/pkg/gourmet/artifact"
	"github.com/cognicore/gourmet/pkg/gourmet/classify"
	"github.com/cognicore/gourmet/pkg/gourmet/config"
	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/normalize"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
	"github.com/cognicore/gourmet/pkg/gourmet/sampler"
	"github.com/cognicore/gourmet/pkg/gourmet/suggest"
	"github.com/cognicore/gourmet/pkg/gourmet/taxonomy"
)

// Fetcher downloads the raw snapshot to dest and reports the row count.
type Fetcher interface {
	Fetch(ctx context.Context, dest string) (int, error)
}

// Deps wires a Pipeline.
type Deps struct {
	Config        *config.Config
	KnowledgeBase *taxonomy.KnowledgeBase // nil uses the built-in tables
	Fetcher       Fetcher
	Logger        logrus.FieldLogger
}

// Pipeline runs the stages for one configuration.
type Pipeline struct {
	cfg        *config.Config
	paths      config.Paths
	kb         *taxonomy.KnowledgeBase
	classifier classify.Classifier
	sampler    *sampler.Sampler
	ranker     *suggest.Ranker
	fetcher    Fetcher
	log        logrus.FieldLogger
	entropy    *ulid.MonotonicEntropy
	now        func() time.Time
}

// New validates the configuration and builds a pipeline.
func New(d Deps) (*Pipeline, error) {
	if d.Config == nil {
		return nil, fmt.Errorf("%w: config is required", internalerr.ErrInvalidConfig)
	}
	if err := d.Config.Validate(); err != nil {
		return nil, err
	}
	kb := d.KnowledgeBase
	if kb == nil {
		kb = taxonomy.Default()
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}

	classifier, err := classify.ForPolicy(d.Config.Policy, kb)
	if err != nil {
		return nil, err
	}
	pre := func(text string) review.Sentiment { return classify.PreClassify(kb.Keywords, text) }
	s, err := sampler.New(pre, d.Config.SamplerOptions())
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:        d.Config,
		paths:      d.Config.Paths(),
		kb:         kb,
		classifier: classifier,
		sampler:    s,
		ranker:     suggest.NewRanker(kb.Rules),
		fetcher:    d.Fetcher,
		log:        logging.OrDiscard(d.Logger),
		entropy:    ulid.Monotonic(rand.Reader, 0),
		now:        time.Now,
	}, nil
}

// Paths returns the artifact layout the pipeline reads and writes.
func (p *Pipeline) Paths() config.Paths {
	return p.paths
}

// Run executes every stage in order and stops at the first error.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Extract(ctx); err != nil {
		return err
	}
	if _, err := p.Stage(ctx); err != nil {
		return err
	}
	if _, err := p.Analyze(ctx); err != nil {
		return err
	}
	if _, err := p.Export(ctx); err != nil {
		return err
	}
	return nil
}

// Extract fetches the raw snapshot unless it already exists. An existing
// file is trusted as-is.
func (p *Pipeline) Extract(ctx context.Context) error {
	log := p.log.WithField("stage", "extract")
	if artifact.Exists(p.paths.Raw) {
		log.WithField("path", p.paths.Raw).Info("raw snapshot cached, skipping fetch")
		return nil
	}
	if p.fetcher == nil {
		return fmt.Errorf("extract: %w: no fetcher configured and %s is absent", internalerr.ErrFetch, p.paths.Raw)
	}

	log.Info("fetching raw snapshot")
	n, err := p.fetcher.Fetch(ctx, p.paths.Raw)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	log.WithField("rows", n).Info("extract finished")
	return nil
}

// Stage samples the raw snapshot, cleans the sample and drops reviews whose
// clean text is too short. It writes the staged file and the run manifest.
func (p *Pipeline) Stage(ctx context.Context) (artifact.Manifest, error) {
	log := p.log.WithField("stage", "stage")
	if err := ctx.Err(); err != nil {
		return artifact.Manifest{}, fmt.Errorf("stage: %w", err)
	}

	raw, report, err := artifact.ReadRaw(p.paths.Raw)
	if err != nil {
		return artifact.Manifest{}, fmt.Errorf("stage: %w", err)
	}
	logSkipped(log, p.paths.Raw, report)

	result := p.sampler.Sample(raw, p.cfg.SampleSize)

	staged := make([]review.NormalizedReview, 0, len(result.Reviews))
	dropped := 0
	for _, r := range result.Reviews {
		clean := normalize.Text(r.Body)
		if utf8.RuneCountInString(clean) <= p.cfg.MinTextLength {
			dropped++
			continue
		}
		staged = append(staged, review.NormalizedReview{RawReview: r, Clean: clean})
	}

	now := p.now().UTC()
	m := artifact.Manifest{
		RunID:        ulid.MustNew(ulid.Timestamp(now), p.entropy).String(),
		CreatedAt:    now,
		Policy:       p.classifier.Name(),
		SampleSize:   p.cfg.SampleSize,
		Ratio:        result.Ratio,
		RatioSeed:    result.RatioSeed,
		SelectSeed:   result.SelectSeed,
		RawRows:      report.Rows,
		SkippedRows:  report.Skipped,
		PoolGood:     result.PoolGood,
		PoolBad:      result.PoolBad,
		PoolNeutral:  result.PoolNeutral,
		TargetGood:   result.TargetGood,
		TargetBad:    result.TargetBad,
		SelectedGood: result.SelectedGood,
		SelectedBad:  result.SelectedBad,
		DroppedShort: dropped,
		StagedRows:   len(staged),
	}

	if err := artifact.WriteStaged(p.paths.Staged, staged); err != nil {
		return m, fmt.Errorf("stage: %w", err)
	}
	if err := artifact.WriteManifest(p.paths.Manifest, m); err != nil {
		return m, fmt.Errorf("stage: %w", err)
	}

	entry := log.WithFields(logrus.Fields{
		"run_id":      m.RunID,
		"rows":        m.StagedRows,
		"skipped":     m.SkippedRows,
		"ratio":       m.Ratio,
		"ratio_seed":  m.RatioSeed,
		"select_seed": m.SelectSeed,
	})
	if m.SelectedGood < m.TargetGood || m.SelectedBad < m.TargetBad {
		entry.WithFields(logrus.Fields{
			"target_good": m.TargetGood, "selected_good": m.SelectedGood,
			"target_bad": m.TargetBad, "selected_bad": m.SelectedBad,
		}).Warn("sample pool smaller than target")
	}
	if len(staged) == 0 {
		entry.Warn("no reviews staged")
	}
	entry.Info("stage finished")
	return m, nil
}

// Analyze classifies the staged reviews and writes the analysis, keyword
// and suggestion tables.
func (p *Pipeline) Analyze(ctx context.Context) (aggregate.Stats, error) {
	log := p.log.WithField("stage", "analyze")
	if err := ctx.Err(); err != nil {
		return aggregate.Stats{}, fmt.Errorf("analyze: %w", err)
	}

	staged, report, err := artifact.ReadStaged(p.paths.Staged)
	if err != nil {
		return aggregate.Stats{}, fmt.Errorf("analyze: %w", err)
	}
	logSkipped(log, p.paths.Staged, report)

	classified := classify.ClassifyAll(p.classifier, staged)
	stats := aggregate.Aggregate(p.kb.Keywords, classified)
	suggestions := p.ranker.Rank(stats.CategoryCounts)

	if err := artifact.WriteAnalysis(p.paths.Analysis, classified); err != nil {
		return stats, fmt.Errorf("analyze: %w", err)
	}
	if err := artifact.WriteKeywords(p.paths.Keywords, stats.Keywords); err != nil {
		return stats, fmt.Errorf("analyze: %w", err)
	}
	if err := artifact.WriteSuggestions(p.paths.Suggestions, suggestions); err != nil {
		return stats, fmt.Errorf("analyze: %w", err)
	}

	log.WithFields(logrus.Fields{
		"policy":      p.classifier.Name(),
		"rows":        stats.TotalReviews,
		"complaints":  stats.Complaints,
		"keywords":    len(stats.Keywords),
		"suggestions": len(suggestions),
	}).Info("analyze finished")
	return stats, nil
}

// Export consolidates the analysis into the summary bundle. The run
// manifest is attached when present.
func (p *Pipeline) Export(ctx context.Context) (artifact.Summary, error) {
	log := p.log.WithField("stage", "export")
	if err := ctx.Err(); err != nil {
		return artifact.Summary{}, fmt.Errorf("export: %w", err)
	}

	analysis, report, err := artifact.ReadAnalysis(p.paths.Analysis)
	if err != nil {
		return artifact.Summary{}, fmt.Errorf("export: %w", err)
	}
	logSkipped(log, p.paths.Analysis, report)

	keywords, report, err := artifact.ReadKeywords(p.paths.Keywords)
	if err != nil {
		return artifact.Summary{}, fmt.Errorf("export: %w", err)
	}
	logSkipped(log, p.paths.Keywords, report)

	summary := BuildSummary(analysis, keywords, p.kb.Keywords, p.cfg.Summary.ReviewLimit)

	m, err := artifact.ReadManifest(p.paths.Manifest)
	switch {
	case err == nil:
		summary.Run = &m
	case errors.Is(err, internalerr.ErrMissingInput):
		log.Warn("run manifest missing, summary has no run block")
	default:
		return artifact.Summary{}, fmt.Errorf("export: %w", err)
	}

	if err := artifact.WriteSummary(p.paths.Summary, summary); err != nil {
		return summary, fmt.Errorf("export: %w", err)
	}
	log.WithFields(logrus.Fields{
		"rows":    summary.Summary.Total,
		"reviews": len(summary.Reviews),
	}).Info("export finished")
	return summary, nil
}

// BuildSummary assembles the bundle from classified reviews and the keyword
// table. reviewLimit caps the embedded reviews; 0 embeds all of them.
func BuildSummary(analysis []review.ClassifiedReview, keywords []review.KeywordRecord, owner aggregate.Ownership, reviewLimit int) artifact.Summary {
	stats := aggregate.Aggregate(owner, analysis)

	n := len(analysis)
	if reviewLimit > 0 && reviewLimit < n {
		n = reviewLimit
	}
	reviews := make([]artifact.SummaryReview, 0, n)
	for _, r := range analysis[:n] {
		reviews = append(reviews, artifact.NewSummaryReview(r))
	}
	if keywords == nil {
		keywords = []review.KeywordRecord{}
	}

	return artifact.Summary{
		Summary: artifact.Counts{
			Total:      stats.TotalReviews,
			Complaints: stats.Complaints,
			Sentiments: stats.SentimentCounts,
			Issues:     stats.CategoryCounts,
		},
		Ratings:  stats.RatingCounts,
		Keywords: keywords,
		Reviews:  reviews,
	}
}

func logSkipped(log logrus.FieldLogger, path string, report artifact.ReadReport) {
	if report.Skipped == 0 {
		return
	}
	for _, err := range report.Errors {
		log.WithField("path", path).WithError(err).Warn("skipped malformed row")
	}
	log.WithFields(logrus.Fields{"path": path, "skipped": report.Skipped}).Warn("malformed rows skipped")
}
