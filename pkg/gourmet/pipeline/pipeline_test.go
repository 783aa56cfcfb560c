package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/gourmet/pkg/gourmet/artifact"
	"github.com/cognicore/gourmet/pkg/gourmet/classify"
	"github.com/cognicore/gourmet/pkg/gourmet/config"
	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
	"github.com/cognicore/gourmet/pkg/gourmet/taxonomy"
)

// corpus has three reviews that pre-classify good, two bad and one neutral.
var corpus = []review.RawReview{
	{Body: "อาหารอร่อยมาก แนะนำเลย", Rating: review.RatingOf(5)},
	{Body: "พนักงานบริการช้า รอนาน", Rating: review.RatingOf(2)},
	{Body: "บรรยากาศสวย สะอาด", Rating: review.RatingOf(4)},
	{Body: "ไปกินมาเมื่อวาน", Rating: review.RatingOf(3)},
	{Body: "ราคาแพงเกินไป ห้องน้ำสกปรก", Rating: review.RatingOf(1)},
	{Body: "ของหวานหอม นุ่ม ชอบมาก", Rating: review.RatingOf(5)},
}

type fakeFetcher struct {
	rows  []review.RawReview
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, dest string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if err := artifact.WriteRaw(dest, f.rows); err != nil {
		return 0, err
	}
	return len(f.rows), nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:       t.TempDir(),
		SampleSize:    4,
		RatioMin:      0.5,
		RatioMax:      0.5,
		RatioSeed:     7,
		SelectSeed:    42,
		MinTextLength: 5,
		Policy:        classify.PolicyKeywordScore,
		Dataset:       config.DatasetConfig{PageSize: 100},
		Summary:       config.SummaryConfig{ReviewLimit: 200},
	}
}

func newPipeline(t *testing.T, cfg *config.Config, f Fetcher) *Pipeline {
	t.Helper()
	p, err := New(Deps{Config: cfg, Fetcher: f})
	require.NoError(t, err)
	return p
}

func seedRaw(t *testing.T, p *Pipeline, rows []review.RawReview) {
	t.Helper()
	require.NoError(t, artifact.WriteRaw(p.Paths().Raw, rows))
}

func TestRunEndToEnd(t *testing.T) {
	f := &fakeFetcher{rows: corpus}
	p := newPipeline(t, testConfig(t), f)

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 1, f.calls)

	paths := p.Paths()
	m, err := artifact.ReadManifest(paths.Manifest)
	require.NoError(t, err)
	assert.NotEmpty(t, m.RunID)
	assert.Equal(t, 0.5, m.Ratio)
	assert.Equal(t, uint64(7), m.RatioSeed)
	assert.Equal(t, uint64(42), m.SelectSeed)
	assert.Equal(t, 3, m.PoolGood)
	assert.Equal(t, 2, m.PoolBad)
	assert.Equal(t, 1, m.PoolNeutral)
	assert.Equal(t, 2, m.TargetGood)
	assert.Equal(t, 2, m.TargetBad)
	assert.Equal(t, 2, m.SelectedGood)
	assert.Equal(t, 2, m.SelectedBad)
	assert.Equal(t, 4, m.StagedRows)
	assert.Equal(t, classify.PolicyKeywordScore, m.Policy)

	staged, _, err := artifact.ReadStaged(paths.Staged)
	require.NoError(t, err)
	assert.Len(t, staged, 4)

	analysis, _, err := artifact.ReadAnalysis(paths.Analysis)
	require.NoError(t, err)
	counts := map[review.Sentiment]int{}
	for _, r := range analysis {
		counts[r.Sentiment]++
		assert.Equal(t, r.Sentiment == review.Bad, r.HasComplaint)
	}
	assert.Equal(t, map[review.Sentiment]int{review.Good: 2, review.Bad: 2}, counts)

	suggestions, _, err := artifact.ReadSuggestions(paths.Suggestions)
	require.NoError(t, err)
	require.Len(t, suggestions, 5)
	var order []review.Category
	for _, s := range suggestions {
		assert.Equal(t, 1, s.IssueCount)
		order = append(order, s.Category)
	}
	assert.Equal(t, []review.Category{review.Price, review.Service, review.Price, review.Service, review.Service}, order)

	summary, err := artifact.ReadSummary(paths.Summary)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Summary.Total)
	assert.Equal(t, 2, summary.Summary.Complaints)
	assert.Equal(t, map[review.Category]int{review.Service: 1, review.Price: 1}, summary.Summary.Issues)
	assert.Len(t, summary.Reviews, 4)
	require.NotNil(t, summary.Run)
	assert.Equal(t, m.RunID, summary.Run.RunID)

	keywords, _, err := artifact.ReadKeywords(paths.Keywords)
	require.NoError(t, err)
	assert.Equal(t, keywords, summary.Keywords)
}

func TestRunIsReproducibleWithFixedSeeds(t *testing.T) {
	read := func() (string, string) {
		p := newPipeline(t, testConfig(t), nil)
		seedRaw(t, p, corpus)
		require.NoError(t, p.Run(context.Background()))

		staged, err := os.ReadFile(p.Paths().Staged)
		require.NoError(t, err)
		analysis, err := os.ReadFile(p.Paths().Analysis)
		require.NoError(t, err)
		return string(staged), string(analysis)
	}

	staged1, analysis1 := read()
	staged2, analysis2 := read()
	assert.Equal(t, staged1, staged2)
	assert.Equal(t, analysis1, analysis2)
}

func TestExtractSkipsWhenCached(t *testing.T) {
	f := &fakeFetcher{rows: corpus}
	p := newPipeline(t, testConfig(t), f)

	require.NoError(t, p.Extract(context.Background()))
	require.NoError(t, p.Extract(context.Background()))
	assert.Equal(t, 1, f.calls)
}

func TestExtractFetchErrorIsFatal(t *testing.T) {
	f := &fakeFetcher{err: internalerr.ErrFetch}
	p := newPipeline(t, testConfig(t), f)

	err := p.Run(context.Background())
	require.ErrorIs(t, err, internalerr.ErrFetch)
	assert.False(t, artifact.Exists(p.Paths().Raw))
	assert.False(t, artifact.Exists(p.Paths().Staged))
}

func TestExtractWithoutFetcher(t *testing.T) {
	p := newPipeline(t, testConfig(t), nil)
	assert.ErrorIs(t, p.Extract(context.Background()), internalerr.ErrFetch)
}

func TestStagesRequireUpstreamArtifacts(t *testing.T) {
	p := newPipeline(t, testConfig(t), nil)
	ctx := context.Background()

	_, err := p.Stage(ctx)
	assert.ErrorIs(t, err, internalerr.ErrMissingInput)

	_, err = p.Analyze(ctx)
	assert.ErrorIs(t, err, internalerr.ErrMissingInput)

	_, err = p.Export(ctx)
	assert.ErrorIs(t, err, internalerr.ErrMissingInput)
}

func TestStageDropsShortCleanText(t *testing.T) {
	cfg := testConfig(t)
	cfg.SampleSize = 10
	p := newPipeline(t, cfg, nil)
	seedRaw(t, p, []review.RawReview{
		{Body: "ดีดี", Rating: review.RatingOf(5)},
		{Body: "(((ดี)))", Rating: review.RatingOf(5)},
		{Body: "อร่อยมากๆ ครับ", Rating: review.RatingOf(5)},
		{Body: "แย่มาก ไม่กลับไปอีกแล้ว", Rating: review.RatingOf(1)},
	})

	m, err := p.Stage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.DroppedShort)
	assert.Equal(t, 2, m.StagedRows)

	staged, _, err := artifact.ReadStaged(p.Paths().Staged)
	require.NoError(t, err)
	for _, r := range staged {
		assert.Greater(t, len([]rune(r.Clean)), cfg.MinTextLength)
	}
}

func TestStageCountsSkippedRows(t *testing.T) {
	p := newPipeline(t, testConfig(t), nil)
	require.NoError(t, os.MkdirAll(p.Paths().RawDir, 0o755))
	content := "review_body,stars\nอาหารอร่อยมาก แนะนำเลย,5\nbroken\nพนักงานบริการช้า รอนาน,2\n"
	require.NoError(t, os.WriteFile(p.Paths().Raw, []byte(content), 0o644))

	m, err := p.Stage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.RawRows)
	assert.Equal(t, 1, m.SkippedRows)
}

func TestAnalyzeWithoutNegativesWritesHeaderOnlySuggestions(t *testing.T) {
	cfg := testConfig(t)
	cfg.RatioMin, cfg.RatioMax = 1, 1
	p := newPipeline(t, cfg, nil)
	seedRaw(t, p, corpus)

	ctx := context.Background()
	_, err := p.Stage(ctx)
	require.NoError(t, err)
	stats, err := p.Analyze(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats.CategoryCounts)

	data, err := os.ReadFile(p.Paths().Suggestions)
	require.NoError(t, err)
	assert.Equal(t, "category,suggestion,severity_of_issue,resource_cost,priority_rank,issue_count\n", string(data))
}

func TestExportWithoutManifest(t *testing.T) {
	p := newPipeline(t, testConfig(t), nil)
	seedRaw(t, p, corpus)
	ctx := context.Background()

	_, err := p.Stage(ctx)
	require.NoError(t, err)
	_, err = p.Analyze(ctx)
	require.NoError(t, err)
	require.NoError(t, os.Remove(p.Paths().Manifest))

	summary, err := p.Export(ctx)
	require.NoError(t, err)
	assert.Nil(t, summary.Run)
	assert.True(t, artifact.Exists(p.Paths().Summary))
}

func TestRatingAwarePolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Policy = classify.PolicyRatingAware
	p := newPipeline(t, cfg, nil)
	seedRaw(t, p, corpus)

	require.NoError(t, p.Run(context.Background()))

	analysis, _, err := artifact.ReadAnalysis(p.Paths().Analysis)
	require.NoError(t, err)
	counts := map[review.Sentiment]int{}
	for _, r := range analysis {
		counts[r.Sentiment]++
	}
	assert.Equal(t, map[review.Sentiment]int{review.Positive: 2, review.Negative: 2}, counts)

	suggestions, _, err := artifact.ReadSuggestions(p.Paths().Suggestions)
	require.NoError(t, err)
	assert.Len(t, suggestions, 5)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	p := newPipeline(t, testConfig(t), nil)
	seedRaw(t, p, corpus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, artifact.Exists(p.Paths().Staged))
}

func TestNewValidation(t *testing.T) {
	_, err := New(Deps{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	cfg := testConfig(t)
	cfg.Policy = "llm"
	_, err = New(Deps{Config: cfg})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	kb := taxonomy.Default()
	kb.Rules = taxonomy.Catalog{}
	_, err = New(Deps{Config: testConfig(t), KnowledgeBase: kb})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestBuildSummaryReviewLimit(t *testing.T) {
	var analysis []review.ClassifiedReview
	for i := 0; i < 5; i++ {
		analysis = append(analysis, review.ClassifiedReview{
			NormalizedReview: review.NormalizedReview{Clean: "ok review"},
			Sentiment:        review.Good,
			Category:         review.Food,
		})
	}
	km := taxonomy.Default().Keywords

	s := BuildSummary(analysis, nil, km, 3)
	assert.Len(t, s.Reviews, 3)
	assert.Equal(t, 5, s.Summary.Total)
	assert.NotNil(t, s.Keywords)

	s = BuildSummary(analysis, nil, km, 0)
	assert.Len(t, s.Reviews, 5)
}
