package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/gourmet/pkg/gourmet/classify"
	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 2000, cfg.SampleSize)
	assert.Equal(t, 0.5, cfg.RatioMin)
	assert.Equal(t, 0.9, cfg.RatioMax)
	assert.Equal(t, uint64(0), cfg.RatioSeed)
	assert.Equal(t, uint64(42), cfg.SelectSeed)
	assert.Equal(t, 5, cfg.MinTextLength)
	assert.Equal(t, classify.PolicyKeywordScore, cfg.Policy)
	assert.Equal(t, "iamwarint/wongnai-restaurant-review", cfg.Dataset.Name)
	assert.Equal(t, 100, cfg.Dataset.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Dataset.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 200, cfg.Summary.ReviewLimit)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gourmet.yaml")
	content := `data_dir: /tmp/reviews
sample_size: 50
policy: rating-aware
ratio_seed: 99
dataset:
  max_rows: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("GOURMET_SAMPLE_SIZE", "60")
	t.Setenv("GOURMET_DATASET_PAGE_SIZE", "25")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/reviews", cfg.DataDir)
	assert.Equal(t, 60, cfg.SampleSize)
	assert.Equal(t, classify.PolicyRatingAware, cfg.Policy)
	assert.Equal(t, uint64(99), cfg.RatioSeed)
	assert.Equal(t, 500, cfg.Dataset.MaxRows)
	assert.Equal(t, 25, cfg.Dataset.PageSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load("/nonexistent/gourmet.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DataDir:       "data",
			SampleSize:    10,
			RatioMin:      0.5,
			RatioMax:      0.9,
			SelectSeed:    42,
			MinTextLength: 5,
			Policy:        classify.PolicyKeywordScore,
			Dataset:       DatasetConfig{PageSize: 100},
		}
	}
	ok := base()
	require.NoError(t, ok.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero sample", func(c *Config) { c.SampleSize = 0 }},
		{"inverted ratio", func(c *Config) { c.RatioMin, c.RatioMax = 0.9, 0.5 }},
		{"ratio above one", func(c *Config) { c.RatioMax = 1.2 }},
		{"unknown policy", func(c *Config) { c.Policy = "llm" }},
		{"page size too big", func(c *Config) { c.Dataset.PageSize = 500 }},
		{"negative min length", func(c *Config) { c.MinTextLength = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), internalerr.ErrInvalidConfig)
		})
	}
}

func TestPaths(t *testing.T) {
	c := Config{DataDir: "data"}
	p := c.Paths()

	assert.Equal(t, filepath.Join("data", "raw", "raw_reviews.csv"), p.Raw)
	assert.Equal(t, filepath.Join("data", "staged", "clean_reviews.csv"), p.Staged)
	assert.Equal(t, filepath.Join("data", "results", "analysis.csv"), p.Analysis)
	assert.Equal(t, filepath.Join("data", "results", "keywords.csv"), p.Keywords)
	assert.Equal(t, filepath.Join("data", "results", "suggestion.csv"), p.Suggestions)
	assert.Equal(t, filepath.Join("data", "results", "dashboard.json"), p.Summary)
	assert.Equal(t, filepath.Join("data", "results", "run.json"), p.Manifest)

	rp := ResultPaths(filepath.Join("srv", "results"))
	assert.Equal(t, filepath.Join("srv", "results", "keywords.csv"), rp.Keywords)
}

func TestSamplerOptions(t *testing.T) {
	c := Config{RatioMin: 0.6, RatioMax: 0.8, RatioSeed: 5, SelectSeed: 42}
	o := c.SamplerOptions()

	assert.Equal(t, 0.6, o.RatioMin)
	assert.Equal(t, 0.8, o.RatioMax)
	assert.Equal(t, uint64(5), o.RatioSeed)
	assert.Equal(t, uint64(42), o.SelectSeed)
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "gourmet.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.SampleSize)
	assert.Equal(t, uint64(0), cfg.RatioSeed)
	assert.Equal(t, classify.PolicyKeywordScore, cfg.Policy)
	assert.Equal(t, 30*time.Second, cfg.Dataset.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
