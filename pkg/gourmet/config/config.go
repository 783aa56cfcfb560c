package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cognicore/gourmet/pkg/gourmet/classify"
	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/sampler"
)

const envPrefix = "GOURMET"

// Config holds the run settings shared by the pipeline and the API.
type Config struct {
	DataDir       string        `mapstructure:"data_dir"`
	SampleSize    int           `mapstructure:"sample_size"`
	RatioMin      float64       `mapstructure:"ratio_min"`
	RatioMax      float64       `mapstructure:"ratio_max"`
	RatioSeed     uint64        `mapstructure:"ratio_seed"`
	SelectSeed    uint64        `mapstructure:"select_seed"`
	MinTextLength int           `mapstructure:"min_text_length"`
	Policy        string        `mapstructure:"policy"`
	KnowledgeBase string        `mapstructure:"knowledge_base"`
	LogLevel      string        `mapstructure:"log_level"`
	Dataset       DatasetConfig `mapstructure:"dataset"`
	Server        ServerConfig  `mapstructure:"server"`
	Summary       SummaryConfig `mapstructure:"summary"`
}

// DatasetConfig locates the remote review snapshot.
type DatasetConfig struct {
	Name     string        `mapstructure:"name"`
	Config   string        `mapstructure:"config"`
	Split    string        `mapstructure:"split"`
	Endpoint string        `mapstructure:"endpoint"`
	PageSize int           `mapstructure:"page_size"`
	MaxRows  int           `mapstructure:"max_rows"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the read-only artifact API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// SummaryConfig bounds the consolidated summary bundle.
type SummaryConfig struct {
	ReviewLimit int `mapstructure:"review_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("sample_size", 2000)
	v.SetDefault("ratio_min", sampler.DefaultRatioMin)
	v.SetDefault("ratio_max", sampler.DefaultRatioMax)
	v.SetDefault("ratio_seed", 0)
	v.SetDefault("select_seed", sampler.DefaultSelectSeed)
	v.SetDefault("min_text_length", 5)
	v.SetDefault("policy", classify.PolicyKeywordScore)
	v.SetDefault("knowledge_base", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("dataset.name", "iamwarint/wongnai-restaurant-review")
	v.SetDefault("dataset.config", "default")
	v.SetDefault("dataset.split", "train")
	v.SetDefault("dataset.endpoint", "https://datasets-server.huggingface.co/rows")
	v.SetDefault("dataset.page_size", 100)
	v.SetDefault("dataset.max_rows", 0)
	v.SetDefault("dataset.timeout", "30s")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("summary.review_limit", 200)
}

// Load reads settings from path, or from ./gourmet.yaml when path is empty
// and the file exists. GOURMET_* environment variables override both,
// e.g. GOURMET_DATASET_MAX_ROWS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gourmet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail mid-run.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir is required", internalerr.ErrInvalidConfig)
	case c.SampleSize <= 0:
		return fmt.Errorf("%w: sample_size must be positive, got %d", internalerr.ErrInvalidConfig, c.SampleSize)
	case c.MinTextLength < 0:
		return fmt.Errorf("%w: min_text_length must not be negative", internalerr.ErrInvalidConfig)
	case c.Dataset.PageSize <= 0 || c.Dataset.PageSize > 100:
		return fmt.Errorf("%w: dataset.page_size must be in 1..100, got %d", internalerr.ErrInvalidConfig, c.Dataset.PageSize)
	case c.Dataset.MaxRows < 0:
		return fmt.Errorf("%w: dataset.max_rows must not be negative", internalerr.ErrInvalidConfig)
	case c.Summary.ReviewLimit < 0:
		return fmt.Errorf("%w: summary.review_limit must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Policy != classify.PolicyKeywordScore && c.Policy != classify.PolicyRatingAware {
		return fmt.Errorf("%w: unknown policy %q", internalerr.ErrInvalidConfig, c.Policy)
	}
	return c.SamplerOptions().Validate()
}

// SamplerOptions derives the sampler settings.
func (c *Config) SamplerOptions() sampler.Options {
	return sampler.Options{
		RatioMin:   c.RatioMin,
		RatioMax:   c.RatioMax,
		RatioSeed:  c.RatioSeed,
		SelectSeed: c.SelectSeed,
	}
}

// Paths is the on-disk artifact layout under DataDir.
type Paths struct {
	RawDir      string
	StagedDir   string
	ResultsDir  string
	Raw         string
	Staged      string
	Analysis    string
	Keywords    string
	Suggestions string
	Summary     string
	Manifest    string
}

// Paths derives the artifact locations.
func (c *Config) Paths() Paths {
	raw := filepath.Join(c.DataDir, "raw")
	staged := filepath.Join(c.DataDir, "staged")
	results := filepath.Join(c.DataDir, "results")
	return Paths{
		RawDir:      raw,
		StagedDir:   staged,
		ResultsDir:  results,
		Raw:         filepath.Join(raw, "raw_reviews.csv"),
		Staged:      filepath.Join(staged, "clean_reviews.csv"),
		Analysis:    filepath.Join(results, "analysis.csv"),
		Keywords:    filepath.Join(results, "keywords.csv"),
		Suggestions: filepath.Join(results, "suggestion.csv"),
		Summary:     filepath.Join(results, "dashboard.json"),
		Manifest:    filepath.Join(results, "run.json"),
	}
}

// ResultPaths returns the results-directory layout for readers that only
// know that directory, such as the artifact API.
func ResultPaths(resultsDir string) Paths {
	c := Config{DataDir: filepath.Dir(resultsDir)}
	p := c.Paths()
	p.ResultsDir = resultsDir
	p.Analysis = filepath.Join(resultsDir, "analysis.csv")
	p.Keywords = filepath.Join(resultsDir, "keywords.csv")
	p.Suggestions = filepath.Join(resultsDir, "suggestion.csv")
	p.Summary = filepath.Join(resultsDir, "dashboard.json")
	p.Manifest = filepath.Join(resultsDir, "run.json")
	return p
}
