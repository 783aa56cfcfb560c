package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/gourmet/internal/fetch"
	"github.com/cognicore/gourmet/internal/logging"
	"github.com/cognicore/gourmet/pkg/gourmet/config"
	"github.com/cognicore/gourmet/pkg/gourmet/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (default ./gourmet.yaml when present)")
		stage      = flag.String("stage", "all", "Stage to run: all, extract, stage, analyze, export")
		dataDir    = flag.String("data-dir", "", "Override data_dir")
		policy     = flag.String("policy", "", "Override policy (keyword-score or rating-aware)")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "gourmet-pipeline: .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(nil, err)
	}
	if err := applyOverrides(cfg, *dataDir, *policy); err != nil {
		fatal(nil, err)
	}

	logger := logging.New(cfg.LogLevel)

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		fatal(logger, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runStage(ctx, p, *stage); err != nil {
		stop()
		fatal(logger, err)
	}
	logger.WithField("stage", *stage).Info("Pipeline finished")
}

func applyOverrides(cfg *config.Config, dataDir, policy string) error {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if policy != "" {
		cfg.Policy = policy
	}
	return cfg.Validate()
}

func buildPipeline(cfg *config.Config, logger logrus.FieldLogger) (*pipeline.Pipeline, error) {
	kb, err := config.LoadKnowledgeBase(cfg.KnowledgeBase)
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Deps{
		Config:        cfg,
		KnowledgeBase: kb,
		Fetcher:       fetch.NewClient(cfg.Dataset, logger),
		Logger:        logger,
	})
}

func runStage(ctx context.Context, p *pipeline.Pipeline, name string) error {
	switch name {
	case "all", "":
		return p.Run(ctx)
	case "extract":
		return p.Extract(ctx)
	case "stage":
		_, err := p.Stage(ctx)
		return err
	case "analyze":
		_, err := p.Analyze(ctx)
		return err
	case "export":
		_, err := p.Export(ctx)
		return err
	default:
		return fmt.Errorf("unknown stage %q", name)
	}
}

func fatal(logger logrus.FieldLogger, err error) {
	if logger != nil {
		logger.WithError(err).Error("Pipeline failed")
	}
	fmt.Fprintf(os.Stderr, "gourmet-pipeline: %v\n", err)
	os.Exit(1)
}
