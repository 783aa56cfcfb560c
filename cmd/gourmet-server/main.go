package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/gourmet/internal/api"
	"github.com/cognicore/gourmet/internal/logging"
	"github.com/cognicore/gourmet/pkg/gourmet/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		configPath = flag.String("config", "", "Config file (default ./gourmet.yaml when present)")
		addr       = flag.String("addr", "", "Override server.addr")
		results    = flag.String("results", "", "Results directory (default <data_dir>/results)")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "gourmet-server: .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gourmet-server: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := newServer(cfg, *addr, *results, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, srv, logger); err != nil {
		logger.WithError(err).Error("Server failed")
		stop()
		os.Exit(1)
	}
}

func newServer(cfg *config.Config, addr, resultsDir string, logger logrus.FieldLogger) *http.Server {
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if resultsDir == "" {
		resultsDir = cfg.Paths().ResultsDir
	}
	logger.WithFields(logrus.Fields{"addr": addr, "results": resultsDir}).Info("Serving artifacts")
	return &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(resultsDir, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
