package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"stockwatch/internal/handler/http/respond"
	pgRepo "stockwatch/internal/infra/adapter/persistence/postgres"
	"stockwatch/internal/infra/analyst"
	"stockwatch/internal/infra/db"
	"stockwatch/internal/infra/fetcher"
	"stockwatch/internal/infra/news"
	workerPkg "stockwatch/internal/infra/worker"
	"stockwatch/internal/observability/logging"
	digestUC "stockwatch/internal/usecase/digest"
)

func main() {
	_ = godotenv.Load()
	logger := logging.NewLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := workerPkg.LoadConfigFromEnv(logger)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("digest_timeout", cfg.DigestTimeout),
		slog.Int("health_port", cfg.HealthPort))

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	svc := setupDigestService(logger, database)
	startCron(ctx, logger, svc, cfg, healthServer)
}

// initDatabase opens the pool and waits for the API server's migrations
// to land before the first job can run.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	const probe = "SELECT 1 FROM watchlist LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return database
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
	return nil
}

// setupDigestService wires the news and AI providers into the digest
// use case.
func setupDigestService(logger *slog.Logger, database *sql.DB) *digestUC.Service {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("invalid content fetch configuration, content fetching disabled",
			slog.Any("error", err))
		fetchCfg.Enabled = false
	}
	var contentFetcher news.ContentFetcher
	if fetchCfg.Enabled {
		contentFetcher = fetcher.NewReadabilityFetcher(fetchCfg)
	}

	var aiClient analyst.Client
	switch {
	case os.Getenv("CLAUDE_API_KEY") != "":
		aiClient = analyst.NewClaude(os.Getenv("CLAUDE_API_KEY"))
	case os.Getenv("OPENAI_API_KEY") != "":
		aiClient = analyst.NewOpenAI(os.Getenv("OPENAI_API_KEY"))
	default:
		logger.Warn("no AI API key configured, using deterministic digests")
		aiClient = analyst.NewNoOp()
	}

	return &digestUC.Service{
		Watchlist: pgRepo.NewWatchlistRepo(database),
		Digests:   pgRepo.NewDigestRepo(database),
		News:      news.NewSearcher(httpClient, contentFetcher),
		Analyst:   aiClient,
	}
}

// startCron schedules the digest job and blocks until shutdown.
func startCron(ctx context.Context, logger *slog.Logger, svc *digestUC.Service, cfg workerPkg.Config, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.CronSchedule, func() {
		runDigestJob(logger, svc, cfg)
	}); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("worker shutting down")
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("worker stopped")
}

// runDigestJob executes one digest run with timeout and metrics.
func runDigestJob(logger *slog.Logger, svc *digestUC.Service, cfg workerPkg.Config) {
	start := time.Now()
	workerPkg.RecordJobRun("started")
	logger.Info("digest run started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DigestTimeout)
	defer cancel()

	stats, err := svc.RunAll(ctx)
	if err != nil {
		logger.Error("digest run failed", slog.String("error", respond.Sanitize(err.Error())))
		workerPkg.RecordJobRun("failure")
		workerPkg.RecordJobDuration(time.Since(start))
		return
	}

	workerPkg.RecordJobRun("success")
	workerPkg.RecordJobDuration(time.Since(start))
	workerPkg.RecordTickersProcessed(stats.Tickers)
	workerPkg.RecordLastSuccess()

	logger.Info("digest run completed",
		slog.Int("tickers", stats.Tickers),
		slog.Int64("written", stats.Written),
		slog.Int64("empty", stats.Empty),
		slog.Int64("fetch_errors", stats.FetchError),
		slog.Int64("ai_errors", stats.AIError),
		slog.Duration("duration", stats.Duration),
	)
}
