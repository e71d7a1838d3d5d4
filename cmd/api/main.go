package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockwatch/internal/board"
	pgRepo "stockwatch/internal/infra/adapter/persistence/postgres"
	"stockwatch/internal/infra/analyst"
	"stockwatch/internal/infra/db"
	"stockwatch/internal/infra/fetcher"
	"stockwatch/internal/infra/logo"
	"stockwatch/internal/infra/market"
	"stockwatch/internal/infra/news"
	authservice "stockwatch/internal/service/auth"
	digestUC "stockwatch/internal/usecase/digest"
	watchlistUC "stockwatch/internal/usecase/watchlist"
	"stockwatch/pkg/config"

	hhttp "stockwatch/internal/handler/http"
	hauth "stockwatch/internal/handler/http/auth"
	hboard "stockwatch/internal/handler/http/board"
	"stockwatch/internal/handler/http/requestid"
	hstock "stockwatch/internal/handler/http/stock"
	hwatchlist "stockwatch/internal/handler/http/watchlist"
	"stockwatch/internal/observability/logging"
	"stockwatch/internal/observability/tracing"
)

func main() {
	_ = godotenv.Load()
	logger := logging.NewLogger()

	secret := os.Getenv("JWT_SECRET")
	if err := hauth.ValidateJWTSecret(secret); err != nil {
		logger.Error("jwt secret validation failed", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Init()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler := setupServer(logger, database, []byte(secret))
	runServer(logger, handler)
}

// initDatabase opens the connection pool and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// buildAnalyst assembles the AI client chain: Claude primary, OpenAI
// fallback when both keys are set, deterministic no-op when neither is.
func buildAnalyst(logger *slog.Logger) analyst.Client {
	claudeKey := os.Getenv("CLAUDE_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	switch {
	case claudeKey != "" && openaiKey != "":
		logger.Info("analyst: claude with openai fallback")
		return analyst.NewFallback(analyst.NewClaude(claudeKey), analyst.NewOpenAI(openaiKey))
	case claudeKey != "":
		logger.Info("analyst: claude")
		return analyst.NewClaude(claudeKey)
	case openaiKey != "":
		logger.Info("analyst: openai")
		return analyst.NewOpenAI(openaiKey)
	default:
		logger.Warn("no AI API key configured, using deterministic summaries")
		return analyst.NewNoOp()
	}
}

// setupServer wires providers, services and routes into one handler.
func setupServer(logger *slog.Logger, database *sql.DB, secret []byte) http.Handler {
	httpClient := &http.Client{Timeout: config.GetEnvDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second)}

	var appCfg *config.AppConfig
	if path := os.Getenv("STOCKWATCH_CONFIG"); path != "" {
		cfg, err := config.LoadAppConfig(path)
		if err != nil {
			logger.Error("invalid application configuration", slog.Any("error", err))
			os.Exit(1)
		}
		appCfg = cfg
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid content fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}
	var contentFetcher news.ContentFetcher
	if fetchCfg.Enabled {
		contentFetcher = fetcher.NewReadabilityFetcher(fetchCfg)
	}

	marketData := market.NewChartClient(httpClient)
	newsSearcher := news.NewSearcher(httpClient, contentFetcher)
	var logoDomains map[string]string
	if appCfg != nil {
		logoDomains = appCfg.Logo.Domains
	}
	logoProvider := logo.NewProvider(logoDomains)
	aiClient := buildAnalyst(logger)

	watchRepo := pgRepo.NewWatchlistRepo(database)
	orderRepo := pgRepo.NewOrderRepo(database)
	userRepo := pgRepo.NewUserRepo(database)
	digestRepo := pgRepo.NewDigestRepo(database)

	watchSvc := &watchlistUC.Service{Repo: watchRepo, Orders: orderRepo, Market: marketData}
	digestSvc := &digestUC.Service{
		Watchlist: watchRepo,
		Digests:   digestRepo,
		News:      newsSearcher,
		Analyst:   aiClient,
	}
	authSvc := &authservice.Service{Users: userRepo}

	boards := board.NewManager(marketData, newsSearcher, aiClient, logoProvider, appCfg.Stagger(board.DefaultStagger))
	go boards.Janitor(context.Background(), 10*time.Minute, appCfg.IdleTTL(config.GetEnvDuration("BOARD_IDLE_TTL", 2*time.Hour)))

	authHandler := hauth.NewHandler(authSvc, secret)
	authLimiter := hhttp.NewRateLimiter(
		config.GetEnvInt("AUTH_RATE_LIMIT", 5),
		config.GetEnvDuration("AUTH_RATE_WINDOW", time.Minute),
	)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/token", authLimiter.Middleware(http.HandlerFunc(authHandler.Token)))
	mux.Handle("POST /auth/register", authLimiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.HandleFunc("GET /healthz", hhttp.HealthHandler(database))
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hstock.NewHandler(marketData, newsSearcher, aiClient, logoProvider, watchRepo, digestSvc).Register(mux)
	hwatchlist.NewHandler(watchSvc).Register(mux)
	hboard.NewHandler(boards, watchSvc).Register(mux)

	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover,
		hhttp.Logging,
		hhttp.LimitRequestBody(1<<20),
		hhttp.Metrics,
		hauth.Authz(secret),
	)
}

// runServer starts the HTTP server and blocks until shutdown.
func runServer(logger *slog.Logger, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("LISTEN_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
