// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"minerva-beacon/internal/config"
	authAdapter "minerva-beacon/internal/infra/adapters/auth"
	"minerva-beacon/internal/infra/adapters/minerva"
	storageAdapter "minerva-beacon/internal/infra/adapters/storage"
	"minerva-beacon/internal/infra/logging"
	"minerva-beacon/internal/infra/metrics"
	"minerva-beacon/internal/infra/web"
	"minerva-beacon/internal/infra/worker"
	"minerva-beacon/internal/tui"
	"minerva-beacon/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted tokens)")
	startupID := flag.String("startup", "", "startup ID to review")
	answersPath := flag.String("answers", "", "submit an answer batch from this YAML file and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	if *startupID == "" {
		log.Fatalf("-startup is required")
	}

	// ---- Auth ----
	tokens, err := authAdapter.NewTokenSource(cfg.Auth, cfg.Runtime.Dev, logger)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	userID, err := tokens.UserID(ctx)
	if err != nil {
		log.Fatalf("auth identity: %v", err)
	}
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithUserID(logging.WithStartupID(ctx, *startupID), userID)

	// ---- Backend clients ----
	api := minerva.NewClient(cfg.API.BaseURL, tokens, cfg.API.Timeout, logger)
	analysisClient := minerva.NewAnalysisClient(api, cfg.Beacon.AnalysisCacheTTL)

	// ---- Worker pool (attachment uploads) ----
	pool := worker.NewPool(4, logger)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- Answer batch mode ----
	if *answersPath != "" {
		uploader := storageAdapter.NewUploader(cfg.Storage.BaseURL, tokens, cfg.Storage.Timeout, logger)
		answersUC := usecase.NewAnswersUseCase(api, uploader, pool, logger)
		if err := runAnswerBatch(ctx, answersUC, *startupID, *answersPath); err != nil {
			log.Fatalf("answers: %v", err)
		}
		return
	}

	// ---- Beacon wiring ----
	store := usecase.NewSessionStore(userID, *startupID, logger)
	transcript := usecase.NewTranscriptUseCase(store, api, *startupID, logger)
	budget := usecase.NewContextBudget(cfg.Beacon.ContextTokenBudget)

	// ---- Debug surface ----
	if cfg.Debug.Addr != "" {
		dbg := web.NewServer(cfg.Debug.Addr, store, logger)
		go func() {
			if err := dbg.Start(); err != nil {
				logger.Warn().Err(err).Msg("debug server stopped")
			}
		}()
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer shutCancel()
			_ = dbg.Shutdown(shutCtx)
		}()
	}

	// ---- Analysis document ----
	doc, err := analysisClient.FetchAnalysis(ctx, *startupID)
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}
	logger.Info().Str("startup_id", *startupID).Int("sections", len(doc.Sections)).Msg("analysis loaded")

	// ---- TUI ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	app := tui.New(store, transcript, budget, doc, logger)
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
