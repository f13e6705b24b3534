package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/escrowkeeper/escrowkeeper/internal/api/http"
	"github.com/escrowkeeper/escrowkeeper/internal/application/lifecycle"
	"github.com/escrowkeeper/escrowkeeper/internal/application/notify"
	"github.com/escrowkeeper/escrowkeeper/internal/application/session"
	"github.com/escrowkeeper/escrowkeeper/internal/bot"
	"github.com/escrowkeeper/escrowkeeper/internal/config"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/audit"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/participant"
	"github.com/escrowkeeper/escrowkeeper/internal/infrastructure/postgres"
	"github.com/escrowkeeper/escrowkeeper/internal/infrastructure/sqlite"
	"github.com/escrowkeeper/escrowkeeper/internal/infrastructure/telegram"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	// repositories
	var (
		deals        deal.Repository
		participants participant.Repository
		auditLog     audit.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db error: %v", err)
		}
		defer pool.Close()
		if err := postgres.InitSchema(ctx, pool); err != nil {
			log.Fatalf("schema error: %v", err)
		}
		deals = postgres.NewDealRepository(pool)
		participants = postgres.NewParticipantRepository(pool)
		auditLog = postgres.NewAuditRepository(pool)
	} else {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("db error: %v", err)
		}
		defer db.Close()
		if err := sqlite.InitSchema(ctx, db); err != nil {
			log.Fatalf("schema error: %v", err)
		}
		deals = sqlite.NewDealRepository(db)
		participants = sqlite.NewParticipantRepository(db)
		auditLog = sqlite.NewAuditRepository(db)
	}

	// transport
	tg, err := telegram.New(cfg.BotToken, logger)
	if err != nil {
		log.Fatalf("telegram error: %v", err)
	}

	// services
	lifecycleSvc := lifecycle.NewService(deals, auditLog, cfg.ArbiterIDs, logger)
	sessions := session.NewEngine(logger)
	dispatcher := notify.NewDispatcher(tg, logger)
	router := bot.NewRouter(sessions, lifecycleSvc, dispatcher, participants, tg, cfg.PaymentInfo, logger)

	// operational API
	apiServer := httpapi.NewServer(lifecycleSvc)
	httpServer := &http.Server{
		Addr:         cfg.OpsAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.OpsAddr).Msg("ops http server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("ops http server failed")
		}
	}()

	// update loop
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := tg.Run(runCtx, router); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("update loop stopped")
		}
	}()

	// graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
}
