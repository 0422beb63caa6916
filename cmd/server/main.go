package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kabucount/kabucount/internal/api"
	"github.com/kabucount/kabucount/internal/config"
	"github.com/kabucount/kabucount/internal/database"
	"github.com/kabucount/kabucount/internal/repository"
	"github.com/kabucount/kabucount/internal/service"
	"github.com/kabucount/kabucount/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	}))

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	groupRepo := repository.NewFundingGroupRepository(db)
	settlementRepo := repository.NewTaxSettlementRepository(db)
	adjustmentRepo := repository.NewAdjustmentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Create services
	locks := service.NewGroupLocks()
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(
		transactionRepo,
		groupRepo,
		settlementRepo,
		locks,
	)
	positionService := service.NewPositionService(transactionRepo)
	fundService := service.NewFundService(
		groupRepo,
		transactionRepo,
		adjustmentRepo,
		settlementRepo,
	)
	groupService := service.NewFundingGroupService(
		groupRepo,
		transactionRepo,
		settlementRepo,
		adjustmentRepo,
		locks,
	)
	taxService := service.NewTaxService(
		settlementRepo,
		transactionRepo,
		groupRepo,
		locks,
	)
	historyService := service.NewHistoryService(historyRepo, fundService)

	// Start the daily history job
	if cfg.History.Enabled {
		if err := historyService.Schedule(cfg.History.Schedule); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule fund history job")
		}
		defer historyService.Stop()
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:       systemService,
		Transactions: transactionService,
		Positions:    positionService,
		Funds:        fundService,
		Groups:       groupService,
		Tax:          taxService,
		History:      historyService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
