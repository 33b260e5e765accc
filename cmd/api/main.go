package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solafi-wallet-core/config"
	"solafi-wallet-core/internal/adapter/chain/solanarpc"
	httpHandler "solafi-wallet-core/internal/adapter/http/handler"
	"solafi-wallet-core/internal/adapter/identity/local"
	pgStorage "solafi-wallet-core/internal/adapter/storage/postgres"
	redisStorage "solafi-wallet-core/internal/adapter/storage/redis"
	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/internal/service"
	"solafi-wallet-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("network", cfg.Chain.Network).
		Msg("Starting SolaFi Wallet Core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	profileRepo := pgStorage.NewProfileRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	balanceRepo := pgStorage.NewBalanceRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.Vault.AESKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Vault-backed secret storage (encrypted at rest)
	vault := redisStorage.NewVault(rdb, encSvc)

	// Solana RPC boundary
	chainClient, err := solanarpc.New(cfg.Chain, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Solana RPC client")
	}

	// Identity provider (local accounts table + Argon2 + JWT)
	idp := local.New(accountRepo, hashSvc, tokenSvc, log)

	// Initialize business services
	walletSvc := service.NewWalletService(
		vault,
		chainClient,
		domain.Network(cfg.Chain.Network),
		cfg.Chain.AirdropCapSOL,
		cfg.Chain.ConfirmTimeout,
		log,
	)
	authSvc := service.NewAuthService(idp, walletSvc, profileRepo, vault, log)
	ledgerSvc := service.NewLedgerService(
		txRepo,
		profileRepo,
		balanceRepo,
		transactor,
		walletSvc,
		service.NewNoopSettler(),
		log,
	)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		WalletSvc:      walletSvc,
		LedgerSvc:      ledgerSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
