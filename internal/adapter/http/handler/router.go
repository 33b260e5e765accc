package handler

import (
	"solafi-wallet-core/internal/adapter/http/middleware"
	redisStore "solafi-wallet-core/internal/adapter/storage/redis"
	"solafi-wallet-core/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WalletSvc      ports.WalletService
	LedgerSvc      ports.LedgerService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
		auth.POST("/reset-password", rl("auth_login"), authHandler.ResetPassword)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	session := v1.Group("/auth", jwtAuth)
	{
		session.POST("/logout", authHandler.Logout)
		session.GET("/session", authHandler.Session)
	}

	profile := v1.Group("/profile", jwtAuth)
	{
		profile.GET("/me", rl("dashboard"), authHandler.Profile)
		profile.PUT("/wallet", rl("dashboard"), authHandler.ReassociateWallet)
	}

	walletHandler := NewWalletHandler(deps.AuthSvc, deps.WalletSvc, deps.LedgerSvc, deps.Logger)
	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.GET("/balance", rl("dashboard"), walletHandler.GetBalance)
		wallet.POST("/airdrop", rl("airdrop"), walletHandler.RequestAirdrop)
	}

	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.POST("/send", rl("send"), ledgerHandler.Send)
		transactions.GET("", rl("dashboard"), ledgerHandler.ListSent)
		transactions.GET("/received", rl("dashboard"), ledgerHandler.ListReceived)
		transactions.GET("/stats", rl("dashboard"), ledgerHandler.Stats)
	}

	return r
}
