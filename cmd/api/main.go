package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sagetrade/backend/internal/config"
	"sagetrade/backend/internal/handler"
	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/pkg/jwt"
	"sagetrade/backend/pkg/llm"
	"sagetrade/backend/pkg/logger"
	"sagetrade/backend/pkg/postgres"
	"sagetrade/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	log.Info("Starting SageTrade journal backend...")
	log.Infof("Environment: %s", cfg.Server.Env)

	log.Info("Connecting to Postgres...")
	db, err := postgres.New(postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to Postgres", err)
	}
	defer db.Close()
	log.Info("Postgres connected")

	log.Info("Connecting to Redis...")
	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	log.Info("Redis connected")

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(&cfg.CORS))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute))

	// Health check endpoint pinging both stores
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "Postgres connection failed"})
			return
		}
		if err := redisClient.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "Redis connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	jwtManager := jwt.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	chatClient := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	accountRepo := repository.NewAccountRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	strategyRepo := repository.NewStrategyRepository(db)
	planRepo := repository.NewPlanRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, jwtManager,
		cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire, log)
	userService := service.NewUserService(userRepo, log)
	accountService := service.NewAccountService(accountRepo, tradeRepo, payoutRepo, redisClient, log)
	tradeService := service.NewTradeService(tradeRepo, accountRepo, strategyRepo, redisClient, log)
	payoutService := service.NewPayoutService(payoutRepo, accountRepo, redisClient, log)
	metricsService := service.NewMetricsService(accountRepo, tradeRepo, payoutRepo, redisClient, log)
	strategyService := service.NewStrategyService(strategyRepo, log)
	planService := service.NewPlanService(planRepo, log)
	mentorService := service.NewMentorService(chatClient, accountRepo, tradeRepo,
		payoutRepo, planRepo, redisClient, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	accountHandler := handler.NewAccountHandler(accountService)
	tradeHandler := handler.NewTradeHandler(tradeService)
	payoutHandler := handler.NewPayoutHandler(payoutService)
	dashboardHandler := handler.NewDashboardHandler(metricsService)
	strategyHandler := handler.NewStrategyHandler(strategyService)
	planHandler := handler.NewPlanHandler(planService)
	mentorHandler := handler.NewMentorHandler(mentorService)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.AuthRateLimit(redisClient, cfg.RateLimit.AuthRequestsPerMinute), authHandler.Register)
			auth.POST("/login", middleware.AuthRateLimit(redisClient, cfg.RateLimit.AuthRequestsPerMinute), authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.AuthMiddleware(authService), authHandler.Logout)
			auth.POST("/logout-all", middleware.AuthMiddleware(authService), authHandler.LogoutAll)
			auth.GET("/me", middleware.AuthMiddleware(authService), authHandler.GetMe)
		}

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(authService))
		{
			authed.PUT("/users/me", userHandler.UpdateProfile)
			authed.POST("/users/me/password", userHandler.ChangePassword)

			accounts := authed.Group("/accounts")
			{
				accounts.POST("", accountHandler.Create)
				accounts.GET("", accountHandler.List)
				accounts.GET("/:id", accountHandler.Get)
				accounts.PUT("/:id", accountHandler.Update)
				accounts.DELETE("/:id", accountHandler.Delete)
				accounts.GET("/:id/summary", accountHandler.Summary)
				accounts.GET("/:id/dashboard", dashboardHandler.Dashboard)
				accounts.GET("/:id/calendar", dashboardHandler.Calendar)
				accounts.GET("/:id/equity", dashboardHandler.EquityCurve)
			}

			trades := authed.Group("/trades")
			{
				trades.POST("", tradeHandler.Create)
				trades.GET("", tradeHandler.List)
				trades.GET("/:id", tradeHandler.Get)
				trades.PUT("/:id", tradeHandler.Update)
				trades.DELETE("/:id", tradeHandler.Delete)
			}

			payouts := authed.Group("/payouts")
			{
				payouts.POST("", payoutHandler.Create)
				payouts.GET("", payoutHandler.List)
				payouts.DELETE("/:id", payoutHandler.Delete)
			}

			strategies := authed.Group("/strategies")
			{
				strategies.POST("", strategyHandler.Create)
				strategies.GET("", strategyHandler.List)
				strategies.GET("/:id", strategyHandler.Get)
				strategies.PUT("/:id", strategyHandler.Update)
				strategies.DELETE("/:id", strategyHandler.Delete)
			}

			authed.GET("/plan", planHandler.Get)
			authed.PUT("/plan", planHandler.Upsert)

			mentor := authed.Group("/mentor")
			{
				mentor.POST("/chat", middleware.MentorRateLimit(redisClient, cfg.RateLimit.MentorRequestsPerMinute), mentorHandler.Chat)
				mentor.GET("/history", mentorHandler.History)
				mentor.DELETE("/history", mentorHandler.ClearHistory)
			}

			admin := authed.Group("/admin/users")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("", userHandler.ListUsers)
				admin.GET("/:id", userHandler.GetUser)
				admin.PUT("/:id", userHandler.UpdateUser)
				admin.DELETE("/:id", userHandler.DeleteUser)
				admin.POST("/:id/reset-password", userHandler.ResetPassword)
			}
		}
	}

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	go func() {
		log.Infof("Listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", err)
	}
	log.Info("Server stopped")
}
