// @title Quizly API
// @version 1.0
// @description API for generating and taking quizzes built from YouTube videos.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name access_token
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizly/internal/adapter/quizgen"
	"quizly/internal/adapter/transcriber"
	"quizly/internal/adapter/videosource"
	"quizly/internal/cache"
	"quizly/internal/config"
	"quizly/internal/database"
	"quizly/internal/handler"
	"quizly/internal/logger"
	"quizly/internal/middleware"
	"quizly/internal/repository"
	"quizly/internal/service"

	_ "quizly/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Env, cfg.Logger.Level); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Pipeline adapters
	videoSource := videosource.NewYtdlpVideoSource(cfg.Pipeline.YtdlpPath)

	whisperTranscriber, err := transcriber.NewWhisperTranscriber(cfg.OpenAI.APIKey)
	if err != nil {
		appLogger.Fatal("Failed to create transcriber", zap.Error(err))
	}

	generator, err := quizgen.NewGeminiQuizGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	userRepository := repository.NewSQLXUserRepository(db)
	quizRepository := repository.NewSQLXQuizRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis-backed token blacklist
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	tokenBlacklist := cache.NewRedisTokenBlacklist(redisClient)

	// Initialize services
	authService, err := service.NewAuthService(userRepository, tokenBlacklist, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	quizService := service.NewQuizService(quizRepository, txManager, videoSource, whisperTranscriber, generator, cfg.Pipeline)
	attemptService := service.NewAttemptService(attemptRepository, quizRepository)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	quizHandler := handler.NewQuizHandler(quizService)
	attemptHandler := handler.NewAttemptHandler(attemptService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	apiGroup := app.Group("/api")

	// Auth routes
	apiGroup.Post("/register", authHandler.Register)
	apiGroup.Post("/login", authHandler.Login)
	apiGroup.Post("/logout", authHandler.Logout)
	apiGroup.Post("/token/refresh", authHandler.RefreshToken)

	// Quiz routes (all protected)
	protected := middleware.Protected(authService)
	apiGroup.Post("/createQuiz", protected, quizHandler.CreateQuiz)
	apiGroup.Get("/quizzes", protected, quizHandler.GetQuizzes)
	apiGroup.Get("/quizzes/recent", protected, quizHandler.GetRecentQuizzes)
	apiGroup.Get("/quizzes/:id", protected, quizHandler.GetQuiz)
	apiGroup.Put("/quizzes/:id", protected, quizHandler.UpdateQuiz)
	apiGroup.Patch("/quizzes/:id", protected, quizHandler.UpdateQuiz)
	apiGroup.Delete("/quizzes/:id", protected, quizHandler.DeleteQuiz)

	// Attempt routes
	apiGroup.Post("/quizzes/:id/start", protected, attemptHandler.StartAttempt)
	apiGroup.Patch("/attempts/:id/answer", protected, attemptHandler.SaveAnswer)
	apiGroup.Post("/attempts/:id/complete", protected, attemptHandler.CompleteAttempt)
	apiGroup.Get("/attempts/:id/results", protected, attemptHandler.GetResults)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
