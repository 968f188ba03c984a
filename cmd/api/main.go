// @title Quiz Gen API
// @version 1.0
// @description Generates multiple-choice quizzes from text, YouTube transcripts and course pages.
// @host localhost:8000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-gen/cmd/api/docs"
	"quiz-gen/internal/app"
	"quiz-gen/internal/config"
	"quiz-gen/internal/handler"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/middleware"
	"quiz-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	pipeline, err := app.NewPipeline(cfg)
	if err != nil {
		appLogger.Fatal("Failed to build quiz pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	quizHandler := handler.NewQuizHandler(pipeline.Generator)
	validator := middleware.NewValidationMiddleware(validation.NewValidator(cfg.Server.BodyLimit))

	server := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	server.Use(recover.New())
	server.Use(middleware.RequestLogger())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
		MaxAge:       300,
	}))

	server.Get("/swagger/*", swagger.HandlerDefault)
	server.Get("/health", handler.NewHealthHandler(pipeline.Cache).Health)
	server.Post("/generate-quiz", validator.ValidateGenerateQuiz(), quizHandler.GenerateQuiz)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := server.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
