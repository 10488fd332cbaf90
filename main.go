package main

import (
	"log"

	"certquiz/config"
	"certquiz/handlers"
	"certquiz/logger"
	"certquiz/middleware"
	"certquiz/models"
	"certquiz/monitoring"
	"certquiz/routes"
	"certquiz/scoring"
	"certquiz/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zapLogger := logger.New(cfg.Server.Mode)
	defer zapLogger.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Question{},
		&models.Option{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuestionOutcome{},
		&models.TopicPerformance{},
	)
	if err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Register Prometheus collectors
	monitoring.Init()

	// Initialize services
	topicMapper := scoring.NewTopicMapper(nil, scoring.CanonicalTopic(cfg.Quiz.DefaultTopic), zapLogger)
	quizStore := services.NewQuizStore(db)
	quizService := services.NewQuizService(db, topicMapper, zapLogger)
	attemptService := services.NewAttemptService(quizStore, redisClient, topicMapper, zapLogger, cfg.Quiz.AttemptCacheTTL)
	generatorService := services.NewGeneratorService(cfg.OpenAI.APIKey, cfg.OpenAI.Model, quizService, zapLogger)

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(quizService, generatorService)
	quizHandler := handlers.NewQuizHandler(quizService, cfg.Quiz.PassThreshold)
	attemptHandler := handlers.NewAttemptHandler(attemptService)

	// Setup Gin router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(monitoring.MetricsMiddleware())

	// Setup routes
	routes.SetupRoutes(router, questionHandler, quizHandler, attemptHandler)

	// Start server
	zapLogger.Info("Server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
