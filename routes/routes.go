package routes

import (
	"net/http"

	"certquiz/handlers"
	"certquiz/monitoring"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	questionHandler *handlers.QuestionHandler,
	quizHandler *handlers.QuizHandler,
	attemptHandler *handlers.AttemptHandler,
) {
	// API routes
	api := router.Group("/api")
	{
		questions := api.Group("/questions")
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.POST("", questionHandler.CreateQuestion)
			questions.POST("/generate", questionHandler.GenerateQuestions)
			questions.GET("/:id", questionHandler.GetQuestionByID)
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.POST("/submit", attemptHandler.SubmitAnswers)
			quizzes.GET("/:id", quizHandler.GetQuizByID)
			quizzes.GET("/:id/results", attemptHandler.GetResults)
			quizzes.GET("/:id/progress", attemptHandler.GetProgress)
		}
	}

	// Prometheus scrape endpoint
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
