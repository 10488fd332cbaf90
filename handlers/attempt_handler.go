package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"certquiz/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
}

func NewAttemptHandler(attemptService *services.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
	}
}

// SubmitAnswers is the submission boundary: it records a batch of answers
// and optionally completes the quiz. Answer tokens are strings holding
// either an option ID or a 1-based option index.
func (h *AttemptHandler) SubmitAnswers(c *gin.Context) {
	var req services.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.attemptService.SubmitAnswers(c.Request.Context(), &req)
	if errors.Is(err, services.ErrQuizNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}
	if errors.Is(err, services.ErrQuizCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quiz is already completed"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": result.Processed,
		"correct":   result.Correct,
		"score":     result.Score,
	})
}

func (h *AttemptHandler) GetResults(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	results, err := h.attemptService.GetResults(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrQuizNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}
	if errors.Is(err, services.ErrQuizNotCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quiz is not completed yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *AttemptHandler) GetProgress(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	progress, err := h.attemptService.GetProgress(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrQuizNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, progress)
}
