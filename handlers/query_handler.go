package handlers

import (
	"errors"
	"net/http"

	"contractiq-backend/service"

	"github.com/gin-gonic/gin"
)

// QueryHandler handles HTTP requests for policy Q&A
type QueryHandler struct {
	ragService *service.RAGService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(ragService *service.RAGService) *QueryHandler {
	return &QueryHandler{ragService: ragService}
}

// QueryRequest represents the request body for a policy question
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k"`
}

// Query handles POST /api/query
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	answer, err := h.ragService.AnswerQuestion(c.Request.Context(), req.Question, req.TopK)
	if err != nil {
		if errors.Is(err, service.ErrGenerationUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "GENERATION_UNAVAILABLE",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    answer,
	})
}
