package handlers

import (
	"errors"
	"net/http"

	"contractiq-backend/service"

	"github.com/gin-gonic/gin"
)

// ContractHandler handles HTTP requests for contract analysis
type ContractHandler struct {
	analyzer *service.AnalyzerService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(analyzer *service.AnalyzerService) *ContractHandler {
	return &ContractHandler{analyzer: analyzer}
}

// AnalyzeContractRequest represents the request body for contract analysis
type AnalyzeContractRequest struct {
	Document string `json:"document" binding:"required"`
}

// AnalyzeContract handles POST /api/contracts/analyze
func (h *ContractHandler) AnalyzeContract(c *gin.Context) {
	var req AnalyzeContractRequest
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

	record, err := h.analyzer.AnalyzeContract(c.Request.Context(), req.Document)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Contract has not been ingested",
				},
			})
			return
		}
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
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}
