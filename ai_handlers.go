package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moneytrack/aiparse"
	"moneytrack/model"
)

// aiParser is chosen at startup: OpenAI-backed when an API key is configured,
// the rules parser otherwise.
var aiParser aiparse.Parser

type aiRequest struct {
	Message string `json:"message" binding:"required"`
}

// transactionByAI parses a free-text message into a transaction draft. The
// draft is returned to the client for confirmation; nothing is persisted here.
func transactionByAI(c *gin.Context) {
	var req aiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := aiParser.Parse(c.Request.Context(), req.Message, model.Categories)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "failed to parse transaction from message, please create it manually",
		})
		return
	}

	category, ok := model.CategoryByCode(draft.CategoryCode)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "no suitable category found",
		})
		return
	}

	expenseDate := draft.ExpenseDate
	tx := model.Transaction{
		ID:          uuid.NewString(),
		Description: draft.Description,
		Amount:      draft.Amount,
		ExpenseDate: &expenseDate,
		Category:    category,
		UserID:      currentUserID(c),
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "transaction parsed from message",
		"transaction": tx,
	})
}
