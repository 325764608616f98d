package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moneytrack/model"
)

// The bulk endpoints drain the mobile client's offline queue. Each item is
// validated and applied independently and failures are accumulated per item,
// so the response reports partial success; Success is false if anything
// failed and the client then retains the whole batch for retry.

// bulkCreateTransactions handles POST /api/transactions/bulk-create
func bulkCreateTransactions(c *gin.Context) {
	var txs []model.Transaction
	if err := c.ShouldBindJSON(&txs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	resp := model.BulkResponse{Transactions: make([]model.Transaction, 0, len(txs))}

	for i, t := range txs {
		category, ok := model.CategoryByCode(t.Category.Code)
		if !ok {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: unknown category code %q", i+1, t.Category.Code))
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.Category = category
		t.UserID = userID

		// Re-submitting an id that already exists is not an error: the client
		// may retry a batch the server partially accepted.
		_, err := db.Exec(`
			INSERT INTO transactions (id, description, amount, expense_date, category_code, user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Description, t.Amount, t.ExpenseDate, t.Category.Code, t.UserID,
		)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: failed to create: %v", i+1, err))
			continue
		}
		resp.Transactions = append(resp.Transactions, t)
	}

	invalidateUserCache(context.Background(), userID)
	finishBulk(c, &resp, "created", len(txs))
}

// bulkUpdateTransactions handles POST /api/transactions/bulk-update
func bulkUpdateTransactions(c *gin.Context) {
	var txs []model.Transaction
	if err := c.ShouldBindJSON(&txs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	resp := model.BulkResponse{Transactions: make([]model.Transaction, 0, len(txs))}

	for i, t := range txs {
		category, ok := model.CategoryByCode(t.Category.Code)
		if !ok {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: unknown category code %q", i+1, t.Category.Code))
			continue
		}

		result, err := db.Exec(`
			UPDATE transactions
			SET description = $1, amount = $2, expense_date = $3, category_code = $4, updated_at = CURRENT_TIMESTAMP
			WHERE id = $5 AND user_id = $6`,
			t.Description, t.Amount, t.ExpenseDate, category.Code, t.ID, userID,
		)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: failed to update: %v", i+1, err))
			continue
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: not found", i+1))
			continue
		}
		t.Category = category
		t.UserID = userID
		resp.Transactions = append(resp.Transactions, t)
	}

	invalidateUserCache(context.Background(), userID)
	finishBulk(c, &resp, "updated", len(txs))
}

// bulkDeleteTransactions handles POST /api/transactions/bulk-delete
func bulkDeleteTransactions(c *gin.Context) {
	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	resp := model.BulkResponse{}

	deleted := 0
	for i, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: invalid id %q", i+1, id))
			continue
		}
		result, err := db.Exec(`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: failed to delete: %v", i+1, err))
			continue
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			resp.Errors = append(resp.Errors, fmt.Sprintf("transaction %d: not found", i+1))
			continue
		}
		deleted++
	}

	invalidateUserCache(context.Background(), userID)
	finishBulk(c, &resp, "deleted", len(ids))
}

func finishBulk(c *gin.Context, resp *model.BulkResponse, verb string, total int) {
	applied := total - len(resp.Errors)
	if len(resp.Errors) > 0 {
		resp.Success = false
		resp.Message = fmt.Sprintf("%s %d out of %d transactions, %d failed", verb, applied, total, len(resp.Errors))
	} else {
		resp.Success = true
		resp.Message = fmt.Sprintf("successfully %s %d transactions", verb, applied)
	}
	c.JSON(http.StatusOK, resp)
}
