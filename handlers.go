package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneytrack/model"
)

// AnalyticsSummary contains summary statistics for the last 30 days
type AnalyticsSummary struct {
	TotalSpent       decimal.Decimal `json:"total_spent"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryAnalytics contains the spent total for a single category
type CategoryAnalytics struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// Analytics contains all analytics data
type Analytics struct {
	Summary    AnalyticsSummary    `json:"summary"`
	ByCategory []CategoryAnalytics `json:"byCategory"`
}

const transactionColumns = `
	t.id::text, t.description, t.amount::text, t.expense_date, t.created_at, t.user_id::text,
	c.code, c.name`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var desc sql.NullString
	var expense sql.NullTime
	var created time.Time
	err := row.Scan(&t.ID, &desc, &t.Amount, &expense, &created, &t.UserID,
		&t.Category.Code, &t.Category.Name)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Description = desc.String
	if expense.Valid {
		t.ExpenseDate = &expense.Time
	}
	t.CreatedDate = &created
	return t, nil
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	if err := db.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "moneytrack-api",
	})
}

// getTransactions retrieves the user's transactions with optional Redis caching
func getTransactions(c *gin.Context) {
	ctx := context.Background()
	userID := currentUserID(c)

	// Try to get from cache
	if redisClient != nil {
		cached, err := redisClient.Get(ctx, transactionsCacheKey(userID)).Result()
		if err == nil {
			var transactions []model.Transaction
			if err := json.Unmarshal([]byte(cached), &transactions); err == nil {
				c.JSON(http.StatusOK, transactions)
				return
			}
		}
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON t.category_code = c.code
		WHERE t.user_id = $1
		ORDER BY t.expense_date DESC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()

	// ensure empty array ([]) instead of null when no rows
	transactions := make([]model.Transaction, 0)

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		transactions = append(transactions, t)
	}

	// Cache for 60 seconds
	if redisClient != nil {
		if data, err := json.Marshal(transactions); err == nil {
			redisClient.SetEx(ctx, transactionsCacheKey(userID), data, 60*time.Second)
		}
	}

	c.JSON(http.StatusOK, transactions)
}

// addTransaction creates a new transaction. The id is supplied by the client
// and kept stable across offline sync; a duplicate id is treated as already
// created, not as an error.
func addTransaction(c *gin.Context) {
	var t model.Transaction
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, ok := model.CategoryByCode(t.Category.Code)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category code"})
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Category = category
	t.UserID = currentUserID(c)

	_, err := db.Exec(`
		INSERT INTO transactions (id, description, amount, expense_date, category_code, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.Description, t.Amount, t.ExpenseDate, t.Category.Code, t.UserID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateUserCache(context.Background(), t.UserID)

	c.JSON(http.StatusCreated, t)
}

// updateTransaction modifies an existing transaction owned by the user
func updateTransaction(c *gin.Context) {
	id := c.Param("id")
	userID := currentUserID(c)

	var t model.Transaction
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, ok := model.CategoryByCode(t.Category.Code)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category code"})
		return
	}

	result, err := db.Exec(`
		UPDATE transactions
		SET description = $1, amount = $2, expense_date = $3, category_code = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6`,
		t.Description, t.Amount, t.ExpenseDate, category.Code, id, userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	invalidateUserCache(context.Background(), userID)

	t.ID = id
	t.UserID = userID
	t.Category = category
	c.JSON(http.StatusOK, t)
}

// deleteTransaction removes a transaction by ID
func deleteTransaction(c *gin.Context) {
	id := c.Param("id")
	userID := currentUserID(c)

	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	_, err := db.Exec("DELETE FROM transactions WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateUserCache(context.Background(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// getCategories retrieves the fixed category set
func getCategories(c *gin.Context) {
	rows, err := db.Query("SELECT code, name FROM categories ORDER BY name")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.Code, &cat.Name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, categories)
}

// getAnalytics retrieves 30-day analytics with optional Redis caching
func getAnalytics(c *gin.Context) {
	ctx := context.Background()
	userID := currentUserID(c)

	// Try to get from cache
	if redisClient != nil {
		cached, err := redisClient.Get(ctx, analyticsCacheKey(userID)).Result()
		if err == nil {
			var analytics Analytics
			if err := json.Unmarshal([]byte(cached), &analytics); err == nil {
				c.JSON(http.StatusOK, analytics)
				return
			}
		}
	}

	summaryQuery := `
		SELECT COALESCE(SUM(amount), 0)::text, COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND expense_date >= CURRENT_DATE - INTERVAL '30 days'
	`

	var summary AnalyticsSummary
	err := db.QueryRow(summaryQuery, userID).Scan(&summary.TotalSpent, &summary.TransactionCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	categoryQuery := `
		SELECT c.code, c.name, COALESCE(SUM(t.amount), 0)::text as total
		FROM transactions t
		JOIN categories c ON t.category_code = c.code
		WHERE t.user_id = $1 AND t.expense_date >= CURRENT_DATE - INTERVAL '30 days'
		GROUP BY c.code, c.name
		ORDER BY SUM(t.amount) DESC
	`

	rows, err := db.Query(categoryQuery, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()

	// ensure empty array ([]) instead of null when no rows
	byCategory := make([]CategoryAnalytics, 0)

	for rows.Next() {
		var cat CategoryAnalytics
		if err := rows.Scan(&cat.Code, &cat.Name, &cat.Total); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		byCategory = append(byCategory, cat)
	}

	analytics := Analytics{
		Summary:    summary,
		ByCategory: byCategory,
	}

	// Cache for 5 minutes
	if redisClient != nil {
		if data, err := json.Marshal(analytics); err == nil {
			redisClient.SetEx(ctx, analyticsCacheKey(userID), data, 5*time.Minute)
		}
	}

	c.JSON(http.StatusOK, analytics)
}
