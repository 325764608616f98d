package main

import (
	"database/sql"
	"fmt"

	"moneytrack/model"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		code VARCHAR(50) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		description VARCHAR(255),
		amount DECIMAL(14,2) NOT NULL,
		expense_date TIMESTAMP,
		category_code VARCHAR(50) REFERENCES categories(code),
		user_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, expense_date DESC);
`

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// seedDefaultCategories inserts the fixed category set. The codes are
// reference data shared with the mobile client; user actions never change them.
func seedDefaultCategories(db *sql.DB) error {
	for _, c := range model.Categories {
		_, err := db.Exec(
			`INSERT INTO categories (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
			c.Code, c.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Code, err)
		}
	}
	return nil
}

// Seed a demo user with a handful of transactions for presentations.
// Idempotent: will only run if the demo user does not exist yet.
func seedDemoData(db *sql.DB) error {
	var cnt int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'demo@moneytrack.local'`).Scan(&cnt); err != nil {
		return fmt.Errorf("checking demo user: %w", err)
	}
	if cnt > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var userID string
	err = tx.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ('demo', 'demo@moneytrack.local', '*')
		RETURNING id::text`).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	const demoTx = `
	INSERT INTO transactions (id, description, amount, expense_date, category_code, user_id) VALUES
	(gen_random_uuid(), 'Pho and coffee', 86.50, CURRENT_DATE - INTERVAL '25 days', 'FOOD_001', $1),
	(gen_random_uuid(), 'Apartment rent', 1500.00, CURRENT_DATE - INTERVAL '24 days', 'FIXED_001', $1),
	(gen_random_uuid(), 'Running shoes', 120.00, CURRENT_DATE - INTERVAL '20 days', 'SHOPPING_001', $1),
	(gen_random_uuid(), 'Movie night', 28.50, CURRENT_DATE - INTERVAL '16 days', 'ENTERTAINMENT_001', $1),
	(gen_random_uuid(), 'Train to Da Nang', 64.00, CURRENT_DATE - INTERVAL '12 days', 'TRAVEL_001', $1),
	(gen_random_uuid(), 'Online course', 49.99, CURRENT_DATE - INTERVAL '9 days', 'EDUCATION_001', $1),
	(gen_random_uuid(), 'Dentist', 95.00, CURRENT_DATE - INTERVAL '6 days', 'HEALTH_CARE_001', $1),
	(gen_random_uuid(), 'Index fund top-up', 300.00, CURRENT_DATE - INTERVAL '4 days', 'INVESTMENT_001', $1),
	(gen_random_uuid(), 'Refunded shirt', -35.00, CURRENT_DATE - INTERVAL '2 days', 'SHOPPING_001', $1)
	`
	if _, err := tx.Exec(demoTx, userID); err != nil {
		return fmt.Errorf("seeding demo transactions: %w", err)
	}

	return tx.Commit()
}
