package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"moneytrack/aiparse"
)

func main() {
	// Check for migrate command
	migrateCmd := flag.Bool("migrate", false, "Run database migration and seed data")
	seedDemoCmd := flag.Bool("seed-demo", false, "Seed a demo user with transactions (idempotent)")
	flag.Parse()

	if *migrateCmd {
		if err := setupDatabase(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
		os.Exit(0)
	}
	if *seedDemoCmd {
		if err := initDB(); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		if err := seedDemoData(db); err != nil {
			log.Fatalf("Seeding demo data failed: %v", err)
		}
		log.Println("Demo data seeded")
		os.Exit(0)
	}
	// Initialize database
	if err := initDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	if err := initRedis(); err != nil {
		log.Printf("Warning: Failed to initialize Redis: %v", err)
		log.Println("Continuing without Redis cache...")
		redisClient = nil
	}

	// Pick the message parser
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		aiParser = aiparse.NewOpenAIParser(apiKey, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
		log.Println("Using OpenAI message parser")
	} else {
		aiParser = aiparse.NewRulesParser()
		log.Println("OPENAI_API_KEY not set, using rules-based message parser")
	}

	// Setup Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Routes
	r.GET("/health", healthCheck)
	r.GET("/api/categories", getCategories)

	r.POST("/api/auth/register", register)
	r.POST("/api/auth/login", login)
	r.POST("/api/auth/request-otp", requestOtp)
	r.POST("/api/auth/verify-otp", verifyOtpHandler)

	authed := r.Group("/api", authRequired())
	authed.GET("/auth/profile", getProfile)
	authed.GET("/transactions", getTransactions)
	authed.POST("/transactions", addTransaction)
	authed.PUT("/transactions/:id", updateTransaction)
	authed.DELETE("/transactions/:id", deleteTransaction)
	authed.POST("/transactions/bulk-create", bulkCreateTransactions)
	authed.POST("/transactions/bulk-update", bulkUpdateTransactions)
	authed.POST("/transactions/bulk-delete", bulkDeleteTransactions)
	authed.POST("/transactions/transaction-by-ai", transactionByAI)
	authed.GET("/analytics", getAnalytics)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
