package main

import (
	"log"
	"time"

	"retailpulse/ai"
	"retailpulse/config"
	"retailpulse/db"
	_ "retailpulse/docs" // Swagger docs
	"retailpulse/handlers"
	"retailpulse/service"
	"retailpulse/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize query history store
	history, err := db.NewHistoryStore(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize history store: %v", err)
	}
	defer history.Close()

	// Initialize the warehouse connection. A connection failure is fatal:
	// there is no reconnect or retry.
	warehouse, err := service.NewWarehouse(cfg.Snowflake, history, cfg.QueryTimeout)
	if err != nil {
		log.Fatalf("Failed to connect to warehouse: %v", err)
	}
	defer warehouse.Close()
	log.Println("Warehouse connection established")

	// Initialize the analyst bridge (optional)
	var analyst handlers.AnalystClient
	if cfg.AnalystConfigured() {
		analyst = ai.New(cfg.Analyst.Host, cfg.SemanticViewFQN(), cfg.Analyst.Token)
		log.Println("Analyst bridge configured")
	} else {
		log.Println("Analyst bridge not configured; chat endpoints will be unavailable")
	}

	// Initialize results export storage
	results, err := service.NewResultsStorage(cfg.ResultsDir)
	if err != nil {
		log.Fatalf("Failed to initialize results storage: %v", err)
	}

	// Initialize handlers
	h := handlers.New(warehouse, analyst, session.NewStore(), results, history)

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          24 * time.Hour,
	}))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/health", h.HealthHandler)

	r.GET("/api/views/products", h.ProductsViewHandler)
	r.GET("/api/views/sales", h.SalesViewHandler)
	r.GET("/api/views/benchmarking", h.BenchmarkingViewHandler)

	r.POST("/api/chat/message", h.ChatMessageHandler)
	r.GET("/api/chat/transcript", h.ChatTranscriptHandler)
	r.POST("/api/chat/clear", h.ChatClearHandler)
	r.GET("/api/chat/suggestions", h.ChatSuggestionsHandler)
	r.POST("/api/chat/sessions", h.CreateChatSessionHandler)

	r.POST("/api/sql/execute", h.ExecuteSQLHandler)
	r.GET("/api/results/files", h.ListResultFilesHandler)
	r.GET("/api/results/file/:filename", h.GetResultFileHandler)
	r.GET("/api/history", h.QueryHistoryHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
