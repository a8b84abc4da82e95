package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"applyflow/autofill-engine/internal/config"
	"applyflow/autofill-engine/internal/handlers"
	"applyflow/autofill-engine/internal/repositories"
	"applyflow/autofill-engine/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize memory store
	var memoryStore services.MemoryStore
	if cfg.Memory.Store == "postgres" {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		memoryRepo := repositories.NewMemoryRepository(db)
		memoryStore = services.NewDBMemoryStore(memoryRepo)
		log.Println("✅ Postgres memory store initialized")
	} else {
		memoryStore = services.NewInMemoryStore()
		log.Println("✅ In-process memory store initialized")
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Autofill.LLMCacheSize)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize nearest-neighbor classifier
	knnClassifier, err := services.NewKNNClassifier(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx := context.Background()
	if err := knnClassifier.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Label classifier initialized successfully")

	// Initialize form session tracker and field matcher
	sessionTracker, err := services.NewSessionTracker(cfg.Autofill.MaxSessions)
	if err != nil {
		log.Fatalf("❌ Failed to initialize session tracker: %v", err)
	}

	fieldMatcher, err := services.NewFieldMatcher(sessionTracker, cfg.Autofill.LabelCacheSize)
	if err != nil {
		log.Fatalf("❌ Failed to initialize field matcher: %v", err)
	}
	log.Println("✅ Field matcher initialized successfully")

	// Initialize autofill orchestrator
	autofillService := services.NewAutofillService(
		memoryStore,
		sessionTracker,
		fieldMatcher,
		knnClassifier,
		geminiService,
		cfg.Autofill.LLMConcurrency,
		cfg.Autofill.LLMTimeout,
	)
	log.Println("✅ Autofill service initialized")

	// Initialize handlers
	autofillHandler := handlers.NewAutofillHandler(autofillService)
	memoryHandler := handlers.NewMemoryHandler(memoryStore, knnClassifier, cfg.Gemini.APIKey != "")
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Autofill Engine API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Post("/autofill", autofillHandler.HandleAutofill)
	api.Post("/autofill/batch", autofillHandler.HandleAutofillBatch)
	api.Get("/autofill/memory", memoryHandler.HandleMemoryStats)
	api.Delete("/autofill/memory", memoryHandler.HandleClearMemory)
	api.Get("/autofill/health", memoryHandler.HandleHealth)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Autofill Engine API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/autofill",
				"POST /api/v1/autofill/batch",
				"GET /api/v1/autofill/memory",
				"DELETE /api/v1/autofill/memory",
				"GET /api/v1/autofill/health",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
