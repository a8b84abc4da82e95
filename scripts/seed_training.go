package main

import (
	"context"
	"log"

	"applyflow/autofill-engine/internal/config"
	"applyflow/autofill-engine/internal/services"
)

// Seeds the qdrant label collection with the embedded training set. Run once
// before first serving traffic, and again whenever the training data changes.
func main() {
	log.Println("🚀 Starting training data seeding...")

	// Load configuration
	cfg := config.Load()

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Autofill.LLMCacheSize)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

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
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	log.Printf("📋 Seeding %d training labels...\n", len(services.TrainingData))

	if err := knnClassifier.LoadTrainingData(ctx, services.TrainingData); err != nil {
		log.Fatalf("❌ Failed to load training data: %v", err)
	}

	log.Println("✅ Training data seeded successfully")
}
