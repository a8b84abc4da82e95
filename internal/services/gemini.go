package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"google.golang.org/genai"
)

// GeminiService wraps the Gemini API for the two things this system needs
// from it: label embeddings for the nearest-neighbor classifier, and a
// guarded single-token classification of a field label into the closed
// category set.
type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	ClassifyFieldLabel(ctx context.Context, label string) (string, error)
}

type geminiService struct {
	client        *genai.Client
	modelName     string
	embedModel    string
	promptBuilder *PromptBuilder
	classifyCache *lru.Cache[string, string]
}

func NewGeminiService(apiKey string, classifyCacheSize int) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if classifyCacheSize <= 0 {
		classifyCacheSize = 1024
	}
	cache, err := lru.New[string, string](classifyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create classify cache: %w", err)
	}

	return &geminiService{
		client:        client,
		modelName:     "gemini-2.5-flash",
		embedModel:    "text-embedding-004",
		promptBuilder: NewPromptBuilder(),
		classifyCache: cache,
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// ClassifyFieldLabel implements GeminiService. Answers with a category from
// ValidCategories, or "none" for anything the model refuses, garbles or
// invents. Results are cached per label with LRU eviction since the same
// label recurs across forms.
func (g *geminiService) ClassifyFieldLabel(ctx context.Context, label string) (string, error) {
	if cached, ok := g.classifyCache.Get(label); ok {
		return cached, nil
	}

	prompt := g.promptBuilder.BuildClassifyPrompt(label)

	temperature := float32(0.1)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 16,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to classify label: %w", err)
	}

	result := "none"
	if resp != nil {
		answer := strings.ToLower(strings.TrimSpace(resp.Text()))
		if ValidCategories[answer] {
			result = answer
		} else if answer != "" {
			log.Printf("⚠️  Unexpected classification for %q: %s\n", label, answer)
		}
	}

	g.classifyCache.Add(label, result)
	return result, nil
}
