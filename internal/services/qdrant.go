package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// LabelClassifier predicts a canonical attribute category for a free-text
// field label. Pluggable so tests can swap in a rule-based stub instead of
// depending on an external embedding resource.
type LabelClassifier interface {
	Predict(ctx context.Context, label string) (string, float64, error)
	Ready() bool
}

// knnClassifier is the qdrant-backed LabelClassifier: training labels are
// embedded and upserted as points, and prediction is a k-nearest-neighbor
// query with majority vote over the neighbors' categories.
type knnClassifier struct {
	client         *qdrant.Client
	gemini         GeminiService
	collectionName string
	vectorSize     uint64
	neighbors      uint64
	ready          atomic.Bool
}

type KNNClassifier interface {
	LabelClassifier
	InitCollection(ctx context.Context) error
	LoadTrainingData(ctx context.Context, examples []TrainingExample) error
}

func NewKNNClassifier(urlStr, apiKey, collectionName string, gemini GeminiService) (KNNClassifier, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &knnClassifier{
		client:         client,
		gemini:         gemini,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
		neighbors:      3,
	}, nil
}

// InitCollection implements KNNClassifier.
func (k *knnClassifier) InitCollection(ctx context.Context) error {
	exists, err := k.client.CollectionExists(ctx, k.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Label collection already exists")
		k.ready.Store(true)
		return nil
	}

	err = k.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: k.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     k.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", k.collectionName)
	return nil
}

// LoadTrainingData implements KNNClassifier. Embeds every labeled example
// and upserts it with its category as payload.
func (k *knnClassifier) LoadTrainingData(ctx context.Context, examples []TrainingExample) error {
	var points []*qdrant.PointStruct

	for _, example := range examples {
		embedding, err := k.gemini.GenerateEmbedding(ctx, example.Label)
		if err != nil {
			return fmt.Errorf("failed to embed training label %q: %w", example.Label, err)
		}

		pointID := uuid.New()
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(pointID.ID())),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"label":    example.Label,
				"category": example.Category,
			}),
		})
	}

	_, err := k.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: k.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert training points: %w", err)
	}

	k.ready.Store(true)
	log.Printf("✅ Loaded %d training labels into '%s'\n", len(points), k.collectionName)
	return nil
}

// Predict implements LabelClassifier. Unanimous neighbors yield confidence
// 0.9; a split vote falls back to the majority category at 0.7.
func (k *knnClassifier) Predict(ctx context.Context, label string) (string, float64, error) {
	embedding, err := k.gemini.GenerateEmbedding(ctx, label)
	if err != nil {
		return "", 0, fmt.Errorf("failed to embed label: %w", err)
	}

	results, err := k.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: k.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(k.neighbors),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to query neighbors: %w", err)
	}

	if len(results) == 0 {
		return "", 0, fmt.Errorf("no neighbors found")
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(results))
	for _, point := range results {
		category := payloadString(point.Payload, "category")
		if category == "" {
			continue
		}
		if counts[category] == 0 {
			order = append(order, category)
		}
		counts[category]++
	}

	if len(order) == 0 {
		return "", 0, fmt.Errorf("neighbors carried no category payload")
	}

	if len(order) == 1 {
		return order[0], 0.9, nil
	}

	// Majority vote; ties resolve to the nearest neighbor's category since
	// order follows query ranking.
	best := order[0]
	for _, category := range order[1:] {
		if counts[category] > counts[best] {
			best = category
		}
	}
	return best, 0.7, nil
}

// Ready implements LabelClassifier.
func (k *knnClassifier) Ready() bool {
	return k.ready.Load()
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}
