package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"applyflow/autofill-engine/internal/models"
)

// AutofillService resolves a list of form fields against a profile,
// composing the memory cache, the deterministic field matcher, the
// nearest-neighbor classifier and the guarded LLM fallback with priority
// and fallback semantics. Failures at any stage are absorbed: the worst
// outcome is a smaller result mapping, never an error to the caller.
type AutofillService interface {
	Resolve(ctx context.Context, req models.AutofillRequest) map[string]string
	ResolveBatch(ctx context.Context, reqs []models.AutofillRequest) []map[string]string
}

type resolutionStats struct {
	Memory    int
	Rules     int
	ML        int
	LLM       int
	Unmatched int
}

type autofillService struct {
	memory         MemoryStore
	sessions       SessionTracker
	matcher        FieldMatcher
	classifier     LabelClassifier
	gemini         GeminiService
	llmConcurrency int
	llmTimeout     time.Duration
}

func NewAutofillService(
	memory MemoryStore,
	sessions SessionTracker,
	matcher FieldMatcher,
	classifier LabelClassifier,
	gemini GeminiService,
	llmConcurrency int,
	llmTimeout time.Duration,
) AutofillService {
	if llmConcurrency <= 0 {
		llmConcurrency = 5
	}
	if llmTimeout <= 0 {
		llmTimeout = 4 * time.Second
	}

	return &autofillService{
		memory:         memory,
		sessions:       sessions,
		matcher:        matcher,
		classifier:     classifier,
		gemini:         gemini,
		llmConcurrency: llmConcurrency,
		llmTimeout:     llmTimeout,
	}
}

// Resolve implements AutofillService. Fields with no resolution are simply
// absent from the result; malformed requests resolve to an empty map.
func (s *autofillService) Resolve(ctx context.Context, req models.AutofillRequest) map[string]string {
	results := make(map[string]string)
	if len(req.Fields) == 0 {
		log.Println("⚠️ No fields provided in request")
		return results
	}

	start := time.Now()
	log.Printf("🔍 Processing %d fields\n", len(req.Fields))

	userProfile := FlattenProfile(req.Profile)
	formID := s.sessions.FormID(req.Fields)
	var stats resolutionStats

	for _, field := range req.Fields {
		if field.Label == "" {
			continue
		}

		label := strings.TrimSpace(field.Label)
		fieldType := DetectFieldType(label, field.FieldID)
		grouped := isRepeatedGroupField(field.FieldID)

		// Memory check with type validation. Repeated-group fields skip the
		// cache entirely: their labels ("Company", "Title") are generic
		// across groups, so a label-keyed entry from one group would leak
		// into every sibling group.
		if !grouped {
			if cached, ok := s.memory.Get(label, fieldType); ok {
				results[field.FieldID] = cached
				stats.Memory++
				log.Printf("✅ Memory hit: %s = %s\n", label, cached)
				continue
			}
		}

		// Deterministic rules with group-index resolution
		profileKey, confidence := s.matcher.Match(label, field.FieldID, formID)
		if profileKey != "" && confidence > 0.7 {
			if value := profileValue(profileKey, userProfile, label); value != "" {
				results[field.FieldID] = value
				stats.Rules++
				if !grouped {
					s.memory.Save(label, value, fieldType)
				}
				log.Printf("✅ Rule match: %s -> %s = %s\n", label, profileKey, value)
				continue
			}
		}
	}

	// Nearest-neighbor stage for fields still unresolved
	mlFields := unresolvedFields(req.Fields, results)
	if len(mlFields) > 0 {
		mlResults := s.resolveKNN(ctx, mlFields, userProfile)
		for fieldID, value := range mlResults {
			results[fieldID] = value
		}
		stats.ML = len(mlResults)
	}

	// Guarded LLM fallback for whatever remains
	llmFields := unresolvedFields(mlFields, results)
	if len(llmFields) > 0 {
		llmResults := s.resolveLLM(ctx, llmFields, userProfile)
		for fieldID, value := range llmResults {
			results[fieldID] = value
		}
		stats.LLM = len(llmResults)
	}

	stats.Unmatched = len(req.Fields) - len(results)

	log.Printf("📊 Stats: memory=%d rules=%d ml=%d llm=%d unmatched=%d | Time: %.2fs\n",
		stats.Memory, stats.Rules, stats.ML, stats.LLM, stats.Unmatched, time.Since(start).Seconds())
	log.Printf("📈 Filled %d/%d fields\n", len(results), len(req.Fields))

	return results
}

// ResolveBatch implements AutofillService. Batch items resolve concurrently
// and are fully isolated: a panic or failure in one item yields an empty
// mapping for that item only.
func (s *autofillService) ResolveBatch(ctx context.Context, reqs []models.AutofillRequest) []map[string]string {
	results := make([]map[string]string, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("❌ Batch request %d failed: %v\n", i, r)
					results[i] = make(map[string]string)
				}
			}()
			results[i] = s.Resolve(gctx, req)
			return nil
		})
	}
	g.Wait()

	return results
}

// resolveKNN classifies a batch of labels by nearest-neighbor vote. Errors
// are absorbed per field.
func (s *autofillService) resolveKNN(ctx context.Context, fields []models.Field, userProfile map[string]string) map[string]string {
	results := make(map[string]string)

	for _, field := range fields {
		label := strings.TrimSpace(field.Label)

		category, confidence, err := s.classifier.Predict(ctx, label)
		if err != nil {
			log.Printf("⚠️  ML classification failed for %q: %v\n", label, err)
			continue
		}

		if confidence <= 0.5 {
			continue
		}

		if value := profileValue(category, userProfile, label); value != "" {
			results[field.FieldID] = value
			if !isRepeatedGroupField(field.FieldID) {
				s.memory.Save(label, value, "")
			}
		}
	}

	return results
}

// resolveLLM runs the guarded LLM classification for the remaining fields
// with bounded concurrency and a per-field timeout. A timed-out or failed
// field is left unresolved and never retried within the request.
func (s *autofillService) resolveLLM(ctx context.Context, fields []models.Field, userProfile map[string]string) map[string]string {
	results := make(map[string]string)

	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.llmConcurrency)

	for _, field := range fields {
		wg.Add(1)
		go func(field models.Field) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				return
			}

			label := strings.TrimSpace(field.Label)

			callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
			defer cancel()

			category, err := s.gemini.ClassifyFieldLabel(callCtx, label)
			if err != nil {
				log.Printf("⚠️  LLM classification failed for %q: %v\n", label, err)
				return
			}
			if category == "none" {
				return
			}

			value := profileValue(category, userProfile, label)
			if value == "" {
				return
			}

			fieldType := DetectFieldType(label, field.FieldID)
			mu.Lock()
			results[field.FieldID] = value
			mu.Unlock()
			if !isRepeatedGroupField(field.FieldID) {
				s.memory.Save(label, value, fieldType)
			}
		}(field)
	}
	wg.Wait()

	return results
}

// profileValue looks an attribute up in the flattened profile with the
// fallbacks the resolution pipeline relies on.
func profileValue(key string, userProfile map[string]string, label string) string {
	// "Full Name" labels classified as first_name get the joined name.
	if key == "first_name" && strings.Contains(strings.ToLower(label), "full name") {
		full := strings.TrimSpace(userProfile["first_name"] + " " + userProfile["last_name"])
		if full != "" {
			return full
		}
	}

	if value := userProfile[key]; value != "" {
		return value
	}

	if key == "experience_years" {
		count := 0
		for k, v := range userProfile {
			if strings.HasPrefix(k, "exp_") && strings.HasSuffix(k, "_company") && v != "" {
				count++
			}
		}
		// A profile with no experience still answers "0".
		return strconv.Itoa(count)
	}

	return ""
}

// isRepeatedGroupField reports whether a field id belongs to a repeated
// experience group. Such fields resolve through session-indexed slots and
// never touch the label-keyed memory cache.
func isRepeatedGroupField(fieldID string) bool {
	return expGroupPattern.MatchString(fieldID)
}

func unresolvedFields(fields []models.Field, results map[string]string) []models.Field {
	var remaining []models.Field
	for _, field := range fields {
		if field.Label == "" {
			continue
		}
		if _, ok := results[field.FieldID]; !ok {
			remaining = append(remaining, field)
		}
	}
	return remaining
}
