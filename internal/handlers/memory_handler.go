package handlers

import (
	"log"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"applyflow/autofill-engine/internal/models"
	"applyflow/autofill-engine/internal/services"
)

type MemoryHandler struct {
	memory     services.MemoryStore
	classifier services.LabelClassifier
	llmLoaded  bool
}

func NewMemoryHandler(memory services.MemoryStore, classifier services.LabelClassifier, llmLoaded bool) *MemoryHandler {
	return &MemoryHandler{
		memory:     memory,
		classifier: classifier,
		llmLoaded:  llmLoaded,
	}
}

// HandleMemoryStats handles GET /autofill/memory.
func (h *MemoryHandler) HandleMemoryStats(c *fiber.Ctx) error {
	entries := h.memory.Entries()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})

	recent := make(map[string]string)
	limit := 10
	if len(entries) < limit {
		limit = len(entries)
	}
	for _, entry := range entries[:limit] {
		recent[entry.Label] = entry.Value
	}

	return c.JSON(models.MemoryStatsResponse{
		MemoryEntries: h.memory.Len(),
		RecentMemory:  recent,
	})
}

// HandleClearMemory handles DELETE /autofill/memory.
func (h *MemoryHandler) HandleClearMemory(c *fiber.Ctx) error {
	cleared := h.memory.Clear()
	log.Printf("🧹 Cleared %d memory entries\n", cleared)

	return c.JSON(fiber.Map{
		"message":                "Memory cleared successfully",
		"cleared_memory_entries": cleared,
	})
}

// HandleHealth handles GET /autofill/health, reporting whether the
// classifier and LLM resources are loaded.
func (h *MemoryHandler) HandleHealth(c *fiber.Ctx) error {
	status := "healthy"
	if !h.llmLoaded || !h.classifier.Ready() {
		status = "degraded"
	}

	return c.JSON(models.HealthResponse{
		Status:          status,
		LLMAvailable:    h.llmLoaded,
		ClassifierReady: h.classifier.Ready(),
		Timestamp:       time.Now().Unix(),
	})
}
