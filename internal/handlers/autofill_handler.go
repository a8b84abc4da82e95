package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"applyflow/autofill-engine/internal/models"
	"applyflow/autofill-engine/internal/services"
)

type AutofillHandler struct {
	autofillService services.AutofillService
}

func NewAutofillHandler(autofillService services.AutofillService) *AutofillHandler {
	return &AutofillHandler{
		autofillService: autofillService,
	}
}

// HandleAutofill handles POST /autofill. The endpoint is permissive by
// design: partial requests (no fields, empty profile) resolve to an empty
// mapping rather than an error, since upstream extension callers routinely
// send incomplete payloads.
func (h *AutofillHandler) HandleAutofill(c *fiber.Ctx) error {
	var req models.AutofillRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if len(req.Fields) == 0 {
		log.Println("⚠️ No fields provided in request")
		return c.JSON(map[string]string{})
	}

	start := time.Now()
	results := h.autofillService.Resolve(c.Context(), req)

	log.Printf("✅ Autofill completed in %.2fs\n", time.Since(start).Seconds())
	log.Printf("🎯 Returning %d autofill values\n", len(results))

	return c.JSON(results)
}

// HandleAutofillBatch handles POST /autofill/batch. Items are resolved
// concurrently and independently; a failed item yields an empty mapping for
// that item, never an error for the batch.
func (h *AutofillHandler) HandleAutofillBatch(c *fiber.Ctx) error {
	var reqs []models.AutofillRequest

	if err := c.BodyParser(&reqs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if len(reqs) == 0 {
		return c.JSON([]map[string]string{})
	}

	log.Printf("🚀 Processing batch of %d autofill requests\n", len(reqs))
	results := h.autofillService.ResolveBatch(c.Context(), reqs)

	return c.JSON(results)
}
