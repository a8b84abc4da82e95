package services

import (
	"fmt"
	"sort"
	"strings"
)

// ValidCategories is the closed set of canonical attribute names the LLM
// classifier is allowed to answer with. Anything outside the set is treated
// as "none".
var ValidCategories = map[string]bool{
	"first_name":       true,
	"last_name":        true,
	"email":            true,
	"phone":            true,
	"current_company":  true,
	"current_title":    true,
	"previous_company": true,
	"previous_title":   true,
	"education_school": true,
	"degree":           true,
	"skills":           true,
	"linkedin":         true,
	"website":          true,
	"github":           true,
	"experience_years": true,
	"summary":          true,
	"none":             true,
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildClassifyPrompt creates the guarded classification prompt for a form
// field label. The model is constrained to answer with one category name
// from the closed set, or "none".
func (pb *PromptBuilder) BuildClassifyPrompt(label string) string {
	categories := make([]string, 0, len(ValidCategories))
	for category := range ValidCategories {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return fmt.Sprintf(`Classify this form field label into ONE of these categories:
%s

Label: "%s"

Instructions:
- Look for keywords like "current", "most recent" vs "previous", "last", "former"
- For work fields, distinguish between current vs previous positions
- If unsure or no clear match, respond with "none"
- Respond with ONLY the category name

Respond ONLY with the category name or 'none':`,
		strings.Join(categories, ", "), label)
}
