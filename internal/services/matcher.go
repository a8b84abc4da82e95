package services

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FieldMatcher decides which canonical profile attribute a single form field
// represents, with a confidence score. Repeated experience groups embedded
// in field ids are resolved to sequential slot indices through the
// SessionTracker; everything else goes through an ordered rule table over
// the normalized label.
type FieldMatcher interface {
	Match(label, fieldID, formID string) (string, float64)
	NormalizeLabel(label string) string
}

type labelRule struct {
	fragment string
	key      string
}

// Ordered: the first matching fragment wins, so more specific phrases must
// come before their substrings ("first name" before "name", "previous
// company" before "company").
var labelRules = []labelRule{
	{"first name", "first_name"},
	{"last name", "last_name"},
	{"email", "email"},
	{"phone", "phone"},

	{"previous company", "previous_company"},
	{"last company", "previous_company"},
	{"former company", "previous_company"},
	{"previous title", "previous_title"},
	{"last title", "previous_title"},
	{"former title", "previous_title"},

	{"current company", "current_company"},
	{"company", "current_company"},
	{"employer", "current_company"},
	{"current title", "current_title"},
	{"job title", "current_title"},
	{"title", "current_title"},
	{"position", "current_title"},

	{"school", "education_school"},
	{"university", "education_school"},
	{"college", "education_school"},
	{"degree", "degree"},

	{"skills", "skills"},
	{"linkedin", "linkedin"},
	{"github", "github"},
	{"website", "website"},
	{"portfolio", "website"},
	{"summary", "summary"},
}

var (
	expGroupPattern    = regexp.MustCompile(`workExperience-(\d+)`)
	punctuationPattern = regexp.MustCompile(`[*:()\[\]{}"]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	politenessPattern  = regexp.MustCompile(`^(please\s+)?(enter\s+)?(your\s+)?`)
	requiredPattern    = regexp.MustCompile(`\s*(required|\*|\(required\))$`)
)

type fieldMatcher struct {
	sessions       SessionTracker
	normalizeCache *lru.Cache[string, string]
}

func NewFieldMatcher(sessions SessionTracker, labelCacheSize int) (FieldMatcher, error) {
	if labelCacheSize <= 0 {
		labelCacheSize = 1000
	}

	cache, err := lru.New[string, string](labelCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create label cache: %w", err)
	}

	return &fieldMatcher{
		sessions:       sessions,
		normalizeCache: cache,
	}, nil
}

// Match implements FieldMatcher. Returns the canonical attribute key and a
// confidence score, or ("", 0) when nothing applies.
func (m *fieldMatcher) Match(label, fieldID, formID string) (string, float64) {
	normalized := m.NormalizeLabel(label)
	fieldType := DetectFieldType(label, fieldID)

	if groupMatch := expGroupPattern.FindStringSubmatch(fieldID); groupMatch != nil {
		rawGroupID, _ := strconv.Atoi(groupMatch[1])
		seqIndex := m.sessions.GroupIndex(formID, rawGroupID)

		switch fieldType {
		case FieldTypeDateMonth, FieldTypeDateYear:
			key, ok := dateSubFieldKey(fieldID, fieldType, seqIndex)
			if !ok {
				return "", 0
			}
			log.Printf("🗓️ Date field mapping: %s -> %s\n", fieldID, key)
			return key, 0.95
		case FieldTypeCompany:
			key := fmt.Sprintf("exp_%d_company", seqIndex)
			log.Printf("🏢 Company field: %s -> %s\n", label, key)
			return key, 0.9
		case FieldTypeTitle:
			key := fmt.Sprintf("exp_%d_title", seqIndex)
			log.Printf("💼 Title field: %s -> %s\n", label, key)
			return key, 0.9
		case FieldTypeLocation:
			key := fmt.Sprintf("exp_%d_location", seqIndex)
			log.Printf("📍 Location field: %s -> %s\n", label, key)
			return key, 0.9
		case FieldTypeDescription:
			key := fmt.Sprintf("exp_%d_description", seqIndex)
			log.Printf("📝 Description field: %s -> %s\n", label, key)
			return key, 0.9
		}
	}

	for _, rule := range labelRules {
		if strings.Contains(normalized, rule.fragment) {
			return rule.key, 0.9
		}
	}

	return "", 0
}

func dateSubFieldKey(fieldID, fieldType string, seqIndex int) (string, bool) {
	fieldIDLower := strings.ToLower(fieldID)

	var boundary string
	switch {
	case strings.Contains(fieldIDLower, "start"):
		boundary = "start"
	case strings.Contains(fieldIDLower, "end"):
		boundary = "end"
	default:
		return "", false
	}

	component := "year"
	if fieldType == FieldTypeDateMonth {
		component = "month"
	}

	return fmt.Sprintf("exp_%d_%s_%s", seqIndex, boundary, component), true
}

// NormalizeLabel implements FieldMatcher. Normalization is deterministic and
// idempotent; results are cached since the same raw label recurs across many
// fields and forms.
func (m *fieldMatcher) NormalizeLabel(label string) string {
	if label == "" {
		return ""
	}

	if cached, ok := m.normalizeCache.Get(label); ok {
		return cached
	}

	normalized := strings.ToLower(label)
	normalized = punctuationPattern.ReplaceAllString(normalized, "")
	normalized = strings.TrimSpace(whitespacePattern.ReplaceAllString(normalized, " "))

	// Strip politeness prefixes and required markers to a fixpoint so that
	// normalizing an already-normalized label is a no-op.
	for {
		next := politenessPattern.ReplaceAllString(normalized, "")
		next = requiredPattern.ReplaceAllString(next, "")
		if next == normalized {
			break
		}
		normalized = next
	}

	m.normalizeCache.Add(label, normalized)
	return normalized
}
