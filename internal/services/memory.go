package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"applyflow/autofill-engine/internal/models"
)

// MemoryStore short-circuits repeated resolutions of the same (label,
// field-type) pair. Entries are keyed by lowercased label and tagged with a
// field type; a lookup is only honored when the stored tag matches (or
// either side is untyped), which keeps a cached date-year value from being
// served for a date-month field sharing the same label.
//
// Implementations must make concurrent Save/Get pairs linearizable per key.
type MemoryStore interface {
	Get(label, fieldType string) (string, bool)
	Save(label, value, fieldType string)
	Entries() []models.MemoryEntry
	Clear() int
	Len() int
}

// validateMemoryValue rejects values that would contaminate typed fields: a
// month must be purely numeric, a year exactly 4 digits.
func validateMemoryValue(value, fieldType string) bool {
	switch fieldType {
	case FieldTypeDateMonth:
		return isDigits(value)
	case FieldTypeDateYear:
		return len(value) == 4 && isDigits(value)
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type inMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.MemoryEntry
}

func NewInMemoryStore() MemoryStore {
	return &inMemoryStore{
		entries: make(map[string]models.MemoryEntry),
	}
}

// Get implements MemoryStore.
func (s *inMemoryStore) Get(label, fieldType string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[strings.ToLower(label)]
	s.mu.RUnlock()

	if !ok {
		return "", false
	}

	if fieldType != "" && entry.FieldType != "" && fieldType != entry.FieldType {
		log.Printf("⚠️  Type mismatch for %s: expected %s, got %s\n", label, fieldType, entry.FieldType)
		return "", false
	}

	return entry.Value, true
}

// Save implements MemoryStore. Invalid values for typed fields are rejected
// as warn-logged no-ops; a valid save overwrites any prior entry.
func (s *inMemoryStore) Save(label, value, fieldType string) {
	if label == "" || value == "" {
		return
	}

	if !validateMemoryValue(value, fieldType) {
		log.Printf("⚠️  Invalid %s value for %s: %s\n", fieldType, label, value)
		return
	}

	s.mu.Lock()
	s.entries[strings.ToLower(label)] = models.MemoryEntry{
		Label:     strings.ToLower(label),
		Value:     value,
		FieldType: fieldType,
		UpdatedAt: time.Now(),
	}
	s.mu.Unlock()
}

// Entries implements MemoryStore.
func (s *inMemoryStore) Entries() []models.MemoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.MemoryEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	return entries
}

// Clear implements MemoryStore. Returns the number of entries removed.
func (s *inMemoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := len(s.entries)
	s.entries = make(map[string]models.MemoryEntry)
	return cleared
}

// Len implements MemoryStore.
func (s *inMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
