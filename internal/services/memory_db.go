package services

import (
	"log"
	"strings"

	"applyflow/autofill-engine/internal/models"
	"applyflow/autofill-engine/internal/repositories"
)

// dbMemoryStore is the durable MemoryStore variant backed by postgres.
// Database errors are absorbed with a warning: a failing cache must degrade
// to a miss, never fail a resolution request.
type dbMemoryStore struct {
	repo repositories.MemoryRepository
}

func NewDBMemoryStore(repo repositories.MemoryRepository) MemoryStore {
	return &dbMemoryStore{repo: repo}
}

// Get implements MemoryStore.
func (s *dbMemoryStore) Get(label, fieldType string) (string, bool) {
	entry, err := s.repo.FindByLabel(label)
	if err != nil {
		log.Printf("⚠️  Memory lookup failed for %s: %v\n", label, err)
		return "", false
	}
	if entry == nil {
		return "", false
	}

	if fieldType != "" && entry.FieldType != "" && fieldType != entry.FieldType {
		log.Printf("⚠️  Type mismatch for %s: expected %s, got %s\n", label, fieldType, entry.FieldType)
		return "", false
	}

	return entry.Value, true
}

// Save implements MemoryStore.
func (s *dbMemoryStore) Save(label, value, fieldType string) {
	if label == "" || value == "" {
		return
	}

	if !validateMemoryValue(value, fieldType) {
		log.Printf("⚠️  Invalid %s value for %s: %s\n", fieldType, label, value)
		return
	}

	entry := &models.MemoryEntry{
		Label:     strings.ToLower(label),
		Value:     value,
		FieldType: fieldType,
	}
	if err := s.repo.Upsert(entry); err != nil {
		log.Printf("⚠️  Memory save failed for %s: %v\n", label, err)
	}
}

// Entries implements MemoryStore.
func (s *dbMemoryStore) Entries() []models.MemoryEntry {
	entries, err := s.repo.FindAll()
	if err != nil {
		log.Printf("⚠️  Memory listing failed: %v\n", err)
		return nil
	}
	return entries
}

// Clear implements MemoryStore.
func (s *dbMemoryStore) Clear() int {
	cleared, err := s.repo.DeleteAll()
	if err != nil {
		log.Printf("⚠️  Memory clear failed: %v\n", err)
		return 0
	}
	return int(cleared)
}

// Len implements MemoryStore.
func (s *dbMemoryStore) Len() int {
	count, err := s.repo.Count()
	if err != nil {
		log.Printf("⚠️  Memory count failed: %v\n", err)
		return 0
	}
	return int(count)
}
