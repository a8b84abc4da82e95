package repositories

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"applyflow/autofill-engine/internal/models"
)

type MemoryRepository interface {
	Upsert(entry *models.MemoryEntry) error
	FindByLabel(label string) (*models.MemoryEntry, error)
	FindAll() ([]models.MemoryEntry, error)
	DeleteAll() (int64, error)
	Count() (int64, error)
}

type memoryRepository struct {
	db *gorm.DB
}

func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

// Upsert implements MemoryRepository.
func (r *memoryRepository) Upsert(entry *models.MemoryEntry) error {
	entry.Label = strings.ToLower(entry.Label)
	entry.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "label"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "field_type", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert memory entry: %w", err)
	}

	return nil
}

// FindByLabel implements MemoryRepository.
func (r *memoryRepository) FindByLabel(label string) (*models.MemoryEntry, error) {
	var entry models.MemoryEntry
	if err := r.db.Where("label = ?", strings.ToLower(label)).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find memory entry: %w", err)
	}
	return &entry, nil
}

// FindAll implements MemoryRepository.
func (r *memoryRepository) FindAll() ([]models.MemoryEntry, error) {
	var entries []models.MemoryEntry
	if err := r.db.Order("updated_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list memory entries: %w", err)
	}
	return entries, nil
}

// DeleteAll implements MemoryRepository.
func (r *memoryRepository) DeleteAll() (int64, error) {
	result := r.db.Where("1 = 1").Delete(&models.MemoryEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear memory entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Count implements MemoryRepository.
func (r *memoryRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.MemoryEntry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count memory entries: %w", err)
	}
	return count, nil
}
