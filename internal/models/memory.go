package models

import "time"

// MemoryEntry is a cached field resolution, keyed by normalized lowercase
// label. FieldType tags the value so a cached date-year is never served for
// a date-month lookup that happens to share a label.
type MemoryEntry struct {
	Label     string    `gorm:"type:text;primary_key" json:"label"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	FieldType string    `gorm:"type:text" json:"field_type"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MemoryEntry) TableName() string {
	return "memory_entries"
}
