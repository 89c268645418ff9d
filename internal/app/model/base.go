package model

import "time"

// SoftDelete marks a row as deleted without removing it. Every normal read filters on IsDeleted.
type SoftDelete struct {
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// MarkDeleted sets the soft delete columns to the given instant.
func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.IsDeleted = true
	s.DeletedAt = &at
}

// SoftDeleteColumns is the column set written by every soft delete.
func SoftDeleteColumns(at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": true,
		"deleted_at": at,
	}
}
