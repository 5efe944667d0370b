package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is a persisted record of an administrative action.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ActorID   uint64    `gorm:"index"`
	ActorName string    `gorm:"size:100"`
	Action    string    `gorm:"size:100;not null;index"`
	Origin    string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"index"`
}

// BeforeCreate assigns a random id to new entries.
func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}
