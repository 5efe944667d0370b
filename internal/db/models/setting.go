// Package models contains database model definitions.
package models

import "time"

// Setting is one named value of the panel's key-value store.
// Value holds a JSON document whose shape is owned by the caller.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:100;not null"`
	Value []byte
	// Version is incremented on every write and used for compare-and-swap updates.
	Version   uint64 `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
