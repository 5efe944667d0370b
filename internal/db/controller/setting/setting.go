// Package setting implements the key-value store of the panel on top of the settings table.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"

	// maxUpdateAttempts bounds the compare-and-swap loop of Update.
	maxUpdateAttempts = 5
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to create/update a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrConcurrentUpdate is returned when Update lost the race for a key maxUpdateAttempts times.
	ErrConcurrentUpdate = errors.New("setting was modified concurrently")
)

// UpdateFunc derives the new value of a setting from its current value.
// current is nil when the setting does not exist yet.
type UpdateFunc func(current []byte) ([]byte, error)

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting
	result := db.Where(nameQueryPattern, name).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// Create creates a new setting in the database.
func Create(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var existing models.Setting
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	setting := &models.Setting{
		Name:    name,
		Value:   value,
		Version: 1,
	}

	result = db.Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// Set creates or replaces a setting by name.
// The previous value is discarded, concurrent Set calls are last-writer-wins.
func Set(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting
	result := db.Where(nameQueryPattern, name).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Create(db, name, value)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	setting.Value = value
	setting.Version++
	result = db.Save(&setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return &setting, nil
}

// Update applies fn to the current value of a setting and stores the result.
// The write only succeeds if nobody else wrote the row in between, otherwise
// fn is called again on the fresh value. Returns the value that was stored.
func Update(db *gorm.DB, name string, fn UpdateFunc) ([]byte, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	for range maxUpdateAttempts {
		current, err := Get(db, name)
		if errors.Is(err, ErrSettingNotFound) {
			value, fnErr := fn(nil)
			if fnErr != nil {
				return nil, fnErr
			}

			if _, err = Create(db, name, value); err != nil {
				// another writer created the row first, retry against it
				if _, getErr := Get(db, name); getErr == nil {
					continue
				}

				return nil, err
			}

			return value, nil
		}
		if err != nil {
			return nil, err
		}

		value, err := fn(current.Value)
		if err != nil {
			return nil, err
		}

		result := db.Model(&models.Setting{}).
			Where("id = ? AND version = ?", current.ID, current.Version).
			Updates(map[string]any{
				"value":   value,
				"version": current.Version + 1,
			})
		if result.Error != nil {
			return nil, result.Error
		}

		if result.RowsAffected == 1 {
			return value, nil
		}
	}

	return nil, ErrConcurrentUpdate
}

// DeleteByName deletes a setting by name.
func DeleteByName(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}
	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
