// Package panel provides typed access to the panel's global settings keys:
// the settings record, the display name and the logo presence flag.
//
// Every reader declares its default, so a fresh install without any stored
// keys behaves exactly like a panel with all flags off and the default name.
package panel

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/db/controller/setting"
)

const (
	// SettingKeySettings holds the JSON record of boolean panel flags.
	SettingKeySettings = "settings"
	// SettingKeyName holds the display name of the panel.
	SettingKeyName = "name"
	// SettingKeyLogo holds the logo presence flag.
	SettingKeyLogo = "logo"

	// DefaultName is the display name used while no name is stored.
	DefaultName = "Skyport"
)

// Field is a boolean flag of the settings record.
type Field string

// Known settings record flags.
const (
	FieldForceVerify Field = "forceVerify"
	FieldRegister    Field = "register"
	FieldFooter      Field = "footer"
)

// ErrUnknownField is returned when toggling a flag that is not a known Field.
var ErrUnknownField = errors.New("unknown settings field")

// Valid reports whether f is one of the known flags.
func (f Field) Valid() bool {
	switch f {
	case FieldForceVerify, FieldRegister, FieldFooter:
		return true
	}

	return false
}

// Settings is the typed view of the settings record.
type Settings struct {
	ForceVerify bool `json:"forceVerify"`
	Register    bool `json:"register"`
	Footer      bool `json:"footer"`
}

// LoadSettings reads the settings record. A missing record yields all flags off.
func LoadSettings(db *gorm.DB) (Settings, error) {
	var s Settings

	stored, err := setting.Get(db, SettingKeySettings)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}

	if len(stored.Value) == 0 {
		return s, nil
	}

	if err = json.Unmarshal(stored.Value, &s); err != nil {
		return s, fmt.Errorf("decode %s: %w", SettingKeySettings, err)
	}

	return s, nil
}

// Toggle flips field in the settings record and returns its new value.
//
// The record is decoded as a generic JSON object so flags this version does
// not know about survive the rewrite. The write is a compare-and-swap on the
// record, a concurrent toggle makes this one retry instead of being lost.
func Toggle(db *gorm.DB, field Field) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	var enabled bool

	_, err := setting.Update(db, SettingKeySettings, func(current []byte) ([]byte, error) {
		record := map[string]json.RawMessage{}

		if len(current) > 0 {
			if err := json.Unmarshal(current, &record); err != nil {
				return nil, fmt.Errorf("decode %s: %w", SettingKeySettings, err)
			}

			// a stored JSON null decodes into a nil map
			if record == nil {
				record = map[string]json.RawMessage{}
			}
		}

		var value bool
		if raw, ok := record[string(field)]; ok {
			// non boolean garbage counts as off
			_ = json.Unmarshal(raw, &value)
		}

		enabled = !value

		raw, err := json.Marshal(enabled)
		if err != nil {
			return nil, err
		}

		record[string(field)] = raw

		return json.Marshal(record)
	})
	if err != nil {
		return false, err
	}

	return enabled, nil
}

// LoadName returns the display name, or DefaultName if none is stored.
// Older installs stored the name as a one element array, which is accepted too.
func LoadName(db *gorm.DB) (string, error) {
	stored, err := setting.Get(db, SettingKeyName)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return DefaultName, nil
	}
	if err != nil {
		return "", err
	}

	var name string
	if err = json.Unmarshal(stored.Value, &name); err == nil {
		if name == "" {
			return DefaultName, nil
		}

		return name, nil
	}

	var legacy []string
	if err = json.Unmarshal(stored.Value, &legacy); err != nil {
		return "", fmt.Errorf("decode %s: %w", SettingKeyName, err)
	}

	if len(legacy) == 0 || legacy[0] == "" {
		return DefaultName, nil
	}

	return legacy[0], nil
}

// SaveName overwrites the display name.
func SaveName(db *gorm.DB, name string) error {
	data, err := json.Marshal(name)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeyName, data)

	return err
}

// LoadLogoPresence returns whether a custom logo is installed, false if unknown.
func LoadLogoPresence(db *gorm.DB) (bool, error) {
	stored, err := setting.Get(db, SettingKeyLogo)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var present bool
	if err = json.Unmarshal(stored.Value, &present); err != nil {
		return false, fmt.Errorf("decode %s: %w", SettingKeyLogo, err)
	}

	return present, nil
}

// SaveLogoPresence stores the logo presence flag.
func SaveLogoPresence(db *gorm.DB, present bool) error {
	data, err := json.Marshal(present)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeyLogo, data)

	return err
}
