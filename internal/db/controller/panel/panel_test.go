package panel

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/db/controller/setting"
	"github.com/skyportlabs/panel/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Setting{}), "failed to migrate test database")

	return db
}

func storedRecord(t *testing.T, db *gorm.DB) map[string]any {
	t.Helper()

	stored, err := setting.Get(db, SettingKeySettings)
	require.NoError(t, err)

	record := map[string]any{}
	require.NoError(t, json.Unmarshal(stored.Value, &record))

	return record
}

func TestToggle_TwiceRestoresValue(t *testing.T) {
	for _, field := range []Field{FieldForceVerify, FieldRegister, FieldFooter} {
		t.Run(string(field), func(t *testing.T) {
			db := setupTestDB(t)

			first, err := Toggle(db, field)
			require.NoError(t, err)
			assert.True(t, first)

			second, err := Toggle(db, field)
			require.NoError(t, err)
			assert.False(t, second)

			assert.Equal(t, false, storedRecord(t, db)[string(field)])
		})
	}
}

func TestToggle_KeepsSiblingFields(t *testing.T) {
	db := setupTestDB(t)

	_, err := setting.Set(db, SettingKeySettings,
		[]byte(`{"forceVerify":true,"register":false,"maintenance":{"since":"2024-01-01"},"motd":"hello"}`))
	require.NoError(t, err)

	enabled, err := Toggle(db, FieldFooter)
	require.NoError(t, err)
	assert.True(t, enabled)

	record := storedRecord(t, db)
	assert.Equal(t, true, record["forceVerify"])
	assert.Equal(t, false, record["register"])
	assert.Equal(t, true, record["footer"])
	assert.Equal(t, "hello", record["motd"])
	assert.Equal(t, map[string]any{"since": "2024-01-01"}, record["maintenance"])
}

func TestToggle_RegisterWithoutRecord(t *testing.T) {
	db := setupTestDB(t)

	enabled, err := Toggle(db, FieldRegister)
	require.NoError(t, err)
	assert.True(t, enabled)

	s, err := LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, Settings{Register: true}, s)
}

func TestToggle_NullRecord(t *testing.T) {
	db := setupTestDB(t)

	_, err := setting.Set(db, SettingKeySettings, []byte("null"))
	require.NoError(t, err)

	enabled, err := Toggle(db, FieldForceVerify)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestToggle_UnknownField(t *testing.T) {
	db := setupTestDB(t)

	_, err := Toggle(db, Field("theme"))
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = setting.Get(db, SettingKeySettings)
	require.ErrorIs(t, err, setting.ErrSettingNotFound)
}

func TestToggle_NilDatabase(t *testing.T) {
	_, err := Toggle(nil, FieldFooter)
	require.ErrorIs(t, err, setting.ErrDBNil)
}

func TestLoadSettings_Defaults(t *testing.T) {
	db := setupTestDB(t)

	s, err := LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, Settings{}, s)
}

func TestName(t *testing.T) {
	db := setupTestDB(t)

	name, err := LoadName(db)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, name)

	for _, want := range []string{"My Panel", "Panel & Co?", "ünïcødé"} {
		require.NoError(t, SaveName(db, want))

		got, err := LoadName(db)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestName_LegacyArray(t *testing.T) {
	db := setupTestDB(t)

	_, err := setting.Set(db, SettingKeyName, []byte(`["Old Panel"]`))
	require.NoError(t, err)

	name, err := LoadName(db)
	require.NoError(t, err)
	assert.Equal(t, "Old Panel", name)
}

func TestLogoPresence(t *testing.T) {
	db := setupTestDB(t)

	present, err := LoadLogoPresence(db)
	require.NoError(t, err)
	assert.False(t, present)

	require.NoError(t, SaveLogoPresence(db, true))

	present, err = LoadLogoPresence(db)
	require.NoError(t, err)
	assert.True(t, present)

	require.NoError(t, SaveLogoPresence(db, false))

	present, err = LoadLogoPresence(db)
	require.NoError(t, err)
	assert.False(t, present)
}
