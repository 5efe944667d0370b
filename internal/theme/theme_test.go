package theme

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const themePath = "/srv/skyport/storage/theme.json"

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()

	fsys := afero.NewMemMapFs()
	if content != "" {
		require.NoError(t, afero.WriteFile(fsys, themePath, []byte(content), 0o644))
	}

	return NewStore(fsys, themePath)
}

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing file", wantErr: ErrThemeFileMissing},
		{name: "malformed json", content: `{"button-color":`, wantErr: ErrThemeFileMalformed},
		{name: "not an object", content: `["#fff"]`, wantErr: ErrThemeFileMalformed},
		{name: "null document", content: `null`, wantErr: ErrThemeFileMalformed},
		{name: "valid document", content: `{"button-color":"#2563eb"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := newTestStore(t, tt.content).Load()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "#2563eb", doc.String(FieldButtonColor))
		})
	}
}

func TestStore_SetFieldKeepsOtherFields(t *testing.T) {
	store := newTestStore(t, `{
  "button-color": "#2563eb",
  "paneltheme-color": "#111827",
  "font": {"family": "Inter", "size": 14},
  "radius": 6
}`)

	before, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, store.SetField(FieldButtonColor, "#ff0000"))

	after, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "#ff0000", after.String(FieldButtonColor))
	assert.Len(t, after, len(before))

	for key, raw := range before {
		if key == string(FieldButtonColor) {
			continue
		}

		assert.JSONEq(t, string(raw), string(after[key]), "field %s changed", key)
	}
}

func TestStore_SetFieldAddsMissingField(t *testing.T) {
	store := newTestStore(t, `{"button-color":"#2563eb"}`)

	require.NoError(t, store.SetField(FieldPanelThemeColor, "#000000"))

	data, err := afero.ReadFile(store.fs, themePath)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]string{
		"button-color":     "#2563eb",
		"paneltheme-color": "#000000",
	}, decoded)
	assert.Equal(t, "{\n  \"button-color\": \"#2563eb\",\n  \"paneltheme-color\": \"#000000\"\n}\n", string(data))
}

func TestStore_SetFieldKeepsMarkupInOtherFields(t *testing.T) {
	store := newTestStore(t, `{"button-color":"#2563eb","footer-html":"<b>Tom & Jerry</b>"}`)

	require.NoError(t, store.SetField(FieldButtonColor, "#ff0000"))

	data, err := afero.ReadFile(store.fs, themePath)
	require.NoError(t, err)

	assert.Equal(t,
		"{\n  \"button-color\": \"#ff0000\",\n  \"footer-html\": \"<b>Tom & Jerry</b>\"\n}\n",
		string(data))
	assert.NotContains(t, string(data), `\u003c`)
}

func TestStore_SetFieldMissingFile(t *testing.T) {
	store := newTestStore(t, "")

	err := store.SetField(FieldButtonColor, "#ff0000")
	require.ErrorIs(t, err, ErrThemeFileMissing)

	exists, err := afero.Exists(store.fs, themePath)
	require.NoError(t, err)
	assert.False(t, exists, "a missing theme file must not be recreated")
}

func TestStore_SetFieldMalformedFileUntouched(t *testing.T) {
	const broken = `{"button-color": `
	store := newTestStore(t, broken)

	err := store.SetField(FieldButtonColor, "#ff0000")
	require.ErrorIs(t, err, ErrThemeFileMalformed)

	data, err := afero.ReadFile(store.fs, themePath)
	require.NoError(t, err)
	assert.Equal(t, broken, string(data))
}
