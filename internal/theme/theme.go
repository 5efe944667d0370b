// Package theme reads and updates the panel's theme document, a small JSON
// file of color settings created at installation time.
package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/skyportlabs/panel/internal/fileutil"
)

// Field is a color entry of the theme document.
type Field string

// Known theme fields.
const (
	FieldButtonColor     Field = "button-color"
	FieldPanelThemeColor Field = "paneltheme-color"
)

var (
	// ErrThemeFileMissing is returned when the theme document does not exist.
	ErrThemeFileMissing = errors.New("theme file is missing")
	// ErrThemeFileMalformed is returned when the theme document is not a JSON object.
	ErrThemeFileMalformed = errors.New("theme file is malformed")
)

// Document is the decoded theme file. Values are kept raw so entries this
// package does not know about are written back unchanged.
type Document map[string]json.RawMessage

// String returns the string value of field, or "" if absent or not a string.
func (d Document) String(field Field) string {
	var value string

	if raw, ok := d[string(field)]; ok {
		_ = json.Unmarshal(raw, &value)
	}

	return value
}

// Store is the theme document at a fixed path.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store for the document at path on fsys.
func NewStore(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Path returns the location of the theme document.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the theme document.
func (s *Store) Load() (Document, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerrors.Wrap(ErrThemeFileMissing, s.path)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read theme file %s", s.path)
	}

	var doc Document
	if err = json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, pkgerrors.Wrapf(ErrThemeFileMalformed, "%s: %v", s.path, err)
	}

	return doc, nil
}

// SetField sets one field and rewrites the whole document.
// The new content is written to a temporary file that replaces the document
// by rename, a crash mid-write leaves the previous document intact.
func (s *Store) SetField(field Field, value string) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	doc[string(field)] = raw

	var buf bytes.Buffer

	// keep <, > and & of untouched fields as written
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err = enc.Encode(doc); err != nil {
		return pkgerrors.Wrap(err, "encode theme document")
	}

	return fileutil.WriteAtomic(s.fs, s.path, buf.Bytes(), 0o644) //nolint:mnd
}
