// Package logo manages the single custom logo image of the panel.
package logo

import (
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/skyportlabs/panel/internal/fileutil"
)

// imagePrefix is the media type prefix accepted for uploads.
const imagePrefix = "image/"

// ErrUnsupportedMediaType is returned for uploads that are not images.
var ErrUnsupportedMediaType = errors.New("not an image, please upload an image file")

// AcceptContentType is the upload filter: only declared image/* payloads pass.
func AcceptContentType(contentType string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), imagePrefix) {
		return pkgerrors.Wrapf(ErrUnsupportedMediaType, "content type %q", contentType)
	}

	return nil
}

// Sniff checks the leading bytes of an upload and returns the detected media type.
// It fails with ErrUnsupportedMediaType if the content is not an image,
// whatever the client declared.
func Sniff(head []byte) (string, error) {
	mt := mimetype.Detect(head)

	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), imagePrefix) {
			return mt.String(), nil
		}
	}

	return mt.String(), pkgerrors.Wrapf(ErrUnsupportedMediaType, "detected %q", mt.String())
}

// Store is the logo file at a fixed path. Every upload replaces it,
// whatever format the upload had.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store for the logo at path on fsys.
func NewStore(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Path returns the location of the logo file.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the logo with the content of r.
func (s *Store) Save(r io.Reader) error {
	return fileutil.WriteAtomicFrom(s.fs, s.path, r, 0o644) //nolint:mnd
}

// Remove deletes the logo. A missing logo is not an error.
func (s *Store) Remove() error {
	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return pkgerrors.Wrapf(err, "remove logo %s", s.path)
	}

	return nil
}

// Exists reports whether a logo file is installed.
func (s *Store) Exists() (bool, error) {
	return afero.Exists(s.fs, s.path)
}

// Open opens the logo for reading.
func (s *Store) Open() (afero.File, error) {
	return s.fs.Open(s.path)
}
