// Package fileutil holds small filesystem helpers shared by the asset stores.
package fileutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
)

// WriteAtomic writes data next to path and renames it into place.
// Readers observe either the old or the new content, never a partial file.
func WriteAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	return WriteAtomicFrom(fsys, path, bytes.NewReader(data), perm)
}

// WriteAtomicFrom is WriteAtomic for streamed content.
func WriteAtomicFrom(fsys afero.Fs, path string, r io.Reader, perm os.FileMode) error {
	dir := filepath.Dir(path)

	if err := fsys.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return pkgerrors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return pkgerrors.Wrap(err, "create temporary file")
	}

	tmpName := tmp.Name()
	cleanup := func() {
		_ = fsys.Remove(tmpName)
	}

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()

		return pkgerrors.Wrapf(err, "write %s", tmpName)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()

		return pkgerrors.Wrapf(err, "sync %s", tmpName)
	}

	if err = tmp.Close(); err != nil {
		cleanup()

		return pkgerrors.Wrapf(err, "close %s", tmpName)
	}

	if err = fsys.Chmod(tmpName, perm); err != nil {
		cleanup()

		return pkgerrors.Wrapf(err, "chmod %s", tmpName)
	}

	if err = fsys.Rename(tmpName, path); err != nil {
		cleanup()

		return pkgerrors.Wrapf(err, "rename %s", tmpName)
	}

	return nil
}
