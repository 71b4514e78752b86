// Package report persists the rendered layout report.
package report

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// DefaultFileName is where the report lands in the working directory.
const DefaultFileName = "dump_map.txt"

// WriteFile writes data to a temporary file next to path and renames it into
// place, so path either keeps its previous content or holds all of data.
func WriteFile(fs afero.Fs, path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(fs, dir, "."+base+".tmp-")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err = fs.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	if err = fs.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "rename to %s", path)
	}
	return nil
}

// ReadFile reads the whole input file.
func ReadFile(fs afero.Fs, path string) ([]byte, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "input %s does not exist", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return b, nil
}
