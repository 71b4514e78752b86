package report

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	path := "/work/" + DefaultFileName
	require.NoError(t, WriteFile(fs, path, []byte("first")))
	require.NoError(t, WriteFile(fs, path, []byte("second")))

	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))

	entries, err := afero.ReadDir(fs, "/work")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	require.Equal(t, DefaultFileName, entries[0].Name())
}

func TestWriteFileNested(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, WriteFile(fs, "/out/map.txt", []byte("x")))
	ok, err := afero.Exists(fs, "/out/map.txt")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWriteFileReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	require.Error(t, WriteFile(fs, DefaultFileName, []byte("x")))
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in.o", []byte{1, 2, 3}, 0o644))

	b, err := ReadFile(fs, "/in.o")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)

	_, err = ReadFile(fs, "/missing.o")
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}
