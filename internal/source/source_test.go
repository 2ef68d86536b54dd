package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpenPassthrough(t *testing.T) {
	path := writeFile(t, []byte("   1 F= -.1E+03\n"))

	f, err := New(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, f.Filename())

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "   1 F= -.1E+03\n", string(data))
}

func TestOpenDecodesLatin1(t *testing.T) {
	// "Å" in ISO-8859-1 is a single 0xC5 byte
	path := writeFile(t, []byte{'(', 'e', 'V', '/', 0xC5, ')', '\n'})

	f, err := New(path, "ISO-8859-1")
	require.NoError(t, err)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "(eV/Å)\n", string(data))
}

func TestOpenIsRestartable(t *testing.T) {
	path := writeFile(t, []byte("abc"))
	f, err := New(path, "utf-8")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))
		require.NoError(t, rc.Close())
	}
}

func TestOpenMissingFile(t *testing.T) {
	f, err := New(filepath.Join(t.TempDir(), "OSZICAR"), "")
	require.NoError(t, err)

	_, err = f.Open()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "OSZICAR")
}

func TestUnknownEncoding(t *testing.T) {
	_, err := New("OUTCAR", "klingon-8")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}
