package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func Test_CreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	require.False(t, Exists(path))

	f, err := CreateExclusive(path)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.True(t, Exists(path))

	_, err = CreateExclusive(path)
	require.True(t, errors.Is(err, ErrExists), err)

	size, err := FileSize(path)
	require.NoError(t, err)
	require.Equal(t, int64(3), size, "failed create must not truncate")
}

func Test_OpenMissing(t *testing.T) {
	_, err := OpenSequential(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(errors.Cause(err)))

	_, err = FileSize(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func Test_Helpers(t *testing.T) {
	require.Equal(t, 3, Max(2, 3))
	require.Equal(t, uint64(2), Min(uint64(2), 3))
}

func Test_Humanize(t *testing.T) {
	require.Equal(t, "1,234,567", C(1234567))
	require.Equal(t, "1.0 MB", B(1000*1000))
}
