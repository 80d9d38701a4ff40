package cryptox

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	for _, size := range []int{16, 32, 24} {
		token, err := RandomToken(size)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, size)

		other, err := RandomToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, other)
	}

	for _, size := range []int{0, -1} {
		_, err := RandomToken(size)
		require.Error(t, err)
	}
}

func TestPepperPersistsAcrossReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "pepper")
	prev := pepperFile
	SetPepperPath(file)
	t.Cleanup(func() { SetPepperPath(prev) })

	p1, err := GetPepper()
	require.NoError(t, err)
	require.NotEmpty(t, p1)

	onDisk, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, p1, string(onDisk))

	require.NoError(t, ReloadPepper())
	p2, err := GetPepper()
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}
