package infra

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T) []byte {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	return key
}

func TestFileKeyProvider_StoreAndGet(t *testing.T) {
	provider := NewFileKeyProvider(t.TempDir())
	require.False(t, provider.KeyExists())

	key := mustKey(t)
	require.NoError(t, provider.StoreKey(key))

	assert.True(t, provider.KeyExists())
	got, err := provider.GetKey()
	require.NoError(t, err)
	assert.Equal(t, key, got)

	info, err := os.Stat(provider.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Equal(t, journalKeyFileName, filepath.Base(provider.Path()))
}

func TestFileKeyProvider_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  error
	}{
		{name: "not base64", contents: "%%%not-base64%%%"},
		{name: "short key", contents: "c2hvcnQ=", wantErr: ErrInvalidKeySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewFileKeyProvider(t.TempDir())
			require.NoError(t, os.WriteFile(provider.Path(), []byte(tt.contents), 0600))

			_, err := provider.GetKey()

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileKeyProvider(t.TempDir()).GetKey()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("store rejects wrong size", func(t *testing.T) {
		provider := NewFileKeyProvider(t.TempDir())
		assert.ErrorIs(t, provider.StoreKey([]byte("tooshort")), ErrInvalidKeySize)
		assert.False(t, provider.KeyExists())
	})
}

func TestFileKeyProvider_IgnoresTrailingNewline(t *testing.T) {
	provider := NewFileKeyProvider(t.TempDir())
	key := mustKey(t)
	require.NoError(t, provider.StoreKey(key))

	raw, err := os.ReadFile(provider.Path())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(provider.Path(), append(raw, '\n'), 0600))

	got, err := provider.GetKey()
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestFileKeyProvider_CreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "anticheat")
	provider := NewFileKeyProvider(dataDir)

	require.NoError(t, provider.StoreKey(mustKey(t)))

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestGenerateKey_Random(t *testing.T) {
	a, b := mustKey(t), mustKey(t)

	assert.Len(t, a, keySize)
	assert.False(t, bytes.Equal(a, b))
}

func TestEnsureKey(t *testing.T) {
	t.Run("creates key on first use", func(t *testing.T) {
		provider := NewFileKeyProvider(t.TempDir())

		key, err := EnsureKey(provider)

		require.NoError(t, err)
		assert.Len(t, key, keySize)
		assert.True(t, provider.KeyExists())
	})

	t.Run("reuses stored key", func(t *testing.T) {
		provider := NewFileKeyProvider(t.TempDir())
		stored := mustKey(t)
		require.NoError(t, provider.StoreKey(stored))

		first, err := EnsureKey(provider)
		require.NoError(t, err)
		second, err := EnsureKey(provider)
		require.NoError(t, err)

		assert.Equal(t, stored, first)
		assert.Equal(t, first, second)
	})
}
