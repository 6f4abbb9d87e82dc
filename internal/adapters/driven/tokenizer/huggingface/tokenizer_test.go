package huggingface

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokenizer.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	got, err := resolve(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestResolve_Errors(t *testing.T) {
	_, err := resolve("")
	assert.Error(t, err)

	_, err = resolve(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenizer.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

// Integration test - only runs when a tokenizer file is provided.
func TestLoad_Integration(t *testing.T) {
	path := os.Getenv("TEST_TOKENIZER_JSON")
	if path == "" {
		t.Skip("TEST_TOKENIZER_JSON not set, skipping tokenizer integration test")
	}

	tk, err := Load(path)
	require.NoError(t, err)

	ids, err := tk.Encode("Öğrenci kayıt yenileme işlemleri")
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	text, err := tk.Decode(ids)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
