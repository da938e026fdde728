package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestLoad(t *testing.T) {
	t.Run("load ROM file", func(t *testing.T) {
		tmpFile := createTempFile(t, "test.ch8", []byte{0x00, 0xE0, 0x12, 0x00})

		loader := New(log.NewTestLogger(t))
		data, err := loader.Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00}, data)
	})

	t.Run("load file with unusual extension", func(t *testing.T) {
		tmpFile := createTempFile(t, "test.bin", []byte{0x12, 0x00})

		loader := New(log.NewTestLogger(t))
		data, err := loader.Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, data, 2)
	})

	t.Run("largest program", func(t *testing.T) {
		tmpFile := createTempFile(t, "big.ch8", make([]byte, interpreter.MaxProgramSize))

		loader := New(log.NewTestLogger(t))
		data, err := loader.Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, data, interpreter.MaxProgramSize)
	})

	t.Run("error on program too large", func(t *testing.T) {
		tmpFile := createTempFile(t, "huge.ch8", make([]byte, interpreter.MaxProgramSize+1))

		loader := New(log.NewTestLogger(t))
		_, err := loader.Load(tmpFile)
		assert.True(t, errors.Is(err, interpreter.ErrProgramTooLarge))
		assert.ErrorContains(t, err, "huge.ch8")
	})

	t.Run("error on missing file", func(t *testing.T) {
		loader := New(log.NewTestLogger(t))
		_, err := loader.Load(filepath.Join(t.TempDir(), "missing.ch8"))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestLoadFromReader(t *testing.T) {
	loader := New(log.NewTestLogger(t))

	data, err := loader.LoadFromReader(bytes.NewReader(nil))
	assert.NoError(t, err)
	assert.Empty(t, data)

	_, err = loader.LoadFromReader(bytes.NewReader(make([]byte, 2*interpreter.MaxProgramSize)))
	assert.True(t, errors.Is(err, interpreter.ErrProgramTooLarge))
}

func TestIsKnownExtension(t *testing.T) {
	assert.True(t, isKnownExtension(".ch8"))
	assert.True(t, isKnownExtension(".c8"))
	assert.True(t, isKnownExtension(".rom"))
	assert.False(t, isKnownExtension(".nes"))
	assert.False(t, isKnownExtension(""))
}

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
