// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/log"
)

// knownExtensions are the file extensions that CHIP-8 ROMs are usually
// distributed with.
var knownExtensions = []string{".ch8", ".c8", ".rom"}

// Loader handles loading ROM files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new ROM loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a ROM file. Files that do not fit into the program memory are
// rejected with an error wrapping interpreter.ErrProgramTooLarge.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(path))
	if !isKnownExtension(ext) {
		l.logger.Debug("Unusual ROM file extension", log.String("file", path), log.String("extension", ext))
	}

	data, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return data, nil
}

// LoadFromReader reads a ROM from a reader. At most one byte more than the
// maximum program size is read to detect oversized input.
func (l *Loader) LoadFromReader(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, interpreter.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	if len(data) > interpreter.MaxProgramSize {
		return nil, fmt.Errorf("%w: more than %d bytes", interpreter.ErrProgramTooLarge, interpreter.MaxProgramSize)
	}
	if len(data) == 0 {
		l.logger.Warn("Program is empty")
	}

	l.logger.Debug("Program read", log.Int("size", len(data)))
	return data, nil
}

func isKnownExtension(ext string) bool {
	for _, known := range knownExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
