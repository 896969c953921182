// Package loader handles reading firmware images from disk.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/aeondisasm/internal/options"
)

// Loader reads raw binary firmware images. AEON R2 code is usually carried
// in headerless .bin blobs extracted from a larger firmware, so the whole
// file is treated as code.
type Loader struct{}

// New creates a new image loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the input file from the program options into memory and
// validates the start offset against it.
func (l *Loader) Load(opts options.Program) ([]byte, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	if opts.StartOffset > uint(len(data)) {
		return nil, fmt.Errorf("start offset %d exceeds image size %d", opts.StartOffset, len(data))
	}
	return data, nil
}
