// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/retroenv/aeondisasm/internal/aeon"
	"github.com/retroenv/aeondisasm/internal/disasm"
	"github.com/retroenv/aeondisasm/internal/loader"
	"github.com/retroenv/aeondisasm/internal/options"
	"github.com/retroenv/aeondisasm/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete processing workflow for one image file.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program,
	disasmOptions options.Disassembler) error {

	data, err := loader.New().Load(opts)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}

	if !opts.Quiet {
		logger.Info("Processing AEON R2 image",
			log.String("file", opts.Input),
			log.Int("size", len(data)),
		)
	}

	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := out.(io.Closer); ok && out != os.Stdout {
			_ = closer.Close()
		}
	}()

	dis := disasm.New(logger, aeon.Instructions(), disasmOptions)

	if opts.DumpRaw {
		results, err := dis.DecodeAll(data, disasmOptions.StartOffset)
		if err != nil {
			return fmt.Errorf("disassembling: %w", err)
		}
		spew.Fdump(out, results)
		return nil
	}

	if err := dis.Process(ctx, data, writer.New(out, opts)); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}
	return nil
}

// GetFilesToProcess returns the list of files to process based on options.
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates the output filename for an input file.
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".asm"
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("aeondisasm", log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
