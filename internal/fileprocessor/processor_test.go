package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/aeondisasm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.bin")
	output := filepath.Join(dir, "test.asm")

	// l.nop followed by l.addi r1, r1, 4
	assert.NoError(t, os.WriteFile(input, []byte{0x80, 0x01, 0x1C, 0x21, 0x04}, 0o644))

	opts := options.Program{
		Input:  input,
		Output: output,
		Quiet:  true,
	}
	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts,
		options.NewDisassembler(opts))
	assert.NoError(t, err)

	listing, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(listing), "l.nop")
	assert.Contains(t, string(listing), "l.addi")
}

func TestProcessFileDumpRaw(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.bin")
	output := filepath.Join(dir, "test.dump")

	assert.NoError(t, os.WriteFile(input, []byte{0x80, 0x01}, 0o644))

	opts := options.Program{
		Input:   input,
		Output:  output,
		Quiet:   true,
		DumpRaw: true,
	}
	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts,
		options.NewDisassembler(opts))
	assert.NoError(t, err)

	dump, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(dump), "l.nop")
}

func TestProcessFileMissingInput(t *testing.T) {
	opts := options.Program{Input: filepath.Join(t.TempDir(), "missing.bin"), Quiet: true}
	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts,
		options.NewDisassembler(opts))
	assert.Error(t, err)
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.bin", "b.bin", "c.txt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	opts := &options.Program{Batch: filepath.Join(dir, "*.bin")}
	files, err := GetFilesToProcess(opts)
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	opts = &options.Program{Input: "single.bin"}
	files, err = GetFilesToProcess(opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{"single.bin"}, files)
}

func TestGenerateOutputFilename(t *testing.T) {
	assert.Equal(t, "fw.asm", GenerateOutputFilename("fw.bin"))
	assert.True(t, strings.HasSuffix(GenerateOutputFilename(filepath.Join("dir", "fw.bin")), "fw.asm"))
}
