// Package options contains the program options.
package options

import (
	"github.com/retroenv/aeondisasm/internal/aeon"
)

// Program options of the disassembler tool.
type Program struct {
	Input  string // input firmware image
	Output string // output file, stdout if empty
	Batch  string // file pattern to process multiple images

	StartOffset uint // offset to start decoding at

	Debug bool
	Quiet bool

	// DumpRaw outputs the decoded instruction structures instead of
	// formatted assembly, useful when working on the opcode table.
	DumpRaw bool

	NoOffsets  bool // omit file offsets in the output
	NoHexBytes bool // omit raw instruction bytes in the output

	// BranchBaseNext resolves branch targets relative to the following
	// instruction instead of the branch itself.
	BranchBaseNext bool
}

// Disassembler defines options to control the decoding core.
type Disassembler struct {
	// BranchBase is the address rule for resolving relative branch
	// targets. The hardware behavior is not confirmed yet, so it stays
	// configurable.
	BranchBase aeon.BranchBase

	// StartOffset is the buffer offset decoding starts at.
	StartOffset uint32
}

// NewDisassembler returns a new disassembler options instance derived from
// the program options.
func NewDisassembler(opts Program) Disassembler {
	disasmOptions := Disassembler{
		StartOffset: uint32(opts.StartOffset),
	}
	if opts.BranchBaseNext {
		disasmOptions.BranchBase = aeon.BranchBaseNextInstruction
	}
	return disasmOptions
}
