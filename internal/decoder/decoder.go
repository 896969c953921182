// Package decoder turns raw AEON R2 bytes into structured instructions.
//
// Decoding a single instruction is a pure function of the opcode table, the
// buffer and the offset. Per-instruction problems (unknown encodings,
// invalid operands, a truncated tail) are reported as Unknown results so a
// caller always makes forward progress; only a corrupt opcode table is
// returned as an error.
package decoder

import (
	"errors"
	"fmt"

	"github.com/retroenv/aeondisasm/internal/aeon"
	"github.com/retroenv/aeondisasm/internal/buffer"
)

// Decoder decodes single instructions against an opcode table.
type Decoder struct {
	table    *aeon.Table
	resolver aeon.Resolver
}

// New creates a decoder for the given opcode table and resolver
// configuration. The table is shared read-only, a decoder is safe for
// concurrent use.
func New(table *aeon.Table, resolver aeon.Resolver) *Decoder {
	return &Decoder{
		table:    table,
		resolver: resolver,
	}
}

// DecodeAt decodes the instruction at the given offset. The buffer cursor
// is never moved, the caller advances it by the length reported in the
// result. Exactly one result is returned for any offset inside the buffer:
// an Instruction, or an Unknown covering the bytes that could not be
// decoded. An error is returned only for an offset outside the buffer or a
// corrupt opcode table.
func (d *Decoder) DecodeAt(buf *buffer.Buffer, offset uint32) (Result, error) {
	first, err := buf.PeekAt(int(offset), 1)
	if err != nil {
		return nil, fmt.Errorf("decoding at offset %08x: %w", offset, err)
	}

	length := aeon.InstructionLength(first[0])
	raw, err := buf.PeekAt(int(offset), length)
	if err != nil {
		// short trailing fragment, consume all remaining bytes
		raw, err = buf.PeekAt(int(offset), buf.Len()-int(offset))
		if err != nil {
			return nil, fmt.Errorf("decoding truncated tail at offset %08x: %w", offset, err)
		}
		return Unknown{Offset: offset, Raw: raw, Reason: ReasonTruncated}, nil
	}

	word := aeon.Word(raw)
	tpl, ok := d.table.Lookup(length, word)
	if !ok {
		return Unknown{Offset: offset, Raw: raw, Reason: ReasonNoMatch}, nil
	}

	operands, err := d.resolver.Resolve(tpl, word, offset)
	switch {
	case errors.Is(err, aeon.ErrInvalidOperand):
		return Unknown{Offset: offset, Raw: raw, Reason: ReasonInvalidOperand, Err: err}, nil
	case err != nil:
		// table corruption, fatal by contract
		return nil, fmt.Errorf("decoding at offset %08x: %w", offset, err)
	}

	return Instruction{
		Offset:   offset,
		Raw:      raw,
		Mnemonic: tpl.Mnemonic,
		Operands: operands,
	}, nil
}
