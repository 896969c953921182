// Package disasm drives instruction decoding across a whole firmware image.
package disasm

import (
	"context"
	"fmt"

	"github.com/retroenv/aeondisasm/internal/aeon"
	"github.com/retroenv/aeondisasm/internal/buffer"
	"github.com/retroenv/aeondisasm/internal/decoder"
	"github.com/retroenv/aeondisasm/internal/options"
	"github.com/retroenv/aeondisasm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Disasm iterates a decoder across byte buffers. A Disasm holds no decode
// state of its own, independent iterations may run concurrently on
// independent buffers.
type Disasm struct {
	logger  *log.Logger
	dec     *decoder.Decoder
	options options.Disassembler
}

// New creates a new disassembler driver using the passed opcode table.
func New(logger *log.Logger, table *aeon.Table, opts options.Disassembler) *Disasm {
	resolver := aeon.Resolver{Base: opts.BranchBase}
	return &Disasm{
		logger:  logger,
		dec:     decoder.New(table, resolver),
		options: opts,
	}
}

// Iter is a lazy iterator over the decode results of one buffer. Results
// tile the buffer exactly: consecutive results cover adjacent, non
// overlapping byte ranges. Iteration can be restarted from any offset by
// creating a new Iter.
type Iter struct {
	dec    *decoder.Decoder
	buf    *buffer.Buffer
	offset uint32
	err    error
}

// Iter returns an iterator over data starting at the given offset.
func (dis *Disasm) Iter(data []byte, start uint32) *Iter {
	return &Iter{
		dec:    dis.dec,
		buf:    buffer.New(data),
		offset: start,
	}
}

// Next decodes and returns the next result. It returns false when the end
// of the buffer is reached or decoding failed fatally, Err distinguishes
// the two.
func (it *Iter) Next() (decoder.Result, bool) {
	if it.err != nil || int(it.offset) >= it.buf.Len() {
		return nil, false
	}

	result, err := it.dec.DecodeAt(it.buf, it.offset)
	if err != nil {
		it.err = err
		return nil, false
	}

	_, length := result.Location()
	it.offset += uint32(length)
	return result, true
}

// Err returns the fatal error that stopped iteration, if any.
func (it *Iter) Err() error {
	return it.err
}

// Offset returns the offset the next decode will start at.
func (it *Iter) Offset() uint32 {
	return it.offset
}

// DecodeAll decodes the whole buffer into a result slice.
func (dis *Disasm) DecodeAll(data []byte, start uint32) ([]decoder.Result, error) {
	var results []decoder.Result

	it := dis.Iter(data, start)
	for {
		result, ok := it.Next()
		if !ok {
			break
		}
		results = append(results, result)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("decoding buffer: %w", err)
	}
	return results, nil
}

// Process decodes the whole image and renders every result through the
// listing writer. Unknown regions are reported inline, the pass always
// covers the full buffer.
func (dis *Disasm) Process(ctx context.Context, data []byte, out *writer.Writer) error {
	var instructions, unknown, branches int

	it := dis.Iter(data, dis.options.StartOffset)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("processing image: %w", err)
		}

		result, ok := it.Next()
		if !ok {
			break
		}

		switch res := result.(type) {
		case decoder.Instruction:
			instructions++
			if aeon.ControlFlowInstructions.Contains(res.Mnemonic) {
				branches++
			}
		case decoder.Unknown:
			unknown++
			dis.logger.Debug("Unknown encoding",
				log.String("reason", res.Reason.String()),
				log.Hex("offset", res.Offset),
			)
		}

		if err := out.Write(result); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("processing image: %w", err)
	}

	dis.logger.Info("Disassembly finished",
		log.Int("instructions", instructions),
		log.Int("unknown", unknown),
		log.Int("branches", branches),
	)
	return nil
}
