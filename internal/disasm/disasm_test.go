package disasm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/aeondisasm/internal/aeon"
	"github.com/retroenv/aeondisasm/internal/decoder"
	"github.com/retroenv/aeondisasm/internal/options"
	"github.com/retroenv/aeondisasm/internal/writer"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestDisasm(t *testing.T, opts options.Disassembler) *Disasm {
	t.Helper()
	return New(log.NewTestLogger(t), aeon.Instructions(), opts)
}

func TestDecodeAll(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	// l.nop (2), l.addi r1, r1, 4 (3), unknown 3-byte encoding,
	// l.movhi r2, 0x1234 (4)
	data := []byte{
		0x80, 0x01,
		0x1C, 0x21, 0x04,
		0x60, 0x00, 0x00,
		0xC0, 0x42, 0x46, 0x81,
	}

	results, err := dis.DecodeAll(data, 0)
	assert.NoError(t, err)
	assert.Len(t, results, 4)

	nop, ok := results[0].(decoder.Instruction)
	assert.True(t, ok)
	assert.Equal(t, "l.nop", nop.Mnemonic)

	addi, ok := results[1].(decoder.Instruction)
	assert.True(t, ok)
	assert.Equal(t, "l.addi", addi.Mnemonic)
	assert.Equal(t, uint32(2), addi.Offset)

	unk, ok := results[2].(decoder.Unknown)
	assert.True(t, ok)
	assert.Equal(t, decoder.ReasonNoMatch, unk.Reason)

	movhi, ok := results[3].(decoder.Instruction)
	assert.True(t, ok)
	assert.Equal(t, "l.movhi", movhi.Mnemonic)
	assert.Equal(t, 2, movhi.Operands[0].Register)
	assert.Equal(t, int64(0x1234), movhi.Operands[1].Value)
}

// TestDecodeAllTilesBuffer verifies that consecutive results cover every
// byte exactly once, with no gaps and no overlaps, for an input that mixes
// valid, unknown and truncated regions.
func TestDecodeAllTilesBuffer(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	data := []byte{
		0x80, 0x01, // l.nop
		0xFF, 0xFF, 0xFF, 0xFF, // l.addi r31, r31, 0xffff
		0x60, 0x00, 0x00, // unknown
		0x80, 0x02, // bt.trap
		0xC0, 0x42, // truncated 4-byte instruction
	}

	results, err := dis.DecodeAll(data, 0)
	assert.NoError(t, err)

	var next uint32
	for _, result := range results {
		offset, length := result.Location()
		assert.Equal(t, next, offset)
		assert.True(t, length > 0)
		next = offset + uint32(length)
	}
	assert.Equal(t, uint32(len(data)), next)

	last, ok := results[len(results)-1].(decoder.Unknown)
	assert.True(t, ok)
	assert.Equal(t, decoder.ReasonTruncated, last.Reason)
	assert.Equal(t, []byte{0xC0, 0x42}, last.Raw)
}

func TestIterRestart(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	data := []byte{
		0x80, 0x01, // l.nop
		0x80, 0x02, // bt.trap
	}

	// restarting at a later offset yields the same result as a full pass
	it := dis.Iter(data, 2)
	result, ok := it.Next()
	assert.True(t, ok)

	trap, ok := result.(decoder.Instruction)
	assert.True(t, ok)
	assert.Equal(t, "bt.trap", trap.Mnemonic)
	assert.Equal(t, uint32(2), trap.Offset)

	_, ok = it.Next()
	assert.False(t, ok)
	assert.NoError(t, it.Err())
}

func TestDecodeAllEmptyBuffer(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	results, err := dis.DecodeAll(nil, 0)
	assert.NoError(t, err)
	assert.Len(t, results, 0)
}

func TestDecodeAllSingleTrailingByte(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	results, err := dis.DecodeAll([]byte{0xC0}, 0)
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	unk, ok := results[0].(decoder.Unknown)
	assert.True(t, ok)
	assert.Equal(t, decoder.ReasonTruncated, unk.Reason)
	assert.Equal(t, []byte{0xC0}, unk.Raw)
}

func TestProcess(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	data := []byte{
		0x1C, 0x21, 0x04, // l.addi r1, r1, 4
		0x60, 0x00, 0x00, // unknown
	}

	var out strings.Builder
	w := writer.New(&out, options.Program{})
	assert.NoError(t, dis.Process(context.Background(), data, w))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "l.addi")
	assert.Contains(t, lines[0], "r1, r1, 0x4")
	assert.Contains(t, lines[1], "*unk*")
}

func TestProcessCancelled(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	w := writer.New(&out, options.Program{})
	err := dis.Process(ctx, []byte{0x80, 0x01}, w)
	assert.Error(t, err)
}

// TestDecodeAllConcurrent decodes the same shared buffer from multiple
// goroutines, the opcode table and buffer data are read-only.
func TestDecodeAllConcurrent(t *testing.T) {
	dis := newTestDisasm(t, options.Disassembler{})

	data := []byte{
		0x80, 0x01,
		0x1C, 0x21, 0x04,
		0xC0, 0x42, 0x46, 0x81,
	}

	const workers = 4
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			results, err := dis.DecodeAll(data, 0)
			if err == nil && len(results) != 3 {
				err = errors.New("unexpected result count")
			}
			errs <- err
		}()
	}
	for i := 0; i < workers; i++ {
		assert.NoError(t, <-errs)
	}
}

func TestDecodeAllBranchBase(t *testing.T) {
	data := []byte{0x23, 0xFF, 0xF1} // l.bf -4

	dis := newTestDisasm(t, options.Disassembler{})
	results, err := dis.DecodeAll(data, 0)
	assert.NoError(t, err)
	bf := results[0].(decoder.Instruction)
	assert.Equal(t, uint32(0xFFFFFFFC), bf.Operands[0].Target)

	dis = newTestDisasm(t, options.Disassembler{BranchBase: aeon.BranchBaseNextInstruction})
	results, err = dis.DecodeAll(data, 0)
	assert.NoError(t, err)
	bf = results[0].(decoder.Instruction)
	assert.Equal(t, uint32(0xFFFFFFFF), bf.Operands[0].Target)
}
