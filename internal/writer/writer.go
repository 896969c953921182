// Package writer renders decode results as a textual disassembly listing.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/aeondisasm/internal/aeon"
	"github.com/retroenv/aeondisasm/internal/decoder"
	"github.com/retroenv/aeondisasm/internal/options"
)

// unknownMnemonic marks bytes without a valid interpretation in the listing.
const unknownMnemonic = "*unk*"

// Writer renders decode results one line per instruction in the form
//
//	00000014: 1c 21 04            l.addi       r1, r1, 0x4
//
// with the offset and hex byte columns controlled by options.
type Writer struct {
	options options.Program
	writer  io.Writer
}

// New creates a new listing writer.
func New(writer io.Writer, opts options.Program) *Writer {
	return &Writer{
		options: opts,
		writer:  writer,
	}
}

// Write renders a single decode result as one listing line.
func (w *Writer) Write(result decoder.Result) error {
	var line strings.Builder

	offset, _ := result.Location()
	if !w.options.NoOffsets {
		fmt.Fprintf(&line, "%08x: ", offset)
	}

	switch res := result.(type) {
	case decoder.Instruction:
		w.writeBytes(&line, res.Raw)
		fmt.Fprintf(&line, "%-12s %s", res.Mnemonic, formatOperands(res.Operands))

	case decoder.Unknown:
		w.writeBytes(&line, res.Raw)
		line.WriteString(unknownMnemonic)
		if res.Reason != decoder.ReasonNoMatch {
			fmt.Fprintf(&line, " ; %s", res.Reason)
		}

	default:
		return fmt.Errorf("unsupported result type %T", result)
	}

	if _, err := fmt.Fprintln(w.writer, strings.TrimRight(line.String(), " ")); err != nil {
		return fmt.Errorf("writing listing line: %w", err)
	}
	return nil
}

func (w *Writer) writeBytes(line *strings.Builder, raw []byte) {
	if w.options.NoHexBytes {
		return
	}
	fmt.Fprintf(line, "%-18s  ", hexBytes(raw))
}

func hexBytes(raw []byte) string {
	var b strings.Builder
	for i, value := range raw {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", value)
	}
	return b.String()
}

func formatOperands(operands []aeon.Operand) string {
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		parts = append(parts, formatOperand(operand))
	}
	return strings.Join(parts, ", ")
}

func formatOperand(operand aeon.Operand) string {
	switch operand.Kind {
	case aeon.KindRegister:
		return fmt.Sprintf("r%d", operand.Register)
	case aeon.KindImmediate:
		return fmt.Sprintf("%#x", operand.Value)
	case aeon.KindMemory:
		if operand.Width == 0 { // encoding has no displacement field
			return fmt.Sprintf("0(r%d)", operand.Register)
		}
		return fmt.Sprintf("%#x(r%d)", operand.Value, operand.Register)
	case aeon.KindRelative:
		return fmt.Sprintf("0x%x", operand.Target)
	default:
		return "?"
	}
}
