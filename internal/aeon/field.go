package aeon

import "fmt"

// bitRange is one contiguous run of an operand field inside the instruction
// word. Fields can be split across multiple runs, for example the j bit of
// l.invalidate_line sits between fixed opcode bits.
type bitRange struct {
	length      int // number of bits in this run
	insnOffset  int // offset from the instruction LSB to the run LSB
	valueOffset int // offset of the run within the assembled value
}

func (r bitRange) extract(word uint32) uint32 {
	value := (word >> r.insnOffset) & (1<<r.length - 1)
	return value << r.valueOffset
}

// Field describes where the bits of one operand live inside an instruction
// word. Extraction yields the raw unsigned value, sign interpretation is
// left to the operand resolver.
type Field struct {
	Arg  byte // template letter identifying the field
	Bits int  // total field width in bits

	ranges []bitRange
}

// fieldFromPattern collects all runs of arg in a bit pattern string into a
// field. The pattern's leftmost character is the instruction MSB.
func fieldFromPattern(arg byte, pattern string) (Field, error) {
	field := Field{Arg: arg}
	patternLen := len(pattern)

	valueOffset := 0
	index := patternLen - 1
	for index >= 0 {
		if pattern[index] != arg {
			index--
			continue
		}

		// scan the full run of arg bits
		lsb := index
		for index >= 0 && pattern[index] == arg {
			index--
		}
		runLength := lsb - index
		field.ranges = append(field.ranges, bitRange{
			length:      runLength,
			insnOffset:  patternLen - lsb - 1,
			valueOffset: valueOffset,
		})
		valueOffset += runLength
	}

	field.Bits = valueOffset
	if field.Bits == 0 {
		return Field{}, fmt.Errorf("field %q does not occur in pattern %q", arg, pattern)
	}
	return field, nil
}

// Extract returns the raw unsigned value of the field in the given
// instruction word.
func (f Field) Extract(word uint32) uint32 {
	var value uint32
	for _, r := range f.ranges {
		value |= r.extract(word)
	}
	return value
}

// SignExtend interprets the lowest bits of value as a two's complement
// number of the given width.
func SignExtend(value uint32, bits int) int64 {
	signBit := uint32(1) << (bits - 1)
	if value&signBit == 0 {
		return int64(value)
	}
	return int64(value) - int64(1)<<bits
}
