package parser

import (
	"encoding/binary"
	"fmt"
	"math"
)

// packFieldWidth is the byte width of one struct-style format character.
func packFieldWidth(c byte) (int64, bool) {
	switch c {
	case 'b', 'B':
		return 1, true
	case 'h', 'H':
		return 2, true
	case 'i', 'I', 'f':
		return 4, true
	case 'q', 'Q', 'd':
		return 8, true
	default:
		return 0, false
	}
}

func isEndianness(c byte) bool { return c == '<' || c == '>' }

// PackedSize returns the platform-neutral packed size of a format string
// such as "<B" or ">I", per §4.10's Pack directive.
func PackedSize(format string) int64 {
	var size int64
	for i := 0; i < len(format); i++ {
		if isEndianness(format[i]) {
			continue
		}
		if w, ok := packFieldWidth(format[i]); ok {
			size += w
		}
	}
	return size
}

// PackValue packs a single integer value per format, little- or big-endian
// as the format's leading '<'/'>' selects (default little-endian). Only
// the first data field of format is used -- every Pack/ShorthandPack this
// assembler emits carries exactly one value.
func PackValue(format string, value int64) ([]byte, error) {
	big := false
	i := 0
	if len(format) > 0 && isEndianness(format[0]) {
		big = format[0] == '>'
		i = 1
	}
	if i >= len(format) {
		return nil, fmt.Errorf("empty pack format")
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if big {
		order = binary.BigEndian
	}

	switch format[i] {
	case 'b', 'B':
		return []byte{byte(value)}, nil
	case 'h', 'H':
		buf := make([]byte, 2)
		order.PutUint16(buf, uint16(value))
		return buf, nil
	case 'i', 'I':
		buf := make([]byte, 4)
		order.PutUint32(buf, uint32(value))
		return buf, nil
	case 'f':
		buf := make([]byte, 4)
		order.PutUint32(buf, math.Float32bits(float32(value)))
		return buf, nil
	case 'q', 'Q':
		buf := make([]byte, 8)
		order.PutUint64(buf, uint64(value))
		return buf, nil
	case 'd':
		buf := make([]byte, 8)
		order.PutUint64(buf, math.Float64bits(float64(value)))
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported pack format character: %q", format[i])
	}
}
