package cbor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrTruncated is returned when the input ends mid-item.
type ErrTruncated struct{ Offset int }

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("cbor: truncated input at offset %d", e.Offset)
}

// ErrUnsupported is returned for well-formed CBOR this engine does not
// model (indefinite-length items and major type 7 simple values other
// than false/true/null).
type ErrUnsupported struct {
	Offset int
	Reason string
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("cbor: unsupported encoding at offset %d: %s", e.Offset, e.Reason)
}

// Decode parses a single deterministic-encoded dCBOR item from data.
//
// Decode is hand-rolled rather than delegating to fxamacker/cbor's generic
// interface{} decode because that path loses map key order (Go's map type
// has none to preserve), and requires maps to preserve insertion
// order. Encode, by contrast, does use fxamacker — order is an output
// concern there, not an input one, and fxamacker's canonical encode mode
// gives us a trustworthy byte-for-byte digest input for free.
func Decode(data []byte) (Value, error) {
	v, n, err := decodeItem(data, 0)
	if err != nil {
		return Value{}, err
	}
	if n != len(data) {
		return Value{}, fmt.Errorf("cbor: %d trailing bytes after top-level item", len(data)-n)
	}
	return v, nil
}

func decodeItem(data []byte, off int) (Value, int, error) {
	if off >= len(data) {
		return Value{}, off, &ErrTruncated{Offset: off}
	}
	first := data[off]
	major := first >> 5
	minor := first & 0x1f

	switch major {
	case 0: // unsigned int
		n, sz, err := readArg(data, off, minor)
		if err != nil {
			return Value{}, off, err
		}
		return Int(int64(n)), off + sz, nil

	case 1: // negative int
		n, sz, err := readArg(data, off, minor)
		if err != nil {
			return Value{}, off, err
		}
		return Int(-1 - int64(n)), off + sz, nil

	case 2: // byte string
		n, sz, err := readArg(data, off, minor)
		if err != nil {
			return Value{}, off, err
		}
		start := off + sz
		end := start + int(n)
		if end > len(data) {
			return Value{}, off, &ErrTruncated{Offset: off}
		}
		return Bytes(data[start:end]), end, nil

	case 3: // text string
		n, sz, err := readArg(data, off, minor)
		if err != nil {
			return Value{}, off, err
		}
		start := off + sz
		end := start + int(n)
		if end > len(data) {
			return Value{}, off, &ErrTruncated{Offset: off}
		}
		return Text(string(data[start:end])), end, nil

	case 4: // array
		n, sz, err := readArg(data, off, minor)
		if err != nil {
			return Value{}, off, err
		}
		pos := off + sz
		elems := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			var e Value
			var consumed int
			e, consumed, err = decodeItem(data, pos)
			if err != nil {
				return Value{}, off, err
			}
			elems = append(elems, e)
			pos = consumed
		}
		return Value{kind: KindArray, arr: elems}, pos, nil

	case 5: // map
		n, sz, err := readArg(data, off, minor)
		if err != nil {
			return Value{}, off, err
		}
		pos := off + sz
		entries := make([]MapEntry, 0, n)
		for i := uint64(0); i < n; i++ {
			var k, val Value
			var consumed int
			k, consumed, err = decodeItem(data, pos)
			if err != nil {
				return Value{}, off, err
			}
			pos = consumed
			val, consumed, err = decodeItem(data, pos)
			if err != nil {
				return Value{}, off, err
			}
			pos = consumed
			entries = append(entries, MapEntry{Key: k, Value: val})
		}
		return Value{kind: KindMap, m: entries}, pos, nil

	case 6: // tag
		tagNum, sz, err := readArg(data, off, minor)
		if err != nil {
			return Value{}, off, err
		}
		content, pos, err := decodeItem(data, off+sz)
		if err != nil {
			return Value{}, off, err
		}
		return Value{kind: KindTagged, tag: tagNum, cont: &content}, pos, nil

	case 7: // simple / float
		switch minor {
		case 20:
			return Bool(false), off + 1, nil
		case 21:
			return Bool(true), off + 1, nil
		case 22:
			return Null(), off + 1, nil
		case 25: // half float
			if off+3 > len(data) {
				return Value{}, off, &ErrTruncated{Offset: off}
			}
			h := binary.BigEndian.Uint16(data[off+1:])
			return Float(float64(halfToFloat32(h))), off + 3, nil
		case 26: // single float
			if off+5 > len(data) {
				return Value{}, off, &ErrTruncated{Offset: off}
			}
			bits := binary.BigEndian.Uint32(data[off+1:])
			return Float(float64(math.Float32frombits(bits))), off + 5, nil
		case 27: // double float
			if off+9 > len(data) {
				return Value{}, off, &ErrTruncated{Offset: off}
			}
			bits := binary.BigEndian.Uint64(data[off+1:])
			return Float(math.Float64frombits(bits)), off + 9, nil
		default:
			return Value{}, off, &ErrUnsupported{Offset: off, Reason: "simple value"}
		}
	}

	return Value{}, off, &ErrUnsupported{Offset: off, Reason: "major type"}
}

// readArg decodes the argument that follows a major-type byte: either the
// minor field itself (< 24) or a following 1/2/4/8-byte big-endian integer.
func readArg(data []byte, off int, minor byte) (uint64, int, error) {
	switch {
	case minor < 24:
		return uint64(minor), 1, nil
	case minor == 24:
		if off+2 > len(data) {
			return 0, 0, &ErrTruncated{Offset: off}
		}
		return uint64(data[off+1]), 2, nil
	case minor == 25:
		if off+3 > len(data) {
			return 0, 0, &ErrTruncated{Offset: off}
		}
		return uint64(binary.BigEndian.Uint16(data[off+1:])), 3, nil
	case minor == 26:
		if off+5 > len(data) {
			return 0, 0, &ErrTruncated{Offset: off}
		}
		return uint64(binary.BigEndian.Uint32(data[off+1:])), 5, nil
	case minor == 27:
		if off+9 > len(data) {
			return 0, 0, &ErrTruncated{Offset: off}
		}
		return binary.BigEndian.Uint64(data[off+1:]), 9, nil
	default:
		return 0, 0, &ErrUnsupported{Offset: off, Reason: "indefinite length"}
	}
}

func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var bits uint32
	switch exp {
	case 0:
		if frac == 0 {
			bits = sign << 31
		} else {
			// subnormal
			for frac&0x400 == 0 {
				frac <<= 1
				exp--
			}
			exp++
			frac &= 0x3ff
			bits = (sign << 31) | ((exp + 112) << 23) | (frac << 13)
		}
	case 0x1f:
		bits = (sign << 31) | (0xff << 23) | (frac << 13)
	default:
		bits = (sign << 31) | ((exp + 112) << 23) | (frac << 13)
	}
	return math.Float32frombits(bits)
}
