package cbor

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the canonical (deterministic) encoding mode fxamacker uses for
// this package's scalar leaves: shortest-form integers and floats, as
// required by the dCBOR profile.
var encMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	m, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: building canonical encode mode: %v", err))
	}
	return m
}()

// Encode re-serializes v using the deterministic (canonical) CBOR profile.
// Used by the digest pattern and by round-trip tests; never by the matching
// path itself, which always operates on the already-decoded Value tree.
//
// Scalar leaves (bool, int, float, text, bytes, null) are delegated to
// fxamacker/cbor's canonical EncMode, which already implements correct
// shortest-form integer and float16/32/64 selection. Containers (array,
// map, tagged) are written by hand, the mirror image of decode.go's
// decodeItem: fxamacker's generic interface{} marshaling can only target a
// plain Go map for major type 5, which (like Go's decode-side map type)
// cannot preserve key order or represent a key that isn't itself a valid,
// distinct Go map key — exactly the reason Decode is hand-rolled too.
func Encode(v Value) ([]byte, error) {
	switch v.kind {
	case KindBool:
		return encMode.Marshal(v.b)
	case KindInt:
		return encMode.Marshal(v.i)
	case KindFloat:
		return encMode.Marshal(v.f)
	case KindText:
		return encMode.Marshal(v.s)
	case KindBytes:
		return encMode.Marshal(v.bs)
	case KindNull:
		return encMode.Marshal(nil)
	case KindArray:
		var buf bytes.Buffer
		writeHeader(&buf, 4, uint64(len(v.arr)))
		for _, e := range v.arr {
			b, err := Encode(e)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		return buf.Bytes(), nil
	case KindMap:
		var buf bytes.Buffer
		writeHeader(&buf, 5, uint64(len(v.m)))
		for _, e := range v.m {
			kb, err := Encode(e.Key)
			if err != nil {
				return nil, err
			}
			vb, err := Encode(e.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.Write(vb)
		}
		return buf.Bytes(), nil
	case KindTagged:
		var buf bytes.Buffer
		writeHeader(&buf, 6, v.tag)
		cb, err := Encode(v.TagContent())
		if err != nil {
			return nil, err
		}
		buf.Write(cb)
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("cbor: cannot encode kind %s", v.kind)
	}
}

// writeHeader writes a major-type byte plus its shortest-form argument
// encoding, the encode-side mirror of decodeItem/readArg's major-type
// dispatch in decode.go.
func writeHeader(buf *bytes.Buffer, major byte, n uint64) {
	switch {
	case n < 24:
		buf.WriteByte(major<<5 | byte(n))
	case n <= 0xff:
		buf.WriteByte(major<<5 | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(major<<5 | 25)
		var tmp [2]byte
		binary.BigEndian.PutUint16(tmp[:], uint16(n))
		buf.Write(tmp[:])
	case n <= 0xffffffff:
		buf.WriteByte(major<<5 | 26)
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(n))
		buf.Write(tmp[:])
	default:
		buf.WriteByte(major<<5 | 27)
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], n)
		buf.Write(tmp[:])
	}
}
