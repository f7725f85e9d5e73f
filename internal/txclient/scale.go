package txclient

import (
	"bytes"
	"encoding/binary"
)

// encoder accumulates a SCALE-encoded byte stream. Substrate's extrinsic
// and call encodings are simple enough (fixed-width integers, compact
// integers, byte vectors, tuples) that hand-rolling them avoids pulling
// in a full metadata-driven SCALE codec for four call shapes.
type encoder struct {
	buf bytes.Buffer
}

func newEncoder() *encoder { return &encoder{} }

func (e *encoder) bytes() []byte { return e.buf.Bytes() }

// putCompact writes n using SCALE's compact ("general") integer format.
func (e *encoder) putCompact(n uint64) {
	switch {
	case n < 1<<6:
		e.buf.WriteByte(byte(n << 2))
	case n < 1<<14:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n<<2)|0b01)
		e.buf.Write(b[:])
	case n < 1<<30:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n<<2)|0b10)
		e.buf.Write(b[:])
	default:
		// Big-integer mode: length byte then little-endian bytes.
		var raw [8]byte
		binary.LittleEndian.PutUint64(raw[:], n)
		length := 8
		for length > 1 && raw[length-1] == 0 {
			length--
		}
		e.buf.WriteByte(byte((length-4)<<2 | 0b11))
		e.buf.Write(raw[:length])
	}
}

// putBytes writes a length-prefixed byte vector (Vec<u8>).
func (e *encoder) putBytes(b []byte) {
	e.putCompact(uint64(len(b)))
	e.buf.Write(b)
}

// putFixed writes b verbatim, with no length prefix — for fixed-size
// fields like a 32-byte account ID or public key.
func (e *encoder) putFixed(b []byte) {
	e.buf.Write(b)
}

func (e *encoder) putU8(v uint8)   { e.buf.WriteByte(v) }
func (e *encoder) putU32(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); e.buf.Write(b[:]) }
func (e *encoder) putU64(v uint64) { var b [8]byte; binary.LittleEndian.PutUint64(b[:], v); e.buf.Write(b[:]) }
