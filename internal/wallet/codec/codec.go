// Package codec writes the Borsh byte layout used by on-chain instruction
// payloads. Only the outbound direction is implemented.
package codec

import (
	"bytes"
	"math"

	bin "github.com/gagliardetto/binary"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// MaxStringLength is the largest string a u32 length prefix can describe.
const MaxStringLength uint64 = math.MaxUint32

// EncodeLengthPrefixedString returns a 4 byte little-endian length followed by the UTF-8 bytes of s.
func EncodeLengthPrefixedString(s string) ([]byte, error) {
	return NewEncoder().String(s).Bytes()
}

// Concat joins buffers in call order.
func Concat(bufs ...[]byte) []byte {
	return bytes.Join(bufs, nil)
}

func checkLength(n uint64) error {
	if n > MaxStringLength {
		return failure.Newf(failure.KindEncoding, "string of %d bytes exceeds maximum length %d", n, MaxStringLength)
	}

	return nil
}

// Encoder accumulates fields in order. The first error sticks and is returned by Bytes.
type Encoder struct {
	buf bytes.Buffer
	enc *bin.Encoder
	err error
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.enc = bin.NewBorshEncoder(&e.buf)

	return e
}

func (e *Encoder) write(f func() error) *Encoder {
	if e.err != nil {
		return e
	}

	if err := f(); err != nil {
		e.err = failure.Wrap(failure.KindEncoding, err, "failed to encode field")
	}

	return e
}

func (e *Encoder) U8(v uint8) *Encoder {
	return e.write(func() error { return e.enc.WriteUint8(v) })
}

func (e *Encoder) U16(v uint16) *Encoder {
	return e.write(func() error { return e.enc.WriteUint16(v, bin.LE) })
}

func (e *Encoder) Bool(v bool) *Encoder {
	return e.write(func() error { return e.enc.WriteBool(v) })
}

// String writes a u32 length prefix followed by the UTF-8 bytes of s.
func (e *Encoder) String(s string) *Encoder {
	if e.err != nil {
		return e
	}

	if err := checkLength(uint64(len(s))); err != nil {
		e.err = err
		return e
	}

	return e.write(func() error {
		if err := e.enc.WriteUint32(uint32(len(s)), bin.LE); err != nil {
			return err
		}

		return e.enc.WriteBytes([]byte(s), false)
	})
}

// None writes the tag of an absent optional value.
func (e *Encoder) None() *Encoder {
	return e.write(func() error { return e.enc.WriteOption(false) })
}

// Bytes returns the encoded payload or the first error hit while encoding.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}

	return bytes.Clone(e.buf.Bytes()), nil
}
