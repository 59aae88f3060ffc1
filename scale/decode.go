// Copyright 2026 Polytope Labs Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scale

import (
	"encoding/binary"
	"errors"
	"math/big"
)

// Decoder provides sequential decoding over a byte slice with position
// tracking, so that callers can record the byte range occupied by each
// decoded item.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder creates a decoder over the given bytes.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Position returns the current byte offset into the input.
func (d *Decoder) Position() int {
	return d.pos
}

// Remaining returns the number of bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

func (d *Decoder) fail(err error) error {
	return DecodeError{Offset: d.pos, Err: err}
}

// ReadByte consumes and returns a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.Remaining() < 1 {
		return 0, d.fail(ErrInsufficientBytes)
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

// ReadBytes consumes and returns the next n bytes. The returned slice aliases
// the decoder's input and must not be modified.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, d.fail(ErrInsufficientBytes)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// Skip advances past n bytes without returning them. Negative counts are
// rejected: lengths decoded from the input can wrap negative through int
// conversion, and the cursor must never move backwards.
func (d *Decoder) Skip(n int) error {
	if n < 0 || d.Remaining() < n {
		return d.fail(ErrInsufficientBytes)
	}
	d.pos += n
	return nil
}

// ReadU16 decodes a fixed-width little-endian u16.
func (d *Decoder) ReadU16() (uint16, error) {
	b, err := d.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 decodes a fixed-width little-endian u32.
func (d *Decoder) ReadU32() (uint32, error) {
	b, err := d.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 decodes a fixed-width little-endian u64.
func (d *Decoder) ReadU64() (uint64, error) {
	b, err := d.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadU128 decodes a fixed-width little-endian u128 into a big integer.
func (d *Decoder) ReadU128() (*big.Int, error) {
	b, err := d.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	return littleEndianBig(b), nil
}

// ReadBool decodes a single boolean byte, rejecting values other than 0 or 1.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, d.fail(errors.New("invalid boolean byte"))
	}
}

// ReadString decodes a compact length prefix followed by that many UTF-8
// bytes.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadCompact()
	if err != nil {
		return "", err
	}
	b, err := d.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadByteSlice decodes a compact length prefix followed by that many raw
// bytes.
func (d *Decoder) ReadByteSlice() ([]byte, error) {
	n, err := d.ReadCompact()
	if err != nil {
		return nil, err
	}
	return d.ReadBytes(int(n))
}

// ReadCompact decodes a compact-encoded unsigned integer that fits in 64
// bits. Use ReadCompactBig for values that may be wider.
func (d *Decoder) ReadCompact() (uint64, error) {
	v, err := d.ReadCompactBig()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, d.fail(errors.New("compact value exceeds 64 bits"))
	}
	return v.Uint64(), nil
}

// ReadCompactBig decodes a compact-encoded unsigned integer of any width.
//
// The low two bits of the first byte select the mode: single byte, two
// bytes, four bytes, or a length-prefixed big integer of 4 to 67 bytes.
func (d *Decoder) ReadCompactBig() (*big.Int, error) {
	first, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch first & 0x03 {
	case 0:
		return big.NewInt(int64(first >> 2)), nil
	case 1:
		second, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		v := (uint64(first) | uint64(second)<<8) >> 2
		return new(big.Int).SetUint64(v), nil
	case 2:
		rest, err := d.ReadBytes(3)
		if err != nil {
			return nil, err
		}
		v := uint64(first) | uint64(rest[0])<<8 | uint64(rest[1])<<16 | uint64(rest[2])<<24
		return new(big.Int).SetUint64(v >> 2), nil
	default:
		numBytes := int(first>>2) + 4
		b, err := d.ReadBytes(numBytes)
		if err != nil {
			return nil, err
		}
		return littleEndianBig(b), nil
	}
}

// littleEndianBig interprets bytes as a little-endian unsigned integer.
func littleEndianBig(b []byte) *big.Int {
	buf := make([]byte, len(b))
	for i, v := range b {
		buf[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(buf)
}

// EncodeCompact returns the compact encoding of a 64-bit unsigned integer.
func EncodeCompact(v uint64) []byte {
	switch {
	case v < 1<<6:
		return []byte{byte(v) << 2}
	case v < 1<<14:
		return []byte{byte(v<<2) | 0x01, byte(v >> 6)}
	case v < 1<<30:
		var out [4]byte
		binary.LittleEndian.PutUint32(out[:], uint32(v)<<2|0x02)
		return out[:]
	default:
		var le [8]byte
		binary.LittleEndian.PutUint64(le[:], v)
		n := 8
		for n > 4 && le[n-1] == 0 {
			n--
		}
		out := make([]byte, 0, n+1)
		out = append(out, byte(n-4)<<2|0x03)
		return append(out, le[:n]...)
	}
}

// StripCompactPrefix decodes a compact length prefix from the front of data
// and returns the prefix value along with the remaining bytes. Block bodies
// carry each extrinsic length-prefixed in this way.
func StripCompactPrefix(data []byte) (uint64, []byte, error) {
	dec := NewDecoder(data)
	n, err := dec.ReadCompact()
	if err != nil {
		return 0, nil, err
	}
	return n, data[dec.Position():], nil
}
