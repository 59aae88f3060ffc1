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
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactDecode(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected uint64
	}{
		{name: "Zero", data: []byte{0x00}, expected: 0},
		{name: "SingleByteMax", data: []byte{0xfc}, expected: 63},
		{name: "TwoByteMin", data: []byte{0x01, 0x01}, expected: 64},
		{name: "TwoByteMax", data: []byte{0xfd, 0xff}, expected: 16383},
		{name: "FourByteMin", data: []byte{0x02, 0x00, 0x01, 0x00}, expected: 16384},
		{name: "FourByteMax", data: []byte{0xfe, 0xff, 0xff, 0xff}, expected: 1073741823},
		{
			name:     "BigIntMode",
			data:     []byte{0x03, 0x00, 0x00, 0x00, 0x40},
			expected: 1073741824,
		},
		{
			name:     "BigIntFiveBytes",
			data:     []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01},
			expected: 1 << 32,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dec := NewDecoder(tc.data)
			v, err := dec.ReadCompact()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
			assert.Equal(t, len(tc.data), dec.Position())
		})
	}
}

func TestCompactRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 63, 64, 255, 16383, 16384, 1073741823, 1073741824,
		1 << 32, 1<<63 + 17,
	}
	for _, v := range values {
		dec := NewDecoder(EncodeCompact(v))
		decoded, err := dec.ReadCompact()
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
		assert.Equal(t, 0, dec.Remaining())
	}
}

func TestCompactInsufficientBytes(t *testing.T) {
	testCases := [][]byte{
		{},
		{0x01},             // two-byte mode, second byte missing
		{0x02, 0x00},       // four-byte mode truncated
		{0x03, 0x00, 0x00}, // big mode needs 4 bytes
	}
	for _, data := range testCases {
		dec := NewDecoder(data)
		_, err := dec.ReadCompact()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInsufficientBytes)
	}
}

func TestDecoderPrimitives(t *testing.T) {
	dec := NewDecoder([]byte{
		0x2a,                   // u8
		0x39, 0x30,             // u16: 12345
		0x0a, 0x00, 0x00, 0x00, // u32: 10
		0x01, // bool: true
	})
	b, err := dec.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(42), b)

	v16, err := dec.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(12345), v16)

	v32, err := dec.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), v32)

	flag, err := dec.ReadBool()
	require.NoError(t, err)
	assert.True(t, flag)
	assert.Equal(t, 0, dec.Remaining())
}

func TestDecoderInvalidBool(t *testing.T) {
	dec := NewDecoder([]byte{0x02})
	_, err := dec.ReadBool()
	require.Error(t, err)
	var decodeErr DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestReadString(t *testing.T) {
	// Compact length 9 followed by the bytes.
	data := append([]byte{0x24}, []byte("SomeValue")...)
	dec := NewDecoder(data)
	s, err := dec.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "SomeValue", s)
}

func TestReadU128(t *testing.T) {
	data := make([]byte, 16)
	data[0] = 0x0a
	data[15] = 0x01
	dec := NewDecoder(data)
	v, err := dec.ReadU128()
	require.NoError(t, err)
	expected := new(big.Int).Lsh(big.NewInt(1), 120)
	expected.Add(expected, big.NewInt(10))
	assert.Zero(t, expected.Cmp(v))
}

func TestStripCompactPrefix(t *testing.T) {
	payload := []byte{0xaa, 0xbb, 0xcc}
	data := append(EncodeCompact(uint64(len(payload))), payload...)
	n, rest, err := StripCompactPrefix(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, payload, rest)

	_, _, err = StripCompactPrefix([]byte{})
	assert.ErrorIs(t, err, ErrInsufficientBytes)
}

func TestDecoderSkipNegative(t *testing.T) {
	dec := NewDecoder([]byte{0x01, 0x02, 0x03})
	err := dec.Skip(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBytes)
	assert.Equal(t, 0, dec.Position())

	require.NoError(t, dec.Skip(2))
	assert.Equal(t, 2, dec.Position())
	assert.ErrorIs(t, dec.Skip(2), ErrInsufficientBytes)
	assert.Equal(t, 2, dec.Position())
}

func TestDecodeErrorOffset(t *testing.T) {
	dec := NewDecoder([]byte{0x01, 0x02})
	_, err := dec.ReadBytes(2)
	require.NoError(t, err)
	_, err = dec.ReadByte()
	var decodeErr DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 2, decodeErr.Offset)
}
