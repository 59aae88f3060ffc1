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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValueComposite(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{
		0x0a, 0x00, 0x00, 0x00, // id: u32 = 10
		0x08, 0xaa, 0xbb, // data: 2-byte sequence
	})
	value, err := DecodeValue(dec, testComposite, registry)
	require.NoError(t, err)

	composite, ok := value.Value.(Composite)
	require.True(t, ok)
	require.Len(t, composite.Fields, 2)

	id, ok := composite.FieldByName("id")
	require.True(t, ok)
	assert.Equal(t, uint64(10), id.Value)

	data, ok := composite.FieldByName("data")
	require.True(t, ok)
	assert.Equal(t, []byte{0xaa, 0xbb}, data.Value)
}

func TestDecodeValueVariant(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{0x01, 0x2a, 0x00, 0x00, 0x00})
	value, err := DecodeValue(dec, testEnum, registry)
	require.NoError(t, err)

	variant, ok := value.Value.(VariantValue)
	require.True(t, ok)
	assert.Equal(t, "Single", variant.Name)
	assert.Equal(t, uint8(1), variant.Index)

	inner, ok := variant.Fields.FieldByName("value")
	require.True(t, ok)
	assert.Equal(t, uint64(42), inner.Value)
}

func TestDecodeValueU128(t *testing.T) {
	registry := testRegistry()
	data := make([]byte, 16)
	data[0] = 0x07
	dec := NewDecoder(data)
	value, err := DecodeValue(dec, testU128, registry)
	require.NoError(t, err)

	v, ok := value.Value.(*big.Int)
	require.True(t, ok)
	assert.Zero(t, v.Cmp(big.NewInt(7)))
}

func TestDecodeValueTuple(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{0x05, 0x00, 0x00, 0x00, 0x01})
	value, err := DecodeValue(dec, testPair, registry)
	require.NoError(t, err)

	elems, ok := value.Value.([]Value)
	require.True(t, ok)
	require.Len(t, elems, 2)
	assert.Equal(t, uint64(5), elems[0].Value)
	assert.Equal(t, true, elems[1].Value)
}

type testRecord struct {
	ID   uint32
	Data []byte
}

func TestDecodeIntoStruct(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{
		0x0a, 0x00, 0x00, 0x00,
		0x08, 0xaa, 0xbb,
	})
	var record testRecord
	require.NoError(t, DecodeInto(dec, testComposite, registry, &record))
	assert.Equal(t, testRecord{ID: 10, Data: []byte{0xaa, 0xbb}}, record)
}

func TestDecodeFieldsInto(t *testing.T) {
	registry := testRegistry()
	fields := []Field{
		{Name: "id", Type: testU32},
		{Name: "data", Type: testByteSeq},
	}
	dec := NewDecoder([]byte{
		0x07, 0x00, 0x00, 0x00,
		0x04, 0xcc,
	})
	var record testRecord
	require.NoError(t, DecodeFieldsInto(dec, fields, registry, &record))
	assert.Equal(t, testRecord{ID: 7, Data: []byte{0xcc}}, record)
}

type testChoice struct {
	Variant string
	Value   uint32
}

func (c *testChoice) UnmarshalVariant(variant *Variant, dec *Decoder, registry *Registry) error {
	c.Variant = variant.Name
	if len(variant.Fields) == 0 {
		return nil
	}
	return DecodeInto(dec, variant.Fields[0].Type, registry, &c.Value)
}

func TestDecodeIntoVariantUnmarshaler(t *testing.T) {
	registry := testRegistry()

	dec := NewDecoder([]byte{0x01, 0x63, 0x00, 0x00, 0x00})
	var choice testChoice
	require.NoError(t, DecodeInto(dec, testEnum, registry, &choice))
	assert.Equal(t, testChoice{Variant: "Single", Value: 99}, choice)

	dec = NewDecoder([]byte{0x00})
	choice = testChoice{}
	require.NoError(t, DecodeInto(dec, testEnum, registry, &choice))
	assert.Equal(t, "Empty", choice.Variant)
}

func TestDecodeIntoVariantWithoutUnmarshaler(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{0x00})
	var dest uint32
	err := DecodeInto(dec, testEnum, registry, &dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VariantUnmarshaler")
}

func TestDecodeIntoCompact(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{0xfd, 0xff})
	var v uint64
	require.NoError(t, DecodeInto(dec, testCompactU64, registry, &v))
	assert.Equal(t, uint64(16383), v)
}

func TestDecodeIntoArray(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{1, 2, 3, 4})
	var arr [4]byte
	require.NoError(t, DecodeInto(dec, testByteArray4, registry, &arr))
	assert.Equal(t, [4]byte{1, 2, 3, 4}, arr)
}

func TestDecodeValueOversizedCount(t *testing.T) {
	// Nine bytes declaring 2^62 four-byte elements must fail cleanly
	// instead of allocating for the declared count.
	registry := NewRegistry([]Type{
		{Def: PrimitiveDef{Kind: PrimitiveU32}},
		{Def: SequenceDef{ElemType: 0}},
	})
	dec := NewDecoder([]byte{0x13, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40})
	_, err := DecodeValue(dec, 1, registry)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBytes)

	// Byte sequence whose declared length exceeds MaxInt64.
	dec = NewDecoder([]byte{0x13, 0xce, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	_, err = DecodeValue(dec, testByteSeq, testRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBytes)
}

func TestDecodeIntoOversizedCount(t *testing.T) {
	registry := NewRegistry([]Type{
		{Def: PrimitiveDef{Kind: PrimitiveU32}},
		{Def: SequenceDef{ElemType: 0}},
	})
	dec := NewDecoder([]byte{0x13, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40})
	var dest []uint32
	err := DecodeInto(dec, 1, registry, &dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBytes)
	assert.Nil(t, dest)
}

func TestDecodeIntoOverflow(t *testing.T) {
	registry := testRegistry()
	dec := NewDecoder([]byte{0xff, 0x01, 0x00, 0x00})
	var v uint8
	err := DecodeInto(dec, testU32, registry, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows")
}
