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
	"fmt"
	"math/big"
)

var (
	twoPow128 = new(big.Int).Lsh(big.NewInt(1), 128)
	twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

// Value is a dynamically decoded value whose shape was determined at runtime
// by walking the type registry. The wrapped value is one of:
//
//   - bool, uint64, int64, *big.Int, string, rune for primitives
//   - []byte for byte sequences and byte arrays
//   - []Value for other sequences, arrays and tuples
//   - Composite for struct-like types
//   - VariantValue for enum values
//   - BitSequenceValue for bit vectors
type Value struct {
	Value any
}

// Composite holds the decoded fields of a struct-like value. Fields appear in
// wire order; Name is empty for positional fields.
type Composite struct {
	Fields []CompositeField
}

// CompositeField is a single named or positional field of a Composite.
type CompositeField struct {
	Name  string
	Value Value
}

// FieldByName returns the named field's value, or false if no field has that
// name.
func (c Composite) FieldByName(name string) (Value, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return Value{}, false
}

// VariantValue is a decoded enum value: the selected variant's name and
// discriminant plus its decoded fields.
type VariantValue struct {
	Name   string
	Index  uint8
	Fields Composite
}

// BitSequenceValue is a decoded bit vector: the number of bits and the raw
// storage words.
type BitSequenceValue struct {
	Bits  uint64
	Bytes []byte
}

// DecodeValue dynamically decodes a value of the given type from the decoder.
func DecodeValue(dec *Decoder, id uint32, registry *Registry) (Value, error) {
	ty, err := registry.Resolve(id)
	if err != nil {
		return Value{}, err
	}
	switch def := ty.Def.(type) {
	case CompositeDef:
		fields, err := DecodeFields(dec, def.Fields, registry)
		if err != nil {
			return Value{}, err
		}
		return Value{Value: fields}, nil
	case VariantDef:
		index, err := dec.ReadByte()
		if err != nil {
			return Value{}, err
		}
		variant, ok := def.VariantByIndex(index)
		if !ok {
			return Value{}, DecodeError{
				Offset: dec.Position() - 1,
				Err:    UnknownVariantIndexError{Index: index},
			}
		}
		fields, err := DecodeFields(dec, variant.Fields, registry)
		if err != nil {
			return Value{}, err
		}
		return Value{Value: VariantValue{
			Name:   variant.Name,
			Index:  index,
			Fields: fields,
		}}, nil
	case SequenceDef:
		count, err := dec.ReadCompact()
		if err != nil {
			return Value{}, err
		}
		return decodeElems(dec, def.ElemType, count, registry)
	case ArrayDef:
		return decodeElems(dec, def.ElemType, uint64(def.Len), registry)
	case TupleDef:
		elems := make([]Value, 0, len(def.Types))
		for _, elemType := range def.Types {
			elem, err := DecodeValue(dec, elemType, registry)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, elem)
		}
		return Value{Value: elems}, nil
	case PrimitiveDef:
		return decodePrimitiveValue(dec, def.Kind)
	case CompactDef:
		v, err := dec.ReadCompactBig()
		if err != nil {
			return Value{}, err
		}
		if v.IsUint64() {
			return Value{Value: v.Uint64()}, nil
		}
		return Value{Value: v}, nil
	case BitSequenceDef:
		start := dec.Position()
		if err := skipBitSequence(dec, def, registry); err != nil {
			return Value{}, err
		}
		// Re-read the skipped range to extract the bit count and storage.
		inner := NewDecoder(dec.data[start:dec.Position()])
		bits, err := inner.ReadCompact()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: BitSequenceValue{
			Bits:  bits,
			Bytes: inner.data[inner.Position():],
		}}, nil
	default:
		return Value{}, fmt.Errorf("unhandled type definition %T for type %d", ty.Def, id)
	}
}

// DecodeFields decodes an ordered field list into a Composite. This is the
// decode path for extrinsic call fields, where the field list comes from the
// call variant's metadata.
func DecodeFields(dec *Decoder, fields []Field, registry *Registry) (Composite, error) {
	out := Composite{Fields: make([]CompositeField, 0, len(fields))}
	for _, field := range fields {
		value, err := DecodeValue(dec, field.Type, registry)
		if err != nil {
			return Composite{}, err
		}
		out.Fields = append(out.Fields, CompositeField{
			Name:  field.Name,
			Value: value,
		})
	}
	return out, nil
}

func decodeElems(dec *Decoder, elemType uint32, count uint64, registry *Registry) (Value, error) {
	// Byte sequences decode to []byte rather than a list of individual
	// values.
	if width, ok := fixedPrimitiveWidth(elemType, registry); ok && width == 1 {
		if kind, isByte := primitiveKindOf(elemType, registry); isByte && kind == PrimitiveU8 {
			b, err := dec.ReadBytes(int(count))
			if err != nil {
				return Value{}, err
			}
			return Value{Value: b}, nil
		}
	}
	// The declared count comes from the wire; cap the pre-allocation by the
	// bytes actually present and let append grow the slice if needed.
	elems := make([]Value, 0, min(count, uint64(dec.Remaining())))
	for range count {
		elem, err := DecodeValue(dec, elemType, registry)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
	return Value{Value: elems}, nil
}

func primitiveKindOf(id uint32, registry *Registry) (PrimitiveKind, bool) {
	ty, err := registry.Resolve(id)
	if err != nil {
		return 0, false
	}
	def, ok := ty.Def.(PrimitiveDef)
	if !ok {
		return 0, false
	}
	return def.Kind, true
}

func decodePrimitiveValue(dec *Decoder, kind PrimitiveKind) (Value, error) {
	switch kind {
	case PrimitiveBool:
		v, err := dec.ReadBool()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: v}, nil
	case PrimitiveChar:
		v, err := dec.ReadU32()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: rune(v)}, nil
	case PrimitiveString:
		v, err := dec.ReadString()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: v}, nil
	case PrimitiveU8:
		v, err := dec.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: uint64(v)}, nil
	case PrimitiveU16:
		v, err := dec.ReadU16()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: uint64(v)}, nil
	case PrimitiveU32:
		v, err := dec.ReadU32()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: uint64(v)}, nil
	case PrimitiveU64:
		v, err := dec.ReadU64()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: v}, nil
	case PrimitiveU128:
		v, err := dec.ReadU128()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: v}, nil
	case PrimitiveI8:
		v, err := dec.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: int64(int8(v))}, nil
	case PrimitiveI16:
		v, err := dec.ReadU16()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: int64(int16(v))}, nil
	case PrimitiveI32:
		v, err := dec.ReadU32()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: int64(int32(v))}, nil
	case PrimitiveI64:
		v, err := dec.ReadU64()
		if err != nil {
			return Value{}, err
		}
		return Value{Value: int64(v)}, nil
	case PrimitiveI128:
		b, err := dec.ReadBytes(16)
		if err != nil {
			return Value{}, err
		}
		v := littleEndianBig(b)
		// Two's complement sign correction for the high bit.
		if b[15]&0x80 != 0 {
			v.Sub(v, twoPow128)
		}
		return Value{Value: v}, nil
	case PrimitiveU256:
		b, err := dec.ReadBytes(32)
		if err != nil {
			return Value{}, err
		}
		return Value{Value: littleEndianBig(b)}, nil
	case PrimitiveI256:
		b, err := dec.ReadBytes(32)
		if err != nil {
			return Value{}, err
		}
		v := littleEndianBig(b)
		if b[31]&0x80 != 0 {
			v.Sub(v, twoPow256)
		}
		return Value{Value: v}, nil
	default:
		return Value{}, fmt.Errorf("unhandled primitive kind %d", kind)
	}
}
