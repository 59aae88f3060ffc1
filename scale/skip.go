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
	"fmt"
)

// Skip advances the decoder past exactly the bytes occupied by a value of the
// given type, without materializing the value. This is how extrinsic
// decoding discovers the boundaries of the address, signature and extra
// regions when it has no static knowledge of their shapes.
func Skip(dec *Decoder, id uint32, registry *Registry) error {
	ty, err := registry.Resolve(id)
	if err != nil {
		return err
	}
	switch def := ty.Def.(type) {
	case CompositeDef:
		for _, field := range def.Fields {
			if err := Skip(dec, field.Type, registry); err != nil {
				return err
			}
		}
		return nil
	case VariantDef:
		index, err := dec.ReadByte()
		if err != nil {
			return err
		}
		variant, ok := def.VariantByIndex(index)
		if !ok {
			return DecodeError{
				Offset: dec.Position() - 1,
				Err:    UnknownVariantIndexError{Index: index},
			}
		}
		for _, field := range variant.Fields {
			if err := Skip(dec, field.Type, registry); err != nil {
				return err
			}
		}
		return nil
	case SequenceDef:
		count, err := dec.ReadCompact()
		if err != nil {
			return err
		}
		return skipElems(dec, def.ElemType, count, registry)
	case ArrayDef:
		return skipElems(dec, def.ElemType, uint64(def.Len), registry)
	case TupleDef:
		for _, elem := range def.Types {
			if err := Skip(dec, elem, registry); err != nil {
				return err
			}
		}
		return nil
	case PrimitiveDef:
		return skipPrimitive(dec, def.Kind)
	case CompactDef:
		_, err := dec.ReadCompactBig()
		return err
	case BitSequenceDef:
		return skipBitSequence(dec, def, registry)
	default:
		return fmt.Errorf("unhandled type definition %T for type %d", ty.Def, id)
	}
}

func skipElems(dec *Decoder, elemType uint32, count uint64, registry *Registry) error {
	// Byte elements are by far the most common case (addresses, signatures,
	// hashes), so avoid walking them one at a time. Divide rather than
	// multiply: count comes from the wire and can overflow a product.
	if width, ok := fixedPrimitiveWidth(elemType, registry); ok {
		if count > uint64(dec.Remaining())/uint64(width) {
			return dec.fail(ErrInsufficientBytes)
		}
		return dec.Skip(int(count) * width)
	}
	for range count {
		if err := Skip(dec, elemType, registry); err != nil {
			return err
		}
	}
	return nil
}

func fixedPrimitiveWidth(id uint32, registry *Registry) (int, bool) {
	ty, err := registry.Resolve(id)
	if err != nil {
		return 0, false
	}
	def, ok := ty.Def.(PrimitiveDef)
	if !ok {
		return 0, false
	}
	width, err := primitiveWidth(def.Kind)
	if err != nil {
		return 0, false
	}
	return width, true
}

func skipPrimitive(dec *Decoder, kind PrimitiveKind) error {
	if kind == PrimitiveString {
		n, err := dec.ReadCompact()
		if err != nil {
			return err
		}
		// Check against the remaining input while still in uint64: the
		// declared length comes from the wire and can exceed MaxInt64.
		if n > uint64(dec.Remaining()) {
			return dec.fail(ErrInsufficientBytes)
		}
		return dec.Skip(int(n))
	}
	width, err := primitiveWidth(kind)
	if err != nil {
		return dec.fail(err)
	}
	return dec.Skip(width)
}

// primitiveWidth returns the fixed encoded width of a primitive kind. String
// is variable-width and is rejected here.
func primitiveWidth(kind PrimitiveKind) (int, error) {
	switch kind {
	case PrimitiveBool, PrimitiveU8, PrimitiveI8:
		return 1, nil
	case PrimitiveU16, PrimitiveI16:
		return 2, nil
	case PrimitiveChar, PrimitiveU32, PrimitiveI32:
		return 4, nil
	case PrimitiveU64, PrimitiveI64:
		return 8, nil
	case PrimitiveU128, PrimitiveI128:
		return 16, nil
	case PrimitiveU256, PrimitiveI256:
		return 32, nil
	default:
		return 0, fmt.Errorf("primitive kind %d has no fixed width", kind)
	}
}

func skipBitSequence(dec *Decoder, def BitSequenceDef, registry *Registry) error {
	bits, err := dec.ReadCompact()
	if err != nil {
		return err
	}
	storeType, err := registry.Resolve(def.StoreType)
	if err != nil {
		return err
	}
	prim, ok := storeType.Def.(PrimitiveDef)
	if !ok {
		return errors.New("bit sequence store type must be a primitive")
	}
	width, err := primitiveWidth(prim.Kind)
	if err != nil {
		return err
	}
	// Storage is a slice of fixed-width words, each holding width*8 bits.
	// Bound the declared bit count by the remaining input before rounding
	// up, which would overflow for counts near MaxUint64.
	wordBits := uint64(width) * 8
	if bits > uint64(dec.Remaining())*wordBits {
		return dec.fail(ErrInsufficientBytes)
	}
	words := (bits + wordBits - 1) / wordBits
	return dec.Skip(int(words) * width)
}
