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
	"math/big"
	"reflect"
	"strings"
)

// VariantUnmarshaler is implemented by destination types that know how to
// consume an enum value. The decoder resolves the variant from the wire
// discriminant and hands over the cursor, positioned at the variant's first
// field.
type VariantUnmarshaler interface {
	UnmarshalVariant(variant *Variant, dec *Decoder, registry *Registry) error
}

var (
	bigIntType             = reflect.TypeOf(big.Int{})
	variantUnmarshalerType = reflect.TypeOf((*VariantUnmarshaler)(nil)).Elem()
)

// DecodeInto decodes a value of the given type into dest, which must be a
// non-nil pointer. Struct destinations are matched to composite fields by
// name (ignoring case and underscores) when the metadata declares names, and
// positionally otherwise. Enum types require dest to implement
// VariantUnmarshaler.
func DecodeInto(dec *Decoder, id uint32, registry *Registry, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("destination must be a non-nil pointer")
	}
	return decodeReflect(dec, id, registry, rv.Elem())
}

// DecodeFieldsInto decodes an ordered field list into the struct pointed to
// by dest. This is the decode path for statically typed extrinsic calls,
// where the field list comes from the call variant's metadata.
func DecodeFieldsInto(dec *Decoder, fields []Field, registry *Registry, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("destination must be a non-nil pointer")
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("destination must point to a struct, got %s", elem.Kind())
	}
	return decodeFieldsReflect(dec, fields, registry, elem)
}

func decodeReflect(dec *Decoder, id uint32, registry *Registry, rv reflect.Value) error {
	ty, err := registry.Resolve(id)
	if err != nil {
		return err
	}
	switch def := ty.Def.(type) {
	case CompositeDef:
		// Single-field wrappers decode transparently into non-struct
		// destinations.
		if rv.Kind() != reflect.Struct && len(def.Fields) == 1 {
			return decodeReflect(dec, def.Fields[0].Type, registry, rv)
		}
		if rv.Kind() != reflect.Struct {
			return fmt.Errorf("cannot decode composite into %s", rv.Type())
		}
		return decodeFieldsReflect(dec, def.Fields, registry, rv)
	case VariantDef:
		if !rv.Addr().Type().Implements(variantUnmarshalerType) {
			return fmt.Errorf(
				"cannot decode enum into %s: destination must implement VariantUnmarshaler",
				rv.Type(),
			)
		}
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
		um, ok := rv.Addr().Interface().(VariantUnmarshaler)
		if !ok {
			return fmt.Errorf("cannot decode enum into %s", rv.Type())
		}
		return um.UnmarshalVariant(variant, dec, registry)
	case SequenceDef:
		count, err := dec.ReadCompact()
		if err != nil {
			return err
		}
		return decodeElemsReflect(dec, def.ElemType, count, registry, rv, true)
	case ArrayDef:
		return decodeElemsReflect(dec, def.ElemType, uint64(def.Len), registry, rv, false)
	case TupleDef:
		if rv.Kind() != reflect.Struct {
			if len(def.Types) == 1 {
				return decodeReflect(dec, def.Types[0], registry, rv)
			}
			return fmt.Errorf("cannot decode tuple into %s", rv.Type())
		}
		exported := exportedFields(rv)
		if len(exported) != len(def.Types) {
			return fmt.Errorf(
				"tuple has %d elements but %s has %d exported fields",
				len(def.Types), rv.Type(), len(exported),
			)
		}
		for i, elemType := range def.Types {
			if err := decodeReflect(dec, elemType, registry, exported[i]); err != nil {
				return err
			}
		}
		return nil
	case PrimitiveDef:
		return decodePrimitiveReflect(dec, def.Kind, rv)
	case CompactDef:
		v, err := dec.ReadCompactBig()
		if err != nil {
			return err
		}
		return assignUnsigned(v, rv)
	case BitSequenceDef:
		value, err := DecodeValue(dec, id, registry)
		if err != nil {
			return err
		}
		bits, ok := value.Value.(BitSequenceValue)
		if !ok || rv.Type() != reflect.TypeOf(BitSequenceValue{}) {
			return fmt.Errorf("cannot decode bit sequence into %s", rv.Type())
		}
		rv.Set(reflect.ValueOf(bits))
		return nil
	default:
		return fmt.Errorf("unhandled type definition %T for type %d", ty.Def, id)
	}
}

func decodeFieldsReflect(dec *Decoder, fields []Field, registry *Registry, rv reflect.Value) error {
	exported := exportedFields(rv)
	if len(fields) > 0 && fields[0].Name == "" {
		// Positional fields map onto exported struct fields in order.
		if len(exported) != len(fields) {
			return fmt.Errorf(
				"value has %d fields but %s has %d exported fields",
				len(fields), rv.Type(), len(exported),
			)
		}
		for i, field := range fields {
			if err := decodeReflect(dec, field.Type, registry, exported[i]); err != nil {
				return err
			}
		}
		return nil
	}
	// Named fields are matched by name, but always decoded in wire order.
	for _, field := range fields {
		target, ok := structFieldByName(rv, field.Name)
		if !ok {
			return fmt.Errorf("%s has no field matching %q", rv.Type(), field.Name)
		}
		if err := decodeReflect(dec, field.Type, registry, target); err != nil {
			return err
		}
	}
	return nil
}

func exportedFields(rv reflect.Value) []reflect.Value {
	out := []reflect.Value{}
	for i := range rv.NumField() {
		if rv.Type().Field(i).IsExported() {
			out = append(out, rv.Field(i))
		}
	}
	return out
}

func structFieldByName(rv reflect.Value, name string) (reflect.Value, bool) {
	want := normalizeFieldName(name)
	for i := range rv.NumField() {
		sf := rv.Type().Field(i)
		if sf.IsExported() && normalizeFieldName(sf.Name) == want {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// normalizeFieldName compares metadata field names (snake_case) against Go
// struct field names (CamelCase).
func normalizeFieldName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

func decodeElemsReflect(
	dec *Decoder,
	elemType uint32,
	count uint64,
	registry *Registry,
	rv reflect.Value,
	isSequence bool,
) error {
	kind, isPrim := primitiveKindOf(elemType, registry)
	isByteElem := isPrim && kind == PrimitiveU8

	switch rv.Kind() {
	case reflect.Slice:
		if isByteElem && rv.Type().Elem().Kind() == reflect.Uint8 {
			b, err := dec.ReadBytes(int(count))
			if err != nil {
				return err
			}
			out := make([]byte, count)
			copy(out, b)
			rv.SetBytes(out)
			return nil
		}
		// Cap the pre-allocation by the bytes actually present; the declared
		// count comes from the wire and cannot be trusted.
		out := reflect.MakeSlice(rv.Type(), 0, int(min(count, uint64(dec.Remaining()))))
		for range count {
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := decodeReflect(dec, elemType, registry, elem); err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		if uint64(rv.Len()) != count {
			return fmt.Errorf(
				"value has %d elements but %s has %d",
				count, rv.Type(), rv.Len(),
			)
		}
		for i := range int(count) {
			if err := decodeReflect(dec, elemType, registry, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.String:
		if isByteElem && isSequence {
			b, err := dec.ReadBytes(int(count))
			if err != nil {
				return err
			}
			rv.SetString(string(b))
			return nil
		}
	}
	return fmt.Errorf("cannot decode list into %s", rv.Type())
}

func decodePrimitiveReflect(dec *Decoder, kind PrimitiveKind, rv reflect.Value) error {
	switch kind {
	case PrimitiveBool:
		v, err := dec.ReadBool()
		if err != nil {
			return err
		}
		if rv.Kind() != reflect.Bool {
			return fmt.Errorf("cannot decode bool into %s", rv.Type())
		}
		rv.SetBool(v)
		return nil
	case PrimitiveString:
		v, err := dec.ReadString()
		if err != nil {
			return err
		}
		if rv.Kind() != reflect.String {
			return fmt.Errorf("cannot decode string into %s", rv.Type())
		}
		rv.SetString(v)
		return nil
	case PrimitiveChar:
		v, err := dec.ReadU32()
		if err != nil {
			return err
		}
		if rv.Kind() != reflect.Int32 {
			return fmt.Errorf("cannot decode char into %s", rv.Type())
		}
		rv.SetInt(int64(int32(v)))
		return nil
	case PrimitiveU8, PrimitiveU16, PrimitiveU32, PrimitiveU64:
		v, err := readUnsigned(dec, kind)
		if err != nil {
			return err
		}
		return assignUnsigned(new(big.Int).SetUint64(v), rv)
	case PrimitiveI8, PrimitiveI16, PrimitiveI32, PrimitiveI64:
		v, err := readSigned(dec, kind)
		if err != nil {
			return err
		}
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.OverflowInt(v) {
				return fmt.Errorf("value %d overflows %s", v, rv.Type())
			}
			rv.SetInt(v)
			return nil
		}
		return fmt.Errorf("cannot decode signed integer into %s", rv.Type())
	case PrimitiveU128, PrimitiveI128, PrimitiveU256, PrimitiveI256:
		value, err := decodePrimitiveValue(dec, kind)
		if err != nil {
			return err
		}
		v, ok := value.Value.(*big.Int)
		if !ok {
			return fmt.Errorf("unexpected wide integer representation %T", value.Value)
		}
		return assignBig(v, rv)
	default:
		return fmt.Errorf("unhandled primitive kind %d", kind)
	}
}

func readUnsigned(dec *Decoder, kind PrimitiveKind) (uint64, error) {
	switch kind {
	case PrimitiveU8:
		v, err := dec.ReadByte()
		return uint64(v), err
	case PrimitiveU16:
		v, err := dec.ReadU16()
		return uint64(v), err
	case PrimitiveU32:
		v, err := dec.ReadU32()
		return uint64(v), err
	default:
		return dec.ReadU64()
	}
}

func readSigned(dec *Decoder, kind PrimitiveKind) (int64, error) {
	switch kind {
	case PrimitiveI8:
		v, err := dec.ReadByte()
		return int64(int8(v)), err
	case PrimitiveI16:
		v, err := dec.ReadU16()
		return int64(int16(v)), err
	case PrimitiveI32:
		v, err := dec.ReadU32()
		return int64(int32(v)), err
	default:
		v, err := dec.ReadU64()
		return int64(v), err
	}
}

func assignUnsigned(v *big.Int, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !v.IsUint64() || rv.OverflowUint(v.Uint64()) {
			return fmt.Errorf("value %s overflows %s", v, rv.Type())
		}
		rv.SetUint(v.Uint64())
		return nil
	}
	return assignBig(v, rv)
}

func assignBig(v *big.Int, rv reflect.Value) error {
	if rv.Type() == bigIntType {
		rv.Addr().Interface().(*big.Int).Set(v)
		return nil
	}
	if rv.Kind() == reflect.Pointer && rv.Type().Elem() == bigIntType {
		rv.Set(reflect.ValueOf(new(big.Int).Set(v)))
		return nil
	}
	return fmt.Errorf("cannot decode integer %s into %s", v, rv.Type())
}
