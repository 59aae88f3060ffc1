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

// PrimitiveKind identifies one of the fixed set of primitive types that can
// appear in a type registry. The numeric values are part of the metadata
// hashing scheme and must not be reordered.
type PrimitiveKind uint8

const (
	PrimitiveBool PrimitiveKind = iota
	PrimitiveChar
	PrimitiveString
	PrimitiveU8
	PrimitiveU16
	PrimitiveU32
	PrimitiveU64
	PrimitiveU128
	PrimitiveU256
	PrimitiveI8
	PrimitiveI16
	PrimitiveI32
	PrimitiveI64
	PrimitiveI128
	PrimitiveI256
)

// Field is a single member of a composite or enum variant. Name is empty for
// positional (tuple-style) fields.
type Field struct {
	Name string
	Type uint32
}

// Variant is a single case of an enum type. Index is the discriminant byte
// used on the wire.
type Variant struct {
	Name   string
	Index  uint8
	Fields []Field
}

// TypeDef is the shape of a registered type. Exactly one of the *Def structs
// below implements it.
type TypeDef interface {
	isTypeDef()
}

// CompositeDef is a struct-like type with an ordered field list.
type CompositeDef struct {
	Fields []Field
}

// VariantDef is an enum type with an ordered list of variants.
type VariantDef struct {
	Variants []Variant
}

// SequenceDef is a variable-length list with a compact length prefix.
type SequenceDef struct {
	ElemType uint32
}

// ArrayDef is a fixed-length list with no length prefix.
type ArrayDef struct {
	Len      uint32
	ElemType uint32
}

// TupleDef is an ordered list of element types with no prefix.
type TupleDef struct {
	Types []uint32
}

// PrimitiveDef is a primitive type.
type PrimitiveDef struct {
	Kind PrimitiveKind
}

// CompactDef is a compact (variable-width) encoding of an inner numeric type.
type CompactDef struct {
	InnerType uint32
}

// BitSequenceDef is a bit vector, parameterized by its bit ordering and the
// integer type used for storage.
type BitSequenceDef struct {
	OrderType uint32
	StoreType uint32
}

func (CompositeDef) isTypeDef()   {}
func (VariantDef) isTypeDef()     {}
func (SequenceDef) isTypeDef()    {}
func (ArrayDef) isTypeDef()       {}
func (TupleDef) isTypeDef()       {}
func (PrimitiveDef) isTypeDef()   {}
func (CompactDef) isTypeDef()     {}
func (BitSequenceDef) isTypeDef() {}

// Type is a single entry in a Registry. Path is the declared namespace of the
// type and may be empty.
type Type struct {
	Path []string
	Def  TypeDef
}

// Registry holds every type referenced by a metadata snapshot, indexed by
// type id. Ids are only meaningful within the registry that produced them.
// A Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	types []Type
}

// NewRegistry creates a registry from an ordered list of types. The id of
// each type is its position in the list.
func NewRegistry(types []Type) *Registry {
	return &Registry{types: types}
}

// Resolve returns the type registered under the given id.
func (r *Registry) Resolve(id uint32) (*Type, error) {
	if int(id) >= len(r.types) {
		return nil, UnknownTypeError{ID: id}
	}
	return &r.types[id], nil
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types)
}

// VariantByIndex returns the variant with the given discriminant from an enum
// type, or false if the type has no such variant.
func (v *VariantDef) VariantByIndex(index uint8) (*Variant, bool) {
	for i := range v.Variants {
		if v.Variants[i].Index == index {
			return &v.Variants[i], true
		}
	}
	return nil, false
}

// VariantByName returns the variant with the given name from an enum type, or
// false if the type has no such variant.
func (v *VariantDef) VariantByName(name string) (*Variant, bool) {
	for i := range v.Variants {
		if v.Variants[i].Name == name {
			return &v.Variants[i], true
		}
	}
	return nil, false
}
