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

package metadata

import (
	"github.com/polytope-labs/subxt/scale"
)

// StorageModifier describes whether a storage entry yields an optional value
// or falls back to a default when unset.
type StorageModifier uint8

const (
	StorageModifierOptional StorageModifier = iota
	StorageModifierDefault
)

// StorageHasher is the hashing algorithm applied to a storage map key. The
// numeric values are part of the metadata hashing scheme and must not be
// reordered.
type StorageHasher uint8

const (
	StorageHasherBlake2b128 StorageHasher = iota
	StorageHasherBlake2b256
	StorageHasherBlake2b128Concat
	StorageHasherTwox128
	StorageHasherTwox256
	StorageHasherTwox64Concat
	StorageHasherIdentity
)

// StorageMap describes a map-style storage entry: one hasher per key
// component, in declared order.
type StorageMap struct {
	Hashers   []StorageHasher
	KeyType   uint32
	ValueType uint32
}

// StorageEntry describes a single storage item within a pallet. Exactly one
// of Plain or Map is set.
type StorageEntry struct {
	Name     string
	Modifier StorageModifier
	Default  []byte
	Plain    *uint32
	Map      *StorageMap
}

// Storage describes a pallet's storage: a common key prefix plus its entries.
type Storage struct {
	Prefix  string
	Entries []StorageEntry
}

// Constant is a named constant declared by a pallet. Value holds the encoded
// constant bytes.
type Constant struct {
	Name  string
	Type  uint32
	Value []byte
}

// Pallet is a single runtime module: its calls, events, errors, storage and
// constants. The optional type ids are nil when the pallet declares no such
// item.
type Pallet struct {
	Name      string
	Index     uint8
	CallType  *uint32
	EventType *uint32
	ErrorType *uint32
	Storage   *Storage
	Constants []Constant

	types *scale.Registry
}

// SignedExtension is one extra per-transaction field declared by the chain's
// extrinsic format. ExtraType describes the bytes included in the extrinsic;
// AdditionalType describes bytes that are only part of the signed payload.
type SignedExtension struct {
	Identifier     string
	ExtraType      uint32
	AdditionalType uint32
}

// Extrinsic is the chain's declared extrinsic format: the version byte, the
// four part type ids and the ordered signed extensions.
type Extrinsic struct {
	Version          uint8
	AddressType      uint32
	CallType         uint32
	SignatureType    uint32
	ExtraType        uint32
	SignedExtensions []SignedExtension
}

// OuterEnums holds the type ids of the chain-wide enums aggregating every
// pallet's calls, events and errors.
type OuterEnums struct {
	CallType  uint32
	EventType uint32
	ErrorType uint32
}

// RuntimeAPIParam is a single positional input of a runtime API method.
type RuntimeAPIParam struct {
	Name string
	Type uint32
}

// RuntimeAPIMethod is a single method of a runtime API trait.
type RuntimeAPIMethod struct {
	Name       string
	Inputs     []RuntimeAPIParam
	OutputType uint32
}

// RuntimeAPI is a runtime API trait and its methods.
type RuntimeAPI struct {
	Name    string
	Methods []RuntimeAPIMethod

	types *scale.Registry
}

// Metadata is an immutable snapshot of a chain's self-describing type
// registry: its pallets, extrinsic format, outer enums and runtime APIs.
// Type ids are only meaningful within one snapshot and must never be
// compared across snapshots. A Metadata is safe for concurrent use.
type Metadata struct {
	types         *scale.Registry
	pallets       []Pallet
	palletsByName map[string]int
	palletsByIdx  map[uint8]int
	extrinsic     Extrinsic
	runtimeType   uint32
	outerEnums    OuterEnums
	apis          []RuntimeAPI
	apisByName    map[string]int
}

// NewMetadata assembles a snapshot from its parts. The pallet and runtime
// API slices are retained; callers must not modify them afterwards.
func NewMetadata(
	types *scale.Registry,
	pallets []Pallet,
	extrinsic Extrinsic,
	runtimeType uint32,
	outerEnums OuterEnums,
	apis []RuntimeAPI,
) *Metadata {
	m := &Metadata{
		types:         types,
		pallets:       pallets,
		palletsByName: make(map[string]int, len(pallets)),
		palletsByIdx:  make(map[uint8]int, len(pallets)),
		extrinsic:     extrinsic,
		runtimeType:   runtimeType,
		outerEnums:    outerEnums,
		apis:          apis,
		apisByName:    make(map[string]int, len(apis)),
	}
	for i := range m.pallets {
		m.pallets[i].types = types
		m.palletsByName[m.pallets[i].Name] = i
		m.palletsByIdx[m.pallets[i].Index] = i
	}
	for i := range m.apis {
		m.apis[i].types = types
		m.apisByName[m.apis[i].Name] = i
	}
	return m
}

// Types returns the snapshot's type registry.
func (m *Metadata) Types() *scale.Registry {
	return m.types
}

// Pallets returns the snapshot's pallets in declared order. The returned
// slice is shared and must not be modified.
func (m *Metadata) Pallets() []Pallet {
	return m.pallets
}

// PalletByIndex returns the pallet with the given runtime index.
func (m *Metadata) PalletByIndex(index uint8) (*Pallet, error) {
	i, ok := m.palletsByIdx[index]
	if !ok {
		return nil, PalletIndexNotFoundError{Index: index}
	}
	return &m.pallets[i], nil
}

// PalletByName returns the named pallet, or false if the snapshot has no
// pallet with that name.
func (m *Metadata) PalletByName(name string) (*Pallet, bool) {
	i, ok := m.palletsByName[name]
	if !ok {
		return nil, false
	}
	return &m.pallets[i], true
}

// Extrinsic returns the chain's declared extrinsic format.
func (m *Metadata) Extrinsic() *Extrinsic {
	return &m.extrinsic
}

// RuntimeType returns the type id of the root runtime type.
func (m *Metadata) RuntimeType() uint32 {
	return m.runtimeType
}

// OuterEnums returns the type ids of the chain-wide call, event and error
// enums.
func (m *Metadata) OuterEnums() OuterEnums {
	return m.outerEnums
}

// RuntimeAPIs returns the snapshot's runtime API traits in declared order.
// The returned slice is shared and must not be modified.
func (m *Metadata) RuntimeAPIs() []RuntimeAPI {
	return m.apis
}

// RuntimeAPIByName returns the named runtime API trait, or false if the
// snapshot has no trait with that name.
func (m *Metadata) RuntimeAPIByName(name string) (*RuntimeAPI, bool) {
	i, ok := m.apisByName[name]
	if !ok {
		return nil, false
	}
	return &m.apis[i], true
}

// callVariants resolves the pallet's call type into its enum definition.
func (p *Pallet) callVariants() (*scale.VariantDef, error) {
	if p.CallType == nil {
		return nil, CallNotFoundError{Pallet: p.Name}
	}
	ty, err := p.types.Resolve(*p.CallType)
	if err != nil {
		return nil, err
	}
	def, ok := ty.Def.(scale.VariantDef)
	if !ok {
		return nil, CallNotFoundError{Pallet: p.Name}
	}
	return &def, nil
}

// CallVariantByIndex returns the call variant with the given wire index.
func (p *Pallet) CallVariantByIndex(index uint8) (*scale.Variant, error) {
	def, err := p.callVariants()
	if err != nil {
		return nil, err
	}
	variant, ok := def.VariantByIndex(index)
	if !ok {
		return nil, VariantIndexNotFoundError{Index: index}
	}
	return variant, nil
}

// CallVariantByName returns the named call variant.
func (p *Pallet) CallVariantByName(name string) (*scale.Variant, error) {
	def, err := p.callVariants()
	if err != nil {
		return nil, err
	}
	variant, ok := def.VariantByName(name)
	if !ok {
		return nil, CallNotFoundError{Pallet: p.Name, Call: name}
	}
	return variant, nil
}

// ConstantByName returns the named constant, or false if the pallet declares
// no such constant.
func (p *Pallet) ConstantByName(name string) (*Constant, bool) {
	for i := range p.Constants {
		if p.Constants[i].Name == name {
			return &p.Constants[i], true
		}
	}
	return nil, false
}

// StorageEntryByName returns the named storage entry, or false if the pallet
// declares no such entry.
func (p *Pallet) StorageEntryByName(name string) (*StorageEntry, bool) {
	if p.Storage == nil {
		return nil, false
	}
	for i := range p.Storage.Entries {
		if p.Storage.Entries[i].Name == name {
			return &p.Storage.Entries[i], true
		}
	}
	return nil, false
}

// MethodByName returns the named method of a runtime API trait, or false if
// the trait declares no such method.
func (a *RuntimeAPI) MethodByName(name string) (*RuntimeAPIMethod, bool) {
	for i := range a.Methods {
		if a.Methods[i].Name == name {
			return &a.Methods[i], true
		}
	}
	return nil, false
}
