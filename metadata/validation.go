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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/polytope-labs/subxt/scale"
)

// DigestSize is the number of bytes in every digest produced here.
const DigestSize = 32

// Digest is a deterministic hash of some part of a metadata snapshot, used
// to detect drift between generated code and a live chain. Digests are
// compatibility checks, not cryptographic commitments.
type Digest [DigestSize]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) Bytes() []byte {
	return d[:]
}

// hashBytes is the base hash primitive: twox-256, the concatenation of four
// 64-bit xxhash runs over the input with seeds 0 through 3.
func hashBytes(data []byte) Digest {
	var out Digest
	for seed := uint64(0); seed < 4; seed++ {
		h := xxhash.NewWithSeed(seed)
		h.Write(data)
		binary.LittleEndian.PutUint64(out[seed*8:], h.Sum64())
	}
	return out
}

// combine hashes the concatenation of the given digests into one digest.
// Argument order matters.
func combine(parts ...Digest) Digest {
	buf := make([]byte, 0, len(parts)*DigestSize)
	for _, p := range parts {
		buf = append(buf, p[:]...)
	}
	return hashBytes(buf)
}

// xorDigest folds two digests together commutatively. Only use this where
// the order of the inputs must not affect the result.
func xorDigest(a, b Digest) Digest {
	var out Digest
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func repeatDigest(b byte) Digest {
	var out Digest
	for i := range out {
		out[i] = b
	}
	return out
}

// Tag bytes distinguishing the type shapes being hashed. Part of the digest
// format; must not be renumbered.
const (
	tagComposite byte = iota
	tagVariant
	tagSequence
	tagArray
	tagTuple
	tagPrimitive
	tagCompact
	tagBitSequence
)

// recursiveSentinel is the digest substituted for a cyclic back-reference
// while the referenced type's own digest is still being computed. It is a
// single fixed value shared by all cycles: two structurally different cycles
// that bottom out here are not distinguished. This collision risk is an
// accepted part of the digest format and must not be changed without
// invalidating all existing digests.
var recursiveSentinel = repeatDigest(123)

type cacheEntry struct {
	inProgress bool
	digest     Digest
}

// typeHasher computes digests over one registry with a private cache. The
// cache both memoizes finished digests and, via the in-progress marker,
// guarantees termination on cyclic type graphs. It is scoped to a single
// computation and never shared across goroutines.
type typeHasher struct {
	types *scale.Registry
	cache map[uint32]cacheEntry
}

func newTypeHasher(types *scale.Registry) *typeHasher {
	return &typeHasher{
		types: types,
		cache: make(map[uint32]cacheEntry),
	}
}

// typeDigest computes the digest of the type subgraph reachable from id. The
// result is stable under re-numbering of type ids and under reordering of
// fields and variants.
func (h *typeHasher) typeDigest(id uint32) (Digest, error) {
	if entry, ok := h.cache[id]; ok {
		if entry.inProgress {
			return recursiveSentinel, nil
		}
		return entry.digest, nil
	}
	h.cache[id] = cacheEntry{inProgress: true}
	ty, err := h.types.Resolve(id)
	if err != nil {
		return Digest{}, err
	}
	digest, err := h.typeDefDigest(ty.Def)
	if err != nil {
		return Digest{}, err
	}
	h.cache[id] = cacheEntry{digest: digest}
	return digest, nil
}

func (h *typeHasher) typeDefDigest(def scale.TypeDef) (Digest, error) {
	switch def := def.(type) {
	case scale.CompositeDef:
		fields := Digest{}
		for _, field := range def.Fields {
			// Decoding matches fields by name, not position, so fold the
			// fields commutatively.
			fieldDigest, err := h.fieldDigest(field)
			if err != nil {
				return Digest{}, err
			}
			fields = xorDigest(fields, fieldDigest)
		}
		return combine(repeatDigest(tagComposite), fields), nil
	case scale.VariantDef:
		return h.variantDefDigest(def, nil)
	case scale.SequenceDef:
		elem, err := h.typeDigest(def.ElemType)
		if err != nil {
			return Digest{}, err
		}
		return combine(repeatDigest(tagSequence), elem), nil
	case scale.ArrayDef:
		// The fixed length is part of the identity; different lengths must
		// never collide.
		var tag Digest
		tag[0] = tagArray
		binary.BigEndian.PutUint32(tag[1:5], def.Len)
		elem, err := h.typeDigest(def.ElemType)
		if err != nil {
			return Digest{}, err
		}
		return combine(tag, elem), nil
	case scale.TupleDef:
		// Tuple elements are positional; chain the hashes in declared order.
		digest := hashBytes([]byte{tagTuple})
		for _, elemType := range def.Types {
			elem, err := h.typeDigest(elemType)
			if err != nil {
				return Digest{}, err
			}
			digest = combine(digest, elem)
		}
		return digest, nil
	case scale.PrimitiveDef:
		return hashBytes([]byte{tagPrimitive, byte(def.Kind)}), nil
	case scale.CompactDef:
		inner, err := h.typeDigest(def.InnerType)
		if err != nil {
			return Digest{}, err
		}
		return combine(repeatDigest(tagCompact), inner), nil
	case scale.BitSequenceDef:
		order, err := h.typeDigest(def.OrderType)
		if err != nil {
			return Digest{}, err
		}
		store, err := h.typeDigest(def.StoreType)
		if err != nil {
			return Digest{}, err
		}
		return combine(repeatDigest(tagBitSequence), order, store), nil
	default:
		return Digest{}, fmt.Errorf("unhandled type definition %T", def)
	}
}

func (h *typeHasher) fieldDigest(field scale.Field) (Digest, error) {
	name := Digest{}
	if field.Name != "" {
		name = hashBytes([]byte(field.Name))
	}
	ty, err := h.typeDigest(field.Type)
	if err != nil {
		return Digest{}, err
	}
	return combine(name, ty), nil
}

func (h *typeHasher) variantDigest(variant *scale.Variant) (Digest, error) {
	// The wire index is deliberately excluded: decoding is by name.
	fields := Digest{}
	for _, field := range variant.Fields {
		fieldDigest, err := h.fieldDigest(field)
		if err != nil {
			return Digest{}, err
		}
		fields = xorDigest(fields, fieldDigest)
	}
	return combine(hashBytes([]byte(variant.Name)), fields), nil
}

// variantDefDigest hashes an enum definition. When onlyVariants is non-nil,
// variants whose names are not listed are excluded from the fold entirely.
func (h *typeHasher) variantDefDigest(def scale.VariantDef, onlyVariants []string) (Digest, error) {
	variants := Digest{}
	for i := range def.Variants {
		if onlyVariants != nil && !slices.Contains(onlyVariants, def.Variants[i].Name) {
			continue
		}
		variantDigest, err := h.variantDigest(&def.Variants[i])
		if err != nil {
			return Digest{}, err
		}
		variants = xorDigest(variants, variantDigest)
	}
	return combine(repeatDigest(tagVariant), variants), nil
}

func (h *typeHasher) storageEntryDigest(entry *StorageEntry) (Digest, error) {
	digest := combine(
		hashBytes([]byte(entry.Name)),
		repeatDigest(byte(entry.Modifier)),
		hashBytes(entry.Default),
	)
	switch {
	case entry.Plain != nil:
		value, err := h.typeDigest(*entry.Plain)
		if err != nil {
			return Digest{}, err
		}
		return combine(digest, value), nil
	case entry.Map != nil:
		for _, hasher := range entry.Map.Hashers {
			digest = combine(digest, repeatDigest(byte(hasher)))
		}
		key, err := h.typeDigest(entry.Map.KeyType)
		if err != nil {
			return Digest{}, err
		}
		value, err := h.typeDigest(entry.Map.ValueType)
		if err != nil {
			return Digest{}, err
		}
		return combine(digest, key, value), nil
	default:
		return Digest{}, fmt.Errorf("storage entry %q has no type", entry.Name)
	}
}

func (h *typeHasher) runtimeMethodDigest(traitName string, method *RuntimeAPIMethod) (Digest, error) {
	// The trait name is folded into every method: a method is only
	// meaningful within its trait.
	digest := combine(
		hashBytes([]byte(traitName)),
		hashBytes([]byte(method.Name)),
	)
	// Inputs are positional parameters, so order is significant here.
	for _, input := range method.Inputs {
		ty, err := h.typeDigest(input.Type)
		if err != nil {
			return Digest{}, err
		}
		digest = combine(digest, hashBytes([]byte(input.Name)), ty)
	}
	output, err := h.typeDigest(method.OutputType)
	if err != nil {
		return Digest{}, err
	}
	return combine(digest, output), nil
}

// TypeDigest computes the digest of the type subgraph reachable from the
// given id, with a cache private to this call. Cyclic type graphs are
// handled and always terminate.
func TypeDigest(types *scale.Registry, id uint32) (Digest, error) {
	return newTypeHasher(types).typeDigest(id)
}

// Digest computes the digest of an entire pallet: its call, event and error
// types, constants and storage.
func (p *Pallet) Digest() (Digest, error) {
	h := newTypeHasher(p.types)

	optional := func(id *uint32) (Digest, error) {
		if id == nil {
			return Digest{}, nil
		}
		return h.typeDigest(*id)
	}
	call, err := optional(p.CallType)
	if err != nil {
		return Digest{}, err
	}
	event, err := optional(p.EventType)
	if err != nil {
		return Digest{}, err
	}
	errTy, err := optional(p.ErrorType)
	if err != nil {
		return Digest{}, err
	}
	// Constants are an unordered set of (name, type) pairs.
	constants := Digest{}
	for i := range p.Constants {
		ty, err := h.typeDigest(p.Constants[i].Type)
		if err != nil {
			return Digest{}, err
		}
		constants = xorDigest(constants, combine(
			hashBytes([]byte(p.Constants[i].Name)),
			ty,
		))
	}
	storage := Digest{}
	if p.Storage != nil {
		entries := Digest{}
		for i := range p.Storage.Entries {
			entryDigest, err := h.storageEntryDigest(&p.Storage.Entries[i])
			if err != nil {
				return Digest{}, err
			}
			entries = xorDigest(entries, entryDigest)
		}
		storage = combine(hashBytes([]byte(p.Storage.Prefix)), entries)
	}
	return combine(call, event, errTy, constants, storage), nil
}

// StorageEntryDigest computes the digest of a single storage entry.
func (p *Pallet) StorageEntryDigest(name string) (Digest, error) {
	entry, ok := p.StorageEntryByName(name)
	if !ok {
		return Digest{}, StorageEntryNotFoundError{Pallet: p.Name, Entry: name}
	}
	return newTypeHasher(p.types).storageEntryDigest(entry)
}

// ConstantDigest computes the digest of a single constant. Only the
// constant's type contributes: its value is a runtime concern, not a
// structural one.
func (p *Pallet) ConstantDigest(name string) (Digest, error) {
	constant, ok := p.ConstantByName(name)
	if !ok {
		return Digest{}, ConstantNotFoundError{Pallet: p.Name, Constant: name}
	}
	return TypeDigest(p.types, constant.Type)
}

// CallDigest computes the digest of a single call variant, looked up by
// name.
func (p *Pallet) CallDigest(name string) (Digest, error) {
	variant, err := p.CallVariantByName(name)
	if err != nil {
		return Digest{}, err
	}
	return newTypeHasher(p.types).variantDigest(variant)
}

// Digest computes the digest of a runtime API trait, including all of its
// methods. Method order is irrelevant.
func (a *RuntimeAPI) Digest() (Digest, error) {
	h := newTypeHasher(a.types)
	methods := Digest{}
	for i := range a.Methods {
		methodDigest, err := h.runtimeMethodDigest(a.Name, &a.Methods[i])
		if err != nil {
			return Digest{}, err
		}
		methods = xorDigest(methods, methodDigest)
	}
	return combine(hashBytes([]byte(a.Name)), methods), nil
}

// MethodDigest computes the digest of a single runtime API method.
func (a *RuntimeAPI) MethodDigest(name string) (Digest, error) {
	method, ok := a.MethodByName(name)
	if !ok {
		return Digest{}, RuntimeAPIMethodNotFoundError{Trait: a.Name, Method: name}
	}
	return newTypeHasher(a.types).runtimeMethodDigest(a.Name, method)
}

// extrinsicDigest hashes the declared extrinsic format: the three part
// types, the version byte, and every signed extension in declared order.
func extrinsicDigest(types *scale.Registry, extrinsic *Extrinsic) (Digest, error) {
	h := newTypeHasher(types)
	// The call type is deliberately omitted here; it is covered by the
	// outer call enum instead.
	address, err := h.typeDigest(extrinsic.AddressType)
	if err != nil {
		return Digest{}, err
	}
	signature, err := h.typeDigest(extrinsic.SignatureType)
	if err != nil {
		return Digest{}, err
	}
	extra, err := h.typeDigest(extrinsic.ExtraType)
	if err != nil {
		return Digest{}, err
	}
	digest := combine(address, signature, extra, repeatDigest(extrinsic.Version))
	for _, ext := range extrinsic.SignedExtensions {
		extraTy, err := h.typeDigest(ext.ExtraType)
		if err != nil {
			return Digest{}, err
		}
		additionalTy, err := h.typeDigest(ext.AdditionalType)
		if err != nil {
			return Digest{}, err
		}
		digest = combine(digest, hashBytes([]byte(ext.Identifier)), extraTy, additionalTy)
	}
	return digest, nil
}

// outerEnumsDigest hashes the chain-wide call, event and error enums. When a
// pallet filter is set, only the variants named in it contribute to each
// enum.
func outerEnumsDigest(types *scale.Registry, enums OuterEnums, onlyVariants []string) (Digest, error) {
	enumDigest := func(id uint32) (Digest, error) {
		ty, err := types.Resolve(id)
		if err != nil {
			return Digest{}, err
		}
		if def, ok := ty.Def.(scale.VariantDef); ok {
			return newTypeHasher(types).variantDefDigest(def, onlyVariants)
		}
		return TypeDigest(types, id)
	}
	call, err := enumDigest(enums.CallType)
	if err != nil {
		return Digest{}, err
	}
	event, err := enumDigest(enums.EventType)
	if err != nil {
		return Digest{}, err
	}
	errEnum, err := enumDigest(enums.ErrorType)
	if err != nil {
		return Digest{}, err
	}
	return combine(call, event, errEnum), nil
}

// MetadataHasher computes a digest of a whole metadata snapshot, or of a
// named subset of its pallets and runtime APIs. Obtain one via
// Metadata.Hasher.
type MetadataHasher struct {
	meta        *Metadata
	onlyPallets []string
	onlyAPIs    []string
}

// Hasher returns a MetadataHasher over this snapshot, covering everything by
// default.
func (m *Metadata) Hasher() *MetadataHasher {
	return &MetadataHasher{meta: m}
}

// OnlyPallets restricts the digest to the named pallets. Names absent from
// the snapshot are silently ignored. The filter also restricts the outer
// enums to the matching variants.
func (h *MetadataHasher) OnlyPallets(names ...string) *MetadataHasher {
	h.onlyPallets = names
	return h
}

// OnlyRuntimeAPIs restricts the digest to the named runtime API traits.
// Names absent from the snapshot are silently ignored.
func (h *MetadataHasher) OnlyRuntimeAPIs(names ...string) *MetadataHasher {
	h.onlyAPIs = names
	return h
}

// Hash computes the digest.
func (h *MetadataHasher) Hash() (Digest, error) {
	meta := h.meta

	// Pallet order must not affect the result.
	pallets := Digest{}
	for i := range meta.pallets {
		if h.onlyPallets != nil && !slices.Contains(h.onlyPallets, meta.pallets[i].Name) {
			continue
		}
		palletDigest, err := meta.pallets[i].Digest()
		if err != nil {
			return Digest{}, err
		}
		pallets = xorDigest(pallets, palletDigest)
	}

	// Likewise for runtime API traits.
	apis := Digest{}
	for i := range meta.apis {
		if h.onlyAPIs != nil && !slices.Contains(h.onlyAPIs, meta.apis[i].Name) {
			continue
		}
		apiDigest, err := meta.apis[i].Digest()
		if err != nil {
			return Digest{}, err
		}
		apis = xorDigest(apis, apiDigest)
	}

	extrinsic, err := extrinsicDigest(meta.types, &meta.extrinsic)
	if err != nil {
		return Digest{}, err
	}
	runtime, err := TypeDigest(meta.types, meta.runtimeType)
	if err != nil {
		return Digest{}, err
	}
	outerEnums, err := outerEnumsDigest(meta.types, meta.outerEnums, h.onlyPallets)
	if err != nil {
		return Digest{}, err
	}

	return combine(pallets, apis, extrinsic, runtime, outerEnums), nil
}
