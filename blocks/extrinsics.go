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

package blocks

import (
	"iter"

	"github.com/polytope-labs/subxt/metadata"
	"github.com/polytope-labs/subxt/scale"
)

const (
	signatureMask = 0b1000_0000
	versionMask   = 0b0111_1111
)

// ExtrinsicPartTypeIds holds the four type ids that govern the layout of a
// signed extrinsic. They are resolved once per metadata snapshot and are
// trivially copyable.
type ExtrinsicPartTypeIds struct {
	Address   uint32
	Call      uint32
	Signature uint32
	Extra     uint32
}

// NewExtrinsicPartTypeIds extracts the extrinsic part type ids from a
// snapshot's declared extrinsic format.
func NewExtrinsicPartTypeIds(meta *metadata.Metadata) ExtrinsicPartTypeIds {
	extrinsic := meta.Extrinsic()
	return ExtrinsicPartTypeIds{
		Address:   extrinsic.AddressType,
		Call:      extrinsic.CallType,
		Signature: extrinsic.SignatureType,
		Extra:     extrinsic.ExtraType,
	}
}

// StaticExtrinsic is implemented by generated call types: a fixed
// (pallet, call) name pair identifying one call. Field decoding happens by
// reflection into the implementing struct.
type StaticExtrinsic interface {
	ExtrinsicPallet() string
	ExtrinsicCall() string
}

// Extrinsics is the body of a block: the raw bytes of every extrinsic, each
// still carrying its compact length prefix, plus the metadata needed to
// decode them.
type Extrinsics struct {
	extrinsics [][]byte
	meta       *metadata.Metadata
	ids        ExtrinsicPartTypeIds
}

// NewExtrinsics creates a collection over the given raw extrinsics.
func NewExtrinsics(extrinsics [][]byte, meta *metadata.Metadata) *Extrinsics {
	return &Extrinsics{
		extrinsics: extrinsics,
		meta:       meta,
		ids:        NewExtrinsicPartTypeIds(meta),
	}
}

// Len returns the number of extrinsics in the block.
func (e *Extrinsics) Len() int {
	return len(e.extrinsics)
}

// Iter decodes the extrinsics lazily, in block order. The first decode error
// terminates the sequence: that error is yielded once and nothing further is
// produced, even if later extrinsics would decode cleanly. Once one
// extrinsic fails to decode there is no trustworthy position to resume from.
func (e *Extrinsics) Iter() iter.Seq2[*ExtrinsicDetails, error] {
	return func(yield func(*ExtrinsicDetails, error) bool) {
		for i, raw := range e.extrinsics {
			_, stripped, err := scale.StripCompactPrefix(raw)
			if err != nil {
				yield(nil, err)
				return
			}
			details, err := DecodeFrom(uint32(i), stripped, e.meta, e.ids)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(details, nil) {
				return
			}
		}
	}
}

// FoundExtrinsic pairs a statically decoded call value with the details it
// was decoded from.
type FoundExtrinsic[E any] struct {
	Details *ExtrinsicDetails
	Value   *E
}

// staticPtr constrains PE to be a pointer to E that implements
// StaticExtrinsic.
type staticPtr[E any] interface {
	*E
	StaticExtrinsic
}

// Find yields every extrinsic in the block that decodes to E, skipping
// extrinsics for other calls. Decode errors propagate immediately and
// terminate the sequence.
func Find[E any, PE staticPtr[E]](body *Extrinsics) iter.Seq2[*FoundExtrinsic[E], error] {
	return func(yield func(*FoundExtrinsic[E], error) bool) {
		for details, err := range body.Iter() {
			if err != nil {
				yield(nil, err)
				return
			}
			value := PE(new(E))
			matched, err := details.AsExtrinsic(value)
			if err != nil {
				yield(nil, err)
				return
			}
			if !matched {
				continue
			}
			if !yield(&FoundExtrinsic[E]{Details: details, Value: (*E)(value)}, nil) {
				return
			}
		}
	}
}

// FindFirst returns the first extrinsic in the block that decodes to E, or
// nil if there is none.
func FindFirst[E any, PE staticPtr[E]](body *Extrinsics) (*FoundExtrinsic[E], error) {
	for found, err := range Find[E, PE](body) {
		return found, err
	}
	return nil, nil
}

// FindLast returns the last extrinsic in the block that decodes to E, or nil
// if there is none. The whole block is scanned; there is no reverse index.
func FindLast[E any, PE staticPtr[E]](body *Extrinsics) (*FoundExtrinsic[E], error) {
	var last *FoundExtrinsic[E]
	for found, err := range Find[E, PE](body) {
		if err != nil {
			return nil, err
		}
		last = found
	}
	return last, nil
}

// Has reports whether the block contains an extrinsic that decodes to E.
func Has[E any, PE staticPtr[E]](body *Extrinsics) (bool, error) {
	found, err := FindFirst[E, PE](body)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

// signedDetails records the byte offsets of the signed region, discovered by
// structurally skipping the address, signature and extra types.
type signedDetails struct {
	addressStart int
	addressEnd   int // also the signature start
	signatureEnd int // also the extra start
	extraEnd     int
}

// ExtrinsicDetails is one decoded extrinsic: its stripped bytes, the
// discovered structural offsets, and the snapshot needed for name and field
// lookups. It is immutable; every accessor is a pure projection over the
// stored byte ranges.
type ExtrinsicDetails struct {
	index        uint32
	bytes        []byte
	signed       *signedDetails
	callStart    int
	palletIndex  uint8
	variantIndex uint8
	meta         *metadata.Metadata
}

// DecodeFrom decodes a single extrinsic. The input bytes must already have
// their compact length prefix stripped. Layout:
//
//	[control byte: bit7=signed, bits0-6=version]
//	[if signed: address | signature | extra]   (boundaries found by structural skip)
//	[pallet index: 1 byte][call variant index: 1 byte][field bytes...]
//
// No partial value is returned on failure.
func DecodeFrom(
	index uint32,
	extrinsicBytes []byte,
	meta *metadata.Metadata,
	ids ExtrinsicPartTypeIds,
) (*ExtrinsicDetails, error) {
	dec := scale.NewDecoder(extrinsicBytes)
	controlByte, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}
	version := controlByte & versionMask
	if version != SupportedExtrinsicVersion {
		return nil, UnsupportedVersionError{Version: version}
	}
	isSigned := controlByte&signatureMask != 0

	var signed *signedDetails
	if isSigned {
		addressStart := dec.Position()
		if err := scale.Skip(dec, ids.Address, meta.Types()); err != nil {
			return nil, err
		}
		addressEnd := dec.Position()
		if err := scale.Skip(dec, ids.Signature, meta.Types()); err != nil {
			return nil, err
		}
		signatureEnd := dec.Position()
		if err := scale.Skip(dec, ids.Extra, meta.Types()); err != nil {
			return nil, err
		}
		signed = &signedDetails{
			addressStart: addressStart,
			addressEnd:   addressEnd,
			signatureEnd: signatureEnd,
			extraEnd:     dec.Position(),
		}
	}

	callStart := dec.Position()
	palletIndex, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}
	variantIndex, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}

	return &ExtrinsicDetails{
		index:        index,
		bytes:        extrinsicBytes,
		signed:       signed,
		callStart:    callStart,
		palletIndex:  palletIndex,
		variantIndex: variantIndex,
		meta:         meta,
	}, nil
}

// IsSigned reports whether the extrinsic carries a signature.
func (d *ExtrinsicDetails) IsSigned() bool {
	return d.signed != nil
}

// Index returns the extrinsic's position within its block.
func (d *ExtrinsicDetails) Index() uint32 {
	return d.index
}

// Bytes returns the entire extrinsic byte range (without the length prefix):
// the control byte, the signed region if present, and the call bytes.
func (d *ExtrinsicDetails) Bytes() []byte {
	return d.bytes
}

// CallBytes returns the call region: pallet index byte, call variant index
// byte, then the field bytes.
func (d *ExtrinsicDetails) CallBytes() []byte {
	return d.bytes[d.callStart:]
}

// FieldBytes returns the call's field bytes: CallBytes without the two
// leading index bytes.
func (d *ExtrinsicDetails) FieldBytes() []byte {
	// Cannot panic: decoding consumed both index bytes.
	return d.CallBytes()[2:]
}

// AddressBytes returns the sender address bytes, or nil if the extrinsic is
// unsigned.
func (d *ExtrinsicDetails) AddressBytes() []byte {
	if d.signed == nil {
		return nil
	}
	return d.bytes[d.signed.addressStart:d.signed.addressEnd]
}

// SignatureBytes returns the signature bytes, or nil if the extrinsic is
// unsigned.
func (d *ExtrinsicDetails) SignatureBytes() []byte {
	if d.signed == nil {
		return nil
	}
	return d.bytes[d.signed.addressEnd:d.signed.signatureEnd]
}

// SignedExtensionsBytes returns the encoded extra bytes of every signed
// extension, in declared order, or nil if the extrinsic is unsigned. The
// additional bytes that only participate in the signed payload are not part
// of the extrinsic and are not included.
func (d *ExtrinsicDetails) SignedExtensionsBytes() []byte {
	if d.signed == nil {
		return nil
	}
	return d.bytes[d.signed.signatureEnd:d.signed.extraEnd]
}

// PalletIndex returns the decoded pallet index byte.
func (d *ExtrinsicDetails) PalletIndex() uint8 {
	return d.palletIndex
}

// VariantIndex returns the decoded call variant index byte.
func (d *ExtrinsicDetails) VariantIndex() uint8 {
	return d.variantIndex
}

// extrinsicMeta resolves the pallet and call variant for the decoded index
// bytes. A lookup failure signals a mismatch between the extrinsic's runtime
// and the supplied snapshot, not a byte-format problem.
func (d *ExtrinsicDetails) extrinsicMeta() (*metadata.Pallet, *scale.Variant, error) {
	pallet, err := d.meta.PalletByIndex(d.palletIndex)
	if err != nil {
		return nil, nil, err
	}
	variant, err := pallet.CallVariantByIndex(d.variantIndex)
	if err != nil {
		return nil, nil, err
	}
	return pallet, variant, nil
}

// PalletName returns the name of the pallet the extrinsic belongs to.
func (d *ExtrinsicDetails) PalletName() (string, error) {
	pallet, _, err := d.extrinsicMeta()
	if err != nil {
		return "", err
	}
	return pallet.Name, nil
}

// VariantName returns the name of the call, i.e. the name of the variant the
// extrinsic corresponds to.
func (d *ExtrinsicDetails) VariantName() (string, error) {
	_, variant, err := d.extrinsicMeta()
	if err != nil {
		return "", err
	}
	return variant.Name, nil
}

// FieldValues dynamically decodes the extrinsic's field bytes into a
// composite of named or positional values, using the call variant's declared
// field list.
func (d *ExtrinsicDetails) FieldValues() (scale.Composite, error) {
	_, variant, err := d.extrinsicMeta()
	if err != nil {
		return scale.Composite{}, err
	}
	dec := scale.NewDecoder(d.FieldBytes())
	return scale.DecodeFields(dec, variant.Fields, d.meta.Types())
}

// AsExtrinsic decodes the field bytes into target if the extrinsic's
// resolved pallet and call names equal the target's. A name mismatch
// returns (false, nil); it is not an error.
func (d *ExtrinsicDetails) AsExtrinsic(target StaticExtrinsic) (bool, error) {
	pallet, variant, err := d.extrinsicMeta()
	if err != nil {
		return false, err
	}
	if pallet.Name != target.ExtrinsicPallet() || variant.Name != target.ExtrinsicCall() {
		return false, nil
	}
	dec := scale.NewDecoder(d.FieldBytes())
	if err := scale.DecodeFieldsInto(dec, variant.Fields, d.meta.Types(), target); err != nil {
		return false, err
	}
	return true, nil
}

// AsRootExtrinsic decodes the call bytes as the chain-wide outer call enum
// into dest, which receives the pallet-level variant.
func (d *ExtrinsicDetails) AsRootExtrinsic(dest scale.VariantUnmarshaler) error {
	dec := scale.NewDecoder(d.CallBytes())
	return scale.DecodeInto(dec, d.meta.OuterEnums().CallType, d.meta.Types(), dest)
}
