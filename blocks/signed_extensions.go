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
	"fmt"
	"iter"
	"math/big"

	"github.com/polytope-labs/subxt/metadata"
	"github.com/polytope-labs/subxt/scale"
)

// SignedExtensions is a view over the extra byte range of a signed
// extrinsic, splitting it into the per-extension segments declared by the
// metadata.
type SignedExtensions struct {
	bytes []byte
	meta  *metadata.Metadata
}

// SignedExtensions returns a view over the extrinsic's signed extension
// bytes, or false if the extrinsic is unsigned.
func (d *ExtrinsicDetails) SignedExtensions() (*SignedExtensions, bool) {
	if d.signed == nil {
		return nil, false
	}
	return &SignedExtensions{
		bytes: d.SignedExtensionsBytes(),
		meta:  d.meta,
	}, true
}

// SignedExtension is one decoded signed extension segment: its declared
// identifier, the bytes of its extra value, and the extra value's type id.
type SignedExtension struct {
	Name   string
	Bytes  []byte
	TypeID uint32

	types *scale.Registry
}

// Value dynamically decodes the extension's extra bytes.
func (s *SignedExtension) Value() (scale.Value, error) {
	dec := scale.NewDecoder(s.Bytes)
	return scale.DecodeValue(dec, s.TypeID, s.types)
}

// Iter yields each signed extension in declared order, discovering segment
// boundaries by structurally skipping each extension's extra type. The first
// error terminates the sequence.
func (s *SignedExtensions) Iter() iter.Seq2[*SignedExtension, error] {
	return func(yield func(*SignedExtension, error) bool) {
		dec := scale.NewDecoder(s.bytes)
		for _, ext := range s.meta.Extrinsic().SignedExtensions {
			start := dec.Position()
			if err := scale.Skip(dec, ext.ExtraType, s.meta.Types()); err != nil {
				yield(nil, err)
				return
			}
			segment := &SignedExtension{
				Name:   ext.Identifier,
				Bytes:  s.bytes[start:dec.Position()],
				TypeID: ext.ExtraType,
				types:  s.meta.Types(),
			}
			if !yield(segment, nil) {
				return
			}
		}
	}
}

// FindByName returns the named signed extension segment.
func (s *SignedExtensions) FindByName(name string) (*SignedExtension, error) {
	for ext, err := range s.Iter() {
		if err != nil {
			return nil, err
		}
		if ext.Name == name {
			return ext, nil
		}
	}
	return nil, SignedExtensionNotFoundError{Name: name}
}

// Nonce returns the transaction nonce carried by the CheckNonce extension.
func (s *SignedExtensions) Nonce() (uint64, error) {
	ext, err := s.FindByName("CheckNonce")
	if err != nil {
		return 0, err
	}
	value, err := ext.Value()
	if err != nil {
		return 0, err
	}
	return unsignedScalar(value)
}

// Tip returns the tip carried by the ChargeTransactionPayment extension.
func (s *SignedExtensions) Tip() (*big.Int, error) {
	ext, err := s.FindByName("ChargeTransactionPayment")
	if err != nil {
		return nil, err
	}
	value, err := ext.Value()
	if err != nil {
		return nil, err
	}
	tip := unwrapScalar(value)
	if tip == nil {
		return nil, fmt.Errorf("unexpected tip value of type %T", value.Value)
	}
	return tip, nil
}

// unwrapScalar extracts a numeric value, looking through single-field
// composite wrappers, as a big integer. Returns nil for non-numeric values.
func unwrapScalar(value scale.Value) *big.Int {
	switch v := value.Value.(type) {
	case uint64:
		return new(big.Int).SetUint64(v)
	case *big.Int:
		return v
	case scale.Composite:
		if len(v.Fields) == 1 {
			return unwrapScalar(v.Fields[0].Value)
		}
	}
	return nil
}

func unsignedScalar(value scale.Value) (uint64, error) {
	v := unwrapScalar(value)
	if v == nil {
		return 0, fmt.Errorf("unexpected value of type %T", value.Value)
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("value %s exceeds 64 bits", v)
	}
	return v.Uint64(), nil
}
