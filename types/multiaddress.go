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

package types

import (
	"fmt"

	"github.com/polytope-labs/subxt/scale"
)

// MultiAddress is the common address enum used by chains to identify a
// transaction sender. Exactly one field is populated after decoding,
// according to the variant carried on the wire.
type MultiAddress struct {
	ID        *AccountID32
	Index     *uint64
	Raw       []byte
	Address32 *[32]byte
	Address20 *[20]byte
}

// UnmarshalVariant decodes one MultiAddress variant from the wire.
func (m *MultiAddress) UnmarshalVariant(
	variant *scale.Variant,
	dec *scale.Decoder,
	registry *scale.Registry,
) error {
	*m = MultiAddress{}
	switch variant.Name {
	case "Id":
		var id AccountID32
		if err := decodeSingleField(variant, dec, registry, &id); err != nil {
			return err
		}
		m.ID = &id
	case "Index":
		var index uint64
		if err := decodeSingleField(variant, dec, registry, &index); err != nil {
			return err
		}
		m.Index = &index
	case "Raw":
		var raw []byte
		if err := decodeSingleField(variant, dec, registry, &raw); err != nil {
			return err
		}
		m.Raw = raw
	case "Address32":
		var addr [32]byte
		if err := decodeSingleField(variant, dec, registry, &addr); err != nil {
			return err
		}
		m.Address32 = &addr
	case "Address20":
		var addr [20]byte
		if err := decodeSingleField(variant, dec, registry, &addr); err != nil {
			return err
		}
		m.Address20 = &addr
	default:
		return fmt.Errorf("unknown MultiAddress variant %q", variant.Name)
	}
	return nil
}

func decodeSingleField(
	variant *scale.Variant,
	dec *scale.Decoder,
	registry *scale.Registry,
	dest any,
) error {
	if len(variant.Fields) != 1 {
		return fmt.Errorf(
			"MultiAddress variant %q has %d fields, expected 1",
			variant.Name,
			len(variant.Fields),
		)
	}
	return scale.DecodeInto(dec, variant.Fields[0].Type, registry, dest)
}
