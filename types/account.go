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
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// AccountID32Size is the byte length of an AccountID32.
const AccountID32Size = 32

// ss58Prefix is the domain separator mixed into every SS58 checksum.
var ss58Prefix = []byte("SS58PRE")

// AccountID32 is the canonical 32-byte account identifier.
type AccountID32 [AccountID32Size]byte

// NewAccountID32 creates an account id from the given bytes, truncating or
// zero-padding to 32 bytes.
func NewAccountID32(data []byte) AccountID32 {
	a := AccountID32{}
	copy(a[:], data)
	return a
}

func (a AccountID32) String() string {
	return hex.EncodeToString(a[:])
}

func (a AccountID32) Bytes() []byte {
	return a[:]
}

func (a AccountID32) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToSS58(42))
}

// ToSS58 encodes the account id in SS58 format under the given network
// prefix: base58 over prefix bytes, the account bytes, and a two-byte
// blake2b-512 checksum.
func (a AccountID32) ToSS58(network uint16) string {
	payload := make([]byte, 0, 2+AccountID32Size+2)
	switch {
	case network < 64:
		payload = append(payload, byte(network))
	default:
		// Two-byte form for idents 64..16383.
		first := byte((network&0b0000_0000_1111_1100)>>2) | 0b0100_0000
		second := byte(network>>8) | byte(network&0b11)<<6
		payload = append(payload, first, second)
	}
	payload = append(payload, a[:]...)
	checksum := ss58Checksum(payload)
	payload = append(payload, checksum[:2]...)
	return base58.Encode(payload)
}

// FromSS58 decodes an SS58-encoded account id, returning the account bytes
// and the network prefix.
func FromSS58(encoded string) (AccountID32, uint16, error) {
	payload, err := base58.Decode(encoded)
	if err != nil {
		return AccountID32{}, 0, fmt.Errorf("invalid base58: %w", err)
	}
	var network uint16
	var prefixLen int
	switch {
	case len(payload) < 1:
		return AccountID32{}, 0, errors.New("ss58 string too short")
	case payload[0] < 64:
		network = uint16(payload[0])
		prefixLen = 1
	case payload[0] < 128:
		if len(payload) < 2 {
			return AccountID32{}, 0, errors.New("ss58 string too short")
		}
		lower := payload[0]<<2 | payload[1]>>6
		upper := payload[1] & 0b0011_1111
		network = uint16(lower) | uint16(upper)<<8
		prefixLen = 2
	default:
		return AccountID32{}, 0, errors.New("invalid ss58 network prefix")
	}
	if len(payload) != prefixLen+AccountID32Size+2 {
		return AccountID32{}, 0, errors.New("invalid ss58 payload length")
	}
	body := payload[:len(payload)-2]
	checksum := ss58Checksum(body)
	if !bytes.Equal(checksum[:2], payload[len(payload)-2:]) {
		return AccountID32{}, 0, errors.New("ss58 checksum mismatch")
	}
	return NewAccountID32(payload[prefixLen : prefixLen+AccountID32Size]), network, nil
}

func ss58Checksum(payload []byte) [64]byte {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(fmt.Sprintf("unexpected error creating blake2b hash: %s", err))
	}
	h.Write(ss58Prefix)
	h.Write(payload)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}
