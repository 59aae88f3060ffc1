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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polytope-labs/subxt/internal/test"
)

// Well-known Substrate dev account ("Alice") under the generic prefix 42.
const (
	aliceHex  = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceSS58 = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
)

func TestAccountToSS58(t *testing.T) {
	account := NewAccountID32(test.DecodeHexString(aliceHex))
	assert.Equal(t, aliceSS58, account.ToSS58(42))
}

func TestAccountFromSS58(t *testing.T) {
	account, network, err := FromSS58(aliceSS58)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), network)
	assert.Equal(t, aliceHex, account.String())
}

func TestSS58RoundTrip(t *testing.T) {
	account := NewAccountID32(test.DecodeHexString(aliceHex))
	// Covers both the single-byte prefix form and the two-byte form used for
	// idents 64 and above.
	for _, network := range []uint16{0, 2, 42, 63, 64, 255, 4269, 16383} {
		encoded := account.ToSS58(network)
		decoded, decodedNetwork, err := FromSS58(encoded)
		require.NoError(t, err, "network %d", network)
		assert.Equal(t, account, decoded, "network %d", network)
		assert.Equal(t, network, decodedNetwork, "network %d", network)
	}
}

func TestFromSS58Invalid(t *testing.T) {
	_, _, err := FromSS58("not-base58-0OIl")
	assert.Error(t, err)

	_, _, err = FromSS58("")
	assert.Error(t, err)

	// Flip the last character to corrupt the checksum.
	corrupted := aliceSS58[:len(aliceSS58)-1] + "Z"
	_, _, err = FromSS58(corrupted)
	assert.Error(t, err)
}

func TestAccountJSON(t *testing.T) {
	account := NewAccountID32(test.DecodeHexString(aliceHex))
	out, err := account.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"`+aliceSS58+`"`, string(out))
}
