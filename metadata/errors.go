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
	"fmt"
)

// PalletNotFoundError indicates that no pallet with the given name exists in
// the snapshot.
type PalletNotFoundError struct {
	Name string
}

func (e PalletNotFoundError) Error() string {
	return fmt.Sprintf("pallet %q not found in metadata", e.Name)
}

// PalletIndexNotFoundError indicates that no pallet with the given runtime
// index exists in the snapshot. When the index came from decoded extrinsic
// bytes this signals a mismatch between the extrinsic's runtime and the
// supplied snapshot rather than malformed input.
type PalletIndexNotFoundError struct {
	Index uint8
}

func (e PalletIndexNotFoundError) Error() string {
	return fmt.Sprintf("pallet with index %d not found in metadata", e.Index)
}

// VariantIndexNotFoundError indicates that an enum type has no variant with
// the given wire index.
type VariantIndexNotFoundError struct {
	Index uint8
}

func (e VariantIndexNotFoundError) Error() string {
	return fmt.Sprintf("variant with index %d not found", e.Index)
}

// CallNotFoundError indicates that a pallet declares no call with the given
// name, or no calls at all when Call is empty.
type CallNotFoundError struct {
	Pallet string
	Call   string
}

func (e CallNotFoundError) Error() string {
	if e.Call == "" {
		return fmt.Sprintf("pallet %q declares no calls", e.Pallet)
	}
	return fmt.Sprintf("call %q not found in pallet %q", e.Call, e.Pallet)
}

// StorageEntryNotFoundError indicates that a pallet declares no storage entry
// with the given name.
type StorageEntryNotFoundError struct {
	Pallet string
	Entry  string
}

func (e StorageEntryNotFoundError) Error() string {
	return fmt.Sprintf("storage entry %q not found in pallet %q", e.Entry, e.Pallet)
}

// ConstantNotFoundError indicates that a pallet declares no constant with the
// given name.
type ConstantNotFoundError struct {
	Pallet   string
	Constant string
}

func (e ConstantNotFoundError) Error() string {
	return fmt.Sprintf("constant %q not found in pallet %q", e.Constant, e.Pallet)
}

// RuntimeAPIMethodNotFoundError indicates that a runtime API trait declares
// no method with the given name.
type RuntimeAPIMethodNotFoundError struct {
	Trait  string
	Method string
}

func (e RuntimeAPIMethodNotFoundError) Error() string {
	return fmt.Sprintf("method %q not found in runtime API %q", e.Method, e.Trait)
}
