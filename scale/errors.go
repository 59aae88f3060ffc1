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
)

// ErrInsufficientBytes indicates that the input ended before the value being
// decoded was complete.
var ErrInsufficientBytes = errors.New("insufficient bytes")

// DecodeError records a decoding failure together with the byte offset at
// which it occurred.
type DecodeError struct {
	Offset int
	Err    error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decode error at offset %d: %v", e.Offset, e.Err)
}

func (e DecodeError) Unwrap() error { return e.Err }

// UnknownTypeError indicates that a type id was not present in the registry.
// When the id came from the metadata's own declared structure this signals an
// internally inconsistent snapshot rather than bad input data.
type UnknownTypeError struct {
	ID uint32
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("type %d not found in registry", e.ID)
}

// UnknownVariantIndexError indicates that the wire data selected an enum
// variant that the type does not declare.
type UnknownVariantIndexError struct {
	Index uint8
}

func (e UnknownVariantIndexError) Error() string {
	return fmt.Sprintf("enum has no variant with index %d", e.Index)
}
