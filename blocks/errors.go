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
)

// SupportedExtrinsicVersion is the only extrinsic format version this
// decoder accepts.
const SupportedExtrinsicVersion = 4

// UnsupportedVersionError indicates that an extrinsic's control byte declared
// a format version other than the supported one.
type UnsupportedVersionError struct {
	Version uint8
}

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf(
		"unsupported extrinsic version %d, expected %d",
		e.Version,
		SupportedExtrinsicVersion,
	)
}

// SignedExtensionNotFoundError indicates that an extrinsic's signed
// extensions do not include the named one.
type SignedExtensionNotFoundError struct {
	Name string
}

func (e SignedExtensionNotFoundError) Error() string {
	return fmt.Sprintf("signed extension %q not found in extrinsic", e.Name)
}
