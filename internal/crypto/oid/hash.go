// Copyright The Notary Project Authors.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oid

import (
	"crypto"
	"encoding/asn1"
)

// ConvertToHash converts ASN.1 digest algorithm identifier to golang crypto hash
// if it is available.
func ConvertToHash(alg asn1.ObjectIdentifier) (crypto.Hash, bool) {
	var hash crypto.Hash
	switch {
	case SHA256.Equal(alg):
		hash = crypto.SHA256
	case SHA384.Equal(alg):
		hash = crypto.SHA384
	case SHA512.Equal(alg):
		hash = crypto.SHA512
	case SHA3_256.Equal(alg):
		hash = crypto.SHA3_256
	case SHA3_384.Equal(alg):
		hash = crypto.SHA3_384
	case SHA3_512.Equal(alg):
		hash = crypto.SHA3_512
	default:
		return hash, false
	}
	return hash, hash.Available()
}

// FromHash returns the ASN.1 digest algorithm identifier of hash.
// It returns false if there is no identifier known for hash.
func FromHash(hash crypto.Hash) (asn1.ObjectIdentifier, bool) {
	switch hash {
	case crypto.SHA256:
		return SHA256, true
	case crypto.SHA384:
		return SHA384, true
	case crypto.SHA512:
		return SHA512, true
	case crypto.SHA3_256:
		return SHA3_256, true
	case crypto.SHA3_384:
		return SHA3_384, true
	case crypto.SHA3_512:
		return SHA3_512, true
	}
	return nil, false
}
