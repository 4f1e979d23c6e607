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

// Package hashutil provides utilities for hash.
package hashutil

import (
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"io"
	"os"
	"strings"

	_ "golang.org/x/crypto/sha3"
)

// names maps the lower case hash names accepted in configuration files and on
// the command line to their crypto.Hash.
var names = map[string]crypto.Hash{
	"sha256":   crypto.SHA256,
	"sha384":   crypto.SHA384,
	"sha512":   crypto.SHA512,
	"sha3-256": crypto.SHA3_256,
	"sha3-384": crypto.SHA3_384,
	"sha3-512": crypto.SHA3_512,
}

// ComputeHash computes the digest of the message with the given hash algorithm.
// Callers should check the availability of the hash algorithm before invoking.
func ComputeHash(hash crypto.Hash, message []byte) ([]byte, error) {
	h := hash.New()
	_, err := h.Write(message)
	if err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// ComputeFileHash computes the digest of the whole content of the file at
// path. The file is streamed through the hash rather than loaded in memory.
func ComputeFileHash(hash crypto.Hash, path string) ([]byte, error) {
	if !hash.Available() {
		return nil, fmt.Errorf("hash algorithm %v is not available", hash)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := hash.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// Parse returns the hash algorithm for a name such as "sha512" or
// "sha3-256". Matching is case insensitive.
func Parse(name string) (crypto.Hash, error) {
	hash, ok := names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported hash algorithm %q", name)
	}
	return hash, nil
}

// Name returns the name Parse accepts for hash, or hash.String() for
// algorithms Parse does not know.
func Name(hash crypto.Hash) string {
	for name, h := range names {
		if h == hash {
			return name
		}
	}
	return hash.String()
}
