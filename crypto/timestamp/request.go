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

package timestamp

import (
	"crypto"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/notaryproject/tsaclient-go/internal/crypto/hashutil"
	"github.com/notaryproject/tsaclient-go/internal/crypto/oid"
	digest "github.com/opencontainers/go-digest"
)

// MessageImprint contains the hash of the datum to be time-stamped.
// MessageImprint ::= SEQUENCE {
//  hashAlgorithm   AlgorithmIdentifier,
//  hashedMessage   OCTET STRING }
type MessageImprint struct {
	HashAlgorithm pkix.AlgorithmIdentifier
	HashedMessage []byte
}

// Request is a time-stamping request.
// TimeStampReq ::= SEQUENCE {
//  version         INTEGER                 { v1(1) },
//  messageImprint  MessageImprint,
//  reqPolicy       TSAPolicyID              OPTIONAL,
//  nonce           INTEGER                  OPTIONAL,
//  certReq         BOOLEAN                  DEFAULT FALSE,
//  extensions      [0] IMPLICIT Extensions  OPTIONAL }
type Request struct {
	Version        int // fixed to 1 as defined in RFC 3161 2.4.1 Request Format
	MessageImprint MessageImprint
	ReqPolicy      asn1.ObjectIdentifier `asn1:"optional"`
	Nonce          *big.Int              `asn1:"optional"`
	CertReq        bool                  `asn1:"optional,default:false"`
	Extensions     []pkix.Extension      `asn1:"optional,tag:0"`
}

// EncodeRequest builds a version 1 time-stamp request for hashedMessage, a
// digest produced by the hash algorithm identified by hashAlgorithm, and
// returns its DER encoding. The request always asks the TSA to include its
// certificate and carries no policy, nonce or extensions.
func EncodeRequest(hashedMessage []byte, hashAlgorithm asn1.ObjectIdentifier) ([]byte, error) {
	hash, ok := oid.ConvertToHash(hashAlgorithm)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedHashAlgorithm, hashAlgorithm)
	}
	req, err := newRequest(hashAlgorithm, hash, hashedMessage)
	if err != nil {
		return nil, err
	}
	return req.MarshalBinary()
}

// NewRequest creates a request based on the given digest.
func NewRequest(contentDigest digest.Digest) (*Request, error) {
	if err := contentDigest.Validate(); err != nil {
		if errors.Is(err, digest.ErrDigestUnsupported) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedHashAlgorithm, contentDigest.Algorithm())
		}
		return nil, err
	}
	hash, err := getHashFromDigestAlgorithm(contentDigest.Algorithm())
	if err != nil {
		return nil, err
	}
	hashedMessage, err := hex.DecodeString(contentDigest.Encoded())
	if err != nil {
		return nil, err
	}
	return NewRequestFromHash(hash, hashedMessage)
}

// NewRequestFromHash creates a request for a digest computed with hash.
func NewRequestFromHash(hash crypto.Hash, hashedMessage []byte) (*Request, error) {
	hashAlgorithm, ok := oid.FromHash(hash)
	if !ok || !hash.Available() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedHashAlgorithm, hash)
	}
	return newRequest(hashAlgorithm, hash, hashedMessage)
}

// NewRequestFromBytes creates a request based on the SHA-256 digest of the
// given byte slice.
func NewRequestFromBytes(content []byte) (*Request, error) {
	hashedMessage, err := hashutil.ComputeHash(crypto.SHA256, content)
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	return NewRequestFromHash(crypto.SHA256, hashedMessage)
}

// MarshalBinary encodes the request to binary form.
// This method implements encoding.BinaryMarshaler
func (r *Request) MarshalBinary() ([]byte, error) {
	if r == nil {
		return nil, &EncodingError{Err: errors.New("nil request")}
	}
	der, err := asn1.Marshal(*r)
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	return der, nil
}

// UnmarshalBinary decodes the request from binary form.
// This method implements encoding.BinaryUnmarshaler
func (r *Request) UnmarshalBinary(data []byte) error {
	rest, err := asn1.Unmarshal(data, r)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return errors.New("trailing data after TimeStampReq")
	}
	return nil
}

func newRequest(hashAlgorithm asn1.ObjectIdentifier, hash crypto.Hash, hashedMessage []byte) (*Request, error) {
	if len(hashedMessage) != hash.Size() {
		return nil, &DigestSizeMismatchError{Hash: hash, Size: len(hashedMessage)}
	}
	return &Request{
		Version: 1,
		MessageImprint: MessageImprint{
			HashAlgorithm: pkix.AlgorithmIdentifier{
				Algorithm: hashAlgorithm,
				// NULL for every algorithm, SHA-3 included
				Parameters: asn1.NullRawValue,
			},
			HashedMessage: hashedMessage,
		},
		CertReq: true,
	}, nil
}

// getHashFromDigestAlgorithm returns corresponding crypto hash for the given
// digest algorithm.
func getHashFromDigestAlgorithm(alg digest.Algorithm) (crypto.Hash, error) {
	switch alg {
	case digest.SHA256:
		return crypto.SHA256, nil
	case digest.SHA384:
		return crypto.SHA384, nil
	case digest.SHA512:
		return crypto.SHA512, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedHashAlgorithm, alg)
}
