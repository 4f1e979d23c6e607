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
	"bytes"
	"crypto"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/asn1"
	"errors"
	"testing"

	tsp "github.com/digitorus/timestamp"
	"github.com/notaryproject/tsaclient-go/internal/crypto/oid"
	digest "github.com/opencontainers/go-digest"
)

// zeroSHA512Request is the DER encoding of the request for a SHA-512 digest
// made of 64 zero bytes.
var zeroSHA512Request = append(append([]byte{
	// Request
	0x30, 0x59,

	// Version
	0x02, 0x01, 0x01,

	// MessageImprint
	0x30, 0x51,

	// MessageImprint.HashAlgorithm
	0x30, 0x0d,

	// MessageImprint.HashAlgorithm.Algorithm
	0x06, 0x09,
	0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03,

	// MessageImprint.HashAlgorithm.Parameters
	0x05, 0x00,

	// MessageImprint.HashedMessage
	0x04, 0x40,
}, make([]byte, 64)...),

	// CertReq
	0x01, 0x01, 0xff,
)

func TestEncodeRequestGolden(t *testing.T) {
	got, err := EncodeRequest(make([]byte, 64), oid.SHA512)
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}
	if len(zeroSHA512Request) != 91 {
		t.Fatalf("len(zeroSHA512Request) = %d, want 91", len(zeroSHA512Request))
	}
	if !bytes.Equal(got, zeroSHA512Request) {
		t.Fatalf("EncodeRequest() = %x, want %x", got, zeroSHA512Request)
	}
}

func TestEncodeRequestRoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		hashAlgorithm asn1.ObjectIdentifier
		hash          crypto.Hash
	}{
		{name: "sha256", hashAlgorithm: oid.SHA256, hash: crypto.SHA256},
		{name: "sha384", hashAlgorithm: oid.SHA384, hash: crypto.SHA384},
		{name: "sha512", hashAlgorithm: oid.SHA512, hash: crypto.SHA512},
		{name: "sha3-512", hashAlgorithm: oid.SHA3_512, hash: crypto.SHA3_512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.hash.New()
			h.Write([]byte(tt.name))
			hashedMessage := h.Sum(nil)

			der, err := EncodeRequest(hashedMessage, tt.hashAlgorithm)
			if err != nil {
				t.Fatalf("EncodeRequest() error = %v", err)
			}
			var req Request
			if err := req.UnmarshalBinary(der); err != nil {
				t.Fatalf("Request.UnmarshalBinary() error = %v", err)
			}
			if req.Version != 1 {
				t.Errorf("Request.Version = %d, want 1", req.Version)
			}
			if !req.CertReq {
				t.Error("Request.CertReq = false, want true")
			}
			if !req.MessageImprint.HashAlgorithm.Algorithm.Equal(tt.hashAlgorithm) {
				t.Errorf("Request.MessageImprint.HashAlgorithm.Algorithm = %v, want %v", req.MessageImprint.HashAlgorithm.Algorithm, tt.hashAlgorithm)
			}
			if tag := req.MessageImprint.HashAlgorithm.Parameters.Tag; tag != asn1.TagNull {
				t.Errorf("Request.MessageImprint.HashAlgorithm.Parameters.Tag = %d, want %d", tag, asn1.TagNull)
			}
			if !bytes.Equal(req.MessageImprint.HashedMessage, hashedMessage) {
				t.Errorf("Request.MessageImprint.HashedMessage = %x, want %x", req.MessageImprint.HashedMessage, hashedMessage)
			}
			if req.Nonce != nil || req.ReqPolicy != nil || req.Extensions != nil {
				t.Errorf("Request optional fields = %v, %v, %v, want none", req.Nonce, req.ReqPolicy, req.Extensions)
			}
		})
	}
}

func TestEncodeRequestDeterministic(t *testing.T) {
	hashedMessage := sha512.Sum512([]byte("tsaclient"))
	first, err := EncodeRequest(hashedMessage[:], oid.SHA512)
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := EncodeRequest(hashedMessage[:], oid.SHA512)
		if err != nil {
			t.Fatalf("EncodeRequest() error = %v", err)
		}
		if !bytes.Equal(got, first) {
			t.Fatalf("EncodeRequest() = %x, want %x", got, first)
		}
	}
}

func TestEncodeRequestIndependentDecoder(t *testing.T) {
	hashedMessage := sha512.Sum512([]byte("tsaclient"))
	der, err := EncodeRequest(hashedMessage[:], oid.SHA512)
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}
	req, err := tsp.ParseRequest(der)
	if err != nil {
		t.Fatalf("timestamp.ParseRequest() error = %v", err)
	}
	if req.HashAlgorithm != crypto.SHA512 {
		t.Errorf("HashAlgorithm = %v, want %v", req.HashAlgorithm, crypto.SHA512)
	}
	if !bytes.Equal(req.HashedMessage, hashedMessage[:]) {
		t.Errorf("HashedMessage = %x, want %x", req.HashedMessage, hashedMessage)
	}
	if !req.Certificates {
		t.Error("Certificates = false, want true")
	}
	if req.Nonce != nil {
		t.Errorf("Nonce = %v, want nil", req.Nonce)
	}
}

func TestEncodeRequestDigestSizeMismatch(t *testing.T) {
	tests := []struct {
		name          string
		hashedMessage []byte
	}{
		{name: "empty", hashedMessage: nil},
		{name: "sha256 digest", hashedMessage: make([]byte, 32)},
		{name: "too long", hashedMessage: make([]byte, 65)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeRequest(tt.hashedMessage, oid.SHA512)
			var sizeErr *DigestSizeMismatchError
			if !errors.As(err, &sizeErr) {
				t.Fatalf("EncodeRequest() error = %v, want *DigestSizeMismatchError", err)
			}
			if sizeErr.Hash != crypto.SHA512 || sizeErr.Size != len(tt.hashedMessage) {
				t.Errorf("DigestSizeMismatchError = %+v", sizeErr)
			}
		})
	}
}

func TestEncodeRequestUnsupportedHash(t *testing.T) {
	sha1 := asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}
	_, err := EncodeRequest(make([]byte, 20), sha1)
	if !errors.Is(err, ErrUnsupportedHashAlgorithm) {
		t.Fatalf("EncodeRequest() error = %v, want %v", err, ErrUnsupportedHashAlgorithm)
	}
}

func TestNewRequest(t *testing.T) {
	content := []byte("tsaclient")
	req, err := NewRequest(digest.SHA512.FromBytes(content))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	want := sha512.Sum512(content)
	if !bytes.Equal(req.MessageImprint.HashedMessage, want[:]) {
		t.Errorf("Request.MessageImprint.HashedMessage = %x, want %x", req.MessageImprint.HashedMessage, want)
	}
	if !req.MessageImprint.HashAlgorithm.Algorithm.Equal(oid.SHA512) {
		t.Errorf("Request.MessageImprint.HashAlgorithm.Algorithm = %v, want %v", req.MessageImprint.HashAlgorithm.Algorithm, oid.SHA512)
	}
}

func TestNewRequestInvalidDigest(t *testing.T) {
	tests := []struct {
		name    string
		digest  digest.Digest
		wantErr error
	}{
		{name: "unknown algorithm", digest: "md5:d41d8cd98f00b204e9800998ecf8427e", wantErr: ErrUnsupportedHashAlgorithm},
		{name: "bad length", digest: "sha256:abcd", wantErr: digest.ErrDigestInvalidLength},
		{name: "no separator", digest: "abcd", wantErr: digest.ErrDigestInvalidFormat},
		{name: "empty", digest: "", wantErr: digest.ErrDigestInvalidFormat},
		{name: "bad encoding", digest: digest.Digest("sha256:" + string(bytes.Repeat([]byte("z"), 64))), wantErr: digest.ErrDigestInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.digest)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRequestFromBytes(t *testing.T) {
	content := []byte("notation")
	req, err := NewRequestFromBytes(content)
	if err != nil {
		t.Fatalf("NewRequestFromBytes() error = %v", err)
	}
	want := sha256.Sum256(content)
	if !bytes.Equal(req.MessageImprint.HashedMessage, want[:]) {
		t.Errorf("Request.MessageImprint.HashedMessage = %x, want %x", req.MessageImprint.HashedMessage, want)
	}
}

func TestNewRequestFromHashUnsupported(t *testing.T) {
	_, err := NewRequestFromHash(crypto.MD5, make([]byte, 16))
	if !errors.Is(err, ErrUnsupportedHashAlgorithm) {
		t.Fatalf("NewRequestFromHash() error = %v, want %v", err, ErrUnsupportedHashAlgorithm)
	}
}

func TestMarshalBinaryNilRequest(t *testing.T) {
	var req *Request
	_, err := req.MarshalBinary()
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Request.MarshalBinary() error = %v, want *EncodingError", err)
	}
}

func TestUnmarshalBinaryTrailingData(t *testing.T) {
	data := append(append([]byte(nil), zeroSHA512Request...), 0x00)
	var req Request
	if err := req.UnmarshalBinary(data); err == nil {
		t.Fatal("Request.UnmarshalBinary() error = nil, want error")
	}
}

func TestEncodeRequestNullParameters(t *testing.T) {
	for _, alg := range []asn1.ObjectIdentifier{oid.SHA256, oid.SHA512, oid.SHA3_256} {
		hash, _ := oid.ConvertToHash(alg)
		der, err := EncodeRequest(make([]byte, hash.Size()), alg)
		if err != nil {
			t.Fatalf("EncodeRequest(%v) error = %v", alg, err)
		}
		var req Request
		if err := req.UnmarshalBinary(der); err != nil {
			t.Fatalf("Request.UnmarshalBinary() error = %v", err)
		}
		if got := req.MessageImprint.HashAlgorithm.Parameters.FullBytes; !bytes.Equal(got, asn1.NullBytes) {
			t.Errorf("EncodeRequest(%v) parameters = %x, want %x", alg, got, asn1.NullBytes)
		}
	}
}
