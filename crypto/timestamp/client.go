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
	"context"
	"crypto"
	"encoding/asn1"
	"fmt"

	"github.com/notaryproject/tsaclient-go/internal/crypto/hashutil"
	"github.com/notaryproject/tsaclient-go/internal/crypto/oid"
)

// DefaultHash is the hash algorithm of a Client created without one.
const DefaultHash = crypto.SHA512

// ClientOptions contains parameters for NewClient.
type ClientOptions struct {
	// Hash is the algorithm digests are computed with. DefaultHash is used
	// if zero.
	Hash crypto.Hash

	HTTPOptions
}

// Client time-stamps digests and files against a single TSA endpoint using a
// single hash algorithm. Every call performs exactly one exchange with the
// TSA and a Client holds no state between calls, so it is safe for
// concurrent use.
type Client struct {
	hash          crypto.Hash
	hashAlgorithm asn1.ObjectIdentifier
	submitter     Submitter
}

// NewClient creates a Client for the TSA at endpoint.
// Failures are reported as *ClientError.
func NewClient(endpoint string, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}
	submitter, err := NewHTTPTimestamperWithOptions(endpoint, &opts.HTTPOptions)
	if err != nil {
		return nil, err
	}
	return NewClientWithSubmitter(submitter, opts.Hash)
}

// NewClientWithSubmitter creates a Client sending its requests through
// submitter.
func NewClientWithSubmitter(submitter Submitter, hash crypto.Hash) (*Client, error) {
	if submitter == nil {
		return nil, &ClientError{Err: fmt.Errorf("submitter cannot be nil")}
	}
	if hash == 0 {
		hash = DefaultHash
	}
	hashAlgorithm, ok := oid.FromHash(hash)
	if !ok || !hash.Available() {
		return nil, &ClientError{Err: fmt.Errorf("%w: %v", ErrUnsupportedHashAlgorithm, hash)}
	}
	return &Client{
		hash:          hash,
		hashAlgorithm: hashAlgorithm,
		submitter:     submitter,
	}, nil
}

// Hash returns the hash algorithm of the client.
func (c *Client) Hash() crypto.Hash {
	return c.hash
}

// TimestampHash requests a time-stamp for hashedMessage, which must be a
// digest computed with the hash algorithm of the client.
func (c *Client) TimestampHash(ctx context.Context, hashedMessage []byte) (*Response, error) {
	query, err := EncodeRequest(hashedMessage, c.hashAlgorithm)
	if err != nil {
		return nil, err
	}
	reply, err := c.submitter.Submit(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Response{
		Query: query,
		Reply: reply,
	}, nil
}

// TimestampFile digests the whole content of the file at path with the hash
// algorithm of the client and requests a time-stamp for the digest.
// A failure to read the file is reported as *FileIOError.
func (c *Client) TimestampFile(ctx context.Context, path string) (*Response, error) {
	hashedMessage, err := hashutil.ComputeFileHash(c.hash, path)
	if err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	return c.TimestampHash(ctx, hashedMessage)
}
