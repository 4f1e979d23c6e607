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

// Package tsaclient obtains RFC 3161 time-stamps for digests and files from
// the free Time-Stamp Authority at DefaultEndpoint.
//
// The DER encoded request and reply are returned as is. A reply can be
// verified later with e.g.
//
//	openssl ts -verify -in example.tsr -data example.txt -CAfile cacert.pem -untrusted tsa.crt
//
// For another TSA, hash algorithm or transport settings, use
// timestamp.NewClient.
package tsaclient

import (
	"context"
	"fmt"
	"os"

	"github.com/notaryproject/tsaclient-go/config"
	"github.com/notaryproject/tsaclient-go/crypto/timestamp"
	"github.com/notaryproject/tsaclient-go/internal/file"
)

// DefaultEndpoint is the URL of the freeTSA.org Time-Stamp Authority.
const DefaultEndpoint = config.DefaultEndpoint

// endpoint is overridden by tests.
var endpoint = DefaultEndpoint

// TimestampHash requests a time-stamp for hashedMessage, a SHA-512 digest,
// from the TSA at DefaultEndpoint.
func TimestampHash(ctx context.Context, hashedMessage []byte) (*timestamp.Response, error) {
	client, err := timestamp.NewClient(endpoint, nil)
	if err != nil {
		return nil, err
	}
	return client.TimestampHash(ctx, hashedMessage)
}

// TimestampFile requests a time-stamp for the SHA-512 digest of the file at
// path from the TSA at DefaultEndpoint.
func TimestampFile(ctx context.Context, path string) (*timestamp.Response, error) {
	client, err := timestamp.NewClient(endpoint, nil)
	if err != nil {
		return nil, err
	}
	return client.TimestampFile(ctx, path)
}

// SaveResponse writes resp.Query to queryPath and resp.Reply to replyPath,
// creating parent directories as needed. An empty path skips the
// corresponding file. If the reply cannot be written, the query file is
// removed so that no query is left without its reply.
func SaveResponse(resp *timestamp.Response, queryPath, replyPath string) error {
	if resp == nil {
		return fmt.Errorf("timestamp response cannot be nil")
	}
	if queryPath != "" {
		if err := file.WriteFile(queryPath, resp.Query); err != nil {
			return fmt.Errorf("failed to save timestamp query to %q: %w", queryPath, err)
		}
	}
	if replyPath != "" {
		if err := file.WriteFile(replyPath, resp.Reply); err != nil {
			if queryPath != "" {
				os.Remove(queryPath)
			}
			return fmt.Errorf("failed to save timestamp reply to %q: %w", replyPath, err)
		}
	}
	return nil
}
