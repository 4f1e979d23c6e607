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
	"errors"
	"fmt"
)

// ErrUnsupportedHashAlgorithm is returned when a message imprint names a hash
// algorithm that has no known object identifier or is not linked into the
// binary.
var ErrUnsupportedHashAlgorithm = errors.New("unsupported hash algorithm")

// DigestSizeMismatchError is returned when the digest to be time-stamped does
// not have the output size of the declared hash algorithm.
type DigestSizeMismatchError struct {
	Hash crypto.Hash
	Size int
}

func (e *DigestSizeMismatchError) Error() string {
	return fmt.Sprintf("digest size %d does not match the %v output size %d", e.Size, e.Hash, e.Hash.Size())
}

// EncodingError is returned when the time-stamp request cannot be serialized
// to DER. It indicates an internal fault and is not retriable.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode timestamp request: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ClientError is returned when the HTTP client used to reach the TSA cannot be
// built, e.g. a malformed endpoint or an unusable CA bundle. Retrying without
// fixing the configuration does not help.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("failed to set up timestamp client: %v", e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }

// RemoteError is returned when the TSA cannot be reached or rejects the
// exchange. StatusCode is set when the TSA answered with a non-2xx status.
// Callers may retry with backoff.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("timestamp authority %s rejected the request: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("failed to reach timestamp authority %s: %v", e.Endpoint, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ResponseError is returned when the TSA accepted the request but its reply
// could not be read completely. Callers may retry.
type ResponseError struct {
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("failed to receive timestamp response: %v", e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// FileIOError is returned when the file to be time-stamped cannot be read.
type FileIOError struct {
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("failed to read file %q: %v", e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error { return e.Err }

// IsRetriable reports whether err was caused by a failure of the exchange
// with the TSA that may succeed on another attempt.
func IsRetriable(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return true
	}
	var responseErr *ResponseError
	return errors.As(err, &responseErr)
}
