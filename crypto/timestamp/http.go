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
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/notaryproject/tsaclient-go/log"
)

const (
	// MediaTypeQuery is the content type of a DER encoded TimeStampReq.
	MediaTypeQuery = "application/timestamp-query"

	// MediaTypeReply is the content type of a DER encoded TimeStampResp.
	MediaTypeReply = "application/timestamp-reply"
)

// DefaultMaxResponseSize specifies the max content can be received from the
// possibly malicious remote server.
// The length of a regular TSA response with certificates is usually less than
// 10 KiB.
const DefaultMaxResponseSize = 1 * 1024 * 1024 // 1 MiB

// HTTPOptions configures the transport of an HTTPTimestamper.
type HTTPOptions struct {
	// Transport performs the HTTP exchange. http.DefaultTransport is used if
	// nil.
	Transport http.RoundTripper

	// Timeout limits the whole exchange including reading the reply.
	// Zero means no timeout.
	Timeout time.Duration

	// CAFile is a PEM bundle trusted for the TLS certificate of the TSA in
	// addition to the system roots. It requires Transport to be nil or an
	// *http.Transport.
	CAFile string

	// MaxResponseSize caps the size of the reply.
	// DefaultMaxResponseSize is used if not positive.
	MaxResponseSize int64
}

// HTTPTimestamper is a HTTP-based timestamper.
// It is safe for concurrent use.
type HTTPTimestamper struct {
	client          *http.Client
	endpoint        string
	maxResponseSize int64
}

// NewHTTPTimestamper creates a HTTP-based timestamper with the endpoint provided by the TSA.
// http.DefaultTransport is used if nil RoundTripper is passed.
func NewHTTPTimestamper(rt http.RoundTripper, endpoint string) (*HTTPTimestamper, error) {
	return NewHTTPTimestamperWithOptions(endpoint, &HTTPOptions{Transport: rt})
}

// NewHTTPTimestamperWithOptions creates a HTTP-based timestamper with the
// endpoint provided by the TSA and the given transport options.
// Failures are reported as *ClientError.
func NewHTTPTimestamperWithOptions(endpoint string, opts *HTTPOptions) (*HTTPTimestamper, error) {
	if opts == nil {
		opts = &HTTPOptions{}
	}
	if err := validateEndpoint(endpoint); err != nil {
		return nil, &ClientError{Err: err}
	}
	rt, err := newTransport(opts)
	if err != nil {
		return nil, &ClientError{Err: err}
	}
	maxResponseSize := opts.MaxResponseSize
	if maxResponseSize <= 0 {
		maxResponseSize = DefaultMaxResponseSize
	}
	return &HTTPTimestamper{
		client: &http.Client{
			Transport: rt,
			Timeout:   opts.Timeout,
		},
		endpoint:        endpoint,
		maxResponseSize: maxResponseSize,
	}, nil
}

// Endpoint returns the URL of the TSA.
func (ts *HTTPTimestamper) Endpoint() string {
	return ts.endpoint
}

// Timestamp encodes req and sends it to the remote TSA server for
// timestamping.
func (ts *HTTPTimestamper) Timestamp(ctx context.Context, req *Request) (*Response, error) {
	query, err := req.MarshalBinary()
	if err != nil {
		return nil, err
	}
	reply, err := ts.Submit(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Response{
		Query: query,
		Reply: reply,
	}, nil
}

// Submit posts the DER encoded time-stamp request query to the remote TSA
// server and returns the body of its reply unmodified. The reply is not
// parsed.
// Reference: RFC 3161 3.4 Time-Stamp Protocol via HTTP
func (ts *HTTPTimestamper) Submit(ctx context.Context, query []byte) ([]byte, error) {
	logger := log.GetLogger(ctx)

	// prepare for http request
	hReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.endpoint, bytes.NewReader(query))
	if err != nil {
		return nil, &ClientError{Err: err}
	}
	hReq.Header.Set("Content-Type", MediaTypeQuery)
	hReq.Header.Set("Accept", MediaTypeReply)

	// send the request to the remote TSA server
	logger.Debugf("Sending %d byte timestamp request to %s", len(query), ts.endpoint)
	hResp, err := ts.client.Do(hReq)
	if err != nil {
		return nil, &RemoteError{Endpoint: ts.endpoint, Err: err}
	}
	defer hResp.Body.Close()
	logger.Debugf("Timestamp authority %s answered %s", ts.endpoint, hResp.Status)

	if hResp.StatusCode < 200 || hResp.StatusCode > 299 {
		return nil, &RemoteError{
			Endpoint:   ts.endpoint,
			StatusCode: hResp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", hResp.Status),
		}
	}

	// read response
	body := io.LimitReader(hResp.Body, ts.maxResponseSize+1)
	reply, err := io.ReadAll(body)
	if err != nil {
		return nil, &ResponseError{Err: err}
	}
	if int64(len(reply)) > ts.maxResponseSize {
		return nil, &ResponseError{Err: fmt.Errorf("response body exceeds %d bytes", ts.maxResponseSize)}
	}
	logger.Debugf("Received %d byte timestamp response", len(reply))
	return reply, nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("endpoint %q: scheme must be https or http", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q: missing host", endpoint)
	}
	return nil
}

// newTransport returns opts.Transport, or http.DefaultTransport, trusting the
// certificates of opts.CAFile if set.
func newTransport(opts *HTTPOptions) (http.RoundTripper, error) {
	rt := opts.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if opts.CAFile == "" {
		return rt, nil
	}

	base, ok := rt.(*http.Transport)
	if !ok {
		return nil, errors.New("a CA file can only be applied to an *http.Transport")
	}
	pemBytes, err := os.ReadFile(opts.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	roots, err := x509.SystemCertPool()
	if err != nil {
		roots = x509.NewCertPool()
	}
	if !roots.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("no certificates found in CA file %q", opts.CAFile)
	}

	transport := base.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	transport.TLSClientConfig.RootCAs = roots
	return transport, nil
}
