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

// Package timestamptest provides utilities for timestamp testing
package timestamptest

import (
	_ "crypto/sha256"
	_ "crypto/sha512"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"

	tsp "github.com/digitorus/timestamp"
	"github.com/notaryproject/tsaclient-go/internal/crypto/oid"
	_ "golang.org/x/crypto/sha3"
)

const (
	mediaTypeQuery = "application/timestamp-query"
	mediaTypeReply = "application/timestamp-reply"
)

// ReplyRejection is a DER encoded TimeStampResp whose PKIStatusInfo carries
// the rejection status and no token. It is the default reply of a TSA.
var ReplyRejection = []byte{
	0x30, 0x05, // TimeStampResp
	0x30, 0x03, // PKIStatusInfo
	0x02, 0x01, 0x02, // status: rejection(2)
}

// maxRequestSize caps the body of an incoming request.
const maxRequestSize = 64 * 1024

type messageImprint struct {
	HashAlgorithm pkix.AlgorithmIdentifier
	HashedMessage []byte
}

// timeStampReq mirrors TimeStampReq of RFC 3161 2.4.1.
type timeStampReq struct {
	Version        int
	MessageImprint messageImprint
	ReqPolicy      asn1.ObjectIdentifier `asn1:"optional"`
	Nonce          *big.Int              `asn1:"optional"`
	CertReq        bool                  `asn1:"optional,default:false"`
	Extensions     []pkix.Extension      `asn1:"optional,tag:0"`
}

// Received is a request received by the TSA.
type Received struct {
	// ContentType is the Content-Type header of the request.
	ContentType string

	// Body is the raw request body.
	Body []byte

	// Request is Body decoded by an independent RFC 3161 implementation.
	// It is nil if that implementation does not know the hash algorithm.
	Request *tsp.Request
}

// TSA is a Timestamping Authority served over HTTP for testing purpose.
// It accepts well-formed time-stamp requests and answers every one of them
// with the same reply.
type TSA struct {
	server *httptest.Server

	mu         sync.Mutex
	reply      []byte
	statusCode int
	received   []Received
}

// NewTSA starts a TSA over plain HTTP answering with reply, or
// ReplyRejection if reply is nil. Callers should call Close when finished.
func NewTSA(reply []byte) *TSA {
	tsa := newTSA(reply)
	tsa.server = httptest.NewServer(http.HandlerFunc(tsa.serveHTTP))
	return tsa
}

// NewTLSTSA starts a TSA over HTTPS with a self-signed certificate, see
// CertificatePEM. Callers should call Close when finished.
func NewTLSTSA(reply []byte) *TSA {
	tsa := newTSA(reply)
	tsa.server = httptest.NewTLSServer(http.HandlerFunc(tsa.serveHTTP))
	return tsa
}

func newTSA(reply []byte) *TSA {
	if reply == nil {
		reply = ReplyRejection
	}
	return &TSA{
		reply:      reply,
		statusCode: http.StatusOK,
	}
}

// URL returns the endpoint of the TSA.
func (tsa *TSA) URL() string {
	return tsa.server.URL
}

// Client returns an HTTP client trusting the TSA.
func (tsa *TSA) Client() *http.Client {
	return tsa.server.Client()
}

// CertificatePEM returns the PEM encoded TLS certificate of a TSA started with
// NewTLSTSA, or nil.
func (tsa *TSA) CertificatePEM() []byte {
	cert := tsa.server.Certificate()
	if cert == nil {
		return nil
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

// Close shuts down the TSA.
func (tsa *TSA) Close() {
	tsa.server.Close()
}

// RejectWith makes the TSA answer well-formed requests with the given HTTP
// status and an empty body.
func (tsa *TSA) RejectWith(statusCode int) {
	tsa.mu.Lock()
	defer tsa.mu.Unlock()
	tsa.statusCode = statusCode
}

// Received returns the well-formed requests received so far.
func (tsa *TSA) Received() []Received {
	tsa.mu.Lock()
	defer tsa.mu.Unlock()
	return append([]Received(nil), tsa.received...)
}

func (tsa *TSA) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType != mediaTypeQuery {
		http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	// validate request
	if err := validateRequest(body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, err := tsp.ParseRequest(body)
	if err != nil {
		req = nil
	}

	tsa.mu.Lock()
	tsa.received = append(tsa.received, Received{
		ContentType: contentType,
		Body:        body,
		Request:     req,
	})
	statusCode, reply := tsa.statusCode, tsa.reply
	tsa.mu.Unlock()

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
		return
	}
	w.Header().Set("Content-Type", mediaTypeReply)
	w.Write(reply)
}

// validateRequest checks that body is a DER encoded version 1 TimeStampReq
// whose digest matches its hash algorithm.
func validateRequest(body []byte) error {
	var req timeStampReq
	rest, err := asn1.Unmarshal(body, &req)
	if err != nil {
		return errors.New("malformed TimeStampReq")
	}
	if len(rest) > 0 {
		return errors.New("trailing data after TimeStampReq")
	}
	if req.Version != 1 {
		return errors.New("unsupported TimeStampReq version")
	}
	hash, ok := oid.ConvertToHash(req.MessageImprint.HashAlgorithm.Algorithm)
	if !ok {
		return errors.New("unsupported hash algorithm")
	}
	if len(req.MessageImprint.HashedMessage) != hash.Size() {
		return errors.New("bad message imprint")
	}
	return nil
}
