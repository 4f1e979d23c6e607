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

package main

import (
	"fmt"

	"github.com/notaryproject/tsaclient-go/crypto/timestamp"
	"github.com/notaryproject/tsaclient-go/internal/crypto/hashutil"
	"github.com/notaryproject/tsaclient-go/internal/crypto/oid"
	"github.com/notaryproject/tsaclient-go/internal/file"
	"github.com/notaryproject/tsaclient-go/log"
	"github.com/spf13/cobra"
)

type requestOpts struct {
	*globalOpts
	dataPath string
	outPath  string
}

func requestCommand(opts *globalOpts) *cobra.Command {
	requestOpts := &requestOpts{globalOpts: opts}
	cmd := &cobra.Command{
		Use:   "request --data <file> --out <file.tsq>",
		Short: "Create a time-stamp request for a file without sending it",
		Long: `Create the DER encoded RFC 3161 time-stamp request for a file without
contacting any TSA. The request can be sent later, e.g. with

  curl -H "Content-Type: application/timestamp-query" --data-binary @file.tsq https://freetsa.org/tsr > file.tsr

Example - Create a SHA-512 request:
  tsaclient request --data report.pdf --out report.tsq`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, requestOpts)
		},
	}
	cmd.Flags().StringVar(&requestOpts.dataPath, "data", "", "file to time-stamp (required)")
	cmd.Flags().StringVarP(&requestOpts.outPath, "out", "o", "", "path the DER encoded request is written to (required)")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runRequest(cmd *cobra.Command, opts *requestOpts) error {
	logger := log.GetLogger(cmd.Context())

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	hash, err := cfg.Hash()
	if err != nil {
		return err
	}
	hashedMessage, err := hashutil.ComputeFileHash(hash, opts.dataPath)
	if err != nil {
		return &timestamp.FileIOError{Path: opts.dataPath, Err: err}
	}
	hashAlgorithm, ok := oid.FromHash(hash)
	if !ok {
		return fmt.Errorf("%w: %v", timestamp.ErrUnsupportedHashAlgorithm, hash)
	}
	query, err := timestamp.EncodeRequest(hashedMessage, hashAlgorithm)
	if err != nil {
		return err
	}
	logger.Debugf("Encoded %d byte request for %s digest %x", len(query), hashutil.Name(hash), hashedMessage)
	if err := file.WriteFile(opts.outPath, query); err != nil {
		return fmt.Errorf("failed to save timestamp query to %q: %w", opts.outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Request written to %s\n", opts.outPath)
	return nil
}
