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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/notaryproject/tsaclient-go"
	"github.com/notaryproject/tsaclient-go/crypto/timestamp"
	"github.com/notaryproject/tsaclient-go/internal/crypto/hashutil"
	"github.com/notaryproject/tsaclient-go/log"
	digest "github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

type timestampFileOpts struct {
	*globalOpts
	dataPath  string
	queryPath string
	replyPath string
}

type timestampHashOpts struct {
	*globalOpts
	digest    string
	queryPath string
	replyPath string
}

func timestampCommand(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timestamp",
		Short: "Request a time-stamp from the TSA",
	}
	cmd.AddCommand(
		timestampFileCommand(&timestampFileOpts{globalOpts: opts}),
		timestampHashCommand(&timestampHashOpts{globalOpts: opts}),
	)
	return cmd
}

func timestampFileCommand(opts *timestampFileOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file --data <file> --query-out <file.tsq> --reply-out <file.tsr>",
		Short: "Time-stamp the digest of a file",
		Long: `Time-stamp the digest of a file.

Example - Time-stamp a file with the default TSA:
  tsaclient timestamp file --data report.pdf --query-out report.tsq --reply-out report.tsr

Example - Time-stamp a file with SHA-256 and another TSA:
  tsaclient timestamp file --url https://timestamp.digicert.com --hash sha256 \
    --data report.pdf --query-out report.tsq --reply-out report.tsr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimestampFile(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "file to time-stamp (required)")
	cmd.Flags().StringVar(&opts.queryPath, "query-out", "", "path the DER encoded request is written to (required)")
	cmd.Flags().StringVar(&opts.replyPath, "reply-out", "", "path the DER encoded reply is written to (required)")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("query-out")
	_ = cmd.MarkFlagRequired("reply-out")
	return cmd
}

func runTimestampFile(cmd *cobra.Command, opts *timestampFileOpts) error {
	ctx := cmd.Context()
	logger := log.GetLogger(ctx)

	client, cfg, err := opts.newClient()
	if err != nil {
		return err
	}
	logger.Debugf("Time-stamping %s with %s at %s", opts.dataPath, hashutil.Name(client.Hash()), cfg.Endpoint)
	resp, err := client.TimestampFile(ctx, opts.dataPath)
	if err != nil {
		return err
	}
	if err := tsaclient.SaveResponse(resp, opts.queryPath, opts.replyPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully time-stamped %s\n", opts.dataPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Request written to %s\nReply written to %s\n", opts.queryPath, opts.replyPath)
	return nil
}

func timestampHashCommand(opts *timestampHashOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash --digest <digest> --query-out <file.tsq> --reply-out <file.tsr>",
		Short: "Time-stamp a digest computed elsewhere",
		Long: `Time-stamp a digest computed elsewhere.

The digest is either in the "<algorithm>:<hex>" form, where algorithm is one of
sha256, sha384 or sha512, or plain hex computed with the configured hash
algorithm.

Example - Time-stamp a SHA-512 digest:
  tsaclient timestamp hash --digest sha512:$(sha512sum report.pdf | cut -d' ' -f1) \
    --query-out report.tsq --reply-out report.tsr

Example - Time-stamp a SHA3-256 digest:
  tsaclient timestamp hash --hash sha3-256 --digest <hex> --query-out d.tsq --reply-out d.tsr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimestampHash(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.digest, "digest", "", "digest to time-stamp (required)")
	cmd.Flags().StringVar(&opts.queryPath, "query-out", "", "path the DER encoded request is written to (required)")
	cmd.Flags().StringVar(&opts.replyPath, "reply-out", "", "path the DER encoded reply is written to (required)")
	_ = cmd.MarkFlagRequired("digest")
	_ = cmd.MarkFlagRequired("query-out")
	_ = cmd.MarkFlagRequired("reply-out")
	return cmd
}

func runTimestampHash(cmd *cobra.Command, opts *timestampHashOpts) error {
	ctx := cmd.Context()
	logger := log.GetLogger(ctx)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	clientOpts, err := cfg.ClientOptions()
	if err != nil {
		return err
	}
	req, err := newRequest(opts.digest, clientOpts)
	if err != nil {
		return err
	}
	timestamper, err := timestamp.NewHTTPTimestamperWithOptions(cfg.Endpoint, &clientOpts.HTTPOptions)
	if err != nil {
		return err
	}
	logger.Debugf("Time-stamping digest %s at %s", opts.digest, cfg.Endpoint)
	resp, err := timestamper.Timestamp(ctx, req)
	if err != nil {
		return err
	}
	if err := tsaclient.SaveResponse(resp, opts.queryPath, opts.replyPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully time-stamped %s\n", opts.digest)
	fmt.Fprintf(cmd.OutOrStdout(), "Request written to %s\nReply written to %s\n", opts.queryPath, opts.replyPath)
	return nil
}

// newRequest builds the request for a digest in the go-digest form, or in
// plain hex computed with the configured hash algorithm.
func newRequest(value string, clientOpts *timestamp.ClientOptions) (*timestamp.Request, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ":") {
		d, err := digest.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid digest %q: %w", value, err)
		}
		return timestamp.NewRequest(d)
	}
	hashedMessage, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w", value, err)
	}
	return timestamp.NewRequestFromHash(clientOpts.Hash, hashedMessage)
}
