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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/notaryproject/tsaclient-go/config"
	"github.com/notaryproject/tsaclient-go/crypto/timestamp"
	"github.com/notaryproject/tsaclient-go/dir"
	"github.com/notaryproject/tsaclient-go/log"
	console "github.com/phsym/console-slog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix prefixes the environment variables overriding the config file,
// e.g. TSACLIENT_URL or TSACLIENT_CA_FILE.
const envPrefix = "TSACLIENT"

// viper keys
const (
	keyURL             = "url"
	keyHash            = "hash"
	keyTimeout         = "timeout"
	keyCAFile          = "ca_file"
	keyMaxResponseSize = "max_response_size"
)

type globalOpts struct {
	verbose bool
	viper   *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{
		viper: viper.New(),
	}
	cmd := &cobra.Command{
		Use:   "tsaclient",
		Short: "RFC 3161 time-stamp client",
		Long: `Request RFC 3161 time-stamps from a Time-Stamp Authority (TSA).

The DER encoded request (.tsq) and reply (.tsr) are saved as is. Replies are
not verified; use e.g.

  openssl ts -verify -in file.tsr -data file -CAfile cacert.pem -untrusted tsa.crt

Settings are taken from the command line flags, then the environment
(TSACLIENT_URL, TSACLIENT_HASH, TSACLIENT_TIMEOUT, TSACLIENT_CA_FILE,
TSACLIENT_MAX_RESPONSE_SIZE, also read from a .env file in the working
directory), then the config.json file of the user config directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(); err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			cmd.SetContext(log.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("url", "", fmt.Sprintf("URL of the time-stamp authority (default %q)", config.DefaultEndpoint))
	flags.String("hash", "", `hash algorithm: sha256, sha384, sha512, sha3-256, sha3-384 or sha3-512 (default "sha512")`)
	flags.String("timeout", "", `timeout of the exchange with the TSA, e.g. "30s" (default none)`)
	flags.String("ca-file", "", "PEM bundle trusted for the TLS certificate of the TSA")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	v := opts.viper
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	_ = v.BindPFlag(keyURL, flags.Lookup("url"))
	_ = v.BindPFlag(keyHash, flags.Lookup("hash"))
	_ = v.BindPFlag(keyTimeout, flags.Lookup("timeout"))
	_ = v.BindPFlag(keyCAFile, flags.Lookup("ca-file"))

	cmd.AddCommand(
		timestampCommand(opts),
		requestCommand(opts),
		configCommand(opts),
		versionCommand(),
	)
	return cmd
}

// loadEnvFile adds the variables of the .env file of the working directory,
// if any, to the environment. Variables already set are kept.
func loadEnvFile() error {
	err := godotenv.Load(dir.PathEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", dir.PathEnvFile, err)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) log.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := console.NewHandler(w, &console.HandlerOptions{Level: level})
	return log.NewSlogLogger(slog.New(handler))
}

// loadConfig returns config.json overridden by the environment and the
// command line flags.
func (opts *globalOpts) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	v := opts.viper
	if v.IsSet(keyURL) {
		cfg.Endpoint = v.GetString(keyURL)
	}
	if v.IsSet(keyHash) {
		cfg.HashAlgorithm = v.GetString(keyHash)
	}
	if v.IsSet(keyTimeout) {
		cfg.Timeout = v.GetString(keyTimeout)
	}
	if v.IsSet(keyCAFile) {
		cfg.CAFile = v.GetString(keyCAFile)
	}
	if v.IsSet(keyMaxResponseSize) {
		cfg.MaxResponseSize = v.GetInt64(keyMaxResponseSize)
	}
	return cfg, nil
}

// newClient creates a timestamp client from the effective config.
func (opts *globalOpts) newClient() (*timestamp.Client, *config.Config, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	clientOpts, err := cfg.ClientOptions()
	if err != nil {
		return nil, nil, err
	}
	client, err := timestamp.NewClient(cfg.Endpoint, clientOpts)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
