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

// Package config provides the ability to load and save config.json.
package config

import (
	"crypto"
	"errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/notaryproject/tsaclient-go/crypto/timestamp"
	"github.com/notaryproject/tsaclient-go/dir"
	"github.com/notaryproject/tsaclient-go/internal/crypto/hashutil"
	"github.com/notaryproject/tsaclient-go/internal/file"
)

// DefaultEndpoint is the TSA used when none is configured.
const DefaultEndpoint = "https://freetsa.org/tsr"

// Config reflects the config.json file.
type Config struct {
	// Endpoint is the URL of the TSA.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint"`

	// HashAlgorithm names the digest algorithm, e.g. "sha512" or "sha3-256".
	HashAlgorithm string `json:"hashAlgorithm,omitempty" yaml:"hashAlgorithm"`

	// Timeout limits a single exchange with the TSA, in time.ParseDuration
	// format. Empty or "0" means no timeout.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// CAFile is a PEM bundle trusted for the TLS certificate of the TSA.
	CAFile string `json:"caFile,omitempty" yaml:"caFile,omitempty"`

	// MaxResponseSize caps the size of the TSA reply in bytes.
	MaxResponseSize int64 `json:"maxResponseSize,omitempty" yaml:"maxResponseSize,omitempty"`
}

// NewConfig creates a new config with the default endpoint and hash
// algorithm.
func NewConfig() *Config {
	return &Config{
		Endpoint:      DefaultEndpoint,
		HashAlgorithm: hashutil.Name(timestamp.DefaultHash),
	}
}

// Save stores the config to file
func (c *Config) Save() error {
	return file.Save(dir.ConfigFile(), c)
}

// LoadConfig reads the config from file or return a default config if not found.
// Fields absent from the file take their default value.
func LoadConfig() (*Config, error) {
	path := dir.ConfigFile()
	config := NewConfig()
	if err := file.Load(path, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewConfig(), nil
		}
		return nil, err
	}
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	defaults := NewConfig()
	if c.Endpoint == "" {
		c.Endpoint = defaults.Endpoint
	}
	if c.HashAlgorithm == "" {
		c.HashAlgorithm = defaults.HashAlgorithm
	}
}

// Hash returns the configured hash algorithm.
func (c *Config) Hash() (crypto.Hash, error) {
	hash, err := hashutil.Parse(c.HashAlgorithm)
	if err != nil {
		return 0, InvalidValueError{Key: "hashAlgorithm", Value: c.HashAlgorithm, Err: err}
	}
	return hash, nil
}

// ClientOptions converts the config to options of timestamp.NewClient.
func (c *Config) ClientOptions() (*timestamp.ClientOptions, error) {
	hash, err := c.Hash()
	if err != nil {
		return nil, err
	}
	var timeout time.Duration
	if c.Timeout != "" {
		timeout, err = time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, InvalidValueError{Key: "timeout", Value: c.Timeout, Err: err}
		}
		if timeout < 0 {
			return nil, InvalidValueError{Key: "timeout", Value: c.Timeout, Err: errors.New("timeout cannot be negative")}
		}
	}
	if c.MaxResponseSize < 0 {
		return nil, InvalidValueError{Key: "maxResponseSize", Value: strconv.FormatInt(c.MaxResponseSize, 10), Err: errors.New("size cannot be negative")}
	}
	return &timestamp.ClientOptions{
		Hash: hash,
		HTTPOptions: timestamp.HTTPOptions{
			Timeout:         timeout,
			CAFile:          c.CAFile,
			MaxResponseSize: c.MaxResponseSize,
		},
	}, nil
}
