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

// Package dir implements tsaclient directory structure.
//
// The config file lives in the user level config directory:
//
//   - Linux: $XDG_CONFIG_HOME/tsaclient/config.json, falling back to
//     $HOME/.config/tsaclient/config.json
//   - macOS: $HOME/Library/Application Support/tsaclient/config.json
//   - Windows: %AppData%\tsaclient\config.json
package dir

import (
	"os"
	"path/filepath"
)

// The relative path to {TSACLIENT_CONFIG}
const (
	// PathConfigFile is the config file name.
	PathConfigFile = "config.json"

	// PathEnvFile is the dotenv file read by the command line tool.
	PathEnvFile = ".env"
)

const tsaclient = "tsaclient"

// UserConfigDir is user level config directory. It is resolved on first use
// unless set beforehand.
var UserConfigDir string

// for unit tests
var userConfigDir = os.UserConfigDir

// userConfigDirPath returns the user level {TSACLIENT_CONFIG} path.
func userConfigDirPath() string {
	if UserConfigDir == "" {
		userDir, err := userConfigDir()
		if err != nil {
			// no home directory: fall back to the working directory
			userDir = "."
		}
		UserConfigDir = filepath.Join(userDir, tsaclient)
	}
	return UserConfigDir
}

// ConfigFile returns the path of the user level config file
// {TSACLIENT_CONFIG}/config.json.
func ConfigFile() string {
	return filepath.Join(userConfigDirPath(), PathConfigFile)
}
