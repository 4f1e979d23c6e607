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

package config

import "fmt"

// InvalidValueError is used when a config.json entry cannot be interpreted.
type InvalidValueError struct {
	Key   string
	Value string
	Err   error
}

// Error returns the error message.
func (e InvalidValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Key, e.Value)
}

// Unwrap returns the underlying error.
func (e InvalidValueError) Unwrap() error {
	return e.Err
}
