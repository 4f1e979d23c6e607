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
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables, set with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the tsaclient version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "tsaclient - RFC 3161 time-stamp client")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Version:     %s\n", version)
			fmt.Fprintf(out, "Go version:  %s\n", runtime.Version())
			fmt.Fprintf(out, "Git commit:  %s\n", commit)
		},
	}
}
