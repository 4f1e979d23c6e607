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
	"context"
	"fmt"
	"log"
	"os"

	"github.com/notaryproject/tsaclient-go"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage:", os.Args[0], "<file>")
		os.Exit(2)
	}
	path := os.Args[1]

	fmt.Println(">>> Request timestamp from", tsaclient.DefaultEndpoint)
	resp, err := tsaclient.TimestampFile(context.Background(), path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(">>> Save timestamp response")
	queryPath, replyPath := outputPaths(path)
	if err := tsaclient.SaveResponse(resp, queryPath, replyPath); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Download cacert.pem and tsa.crt from https://freetsa.org, then")
	fmt.Printf("run `openssl ts -verify -in %s -data %s -CAfile cacert.pem -untrusted tsa.crt`\n", replyPath, path)
}

// outputPaths returns the paths the query and the reply of the time-stamp of
// the file at path are saved to, next to the file.
func outputPaths(path string) (queryPath, replyPath string) {
	return path + ".tsq", path + ".tsr"
}
