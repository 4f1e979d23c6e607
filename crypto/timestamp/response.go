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

// Response is the outcome of one exchange with a TSA.
type Response struct {
	// Query is the DER encoded TimeStampReq, as sent to the TSA.
	// It is conventionally persisted with the .tsq extension.
	Query []byte

	// Reply is the DER encoded TimeStampResp, as received from the TSA.
	// It is conventionally persisted with the .tsr extension.
	Reply []byte
}
