// Copyright 2026 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package unraid

import (
	"fmt"
	"io"
	"net/http"

	"github.com/sirseerhq/unraidql/internal/config"
	"github.com/sirseerhq/unraidql/pkg/version"
)

// maxResponseSize caps response bodies at 10MB to prevent memory
// exhaustion from a misbehaving server.
const maxResponseSize = 10 * 1024 * 1024

// headerTransport injects the API key and proxy-routing headers into
// every request. The reverse proxy in front of the appliance routes on
// Host and rejects cross-origin requests, so Host, Origin, and Referer
// must all agree with the discovered proxy hostname.
type headerTransport struct {
	endpoint Endpoint
	key      config.Credential
	base     http.RoundTripper
}

// RoundTrip implements http.RoundTripper. It clones the request to avoid
// mutating the caller's copy.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set("Accept", "application/json")
	reqCopy.Header.Set("x-api-key", t.key.Value())
	reqCopy.Header.Set("Origin", t.endpoint.HeaderOrigin())
	reqCopy.Header.Set("Referer", t.endpoint.HeaderReferer())
	reqCopy.Header.Set("User-Agent", fmt.Sprintf("unraidql/%s", version.Version))
	reqCopy.Host = t.endpoint.HeaderHost()
	return t.base.RoundTrip(reqCopy)
}

// limitResponseBody caps the bytes read from a response body.
func limitResponseBody(r io.Reader) io.Reader {
	return io.LimitReader(r, maxResponseSize)
}
