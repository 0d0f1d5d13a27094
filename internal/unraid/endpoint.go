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
	"context"
	"fmt"
	"net/http"
	"net/url"

	uqerrors "github.com/sirseerhq/unraidql/internal/errors"
)

// Endpoint is the fully resolved dispatch target for one run. ResolvedURL
// always points at the address the user gave; RedirectHost, when set, is
// the proxy hostname discovered by the probe and feeds the Host, Origin,
// and Referer headers so the reverse proxy routes requests correctly.
type Endpoint struct {
	// Host is the address the user supplied, with port if any.
	Host string

	// Scheme is "http" or "https".
	Scheme string

	// ResolvedURL is the GraphQL endpoint requests are sent to.
	ResolvedURL string

	// RedirectHost is the hostname from the probe's Location header.
	// Empty when no redirect was discovered or the probe was skipped.
	RedirectHost string
}

// HeaderHost returns the value for the Host header.
func (e Endpoint) HeaderHost() string {
	if e.RedirectHost != "" {
		return e.RedirectHost
	}
	return e.Host
}

// HeaderOrigin returns the value for the Origin header. A discovered
// proxy is always fronted by TLS, so its origin is https regardless of
// the scheme requests travel over.
func (e Endpoint) HeaderOrigin() string {
	if e.RedirectHost != "" {
		return "https://" + e.RedirectHost
	}
	return e.Scheme + "://" + e.Host
}

// HeaderReferer returns the value for the Referer header.
func (e Endpoint) HeaderReferer() string {
	return e.HeaderOrigin() + "/dashboard"
}

// Resolver discovers the GraphQL endpoint for a server address by probing
// for a reverse-proxy redirect. The zero value is not usable; construct
// with NewResolver.
type Resolver struct {
	client *http.Client
}

// NewResolver returns a Resolver that probes with the given HTTP client.
// Pass nil to use http.DefaultClient.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{client: client}
}

// Resolve builds the Endpoint for target, an IP or hostname with optional
// port. Unless skipped, it sends a single HEAD probe to the endpoint URL
// without following redirects; a 3xx response with a parseable Location
// records the proxy hostname. The returned Endpoint is always usable.
// A non-nil error wraps ErrRedirectProbe and is advisory only: it means
// the probe itself could not complete, not that dispatch will fail.
func (r *Resolver) Resolve(ctx context.Context, target string, preferHTTPS, skipRedirectCheck bool) (Endpoint, error) {
	scheme := "http"
	if preferHTTPS {
		scheme = "https"
	}
	ep := Endpoint{
		Host:        target,
		Scheme:      scheme,
		ResolvedURL: fmt.Sprintf("%s://%s/graphql", scheme, target),
	}
	if skipRedirectCheck {
		return ep, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, ep.ResolvedURL, nil)
	if err != nil {
		return ep, fmt.Errorf("%w: building probe request: %v", uqerrors.ErrRedirectProbe, err)
	}

	resp, err := r.probeClient().Do(req)
	if err != nil {
		return ep, fmt.Errorf("%w: %v", uqerrors.ErrRedirectProbe, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return ep, nil
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return ep, nil
	}
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return ep, nil
	}
	ep.RedirectHost = u.Host
	return ep, nil
}

// probeClient returns a shallow copy of the resolver's client that
// reports redirects instead of following them. The probe must see the
// 3xx itself; the Location header is the whole point.
func (r *Resolver) probeClient() *http.Client {
	probe := *r.client
	probe.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &probe
}
