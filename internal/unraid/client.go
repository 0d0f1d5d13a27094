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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirseerhq/unraidql/internal/config"
	uqerrors "github.com/sirseerhq/unraidql/internal/errors"
)

// Client executes GraphQL operations against an appliance endpoint.
type Client interface {
	// Execute sends one GraphQL document with optional variables and
	// returns the server's response. A non-nil Response may accompany a
	// non-nil error when the server answered with a failure status; the
	// error then wraps the matching sentinel from internal/errors.
	// GraphQL-level errors inside a 2xx response are returned in the
	// Response, not as an error.
	Execute(ctx context.Context, query string, variables map[string]any) (*Response, error)
}

// HTTPClient implements Client over HTTP. Safe for concurrent use.
type HTTPClient struct {
	endpoint Endpoint
	client   *http.Client
}

// NewHTTPClient creates a client for the resolved endpoint. Redirects are
// followed during dispatch; the injected Host, Origin, and Referer headers
// keep a reverse proxy routing requests back to the appliance. No client
// timeout is set, a request runs until the server answers or ctx is
// canceled.
func NewHTTPClient(endpoint Endpoint, key config.Credential) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		// #nosec G402 - LAN appliances serve self-signed certificates
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return &HTTPClient{
		endpoint: endpoint,
		client: &http.Client{
			Transport: &headerTransport{endpoint: endpoint, key: key, base: transport},
		},
	}
}

// Execute implements Client.
func (c *HTTPClient) Execute(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.ResolvedURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", uqerrors.ErrNetworkFailure, c.endpoint.ResolvedURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(limitResponseBody(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %s: %v", uqerrors.ErrNetworkFailure, c.endpoint.ResolvedURL, err)
	}

	result := &Response{StatusCode: resp.StatusCode, Body: body}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return result, fmt.Errorf("%w: POST %s returned %s: %s", uqerrors.ErrInvalidKey, c.endpoint.ResolvedURL, resp.Status, bodySnippet(body))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return result, fmt.Errorf("%w: POST %s returned %s: %s", uqerrors.ErrRequestFailed, c.endpoint.ResolvedURL, resp.Status, bodySnippet(body))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return result, fmt.Errorf("%w: response from %s is not valid JSON: %v", uqerrors.ErrRequestFailed, c.endpoint.ResolvedURL, err)
	}
	result.Data = envelope.Data
	result.Errors = envelope.Errors
	return result, nil
}

// errorBodyLimit caps how much of a failed response body appears in
// error messages.
const errorBodyLimit = 200

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "(empty body)"
	}
	if len(s) > errorBodyLimit {
		return s[:errorBodyLimit] + "..."
	}
	return s
}
