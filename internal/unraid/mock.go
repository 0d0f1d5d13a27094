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
	"encoding/json"
	"fmt"
	"net/http"

	uqerrors "github.com/sirseerhq/unraidql/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Response to return
	Response *Response

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool
	ShouldFailRequest bool

	// Track calls for verification
	CallCount     int
	LastQuery     string
	LastVariables map[string]any
	Queries       []string
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Response: generateTestResponse(),
	}
}

// Execute implements the Client interface
func (m *MockClient) Execute(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	// Track the call
	m.CallCount++
	m.LastQuery = query
	m.LastVariables = variables
	m.Queries = append(m.Queries, query)

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Simulate various error conditions
	if m.ShouldFailAuth {
		return &Response{
			StatusCode: http.StatusUnauthorized,
			Body:       []byte(`{"errors":[{"message":"Unauthorized"}]}`),
		}, fmt.Errorf("authentication failed: %w", uqerrors.ErrInvalidKey)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("connection timeout: %w", uqerrors.ErrNetworkFailure)
	}

	if m.ShouldFailRequest {
		return &Response{
			StatusCode: http.StatusInternalServerError,
			Body:       []byte("internal server error"),
		}, fmt.Errorf("server returned 500 Internal Server Error: %w", uqerrors.ErrRequestFailed)
	}

	// Return configured error if set
	if m.Error != nil {
		return nil, m.Error
	}

	return m.Response, nil
}

// generateTestResponse creates a sample successful response for testing
func generateTestResponse() *Response {
	data := `{"info":{"os":{"platform":"linux","distro":"Unraid","release":"7.0.0"},"cpu":{"manufacturer":"Intel","cores":8}}}`
	return &Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"data":` + data + `}`),
		Data:       json.RawMessage(data),
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithResponse sets a specific response to return
func WithResponse(resp *Response) MockClientOption {
	return func(m *MockClient) {
		m.Response = resp
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithGraphQLErrors attaches GraphQL-level errors to the default
// response, turning it into a partial result
func WithGraphQLErrors(errs []GraphQLError) MockClientOption {
	return func(m *MockClient) {
		envelope := struct {
			Data   json.RawMessage `json:"data"`
			Errors []GraphQLError  `json:"errors,omitempty"`
		}{Data: m.Response.Data, Errors: errs}
		body, err := json.Marshal(envelope)
		if err == nil {
			m.Response.Body = body
		}
		m.Response.Errors = errs
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
