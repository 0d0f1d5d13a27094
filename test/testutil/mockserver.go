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

// Package testutil provides common test helpers for unraidql
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// MockServer wraps an httptest server with a request counter
type MockServer struct {
	*httptest.Server
	hits int32
}

// Hits returns the number of requests the server has received
func (m *MockServer) Hits() int32 {
	return atomic.LoadInt32(&m.hits)
}

func (m *MockServer) counting(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.hits, 1)
		handler(w, r)
	}
}

// NewMockServer creates a counting mock server with a custom handler
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(mock.counting(handler))
	return mock
}

// NewStaticServer creates a mock server that answers every GraphQL request
// with the same payload
func NewStaticServer(t *testing.T, payload interface{}) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(mock.counting(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	return mock
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(mock.counting(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	}))
	return mock
}

// NewAuthErrorServer creates a mock server that rejects every request as
// unauthorized
func NewAuthErrorServer(t *testing.T) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(mock.counting(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	return mock
}

// NewRedirectProbeServer creates a mock server that answers the HEAD probe
// with a redirect to location and answers GraphQL requests with payload
func NewRedirectProbeServer(t *testing.T, location string, payload interface{}) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(mock.counting(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Location", location)
			w.WriteHeader(http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	return mock
}

// NewSlowProbeServer creates a mock server whose HEAD probe hangs for delay
// while GraphQL requests answer immediately. Used to exercise the probe
// timeout fallback.
func NewSlowProbeServer(t *testing.T, delay time.Duration, payload interface{}) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(mock.counting(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			time.Sleep(delay)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	return mock
}

// GenerateDataResponse wraps a single root field in a GraphQL data envelope
func GenerateDataResponse(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			field: value,
		},
	}
}

// GenerateInfoResponse generates a mock response for the server info query
func GenerateInfoResponse() map[string]interface{} {
	return GenerateDataResponse("info", map[string]interface{}{
		"os": map[string]interface{}{
			"platform": "linux",
			"distro":   "Unraid",
			"release":  "7.0.0",
			"uptime":   "2026-08-01T00:00:00Z",
		},
		"cpu": map[string]interface{}{
			"manufacturer": "Intel",
			"brand":        "Xeon E5-2680",
			"cores":        8,
			"threads":      16,
		},
	})
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != "POST" {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
	if key := r.Header.Get("x-api-key"); key == "" {
		t.Error("Expected x-api-key header to be set")
	}
}
