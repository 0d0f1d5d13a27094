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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidKey indicates the appliance rejected the API key (HTTP 401/403).
	// Maps to exit code 2.
	ErrInvalidKey = errors.New("invalid api key")

	// ErrNetworkFailure indicates a network connection problem reaching the appliance.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRequestFailed indicates the appliance answered with a non-2xx HTTP status.
	// Maps to exit code 1. Batch mode reports it per catalog key and continues.
	ErrRequestFailed = errors.New("request failed")

	// ErrUnknownQuery indicates a catalog key that is not registered.
	// Reported before any request is sent. Maps to exit code 1.
	ErrUnknownQuery = errors.New("unknown query")

	// ErrUnsupported indicates an operation the appliance does not expose
	// (Docker and VM control). No request is ever sent. Maps to exit code 1.
	ErrUnsupported = errors.New("operation not supported by the server")

	// ErrRedirectProbe indicates the endpoint redirect probe failed. It is
	// never fatal: the caller degrades to the direct endpoint with a warning.
	ErrRedirectProbe = errors.New("redirect probe failed")
)
