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

// Package config defines the immutable per-invocation configuration for
// unraidql. All values come from command-line flags; there is no
// configuration file and no environment lookup. The Config is constructed
// once by argument parsing and passed by reference into the resolver and
// dispatcher, never held as ambient state.
package config

import (
	"fmt"
	"net"
	"strconv"
)

// Config holds the connection settings for one invocation.
type Config struct {
	// Host is the appliance address, an IP or hostname without scheme.
	Host string

	// Port is an optional TCP port joined onto Host. Zero means the
	// scheme default.
	Port int

	// PreferHTTPS selects https for both the redirect probe and the
	// GraphQL dispatch. The appliance default is plain http on the LAN.
	PreferHTTPS bool

	// SkipRedirectCheck disables the endpoint probe entirely; requests
	// go straight to Host with no proxy-hostname discovery.
	SkipRedirectCheck bool

	// APIKey authenticates every request via the x-api-key header.
	APIKey Credential
}

// Validate checks that the configuration is complete enough to dispatch
// requests. It is called once after flag parsing, before any network I/O.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("server address is required, use --ip")
	}
	if c.APIKey == "" {
		return fmt.Errorf("API key is required, use --key")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// Target returns the host, with the port joined when one was given.
func (c *Config) Target() string {
	if c.Port == 0 {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Credential is an API key that refuses to print itself. The raw value is
// only reachable through Value(); fmt verbs get the redacted form so a
// stray log line cannot leak the key.
type Credential string

// Value returns the raw key for request headers.
func (c Credential) Value() string {
	return string(c)
}

// Redacted returns the key with everything past a short prefix masked.
func (c Credential) Redacted() string {
	const keep = 4
	if len(c) <= keep {
		return "****"
	}
	return string(c[:keep]) + "****"
}

// String implements fmt.Stringer and returns the redacted form.
func (c Credential) String() string {
	return c.Redacted()
}
