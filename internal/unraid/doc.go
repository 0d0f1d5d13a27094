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

// Package unraid talks to an Unraid server's GraphQL API over HTTP. It
// resolves the endpoint once per run, then dispatches literal GraphQL
// documents and returns the responses verbatim for display.
//
// The package includes:
//   - A Resolver that probes the server for the redirect it uses to
//     advertise its reverse-proxy hostname
//   - A Client interface for dispatching documents and a production
//     HTTPClient that authenticates via the x-api-key header
//   - A typed identity preflight built on the shurcooL/graphql library
//   - Mock client for testing
//
// Basic usage:
//
//	resolver := unraid.NewResolver(nil)
//	endpoint, warn := resolver.Resolve(ctx, "192.168.1.100", false, false)
//	if warn != nil {
//	    // Probe failed; endpoint still targets the server directly
//	}
//	client := unraid.NewHTTPClient(endpoint, cfg.APIKey)
//	resp, err := client.Execute(ctx, "query { online }", nil)
package unraid
