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

// Package catalog maps short symbolic names to literal GraphQL documents
// for the Unraid API. The catalog is embedded in the binary as YAML and
// loaded once at startup; adding an operation is a data change, not a
// code change.
//
// Keys are unique and case-sensitive. The reserved key "all" expands to
// every query-kind entry in catalog order so batch mode dispatches each
// exactly once; mutations are registered alongside the queries but are
// never part of the expansion. The "custom" pseudo-entry carries a
// caller-supplied document around the catalog entirely.
//
// Basic usage:
//
//	cat, err := catalog.Load()
//	if err != nil {
//	    // Handle error
//	}
//	entries, err := cat.Expand("all")
//	for _, entry := range entries {
//	    // Dispatch entry.Document
//	}
package catalog
