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

// Package render formats GraphQL responses for the terminal.
//
// Data payloads are pretty-printed as indented JSON with fields in the
// order the server sent them and written through an OutputWriter, which
// targets stdout or a file. Section banners, GraphQL error lists, and
// failure reports go to a separate status stream so that piping the
// output always yields clean JSON.
//
// The important-only notification filter lives here as well: it rewrites
// a notifications payload to keep only WARNING and ALERT entries before
// rendering.
package render
