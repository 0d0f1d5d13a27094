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
	"encoding/json"
)

// graphqlRequest is the JSON body shape for a GraphQL HTTP request.
// Variables are omitted entirely when nil.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Location is a position in a GraphQL document referenced by an error.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError is one entry of a GraphQL response's errors list.
type GraphQLError struct {
	Message   string     `json:"message"`
	Path      []any      `json:"path,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

// Response is the verbatim outcome of one dispatch. Data and Errors are
// split out of the body for the presenter; Body keeps the exact bytes the
// server sent. GraphQL-level errors are not interpreted here.
type Response struct {
	StatusCode int
	Body       []byte
	Data       json.RawMessage
	Errors     []GraphQLError
}

var jsonNull = []byte("null")

// HasData reports whether the response carried a non-null data payload.
func (r *Response) HasData() bool {
	trimmed := bytes.TrimSpace(r.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, jsonNull)
}

// Partial reports whether the response is a GraphQL partial result: data
// and errors both present. Partial results are not hard failures.
func (r *Response) Partial() bool {
	return r.HasData() && len(r.Errors) > 0
}
