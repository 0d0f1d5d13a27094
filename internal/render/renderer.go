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

package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sirseerhq/unraidql/internal/unraid"
)

// Renderer formats dispatch results for human consumption. Data payloads
// go to the output writer; section banners, GraphQL errors, and failure
// reports go to the status stream so piped output stays clean JSON.
type Renderer struct {
	out     OutputWriter
	status  io.Writer
	header  *color.Color
	errText *color.Color
	okText  *color.Color
}

// NewRenderer creates a Renderer. Payloads are written to out, everything
// else to status.
func NewRenderer(out OutputWriter, status io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		status:  status,
		header:  color.New(color.FgCyan, color.Bold),
		errText: color.New(color.FgRed),
		okText:  color.New(color.FgGreen),
	}
}

// Section prints a banner for the next result to the status stream.
func (r *Renderer) Section(title string) {
	fmt.Fprintln(r.status)
	r.header.Fprintf(r.status, "=== %s ===\n", title)
}

// Result renders one response. The data payload is pretty-printed with
// its fields in the order the server sent them. GraphQL errors render to
// the status stream; a response can carry both when the server answered
// partially.
func (r *Renderer) Result(resp *unraid.Response) error {
	if len(resp.Errors) > 0 {
		r.graphqlErrors(resp.Errors)
	}
	if !resp.HasData() {
		if len(resp.Errors) == 0 {
			fmt.Fprintln(r.status, "(no data)")
		}
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Data, "", "  "); err != nil {
		// Not JSON we can reformat; emit verbatim.
		return r.out.Write(resp.Data)
	}
	return r.out.Write(buf.Bytes())
}

// Failure reports a failed dispatch to the status stream. When the server
// sent a structured JSON body it is printed in full; plain-text bodies are
// already summarized in the error itself.
func (r *Renderer) Failure(key string, resp *unraid.Response, err error) {
	r.errText.Fprintf(r.status, "%s failed: %v\n", key, err)
	if resp == nil || len(resp.Body) == 0 {
		return
	}
	var buf bytes.Buffer
	if json.Indent(&buf, resp.Body, "", "  ") == nil {
		fmt.Fprintln(r.status, buf.String())
	}
}

// Identity reports a successful connection check.
func (r *Renderer) Identity(id *unraid.Identity) {
	r.okText.Fprintln(r.status, "Connection OK")
	fmt.Fprintf(r.status, "Authenticated as %s", id.Name)
	if len(id.Roles) > 0 {
		fmt.Fprintf(r.status, " (%s)", strings.Join(id.Roles, ", "))
	}
	fmt.Fprintln(r.status)
}

func (r *Renderer) graphqlErrors(errs []unraid.GraphQLError) {
	r.errText.Fprintf(r.status, "GraphQL errors (%d):\n", len(errs))
	for _, e := range errs {
		line := "  - " + e.Message
		if len(e.Path) > 0 {
			line += " (path: " + formatPath(e.Path) + ")"
		}
		if len(e.Locations) > 0 {
			line += fmt.Sprintf(" [line %d, column %d]", e.Locations[0].Line, e.Locations[0].Column)
		}
		fmt.Fprintln(r.status, line)
	}
}

// formatPath joins GraphQL error path segments, which mix field names
// and list indices.
func formatPath(path []any) string {
	parts := make([]string, 0, len(path))
	for _, seg := range path {
		parts = append(parts, fmt.Sprintf("%v", seg))
	}
	return strings.Join(parts, ".")
}
