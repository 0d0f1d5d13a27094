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

package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	uqerrors "github.com/sirseerhq/unraidql/internal/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"gopkg.in/yaml.v3"
)

// Reserved keys. "all" expands to every query-kind entry; "custom" carries
// a caller-supplied document that bypasses the catalog.
const (
	KeyAll    = "all"
	KeyCustom = "custom"
)

// Kind distinguishes read queries from mutations. Mutations are registered
// in the catalog but excluded from batch expansion.
type Kind string

// Catalog entry kinds
const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Entry is one named GraphQL document. Entries are static: loaded once
// from the embedded catalog and never mutated.
type Entry struct {
	// Key is the unique, case-sensitive catalog name.
	Key string `yaml:"key"`

	// Kind is query or mutation.
	Kind Kind `yaml:"kind"`

	// Section is the display header printed before the entry's response.
	Section string `yaml:"section"`

	// Requires lists variable names that must be present at dispatch time.
	Requires []string `yaml:"requires"`

	// Document is the literal GraphQL text sent to the server.
	Document string `yaml:"document"`
}

// MissingVariables returns the required variable names absent from vars,
// in declaration order. An empty result means the entry can be dispatched.
func (e Entry) MissingVariables(vars map[string]any) []string {
	var missing []string
	for _, name := range e.Requires {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Custom builds the pseudo-entry for a caller-supplied GraphQL document.
// It is never registered in the catalog; the kind is nominal since custom
// documents dispatch identically either way.
func Custom(document string) Entry {
	return Entry{
		Key:      KeyCustom,
		Kind:     KindQuery,
		Section:  "CUSTOM QUERY RESULT",
		Document: document,
	}
}

//go:embed catalog.yaml
var rawCatalog []byte

// Catalog is the read-only lookup table of named GraphQL documents.
// File order in catalog.yaml defines batch dispatch order.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// Load parses the embedded catalog and validates every entry: keys must be
// unique and unreserved, kinds known, and documents parseable GraphQL.
func Load() (*Catalog, error) {
	var doc struct {
		Entries []Entry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(rawCatalog, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("embedded catalog has no entries")
	}

	c := &Catalog{
		entries: doc.Entries,
		index:   make(map[string]int, len(doc.Entries)),
	}
	for i, e := range doc.Entries {
		if e.Key == "" {
			return nil, fmt.Errorf("catalog entry %d has no key", i)
		}
		if e.Key == KeyAll || e.Key == KeyCustom {
			return nil, fmt.Errorf("catalog key %q is reserved", e.Key)
		}
		if e.Kind != KindQuery && e.Kind != KindMutation {
			return nil, fmt.Errorf("catalog entry %q has unknown kind %q", e.Key, e.Kind)
		}
		if _, dup := c.index[e.Key]; dup {
			return nil, fmt.Errorf("catalog key %q registered twice", e.Key)
		}
		if err := ValidateDocument(e.Document); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Key, err)
		}
		c.index[e.Key] = i
	}

	return c, nil
}

// ValidateDocument checks that a GraphQL document parses. Schema-level
// validation stays with the server; this only catches malformed text.
func ValidateDocument(document string) error {
	if strings.TrimSpace(document) == "" {
		return fmt.Errorf("document is empty")
	}
	if _, err := parser.ParseQuery(&ast.Source{Name: "document", Input: document}); err != nil {
		return fmt.Errorf("invalid GraphQL document: %w", err)
	}
	return nil
}

// Lookup returns the entry registered under key. Unknown keys fail with
// ErrUnknownQuery before any request is sent.
func (c *Catalog) Lookup(key string) (Entry, error) {
	i, ok := c.index[key]
	if !ok {
		choices := append(c.QueryKeys(), KeyAll)
		return Entry{}, fmt.Errorf("%q is not a registered query, choose from: %s: %w",
			key, strings.Join(choices, ", "), uqerrors.ErrUnknownQuery)
	}
	return c.entries[i], nil
}

// Expand resolves key to the ordered sequence of entries to dispatch.
// The reserved key "all" expands to every query-kind entry exactly once,
// in catalog order; mutations never run in batch mode. Any other key
// resolves through Lookup to a single entry.
func (c *Catalog) Expand(key string) ([]Entry, error) {
	if key != KeyAll {
		e, err := c.Lookup(key)
		if err != nil {
			return nil, err
		}
		return []Entry{e}, nil
	}

	queries := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Kind == KindQuery {
			queries = append(queries, e)
		}
	}
	return queries, nil
}

// QueryKeys returns the keys of all query-kind entries in catalog order.
func (c *Catalog) QueryKeys() []string {
	keys := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Kind == KindQuery {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
