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

package testutil

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// DecodeJSONBlocks parses a stream of concatenated JSON values, the shape
// the data writer produces: one indented object per dispatched query.
func DecodeJSONBlocks(t *testing.T, raw string) []map[string]interface{} {
	t.Helper()

	var blocks []map[string]interface{}
	decoder := json.NewDecoder(strings.NewReader(raw))
	for decoder.More() {
		var block map[string]interface{}
		if err := decoder.Decode(&block); err != nil {
			t.Fatalf("Block %d: invalid JSON: %v", len(blocks)+1, err)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// AssertJSONBlocks validates that output contains the expected number of
// well-formed JSON values
func AssertJSONBlocks(t *testing.T, raw string, expectedCount int) []map[string]interface{} {
	t.Helper()

	blocks := DecodeJSONBlocks(t, raw)
	if len(blocks) != expectedCount {
		t.Errorf("Expected %d JSON blocks, got %d", expectedCount, len(blocks))
	}
	return blocks
}

// AssertIndented checks that output is indented the way the renderer
// prints it, not compact single-line JSON
func AssertIndented(t *testing.T, raw string) {
	t.Helper()

	if !strings.Contains(raw, "\n  ") {
		t.Errorf("Expected indented JSON output, got: %s", raw)
	}
}

// AssertOutputFile validates that a data file exists and contains the
// expected number of JSON blocks
func AssertOutputFile(t *testing.T, path string, expectedCount int) []map[string]interface{} {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	return AssertJSONBlocks(t, string(content), expectedCount)
}

// AssertFileExists checks that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Expected file to exist: %s", path)
	}
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertErrorContains checks if an error contains expected text
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain %q, got: %v", expected, err)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
