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
	"encoding/json"
	"strings"
	"testing"
)

func TestFilterImportant(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantKept    int
		wantDropped int
		wantTitles  []string
	}{
		{
			name: "mixed importances",
			data: `{"notifications":{"list":[
				{"title":"Array started","importance":"INFO"},
				{"title":"Disk temperature high","importance":"WARNING"},
				{"title":"Parity check running","importance":"INFO"},
				{"title":"Disk failure imminent","importance":"ALERT"}
			]}}`,
			wantKept:    2,
			wantDropped: 2,
			wantTitles:  []string{"Disk temperature high", "Disk failure imminent"},
		},
		{
			name: "info only",
			data: `{"notifications":{"list":[
				{"title":"Backup complete","importance":"INFO"}
			]}}`,
			wantKept:    0,
			wantDropped: 1,
		},
		{
			name:        "empty list",
			data:        `{"notifications":{"list":[]}}`,
			wantKept:    0,
			wantDropped: 0,
		},
		{
			name:        "all important",
			data:        `{"notifications":{"list":[{"title":"a","importance":"ALERT"},{"title":"b","importance":"WARNING"}]}}`,
			wantKept:    2,
			wantDropped: 0,
			wantTitles:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, kept, dropped, err := FilterImportant(json.RawMessage(tt.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if kept != tt.wantKept {
				t.Errorf("kept = %d, want %d", kept, tt.wantKept)
			}
			if dropped != tt.wantDropped {
				t.Errorf("dropped = %d, want %d", dropped, tt.wantDropped)
			}

			var payload struct {
				Notifications struct {
					List []struct {
						Title      string `json:"title"`
						Importance string `json:"importance"`
					} `json:"list"`
				} `json:"notifications"`
			}
			if err := json.Unmarshal(filtered, &payload); err != nil {
				t.Fatalf("filtered payload is not valid JSON: %v", err)
			}

			if len(payload.Notifications.List) != tt.wantKept {
				t.Fatalf("filtered list has %d entries, want %d", len(payload.Notifications.List), tt.wantKept)
			}
			for i, want := range tt.wantTitles {
				if payload.Notifications.List[i].Title != want {
					t.Errorf("entry %d: got title %q, want %q", i, payload.Notifications.List[i].Title, want)
				}
			}
			for _, entry := range payload.Notifications.List {
				if entry.Importance != "WARNING" && entry.Importance != "ALERT" {
					t.Errorf("entry with importance %q survived the filter", entry.Importance)
				}
			}
		})
	}
}

func TestFilterImportant_PreservesEntryBytes(t *testing.T) {
	// Field order inside an entry must survive filtering untouched.
	entry := `{"timestamp":"2026-01-15T10:00:00Z","title":"Disk failure imminent","importance":"ALERT","id":"n-1"}`
	data := `{"notifications":{"list":[` + entry + `]}}`

	filtered, kept, _, err := FilterImportant(json.RawMessage(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept != 1 {
		t.Fatalf("kept = %d, want 1", kept)
	}

	if !strings.Contains(string(filtered), entry) {
		t.Errorf("entry bytes were not preserved:\nfiltered: %s\nentry:    %s", filtered, entry)
	}
}

func TestFilterImportant_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "not json",
			data: "<html>",
		},
		{
			name: "list holds non-objects",
			data: `{"notifications":{"list":["plain string"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := FilterImportant(json.RawMessage(tt.data))
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFilterImportant_MissingNotificationsField(t *testing.T) {
	// A payload without a notifications object filters to an empty list
	// rather than failing.
	filtered, kept, dropped, err := FilterImportant(json.RawMessage(`{"unrelated":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept != 0 || dropped != 0 {
		t.Errorf("kept = %d, dropped = %d, want 0, 0", kept, dropped)
	}
	if !strings.Contains(string(filtered), `"list":[]`) {
		t.Errorf("expected empty list in filtered payload, got %s", filtered)
	}
}
