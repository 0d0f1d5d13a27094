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
	"fmt"
)

// importantLevels are the importance values the important-only filter keeps.
var importantLevels = map[string]bool{
	"WARNING": true,
	"ALERT":   true,
}

// FilterImportant rewrites a notifications data payload, keeping only
// WARNING and ALERT entries. Kept entries are preserved byte for byte.
// Returns the filtered payload, the number of entries kept, and the
// number dropped.
func FilterImportant(data json.RawMessage) (json.RawMessage, int, int, error) {
	var payload struct {
		Notifications struct {
			List []json.RawMessage `json:"list"`
		} `json:"notifications"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, 0, 0, fmt.Errorf("decoding notifications payload: %w", err)
	}

	kept := make([]json.RawMessage, 0, len(payload.Notifications.List))
	for _, raw := range payload.Notifications.List {
		var entry struct {
			Importance string `json:"importance"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, 0, 0, fmt.Errorf("decoding notification entry: %w", err)
		}
		if importantLevels[entry.Importance] {
			kept = append(kept, raw)
		}
	}

	filtered, err := json.Marshal(map[string]any{
		"notifications": map[string]any{"list": kept},
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("encoding filtered payload: %w", err)
	}

	dropped := len(payload.Notifications.List) - len(kept)
	return filtered, len(kept), dropped, nil
}
