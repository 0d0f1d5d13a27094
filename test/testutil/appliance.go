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
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestAPIKey is the key the appliance server accepts by default.
const TestAPIKey = "test-key"

// ApplianceServer mocks an Unraid GraphQL endpoint with enough behavior
// for end-to-end tests: API key auth, a HEAD probe that can advertise a
// proxy hostname, realistic payloads for every catalog query, and
// notification state that mutations actually change.
type ApplianceServer struct {
	*httptest.Server
	mu            sync.RWMutex
	apiKey        string
	redirectHost  string
	probes        int32
	history       []GraphQLRequest
	notifications []map[string]interface{}
}

// GraphQLRequest records one GraphQL request as the server saw it
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
	Host      string
	Origin    string
	Timestamp time.Time
}

// NewApplianceServer creates a mock appliance that requires TestAPIKey
func NewApplianceServer(t *testing.T) *ApplianceServer {
	t.Helper()

	mock := &ApplianceServer{
		apiKey:        TestAPIKey,
		notifications: seedNotifications(),
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			atomic.AddInt32(&mock.probes, 1)
			mock.mu.RLock()
			redirect := mock.redirectHost
			mock.mu.RUnlock()
			if redirect != "" {
				w.Header().Set("Location", "https://"+redirect+"/graphql")
				w.WriteHeader(http.StatusFound)
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}

		if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if r.Header.Get("x-api-key") != mock.apiKey {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}

		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Problems parsing JSON"}`))
			return
		}
		req.Host = r.Host
		req.Origin = r.Header.Get("Origin")
		req.Timestamp = time.Now()

		mock.mu.Lock()
		mock.history = append(mock.history, req)
		mock.mu.Unlock()

		response := mock.respond(req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))

	return mock
}

// SetRedirectHost makes the HEAD probe advertise a proxy hostname
func (m *ApplianceServer) SetRedirectHost(host string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirectHost = host
}

// Probes returns the number of HEAD probes received
func (m *ApplianceServer) Probes() int32 {
	return atomic.LoadInt32(&m.probes)
}

// History returns a copy of the GraphQL requests received so far
func (m *ApplianceServer) History() []GraphQLRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]GraphQLRequest, len(m.history))
	copy(history, m.history)
	return history
}

// RequestCount returns the number of GraphQL requests received
func (m *ApplianceServer) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.history)
}

// UnreadNotifications returns the current unread notification titles
func (m *ApplianceServer) UnreadNotifications() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	titles := make([]string, 0, len(m.notifications))
	for _, n := range m.notifications {
		titles = append(titles, n["title"].(string))
	}
	return titles
}

// respond routes a request to the matching payload. Whitespace is
// stripped first so hand-written and generated documents route the same.
func (m *ApplianceServer) respond(req GraphQLRequest) map[string]interface{} {
	q := strings.ReplaceAll(strings.ReplaceAll(req.Query, " ", ""), "\n", "")

	if strings.Contains(q, "mutation") {
		return m.respondMutation(q, req.Variables)
	}
	return m.respondQuery(q, req.Variables)
}

func (m *ApplianceServer) respondQuery(q string, vars map[string]interface{}) map[string]interface{} {
	switch {
	case strings.Contains(q, "notifications"):
		return m.notificationsPayload(vars)
	case strings.Contains(q, "parityHistory"):
		return data("parityHistory", []map[string]interface{}{
			{"date": "2026-08-01T04:00:00Z", "duration": 28800, "speed": "142 MB/s", "status": "OK", "errors": 0},
			{"date": "2026-07-01T04:00:00Z", "duration": 29100, "speed": "139 MB/s", "status": "OK", "errors": 0},
		})
	case strings.Contains(q, "apiKeys"):
		return data("apiKeys", []map[string]interface{}{
			{"id": "key-1", "name": "automation", "description": "CI access", "roles": []string{"admin"}, "createdAt": "2026-01-15T09:30:00Z"},
		})
	case strings.Contains(q, "me{"):
		return data("me", map[string]interface{}{
			"id":    "user-1",
			"name":  "root",
			"roles": []string{"admin"},
		})
	case strings.Contains(q, "network{"):
		return data("network", []map[string]interface{}{
			{"iface": "eth0", "ifaceName": "br0", "ipv4": "192.168.1.50", "mac": "02:42:ac:11:00:02", "operstate": "up", "type": "wired", "duplex": "full", "speed": 1000},
		})
	case strings.Contains(q, "docker{"):
		return data("docker", map[string]interface{}{
			"containers": []map[string]interface{}{
				{"id": "abc123", "names": []string{"/plex"}, "image": "plexinc/pms-docker", "state": "RUNNING", "status": "Up 3 days", "autoStart": true},
				{"id": "def456", "names": []string{"/homeassistant"}, "image": "ghcr.io/home-assistant/home-assistant", "state": "EXITED", "status": "Exited (0) 2 hours ago", "autoStart": false},
			},
		})
	case strings.Contains(q, "array{"):
		return data("array", map[string]interface{}{
			"state": "STARTED",
			"capacity": map[string]interface{}{
				"kilobytes": map[string]interface{}{"free": "8000000000", "used": "4000000000", "total": "12000000000"},
				"disks":     map[string]interface{}{"free": "2", "used": "4", "total": "6"},
			},
			"disks": []map[string]interface{}{
				{"id": "disk1", "name": "disk1", "device": "sdb", "size": 4000000000, "status": "DISK_OK", "temp": 34, "numErrors": 0},
				{"id": "disk2", "name": "disk2", "device": "sdc", "size": 4000000000, "status": "DISK_OK", "temp": 36, "numErrors": 0},
			},
			"parities": []map[string]interface{}{
				{"id": "parity", "name": "parity", "device": "sda", "size": 4000000000, "status": "DISK_OK", "temp": 38},
			},
		})
	case strings.Contains(q, "shares{"):
		return data("shares", []map[string]interface{}{
			{"name": "appdata", "comment": "application data", "free": 500000, "size": 1000000, "used": 500000},
			{"name": "media", "comment": "", "free": 7500000, "size": 11000000, "used": 3500000},
		})
	case strings.Contains(q, "vms{"):
		return data("vms", map[string]interface{}{
			"domain": []map[string]interface{}{
				{"uuid": "a1b2c3d4", "name": "windows11", "state": "RUNNING"},
				{"uuid": "e5f6a7b8", "name": "debian", "state": "SHUTOFF"},
			},
		})
	case strings.Contains(q, "vars{"):
		return data("vars", map[string]interface{}{
			"version": "7.0.0", "name": "Tower", "timeZone": "America/Los_Angeles",
			"security": "user", "workgroup": "WORKGROUP", "port": 80, "portssl": 443,
			"startArray": true, "spindownDelay": "15", "shareCount": 2,
		})
	case strings.Contains(q, "disks{"):
		return data("disks", []map[string]interface{}{
			{"device": "sda", "name": "parity", "type": "HDD", "size": 4000000000, "vendor": "WDC", "temperature": 38, "smartStatus": "OK"},
			{"device": "sdb", "name": "disk1", "type": "HDD", "size": 4000000000, "vendor": "Seagate", "temperature": 34, "smartStatus": "OK"},
		})
	case strings.Contains(q, "info{"):
		return GenerateInfoResponse()
	case strings.Contains(q, "online"):
		return data("online", true)
	default:
		return graphqlErrors(fmt.Sprintf("Cannot query field %q", firstField(q)))
	}
}

func (m *ApplianceServer) respondMutation(q string, vars map[string]interface{}) map[string]interface{} {
	switch {
	case strings.Contains(q, "archiveNotification"):
		id, _ := vars["id"].(string)
		return m.archiveNotification(id)
	case strings.Contains(q, "archiveAll"):
		return m.archiveAll(vars)
	case strings.Contains(q, "createNotification"):
		return m.createNotification(vars)
	case strings.Contains(q, "startParityCheck"):
		return data("startParityCheck", true)
	case strings.Contains(q, "pauseParityCheck"):
		return data("pauseParityCheck", true)
	case strings.Contains(q, "resumeParityCheck"):
		return data("resumeParityCheck", true)
	case strings.Contains(q, "cancelParityCheck"):
		return data("cancelParityCheck", true)
	case strings.Contains(q, "startArray"):
		return data("startArray", map[string]interface{}{"state": "STARTED"})
	case strings.Contains(q, "stopArray"):
		return data("stopArray", map[string]interface{}{"state": "STOPPED"})
	case strings.Contains(q, "addUser"):
		input, _ := vars["input"].(map[string]interface{})
		return data("addUser", map[string]interface{}{
			"id": "user-2", "name": input["name"], "description": input["description"], "roles": []string{"user"},
		})
	case strings.Contains(q, "deleteUser"):
		input, _ := vars["input"].(map[string]interface{})
		return data("deleteUser", map[string]interface{}{"id": "user-2", "name": input["name"]})
	case strings.Contains(q, "createApiKey"):
		input, _ := vars["input"].(map[string]interface{})
		return data("createApiKey", map[string]interface{}{
			"id": "key-2", "key": "generated-key-value", "name": input["name"],
			"description": input["description"], "roles": input["roles"], "createdAt": "2026-08-21T12:00:00Z",
		})
	case strings.Contains(q, "setupRemoteAccess"):
		return data("setupRemoteAccess", true)
	case strings.Contains(q, "reboot"):
		return data("reboot", true)
	case strings.Contains(q, "shutdown"):
		return data("shutdown", true)
	default:
		return graphqlErrors(fmt.Sprintf("Unknown mutation %q", firstField(q)))
	}
}

func (m *ApplianceServer) notificationsPayload(vars map[string]interface{}) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]map[string]interface{}, 0, len(m.notifications))
	importance, _ := vars["importance"].(string)
	counts := map[string]int{}
	for _, n := range m.notifications {
		level := n["importance"].(string)
		counts[level]++
		if importance != "" && level != importance {
			continue
		}
		list = append(list, n)
	}

	return data("notifications", map[string]interface{}{
		"list": list,
		"overview": map[string]interface{}{
			"unread": map[string]interface{}{
				"info":    counts["INFO"],
				"warning": counts["WARNING"],
				"alert":   counts["ALERT"],
				"total":   len(m.notifications),
			},
			"archive": map[string]interface{}{"info": 0, "warning": 0, "alert": 0, "total": 0},
		},
	})
}

func (m *ApplianceServer) archiveNotification(id string) map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.notifications {
		if n["id"] == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return data("archiveNotification", map[string]interface{}{
				"id": id, "title": n["title"], "type": "ARCHIVE",
			})
		}
	}
	return graphqlErrors(fmt.Sprintf("Notification %q not found", id))
}

func (m *ApplianceServer) archiveAll(vars map[string]interface{}) map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	importance, _ := vars["importance"].(string)
	if importance == "" {
		m.notifications = nil
	} else {
		kept := m.notifications[:0]
		for _, n := range m.notifications {
			if n["importance"] != importance {
				kept = append(kept, n)
			}
		}
		m.notifications = kept
	}

	return data("archiveAll", map[string]interface{}{
		"unread":  map[string]interface{}{"total": len(m.notifications)},
		"archive": map[string]interface{}{"total": 3 - len(m.notifications)},
	})
}

func (m *ApplianceServer) createNotification(vars map[string]interface{}) map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	input, _ := vars["input"].(map[string]interface{})
	created := map[string]interface{}{
		"id":          fmt.Sprintf("notif-%d", len(m.notifications)+100),
		"title":       input["title"],
		"subject":     input["subject"],
		"description": input["description"],
		"importance":  input["importance"],
		"timestamp":   time.Now().Format(time.RFC3339),
	}
	m.notifications = append(m.notifications, created)
	return data("createNotification", created)
}

func seedNotifications() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": "notif-1", "title": "Array started", "subject": "Array", "description": "All disks online", "importance": "INFO", "timestamp": "2026-08-20T08:00:00Z"},
		{"id": "notif-2", "title": "Disk temperature high", "subject": "disk2", "description": "disk2 reached 48C", "importance": "WARNING", "timestamp": "2026-08-20T14:10:00Z"},
		{"id": "notif-3", "title": "Parity errors detected", "subject": "Parity", "description": "3 sync errors corrected", "importance": "ALERT", "timestamp": "2026-08-21T02:45:00Z"},
	}
}

func data(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{field: value},
	}
}

func graphqlErrors(messages ...string) map[string]interface{} {
	errs := make([]map[string]interface{}, len(messages))
	for i, msg := range messages {
		errs[i] = map[string]interface{}{"message": msg}
	}
	return map[string]interface{}{"errors": errs}
}

// firstField extracts the first field name from a compacted document for
// error messages.
func firstField(q string) string {
	q = strings.TrimPrefix(q, "query")
	q = strings.TrimPrefix(q, "mutation")
	q = strings.TrimLeft(q, "{")
	end := strings.IndexAny(q, "{}(")
	if end < 0 {
		return q
	}
	return q[:end]
}
