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

package config

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid minimal",
			cfg:  Config{Host: "192.168.1.100", APIKey: "abc123"},
		},
		{
			name: "valid with port and https",
			cfg:  Config{Host: "nas.local", Port: 8443, PreferHTTPS: true, APIKey: "abc123"},
		},
		{
			name:    "missing host",
			cfg:     Config{APIKey: "abc123"},
			wantErr: "server address is required",
		},
		{
			name:    "missing key",
			cfg:     Config{Host: "192.168.1.100"},
			wantErr: "API key is required",
		},
		{
			name:    "port out of range",
			cfg:     Config{Host: "192.168.1.100", APIKey: "abc123", Port: 70000},
			wantErr: "out of range",
		},
		{
			name:    "negative port",
			cfg:     Config{Host: "192.168.1.100", APIKey: "abc123", Port: -1},
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "host only",
			cfg:  Config{Host: "192.168.1.100"},
			want: "192.168.1.100",
		},
		{
			name: "host with port",
			cfg:  Config{Host: "192.168.1.100", Port: 8080},
			want: "192.168.1.100:8080",
		},
		{
			name: "hostname with port",
			cfg:  Config{Host: "nas.local", Port: 443},
			want: "nas.local:443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Target(); got != tt.want {
				t.Errorf("Target() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCredentialRedaction(t *testing.T) {
	key := Credential("0a1b2c3d4e5f6a7b8c9d")

	if got := key.Value(); got != "0a1b2c3d4e5f6a7b8c9d" {
		t.Errorf("Value() = %q, want raw key", got)
	}

	redacted := key.Redacted()
	if strings.Contains(redacted, "2c3d4e") {
		t.Errorf("Redacted() = %q, leaks key material", redacted)
	}
	if !strings.HasPrefix(redacted, "0a1b") {
		t.Errorf("Redacted() = %q, want %q prefix for operator recognition", redacted, "0a1b")
	}

	// fmt must never see the raw key
	if formatted := fmt.Sprintf("%v %s", key, key); strings.Contains(formatted, "8c9d") {
		t.Errorf("fmt output %q contains raw key material", formatted)
	}
}

func TestCredentialRedactionShortKey(t *testing.T) {
	for _, k := range []Credential{"", "ab", "abcd"} {
		if got := k.Redacted(); got != "****" {
			t.Errorf("Redacted(%q) = %q, want fully masked", string(k), got)
		}
	}
}
