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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	uqerrors "github.com/sirseerhq/unraidql/internal/errors"
)

func TestResolver_Resolve_DiscoversRedirect(t *testing.T) {
	var probes atomic.Int32
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		method = r.Method
		if r.URL.Path != "/graphql" {
			t.Errorf("expected probe path /graphql, got %s", r.URL.Path)
		}
		w.Header().Set("Location", "https://proxy.example.com/graphql")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	target := strings.TrimPrefix(server.URL, "http://")
	resolver := NewResolver(nil)

	ep, err := resolver.Resolve(context.Background(), target, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ep.RedirectHost != "proxy.example.com" {
		t.Errorf("expected RedirectHost proxy.example.com, got %q", ep.RedirectHost)
	}
	// The dispatch URL must stay pointed at the original address.
	if ep.ResolvedURL != server.URL+"/graphql" {
		t.Errorf("expected ResolvedURL %s/graphql, got %s", server.URL, ep.ResolvedURL)
	}
	if got := probes.Load(); got != 1 {
		t.Errorf("expected exactly 1 probe, got %d", got)
	}
	if method != http.MethodHead {
		t.Errorf("expected HEAD probe, got %s", method)
	}
}

func TestResolver_Resolve_NoRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	target := strings.TrimPrefix(server.URL, "http://")
	resolver := NewResolver(nil)

	ep, err := resolver.Resolve(context.Background(), target, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ep.RedirectHost != "" {
		t.Errorf("expected empty RedirectHost, got %q", ep.RedirectHost)
	}
	if ep.Host != target {
		t.Errorf("expected Host %q, got %q", target, ep.Host)
	}
}

func TestResolver_Resolve_SkipCheck(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
	}))
	defer server.Close()

	target := strings.TrimPrefix(server.URL, "http://")
	resolver := NewResolver(nil)

	ep, err := resolver.Resolve(context.Background(), target, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := probes.Load(); got != 0 {
		t.Errorf("expected 0 probes when skipped, got %d", got)
	}
	if ep.ResolvedURL != server.URL+"/graphql" {
		t.Errorf("expected ResolvedURL %s/graphql, got %s", server.URL, ep.ResolvedURL)
	}
}

func TestResolver_Resolve_ProbeFailureIsAdvisory(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := strings.TrimPrefix(server.URL, "http://")
	server.Close()

	resolver := NewResolver(nil)
	ep, err := resolver.Resolve(context.Background(), target, false, false)

	if err == nil {
		t.Fatal("expected advisory error, got nil")
	}
	if !errors.Is(err, uqerrors.ErrRedirectProbe) {
		t.Errorf("expected ErrRedirectProbe, got %v", err)
	}
	// The endpoint must remain fully usable despite the failed probe.
	if ep.ResolvedURL != "http://"+target+"/graphql" {
		t.Errorf("expected usable ResolvedURL, got %q", ep.ResolvedURL)
	}
	if ep.RedirectHost != "" {
		t.Errorf("expected empty RedirectHost after failed probe, got %q", ep.RedirectHost)
	}
}

func TestResolver_Resolve_NeverFollowsRedirect(t *testing.T) {
	var loginHits atomic.Int32
	mux := http.NewServeMux()
	var serverURL string
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", serverURL+"/login")
		w.WriteHeader(http.StatusMovedPermanently)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		loginHits.Add(1)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	target := strings.TrimPrefix(server.URL, "http://")
	resolver := NewResolver(nil)

	ep, err := resolver.Resolve(context.Background(), target, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := loginHits.Load(); got != 0 {
		t.Errorf("probe followed the redirect: /login hit %d times", got)
	}
	if ep.RedirectHost != target {
		t.Errorf("expected RedirectHost %q, got %q", target, ep.RedirectHost)
	}
}

func TestResolver_Resolve_RelativeLocationIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/login")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	target := strings.TrimPrefix(server.URL, "http://")
	resolver := NewResolver(nil)

	ep, err := resolver.Resolve(context.Background(), target, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A relative Location carries no hostname to route through.
	if ep.RedirectHost != "" {
		t.Errorf("expected empty RedirectHost for relative Location, got %q", ep.RedirectHost)
	}
}

func TestResolver_Resolve_SchemeSelection(t *testing.T) {
	tests := []struct {
		name        string
		preferHTTPS bool
		wantScheme  string
		wantURL     string
	}{
		{
			name:        "default http",
			preferHTTPS: false,
			wantScheme:  "http",
			wantURL:     "http://192.168.1.100/graphql",
		},
		{
			name:        "https preferred",
			preferHTTPS: true,
			wantScheme:  "https",
			wantURL:     "https://192.168.1.100/graphql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(nil)
			ep, err := resolver.Resolve(context.Background(), "192.168.1.100", tt.preferHTTPS, true)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ep.Scheme != tt.wantScheme {
				t.Errorf("expected scheme %q, got %q", tt.wantScheme, ep.Scheme)
			}
			if ep.ResolvedURL != tt.wantURL {
				t.Errorf("expected URL %q, got %q", tt.wantURL, ep.ResolvedURL)
			}
		})
	}
}

func TestEndpoint_Headers(t *testing.T) {
	tests := []struct {
		name        string
		endpoint    Endpoint
		wantHost    string
		wantOrigin  string
		wantReferer string
	}{
		{
			name: "no redirect discovered",
			endpoint: Endpoint{
				Host:   "192.168.1.100",
				Scheme: "http",
			},
			wantHost:    "192.168.1.100",
			wantOrigin:  "http://192.168.1.100",
			wantReferer: "http://192.168.1.100/dashboard",
		},
		{
			name: "redirect discovered",
			endpoint: Endpoint{
				Host:         "192.168.1.100",
				Scheme:       "http",
				RedirectHost: "nas.example.unraid.net",
			},
			wantHost:    "nas.example.unraid.net",
			wantOrigin:  "https://nas.example.unraid.net",
			wantReferer: "https://nas.example.unraid.net/dashboard",
		},
		{
			name: "https without redirect",
			endpoint: Endpoint{
				Host:   "tower.local:8443",
				Scheme: "https",
			},
			wantHost:    "tower.local:8443",
			wantOrigin:  "https://tower.local:8443",
			wantReferer: "https://tower.local:8443/dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.endpoint.HeaderHost(); got != tt.wantHost {
				t.Errorf("HeaderHost() = %q, want %q", got, tt.wantHost)
			}
			if got := tt.endpoint.HeaderOrigin(); got != tt.wantOrigin {
				t.Errorf("HeaderOrigin() = %q, want %q", got, tt.wantOrigin)
			}
			if got := tt.endpoint.HeaderReferer(); got != tt.wantReferer {
				t.Errorf("HeaderReferer() = %q, want %q", got, tt.wantReferer)
			}
		})
	}
}
