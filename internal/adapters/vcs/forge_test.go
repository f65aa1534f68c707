package vcs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
	apperrors "github.com/codevox/codevox-go/internal/errors"
)

func testForgeConfig(url string) config.VCSConfig {
	return config.VCSConfig{
		ForgeBaseURL: url,
		Token:        "forge-token",
		Timeout:      5 * time.Second,
	}
}

func TestNewForgeValidation(t *testing.T) {
	if _, err := NewForge(ForgeOptions{Config: config.VCSConfig{ForgeBaseURL: "   "}}); err == nil {
		t.Fatal("expected error for blank base URL")
	}
	if _, err := NewForge(ForgeOptions{Config: config.VCSConfig{ForgeBaseURL: "gopher://forge"}}); err == nil {
		t.Fatal("expected error for non-http base URL")
	}
}

func TestOpenPR(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pulls" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer forge-token" {
			t.Errorf("Authorization = %q", got)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["base"] != "main" || req["head"] != "codevox/job-abc123" {
			t.Errorf("base/head = %q/%q", req["base"], req["head"])
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://forge.example.com/org/api/pull/42"})
	}))
	defer srv.Close()

	forge, err := NewForge(ForgeOptions{Config: testForgeConfig(srv.URL)})
	if err != nil {
		t.Fatalf("NewForge() error = %v", err)
	}

	url, err := forge.OpenPR(context.Background(), &core.OpenPRRequest{
		Repo:  "git@example.com:org/api.git",
		Base:  "main",
		Head:  "codevox/job-abc123",
		Title: "add rate limiting",
	})
	if err != nil {
		t.Fatalf("OpenPR() error = %v", err)
	}
	if url != "https://forge.example.com/org/api/pull/42" {
		t.Errorf("url = %q", url)
	}
}

func TestOpenPRServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "branch not found", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	forge, err := NewForge(ForgeOptions{Config: testForgeConfig(srv.URL)})
	if err != nil {
		t.Fatalf("NewForge() error = %v", err)
	}

	_, err = forge.OpenPR(context.Background(), &core.OpenPRRequest{Base: "main", Head: "x"})
	if err == nil {
		t.Fatal("expected error for 422")
	}
	if !apperrors.IsInfra(err) {
		t.Errorf("error class = %v, want infra", err)
	}
	if !strings.Contains(err.Error(), "branch not found") {
		t.Errorf("error = %v, want body snippet", err)
	}
}

func TestMergePR(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/merge" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["pr_url"] != "https://forge.example.com/org/api/pull/42" {
			t.Errorf("pr_url = %q", req["pr_url"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sha": "deadbee"})
	}))
	defer srv.Close()

	forge, err := NewForge(ForgeOptions{Config: testForgeConfig(srv.URL)})
	if err != nil {
		t.Fatalf("NewForge() error = %v", err)
	}

	sha, err := forge.MergePR(context.Background(), "https://forge.example.com/org/api/pull/42")
	if err != nil {
		t.Fatalf("MergePR() error = %v", err)
	}
	if sha != "deadbee" {
		t.Errorf("sha = %q, want deadbee", sha)
	}
}

func TestMergePRAlreadyMergedIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"sha": "cafef00", "already_merged": true})
	}))
	defer srv.Close()

	forge, err := NewForge(ForgeOptions{Config: testForgeConfig(srv.URL)})
	if err != nil {
		t.Fatalf("NewForge() error = %v", err)
	}

	sha, err := forge.MergePR(context.Background(), "https://forge.example.com/org/api/pull/42")
	if err != nil {
		t.Fatalf("MergePR() error = %v", err)
	}
	if sha != "cafef00" {
		t.Errorf("sha = %q, want cafef00", sha)
	}
}

func TestMergePRBlankURL(t *testing.T) {
	forge, err := NewForge(ForgeOptions{Config: testForgeConfig("http://localhost:9091")})
	if err != nil {
		t.Fatalf("NewForge() error = %v", err)
	}
	if _, err := forge.MergePR(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank PR URL")
	}
}
