package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestRunCmdPostsToRunsEndpoint(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reconciliation/runs" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"run_id":"r1","status":"completed","success":true}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	cmd := runCmd()
	cmd.SetArgs([]string{"--dry-run", "--wallets", "w1,w2"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if captured["dry_run"] != true {
		t.Fatalf("expected dry_run in payload, got %+v", captured)
	}
	if ids, ok := captured["wallet_ids"].([]any); !ok || len(ids) != 2 {
		t.Fatalf("expected two wallet IDs in payload, got %+v", captured)
	}
	if !strings.Contains(out, `"run_id": "r1"`) {
		t.Fatalf("expected run ID in output, got %q", out)
	}
}

func TestEmergencyCmdReturnsErrorOn404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"emergency reconciliation failed"}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	cmd := emergencyCmd()
	cmd.SetArgs([]string{"ghost"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	captureOutput(t, func() {
		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error for 404 response")
		}
	})
}

func TestHealthCmdDegradedIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"healthy":false}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	cmd := healthCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	captureOutput(t, func() {
		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error for degraded health")
		}
	})
}
