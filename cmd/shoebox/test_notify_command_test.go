package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestTestNotifyCommandWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications are not configured")
}

func TestTestNotifyCommandSendsToEndpoint(t *testing.T) {
	env := setupCLITestEnv(t)

	received := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	configPath := filepath.Join(env.baseDir, "notify-config.toml")
	writeTestConfig(t, configPath, env.baseDir, srv.URL+"/shoebox-test")

	out, _, err := runCLI(t, []string{"test-notify"}, configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if received != 1 {
		t.Fatalf("expected one request to the endpoint, got %d", received)
	}
}
