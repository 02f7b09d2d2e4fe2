package sendtovrc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/slok/sendtovrc/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "sendtovrc"
	}

	// go test changes the CWD to the package directory, relative paths would not resolve.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("SENDTOVRC_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("sendtovrc binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "SENDTOVRC_INTEGRATION"
		envBinary     = "SENDTOVRC_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunCmd runs a sendtovrc command against a specific db path without logs.
func RunCmd(ctx context.Context, config Config, dbPath, cmdArgs string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("--no-log --no-color --db-path %s %s", dbPath, cmdArgs)
	return testutils.RunSendToVRC(ctx, nil, config.Binary, args, true)
}

// RunSettingsSet sets a setting.
func RunSettingsSet(ctx context.Context, config Config, dbPath, key, value string) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dbPath, fmt.Sprintf("settings set %s %s", key, value))
}

// RunSend sends a file to a destination printing the result as JSON.
func RunSend(ctx context.Context, config Config, dbPath, file, to string) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dbPath, fmt.Sprintf("send %s --to %s --no-clipboard --format json", file, to))
}

// RunHistory lists the submissions as JSON.
func RunHistory(ctx context.Context, config Config, dbPath string) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dbPath, "history --format json")
}

// FakeUploader is an uploader server that accepts a single API key.
type FakeUploader struct {
	Server *httptest.Server
	APIKey string

	mu      sync.Mutex
	uploads int
}

// NewFakeUploader starts a fake uploader, it's closed when the test ends.
func NewFakeUploader(t *testing.T, apiKey string) *FakeUploader {
	t.Helper()

	f := &FakeUploader{APIKey: apiKey}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", f.handleUpload)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

// Uploads returns the number of accepted uploads.
func (f *FakeUploader) Uploads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

func (f *FakeUploader) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") != f.APIKey {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	f.mu.Lock()
	f.uploads++
	n := f.uploads
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"url": fmt.Sprintf("%s/files/%d.%s", f.Server.URL, n, r.URL.Query().Get("ext")),
	})
}
