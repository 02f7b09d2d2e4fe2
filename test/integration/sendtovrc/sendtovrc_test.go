package sendtovrc_test

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intsendtovrc "github.com/slok/sendtovrc/test/integration/sendtovrc"
)

type sendStateOutput struct {
	Destination string `json:"destination"`
	Status      string `json:"status"`
	URL         string `json:"url"`
	Message     string `json:"message"`
}

type historyItem struct {
	ID          string `json:"id"`
	Destination string `json:"destination"`
	FilePath    string `json:"file_path"`
	Status      string `json:"status"`
	URL         string `json:"url"`
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "capture.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 16, 9))))
	return p
}

func TestSendToImageViewer(t *testing.T) {
	config := intsendtovrc.NewConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test-sendtovrc.db")
	file := writePNG(t, dir)
	uploader := intsendtovrc.NewFakeUploader(t, "test-key")

	_, stderr, err := intsendtovrc.RunSettingsSet(ctx, config, dbPath, "uploader_url_base", uploader.Server.URL)
	require.NoError(t, err, string(stderr))
	_, stderr, err = intsendtovrc.RunSettingsSet(ctx, config, dbPath, "uploader_api_key", uploader.APIKey)
	require.NoError(t, err, string(stderr))

	stdout, stderr, err := intsendtovrc.RunSend(ctx, config, dbPath, file, "image")
	require.NoError(t, err, string(stderr))

	var st sendStateOutput
	require.NoError(t, json.Unmarshal(stdout, &st))
	assert.Equal(t, "image_viewer", st.Destination)
	assert.Equal(t, "done", st.Status)
	assert.Equal(t, uploader.Server.URL+"/files/1.png", st.URL)
	assert.Equal(t, 1, uploader.Uploads())

	stdout, stderr, err = intsendtovrc.RunHistory(ctx, config, dbPath)
	require.NoError(t, err, string(stderr))

	var items []historyItem
	require.NoError(t, json.Unmarshal(stdout, &items))
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "image_viewer", items[0].Destination)
	assert.Equal(t, file, items[0].FilePath)
	assert.Equal(t, "done", items[0].Status)
	assert.Equal(t, st.URL, items[0].URL)
}

func TestSendRejectedKeyFails(t *testing.T) {
	config := intsendtovrc.NewConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test-sendtovrc.db")
	file := writePNG(t, dir)
	uploader := intsendtovrc.NewFakeUploader(t, "test-key")

	_, stderr, err := intsendtovrc.RunSettingsSet(ctx, config, dbPath, "uploader_url_base", uploader.Server.URL)
	require.NoError(t, err, string(stderr))
	_, stderr, err = intsendtovrc.RunSettingsSet(ctx, config, dbPath, "uploader_api_key", "wrong-key")
	require.NoError(t, err, string(stderr))

	// Stdin is not interactive so the registration prompt can't be answered.
	_, _, err = intsendtovrc.RunSend(ctx, config, dbPath, file, "video")
	assert.Error(t, err)
	assert.Equal(t, 0, uploader.Uploads())
}

func TestCheckInvalidFile(t *testing.T) {
	config := intsendtovrc.NewConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("not an image"), 0o644))

	_, _, err := intsendtovrc.RunCmd(ctx, config, filepath.Join(dir, "test-sendtovrc.db"), "check "+file)
	assert.Error(t, err)
}
