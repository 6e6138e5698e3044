package webdav

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebdav "golang.org/x/net/webdav"

	appConfig "wabackup/config"
)

func newTestServer(t *testing.T) (*httptest.Server, xwebdav.FileSystem) {
	t.Helper()
	fs := xwebdav.NewMemFS()
	handler := &xwebdav.Handler{
		FileSystem: fs,
		LockSystem: xwebdav.NewMemLS(),
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, fs
}

func writeRemoteFile(t *testing.T, fs xwebdav.FileSystem, path string, content []byte) {
	t.Helper()
	f, err := fs.OpenFile(context.Background(), path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := New(&appConfig.Config{BaseURL: serverURL})
	require.NoError(t, err)
	return client
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New(&appConfig.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBDAV_URL")
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		root     string
		expected string
	}{
		{"Plain", "https://example.com", "/resources", "https://example.com/resources"},
		{"Trailing slashes", "https://example.com/", "/resources/", "https://example.com/resources"},
		{"Empty root", "https://example.com", "", "https://example.com"},
		{"Root is slash", "https://example.com", "/", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Endpoint(tt.baseURL, tt.root))
		})
	}
}

func TestPing(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t, server.URL)

	assert.NoError(t, client.Ping(context.Background()))
}

func TestPingUnreachable(t *testing.T) {
	server, _ := newTestServer(t)
	server.Close()
	client := newTestClient(t, server.URL)

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection check failed")
}

func TestList(t *testing.T) {
	server, fs := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, fs.Mkdir(ctx, "/Documents", 0o755))
	require.NoError(t, fs.Mkdir(ctx, "/Documents/sub", 0o755))
	writeRemoteFile(t, fs, "/Documents/a.txt", []byte("0123456789"))

	client := newTestClient(t, server.URL)
	entries, err := client.List(ctx, "/Documents")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := make(map[string]struct {
		isDir bool
		size  int64
	})
	for _, entry := range entries {
		byName[entry.Name] = struct {
			isDir bool
			size  int64
		}{entry.IsDir, entry.Size}
	}

	require.Contains(t, byName, "a.txt")
	assert.False(t, byName["a.txt"].isDir)
	assert.Equal(t, int64(10), byName["a.txt"].size)

	require.Contains(t, byName, "sub")
	assert.True(t, byName["sub"].isDir)
}

func TestListMissingDirectory(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t, server.URL)

	_, err := client.List(context.Background(), "/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope")
}

func TestDownload(t *testing.T) {
	server, fs := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, fs.Mkdir(ctx, "/Documents", 0o755))
	writeRemoteFile(t, fs, "/Documents/a.txt", []byte("hello webdav"))

	client := newTestClient(t, server.URL)
	dir := t.TempDir()
	localPath := filepath.Join(dir, "a.txt")

	require.NoError(t, client.Download(ctx, "/Documents/a.txt", localPath))

	content, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello webdav"), content)

	// no partial files left next to the target
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDownloadMissingFile(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t, server.URL)
	dir := t.TempDir()

	err := client.Download(context.Background(), "/Documents/missing.txt", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)

	// the failed download leaves nothing behind
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestDownloadCancelledContext(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Download(ctx, "/Documents/a.txt", filepath.Join(t.TempDir(), "a.txt"))
	assert.ErrorIs(t, err, context.Canceled)
}
