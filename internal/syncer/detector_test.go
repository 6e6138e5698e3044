package syncer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wabackup/internal/manifest"
)

func TestDecide(t *testing.T) {
	dir := t.TempDir()

	existing := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("0123456789"), 0o644))
	missing := filepath.Join(dir, "missing.txt")

	tracked := manifest.New()
	tracked.Record("/Documents/existing.txt", 10, time.Now())

	tests := []struct {
		name         string
		remotePath   string
		localPath    string
		remoteSize   int64
		manifest     *manifest.Manifest
		wantDownload bool
		wantReason   Reason
	}{
		{
			name:         "missing locally is new",
			remotePath:   "/Documents/missing.txt",
			localPath:    missing,
			remoteSize:   10,
			manifest:     manifest.New(),
			wantDownload: true,
			wantReason:   ReasonNew,
		},
		{
			name:         "missing locally is new even when tracked",
			remotePath:   "/Documents/existing.txt",
			localPath:    missing,
			remoteSize:   10,
			manifest:     tracked,
			wantDownload: true,
			wantReason:   ReasonNew,
		},
		{
			name:         "manifest size match is unchanged",
			remotePath:   "/Documents/existing.txt",
			localPath:    existing,
			remoteSize:   10,
			manifest:     tracked,
			wantDownload: false,
			wantReason:   ReasonUnchanged,
		},
		{
			name:         "manifest size mismatch is modified",
			remotePath:   "/Documents/existing.txt",
			localPath:    existing,
			remoteSize:   12,
			manifest:     tracked,
			wantDownload: true,
			wantReason:   ReasonModified,
		},
		{
			name:         "present locally but untracked is modified",
			remotePath:   "/Documents/existing.txt",
			localPath:    existing,
			remoteSize:   10,
			manifest:     manifest.New(),
			wantDownload: true,
			wantReason:   ReasonModified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			download, reason := Decide(tt.remotePath, tt.localPath, tt.remoteSize, tt.manifest)
			assert.Equal(t, tt.wantDownload, download)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
