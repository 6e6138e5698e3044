package syncer

import (
	"os"

	"wabackup/internal/manifest"
)

// Reason classifies why a file was or was not selected for download.
type Reason string

const (
	ReasonNew       Reason = "new"
	ReasonModified  Reason = "modified"
	ReasonUnchanged Reason = "unchanged"
)

// Decide applies the size-only change policy, in order: a file missing
// locally is "new"; a manifest hit whose recorded size equals the remote
// size is "unchanged"; everything else is "modified".
//
// Size is the only signal compared. A content edit that leaves the size
// identical is classified "unchanged" and skipped; no checksum is available
// from the remote side and none is computed locally.
func Decide(remotePath, localPath string, remoteSize int64, m *manifest.Manifest) (bool, Reason) {
	if _, err := os.Stat(localPath); err != nil {
		return true, ReasonNew
	}

	if entry, ok := m.Lookup(remotePath); ok && entry.Size == remoteSize {
		return false, ReasonUnchanged
	}

	return true, ReasonModified
}
