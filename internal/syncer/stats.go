package syncer

import (
	"time"

	"wabackup/internal/models"
	"wabackup/pkg/utils"
)

// Stats accumulates the outcome of one sync run. The engine is the only
// writer during a run; mutations go through its mutex when downloads are
// parallelized.
type Stats struct {
	StartedAt       time.Time
	FilesFound      int
	FilesDownloaded int
	FilesSkipped    int
	BytesDownloaded int64
	// FilesPlanned and BytesPlanned count transfers a dry run would have
	// made. Actual runs leave them zero.
	FilesPlanned int
	BytesPlanned int64
	Errors       []string
}

// Failed reports whether any soft error was recorded. Soft errors never
// interrupt the walk, but a run with at least one is still a failed run.
func (s *Stats) Failed() bool {
	return len(s.Errors) > 0
}

// Report renders the stats into the user-facing summary document.
func (s *Stats) Report(finished time.Time, dryRun bool) *models.SyncReport {
	status := "ok"
	if s.Failed() {
		status = "failed"
	}
	return &models.SyncReport{
		Status:             status,
		DryRun:             dryRun,
		StartedAt:          utils.FormatTime(s.StartedAt),
		Duration:           utils.FormatDuration(finished.Sub(s.StartedAt)),
		FilesFound:         s.FilesFound,
		FilesDownloaded:    s.FilesDownloaded,
		FilesSkipped:       s.FilesSkipped,
		FilesWouldDownload: s.FilesPlanned,
		BytesDownloaded:    s.BytesDownloaded,
		BytesHuman:         utils.FormatBytes(s.BytesDownloaded),
		BytesWouldDownload: s.BytesPlanned,
		ErrorCount:         len(s.Errors),
		Errors:             s.Errors,
	}
}
