package models

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

// SyncReport is the end-of-run summary emitted after every sync, successful
// or not. Status is "failed" whenever at least one soft error was recorded.
type SyncReport struct {
	Status             string   `json:"status"`
	DryRun             bool     `json:"dry_run,omitempty"`
	StartedAt          string   `json:"started_at"`
	Duration           string   `json:"duration"`
	FilesFound         int      `json:"files_found"`
	FilesDownloaded    int      `json:"files_downloaded"`
	FilesSkipped       int      `json:"files_skipped"`
	FilesWouldDownload int      `json:"files_would_download,omitempty"`
	BytesDownloaded    int64    `json:"bytes_downloaded"`
	BytesHuman         string   `json:"bytes_human"`
	BytesWouldDownload int64    `json:"bytes_would_download,omitempty"`
	ErrorCount         int      `json:"error_count"`
	Errors             []string `json:"errors,omitempty"`
}

// ManifestInfo describes the persisted manifest for the status command.
type ManifestInfo struct {
	ManifestPath      string `json:"manifest_path"`
	State             string `json:"state"`
	TrackedFiles      int    `json:"tracked_files"`
	TrackedBytes      int64  `json:"tracked_bytes"`
	TrackedBytesHuman string `json:"tracked_bytes_human"`
	LastBackup        string `json:"last_backup,omitempty"`
}
