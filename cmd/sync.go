package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wabackup/internal/manifest"
	"wabackup/internal/syncer"
	"wabackup/internal/webdav"
	"wabackup/pkg/logging"
	"wabackup/pkg/utils"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run an incremental backup of the configured WebDAV roots",
	Long: `Mirror the configured remote directory trees into the local backup directory.

The command will:
- Verify connectivity and credentials before any work starts
- Load the manifest of previously downloaded files
- Walk every configured root, downloading new and changed files
- Save the manifest and print a summary report

A listing or download failure is recorded and skipped, never aborting the
run; the exit status is non-zero when any such failure occurred.`,
	Example: `  # Run a backup with the configured roots
  wabackup sync

  # See what would be transferred without downloading
  wabackup sync --dry-run

  # Four parallel downloads, verbose logging
  wabackup sync --concurrency 4 --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd)
	},
}

func runSync(cmd *cobra.Command) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetInt("timeout")

	concurrency := cfg.Concurrency
	if flagValue, _ := cmd.Flags().GetInt("concurrency"); flagValue > 0 {
		concurrency = flagValue
	}

	logging.Setup(cfg.LogDir, isVerbose(cmd))

	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("webdav credentials are not configured (set WEBDAV_USER and WEBDAV_PASSWORD)")
	}

	client, err := webdav.New(cfg)
	if err != nil {
		return err
	}
	if timeout > 0 {
		client.SetTimeout(time.Duration(timeout) * time.Second)
	}

	ctx := context.Background()

	log.Info().Str("endpoint", webdav.Endpoint(cfg.BaseURL, cfg.RemoteRoot)).Msg("testing connection")
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("connection check failed: %w", err)
	}

	if !dryRun {
		if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	m, state := manifest.Load(cfg.ManifestFile)
	log.Info().Int("tracked", m.Len()).Str("state", string(state)).Msg("manifest loaded")

	log.Info().
		Strs("roots", cfg.Roots).
		Str("destination", cfg.BackupDir).
		Bool("dry_run", dryRun).
		Msg("backup started")

	engine := syncer.New(client, m, cfg.BackupDir,
		syncer.WithConcurrency(concurrency),
		syncer.WithDryRun(dryRun),
	)
	stats := engine.Run(ctx, cfg.Roots)

	if !dryRun {
		if err := m.Save(cfg.ManifestFile); err != nil {
			log.Error().Err(err).Msg("manifest save failed")
			stats.Errors = append(stats.Errors, "Manifest save failed: "+cfg.ManifestFile)
		}
	}

	report := stats.Report(time.Now(), dryRun)

	log.Info().
		Str("duration", report.Duration).
		Int("found", report.FilesFound).
		Int("downloaded", report.FilesDownloaded).
		Int("skipped", report.FilesSkipped).
		Str("transferred", report.BytesHuman).
		Int("errors", report.ErrorCount).
		Msg("backup complete")

	if err := utils.PrintJSON(report); err != nil {
		return err
	}

	if report.Status == "failed" {
		return fmt.Errorf("sync finished with %d error(s)", report.ErrorCount)
	}
	return nil
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "Walk and classify files without downloading anything")
	syncCmd.Flags().Int("concurrency", 0, "Number of parallel downloads (overrides SYNC_CONCURRENCY)")
	syncCmd.Flags().Int("timeout", 0, "Per-request timeout in seconds (0 = transport default)")
}
