package cmd

import (
	"github.com/spf13/cobra"

	"wabackup/internal/manifest"
	"wabackup/internal/models"
	"wabackup/pkg/utils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the manifest currently tracks",
	Long: `Show statistics about the persisted manifest: how many files are tracked,
their combined size, and when the last backup ran.`,
	Example: `  # Inspect the configured manifest
  wabackup status`,
	Run: func(cmd *cobra.Command, args []string) {
		runStatus(cmd)
	},
}

func runStatus(cmd *cobra.Command) {
	m, state := manifest.Load(cfg.ManifestFile)

	info := &models.ManifestInfo{
		ManifestPath:      cfg.ManifestFile,
		State:             string(state),
		TrackedFiles:      m.Len(),
		TrackedBytes:      m.TotalSize(),
		TrackedBytesHuman: utils.FormatBytes(m.TotalSize()),
	}
	if m.LastBackup != nil {
		info.LastBackup = utils.FormatTime(*m.LastBackup)
	}

	if err := utils.PrintJSON(info); err != nil {
		utils.PrintError(err, "status")
		return
	}

	if isVerbose(cmd) {
		cmd.Printf("Manifest state: %s\n", info.State)
	}
}
