package cmd

import (
	"github.com/spf13/cobra"

	"wabackup/config"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wabackup",
	Short: "Incremental WebDAV backup tool",
	Long: `wabackup mirrors directory trees from a WebDAV share into a local backup
directory. Files whose size matches the persisted manifest are skipped, so
repeated runs only transfer what changed.
Configuration is loaded from .env file or environment variables`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}
