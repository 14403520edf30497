package cmd

import (
	"fmt"

	"github.com/iksnae/chat-recorder/internal"
	"github.com/spf13/cobra"
)

var (
	dedupePrefixLen int
	dedupeDryRun    bool
)

// dedupeCmd represents the dedupe command
var dedupeCmd = &cobra.Command{
	Use:   "dedupe [log-file]",
	Short: "Remove duplicate messages from a master log",
	Long: `Remove repeated messages from a master log written by an earlier run.

Messages are compared by timestamp, author and the first characters of their
content with price quotes normalized, and the first occurrence is kept. The log
is backed up before it is rewritten. Defaults to MASTER_LOG.json in the log
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var paths internal.LogPaths
		if len(args) == 1 {
			paths = internal.PathsForLogFile(args[0])
		} else {
			var err error
			if paths, err = logPaths(); err != nil {
				return err
			}
		}

		prefixLen := dedupePrefixLen
		if prefixLen <= 0 {
			prefixLen = cfg.OfflinePrefixLen
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processing log file: %s\n", paths.MasterLog)

		var result internal.DedupeResult
		err := internal.ShowProgress(commandContext(cmd), "Deduplicating messages", func() error {
			var dedupeErr error
			result, dedupeErr = internal.DedupeLog(paths, prefixLen, dedupeDryRun)
			return dedupeErr
		})
		if err != nil {
			return fmt.Errorf("deduplication failed: %w", err)
		}

		if result.BackupPath != "" {
			fmt.Fprintf(out, "Created backup at: %s\n", result.BackupPath)
		}
		fmt.Fprintln(out)
		if _, err := result.Report.WriteTo(out); err != nil {
			return err
		}
		fmt.Fprintln(out)

		switch {
		case dedupeDryRun:
			internal.PrintInfo("Dry run: log not modified")
		case result.Written:
			internal.PrintSuccess("Deduplication completed successfully!")
		default:
			internal.PrintSuccess("No duplicates found; log not modified")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
	dedupeCmd.Flags().IntVar(&dedupePrefixLen, "prefix-len", 0, "Content characters compared (default: offline_prefix_len, 20)")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Report duplicates without rewriting the log")
}
