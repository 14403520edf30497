package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/chat-recorder/internal"
	"github.com/spf13/cobra"
)

var (
	watchSource     string
	watchSourceType string
	watchInterval   time.Duration
	watchOnce       bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Record new chat messages as they appear",
	Long: `Poll the chat capture and append every new message to the master log.

The existing master log is backed up and loaded first, so messages recorded by
earlier runs are never appended twice. Every accepted message is written to
disk before the next one is processed. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchSource != "" {
			cfg.Source.Path = watchSource
		}
		if watchSourceType != "" {
			cfg.Source.Type = watchSourceType
		}
		if watchInterval > 0 {
			cfg.Interval = watchInterval
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		dir, err := internal.ResolveLogDir(cfg.LogDir)
		if err != nil {
			return err
		}
		started := time.Now()
		store := internal.NewStore(internal.NewLogPaths(dir, started))
		store.SnapshotSession = cfg.SessionSnapshot

		loaded, err := store.LoadOrInit()
		if err != nil {
			return fmt.Errorf("failed to load master log: %w", err)
		}
		if loaded.Recovered {
			internal.PrintWarning(fmt.Sprintf("Master log was unreadable; preserved at %s", loaded.BackupPath))
		}

		pipeline := internal.NewPipeline(store, internal.WithPrefixLen(cfg.IDPrefixLen))
		recorder := internal.NewRecorder(pipeline, cfg)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("Chat Recorder"))
		fmt.Fprintf(out, "  Log:     %s\n", store.Paths().MasterLog)
		fmt.Fprintf(out, "  Source:  %s (%s)\n", cfg.Source.Path, cfg.Source.Type)
		fmt.Fprintf(out, "  Known:   %s messages from %s authors\n",
			humanize.Comma(int64(store.Len())), humanize.Comma(int64(store.Authors())))
		fmt.Fprintf(out, "  Session: %s\n\n", idStyle.Render(pipeline.SessionID()))

		if watchOnce {
			defer recorder.Close()
			summary, err := recorder.RunCycle(commandContext(cmd))
			printCycle(out, summary, cfg.FeedPreview)
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		accepted := 0
		recorder.OnCycle = func(s internal.CycleSummary) {
			accepted += len(s.Accepted)
			printCycle(out, s, cfg.FeedPreview)
		}
		if err := recorder.Run(ctx); err != nil {
			return err
		}

		fmt.Fprintln(out)
		internal.PrintSuccess(fmt.Sprintf("Recorded %s new messages since %s (%s total)",
			humanize.Comma(int64(accepted)), humanize.Time(started), humanize.Comma(int64(store.Len()))))
		return nil
	},
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printCycle writes the per-cycle feed: a summary line plus the first few new
// messages.
func printCycle(w io.Writer, s internal.CycleSummary, preview int) {
	if s.Err != nil {
		fmt.Fprintf(w, "%s %v\n", errorStyle.Render("✗"), s.Err)
	}
	if len(s.Accepted) == 0 {
		return
	}

	fmt.Fprintf(w, "%s Found %s new messages\n", successStyle.Render("✓"), humanize.Comma(int64(len(s.Accepted))))
	for i, rec := range s.Accepted {
		if i >= preview {
			fmt.Fprintf(w, "  ... and %s more messages\n", humanize.Comma(int64(len(s.Accepted)-preview)))
			break
		}
		line := internal.FormatFeedLine(rec)
		if rec.IsReply {
			line = replyStyle.Render(line)
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
	internal.LogDebug("Cycle: %d elements, %d skipped, %d duplicates, %d invalid",
		s.Extract.Elements, s.Extract.SkippedTotal(), s.Duplicates, s.Invalid)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchSource, "source", "", "Path to the capture file or feed database (overrides config)")
	watchCmd.Flags().StringVar(&watchSourceType, "source-type", "", "Source type: file or sqlite (overrides config)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Polling interval (overrides config)")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Run a single poll and exit")
}
