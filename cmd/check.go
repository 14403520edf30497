package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/chat-recorder/internal"
	"github.com/spf13/cobra"
)

var checkVerbose bool

// LogHealth summarizes the integrity of a master log
type LogHealth struct {
	Records      int
	Authors      int
	MissingIDs   int
	RepeatedIDs  int
	DanglingRefs int
	Unresolved   int
	LastCaptured time.Time
}

// OK reports whether the log has no integrity problems. Unresolved replies
// are expected and do not count.
func (h LogHealth) OK() bool {
	return h.MissingIDs == 0 && h.RepeatedIDs == 0 && h.DanglingRefs == 0
}

func inspectLog(records []internal.MessageRecord) LogHealth {
	h := LogHealth{Records: len(records)}
	ids := make(map[string]bool, len(records))
	authors := make(map[string]bool)

	for _, rec := range records {
		if rec.ID == "" {
			h.MissingIDs++
		} else if ids[rec.ID] {
			h.RepeatedIDs++
		}
		ids[rec.ID] = true
		if rec.Author != "" {
			authors[rec.Author] = true
		}
		if t := rec.GetCapturedAt(); t.After(h.LastCaptured) {
			h.LastCaptured = t
		}
	}
	for _, rec := range records {
		if rec.ReplyTargetID != "" && !ids[rec.ReplyTargetID] {
			h.DanglingRefs++
		}
		if rec.IsReply && rec.ReplyTargetID == "" {
			h.Unresolved++
		}
	}
	h.Authors = len(authors)
	return h
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the master log and capture source",
	Long: `Check the health of the recorder by verifying:
  • Log directory resolution
  • Master log readability and integrity (ids, reply references)
  • Backups present
  • Capture source reachability

The log is only read; nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("Chat Recorder Health Check"))
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving log directory..."))
		paths, err := logPaths()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ Failed to resolve log directory:"), err)
			return err
		}
		fmt.Fprintln(out, successStyle.Render("✓ Log directory: ")+paths.Dir)
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 2: Reading master log..."))
		if !paths.MasterLogExists() {
			fmt.Fprintln(out, warningStyle.Render("⚠ No master log yet: ")+paths.MasterLog)
		} else if err := checkMasterLog(out, paths); err != nil {
			return err
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking capture source..."))
		checkSource(out, cfg.Source)
		return nil
	},
}

func checkMasterLog(out io.Writer, paths internal.LogPaths) error {
	store := internal.NewStore(paths)
	if err := store.Load(); err != nil {
		fmt.Fprintln(out, errorStyle.Render("✗ Master log is unreadable:"), err)
		return err
	}

	h := inspectLog(store.Records())
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ %s messages from %s authors",
		humanize.Comma(int64(h.Records)), humanize.Comma(int64(h.Authors)))))
	if !h.LastCaptured.IsZero() {
		fmt.Fprintf(out, "   Last capture: %s\n", humanize.Time(h.LastCaptured))
	}
	if h.OK() {
		fmt.Fprintln(out, successStyle.Render("✓ Ids unique, reply references intact"))
	} else {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠ %d repeated id(s), %d without id, %d dangling reply reference(s)",
			h.RepeatedIDs, h.MissingIDs, h.DanglingRefs)))
		if h.RepeatedIDs > 0 {
			fmt.Fprintln(out, "   Run 'chat-recorder dedupe' to clean up repeated messages")
		}
	}
	if checkVerbose {
		fmt.Fprintf(out, "   Unresolved replies: %d\n", h.Unresolved)
	}

	backups, err := paths.FindBackups()
	if err == nil && len(backups) > 0 {
		fmt.Fprintf(out, "   Backups: %d (latest %s)\n", len(backups), backups[len(backups)-1])
	}
	return nil
}

func checkSource(out io.Writer, source internal.SourceConfig) {
	if source.Path == "" {
		fmt.Fprintln(out, warningStyle.Render("⚠ No source configured (set source.path or pass --source to watch)"))
		return
	}
	if _, err := os.Stat(source.Path); err != nil {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠ Source %s not available: %v", source.Path, err)))
		return
	}

	src, err := internal.OpenSource(source)
	if err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠ Cannot open source:"), err)
		return
	}
	defer src.Close()

	elements, err := src.Fetch(context.Background())
	if err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠ Cannot read source:"), err)
		return
	}
	messages, stats := internal.ExtractBatch(elements)
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Source readable: %d element(s), %d message(s), %d skipped",
		stats.Elements, len(messages), stats.SkippedTotal())))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkVerbose, "details", false, "Show additional details")
}
