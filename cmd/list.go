package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/chat-recorder/internal"
	"github.com/spf13/cobra"
)

var (
	listAuthor string
	listLimit  int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded messages",
	Long:  `List the most recent messages in the master log, optionally for a single author.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLog()
		if err != nil {
			return err
		}

		records := filterRecords(store.Records(), listAuthor, "")
		total := len(records)
		if listLimit > 0 && len(records) > listLimit {
			records = records[len(records)-listLimit:]
		}

		displayRecords(cmd, records, total)
		return nil
	},
}

func displayRecords(cmd *cobra.Command, records []internal.MessageRecord, total int) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No messages found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Showing %s of %s message(s)",
		humanize.Comma(int64(len(records))), humanize.Comma(int64(total)))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Time")+"\t"+titleStyle.Render("Author")+"\t"+titleStyle.Render("Message")+"\t"+titleStyle.Render("Captured")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, rec := range records {
		content := strings.ReplaceAll(internal.Preview(rec.Content, internal.FeedPreviewLen), "\n", " ")
		if rec.IsReply {
			content = replyStyle.Render("↩ "+rec.ReplyTargetAuthor) + " " + content
		}

		captured := dateStyle.Render("-")
		if t := rec.GetCapturedAt(); !t.IsZero() {
			captured = dateStyle.Render(humanize.Time(t))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", rec.Timestamp, authorStyle.Render(rec.Author), content, captured)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("Tip: use `chat-recorder show <msg-id>` to see a message and its reply chain"))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listAuthor, "author", "", "Only list messages by this author")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Number of most recent messages to list (0 for all)")
}
