package cmd

import (
	"fmt"
	"io"

	"github.com/iksnae/chat-recorder/internal"
	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <msg-id>",
	Short: "Show a message with its reply chain",
	Long: `Display one recorded message, the chain of messages it replies to and the
replies it received.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLog()
		if err != nil {
			return err
		}

		rec, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("message not found: %s", args[0])
		}

		out := cmd.OutOrStdout()
		chain := replyChain(store, rec)
		if len(chain) > 0 {
			fmt.Fprintln(out, sectionStyle.Render("In reply to"))
			for i := len(chain) - 1; i >= 0; i-- {
				printRecord(out, chain[i], "  ")
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintln(out, sectionStyle.Render("Message"))
		printRecord(out, rec, "")
		fmt.Fprintf(out, "%s\n", idStyle.Render(rec.ID))
		if rec.CapturedAt != "" {
			fmt.Fprintf(out, "%s\n", dateStyle.Render("captured "+rec.CapturedAt))
		}
		if rec.IsReply && rec.ReplyTargetID == "" {
			fmt.Fprintln(out, warningStyle.Render("Reply target could not be resolved"))
		}

		if replies := repliesTo(store, rec.ID); len(replies) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, sectionStyle.Render(fmt.Sprintf("Replies (%d)", len(replies))))
			for _, r := range replies {
				printRecord(out, r, "  ")
			}
		}
		return nil
	},
}

// replyChain follows reply targets from rec, nearest first. Missing targets
// and cycles end the chain.
func replyChain(store *internal.Store, rec internal.MessageRecord) []internal.MessageRecord {
	var chain []internal.MessageRecord
	seen := map[string]bool{rec.ID: true}
	for rec.HasReplyTarget() && !seen[rec.ReplyTargetID] {
		target, ok := store.Get(rec.ReplyTargetID)
		if !ok {
			break
		}
		seen[target.ID] = true
		chain = append(chain, target)
		rec = target
	}
	return chain
}

func repliesTo(store *internal.Store, id string) []internal.MessageRecord {
	var replies []internal.MessageRecord
	for _, rec := range store.Records() {
		if rec.ReplyTargetID == id && rec.ID != id {
			replies = append(replies, rec)
		}
	}
	return replies
}

func printRecord(w io.Writer, rec internal.MessageRecord, indent string) {
	header := fmt.Sprintf("%s%s %s", indent, authorStyle.Render(rec.Author), dateStyle.Render(rec.Timestamp))
	if rec.IsReply {
		header += " " + replyStyle.Render("↩ "+rec.ReplyTargetAuthor)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintf(w, "%s  %s\n", indent, rec.Content)
}

func init() {
	rootCmd.AddCommand(showCmd)
}
