package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/chat-recorder/internal"
	"github.com/iksnae/chat-recorder/internal/export"
	"github.com/spf13/cobra"
)

var (
	format          string
	outputDir       string
	exportAuthor    string
	exportSessionID string
	exportByDate    bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the message log to file",
	Long: `Export recorded messages to various formats (jsonl, md, yaml, json).

You can export the whole log, filter by author or recorder session, and split
the output into one file per capture date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var records []internal.MessageRecord
		steps := []internal.ProgressStep{
			{
				Message: "Loading master log",
				Fn: func() error {
					store, err := openLog()
					if err != nil {
						return err
					}
					records = filterRecords(store.Records(), exportAuthor, exportSessionID)
					return nil
				},
			},
			{
				Message: fmt.Sprintf("Writing %s export to %s", exporter.Extension(), outputDir),
				Fn: func() error {
					if err := os.MkdirAll(outputDir, 0755); err != nil {
						return &internal.ExportError{Format: format, Path: outputDir, Err: err}
					}
					for name, group := range groupForExport(records, exportByDate) {
						path := filepath.Join(outputDir, name+"."+exporter.Extension())
						if err := writeExport(exporter, group, path); err != nil {
							return err
						}
					}
					return nil
				},
			},
		}
		if err := internal.ShowProgressWithSteps(commandContext(cmd), steps); err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %s message(s) exported to %s",
			humanize.Comma(int64(len(records))), outputDir))
		return nil
	},
}

func filterRecords(records []internal.MessageRecord, author, session string) []internal.MessageRecord {
	if author == "" && session == "" {
		return records
	}
	filtered := make([]internal.MessageRecord, 0, len(records))
	for _, rec := range records {
		if author != "" && rec.Author != author {
			continue
		}
		if session != "" && rec.SessionID != session {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// groupForExport maps output file names (without extension) to records.
func groupForExport(records []internal.MessageRecord, byDate bool) map[string][]internal.MessageRecord {
	if !byDate {
		return map[string][]internal.MessageRecord{"chat_log": records}
	}
	groups := make(map[string][]internal.MessageRecord)
	for _, rec := range records {
		date := rec.Date
		if date == "" {
			date = "undated"
		}
		name := "chat_log_" + date
		groups[name] = append(groups[name], rec)
	}
	return groups
}

func writeExport(exporter export.Exporter, records []internal.MessageRecord, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := exporter.Export(records, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	internal.LogDebug("Exported %d message(s) to %s", len(records), path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats(), ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&exportAuthor, "author", "", "Only export messages by this author")
	exportCmd.Flags().StringVar(&exportSessionID, "session-id", "", "Only export messages captured by this recorder session")
	exportCmd.Flags().BoolVar(&exportByDate, "by-date", false, "Write one file per capture date")
}
