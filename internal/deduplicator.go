package internal

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

const maxReportSamples = 5

// Deduplicator removes records that repeat an earlier message after price
// normalization. It keys records with a shorter content prefix than the live
// pipeline, which catches repeats whose ids drifted in older logs.
type Deduplicator struct {
	ids IDGenerator
}

// NewDeduplicator creates a new Deduplicator keyed on prefixLen content
// characters; prefixLen <= 0 uses OfflinePrefixLen.
func NewDeduplicator(prefixLen int) *Deduplicator {
	if prefixLen <= 0 {
		prefixLen = OfflinePrefixLen
	}
	return &Deduplicator{ids: NewIDGenerator(prefixLen)}
}

// DedupReport describes the outcome of a deduplication pass
type DedupReport struct {
	Original int
	Kept     []MessageRecord
	Removed  []MessageRecord
}

// RemovedCount returns the number of records dropped.
func (r DedupReport) RemovedCount() int {
	return len(r.Removed)
}

// Rate returns the share of duplicates as a percentage of the original log.
func (r DedupReport) Rate() float64 {
	if r.Original == 0 {
		return 0
	}
	return float64(len(r.Removed)) / float64(r.Original) * 100
}

// Samples returns up to five removed records for display.
func (r DedupReport) Samples() []MessageRecord {
	if len(r.Removed) <= maxReportSamples {
		return r.Removed
	}
	return r.Removed[:maxReportSamples]
}

// WriteTo prints the human-readable summary
func (r DedupReport) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	fmt.Fprintf(cw, "Original message count: %s\n", humanize.Comma(int64(r.Original)))
	fmt.Fprintf(cw, "New message count: %s\n", humanize.Comma(int64(len(r.Kept))))
	fmt.Fprintf(cw, "Duplicates removed: %s\n", humanize.Comma(int64(len(r.Removed))))

	if len(r.Removed) > 0 {
		fmt.Fprintf(cw, "\nExamples of duplicates removed:\n")
		for i, rec := range r.Samples() {
			fmt.Fprintf(cw, "  %d. %s - %s: %s...\n", i+1, rec.Timestamp, rec.Author, truncateRunes(rec.Content, 50))
		}
		if extra := len(r.Removed) - maxReportSamples; extra > 0 {
			fmt.Fprintf(cw, "  ... and %s more.\n", humanize.Comma(int64(extra)))
		}
	}

	fmt.Fprintf(cw, "\nDuplicate rate: %.2f%% of messages were duplicates\n", r.Rate())
	return cw.n, cw.err
}

// Deduplicate keeps the first record for every key and collects the rest.
// Records without an id are always kept.
func (d *Deduplicator) Deduplicate(records []MessageRecord) DedupReport {
	report := DedupReport{Original: len(records)}
	seen := make(map[string]bool)

	for _, rec := range records {
		if rec.ID == "" {
			LogWarn("Message without id found at %s by %s; keeping it", rec.Timestamp, rec.Author)
			report.Kept = append(report.Kept, rec)
			continue
		}

		key := d.key(rec)
		if seen[key] {
			report.Removed = append(report.Removed, rec)
			continue
		}
		seen[key] = true
		report.Kept = append(report.Kept, rec)
	}

	return report
}

// key recomputes the identity from the record fields. Records missing a
// timestamp or author fall back to their stored id.
func (d *Deduplicator) key(rec MessageRecord) string {
	if rec.Timestamp == "" || rec.Author == "" {
		return rec.ID
	}
	return d.ids.Generate(rec.Timestamp, rec.Author, rec.Content)
}

// DedupeResult is the outcome of DedupeLog
type DedupeResult struct {
	Report     DedupReport
	BackupPath string
	Written    bool
}

// DedupeLog deduplicates the master log at paths in place. The log is backed
// up before it is rewritten; with dryRun nothing is written. Nothing is
// rewritten when no duplicates are found.
func DedupeLog(paths LogPaths, prefixLen int, dryRun bool) (DedupeResult, error) {
	store := NewStore(paths)
	store.SnapshotSession = false

	if err := store.Load(); err != nil {
		return DedupeResult{}, err
	}

	var result DedupeResult
	result.Report = NewDeduplicator(prefixLen).Deduplicate(store.Records())
	if dryRun || result.Report.RemovedCount() == 0 {
		return result, nil
	}

	backup, err := store.Backup()
	if err != nil {
		return result, err
	}
	result.BackupPath = backup
	LogInfo("Created backup at: %s", backup)

	store.ReplaceAll(result.Report.Kept)
	if err := store.Persist(); err != nil {
		return result, err
	}
	result.Written = true
	return result, nil
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
