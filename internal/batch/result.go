package batch

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// FileStats summarizes the assignment of one label file.
type FileStats struct {
	Input      string
	Output     string
	Records    int
	Written    int
	Skipped    map[string]int
	Degenerate int
	Values     int
	Candidate  int
	Inline     int
	ByKey      map[string]int
	Duration   time.Duration
}

func newFileStats(in, out string) FileStats {
	return FileStats{
		Input:   in,
		Output:  out,
		Skipped: make(map[string]int),
		ByKey:   make(map[string]int),
	}
}

// SkippedTotal returns the number of skipped lines across all reasons.
func (fs FileStats) SkippedTotal() int {
	n := 0
	for _, c := range fs.Skipped {
		n += c
	}
	return n
}

// Result holds the result of an assignment run.
type Result struct {
	Files    []FileStats
	Duration time.Duration
}

// Totals adds up the per-file counters.
func (r *Result) Totals() FileStats {
	total := newFileStats("", "")
	for _, fs := range r.Files {
		total.Records += fs.Records
		total.Written += fs.Written
		total.Degenerate += fs.Degenerate
		total.Values += fs.Values
		total.Candidate += fs.Candidate
		total.Inline += fs.Inline
		for k, v := range fs.Skipped {
			total.Skipped[k] += v
		}
		for k, v := range fs.ByKey {
			total.ByKey[k] += v
		}
	}
	total.Duration = r.Duration
	return total
}

// FormatResults formats the per-file summary in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Files, format)
}

// SaveResults writes the formatted summary to outputFile, or to w when no
// file is given.
func (r *Result) SaveResults(w io.Writer, format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(w, "Report written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(w, output)
	}

	return nil
}

// PrintStats prints run statistics to w.
func (r *Result) PrintStats(w io.Writer, quiet bool) {
	if quiet {
		return
	}
	t := r.Totals()
	_, _ = fmt.Fprintf(w, "\nAssignment Statistics:\n")
	_, _ = fmt.Fprintf(w, "  Label files: %d\n", len(r.Files))
	_, _ = fmt.Fprintf(w, "  Records: %d\n", t.Records)
	_, _ = fmt.Fprintf(w, "  Skipped lines: %d\n", t.SkippedTotal())
	for _, reason := range sortedKeys(t.Skipped) {
		_, _ = fmt.Fprintf(w, "    %s: %d\n", reason, t.Skipped[reason])
	}
	_, _ = fmt.Fprintf(w, "  Degenerate items: %d\n", t.Degenerate)
	_, _ = fmt.Fprintf(w, "  Values: %d (candidate %d, inline %d)\n", t.Values, t.Candidate, t.Inline)
	_, _ = fmt.Fprintf(w, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
