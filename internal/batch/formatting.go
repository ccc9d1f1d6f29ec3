package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type fileSummary struct {
	File       string         `json:"file"`
	Output     string         `json:"output"`
	Records    int            `json:"records"`
	Skipped    map[string]int `json:"skipped"`
	Degenerate int            `json:"degenerate_items"`
	Values     int            `json:"values"`
	Candidate  int            `json:"candidate_values"`
	Inline     int            `json:"inline_values"`
	ByKey      map[string]int `json:"by_key"`
	DurationMS int64          `json:"duration_ms"`
}

func summarize(fs FileStats) fileSummary {
	return fileSummary{
		File:       fs.Input,
		Output:     fs.Output,
		Records:    fs.Records,
		Skipped:    fs.Skipped,
		Degenerate: fs.Degenerate,
		Values:     fs.Values,
		Candidate:  fs.Candidate,
		Inline:     fs.Inline,
		ByKey:      fs.ByKey,
		DurationMS: fs.Duration.Milliseconds(),
	}
}

// formatBatchResults formats the per-file statistics in the specified format.
func formatBatchResults(files []FileStats, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(files)
	case "csv":
		return formatCSV(files)
	default: // text
		return formatText(files)
	}
}

// formatJSON formats results as JSON.
func formatJSON(files []FileStats) (string, error) {
	batchResult := struct {
		Files []fileSummary `json:"files"`
	}{Files: make([]fileSummary, len(files))}

	for i, fs := range files {
		batchResult.Files[i] = summarize(fs)
	}

	bts, err := json.MarshalIndent(batchResult, "", "  ")
	return string(bts), err
}

// formatCSV formats results as CSV, one row per label file.
func formatCSV(files []FileStats) (string, error) {
	csvData := [][]string{{
		"file", "output", "records", "skipped_missing_separator", "skipped_malformed_payload",
		"degenerate_items", "values", "candidate_values", "inline_values", "duration_ms",
	}}

	for _, fs := range files {
		csvData = append(csvData, []string{
			fs.Input,
			fs.Output,
			strconv.Itoa(fs.Records),
			strconv.Itoa(fs.Skipped["missing_separator"]),
			strconv.Itoa(fs.Skipped["malformed_payload"]),
			strconv.Itoa(fs.Degenerate),
			strconv.Itoa(fs.Values),
			strconv.Itoa(fs.Candidate),
			strconv.Itoa(fs.Inline),
			strconv.FormatInt(fs.Duration.Milliseconds(), 10),
		})
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range csvData {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), writer.Error()
}

// formatText formats results as plain text, one block per label file.
func formatText(files []FileStats) (string, error) {
	var output strings.Builder
	for i, fs := range files {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s -> %s\n", fs.Input, fs.Output))
		output.WriteString(fmt.Sprintf("records: %d, skipped: %d, degenerate items: %d\n",
			fs.Records, fs.SkippedTotal(), fs.Degenerate))
		output.WriteString(fmt.Sprintf("values: %d (candidate %d, inline %d)\n", fs.Values, fs.Candidate, fs.Inline))
		for _, key := range sortedKeys(fs.ByKey) {
			output.WriteString(fmt.Sprintf("  %s: %d\n", key, fs.ByKey[key]))
		}
	}
	return output.String(), nil
}
