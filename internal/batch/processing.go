package batch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/kielabel/internal/common"
	"github.com/MeKo-Tech/kielabel/internal/kie"
	"github.com/MeKo-Tech/kielabel/internal/labelfile"
	"github.com/MeKo-Tech/kielabel/internal/metrics"
)

const commandName = "assign"

// processFile reads one label file, assigns every parsable record and writes
// the enriched copy to out. Bad lines are skipped and counted.
func processFile(a *kie.Assigner, in, out string, rec *metrics.Recorder) (FileStats, error) {
	timer := common.StartTimer(in)
	fs := newFileStats(in, out)

	f, err := labelfile.Open(in)
	if err != nil {
		return fs, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := labelfile.NewScanner(f)
	for sc.Scan() {
		line := sc.Line()
		if line.Blank() {
			continue
		}
		if line.Err != nil {
			reason := labelfile.ParseReason(line.Err)
			fs.Skipped[reason]++
			rec.ObserveSkip(commandName, reason)
			slog.Debug("skipping line", "path", in, "line", line.Number, "reason", reason, "error", line.Err)
			continue
		}

		formatted, err := assignLine(a, line, &fs, rec)
		if err != nil {
			return fs, err
		}
		lines = append(lines, formatted)
	}
	if err := sc.Err(); err != nil {
		return fs, fmt.Errorf("read %s: %w", in, err)
	}

	if err := labelfile.WriteLines(out, lines); err != nil {
		return fs, err
	}
	rec.ObserveRewrite(commandName)
	fs.Written = len(lines)
	fs.Duration = timer.Stop()
	rec.ObserveDuration(commandName, fs.Duration)
	return fs, nil
}

// assignLine runs the assigner on one parsed line and updates the counters.
func assignLine(a *kie.Assigner, line labelfile.Line, fs *FileStats, rec *metrics.Recorder) (string, error) {
	fs.Records++
	rec.ObserveRecord(commandName)

	res := a.AssignRecord(line.Record)
	for _, skipErr := range res.Skipped {
		index := -1
		var itemErr *kie.ItemError
		if errors.As(skipErr, &itemErr) {
			index = itemErr.Index
		}
		slog.Warn("skipping degenerate item", "image", line.Record.Image, "line", line.Number,
			"item", index, "error", skipErr)
	}
	fs.Degenerate += len(res.Skipped)
	rec.ObserveDegenerate(len(res.Skipped))

	for _, as := range res.Assignments {
		fs.Values++
		fs.ByKey[as.Key]++
		switch as.Source {
		case kie.SourceInline:
			fs.Inline++
		default:
			fs.Candidate++
		}
		rec.ObserveValue(as.Key, as.Source.String())
	}

	return labelfile.FormatLine(res.Record)
}
