// Package batch runs field assignment over one or more label files.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/kielabel/internal/kie"
	"github.com/MeKo-Tech/kielabel/internal/metrics"
)

// ProcessBatch assigns key classes in every label file found under paths.
// Each input gets its own output file; a missing input aborts before any
// file is processed.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	files, err := discoverLabelFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover label files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no label files found")
	}
	if config.OutputFile != "" && len(files) > 1 {
		return nil, fmt.Errorf("%w (found %d)", errOutputForMany, len(files))
	}

	assigner, err := buildAssigner(config)
	if err != nil {
		return nil, err
	}

	rec := metrics.New()
	startTime := time.Now()
	stats := make([]FileStats, 0, len(files))
	for _, in := range files {
		out := config.OutputPathFor(in)
		fs, err := processFile(assigner, in, out, rec)
		if err != nil {
			return nil, fmt.Errorf("assignment failed for %s: %w", in, err)
		}
		slog.Info("label file enriched", "path", in, "output", out,
			"records", fs.Records, "values", fs.Values, "duration", fs.Duration)
		stats = append(stats, fs)
	}
	duration := time.Since(startTime)

	if err := rec.WriteTextfile(config.MetricsFile); err != nil {
		slog.Warn("could not write metrics", "path", config.MetricsFile, "error", err)
	}

	return &Result{Files: stats, Duration: duration}, nil
}

// buildAssigner loads and compiles the catalogue named in config.
func buildAssigner(config *Config) (*kie.Assigner, error) {
	cat, err := kie.LoadCatalogue(config.Catalogue)
	if err != nil {
		return nil, err
	}
	compiled, err := cat.Compile()
	if err != nil {
		return nil, err
	}
	slog.Debug("catalogue loaded", "name", cat.Name, "version", cat.Version, "fields", len(cat.Fields))
	return kie.NewAssigner(compiled, config.ResolveOptions()), nil
}
