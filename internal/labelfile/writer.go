package labelfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// WriteLines writes lines, each terminated by "\n", to path. The content goes
// to a temporary file in the same directory first and is renamed into place.
func WriteLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	for _, l := range lines {
		if _, err := w.WriteString(l); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // G302: label files are shared with the annotation tool
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteRecords formats records and writes them with WriteLines.
func WriteRecords(path string, recs []Record) error {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		l, err := FormatLine(r)
		if err != nil {
			return err
		}
		lines = append(lines, l)
	}
	return WriteLines(path, lines)
}

// RewriteFunc maps one input line to its output. Returning keep=false drops
// the line.
type RewriteFunc func(line Line) (out string, keep bool, err error)

// Rewrite reads the label file at path, passes every line through fn and
// replaces the file with the kept lines.
func Rewrite(path string, fn RewriteFunc) error {
	lines, err := ReadAll(path)
	if err != nil {
		return err
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		s, keep, err := fn(l)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", path, l.Number, err)
		}
		if keep {
			out = append(out, s)
		}
	}
	return WriteLines(path, out)
}
