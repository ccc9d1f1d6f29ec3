package labelfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single record; images with thousands of boxes stay well below it.
const maxLineSize = 64 * 1024 * 1024

// Line is one physical line of a label file together with its parse result.
type Line struct {
	Number int
	Raw    string
	Record Record
	Err    error
}

// Blank reports whether the line holds only whitespace.
func (l Line) Blank() bool { return strings.TrimSpace(l.Raw) == "" }

// HasSeparator reports whether the raw line contains a TAB.
func (l Line) HasSeparator() bool { return strings.Contains(l.Raw, Separator) }

// Scanner reads a label file line by line. Parse failures do not stop the
// scan; they are attached to the Line as a *LineError.
type Scanner struct {
	s    *bufio.Scanner
	line Line
	n    int
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{s: s}
}

// Scan advances to the next line. Blank lines are returned too, unparsed.
func (sc *Scanner) Scan() bool {
	if !sc.s.Scan() {
		return false
	}
	sc.n++
	raw := sc.s.Text()
	sc.line = Line{Number: sc.n, Raw: raw}
	if sc.line.Blank() {
		return true
	}
	rec, err := ParseLine(raw)
	if err != nil {
		sc.line.Err = &LineError{Line: sc.n, Err: err}
		return true
	}
	sc.line.Record = rec
	return true
}

// Line returns the most recent line.
func (sc *Scanner) Line() Line { return sc.line }

// Err returns the first I/O error encountered.
func (sc *Scanner) Err() error { return sc.s.Err() }

// Open opens a label file, mapping a missing path to ErrInputNotFound.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path) //nolint:gosec // G304: user-provided label file path is expected
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// ReadAll reads every line of the file at path.
func ReadAll(path string) ([]Line, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []Line
	sc := NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Line())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
