package labelfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Separator splits the image identifier from the JSON payload.
const Separator = "\t"

var (
	// ErrInputNotFound is returned when the label file does not exist.
	ErrInputNotFound = errors.New("label file not found")
	// ErrMissingSeparator marks a line without a TAB.
	ErrMissingSeparator = errors.New("missing tab separator")
	// ErrMalformedPayload marks a line whose JSON payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed JSON payload")
)

// LineError reports why one line of a label file could not be parsed.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Record is one image's annotation set.
type Record struct {
	Image string
	Items []Item
}

// ParseLine splits a line at its first TAB and decodes the JSON array.
func ParseLine(line string) (Record, error) {
	image, payload, ok := strings.Cut(line, Separator)
	if !ok {
		return Record{}, ErrMissingSeparator
	}
	var items []Item
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return Record{Image: image, Items: items}, nil
}

// FormatLine serializes a record back to "<image>\t<JSON array>".
func FormatLine(rec Record) (string, error) {
	items := rec.Items
	if items == nil {
		items = []Item{}
	}
	payload, err := marshalNoEscape(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", rec.Image, err)
	}
	return rec.Image + Separator + string(payload), nil
}

// ParseReason names the failure class of a parse error for counters and logs.
func ParseReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingSeparator):
		return "missing_separator"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	default:
		return "other"
	}
}
