package labelfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// KeyNone is the key class reported for items that carry no key_cls.
const KeyNone = "None"

// Item is one annotation object. The members this tool understands are typed;
// anything else (id, linking, ...) is kept verbatim and written back in its
// original position.
type Item struct {
	Transcription *string
	Label         *string
	Points        [][]float64
	Difficult     *bool
	KeyCls        *string

	extra map[string]json.RawMessage
	keys  []string
}

var defaultKeyOrder = []string{"transcription", "label", "points", "difficult", "key_cls"}

// NewItem builds an output item in the shape the assignment step emits.
func NewItem(text string, points [][]float64, keyCls string) Item {
	difficult := false
	return Item{
		Transcription: &text,
		Points:        points,
		Difficult:     &difficult,
		KeyCls:        &keyCls,
	}
}

// Text returns the transcription, falling back to the label member, then "".
func (it Item) Text() string {
	if it.Transcription != nil {
		return *it.Transcription
	}
	if it.Label != nil {
		return *it.Label
	}
	return ""
}

// Key returns key_cls, or KeyNone when the member is absent.
func (it Item) Key() string {
	if it.KeyCls == nil {
		return KeyNone
	}
	return *it.KeyCls
}

// SetTranscription replaces the transcription member.
func (it *Item) SetTranscription(s string) { it.Transcription = &s }

// SetDifficult replaces the difficult member.
func (it *Item) SetDifficult(v bool) { it.Difficult = &v }

// UnmarshalJSON decodes an item while recording member order and unknown members.
func (it *Item) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("annotation item is not a JSON object")
	}

	*it = Item{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		if err := it.setMember(key, raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		if !it.hasKey(key) {
			it.keys = append(it.keys, key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (it *Item) setMember(key string, raw json.RawMessage) error {
	switch key {
	case "transcription":
		return json.Unmarshal(raw, &it.Transcription)
	case "label":
		return json.Unmarshal(raw, &it.Label)
	case "points":
		return json.Unmarshal(raw, &it.Points)
	case "difficult":
		return json.Unmarshal(raw, &it.Difficult)
	case "key_cls":
		return json.Unmarshal(raw, &it.KeyCls)
	}
	if it.extra == nil {
		it.extra = make(map[string]json.RawMessage)
	}
	it.extra[key] = append(json.RawMessage(nil), raw...)
	return nil
}

func (it Item) hasKey(key string) bool {
	for _, k := range it.keys {
		if k == key {
			return true
		}
	}
	return false
}

// MarshalJSON writes members in their original order; typed members set after
// decoding are appended in the default order.
func (it Item) MarshalJSON() ([]byte, error) {
	order := append([]string(nil), it.keys...)
	for _, k := range defaultKeyOrder {
		if !it.hasKey(k) && it.typedMember(k) != nil {
			order = append(order, k)
		}
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range order {
		var raw []byte
		if v := it.typedMember(k); v != nil {
			b, err := marshalNoEscape(v)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", k, err)
			}
			raw = b
		} else if r, ok := it.extra[k]; ok {
			raw = r
		} else if k == "points" {
			raw = []byte("null")
		} else {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// typedMember returns the typed value for a known key, or nil when unset.
func (it Item) typedMember(key string) any {
	switch key {
	case "transcription":
		if it.Transcription != nil {
			return *it.Transcription
		}
	case "label":
		if it.Label != nil {
			return *it.Label
		}
	case "points":
		if it.Points != nil {
			return it.Points
		}
	case "difficult":
		if it.Difficult != nil {
			return *it.Difficult
		}
	case "key_cls":
		if it.KeyCls != nil {
			return *it.KeyCls
		}
	}
	return nil
}

// marshalNoEscape encodes v as compact JSON without HTML escaping.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
