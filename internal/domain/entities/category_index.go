package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CategoryIndex maps category names to the style names assigned to them.
// Key order is kept as read from disk; new categories are appended.
type CategoryIndex struct {
	keys    []string
	members map[string][]string
}

// NewCategoryIndex creates an empty index
func NewCategoryIndex() *CategoryIndex {
	return &CategoryIndex{members: make(map[string][]string)}
}

// Len returns the number of categories, including the reserved one if present.
func (ci *CategoryIndex) Len() int {
	return len(ci.keys)
}

// Has reports whether the category exists
func (ci *CategoryIndex) Has(category string) bool {
	_, ok := ci.members[category]
	return ok
}

// Keys returns the category names in stored order.
func (ci *CategoryIndex) Keys() []string {
	out := make([]string, len(ci.keys))
	copy(out, ci.keys)
	return out
}

// Members returns a copy of the style names assigned to category.
func (ci *CategoryIndex) Members(category string) []string {
	names := ci.members[category]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Ensure creates an empty entry for category if it does not exist yet.
// It returns true when the entry was created.
func (ci *CategoryIndex) Ensure(category string) bool {
	if ci.Has(category) {
		return false
	}
	if ci.members == nil {
		ci.members = make(map[string][]string)
	}
	ci.keys = append(ci.keys, category)
	ci.members[category] = []string{}
	return true
}

// AddMember records style under category, creating the category if needed.
func (ci *CategoryIndex) AddMember(category, style string) {
	ci.Ensure(category)
	for _, name := range ci.members[category] {
		if name == style {
			return
		}
	}
	ci.members[category] = append(ci.members[category], style)
}

// RemoveMember drops style from category. It reports whether anything was removed.
func (ci *CategoryIndex) RemoveMember(category, style string) bool {
	names, ok := ci.members[category]
	if !ok {
		return false
	}
	kept := names[:0]
	removed := false
	for _, name := range names {
		if name == style {
			removed = true
			continue
		}
		kept = append(kept, name)
	}
	ci.members[category] = kept
	return removed
}

// Rename moves old's membership to newName, keeping its position in key order.
func (ci *CategoryIndex) Rename(old, newName string) bool {
	names, ok := ci.members[old]
	if !ok || ci.Has(newName) {
		return false
	}
	for i, key := range ci.keys {
		if key == old {
			ci.keys[i] = newName
			break
		}
	}
	delete(ci.members, old)
	ci.members[newName] = names
	return true
}

// Delete removes category. It reports whether the category existed.
func (ci *CategoryIndex) Delete(category string) bool {
	if !ci.Has(category) {
		return false
	}
	for i, key := range ci.keys {
		if key == category {
			ci.keys = append(ci.keys[:i], ci.keys[i+1:]...)
			break
		}
	}
	delete(ci.members, category)
	return true
}

// Clone returns a deep copy of the index
func (ci *CategoryIndex) Clone() *CategoryIndex {
	out := NewCategoryIndex()
	for _, key := range ci.keys {
		out.keys = append(out.keys, key)
		out.members[key] = ci.Members(key)
	}
	return out
}

// MarshalJSON writes the index as a JSON object in stored key order.
func (ci *CategoryIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range ci.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeNoEscape(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		names := ci.members[key]
		if names == nil {
			names = []string{}
		}
		if err := encodeNoEscape(&buf, names); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of string arrays, keeping key order.
func (ci *CategoryIndex) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: category index must be a JSON object", ErrInvalidDocument)
	}

	index := NewCategoryIndex()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v", ErrInvalidDocument, tok)
		}

		var names []string
		if err := dec.Decode(&names); err != nil {
			return fmt.Errorf("%w: category %q: %v", ErrInvalidDocument, key, err)
		}
		if names == nil {
			names = []string{}
		}

		// Duplicate keys: the last value wins, the first position is kept.
		if !index.Has(key) {
			index.keys = append(index.keys, key)
		}
		index.members[key] = names
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*ci = *index
	return nil
}

func encodeNoEscape(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
