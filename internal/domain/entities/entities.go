package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// Common errors
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrDuplicateName   = errors.New("style name already exists")
	ErrAlreadyExists   = errors.New("category already exists")
	ErrNotFound        = errors.New("not found")
	ErrNoChange        = errors.New("new name is the same as the old name")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidImage    = errors.New("invalid image")
)

// ErrorCode returns a stable machine-readable code for a domain error, or "" for other errors.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyName):
		return "empty_name"
	case errors.Is(err, ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoChange):
		return "no_change"
	case errors.Is(err, ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, ErrInvalidDocument):
		return "invalid_document"
	default:
		return ""
	}
}

// DefaultAllCategory is the reserved "show all" category key.
const DefaultAllCategory = "全部"

// Generation metadata keys recorded alongside generated output
const (
	ParamStyleSelectorEnabled = "Style Selector Enabled"
	ParamStyleSelectorStyle   = "Style Selector Style"
)

// StyleRecord is one entry of the style catalog
type StyleRecord struct {
	Name           string `json:"name" yaml:"name"`
	Prompt         string `json:"prompt" yaml:"prompt"`
	NegativePrompt string `json:"negative_prompt" yaml:"negative_prompt"`
	Category       string `json:"category" yaml:"category"`
	Image          string `json:"image,omitempty" yaml:"image,omitempty"`

	// extra keeps fields this version does not know about so a rewrite preserves them.
	extra map[string]json.RawMessage
}

var styleRecordFields = map[string]struct{}{
	"name":            {},
	"prompt":          {},
	"negative_prompt": {},
	"category":        {},
	"image":           {},
}

type styleRecordJSON struct {
	Name           string `json:"name"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Category       string `json:"category"`
	Image          string `json:"image,omitempty"`
}

// UnmarshalJSON decodes a record and keeps unknown fields aside.
func (s *StyleRecord) UnmarshalJSON(data []byte) error {
	var known styleRecordJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key := range styleRecordFields {
		delete(all, key)
	}

	*s = StyleRecord{
		Name:           known.Name,
		Prompt:         known.Prompt,
		NegativePrompt: known.NegativePrompt,
		Category:       known.Category,
		Image:          known.Image,
	}
	if len(all) > 0 {
		s.extra = all
	}
	return nil
}

// MarshalJSON writes the known fields first, then any preserved unknown fields in key order.
func (s StyleRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(styleRecordJSON{
		Name:           s.Name,
		Prompt:         s.Prompt,
		NegativePrompt: s.NegativePrompt,
		Category:       s.Category,
		Image:          s.Image,
	}); err != nil {
		return nil, err
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	if len(s.extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(s.extra))
	for key := range s.extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out = out[:len(out)-1]
	for _, key := range keys {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		out = append(out, ',')
		out = append(out, name...)
		out = append(out, ':')
		out = append(out, s.extra[key]...)
	}
	return append(out, '}'), nil
}

// HasImage reports whether a preview image path is recorded
func (s StyleRecord) HasImage() bool {
	return s.Image != ""
}

// Catalog is the ordered list of style records stored in the catalog file
type Catalog []StyleRecord

// Find returns the index of the record named name, or -1.
func (c Catalog) Find(name string) int {
	for i := range c {
		if c[i].Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether a record named name exists
func (c Catalog) Has(name string) bool {
	return c.Find(name) >= 0
}

// NamesIn returns the sorted names of styles whose category equals category.
func (c Catalog) NamesIn(category string) []string {
	names := make([]string, 0)
	for _, style := range c {
		if style.Name != "" && style.Category == category {
			names = append(names, style.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Names returns every style name, sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, style := range c {
		if style.Name != "" {
			names = append(names, style.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Without returns a copy of the catalog with every record named name removed.
func (c Catalog) Without(name string) Catalog {
	out := make(Catalog, 0, len(c))
	for _, style := range c {
		if style.Name != name {
			out = append(out, style)
		}
	}
	return out
}

// IsBlank reports whether a name is empty or whitespace-only
func IsBlank(name string) bool {
	return strings.TrimSpace(name) == ""
}

// CategoryLabel builds the stored category key from a label and an optional emoji prefix.
func CategoryLabel(label, emoji string) string {
	if emoji != "" {
		return emoji + " " + label
	}
	return label
}
