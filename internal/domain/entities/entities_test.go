package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStyleRecord_PreservesUnknownFields(t *testing.T) {
	input := `{"name":"Neon","prompt":"<lora:neon:0.8>, glow","negative_prompt":"","category":"🌈 Color","rating":5,"author":{"id":1}}`

	var record StyleRecord
	require.NoError(t, json.Unmarshal([]byte(input), &record))
	require.Equal(t, "Neon", record.Name)
	require.Equal(t, "🌈 Color", record.Category)
	require.False(t, record.HasImage())

	// json.Marshal escapes HTML in the result of MarshalJSON; the store encodes like this.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(record))
	out := bytes.TrimSpace(buf.Bytes())
	require.Contains(t, string(out), `"prompt":"<lora:neon:0.8>, glow"`, "HTML characters must not be escaped")
	require.Contains(t, string(out), `"author":{"id":1}`)
	require.Contains(t, string(out), `"rating":5`)
	require.NotContains(t, string(out), `"image"`, "empty image is omitted")

	var again map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &again))
	require.Len(t, again, 6)
}

func TestCatalog_NamesIn_SortsAndFilters(t *testing.T) {
	catalog := Catalog{
		{Name: "b", Category: "Photo"},
		{Name: "a", Category: "Photo"},
		{Name: "c", Category: "Art"},
		{Name: "d", Category: ""},
	}

	require.Equal(t, []string{"a", "b"}, catalog.NamesIn("Photo"))
	require.Equal(t, []string{"d"}, catalog.NamesIn(""))
	require.Empty(t, catalog.NamesIn("Missing"))
	require.Equal(t, []string{"a", "b", "c", "d"}, catalog.Names())
}

func TestCatalog_FindIsCaseSensitive(t *testing.T) {
	catalog := Catalog{{Name: "Anime"}}

	require.Equal(t, 0, catalog.Find("Anime"))
	require.Equal(t, -1, catalog.Find("anime"))
	require.Len(t, catalog.Without("Anime"), 0)
	require.Len(t, catalog, 1, "Without must not modify the receiver")
}

func TestCategoryIndex_KeepsKeyOrder(t *testing.T) {
	var index CategoryIndex
	require.NoError(t, json.Unmarshal([]byte(`{"Zeta":["z1"],"Alpha":[],"Mid":["m1","m2"]}`), &index))
	require.Equal(t, []string{"Zeta", "Alpha", "Mid"}, index.Keys())

	require.True(t, index.Rename("Alpha", "Beta"))
	index.AddMember("New", "n1")

	out, err := json.Marshal(&index)
	require.NoError(t, err)
	require.Equal(t, `{"Zeta":["z1"],"Beta":[],"Mid":["m1","m2"],"New":["n1"]}`, string(out))
}

func TestCategoryIndex_MembershipOps(t *testing.T) {
	index := NewCategoryIndex()

	require.True(t, index.Ensure("Art"))
	require.False(t, index.Ensure("Art"))

	index.AddMember("Art", "s1")
	index.AddMember("Art", "s1")
	require.Equal(t, []string{"s1"}, index.Members("Art"), "AddMember deduplicates")

	require.False(t, index.RemoveMember("Missing", "s1"))
	require.True(t, index.RemoveMember("Art", "s1"))
	require.Empty(t, index.Members("Art"))

	index.Ensure("Other")
	require.False(t, index.Rename("Art", "Other"), "rename onto an existing key is refused")
	require.True(t, index.Delete("Art"))
	require.False(t, index.Delete("Art"))
	require.Equal(t, []string{"Other"}, index.Keys())
}

func TestCategoryIndex_CloneIsIndependent(t *testing.T) {
	index := NewCategoryIndex()
	index.AddMember("Art", "s1")

	clone := index.Clone()
	clone.AddMember("Art", "s2")
	clone.Delete("Art")

	require.Equal(t, []string{"s1"}, index.Members("Art"))
}

func TestCategoryIndex_RejectsNonObject(t *testing.T) {
	var index CategoryIndex
	err := json.Unmarshal([]byte(`["a","b"]`), &index)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidDocument))
}

func TestCategoryLabel(t *testing.T) {
	require.Equal(t, "🔥 Hot", CategoryLabel("Hot", "🔥"))
	require.Equal(t, "Hot", CategoryLabel("Hot", ""))
	require.True(t, IsBlank("  \t"))
	require.False(t, IsBlank(" x "))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: ErrEmptyName, want: "empty_name"},
		{err: fmt.Errorf("style %q: %w", "a", ErrDuplicateName), want: "duplicate_name"},
		{err: fmt.Errorf("category: %w", ErrAlreadyExists), want: "already_exists"},
		{err: ErrNotFound, want: "not_found"},
		{err: ErrNoChange, want: "no_change"},
		{err: ErrInvalidImage, want: "invalid_image"},
		{err: errors.New("disk full"), want: ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ErrorCode(tt.err))
	}
}
