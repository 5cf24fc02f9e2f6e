package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBook(t *testing.T) {
	b := Default()
	require.Equal(t, 10, b.Len())

	first, ok := b.At(0)
	require.True(t, ok)
	assert.Equal(t, "no-promoting-or-harassment", first.Name)
	assert.Equal(t, "Do not promote, coordinate, or engage in harassment", first.Title)
	assert.Equal(t, []string{"discord-official-guidelines"}, first.Tags)

	last, ok := b.At(9)
	require.True(t, ok)
	assert.Equal(t, "no-self-harm", last.Name)

	_, ok = b.At(10)
	assert.False(t, ok)
	_, ok = b.At(-1)
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	b := Default()
	r, ok := b.Lookup("no-threats")
	require.True(t, ok)
	assert.Equal(t, "This includes direct, indirect, and suggestive threats.", r.Description)

	_, ok = b.Lookup("missing")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	b := Default()
	all := b.All()
	all[0].Title = "changed"

	r, _ := b.At(0)
	assert.NotEqual(t, "changed", r.Title)
}

func TestNewKeepsOrder(t *testing.T) {
	b, err := New([]Rule{
		{Name: "z", Title: "Z"},
		{Name: "a", Title: "A"},
		{Name: "m", Title: "M"},
	})
	require.NoError(t, err)

	var names []string
	for _, r := range b.All() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"z", "a", "m"}, names)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		list []Rule
		want error
	}{
		{name: "empty", list: nil, want: ErrEmpty},
		{name: "missing name", list: []Rule{{Title: "t"}}, want: ErrMissingField},
		{name: "missing title", list: []Rule{{Name: "n"}}, want: ErrMissingField},
		{name: "duplicate", list: []Rule{{Name: "n", Title: "a"}, {Name: "n", Title: "b"}}, want: ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.list)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("default when path empty", func(t *testing.T) {
		b, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 10, b.Len())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		data := []byte("- name: be-nice\n  title: Be nice\n  description: Just be nice.\n  tags: [local]\n")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		b, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 1, b.Len())
		r, _ := b.At(0)
		assert.Equal(t, "Just be nice.", r.Description)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o644))
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("bad yaml fails", func(t *testing.T) {
		_, err := Parse([]byte("name: [unterminated"))
		assert.Error(t, err)
	})
}
