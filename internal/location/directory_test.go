package location

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ReferenceTable(t *testing.T) {
	d := Default()
	assert.Equal(t, 9, d.Len())
	assert.Equal(t, "United States", d.Countries()[0])

	for _, c := range d.Countries() {
		cities, err := d.Cities(c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(cities), 1, c)
		assert.LessOrEqual(t, len(cities), 5, c)
	}

	assert.True(t, d.Contains("Japan", "Kyoto"))
	assert.True(t, d.Contains("Singapore", "Singapore City"))
	assert.False(t, d.Contains("Germany", "Paris"))
	assert.False(t, d.Contains("Atlantis", "Poseidonia"))
	assert.False(t, d.Contains("", ""))
}

func TestCities_UnknownCountry(t *testing.T) {
	_, err := Default().Cities("Atlantis")
	assert.True(t, errors.Is(err, ErrUnknownCountry))
}

func TestCities_ReturnsCopy(t *testing.T) {
	d := Default()
	cities, err := d.Cities("France")
	require.NoError(t, err)
	cities[0] = "Mutated"
	assert.True(t, d.Contains("France", "Paris"))
}

func TestNew_RejectsBadEntries(t *testing.T) {
	cases := map[string][]Entry{
		"empty country": {{Country: " ", Cities: []string{"X"}}},
		"no cities":     {{Country: "X"}},
		"empty city":    {{Country: "X", Cities: []string{""}}},
		"dup city":      {{Country: "X", Cities: []string{"A", "A"}}},
		"dup country":   {{Country: "X", Cities: []string{"A"}}, {Country: "X", Cities: []string{"B"}}},
	}
	for name, entries := range cases {
		_, err := New(entries)
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.yaml")
	body := `
- country: Norway
  cities: [Oslo, Bergen]
- country: Kenya
  cities:
    - Nairobi
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Norway", "Kenya"}, d.Countries())
	assert.True(t, d.Contains("Norway", "Bergen"))
	assert.False(t, d.Contains("Japan", "Kyoto"))
}

func TestLoadFile_EmptyPathIsDefault(t *testing.T) {
	d, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default().Countries(), d.Countries())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFromMap_KeepsOrder(t *testing.T) {
	d, err := FromMap([]string{"B", "A"}, map[string][]string{"A": {"a1"}, "B": {"b1"}, "C": {"c1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, d.Countries())
	assert.False(t, d.HasCountry("C"))
}
