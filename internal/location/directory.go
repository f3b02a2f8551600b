package location

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownCountry = errors.New("unknown country")

// Entry is one country with its cities, in display order.
type Entry struct {
	Country string   `yaml:"country" json:"country"`
	Cities  []string `yaml:"cities" json:"cities"`
}

// Directory is an immutable country -> cities lookup table. Order of
// countries and cities is preserved for selection inputs.
type Directory struct {
	entries []Entry
	index   map[string]int
}

var defaultEntries = []Entry{
	{Country: "United States", Cities: []string{"New York", "Los Angeles", "Chicago", "Miami", "Seattle"}},
	{Country: "United Kingdom", Cities: []string{"London", "Manchester", "Birmingham", "Edinburgh", "Bristol"}},
	{Country: "Germany", Cities: []string{"Berlin", "Munich", "Hamburg", "Frankfurt", "Cologne"}},
	{Country: "Japan", Cities: []string{"Tokyo", "Osaka", "Kyoto", "Yokohama", "Nagoya"}},
	{Country: "Australia", Cities: []string{"Sydney", "Melbourne", "Brisbane", "Perth", "Adelaide"}},
	{Country: "Canada", Cities: []string{"Toronto", "Vancouver", "Montreal", "Calgary", "Ottawa"}},
	{Country: "France", Cities: []string{"Paris", "Lyon", "Marseille", "Toulouse", "Nice"}},
	{Country: "Singapore", Cities: []string{"Singapore City"}},
	{Country: "Brazil", Cities: []string{"São Paulo", "Rio de Janeiro", "Brasília", "Salvador", "Fortaleza"}},
}

// Default returns the built-in reference table.
func Default() *Directory {
	d, err := New(defaultEntries)
	if err != nil {
		panic(err) // built-in table is known good
	}
	return d
}

// New validates entries and builds a directory from them.
func New(entries []Entry) (*Directory, error) {
	d := &Directory{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		country := strings.TrimSpace(e.Country)
		if country == "" {
			return nil, errors.New("location entry with empty country")
		}
		if _, dup := d.index[country]; dup {
			return nil, fmt.Errorf("duplicate country %q", country)
		}
		if len(e.Cities) == 0 {
			return nil, fmt.Errorf("country %q has no cities", country)
		}
		seen := make(map[string]bool, len(e.Cities))
		cities := make([]string, 0, len(e.Cities))
		for _, c := range e.Cities {
			c = strings.TrimSpace(c)
			if c == "" {
				return nil, fmt.Errorf("country %q has an empty city", country)
			}
			if seen[c] {
				return nil, fmt.Errorf("country %q lists city %q twice", country, c)
			}
			seen[c] = true
			cities = append(cities, c)
		}
		d.index[country] = len(d.entries)
		d.entries = append(d.entries, Entry{Country: country, Cities: cities})
	}
	return d, nil
}

// LoadFile reads a YAML list of entries. An empty path returns Default().
//
//	- country: Japan
//	  cities: [Tokyo, Osaka]
func LoadFile(path string) (*Directory, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}
	d, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid locations: %w", err)
	}
	return d, nil
}

// FromMap builds a directory from an unordered map; countries are kept in
// the order given by order, and any remaining keys are dropped.
func FromMap(order []string, m map[string][]string) (*Directory, error) {
	entries := make([]Entry, 0, len(order))
	for _, c := range order {
		entries = append(entries, Entry{Country: c, Cities: m[c]})
	}
	return New(entries)
}

func (d *Directory) Countries() []string {
	out := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.Country)
	}
	return out
}

// Cities returns a copy of the cities for country.
func (d *Directory) Cities(country string) ([]string, error) {
	i, ok := d.index[country]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	return append([]string(nil), d.entries[i].Cities...), nil
}

// Contains reports whether city is listed under country.
func (d *Directory) Contains(country, city string) bool {
	i, ok := d.index[country]
	if !ok {
		return false
	}
	for _, c := range d.entries[i].Cities {
		if c == city {
			return true
		}
	}
	return false
}

func (d *Directory) HasCountry(country string) bool {
	_, ok := d.index[country]
	return ok
}

// Entries returns a deep copy of the table.
func (d *Directory) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	for i, e := range d.entries {
		out[i] = Entry{Country: e.Country, Cities: append([]string(nil), e.Cities...)}
	}
	return out
}

func (d *Directory) Len() int { return len(d.entries) }
