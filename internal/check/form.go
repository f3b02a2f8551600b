package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/hamed0406/geocheck/internal/domain"
	"github.com/hamed0406/geocheck/internal/location"
)

// Requester is anything that can start a check: the Orchestrator itself or
// a remote API client.
type Requester interface {
	RequestCheck(ctx context.Context, url, country, city string) (domain.CheckAttempt, error)
}

// Form holds the user's current selections. Changing the country clears
// the city, and a city can only be picked from the selected country.
type Form struct {
	dir     *location.Directory
	url     string
	country string
	city    string
}

func NewForm(dir *location.Directory) *Form {
	return &Form{dir: dir}
}

func (f *Form) SetURL(u string) { f.url = strings.TrimSpace(u) }

func (f *Form) SelectCountry(country string) error {
	if !f.dir.HasCountry(country) {
		return fmt.Errorf("%w: %q", location.ErrUnknownCountry, country)
	}
	f.country = country
	f.city = ""
	return nil
}

func (f *Form) SelectCity(city string) error {
	if f.country == "" {
		return fmt.Errorf("%w: select a country first", ErrInvalidInput)
	}
	if !f.dir.Contains(f.country, city) {
		return fmt.Errorf("%w: city %q is not in %s", ErrInvalidInput, city, f.country)
	}
	f.city = city
	return nil
}

// Cities lists the cities available for the selected country.
func (f *Form) Cities() []string {
	if f.country == "" {
		return nil
	}
	cities, _ := f.dir.Cities(f.country)
	return cities
}

func (f *Form) URL() string     { return f.url }
func (f *Form) Country() string { return f.country }
func (f *Form) City() string    { return f.city }

// Ready reports whether every field is filled in.
func (f *Form) Ready() bool {
	return f.url != "" && f.country != "" && f.city != ""
}

// Submit starts a check with the current selections. An incomplete form is
// rejected without calling r.
func (f *Form) Submit(ctx context.Context, r Requester) (domain.CheckAttempt, error) {
	if !f.Ready() {
		return domain.CheckAttempt{}, fmt.Errorf("%w: url, country and city are required", ErrInvalidInput)
	}
	return r.RequestCheck(ctx, f.url, f.country, f.city)
}
