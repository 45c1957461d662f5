// Package district resolves a ZIP code to a state and congressional
// district. The shipped implementation is a deterministic placeholder; the
// Lookup interface is the contract a real geocoding client would implement.
package district

import (
	"context"
	"regexp"
	"strconv"

	"github.com/joinciviq/civiq-backend/internal/apperr"
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// ValidZipCode reports whether the input is a 5-digit (optionally ZIP+4) code
func ValidZipCode(zip string) bool {
	return zipPattern.MatchString(zip)
}

// Info is the resolved jurisdiction for a ZIP code
type Info struct {
	State    string `json:"state"`
	District string `json:"district"`
}

// Lookup resolves ZIP codes. Implementations fail with apperr.ErrNotFound
// for unrecognized input.
type Lookup interface {
	LookupByZip(ctx context.Context, zip string) (Info, error)
}

// StaticLookup maps the leading ZIP digit to a state and derives a district
// number from the ZIP itself, so repeated lookups are reproducible.
type StaticLookup struct{}

var stateByLeadingDigit = map[byte]string{
	'0': "MA", '1': "NY", '2': "VA", '3': "GA", '4': "MI",
	'5': "IA", '6': "IL", '7': "TX", '8': "CO", '9': "CA",
}

func (StaticLookup) LookupByZip(ctx context.Context, zip string) (Info, error) {
	if !ValidZipCode(zip) {
		return Info{}, apperr.New(apperr.ErrNotFound, "Unrecognized ZIP code")
	}

	state, ok := stateByLeadingDigit[zip[0]]
	if !ok {
		return Info{}, apperr.New(apperr.ErrNotFound, "Unrecognized ZIP code")
	}

	n, _ := strconv.Atoi(zip[:5])
	return Info{
		State:    state,
		District: strconv.Itoa(n%15 + 1),
	}, nil
}
