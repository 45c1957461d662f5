package district

import (
	"context"
	"errors"
	"testing"

	"github.com/joinciviq/civiq-backend/internal/apperr"
)

func TestValidZipCode(t *testing.T) {
	valid := []string{"90210", "02134", "10001-4356"}
	for _, zip := range valid {
		if !ValidZipCode(zip) {
			t.Errorf("expected %q to be valid", zip)
		}
	}

	invalid := []string{"", "9021", "902101", "9021a", "90210-12", "90210-12345", " 90210"}
	for _, zip := range invalid {
		if ValidZipCode(zip) {
			t.Errorf("expected %q to be invalid", zip)
		}
	}
}

func TestLookupByZipResolvesState(t *testing.T) {
	lookup := StaticLookup{}
	ctx := context.Background()

	cases := map[string]string{
		"02134": "MA",
		"10001": "NY",
		"75201": "TX",
		"90210": "CA",
	}
	for zip, state := range cases {
		info, err := lookup.LookupByZip(ctx, zip)
		if err != nil {
			t.Fatalf("lookup %s: %v", zip, err)
		}
		if info.State != state {
			t.Errorf("zip %s: expected state %s, got %s", zip, state, info.State)
		}
		if info.District == "" {
			t.Errorf("zip %s: expected a district number", zip)
		}
	}
}

func TestLookupByZipIsDeterministic(t *testing.T) {
	lookup := StaticLookup{}
	ctx := context.Background()

	first, err := lookup.LookupByZip(ctx, "94105")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := lookup.LookupByZip(ctx, "94105")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if first != second {
		t.Fatalf("lookups diverged: %+v vs %+v", first, second)
	}
}

func TestLookupByZipRejectsBadInput(t *testing.T) {
	lookup := StaticLookup{}

	_, err := lookup.LookupByZip(context.Background(), "not-a-zip")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
