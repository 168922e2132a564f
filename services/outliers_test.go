package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"ebay-price-averager/models"
)

func listingsAt(prices ...string) []models.ClassifiedListing {
	out := make([]models.ClassifiedListing, 0, len(prices))
	for _, p := range prices {
		d := decimal.RequireFromString(p)
		out = append(out, models.ClassifiedListing{
			RawListing:     models.RawListing{Title: "Listing at " + p, Price: d},
			Included:       true,
			EffectivePrice: d,
		})
	}
	return out
}

func TestTrimRemovesOutlier(t *testing.T) {
	tr := NewTrimmer(newTestLogger())

	// Price-descending, as the aggregator hands them over.
	in := listingsAt("100", "14", "13", "12", "11", "10")
	got := tr.Trim(in)

	if len(got) != 5 {
		t.Fatalf("expected 5 listings after trimming, got %d", len(got))
	}
	for _, l := range got {
		if l.EffectivePrice.Equal(decimal.NewFromInt(100)) {
			t.Errorf("outlier price 100 should have been removed")
		}
	}
	// Surviving order must match the input order.
	want := []string{"14", "13", "12", "11", "10"}
	for i, l := range got {
		if !l.EffectivePrice.Equal(decimal.RequireFromString(want[i])) {
			t.Errorf("position %d: got %s, want %s", i, l.EffectivePrice, want[i])
		}
	}
}

func TestTrimFallsBackToConventionalBounds(t *testing.T) {
	tr := NewTrimmer(newTestLogger())

	// 1.0×IQR keeps only the two middle prices; the 1.5×IQR fallback
	// keeps everything.
	in := listingsAt("30", "20", "20", "10")
	got := tr.Trim(in)

	if len(got) < 3 {
		t.Fatalf("fallback should keep at least 3 listings, got %d", len(got))
	}
}

func TestTrimSkipsSmallSets(t *testing.T) {
	tr := NewTrimmer(newTestLogger())

	in := listingsAt("1000", "10", "9")
	got := tr.Trim(in)

	if len(got) != 3 {
		t.Errorf("fewer than 4 listings must pass through untouched, got %d", len(got))
	}
}
