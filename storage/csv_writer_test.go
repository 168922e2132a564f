package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"ebay-price-averager/models"
)

func sampleResults() []models.AggregateResult {
	return []models.AggregateResult{
		{
			Item:         models.Query{Name: "Pikachu", Quantity: 2},
			AveragePrice: decimal.RequireFromString("11.22"),
			HasAverage:   true,
			Listings: []models.ClassifiedListing{
				{
					RawListing:     models.RawListing{Title: "Pikachu Holo", URL: "https://www.ebay.co.uk/itm/1"},
					Included:       true,
					EffectivePrice: decimal.RequireFromString("12.45"),
				},
				{
					RawListing:     models.RawListing{Title: "Pikachu Promo", URL: "https://www.ebay.co.uk/itm/2"},
					Included:       true,
					EffectivePrice: decimal.RequireFromString("10.00"),
				},
			},
		},
		{
			Item:    models.Query{Name: "Missingno", Quantity: 1},
			Warning: "No matching listings found.",
		},
	}
}

func TestCSVWriterHorizontalLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	w, err := NewCSVWriter(path, true)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.Write(sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	want := []string{"Item", "Unit Average Price (GBP)", "Quantity", "Total (GBP)", "Warning", "Listing 1", "Listing 2"}
	if len(header) != len(want) {
		t.Fatalf("header = %v; want %v", header, want)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q; want %q", i, header[i], want[i])
		}
	}

	row := records[1]
	if row[0] != "Pikachu" || row[1] != "11.22" || row[2] != "2" || row[3] != "22.44" {
		t.Errorf("row = %v; want Pikachu / 11.22 / 2 / 22.44", row[:4])
	}
	if row[5] != "12.45 - Pikachu Holo (https://www.ebay.co.uk/itm/1)" {
		t.Errorf("listing cell = %q", row[5])
	}

	empty := records[2]
	if empty[1] != "" || empty[4] != "No matching listings found." {
		t.Errorf("no-result row = %v", empty)
	}
	if empty[5] != "" || empty[6] != "" {
		t.Errorf("no-result row should pad listing columns, got %v", empty[5:])
	}
}
