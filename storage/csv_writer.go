package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"ebay-price-averager/models"
)

// CSVWriter exports aggregate results in the horizontal table layout: one
// row per item with its average, warning and one column per contributing
// listing. It is safe for concurrent use.
type CSVWriter struct {
	mu           sync.Mutex
	file         *os.File
	writer       *csv.Writer
	quantityMode bool
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically. The header row is
// written on the first Write, since its width depends on the results.
func NewCSVWriter(path string, quantityMode bool) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f, writer: csv.NewWriter(f), quantityMode: quantityMode}, nil
}

// Write writes the header sized to the widest result, then one row per item.
func (c *CSVWriter) Write(results []models.AggregateResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	maxListings := 0
	for _, r := range results {
		if len(r.Listings) > maxListings {
			maxListings = len(r.Listings)
		}
	}

	header := []string{"Item", "Unit Average Price (GBP)"}
	if c.quantityMode {
		header = append(header, "Quantity", "Total (GBP)")
	}
	header = append(header, "Warning")
	for i := 1; i <= maxListings; i++ {
		header = append(header, "Listing "+strconv.Itoa(i))
	}
	if err := c.writer.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range results {
		row := []string{r.Item.Name, averageCell(&r)}
		if c.quantityMode {
			row = append(row, strconv.Itoa(r.Item.Quantity), totalCell(&r))
		}
		row = append(row, r.Warning)
		for _, l := range r.Listings {
			row = append(row, fmt.Sprintf("%s - %s (%s)", l.EffectivePrice.StringFixed(2), l.Title, l.URL))
		}
		for i := len(r.Listings); i < maxListings; i++ {
			row = append(row, "")
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row for %q: %w", r.Item.Name, err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func averageCell(r *models.AggregateResult) string {
	if !r.HasAverage {
		return ""
	}
	return r.AveragePrice.StringFixed(2)
}

func totalCell(r *models.AggregateResult) string {
	if !r.HasAverage {
		return ""
	}
	return r.TotalPrice().StringFixed(2)
}
