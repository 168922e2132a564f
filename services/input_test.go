package services

import (
	"strings"
	"testing"
)

func TestParseLinesWithoutQuantity(t *testing.T) {
	p := NewParser(newTestLogger(), false)

	queries := p.ParseLines("Pikachu\n  Charizard 4/102  \n\n")
	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(queries))
	}
	if queries[0].Name != "Pikachu" || queries[0].Quantity != 1 {
		t.Errorf("first query = %+v; want Pikachu ×1", queries[0])
	}
	if queries[1].Name != "Charizard 4/102" {
		t.Errorf("second query name = %q; want trimmed name", queries[1].Name)
	}
}

func TestParseLinesWithQuantity(t *testing.T) {
	p := NewParser(newTestLogger(), true)

	input := "Pikachu, 2\nno quantity here\nEevee, x\nSnorlax, 0\nCharizard, 3"
	queries := p.ParseLines(input)

	if len(queries) != 2 {
		t.Fatalf("expected 2 valid queries, got %d", len(queries))
	}
	if queries[0].Name != "Pikachu" || queries[0].Quantity != 2 {
		t.Errorf("first query = %+v; want Pikachu ×2", queries[0])
	}
	if queries[1].Name != "Charizard" || queries[1].Quantity != 3 {
		t.Errorf("second query = %+v; want Charizard ×3", queries[1])
	}
}

func TestParseCSV(t *testing.T) {
	p := NewParser(newTestLogger(), true)

	csvData := "Item,Quantity\nPikachu,2\nEevee,bad\nCharizard,1\n"
	queries, err := p.ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	if len(queries) != 2 {
		t.Fatalf("expected 2 valid queries, got %d", len(queries))
	}
	if queries[0].Name != "Pikachu" || queries[0].Quantity != 2 {
		t.Errorf("first query = %+v; want Pikachu ×2", queries[0])
	}
}

func TestParseCSVWithoutQuantityMode(t *testing.T) {
	p := NewParser(newTestLogger(), false)

	csvData := "Item\nPikachu\nCharizard\n"
	queries, err := p.ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(queries))
	}
	if queries[1].Quantity != 1 {
		t.Errorf("quantity should default to 1, got %d", queries[1].Quantity)
	}
}

func TestParseCSVMissingItemColumn(t *testing.T) {
	p := NewParser(newTestLogger(), false)

	if _, err := p.ParseCSV(strings.NewReader("Name,Price\nPikachu,5\n")); err == nil {
		t.Error("expected an error for a CSV without an Item column")
	}
}
