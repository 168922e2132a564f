package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ebay-price-averager/models"
	"ebay-price-averager/utils"
)

// InputFormatError describes one malformed input line or CSV row. It is
// recovered per line: the offending entry is skipped with a warning and the
// rest of the batch continues.
type InputFormatError struct {
	Line   string
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("input: invalid entry %q: %s", e.Line, e.Reason)
}

// Parser turns pasted text or CSV input into queries. Malformed lines and
// rows are skipped with a warning; the rest of the batch continues.
type Parser struct {
	logger       *utils.Logger
	quantityMode bool
}

// NewParser creates a Parser. With quantityMode on, paste lines must be
// "name, quantity" and CSV rows must carry a parsable Quantity column.
func NewParser(logger *utils.Logger, quantityMode bool) *Parser {
	return &Parser{logger: logger, quantityMode: quantityMode}
}

// ParseLines parses newline-delimited paste-mode input.
func (p *Parser) ParseLines(input string) []models.Query {
	var queries []models.Query

	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		q, err := p.parseLine(line)
		if err != nil {
			p.logger.Warn("[input] %v", err)
			continue
		}
		queries = append(queries, q)
	}
	return queries
}

func (p *Parser) parseLine(line string) (models.Query, error) {
	if !p.quantityMode {
		return models.Query{Name: line, Quantity: 1}, nil
	}

	name, qty, found := strings.Cut(line, ",")
	if !found {
		return models.Query{}, &InputFormatError{Line: line, Reason: "expected \"item name, quantity\""}
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || quantity < 1 {
		return models.Query{}, &InputFormatError{Line: line, Reason: "quantity is not a positive integer"}
	}
	return models.Query{Name: strings.TrimSpace(name), Quantity: quantity}, nil
}

// ParseCSV parses CSV-mode input. The Item column is required; Quantity is
// read only in quantity mode.
func (p *Parser) ParseCSV(r io.Reader) ([]models.Query, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("input: read CSV header: %w", err)
	}

	itemCol, quantityCol := -1, -1
	for i, col := range header {
		switch {
		case strings.EqualFold(strings.TrimSpace(col), "Item"):
			itemCol = i
		case strings.EqualFold(strings.TrimSpace(col), "Quantity"):
			quantityCol = i
		}
	}
	if itemCol == -1 {
		return nil, fmt.Errorf("input: CSV is missing the required %q column", "Item")
	}
	if p.quantityMode && quantityCol == -1 {
		return nil, fmt.Errorf("input: quantity mode is on but the CSV has no %q column", "Quantity")
	}

	var queries []models.Query
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Warn("[input] Skipping malformed CSV row: %v", err)
			continue
		}

		name := strings.TrimSpace(record[itemCol])
		if name == "" {
			p.logger.Warn("[input] Skipping CSV row with empty item name")
			continue
		}

		quantity := 1
		if p.quantityMode {
			quantity, err = strconv.Atoi(strings.TrimSpace(record[quantityCol]))
			if err != nil || quantity < 1 {
				p.logger.Warn("[input] Skipping %q: quantity %q is not a positive integer",
					name, record[quantityCol])
				continue
			}
		}
		queries = append(queries, models.Query{Name: name, Quantity: quantity})
	}
	return queries, nil
}
