package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
)

// Logical fields of a product import row. product_id is optional; the rest
// must resolve against the alias table below.
const (
	FieldProductID   = "product_id"
	FieldProductName = "product_name"
	FieldShelfNumber = "shelf_number"
	FieldInStock     = "in_stock"
)

// columnAliases maps each logical field to the header spellings it accepts.
// Matching is case-sensitive; the lists carry the case variants seen in the
// wild.
var columnAliases = map[string][]string{
	FieldProductID:   {"product_id", "id", "ID", "Product ID"},
	FieldProductName: {"product_name", "name", "Name", "Product Name", "product"},
	FieldShelfNumber: {"shelf_number", "shelf", "Shelf", "Shelf Number", "location"},
	FieldInStock:     {"in_stock", "stock", "Stock", "In Stock", "stock_status", "Available"},
}

var requiredFields = []string{FieldProductName, FieldShelfNumber, FieldInStock}

// MissingColumnError reports a logical field no header column resolved to.
type MissingColumnError struct {
	Field string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column for %s", e.Field)
}

// ResolveColumns maps logical fields to header indexes via the alias table.
// Returns a *MissingColumnError when a required field has no matching
// column; product_id may be absent.
func ResolveColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	resolved := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				resolved[field] = i
				break
			}
		}
	}
	for _, field := range requiredFields {
		if _, ok := resolved[field]; !ok {
			return nil, &MissingColumnError{Field: field}
		}
	}
	return resolved, nil
}

// ParsedProductCSVRecord carries the raw cell values of one data row.
// Validation and type conversion happen in the importer.
type ParsedProductCSVRecord struct {
	Line        int
	ProductID   string
	ProductName string
	ShelfNumber string
	InStock     string
}

// ProductCSVFile is the parsed form of an uploaded product CSV. A file
// whose header has exactly one column switches to names-only mode: every
// cell is a bare product name and no column resolution happens.
type ProductCSVFile struct {
	NamesOnly bool
	Records   []ParsedProductCSVRecord
}

// ParseProductsCSV reads an uploaded product CSV. The first row is always
// treated as a header, including in names-only mode.
func ParseProductsCSV(r io.Reader) (*ProductCSVFile, error) {
	decoded, err := DecodeUpload(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	reader := csv.NewReader(SkipBOM(decoded))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	file := &ProductCSVFile{NamesOnly: len(header) == 1}

	var columns map[string]int
	if !file.NamesOnly {
		columns, err = ResolveColumns(header)
		if err != nil {
			return nil, err
		}
	}

	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: CSV line %d read error (skipped): %v", line, err)
			continue
		}

		get := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		parsed := ParsedProductCSVRecord{Line: line}
		if file.NamesOnly {
			if len(rec) > 0 {
				parsed.ProductName = strings.TrimSpace(rec[0])
			}
		} else {
			parsed.ProductID = get(FieldProductID)
			parsed.ProductName = get(FieldProductName)
			parsed.ShelfNumber = get(FieldShelfNumber)
			parsed.InStock = get(FieldInStock)
		}
		file.Records = append(file.Records, parsed)
	}
	return file, nil
}
