package reorder

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"stoka/model"
)

// Valid export formats. Anything else falls back to text.
const (
	FormatTxt  = "txt"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

func normalizeFormat(format string) string {
	switch format {
	case FormatTxt, FormatCSV, FormatJSON:
		return format
	default:
		return FormatTxt
	}
}

func contentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// encodeNamesTxt emits one product name per line.
func encodeNamesTxt(names []string) []byte {
	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// encodeNamesJSON emits a plain JSON array of names.
func encodeNamesJSON(names []string) ([]byte, error) {
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// encodeItemsCSV is the current-list CSV: id, name and shelf per row.
func encodeItemsCSV(items []model.ReorderItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"product_id", "product_name", "shelf_number"})
	for _, item := range items {
		writer.Write([]string{
			strconv.Itoa(item.ProductID),
			item.ProductName,
			strconv.Itoa(item.ShelfNumber),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to write reorder CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeNamesCSV is the historical-list CSV: snapshots only store names.
func encodeNamesCSV(names []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"product_name"})
	for _, name := range names {
		writer.Write([]string{name})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to write snapshot CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func itemNames(items []model.ReorderItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.ProductName)
	}
	return names
}
