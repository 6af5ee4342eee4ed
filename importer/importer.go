// Package importer reconciles parsed product CSV rows against the existing
// product set. BuildBatch is pure: it produces an accepted/rejected report
// and the caller decides whether to commit the accepted rows.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"stoka/database"
	"stoka/model"
	"stoka/parsers"
)

// Defaults fill in shelf and stock state for rows (or whole files) that do
// not carry them.
type Defaults struct {
	ShelfNumber int
	InStock     bool
}

type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Batch struct {
	Accepted []model.Product
	Rejected []RowError
}

var stockTokens = map[string]bool{
	"true": true, "1": true, "yes": true, "y": true, "t": true,
	"false": false, "0": false, "no": false, "n": false, "f": false,
}

// ParseStockToken maps an in-stock cell to a bool. An empty cell takes the
// default; an unrecognized token reports ok=false.
func ParseStockToken(raw string, def bool) (value bool, ok bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return def, true
	}
	value, ok = stockTokens[token]
	return value, ok
}

// BuildBatch validates every row and splits the file into accepted products
// and rejected rows with reasons. existingIDs is the set of ids already in
// the store; nextID is max(existing)+1. Rows without an explicit id consume
// nextID and advance it; explicit ids never advance it. Duplicate detection
// covers both existing ids and ids accepted earlier in the same file.
func BuildBatch(file *parsers.ProductCSVFile, defaults Defaults, existingIDs map[int]bool, nextID int) Batch {
	taken := make(map[int]bool, len(existingIDs))
	for id := range existingIDs {
		taken[id] = true
	}

	var batch Batch
	reject := func(line int, reason string) {
		batch.Rejected = append(batch.Rejected, RowError{Line: line, Reason: reason})
	}

	for _, rec := range file.Records {
		name := strings.TrimSpace(rec.ProductName)
		if name == "" {
			reject(rec.Line, "empty product name")
			continue
		}

		if file.NamesOnly {
			p := model.Product{
				ProductID:   nextID,
				ProductName: name,
				ShelfNumber: defaults.ShelfNumber,
				InStock:     defaults.InStock,
			}
			nextID++
			taken[p.ProductID] = true
			batch.Accepted = append(batch.Accepted, p)
			continue
		}

		id := nextID
		if raw := strings.TrimSpace(rec.ProductID); raw != "" {
			explicit, err := strconv.Atoi(raw)
			if err != nil {
				reject(rec.Line, fmt.Sprintf("invalid product_id %q", raw))
				continue
			}
			id = explicit
		} else {
			nextID++
		}
		if taken[id] {
			reject(rec.Line, fmt.Sprintf("duplicate product_id %d", id))
			continue
		}

		shelf := defaults.ShelfNumber
		if raw := strings.TrimSpace(rec.ShelfNumber); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				reject(rec.Line, fmt.Sprintf("invalid shelf_number %q", raw))
				continue
			}
			shelf = n
		}
		if shelf < model.MinShelfNumber || shelf > model.MaxShelfNumber {
			reject(rec.Line, fmt.Sprintf("shelf_number %d out of range", shelf))
			continue
		}

		inStock, ok := ParseStockToken(rec.InStock, defaults.InStock)
		if !ok {
			reject(rec.Line, fmt.Sprintf("unrecognized in_stock value %q", rec.InStock))
			continue
		}

		taken[id] = true
		batch.Accepted = append(batch.Accepted, model.Product{
			ProductID:   id,
			ProductName: name,
			ShelfNumber: shelf,
			InStock:     inStock,
		})
	}
	return batch
}

// CommitBatch inserts the accepted rows and returns how many went in.
// Rejected rows were never candidates; a store error aborts the whole
// batch (the caller's transaction rolls back).
func CommitBatch(dbtx database.DBTX, batch Batch) (int, error) {
	for _, p := range batch.Accepted {
		if err := database.InsertProduct(dbtx, p); err != nil {
			return 0, err
		}
	}
	return len(batch.Accepted), nil
}
