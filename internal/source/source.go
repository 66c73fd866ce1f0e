package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"restaurant-dashboard/internal/model"
)

// Source fetches the raw rows of a dataset from wherever it is stored.
type Source interface {
	// Fetch returns the header and rows of a dataset.
	// It fails with *model.DataNotFoundError when the backing resource is absent.
	Fetch(ctx context.Context, dataset model.Dataset) (*RawTable, error)
}

// RawTable is an untyped table: one header row plus string cells.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}

const utf8BOM = "\uFEFF"

// ReadCSV parses a comma-separated table. The first non-blank record is the
// header. Blank lines are skipped and a leading byte order mark is ignored.
// An empty input yields a table with no header.
func ReadCSV(ctx context.Context, r io.Reader) (*RawTable, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &RawTable{Rows: make([][]string, 0)}

	rowCount := 0
	for {
		// Check context cancellation periodically
		if rowCount%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}

		if table.Header == nil {
			table.Header = record
			continue
		}
		table.Rows = append(table.Rows, record)
		rowCount++
	}

	return table, nil
}
