package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-etl/internal/fetcher"
	"github.com/sells-group/sales-etl/internal/model"
)

// sourceColumns is the expected 7-column schema of the raw extract, in the
// canonical output order. This is the only place field names are bound to
// positions.
var sourceColumns = []string{
	"Order_ID",
	"Order_Date",
	"Customer",
	"Region",
	"Product",
	"Sales",
	"Cost",
}

// Load reads the raw extract at path and returns one RawRecord per data row
// in source order. The reader is chosen by file extension (.xlsx or .csv);
// any other extension is rejected. An unreachable or unsupported file, or a
// header that does not match the expected schema, is a *SourceReadError;
// nothing else is validated here.
func Load(path, sheet string) ([]model.RawRecord, error) {
	rows, err := readRows(path, sheet)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}

	if len(rows) == 0 {
		return nil, &SourceReadError{Path: path, Err: eris.New("source is empty, no header row")}
	}

	colIdx, err := bindColumns(rows[0])
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}

	records := make([]model.RawRecord, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if blankRow(cells) {
			continue // trailing spreadsheet artifact, not a data row
		}
		records = append(records, model.RawRecord{
			OrderID:   cellAt(cells, colIdx["order_id"]),
			OrderDate: cellAt(cells, colIdx["order_date"]),
			Customer:  cellAt(cells, colIdx["customer"]),
			Region:    cellAt(cells, colIdx["region"]),
			Product:   cellAt(cells, colIdx["product"]),
			Sales:     cellAt(cells, colIdx["sales"]),
			Cost:      cellAt(cells, colIdx["cost"]),
		})
	}

	return records, nil
}

func readRows(path, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "open source")
		}
		defer f.Close()
		return fetcher.ReadCSV(f, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
	default:
		return nil, eris.Errorf("unsupported source format %q, want .csv or .xlsx", filepath.Ext(path))
	}
}

// bindColumns maps the expected column names to their positions in the
// header row. Names match case-insensitively; the header must contain
// exactly the seven expected columns, no more and no fewer.
func bindColumns(header []string) (map[string]int, error) {
	if len(header) != len(sourceColumns) {
		return nil, eris.Errorf("expected %d columns, source has %d", len(sourceColumns), len(header))
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, want := range sourceColumns {
		if _, ok := idx[strings.ToLower(want)]; !ok {
			return nil, eris.Errorf("missing expected column %q", want)
		}
	}

	return idx, nil
}

// cellAt returns the cell at position i, or "" for a short row. Short rows
// surface as missing required fields and are dropped by the null filter.
func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
