// Package sink writes the final record sequence to the persistence targets.
package sink

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-etl/internal/model"
)

// outputColumns defines the ordered flat-file output columns: the seven
// source fields followed by the three derived fields.
var outputColumns = []string{
	"Order_ID",
	"Order_Date",
	"Customer",
	"Region",
	"Product",
	"Sales",
	"Cost",
	"Profit",
	"Year",
	"Month",
}

const dateLayout = "2006-01-02"

// WriteCSV writes the clean records to path, one header row then one row per
// record in sequence order. The same input always produces byte-identical
// output.
func WriteCSV(path string, records []model.CleanRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csv sink: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(outputColumns); err != nil {
		return eris.Wrap(err, "csv sink: write header")
	}

	for _, r := range records {
		if err := w.Write(buildRow(r)); err != nil {
			return eris.Wrap(err, "csv sink: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv sink: flush")
	}

	return nil
}

// buildRow maps a CleanRecord to a CSV row in output column order.
func buildRow(r model.CleanRecord) []string {
	return []string{
		strconv.Itoa(r.OrderID),
		r.OrderDate.Format(dateLayout),
		r.Customer,
		r.Region,
		r.Product,
		strconv.Itoa(r.Sales),
		strconv.Itoa(r.Cost),
		strconv.Itoa(r.Profit),
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
	}
}
