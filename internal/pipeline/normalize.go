package pipeline

import (
	"time"

	"github.com/sells-group/sales-etl/internal/model"
)

// Tagged is a raw row annotated with the outcome of date normalization.
type Tagged struct {
	Raw       model.RawRecord
	Date      time.Time
	DateValid bool
}

// NormalizeDates parses each row's order date against the one fixed expected
// layout. A row whose date fails to parse is tagged invalid rather than
// erroring: malformed dates are a data-quality signal counted and filtered
// downstream, not a pipeline fault.
func NormalizeDates(rows []model.RawRecord, layout string) []Tagged {
	out := make([]Tagged, len(rows))
	for i, r := range rows {
		t := Tagged{Raw: r}
		if r.OrderDate != "" {
			if d, err := time.Parse(layout, r.OrderDate); err == nil {
				t.Date = d
				t.DateValid = true
			}
		}
		out[i] = t
	}
	return out
}
