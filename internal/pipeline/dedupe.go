package pipeline

import "github.com/sells-group/sales-etl/internal/model"

// Dedupe removes rows that are exact duplicates of an earlier row. Two rows
// are duplicates only when every field is equal, order_id included — the
// source does not guarantee id uniqueness, so the id alone is not a key.
// The first occurrence is kept and relative order is preserved. Returns the
// survivors and the number of rows discarded.
func Dedupe(rows []model.RawRecord) ([]model.RawRecord, int) {
	seen := make(map[model.RawRecord]struct{}, len(rows))
	out := make([]model.RawRecord, 0, len(rows))

	for _, r := range rows {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}

	return out, len(rows) - len(out)
}
