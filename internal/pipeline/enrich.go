package pipeline

import "github.com/sells-group/sales-etl/internal/model"

// Enrich computes the derived fields for each surviving row. Profit is
// sales minus cost with no clamping — negative profit is meaningful data.
// Input is guaranteed well-formed by the null filter, so there is no
// failure path.
func Enrich(rows []Valid) []model.CleanRecord {
	out := make([]model.CleanRecord, len(rows))
	for i, r := range rows {
		out[i] = model.CleanRecord{
			OrderID:   r.OrderID,
			OrderDate: r.Date,
			Customer:  r.Customer,
			Region:    r.Region,
			Product:   r.Product,
			Sales:     r.Sales,
			Cost:      r.Cost,
			Profit:    r.Sales - r.Cost,
			Year:      r.Date.Year(),
			Month:     int(r.Date.Month()),
		}
	}
	return out
}
