package pipeline

import (
	"strconv"
	"time"
)

// Valid is a row that passed the null filter, with its numeric cells coerced.
type Valid struct {
	OrderID  int
	Date     time.Time
	Customer string
	Region   string
	Product  string
	Sales    int
	Cost     int
}

// FilterInvalid drops rows with an invalid or missing date, an empty
// required field, or a numeric cell (order_id, sales, cost) that does not
// coerce to an integer. All three failure modes feed the single
// invalid_dropped counter so the run reports one consolidated bad-data
// figure. Relative order among survivors is preserved. Returns the
// survivors and the number of rows discarded.
func FilterInvalid(rows []Tagged) ([]Valid, int) {
	out := make([]Valid, 0, len(rows))

	for _, r := range rows {
		if !r.DateValid {
			continue
		}
		if r.Raw.Customer == "" || r.Raw.Region == "" || r.Raw.Product == "" {
			continue
		}

		orderID, err := strconv.Atoi(r.Raw.OrderID)
		if err != nil {
			continue
		}
		sales, err := strconv.Atoi(r.Raw.Sales)
		if err != nil {
			continue
		}
		cost, err := strconv.Atoi(r.Raw.Cost)
		if err != nil {
			continue
		}

		out = append(out, Valid{
			OrderID:  orderID,
			Date:     r.Date,
			Customer: r.Raw.Customer,
			Region:   r.Raw.Region,
			Product:  r.Raw.Product,
			Sales:    sales,
			Cost:     cost,
		})
	}

	return out, len(rows) - len(out)
}
