package dataset

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Rana718/retailsim/internal/reference"
	"github.com/Rana718/retailsim/internal/types"
)

type Summary struct {
	Rows             int            `json:"rows"`
	Orders           int            `json:"orders"`
	MultiLineOrders  int            `json:"multi_line_orders"`
	Customers        int            `json:"customers"`
	ActiveCustomers  int            `json:"active_customers"`
	DormantCustomers int            `json:"dormant_customers"`
	StatusCounts     map[string]int `json:"status_counts"`
	PromoApplied     int            `json:"promo_applied"`
	PromoRate        float64        `json:"promo_rate"`
	Revenue          string         `json:"revenue"`
	Refunds          string         `json:"refunds"`
	ShippingCost     string         `json:"shipping_cost"`
	ReturnedUnits    int            `json:"returned_units"`

	AvgManufacturingLeadDays float64 `json:"avg_manufacturing_lead_days"`
	AvgShippingLeadDays      float64 `json:"avg_shipping_lead_days"`
	AvgFulfillmentLeadDays   float64 `json:"avg_fulfillment_lead_days"`
}

// Summarize aggregates a table. catalog may be nil, in which case customer
// counts only reflect the table.
func Summarize(t *Table, catalog *reference.Catalog) Summary {
	lines := t.Lines

	linesPerOrder := lo.CountValuesBy(lines, func(l types.OrderLine) string { return l.OrderID })
	active := len(lo.UniqBy(lines, func(l types.OrderLine) string { return l.Customer.ID }))

	s := Summary{
		Rows:            len(lines),
		Orders:          len(linesPerOrder),
		MultiLineOrders: lo.CountBy(lo.Values(linesPerOrder), func(n int) bool { return n > 1 }),
		Customers:       active,
		ActiveCustomers: active,
		StatusCounts: lo.CountValuesBy(lines, func(l types.OrderLine) string {
			return string(l.Status)
		}),
		PromoApplied:  lo.CountBy(lines, func(l types.OrderLine) bool { return l.Promotion.IsPresent() }),
		ReturnedUnits: lo.SumBy(lines, func(l types.OrderLine) int { return l.ReturnedUnits() }),
	}
	if catalog != nil {
		s.Customers = len(catalog.Customers)
	}
	s.DormantCustomers = s.Customers - s.ActiveCustomers
	if s.Rows > 0 {
		s.PromoRate = float64(s.PromoApplied) / float64(s.Rows)
	}

	s.Revenue = sumDecimal(lines, func(l types.OrderLine) decimal.Decimal { return l.Revenue }).StringFixed(2)
	s.Refunds = sumDecimal(lines, func(l types.OrderLine) decimal.Decimal { return l.RefundAmount() }).StringFixed(2)
	s.ShippingCost = sumDecimal(lines, func(l types.OrderLine) decimal.Decimal { return l.ShippingCost() }).StringFixed(2)

	s.AvgManufacturingLeadDays = mean(lines, func(l types.OrderLine) (int, bool) {
		return l.Batch.LeadDays(), true
	})
	s.AvgShippingLeadDays = mean(lines, func(l types.OrderLine) (int, bool) {
		sh, ok := l.Shipment.Get()
		return sh.ShippingDays(), ok
	})
	s.AvgFulfillmentLeadDays = mean(lines, func(l types.OrderLine) (int, bool) {
		sh, ok := l.Shipment.Get()
		return types.DaysBetween(l.OrderDate, sh.DeliveryDate), ok
	})

	return s
}

func sumDecimal(lines []types.OrderLine, f func(types.OrderLine) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(f(l))
	}
	return total
}

func mean(lines []types.OrderLine, f func(types.OrderLine) (int, bool)) float64 {
	sum, n := 0, 0
	for _, l := range lines {
		if v, ok := f(l); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
