// Package validate checks emitted order line tables against the dataset's
// invariants. It works on the textual form so exported files can be checked
// the same way as an in-memory table.
package validate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/types"
)

const (
	RuleStatus         = "status"
	RuleShipping       = "shipping"
	RuleReturn         = "return"
	RulePromotion      = "promotion"
	RuleRevenue        = "revenue"
	RuleMalformedValue = "malformed"
)

var (
	shippingColumns = []string{
		"TrackingID", "CarrierName", "CarrierServiceLevel", "TransportationMode", "Route",
		"ShipDate", "PromisedDeliveryDate", "DeliveryDate", "ShippingTime", "DeliveryExceptionReason",
	}
	requiredShippingColumns = []string{"TrackingID", "CarrierName", "ShipDate", "DeliveryDate"}
	returnColumns           = []string{"ReturnID", "ReturnStatus", "ReturnReason", "ReturnMode", "ReturnRequestDate", "ReturnCompletedDate"}
	requiredReturnColumns   = []string{"ReturnID", "ReturnStatus", "ReturnReason", "ReturnMode"}
	promoColumns            = []string{"PromoID", "PromoType", "MinSpend", "PromoStartDate", "PromoEndDate"}
)

type Violation struct {
	Row         int    `json:"row"`
	OrderLineID string `json:"order_line_id"`
	Rule        string `json:"rule"`
	Detail      string `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d (%s): %s: %s", v.Row, v.OrderLineID, v.Rule, v.Detail)
}

type Report struct {
	Rows       int         `json:"rows"`
	Violations []Violation `json:"violations"`
}

func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// ByRule counts violations per rule.
func (r Report) ByRule() map[string]int {
	return lo.CountValuesBy(r.Violations, func(v Violation) string { return v.Rule })
}

// Check validates an in-memory table.
func Check(t *dataset.Table) Report {
	rows := lo.Map(t.Records, func(r dataset.Record, _ int) []string { return r.Strings() })
	report, _ := CheckRows(dataset.ColumnNames(), rows)
	return report
}

// CheckCSV validates a CSV export with a header row.
func CheckCSV(r io.Reader) (Report, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return Report{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("failed to read CSV rows: %w", err)
	}
	return CheckRows(header, rows)
}

// CheckRows validates rows whose cells are named by header. Every column the
// rules need must be present in header.
func CheckRows(header []string, rows [][]string) (Report, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range dataset.ColumnNames() {
		if _, ok := idx[name]; !ok {
			return Report{}, fmt.Errorf("missing column %q", name)
		}
	}

	report := Report{Rows: len(rows), Violations: []Violation{}}
	for i, row := range rows {
		if len(row) != len(header) {
			report.Violations = append(report.Violations, Violation{
				Row: i, Rule: RuleMalformedValue,
				Detail: fmt.Sprintf("expected %d cells, got %d", len(header), len(row)),
			})
			continue
		}
		r := rowView{idx: idx, cells: row}
		report.Violations = append(report.Violations, checkRow(i, r)...)
	}
	return report, nil
}

type rowView struct {
	idx   map[string]int
	cells []string
}

func (r rowView) get(name string) string {
	return r.cells[r.idx[name]]
}

func (r rowView) empty(names ...string) []string {
	return lo.Filter(names, func(n string, _ int) bool { return r.get(n) == "" })
}

func (r rowView) filled(names ...string) []string {
	return lo.Filter(names, func(n string, _ int) bool { return r.get(n) != "" })
}

func checkRow(i int, r rowView) []Violation {
	var out []Violation
	fail := func(rule, format string, args ...any) {
		out = append(out, Violation{Row: i, OrderLineID: r.get("OrderLineID"), Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	status := types.OrderStatus(r.get("OrderStatus"))
	if !lo.Contains(types.OrderStatuses, status) {
		fail(RuleStatus, "unknown order status %q", status)
	}

	shippingCost, err := decimal.NewFromString(r.get("ShippingCost"))
	if err != nil {
		fail(RuleMalformedValue, "ShippingCost: %v", err)
	}
	if status == types.StatusCancelled {
		if set := r.filled(shippingColumns...); len(set) > 0 {
			fail(RuleShipping, "cancelled line has shipping fields %v", set)
		}
		if err == nil && !shippingCost.IsZero() {
			fail(RuleShipping, "cancelled line has shipping cost %s", shippingCost)
		}
	} else if missing := r.empty(requiredShippingColumns...); len(missing) > 0 {
		fail(RuleShipping, "shipped line is missing %v", missing)
	}

	checkReturn(r, fail)
	checkPromotion(r, fail)
	checkRevenue(r, fail)
	return out
}

func checkReturn(r rowView, fail func(rule, format string, args ...any)) {
	units, err := strconv.Atoi(r.get("ReturnedUnits"))
	if err != nil {
		fail(RuleMalformedValue, "ReturnedUnits: %v", err)
		return
	}
	refund, err := decimal.NewFromString(r.get("RefundAmount"))
	if err != nil {
		fail(RuleMalformedValue, "RefundAmount: %v", err)
		return
	}

	if units > 0 {
		if missing := r.empty(requiredReturnColumns...); len(missing) > 0 {
			fail(RuleReturn, "returned %d units but missing %v", units, missing)
		}
		if types.OrderStatus(r.get("OrderStatus")) != types.StatusDelivered {
			fail(RuleReturn, "return recorded on a %s line", r.get("OrderStatus"))
		}
		return
	}
	if set := r.filled(returnColumns...); len(set) > 0 {
		fail(RuleReturn, "no returned units but return fields %v are set", set)
	}
	if !refund.IsZero() {
		fail(RuleReturn, "no returned units but refund %s", refund)
	}
}

func checkPromotion(r rowView, fail func(rule, format string, args ...any)) {
	if r.get("PromoApplied") != "true" {
		if set := r.filled(promoColumns...); len(set) > 0 {
			fail(RulePromotion, "promotion not applied but %v are set", set)
		}
		if r.get("DiscountPercent") != "0" {
			fail(RulePromotion, "promotion not applied but discount is %s", r.get("DiscountPercent"))
		}
		return
	}

	orderDate, err1 := time.Parse(types.DateLayout, r.get("OrderDate"))
	start, err2 := time.Parse(types.DateLayout, r.get("PromoStartDate"))
	end, err3 := time.Parse(types.DateLayout, r.get("PromoEndDate"))
	if err := errors.Join(err1, err2, err3); err != nil {
		fail(RuleMalformedValue, "promotion dates: %v", err)
		return
	}
	if orderDate.Before(start) || orderDate.After(end) {
		fail(RulePromotion, "order date %s outside promotion window [%s, %s]",
			r.get("OrderDate"), r.get("PromoStartDate"), r.get("PromoEndDate"))
	}

	price, err1 := decimal.NewFromString(r.get("Price"))
	minSpend, err2 := decimal.NewFromString(r.get("MinSpend"))
	qty, err3 := strconv.Atoi(r.get("QuantityOrdered"))
	if err := errors.Join(err1, err2, err3); err != nil {
		fail(RuleMalformedValue, "promotion spend: %v", err)
		return
	}
	if spend := price.Mul(decimal.NewFromInt(int64(qty))); spend.LessThan(minSpend) {
		fail(RulePromotion, "spend %s below minimum %s", spend.StringFixed(2), minSpend.StringFixed(2))
	}
}

func checkRevenue(r rowView, fail func(rule, format string, args ...any)) {
	units, err1 := strconv.Atoi(r.get("UnitsSold"))
	finalPrice, err2 := decimal.NewFromString(r.get("FinalPrice"))
	revenue, err3 := decimal.NewFromString(r.get("RevenueGenerated"))
	if err := errors.Join(err1, err2, err3); err != nil {
		fail(RuleMalformedValue, "revenue inputs: %v", err)
		return
	}
	want := finalPrice.Mul(decimal.NewFromInt(int64(units))).Round(2)
	if !revenue.Equal(want) {
		fail(RuleRevenue, "revenue %s, expected %s", revenue.StringFixed(2), want.StringFixed(2))
	}
}
