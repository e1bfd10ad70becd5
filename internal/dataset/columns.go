package dataset

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/Rana718/retailsim/internal/types"
)

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindBool
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// Column is one field of the flat output table. Value returns nil for a
// null cell.
type Column struct {
	Name string
	Kind Kind
	// Places is the number of fraction digits a decimal column is printed with.
	Places int32
	Value  func(l types.OrderLine) any
}

func str(name string, f func(l types.OrderLine) any) Column {
	return Column{Name: name, Kind: KindString, Value: f}
}

func integer(name string, f func(l types.OrderLine) any) Column {
	return Column{Name: name, Kind: KindInt, Value: f}
}

func money(name string, f func(l types.OrderLine) any) Column {
	return Column{Name: name, Kind: KindDecimal, Places: 2, Value: f}
}

func boolean(name string, f func(l types.OrderLine) any) Column {
	return Column{Name: name, Kind: KindBool, Value: f}
}

func date(name string, f func(l types.OrderLine) any) Column {
	return Column{Name: name, Kind: KindDate, Value: f}
}

// optional lifts a getter over an optional group so an absent group yields
// a null cell.
func optional[T any](get func(l types.OrderLine) mo.Option[T], f func(T) any) func(l types.OrderLine) any {
	return func(l types.OrderLine) any {
		v, ok := get(l).Get()
		if !ok {
			return nil
		}
		return f(v)
	}
}

func promo(l types.OrderLine) mo.Option[types.AppliedPromotion] { return l.Promotion }
func shipment(l types.OrderLine) mo.Option[types.Shipment]       { return l.Shipment }
func ret(l types.OrderLine) mo.Option[types.Return]              { return l.Return }

func optString(o mo.Option[string]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

// Columns is the fixed column order of every emitted table.
var Columns = []Column{
	str("OrderID", func(l types.OrderLine) any { return l.OrderID }),
	str("OrderLineID", func(l types.OrderLine) any { return l.OrderLineID }),
	str("CustomerID", func(l types.OrderLine) any { return l.Customer.ID }),
	str("SKU", func(l types.OrderLine) any { return l.SKU.Code }),
	str("Category", func(l types.OrderLine) any { return string(l.SKU.Category) }),
	money("Price", func(l types.OrderLine) any { return l.Price }),
	boolean("PromoApplied", func(l types.OrderLine) any { return l.Promotion.IsPresent() }),
	str("PromoID", optional(promo, func(p types.AppliedPromotion) any { return p.Code })),
	str("PromoType", optional(promo, func(p types.AppliedPromotion) any { return p.Type })),
	integer("DiscountPercent", func(l types.OrderLine) any { return l.DiscountPercent() }),
	money("MinSpend", optional(promo, func(p types.AppliedPromotion) any { return p.MinSpend })),
	date("PromoStartDate", optional(promo, func(p types.AppliedPromotion) any { return p.StartDate })),
	date("PromoEndDate", optional(promo, func(p types.AppliedPromotion) any { return p.EndDate })),
	money("FinalPrice", func(l types.OrderLine) any { return l.FinalPrice }),
	date("OrderDate", func(l types.OrderLine) any { return l.OrderDate }),
	str("OrderPriority", func(l types.OrderLine) any { return string(l.Priority) }),
	str("OrderStatus", func(l types.OrderLine) any { return string(l.Status) }),
	str("CancellationReason", func(l types.OrderLine) any { return optString(l.CancellationReason) }),
	integer("QuantityOrdered", func(l types.OrderLine) any { return l.QuantityOrdered }),
	integer("UnitsSold", func(l types.OrderLine) any { return l.UnitsSold }),
	integer("StockLevel", func(l types.OrderLine) any { return l.StockLevel }),
	integer("ReorderPoint", func(l types.OrderLine) any { return l.ReorderPoint }),
	boolean("Availability", func(l types.OrderLine) any { return l.WasAllocated }),
	boolean("WasAllocated", func(l types.OrderLine) any { return l.WasAllocated }),
	money("RevenueGenerated", func(l types.OrderLine) any { return l.Revenue }),
	str("TrackingID", optional(shipment, func(s types.Shipment) any { return s.TrackingID })),
	str("CarrierName", optional(shipment, func(s types.Shipment) any { return s.Carrier })),
	str("CarrierServiceLevel", optional(shipment, func(s types.Shipment) any { return s.ServiceLevel })),
	str("TransportationMode", optional(shipment, func(s types.Shipment) any { return s.TransportMode })),
	str("Route", optional(shipment, func(s types.Shipment) any { return s.Route })),
	date("ShipDate", optional(shipment, func(s types.Shipment) any { return s.ShipDate })),
	date("PromisedDeliveryDate", optional(shipment, func(s types.Shipment) any { return s.PromisedDate })),
	date("DeliveryDate", optional(shipment, func(s types.Shipment) any { return s.DeliveryDate })),
	integer("ShippingTime", optional(shipment, func(s types.Shipment) any { return s.ShippingDays() })),
	money("ShippingCost", func(l types.OrderLine) any { return l.ShippingCost() }),
	str("DeliveryExceptionReason", optional(shipment, func(s types.Shipment) any { return optString(s.Exception) })),
	str("ReturnID", optional(ret, func(r types.Return) any { return r.ID })),
	date("ReturnRequestDate", optional(ret, func(r types.Return) any { return r.RequestDate })),
	str("ReturnStatus", optional(ret, func(r types.Return) any { return r.Status })),
	date("ReturnCompletedDate", optional(ret, func(r types.Return) any { return r.CompletedDate })),
	str("ReturnReason", optional(ret, func(r types.Return) any { return r.Reason })),
	str("ReturnMode", optional(ret, func(r types.Return) any { return r.Mode })),
	integer("ReturnedUnits", func(l types.OrderLine) any { return l.ReturnedUnits() }),
	money("RefundAmount", func(l types.OrderLine) any { return l.RefundAmount() }),
	date("ProductionStartDate", func(l types.OrderLine) any { return l.Batch.StartDate }),
	date("ProductionEndDate", func(l types.OrderLine) any { return l.Batch.EndDate }),
	money("ManufacturingCost", func(l types.OrderLine) any { return l.Batch.Cost }),
	integer("ProductionVolume", func(l types.OrderLine) any { return l.Batch.Volume }),
	str("InspectionResult", func(l types.OrderLine) any { return string(l.Batch.Inspection) }),
	{Name: "DefectRate", Kind: KindDecimal, Places: 3, Value: func(l types.OrderLine) any { return l.Batch.DefectRate }},
	str("SupplierName", func(l types.OrderLine) any { return l.Supplier.Supplier.Name }),
	integer("SupplierLeadTimePromised", func(l types.OrderLine) any { return l.Supplier.LeadTimePromised }),
	integer("SupplierLeadTimeActual", func(l types.OrderLine) any { return l.Supplier.LeadTimeActual }),
	str("WarehouseID", func(l types.OrderLine) any { return l.Warehouse.ID }),
	str("WarehouseLocation", func(l types.OrderLine) any { return l.Warehouse.Location }),
	str("CustomerGender", func(l types.OrderLine) any { return l.Customer.Gender }),
	integer("CustomerAge", func(l types.OrderLine) any { return l.Customer.Age }),
	str("CustomerSegment", func(l types.OrderLine) any { return l.Customer.Segment }),
	str("CustomerRegion", func(l types.OrderLine) any { return l.Customer.Region }),
	str("CustomerCity", func(l types.OrderLine) any { return l.Customer.City }),
	date("SignupDate", func(l types.OrderLine) any { return l.Customer.SignupDate }),
	date("BirthDate", func(l types.OrderLine) any { return l.Customer.BirthDate }),
	str("LoyaltyTier", func(l types.OrderLine) any { return string(l.Customer.LoyaltyTier) }),
	str("SignupChannel", func(l types.OrderLine) any { return l.Customer.SignupChannel }),
}

func ColumnNames() []string {
	return lo.Map(Columns, func(c Column, _ int) string { return c.Name })
}

// ColumnIndex returns the position of the named column, or -1.
func ColumnIndex(name string) int {
	_, i, ok := lo.FindIndexOf(Columns, func(c Column) bool { return c.Name == name })
	if !ok {
		return -1
	}
	return i
}

// Format renders a cell as text: empty for null, ISO dates, fixed decimals.
func (c Column) Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return val.StringFixed(c.Places)
	case time.Time:
		return val.Format(types.DateLayout)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}

// Plain converts a cell to a JSON/YAML friendly value: dates become ISO
// strings and decimals become floats.
func (c Column) Plain(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.Round(c.Places).InexactFloat64()
	case time.Time:
		return val.Format(types.DateLayout)
	default:
		return v
	}
}
