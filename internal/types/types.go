package types

import (
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryRunningShoes Category = "Running Shoes"
	CategoryGymWear      Category = "Gym Wear"
	CategoryJackets      Category = "Jackets"
	CategorySneakers     Category = "Sneakers"
	CategorySocks        Category = "Socks"
	CategoryCaps         Category = "Caps"
)

var Categories = []Category{
	CategoryRunningShoes,
	CategoryGymWear,
	CategoryJackets,
	CategorySneakers,
	CategorySocks,
	CategoryCaps,
}

// Code is the three letter prefix used inside SKU codes, e.g. "RUN".
func (c Category) Code() string {
	s := strings.ToUpper(string(c))
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

type LoyaltyTier string

const (
	TierBronze LoyaltyTier = "Bronze"
	TierSilver LoyaltyTier = "Silver"
	TierGold   LoyaltyTier = "Gold"
)

type OrderStatus string

const (
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
	StatusReturned  OrderStatus = "Returned"
	StatusInTransit OrderStatus = "In Transit"
)

var OrderStatuses = []OrderStatus{StatusDelivered, StatusCancelled, StatusReturned, StatusInTransit}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityNormal Priority = "Normal"
	PriorityLow    Priority = "Low"
)

type InspectionResult string

const (
	InspectionPass InspectionResult = "Pass"
	InspectionFail InspectionResult = "Fail"
)

type Customer struct {
	ID            string      `json:"customer_id"`
	Gender        string      `json:"gender"`
	Age           int         `json:"age"`
	Segment       string      `json:"segment"`
	Region        string      `json:"region"`
	City          string      `json:"city"`
	SignupChannel string      `json:"signup_channel"`
	SignupDate    time.Time   `json:"signup_date"`
	BirthDate     time.Time   `json:"birth_date"`
	LoyaltyTier   LoyaltyTier `json:"loyalty_tier"`
}

type Promotion struct {
	Code        string          `json:"promo_id"`
	Type        string          `json:"promo_type"`
	DiscountPct int             `json:"discount_pct"`
	MinSpend    decimal.Decimal `json:"min_spend"`
	// FirstOrderOnly restricts the promotion to lines of a customer's first order.
	FirstOrderOnly bool `json:"first_order_only"`
}

type Warehouse struct {
	ID       string `json:"warehouse_id"`
	Location string `json:"warehouse_location"`
}

type Supplier struct {
	Name string `json:"supplier_name"`
}

type SKU struct {
	Code     string   `json:"sku"`
	Category Category `json:"category"`
}

// AppliedPromotion is a promotion together with the validity window it was
// drawn with. It only exists on a line when the promotion was eligible.
type AppliedPromotion struct {
	Promotion
	StartDate time.Time `json:"promo_start_date"`
	EndDate   time.Time `json:"promo_end_date"`
}

// Covers reports whether day falls inside [StartDate, EndDate].
func (p AppliedPromotion) Covers(day time.Time) bool {
	return !day.Before(p.StartDate) && !day.After(p.EndDate)
}

type Shipment struct {
	TrackingID    string            `json:"tracking_id"`
	Carrier       string            `json:"carrier_name"`
	ServiceLevel  string            `json:"carrier_service_level"`
	TransportMode string            `json:"transportation_mode"`
	Route         string            `json:"route"`
	ShipDate      time.Time         `json:"ship_date"`
	PromisedDate  time.Time         `json:"promised_delivery_date"`
	DeliveryDate  time.Time         `json:"delivery_date"`
	Cost          decimal.Decimal   `json:"shipping_cost"`
	Exception     mo.Option[string] `json:"delivery_exception_reason"`
}

// ShippingDays is the shipping lead time, delivery minus ship date.
func (s Shipment) ShippingDays() int {
	return DaysBetween(s.ShipDate, s.DeliveryDate)
}

type Return struct {
	ID            string          `json:"return_id"`
	Status        string          `json:"return_status"`
	Reason        string          `json:"return_reason"`
	Mode          string          `json:"return_mode"`
	RequestDate   time.Time       `json:"return_request_date"`
	CompletedDate time.Time       `json:"return_completed_date"`
	Units         int             `json:"returned_units"`
	Refund        decimal.Decimal `json:"refund_amount"`
}

type ManufacturingBatch struct {
	StartDate  time.Time        `json:"production_start_date"`
	EndDate    time.Time        `json:"production_end_date"`
	Cost       decimal.Decimal  `json:"manufacturing_cost"`
	Volume     int              `json:"production_volume"`
	Inspection InspectionResult `json:"inspection_result"`
	DefectRate decimal.Decimal  `json:"defect_rate"`
}

// LeadDays is the manufacturing lead time.
func (b ManufacturingBatch) LeadDays() int {
	return DaysBetween(b.StartDate, b.EndDate)
}

type SupplierAssignment struct {
	Supplier         Supplier `json:"supplier"`
	LeadTimePromised int      `json:"supplier_lead_time_promised"`
	LeadTimeActual   int      `json:"supplier_lead_time_actual"`
}

// OrderLine is one product line on an order. Optional groups are absent
// exactly when their gating condition does not hold.
type OrderLine struct {
	OrderID     string `json:"order_id"`
	OrderLineID string `json:"order_line_id"`
	// FirstOrder is set on every line that belongs to the customer's first order.
	FirstOrder bool `json:"first_order"`

	Customer Customer `json:"customer"`
	SKU      SKU      `json:"sku"`

	Price           decimal.Decimal `json:"price"`
	StockLevel      int             `json:"stock_level"`
	ReorderPoint    int             `json:"reorder_point"`
	QuantityOrdered int             `json:"quantity_ordered"`
	UnitsSold       int             `json:"units_sold"`
	WasAllocated    bool            `json:"was_allocated"`

	Promotion  mo.Option[AppliedPromotion] `json:"promotion"`
	FinalPrice decimal.Decimal             `json:"final_price"`
	Revenue    decimal.Decimal             `json:"revenue_generated"`

	OrderDate          time.Time         `json:"order_date"`
	Priority           Priority          `json:"order_priority"`
	Status             OrderStatus       `json:"order_status"`
	CancellationReason mo.Option[string] `json:"cancellation_reason"`

	Shipment mo.Option[Shipment] `json:"shipment"`
	Return   mo.Option[Return]   `json:"return"`

	Batch     ManufacturingBatch `json:"manufacturing"`
	Supplier  SupplierAssignment `json:"supplier"`
	Warehouse Warehouse          `json:"warehouse"`
}

func (l OrderLine) DiscountPercent() int {
	if p, ok := l.Promotion.Get(); ok {
		return p.DiscountPct
	}
	return 0
}

func (l OrderLine) ReturnedUnits() int {
	if r, ok := l.Return.Get(); ok {
		return r.Units
	}
	return 0
}

func (l OrderLine) RefundAmount() decimal.Decimal {
	if r, ok := l.Return.Get(); ok {
		return r.Refund
	}
	return decimal.Zero
}

func (l OrderLine) ShippingCost() decimal.Decimal {
	if s, ok := l.Shipment.Get(); ok {
		return s.Cost
	}
	return decimal.Zero
}

// Subtotal is the pre-discount spend used for promotion eligibility.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.QuantityOrdered)))
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const DateLayout = "2006-01-02"
