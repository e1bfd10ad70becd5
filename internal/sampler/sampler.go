// Package sampler draws order lines one at a time against a reference
// catalog. Apart from the OrderBook passed in by the caller, every field is
// sampled independently per row.
package sampler

import (
	"errors"
	"fmt"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/Rana718/retailsim/internal/faker"
	"github.com/Rana718/retailsim/internal/reference"
	"github.com/Rana718/retailsim/internal/types"
)

const DefaultNewOrderProbability = 0.7

var (
	priorities          = []types.Priority{types.PriorityHigh, types.PriorityNormal, types.PriorityLow}
	cancellationReasons = []string{"Out of Stock", "Customer Cancelled", "Payment Issue"}

	orderStatuses = faker.MustWeighted(
		types.OrderStatuses,
		[]float64{0.7, 0.1, 0.1, 0.1},
	)
)

type Options struct {
	// NewOrderProbability is the chance a returning customer starts a new
	// order instead of adding a line to their active one.
	NewOrderProbability float64
}

func DefaultOptions() Options {
	return Options{NewOrderProbability: DefaultNewOrderProbability}
}

type Sampler struct {
	gen     *faker.DataGenerator
	catalog *reference.Catalog
	opts    Options
}

func New(gen *faker.DataGenerator, catalog *reference.Catalog, opts Options) (*Sampler, error) {
	if catalog == nil || len(catalog.Customers) == 0 || len(catalog.SKUs) == 0 ||
		len(catalog.Promotions) == 0 || len(catalog.Suppliers) == 0 || len(catalog.Warehouses) == 0 {
		return nil, errors.New("sampler needs a catalog with every reference table populated")
	}
	if opts.NewOrderProbability < 0 || opts.NewOrderProbability > 1 {
		return nil, fmt.Errorf("new order probability must be within [0, 1], got %v", opts.NewOrderProbability)
	}
	return &Sampler{gen: gen, catalog: catalog, opts: opts}, nil
}

// Next samples one order line and records it in book.
func (s *Sampler) Next(book *OrderBook) (types.OrderLine, error) {
	customer := faker.Pick(s.gen, s.catalog.Customers)

	order, err := s.resolveOrder(book, customer.ID)
	if err != nil {
		return types.OrderLine{}, err
	}
	return s.Line(order, customer), nil
}

// resolveOrder opens a new order unless the customer already has one and the
// continuation draw says to keep adding to it.
func (s *Sampler) resolveOrder(book *OrderBook, customerID string) (*Order, error) {
	_, hasOrder := book.Active(customerID)
	if s.gen.Chance(s.opts.NewOrderProbability) || !hasOrder {
		date := s.gen.DateBetween(s.gen.MonthsAgo(6), s.gen.Anchor())
		return book.Open(customerID, date), nil
	}
	return book.Continue(customerID)
}

// Line samples every field of a line that belongs to order.
func (s *Sampler) Line(order *Order, customer types.Customer) types.OrderLine {
	g := s.gen

	line := types.OrderLine{
		OrderID:     order.ID,
		OrderLineID: order.nextLineID(),
		FirstOrder:  order.First,
		Customer:    customer,
		OrderDate:   order.Date,
	}

	line.SKU = faker.Pick(g, s.catalog.SKUs)
	line.Price = g.Money(20, 300)
	line.StockLevel = g.Between(0, 1000)
	line.ReorderPoint = g.Between(50, 300)
	line.QuantityOrdered = g.Between(1, 10)
	line.WasAllocated = line.StockLevel >= line.QuantityOrdered
	if line.WasAllocated {
		line.UnitsSold = line.QuantityOrdered
	} else {
		line.UnitsSold = g.Between(0, line.QuantityOrdered)
	}

	line.Promotion = s.promotion(line, order.First)
	line.FinalPrice = FinalPrice(line.Price, line.Promotion)
	line.Revenue = Amount(line.UnitsSold, line.FinalPrice)

	line.Priority = faker.Pick(g, priorities)
	line.Status = orderStatuses.Draw(g)
	line.CancellationReason = mo.None[string]()
	if line.Status == types.StatusCancelled {
		line.CancellationReason = mo.Some(faker.Pick(g, cancellationReasons))
	}

	line.Shipment = s.shipment(line)
	line.Return = s.returned(line)
	line.Batch = s.batch(line.OrderDate)
	line.Supplier = s.supplier()
	line.Warehouse = faker.Pick(g, s.catalog.Warehouses)

	return line
}

// FinalPrice applies the promotion's discount, if any, rounded to cents.
func FinalPrice(price decimal.Decimal, promo mo.Option[types.AppliedPromotion]) decimal.Decimal {
	p, ok := promo.Get()
	if !ok {
		return price
	}
	factor := decimal.NewFromInt(100 - int64(p.DiscountPct)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2)
}

// Amount is units x unit price rounded to cents. Used for revenue and refunds.
func Amount(units int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(units))).Round(2)
}
