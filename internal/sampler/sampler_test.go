package sampler

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/retailsim/internal/faker"
	"github.com/Rana718/retailsim/internal/reference"
	"github.com/Rana718/retailsim/internal/types"
)

var anchor = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func newSampler(t *testing.T, seed uint64, opts Options) *Sampler {
	t.Helper()
	g := faker.NewDataGenerator(seed, anchor)
	catalog, err := reference.Build(g, reference.Sizes{Warehouses: 10, Suppliers: 20, SKUsPerCategory: 100, Customers: 400})
	require.NoError(t, err)
	s, err := New(g, catalog, opts)
	require.NoError(t, err)
	return s
}

func sampleLines(t *testing.T, s *Sampler, n int) []types.OrderLine {
	t.Helper()
	book := NewOrderBook()
	lines := make([]types.OrderLine, 0, n)
	for i := 0; i < n; i++ {
		line, err := s.Next(book)
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

func TestNewRejectsBadInput(t *testing.T) {
	g := faker.NewDataGenerator(1, anchor)
	_, err := New(g, nil, DefaultOptions())
	require.Error(t, err)

	_, err = New(g, &reference.Catalog{}, DefaultOptions())
	require.Error(t, err)

	catalog, err := reference.Build(g, reference.Sizes{Warehouses: 1, Suppliers: 1, SKUsPerCategory: 1, Customers: 1})
	require.NoError(t, err)
	_, err = New(g, catalog, Options{NewOrderProbability: 1.5})
	require.Error(t, err)
}

func TestLinesHonourConditionalGates(t *testing.T) {
	s := newSampler(t, 42, DefaultOptions())
	lines := sampleLines(t, s, 5000)

	for _, l := range lines {
		// shipping iff not cancelled
		if l.Status == types.StatusCancelled {
			require.False(t, l.Shipment.IsPresent(), l.OrderLineID)
			require.True(t, l.ShippingCost().IsZero())
			require.True(t, l.CancellationReason.IsPresent())
		} else {
			sh, ok := l.Shipment.Get()
			require.True(t, ok, l.OrderLineID)
			require.False(t, l.CancellationReason.IsPresent())
			require.True(t, sh.ShipDate.After(l.OrderDate))
			require.True(t, sh.DeliveryDate.After(sh.ShipDate))
			require.GreaterOrEqual(t, sh.ShippingDays(), 1)
			require.LessOrEqual(t, sh.ShippingDays(), 10)
			require.Regexp(t, `^TRK\d{6}$`, sh.TrackingID)
		}

		// returns only for delivered lines with units
		if r, ok := l.Return.Get(); ok {
			require.Equal(t, types.StatusDelivered, l.Status)
			require.Greater(t, r.Units, 0)
			require.LessOrEqual(t, r.Units, l.UnitsSold)
			require.NotEmpty(t, r.ID)
			require.NotEmpty(t, r.Status)
			require.NotEmpty(t, r.Reason)
			require.NotEmpty(t, r.Mode)
			require.True(t, r.Refund.Equal(Amount(r.Units, l.FinalPrice)))
			require.True(t, r.CompletedDate.After(r.RequestDate))
		} else {
			require.Zero(t, l.ReturnedUnits())
			require.True(t, l.RefundAmount().IsZero())
		}

		// promotion eligibility
		if p, ok := l.Promotion.Get(); ok {
			require.True(t, p.Covers(l.OrderDate))
			require.True(t, l.Subtotal().GreaterThanOrEqual(p.MinSpend))
			if p.FirstOrderOnly {
				require.True(t, l.FirstOrder)
			}
			require.True(t, l.FinalPrice.LessThan(l.Price))
		} else {
			require.True(t, l.FinalPrice.Equal(l.Price))
			require.Zero(t, l.DiscountPercent())
		}

		require.True(t, l.Revenue.Equal(Amount(l.UnitsSold, l.FinalPrice)))
		require.Equal(t, l.StockLevel >= l.QuantityOrdered, l.WasAllocated)
		if l.WasAllocated {
			require.Equal(t, l.QuantityOrdered, l.UnitsSold)
		}
		require.LessOrEqual(t, l.UnitsSold, l.QuantityOrdered)

		require.True(t, l.Batch.EndDate.After(l.Batch.StartDate))
		require.True(t, l.Batch.StartDate.Before(l.OrderDate))
		require.GreaterOrEqual(t, l.Supplier.LeadTimeActual, l.Supplier.LeadTimePromised-2)
		require.LessOrEqual(t, l.Supplier.LeadTimeActual, l.Supplier.LeadTimePromised+5)

		require.False(t, l.OrderDate.After(anchor))
		require.False(t, l.OrderDate.Before(anchor.AddDate(0, -6, 0)))
	}
}

func TestLinesOfAnOrderShareCustomerAndDate(t *testing.T) {
	s := newSampler(t, 7, DefaultOptions())
	lines := sampleLines(t, s, 4000)

	type head struct {
		customer string
		date     time.Time
	}
	orders := map[string]head{}
	lineIDs := map[string]bool{}
	multiLine := 0

	for _, l := range lines {
		require.False(t, lineIDs[l.OrderLineID], "duplicate line id %s", l.OrderLineID)
		lineIDs[l.OrderLineID] = true

		h, seen := orders[l.OrderID]
		if !seen {
			orders[l.OrderID] = head{customer: l.Customer.ID, date: l.OrderDate}
			require.Equal(t, l.OrderID+"-L1", l.OrderLineID)
			continue
		}
		multiLine++
		require.Equal(t, h.customer, l.Customer.ID)
		require.Equal(t, h.date, l.OrderDate)
	}
	assert.Greater(t, multiLine, 0)
}

func TestNewOrderProbabilityExtremes(t *testing.T) {
	always := newSampler(t, 3, Options{NewOrderProbability: 1})
	book := NewOrderBook()
	for i := 0; i < 500; i++ {
		l, err := always.Next(book)
		require.NoError(t, err)
		require.Equal(t, l.OrderID+"-L1", l.OrderLineID)
	}
	assert.Equal(t, 500, book.Orders())

	never := newSampler(t, 3, Options{NewOrderProbability: 0})
	book = NewOrderBook()
	for i := 0; i < 500; i++ {
		_, err := never.Next(book)
		require.NoError(t, err)
	}
	assert.Equal(t, book.Customers(), book.Orders())
}

func TestStatusDistribution(t *testing.T) {
	s := newSampler(t, 42, DefaultOptions())
	lines := sampleLines(t, s, 10000)

	counts := map[types.OrderStatus]int{}
	for _, l := range lines {
		counts[l.Status]++
	}
	n := float64(len(lines))
	assert.InDelta(t, 0.7, float64(counts[types.StatusDelivered])/n, 0.03)
	assert.InDelta(t, 0.1, float64(counts[types.StatusCancelled])/n, 0.03)
	assert.InDelta(t, 0.1, float64(counts[types.StatusReturned])/n, 0.03)
	assert.InDelta(t, 0.1, float64(counts[types.StatusInTransit])/n, 0.03)
}

func TestSamplerDeterministic(t *testing.T) {
	a := sampleLines(t, newSampler(t, 42, DefaultOptions()), 300)
	b := sampleLines(t, newSampler(t, 42, DefaultOptions()), 300)
	require.Equal(t, a, b)
}

func TestFinalPriceAndAmount(t *testing.T) {
	price := decimal.RequireFromString("99.99")

	assert.True(t, FinalPrice(price, mo.None[types.AppliedPromotion]()).Equal(price))

	promo := mo.Some(types.AppliedPromotion{Promotion: types.Promotion{DiscountPct: 25}})
	assert.Equal(t, "74.99", FinalPrice(price, promo).StringFixed(2))

	assert.Equal(t, "224.97", Amount(3, decimal.RequireFromString("74.99")).StringFixed(2))
	assert.True(t, Amount(0, price).IsZero())
}
