// Package reference builds the static lookup tables every order line draws
// from: customers, warehouses, suppliers, SKUs and the promotion catalog.
package reference

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Rana718/retailsim/internal/faker"
	"github.com/Rana718/retailsim/internal/types"
)

var (
	genders        = []string{"Male", "Female", "Non-binary", "Unknown"}
	segments       = []string{"Athlete", "Casual", "Professional", "Teen", "Senior"}
	signupChannels = []string{"Web", "App", "Referral"}

	loyaltyTiers = faker.MustWeighted(
		[]types.LoyaltyTier{types.TierBronze, types.TierSilver, types.TierGold},
		[]float64{0.6, 0.3, 0.1},
	)
)

// Sizes controls how many entries each reference table gets.
type Sizes struct {
	Warehouses      int
	Suppliers       int
	SKUsPerCategory int
	Customers       int
}

func DefaultSizes() Sizes {
	return Sizes{
		Warehouses:      10,
		Suppliers:       20,
		SKUsPerCategory: 100,
		Customers:       4000,
	}
}

func (s Sizes) Validate() error {
	if s.Warehouses < 1 || s.Suppliers < 1 || s.SKUsPerCategory < 1 || s.Customers < 1 {
		return fmt.Errorf("reference sizes must be positive: %+v", s)
	}
	if s.SKUsPerCategory > 999 || s.Warehouses > 999 {
		return fmt.Errorf("reference sizes exceed the three digit code space: %+v", s)
	}
	return nil
}

// Catalog is read-only once built.
type Catalog struct {
	Warehouses []types.Warehouse
	Suppliers  []types.Supplier
	SKUs       []types.SKU
	Customers  []types.Customer
	Promotions []types.Promotion
}

// Promotions is the fixed promotion catalog.
func Promotions() []types.Promotion {
	return []types.Promotion{
		{Code: "FIRSTORDER", Type: "Welcome", DiscountPct: 10, MinSpend: decimal.NewFromInt(30), FirstOrderOnly: true},
		{Code: "BLKFRI", Type: "Black Friday", DiscountPct: 25, MinSpend: decimal.NewFromInt(20)},
		{Code: "BDAY25", Type: "Birthday", DiscountPct: 25, MinSpend: decimal.NewFromInt(15)},
		{Code: "SUMMER15", Type: "Seasonal", DiscountPct: 15, MinSpend: decimal.NewFromInt(25)},
		{Code: "NEW10", Type: "General", DiscountPct: 10, MinSpend: decimal.NewFromInt(10)},
	}
}

// Build draws every reference table from g. Table order is fixed so the same
// seed always yields the same catalog.
func Build(g *faker.DataGenerator, sizes Sizes) (*Catalog, error) {
	if err := sizes.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{Promotions: Promotions()}

	c.Warehouses = lo.Times(sizes.Warehouses, func(i int) types.Warehouse {
		return types.Warehouse{
			ID:       fmt.Sprintf("WH%03d", i+1),
			Location: g.City(),
		}
	})

	c.Suppliers = lo.Times(sizes.Suppliers, func(_ int) types.Supplier {
		return types.Supplier{Name: g.Company()}
	})

	c.SKUs = lo.FlatMap(types.Categories, func(cat types.Category, _ int) []types.SKU {
		return lo.Times(sizes.SKUsPerCategory, func(i int) types.SKU {
			return types.SKU{
				Code:     fmt.Sprintf("XYZ-%s-%03d", cat.Code(), i+1),
				Category: cat,
			}
		})
	})

	c.Customers = lo.Times(sizes.Customers, func(i int) types.Customer {
		return newCustomer(g, i)
	})

	return c, nil
}

func newCustomer(g *faker.DataGenerator, i int) types.Customer {
	return types.Customer{
		ID:            fmt.Sprintf("CUST%05d", i),
		Gender:        faker.Pick(g, genders),
		Age:           g.Between(18, 65),
		Segment:       faker.Pick(g, segments),
		Region:        g.State(),
		City:          g.City(),
		SignupChannel: faker.Pick(g, signupChannels),
		SignupDate:    g.DateBetween(g.YearsAgo(2), g.MonthsAgo(6)),
		BirthDate:     g.BirthDate(18, 65),
		LoyaltyTier:   loyaltyTiers.Draw(g),
	}
}

// CustomerByID looks up a customer, mainly for tests and the studio.
func (c *Catalog) CustomerByID(id string) (types.Customer, bool) {
	return lo.Find(c.Customers, func(cu types.Customer) bool { return cu.ID == id })
}
