package faker

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/Rana718/retailsim/internal/types"
)

// DataGenerator is the single source of randomness for a generation run.
// Every draw goes through the same seeded faker, so a seed and an anchor
// date fully determine the output.
type DataGenerator struct {
	fake   *gofakeit.Faker
	anchor time.Time
}

func NewDataGenerator(seed uint64, anchor time.Time) *DataGenerator {
	return &DataGenerator{
		fake:   gofakeit.New(seed),
		anchor: types.Day(anchor),
	}
}

// Anchor is the "today" that relative date windows resolve against.
func (g *DataGenerator) Anchor() time.Time {
	return g.anchor
}

func (g *DataGenerator) Float64() float64 {
	return g.fake.Float64()
}

// Between returns an integer in [min, max].
func (g *DataGenerator) Between(min, max int) int {
	if max <= min {
		return min
	}
	return g.fake.IntRange(min, max)
}

// Chance reports true with probability p.
func (g *DataGenerator) Chance(p float64) bool {
	return g.fake.Float64() < p
}

// Money draws a uniform amount in [min, max] rounded to cents.
func (g *DataGenerator) Money(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(g.fake.Float64Range(min, max)).Round(2)
}

// Ratio draws a uniform value in [min, max] rounded to places decimals.
func (g *DataGenerator) Ratio(min, max float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(g.fake.Float64Range(min, max)).Round(places)
}

func (g *DataGenerator) City() string {
	return g.fake.City()
}

func (g *DataGenerator) State() string {
	return g.fake.State()
}

func (g *DataGenerator) Company() string {
	return g.fake.Company()
}

// DateBetween returns a whole day in [from, to].
func (g *DataGenerator) DateBetween(from, to time.Time) time.Time {
	from, to = types.Day(from), types.Day(to)
	if !to.After(from) {
		return from
	}
	return from.AddDate(0, 0, g.Between(0, types.DaysBetween(from, to)))
}

// MonthsAgo resolves an offset like "-6M" against the anchor.
func (g *DataGenerator) MonthsAgo(n int) time.Time {
	return g.anchor.AddDate(0, -n, 0)
}

// YearsAgo resolves an offset like "-2y" against the anchor.
func (g *DataGenerator) YearsAgo(n int) time.Time {
	return g.anchor.AddDate(-n, 0, 0)
}

// BirthDate returns a date of birth for someone aged between minAge and
// maxAge on the anchor date.
func (g *DataGenerator) BirthDate(minAge, maxAge int) time.Time {
	latest := g.YearsAgo(minAge)
	earliest := g.YearsAgo(maxAge+1).AddDate(0, 0, 1)
	return g.DateBetween(earliest, latest)
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](g *DataGenerator, items []T) T {
	return items[g.Between(0, len(items)-1)]
}
