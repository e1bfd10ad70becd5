package faker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAnchor = time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)

func TestDataGeneratorDeterministic(t *testing.T) {
	a := NewDataGenerator(42, testAnchor)
	b := NewDataGenerator(42, testAnchor)

	for i := 0; i < 50; i++ {
		require.Equal(t, a.Between(1, 1000), b.Between(1, 1000))
		require.Equal(t, a.City(), b.City())
		require.True(t, a.Money(20, 300).Equal(b.Money(20, 300)))
	}
}

func TestAnchorTruncatedToDay(t *testing.T) {
	g := NewDataGenerator(1, testAnchor)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), g.Anchor())
	assert.Equal(t, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), g.MonthsAgo(6))
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), g.YearsAgo(2))
}

func TestBetweenInclusive(t *testing.T) {
	g := NewDataGenerator(3, testAnchor)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := g.Between(1, 5)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 5)
	assert.Equal(t, 4, g.Between(4, 4))
}

func TestMoneyRounding(t *testing.T) {
	g := NewDataGenerator(9, testAnchor)
	for i := 0; i < 200; i++ {
		m := g.Money(20, 300)
		require.LessOrEqual(t, -m.Exponent(), int32(2))
		require.True(t, m.GreaterThanOrEqual(decimal.NewFromInt(20)))
		require.True(t, m.LessThanOrEqual(decimal.NewFromInt(300)))
	}
}

func TestDateBetween(t *testing.T) {
	g := NewDataGenerator(11, testAnchor)
	from, to := g.MonthsAgo(6), g.Anchor()
	for i := 0; i < 500; i++ {
		d := g.DateBetween(from, to)
		require.False(t, d.Before(from))
		require.False(t, d.After(to))
		require.Zero(t, d.Hour())
	}
	assert.Equal(t, from, g.DateBetween(from, from))
}

func TestBirthDateAgeRange(t *testing.T) {
	g := NewDataGenerator(5, testAnchor)
	for i := 0; i < 500; i++ {
		b := g.BirthDate(18, 65)
		age := ageOn(b, g.Anchor())
		require.GreaterOrEqual(t, age, 18)
		require.LessOrEqual(t, age, 65)
	}
}

func TestPick(t *testing.T) {
	g := NewDataGenerator(5, testAnchor)
	items := []string{"FedEx", "UPS", "DHL", "USPS"}
	for i := 0; i < 100; i++ {
		assert.Contains(t, items, Pick(g, items))
	}
}

func ageOn(birth, day time.Time) int {
	age := day.Year() - birth.Year()
	if day.Month() < birth.Month() || (day.Month() == birth.Month() && day.Day() < birth.Day()) {
		age--
	}
	return age
}
