package sampler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBookOpenAndContinue(t *testing.T) {
	book := NewOrderBook()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := book.Continue("CUST00001")
	require.ErrorIs(t, err, ErrNoActiveOrder)

	first := book.Open("CUST00001", day)
	assert.Equal(t, "ORD100000", first.ID)
	assert.True(t, first.First)
	assert.Equal(t, "ORD100000-L1", first.nextLineID())

	again, err := book.Continue("CUST00001")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, "ORD100000-L2", again.nextLineID())
	assert.Equal(t, 2, again.Lines())

	second := book.Open("CUST00001", day.AddDate(0, 0, 3))
	assert.Equal(t, "ORD100001", second.ID)
	assert.False(t, second.First)

	active, ok := book.Active("CUST00001")
	require.True(t, ok)
	assert.Same(t, second, active)

	other := book.Open("CUST00002", day)
	assert.Equal(t, "ORD100002", other.ID)
	assert.True(t, other.First)

	assert.Equal(t, 3, book.Orders())
	assert.Equal(t, 2, book.Customers())
}
