package sampler

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoActiveOrder is returned when a line is asked to continue an order for
// a customer that has never ordered.
var ErrNoActiveOrder = errors.New("no active order for customer")

const firstOrderNumber = 100000

type Order struct {
	ID         string
	CustomerID string
	Date       time.Time
	// First marks the customer's first ever order.
	First bool
	lines int
}

func (o *Order) Lines() int {
	return o.lines
}

func (o *Order) nextLineID() string {
	o.lines++
	return fmt.Sprintf("%s-L%d", o.ID, o.lines)
}

// OrderBook carries order state across rows: the running order counter and
// each customer's most recent order. It is the only mutable state shared
// between sampled rows.
type OrderBook struct {
	next       int
	opened     int
	byCustomer map[string]*Order
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		next:       firstOrderNumber,
		byCustomer: make(map[string]*Order),
	}
}

// Active returns the customer's most recent order.
func (b *OrderBook) Active(customerID string) (*Order, bool) {
	o, ok := b.byCustomer[customerID]
	return o, ok
}

// Open starts a new order for the customer and makes it their active one.
func (b *OrderBook) Open(customerID string, date time.Time) *Order {
	_, seen := b.byCustomer[customerID]
	o := &Order{
		ID:         fmt.Sprintf("ORD%d", b.next),
		CustomerID: customerID,
		Date:       date,
		First:      !seen,
	}
	b.next++
	b.opened++
	b.byCustomer[customerID] = o
	return o
}

// Continue returns the customer's active order for another line.
func (b *OrderBook) Continue(customerID string) (*Order, error) {
	o, ok := b.byCustomer[customerID]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoActiveOrder, customerID)
	}
	return o, nil
}

// Orders is the number of orders opened so far.
func (b *OrderBook) Orders() int {
	return b.opened
}

// Customers is the number of distinct customers that have ordered.
func (b *OrderBook) Customers() int {
	return len(b.byCustomer)
}
