// Package order tracks the sim broker's orders so cancellation and
// suppressed submissions are observable.
package order

import "github.com/google/uuid"

// Status represents order lifecycle.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusFilled   Status = "FILLED"
	StatusCanceled Status = "CANCELED"
)

// Side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order holds a simplified order view.
type Order struct {
	ID         string
	Instrument string
	Side       Side
	Quantity   int
	Status     Status
}

// NewID returns a fresh order id.
func NewID() string {
	return uuid.NewString()
}
