package order

import "sync"

// Book records orders and their status, keyed by id.
type Book struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewBook() *Book {
	return &Book{orders: make(map[string]Order)}
}

func (b *Book) Set(o Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders[o.ID] = o
}

func (b *Book) Get(id string) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	return o, ok
}

// Pending returns the open orders for an instrument.
func (b *Book) Pending(instrument string) []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Order
	for _, o := range b.orders {
		if o.Instrument == instrument && o.Status == StatusNew {
			out = append(out, o)
		}
	}
	return out
}

// CancelPending marks every open order for the instrument canceled and
// returns how many were affected.
func (b *Book) CancelPending(instrument string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, o := range b.orders {
		if o.Instrument == instrument && o.Status == StatusNew {
			o.Status = StatusCanceled
			b.orders[id] = o
			n++
		}
	}
	return n
}

// MarkFilled transitions an open order to filled.
func (b *Book) MarkFilled(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if o, ok := b.orders[id]; ok && o.Status == StatusNew {
		o.Status = StatusFilled
		b.orders[id] = o
	}
}

// List returns all orders (copy).
func (b *Book) List() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	return out
}
