package order

import "testing"

func TestBookPendingAndCancel(t *testing.T) {
	b := NewBook()
	b.Set(Order{ID: "1", Instrument: "MNQ", Side: SideBuy, Quantity: 1, Status: StatusNew})
	b.Set(Order{ID: "2", Instrument: "MNQ", Side: SideSell, Quantity: 2, Status: StatusNew})
	b.Set(Order{ID: "3", Instrument: "ES", Side: SideBuy, Quantity: 1, Status: StatusNew})

	if got := len(b.Pending("MNQ")); got != 2 {
		t.Fatalf("pending MNQ = %d, want 2", got)
	}

	if n := b.CancelPending("MNQ"); n != 2 {
		t.Fatalf("canceled = %d, want 2", n)
	}
	if got := len(b.Pending("MNQ")); got != 0 {
		t.Fatalf("pending after cancel = %d, want 0", got)
	}
	if got := len(b.Pending("ES")); got != 1 {
		t.Fatalf("ES pending = %d, want 1", got)
	}

	o, ok := b.Get("1")
	if !ok || o.Status != StatusCanceled {
		t.Fatalf("order 1 status = %v", o.Status)
	}
}

func TestBookMarkFilled(t *testing.T) {
	b := NewBook()
	b.Set(Order{ID: "1", Instrument: "ES", Status: StatusNew})
	b.MarkFilled("1")
	o, _ := b.Get("1")
	if o.Status != StatusFilled {
		t.Fatalf("status = %v, want FILLED", o.Status)
	}
	// Filling a canceled order is a no-op.
	b.Set(Order{ID: "2", Instrument: "ES", Status: StatusCanceled})
	b.MarkFilled("2")
	o, _ = b.Get("2")
	if o.Status != StatusCanceled {
		t.Fatalf("status = %v, want CANCELED", o.Status)
	}
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Fatal("ids must be unique")
	}
}
