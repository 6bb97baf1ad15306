package engine

import (
	"testing"
	"time"
)

type recorder struct {
	name  string
	trace *[]string
}

func (r recorder) OnBar(PortfolioSnapshot, bool) { *r.trace = append(*r.trace, "bar:"+r.name) }

func (r recorder) OnTradeClosed(time.Time, float64) {
	*r.trace = append(*r.trace, "trade:"+r.name)
}

func (r recorder) OnTimer(string, time.Time) { *r.trace = append(*r.trace, "timer:"+r.name) }

func TestRegistryDispatchOrder(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	reg.RegisterBar(recorder{"a", &trace})
	reg.RegisterBar(recorder{"b", &trace})
	reg.RegisterTrade(recorder{"c", &trace})
	reg.RegisterTimer(recorder{"d", &trace})

	reg.DispatchBar(PortfolioSnapshot{}, false)
	reg.DispatchTrade(time.Now(), 1.0)
	reg.DispatchTimer("x", time.Now())

	want := []string{"bar:a", "bar:b", "trade:c", "timer:d"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace[%d] = %s, want %s", i, trace[i], want[i])
		}
	}
}

func TestRegistryBarHandlersCopy(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	reg.RegisterBar(recorder{"a", &trace})

	hs := reg.BarHandlers()
	if len(hs) != 1 {
		t.Fatalf("got %d handlers, want 1", len(hs))
	}
	hs[0] = nil // mutating the copy must not affect dispatch
	reg.DispatchBar(PortfolioSnapshot{}, false)
	if len(trace) != 1 {
		t.Fatalf("dispatch after copy mutation reached %d handlers", len(trace))
	}
}
