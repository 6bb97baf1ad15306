// Package strategy defines the trading logic interface the sim host drives.
// Strategies submit intents through the (possibly gated) order API; they
// never see fills directly.
package strategy

import (
	"propfirm-go/engine"
	"propfirm-go/market"
	"propfirm-go/sizer"
)

// Sizer decides order quantities from direction and current position.
type Sizer interface {
	Size(dir sizer.Direction, currentPosition int) int
}

// Context is what a strategy may touch during one bar callback.
type Context struct {
	Instrument string
	Orders     engine.OrderAPI
	Positions  engine.PositionSource
	Sizer      Sizer
}

// Strategy receives one callback per bar, in chronological order.
type Strategy interface {
	OnBar(bar market.Bar, ctx Context)
}
