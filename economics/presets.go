package economics

import (
	"fmt"
	"sort"
)

// Preset contract specs for common CME/NYMEX futures. Values must stay
// bit-exact: downstream configs reference these symbols as drop-in presets.
//
//	symbol  tickSize  tickValue  mult  margin  commission
//	ES      0.25      12.50      50    15000   2.25
//	NQ      0.25      5.00       20    20000   2.25
//	CL      0.01      10.00      1000  5000    2.25
//	MES     0.25      1.25       5     1500    0.50
//	MNQ     0.25      0.50       2     2000    0.50
var presets = map[string]Profile{
	"ES":  mustProfile("ES", 0.25, 12.50, 15000, 2.25),
	"NQ":  mustProfile("NQ", 0.25, 5.00, 20000, 2.25),
	"CL":  mustProfile("CL", 0.01, 10.00, 5000, 2.25),
	"MES": mustProfile("MES", 0.25, 1.25, 1500, 0.50),
	"MNQ": mustProfile("MNQ", 0.25, 0.50, 2000, 0.50),
}

func mustProfile(symbol string, tickSize, tickValue, margin, commission float64) Profile {
	p, err := NewProfile(symbol, tickSize, tickValue, margin, commission)
	if err != nil {
		panic(fmt.Sprintf("bad preset %s: %v", symbol, err))
	}
	return p
}

// Lookup returns the preset profile for a symbol.
func Lookup(symbol string) (Profile, bool) {
	p, ok := presets[symbol]
	return p, ok
}

// Symbols lists the preset contract symbols.
func Symbols() []string {
	out := make([]string, 0, len(presets))
	for s := range presets {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
