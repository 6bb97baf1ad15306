// Package market holds the bar data types consumed by the sim host.
package market

import "time"

// Bar represents OHLC data for one period.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// SessionEnds marks, for each bar, whether it is the last bar of its
// trading day. The final bar of the series is always a session end.
func SessionEnds(bars []Bar) []bool {
	ends := make([]bool, len(bars))
	for i := range bars {
		if i == len(bars)-1 {
			ends[i] = true
			continue
		}
		y1, m1, d1 := bars[i].Time.Date()
		y2, m2, d2 := bars[i+1].Time.Date()
		ends[i] = y1 != y2 || m1 != m2 || d1 != d2
	}
	return ends
}
