package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSV layout: datetime, open, high, low, close, volume with 5-minute bars.
const csvTimeLayout = "2006-01-02 15:04:05"

// LoadCSV reads bars from a CSV file. A header row is skipped when the
// first field does not parse as a timestamp. Bars must be in chronological
// order; out-of-order rows are rejected.
func LoadCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()
	return ReadBars(f)
}

// ReadBars parses bars from r in the CSV layout above.
func ReadBars(r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var bars []Bar
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bars: %w", err)
		}
		line++
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: want at least 5 fields, got %d", line, len(rec))
		}

		ts, err := time.Parse(csvTimeLayout, strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: bad timestamp %q", line, rec[0])
		}

		bar := Bar{Time: ts}
		fields := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close}
		for i, dst := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad field %d: %w", line, i+1, err)
			}
			*dst = v
		}
		if len(rec) > 5 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[5]), 64); err == nil {
				bar.Volume = v
			}
		}

		if n := len(bars); n > 0 && !bar.Time.After(bars[n-1].Time) {
			return nil, fmt.Errorf("line %d: bar %s out of order", line, bar.Time)
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars found")
	}
	return bars, nil
}
