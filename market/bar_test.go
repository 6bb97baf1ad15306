package market

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionEnds(t *testing.T) {
	mk := func(day, hour int) Bar {
		return Bar{Time: time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC)}
	}
	bars := []Bar{mk(3, 9), mk(3, 12), mk(3, 15), mk(4, 9), mk(4, 15), mk(5, 9)}
	ends := SessionEnds(bars)
	assert.Equal(t, []bool{false, false, true, false, true, true}, ends)
}

func TestReadBars(t *testing.T) {
	data := `datetime,open,high,low,close,volume
2024-06-03 09:30:00,5000.00,5002.25,4999.50,5001.75,1200
2024-06-03 09:35:00,5001.75,5003.00,5000.25,5002.50,900
`
	bars, err := ReadBars(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 5000.00, bars[0].Open)
	assert.Equal(t, 5002.50, bars[1].Close)
	assert.Equal(t, 1200.0, bars[0].Volume)
	assert.Equal(t, time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC), bars[0].Time)
}

func TestReadBarsNoHeader(t *testing.T) {
	data := "2024-06-03 09:30:00,100,101,99,100.5,10\n"
	bars, err := ReadBars(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, bars, 1)
}

func TestReadBarsRejectsOutOfOrder(t *testing.T) {
	data := `2024-06-03 09:35:00,100,101,99,100.5,10
2024-06-03 09:30:00,100,101,99,100.5,10
`
	_, err := ReadBars(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")
}

func TestReadBarsEmpty(t *testing.T) {
	_, err := ReadBars(strings.NewReader(""))
	require.Error(t, err)
}
