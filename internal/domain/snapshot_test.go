package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot([]byte(`{"symbol":"EURUSD","timeframe":"M1","timestamp":1700000000,"open":1.1000,"close":1.0950,"volume":10}`))

	assert.Equal(t, "EURUSD", s.Symbol)
	assert.Equal(t, "M1", s.Timeframe)
	assert.Equal(t, int64(1700000000), s.Timestamp)
	assert.Equal(t, 1.1, s.Open)
	assert.Equal(t, 1.095, s.Close)
	assert.Equal(t, 10.0, s.Volume)
	assert.True(t, s.HasSymbol())
	assert.True(t, s.HasTimeframe())
	assert.True(t, s.HasPrices())
}

func TestNewSnapshot_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s Snapshot)
	}{
		{
			name:  "Empty object",
			input: `{}`,
			check: func(t *testing.T, s Snapshot) {
				assert.False(t, s.HasSymbol())
				assert.False(t, s.HasTimeframe())
				assert.False(t, s.HasPrices())
				assert.True(t, math.IsNaN(s.Volume))
				assert.Equal(t, int64(0), s.Timestamp)
			},
		},
		{
			name:  "Not JSON",
			input: `symbol=EURUSD`,
			check: func(t *testing.T, s Snapshot) {
				assert.False(t, s.HasSymbol())
				assert.True(t, math.IsNaN(s.Open))
			},
		},
		{
			name:  "Wrong types",
			input: `{"symbol":42,"timeframe":["M1"],"open":"1.1","close":null,"volume":true}`,
			check: func(t *testing.T, s Snapshot) {
				assert.False(t, s.HasSymbol())
				assert.False(t, s.HasTimeframe())
				assert.True(t, math.IsNaN(s.Open))
				assert.True(t, math.IsNaN(s.Close))
				assert.True(t, math.IsNaN(s.Volume))
			},
		},
		{
			name:  "Blank symbol",
			input: `{"symbol":"   ","timeframe":"M1"}`,
			check: func(t *testing.T, s Snapshot) {
				assert.Equal(t, "   ", s.Symbol)
				assert.False(t, s.HasSymbol())
				assert.True(t, s.HasTimeframe())
			},
		},
		{
			name: "Comments and trailing comma",
			input: `{
				// bar under test
				"symbol": "EURUSD",
				"timeframe": "M1", /* one minute */
				"timestamp": 1700000000,
				"open": 1.1, "close": 1.2, "volume": 3,
			}`,
			check: func(t *testing.T, s Snapshot) {
				assert.Equal(t, "EURUSD", s.Symbol)
				assert.Equal(t, "M1", s.Timeframe)
				assert.Equal(t, 1.2, s.Close)
				assert.Equal(t, 3.0, s.Volume)
			},
		},
		{
			name:  "Fractional and exponent timestamp",
			input: `{"timestamp":1.7e9}`,
			check: func(t *testing.T, s Snapshot) {
				assert.Equal(t, int64(1700000000), s.Timestamp)
			},
		},
		{
			name:  "Overflowing prices become infinite",
			input: `{"open":1e400,"close":-1e400,"volume":1e400}`,
			check: func(t *testing.T, s Snapshot) {
				assert.True(t, math.IsInf(s.Open, 1))
				assert.True(t, math.IsInf(s.Close, -1))
				assert.True(t, math.IsInf(s.Volume, 1))
				assert.True(t, s.HasPrices())
			},
		},
		{
			name:  "Overflowing timestamp clamps",
			input: `{"timestamp":1e400}`,
			check: func(t *testing.T, s Snapshot) {
				assert.Equal(t, int64(math.MaxInt64), s.Timestamp)
			},
		},
		{
			name:  "Negative overflowing timestamp clamps",
			input: `{"timestamp":-1e400}`,
			check: func(t *testing.T, s Snapshot) {
				assert.Equal(t, int64(math.MinInt64), s.Timestamp)
			},
		},
		{
			name:  "Underflow rounds to zero",
			input: `{"open":1e-400}`,
			check: func(t *testing.T, s Snapshot) {
				assert.Equal(t, 0.0, s.Open)
			},
		},
		{
			name:  "Quoted number is not a number",
			input: `{"open":"1.1","close":" 2"}`,
			check: func(t *testing.T, s Snapshot) {
				assert.True(t, math.IsNaN(s.Open))
				assert.True(t, math.IsNaN(s.Close))
			},
		},
		{
			name:  "Negative fractional timestamp truncates toward zero",
			input: `{"timestamp":-1.9}`,
			check: func(t *testing.T, s Snapshot) {
				assert.Equal(t, int64(-1), s.Timestamp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NewSnapshot([]byte(tt.input)))
		})
	}
}

func TestEpochSeconds_Clamps(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), epochSeconds(1e300))
	assert.Equal(t, int64(math.MinInt64), epochSeconds(-1e300))
	assert.Equal(t, int64(0), epochSeconds(math.NaN()))
}

func TestSnapshot_Body(t *testing.T) {
	s := Snapshot{Open: 1.1, Close: 1.095}

	body, ok := s.Body()
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("-0.005").Equal(body), "got %s", body)

	pct, ok := s.ChangePercent()
	require.True(t, ok)
	assert.Equal(t, "-0.45", pct.StringFixed(2))

	_, ok = Snapshot{Open: math.NaN(), Close: 1}.Body()
	assert.False(t, ok)

	_, ok = Snapshot{Open: math.Inf(1), Close: 1}.Body()
	assert.False(t, ok)

	_, ok = Snapshot{Open: 0, Close: 1}.ChangePercent()
	assert.False(t, ok)
}
