// Package domain defines the value types flowing through a single audit run.
package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/jsonc"
)

// Snapshot single market bar under evaluation.
// An empty Symbol or Timeframe means the field was absent or not a string.
// Open, Close and Volume are NaN when absent or unparsable.
type Snapshot struct {
	Symbol    string
	Timeframe string
	Timestamp int64
	Open      float64
	Close     float64
	Volume    float64
}

// NewSnapshot decodes the six snapshot fields from raw input bytes.
// It never fails: malformed or missing fields are left for the guards to reject.
func NewSnapshot(raw []byte) Snapshot {
	s := Snapshot{
		Open:   math.NaN(),
		Close:  math.NaN(),
		Volume: math.NaN(),
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(raw), &fields); err != nil {
		return s
	}

	s.Symbol = stringField(fields, "symbol")
	s.Timeframe = stringField(fields, "timeframe")
	s.Timestamp = epochSeconds(numberField(fields, "timestamp"))
	s.Open = numberField(fields, "open")
	s.Close = numberField(fields, "close")
	s.Volume = numberField(fields, "volume")

	return s
}

// HasSymbol reports whether the symbol is present and not blank.
func (s Snapshot) HasSymbol() bool {
	return !isBlank(s.Symbol)
}

// HasTimeframe reports whether the timeframe is present and not blank.
func (s Snapshot) HasTimeframe() bool {
	return !isBlank(s.Timeframe)
}

// HasPrices reports whether both open and close were decoded.
func (s Snapshot) HasPrices() bool {
	return !math.IsNaN(s.Open) && !math.IsNaN(s.Close)
}

// Body returns close minus open as a decimal, false when prices are missing.
func (s Snapshot) Body() (decimal.Decimal, bool) {
	if !s.HasPrices() || math.IsInf(s.Open, 0) || math.IsInf(s.Close, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(s.Close).Sub(decimal.NewFromFloat(s.Open)), true
}

// ChangePercent returns the bar move relative to open, in percent.
func (s Snapshot) ChangePercent() (decimal.Decimal, bool) {
	body, ok := s.Body()
	if !ok || s.Open == 0 {
		return decimal.Zero, false
	}
	return body.Div(decimal.NewFromFloat(s.Open)).Mul(decimal.NewFromInt(100)), true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

func numberField(fields map[string]json.RawMessage, key string) float64 {
	raw, ok := fields[key]
	if !ok {
		return math.NaN()
	}
	// json.Number would also accept a quoted number; only bare literals count
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return math.NaN()
	}
	var n *json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == nil {
		return math.NaN()
	}
	// out-of-range literals keep the ±Inf or 0 ParseFloat rounds them to
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// epochSeconds truncates toward zero, clamping to the int64 range. NaN maps to 0.
func epochSeconds(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
