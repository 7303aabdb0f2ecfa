package guard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/vojker/internal/domain"
)

var order = []string{NameValidation, NamePolicy, NameRisk, NameCooldown, NameSignal}

func validSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Symbol:    "EURUSD",
		Timeframe: "M1",
		Timestamp: 1700000000,
		Open:      1.1,
		Close:     1.095,
		Volume:    10,
	}
}

func TestDefault_Order(t *testing.T) {
	assert.Equal(t, order, Default().Names())
}

func TestChain_Evaluate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.Snapshot)
		failAt int // 1-based index of failing guard, 0 when all pass
		reason domain.ReasonCode
	}{
		{name: "All pass", mutate: func(s *domain.Snapshot) {}},
		{name: "Missing symbol", mutate: func(s *domain.Snapshot) { s.Symbol = "" }, failAt: 1, reason: domain.ReasonMissingSymbol},
		{name: "Blank symbol", mutate: func(s *domain.Snapshot) { s.Symbol = " \t" }, failAt: 1, reason: domain.ReasonMissingSymbol},
		{
			name:   "Symbol reported before timeframe",
			mutate: func(s *domain.Snapshot) {
				s.Symbol = ""
				s.Timeframe = ""
				s.Open = math.NaN()
			},
			failAt: 1,
			reason: domain.ReasonMissingSymbol,
		},
		{
			name:   "Timeframe reported before prices",
			mutate: func(s *domain.Snapshot) {
				s.Timeframe = ""
				s.Open = math.NaN()
			},
			failAt: 1,
			reason: domain.ReasonMissingTimeframe,
		},
		{name: "Missing open", mutate: func(s *domain.Snapshot) { s.Open = math.NaN() }, failAt: 1, reason: domain.ReasonMissingOHLC},
		{name: "Missing close", mutate: func(s *domain.Snapshot) { s.Close = math.NaN() }, failAt: 1, reason: domain.ReasonMissingOHLC},
		{name: "Blocked timeframe", mutate: func(s *domain.Snapshot) { s.Timeframe = "M5" }, failAt: 2, reason: domain.ReasonTimeframeBlocked},
		{name: "Timeframe is case sensitive", mutate: func(s *domain.Snapshot) { s.Timeframe = "m1" }, failAt: 2, reason: domain.ReasonTimeframeBlocked},
		{name: "Zero volume", mutate: func(s *domain.Snapshot) { s.Volume = 0 }, failAt: 3, reason: domain.ReasonVolumeZero},
		{name: "Negative volume", mutate: func(s *domain.Snapshot) { s.Volume = -1 }, failAt: 3, reason: domain.ReasonVolumeZero},
		{name: "NaN volume passes risk", mutate: func(s *domain.Snapshot) { s.Volume = math.NaN() }},
		{name: "Flat bar", mutate: func(s *domain.Snapshot) { s.Close = s.Open }, failAt: 5, reason: domain.ReasonFlatBar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(&s)

			result := Default().Evaluate(s)

			if tt.failAt == 0 {
				require.Len(t, result.Trace, len(order))
				for i, o := range result.Trace {
					assert.Equal(t, domain.Passed(order[i]), o)
				}
				_, failed := result.Failure()
				assert.False(t, failed)
				return
			}

			require.Len(t, result.Trace, tt.failAt)
			assert.Equal(t, order[:tt.failAt], result.Names())
			for _, o := range result.Trace[:tt.failAt-1] {
				assert.True(t, o.Pass)
				assert.Empty(t, o.Reason)
			}
			assert.Equal(t, domain.Failed(order[tt.failAt-1], tt.reason), result.Trace[tt.failAt-1])
		})
	}
}

func TestChain_StopsAtFirstFailure(t *testing.T) {
	var called []string
	record := func(name string, reason domain.ReasonCode) Guard {
		return Guard{Name: name, Check: func(domain.Snapshot) domain.ReasonCode {
			called = append(called, name)
			return reason
		}}
	}

	chain := NewChain(
		record("first", ""),
		record("second", domain.ReasonVolumeZero),
		record("third", ""),
	)

	result := chain.Evaluate(validSnapshot())

	assert.Equal(t, []string{"first", "second"}, called)
	assert.Equal(t, []string{"first", "second"}, result.Names())
}

func TestChain_CooldownAlwaysInTrace(t *testing.T) {
	s := validSnapshot()
	s.Close = s.Open

	result := Default().Evaluate(s)

	require.Len(t, result.Trace, 5)
	assert.Equal(t, domain.GuardOutcome{Guard: NameCooldown, Pass: true}, result.Trace[3])
}
