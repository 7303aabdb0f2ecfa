// Package guard evaluates a snapshot through an ordered, fail-fast list of checks.
package guard

import "github.com/vadiminshakov/vojker/internal/domain"

// Guard names in evaluation order.
const (
	NameValidation = "ValidationGuard"
	NamePolicy     = "PolicyGuard"
	NameRisk       = "RiskGuard"
	NameCooldown   = "CooldownGuard"
	NameSignal     = "SignalGuard"
)

// allowedTimeframe only timeframe PolicyGuard lets through.
const allowedTimeframe = "M1"

// Check inspects a snapshot and returns the failure reason, or "" to pass.
type Check func(s domain.Snapshot) domain.ReasonCode

// Guard named check.
type Guard struct {
	Name  string
	Check Check
}

// Chain fixed ordered list of guards.
type Chain struct {
	guards []Guard
}

// NewChain builds a chain evaluating guards in the given order.
func NewChain(guards ...Guard) Chain {
	return Chain{guards: guards}
}

// Default returns the production chain.
func Default() Chain {
	return NewChain(
		Guard{Name: NameValidation, Check: validation},
		Guard{Name: NamePolicy, Check: policy},
		Guard{Name: NameRisk, Check: risk},
		Guard{Name: NameCooldown, Check: cooldown},
		Guard{Name: NameSignal, Check: signal},
	)
}

// Evaluate runs guards in order and stops at the first failure.
// The failing guard is the last trace entry; later guards are never called.
func (c Chain) Evaluate(s domain.Snapshot) domain.ChainResult {
	trace := make([]domain.GuardOutcome, 0, len(c.guards))
	for _, g := range c.guards {
		reason := g.Check(s)
		if reason != "" {
			trace = append(trace, domain.Failed(g.Name, reason))
			break
		}
		trace = append(trace, domain.Passed(g.Name))
	}
	return domain.ChainResult{Trace: trace}
}

// Names returns the guard names in evaluation order.
func (c Chain) Names() []string {
	names := make([]string, 0, len(c.guards))
	for _, g := range c.guards {
		names = append(names, g.Name)
	}
	return names
}

func validation(s domain.Snapshot) domain.ReasonCode {
	switch {
	case !s.HasSymbol():
		return domain.ReasonMissingSymbol
	case !s.HasTimeframe():
		return domain.ReasonMissingTimeframe
	case !s.HasPrices():
		return domain.ReasonMissingOHLC
	}
	return ""
}

func policy(s domain.Snapshot) domain.ReasonCode {
	if s.Timeframe != allowedTimeframe {
		return domain.ReasonTimeframeBlocked
	}
	return ""
}

// risk passes a NaN volume: NaN <= 0 is false.
func risk(s domain.Snapshot) domain.ReasonCode {
	if s.Volume <= 0 {
		return domain.ReasonVolumeZero
	}
	return ""
}

// cooldown has no state to check yet; it still shows up in the trace.
func cooldown(domain.Snapshot) domain.ReasonCode {
	return ""
}

func signal(s domain.Snapshot) domain.ReasonCode {
	if s.Close == s.Open {
		return domain.ReasonFlatBar
	}
	return ""
}
