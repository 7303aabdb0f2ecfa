package domain

// Verdict top-level outcome of a run.
type Verdict string

const (
	VerdictGo   Verdict = "GO"
	VerdictNoGo Verdict = "NO_GO"
)

// Action what the engine would do with the verdict.
type Action string

const (
	ActionOpenTrade Action = "OPEN_TRADE"
	ActionDoNothing Action = "DO_NOTHING"
)

// Direction side of the trade.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionNone  Direction = "NONE"
)

// State step of the run state machine recorded in the audit.
type State string

const (
	StateIdle   State = "IDLE"
	StateArmed  State = "ARMED"
	StateAction State = "ACTION"
)

// Decision is either NoGo or Go.
type Decision interface {
	Verdict() Verdict
	Action() Action
	Direction() Direction
	ReasonCodes() []ReasonCode
	StatePath() []State

	sealed()
}

// NoGo decision produced when a guard failed.
type NoGo struct {
	Reason ReasonCode
}

func (NoGo) Verdict() Verdict { return VerdictNoGo }
func (NoGo) Action() Action { return ActionDoNothing }
func (NoGo) Direction() Direction { return DirectionNone }
func (NoGo) StatePath() []State { return []State{StateIdle} }
func (d NoGo) ReasonCodes() []ReasonCode {
	return []ReasonCode{d.Reason}
}
func (NoGo) sealed() {}

// Go decision produced when every guard passed.
type Go struct {
	Side   Direction
	Reason ReasonCode
}

func (Go) Verdict() Verdict { return VerdictGo }
func (Go) Action() Action { return ActionOpenTrade }
func (d Go) Direction() Direction { return d.Side }
func (Go) StatePath() []State { return []State{StateIdle, StateArmed, StateAction} }
func (d Go) ReasonCodes() []ReasonCode {
	return []ReasonCode{d.Reason}
}
func (Go) sealed() {}

// Decide maps the terminal state of the guard chain to a decision.
// Prices are compared exactly as decoded. The equal case falls into the LONG
// branch even though SignalGuard already rejects flat bars; fixtures rely on
// the CLOSE_ABOVE_OR_EQUAL_OPEN code.
func Decide(s Snapshot, result ChainResult) Decision {
	if failed, ok := result.Failure(); ok {
		return NoGo{Reason: failed.Reason}
	}

	if s.Close < s.Open {
		return Go{Side: DirectionShort, Reason: ReasonCloseBelowOpen}
	}
	return Go{Side: DirectionLong, Reason: ReasonCloseAboveOrEqual}
}
