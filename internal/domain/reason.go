package domain

// ReasonCode enumerated explanation attached to a failed guard or a decision.
type ReasonCode string

const (
	ReasonMissingSymbol     ReasonCode = "VALIDATION_MISSING_SYMBOL"
	ReasonMissingTimeframe  ReasonCode = "VALIDATION_MISSING_TIMEFRAME"
	ReasonMissingOHLC       ReasonCode = "VALIDATION_MISSING_OHLC"
	ReasonTimeframeBlocked  ReasonCode = "POLICY_TIMEFRAME_BLOCKED"
	ReasonVolumeZero        ReasonCode = "RISK_VOLUME_ZERO"
	ReasonFlatBar           ReasonCode = "SIGNAL_FLAT_BAR"
	ReasonCloseBelowOpen    ReasonCode = "CLOSE_BELOW_OPEN"
	ReasonCloseAboveOrEqual ReasonCode = "CLOSE_ABOVE_OR_EQUAL_OPEN"
)

// String returns the wire representation.
func (r ReasonCode) String() string {
	return string(r)
}
