package domain

// GuardOutcome result of a single guard evaluation.
// Reason is set only when Pass is false.
type GuardOutcome struct {
	Guard  string
	Pass   bool
	Reason ReasonCode
}

// Passed builds a passing outcome.
func Passed(guard string) GuardOutcome {
	return GuardOutcome{Guard: guard, Pass: true}
}

// Failed builds a failing outcome carrying its reason.
func Failed(guard string, reason ReasonCode) GuardOutcome {
	return GuardOutcome{Guard: guard, Pass: false, Reason: reason}
}

// ChainResult ordered trace produced by a guard chain.
// Evaluation stops at the first failure, so only the last entry may fail.
type ChainResult struct {
	Trace []GuardOutcome
}

// Failure returns the failing outcome that terminated the chain, if any.
func (r ChainResult) Failure() (GuardOutcome, bool) {
	if len(r.Trace) == 0 {
		return GuardOutcome{}, false
	}
	last := r.Trace[len(r.Trace)-1]
	if last.Pass {
		return GuardOutcome{}, false
	}
	return last, true
}

// Names returns guard names in evaluation order.
func (r ChainResult) Names() []string {
	names := make([]string, 0, len(r.Trace))
	for _, o := range r.Trace {
		names = append(names, o.Guard)
	}
	return names
}
