package domain

import "github.com/google/uuid"

// RunEvent journal entry describing one completed audit run.
type RunEvent struct {
	ID           string       `json:"id"`
	Case         string       `json:"case"`
	SnapshotHash string       `json:"snapshot_hash"`
	AuditHash    string       `json:"audit_hash"`
	Golden       string       `json:"golden"`
	MismatchAt   int          `json:"mismatch_at"`
	Verdict      Verdict      `json:"verdict"`
	Direction    Direction    `json:"direction"`
	ReasonCodes  []ReasonCode `json:"reason_codes"`
}

// NewRunEvent creates a RunEvent with a fresh id.
// mismatchAt is -1 unless the golden comparison failed.
func NewRunEvent(caseName, snapshotHash, auditHash, golden string, mismatchAt int, d Decision) RunEvent {
	return RunEvent{
		ID:           uuid.NewString(),
		Case:         caseName,
		SnapshotHash: snapshotHash,
		AuditHash:    auditHash,
		Golden:       golden,
		MismatchAt:   mismatchAt,
		Verdict:      d.Verdict(),
		Direction:    d.Direction(),
		ReasonCodes:  d.ReasonCodes(),
	}
}

// RunEventRecord bundles a run event with its journal index.
type RunEventRecord struct {
	Index uint64
	Event RunEvent
}
