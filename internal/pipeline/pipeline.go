// Package pipeline runs one golden case end to end:
// read → decode → guard → decide → render → compare or bless → journal.
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/vojker/internal/audit"
	"github.com/vadiminshakov/vojker/internal/domain"
	"github.com/vadiminshakov/vojker/internal/fingerprint"
	"github.com/vadiminshakov/vojker/internal/golden"
	"github.com/vadiminshakov/vojker/internal/guard"
	"go.uber.org/zap"
)

// Journal records completed runs.
type Journal interface {
	Save(event domain.RunEvent) error
}

// Pipeline evaluates golden cases.
type Pipeline struct {
	l          *zap.Logger
	chain      guard.Chain
	serializer *audit.Serializer
	hasher     fingerprint.Hasher
	journal    Journal
}

// New creates a Pipeline. journal may be nil.
func New(l *zap.Logger, hasher fingerprint.Hasher, serializer *audit.Serializer, journal Journal) *Pipeline {
	return &Pipeline{
		l:          l,
		chain:      guard.Default(),
		serializer: serializer,
		hasher:     hasher,
		journal:    journal,
	}
}

// Evaluation pure result of evaluating input bytes.
type Evaluation struct {
	SnapshotHash string
	Snapshot     domain.Snapshot
	Result       domain.ChainResult
	Decision     domain.Decision
	Audit        []byte
}

// Evaluate turns raw input bytes into the canonical audit for the case.
// It touches no files and no clock.
func (p *Pipeline) Evaluate(caseName string, raw []byte) Evaluation {
	snapshotHash := p.hasher.Sum(raw)
	snapshot := domain.NewSnapshot(raw)
	result := p.chain.Evaluate(snapshot)
	decision := domain.Decide(snapshot, result)

	auditBytes := p.serializer.Render(audit.Record{
		Case:         caseName,
		SnapshotHash: snapshotHash,
		Timestamp:    snapshot.Timestamp,
		Decision:     decision,
		Trace:        result.Trace,
	})

	return Evaluation{
		SnapshotHash: snapshotHash,
		Snapshot:     snapshot,
		Result:       result,
		Decision:     decision,
		Audit:        auditBytes,
	}
}

// Report outcome of a run, printable as the operator-facing summary.
type Report struct {
	Case         string
	HashName     string
	SnapshotHash string
	ExpectedHash string
	ActualHash   string
	ExpectedPath string
	ActualPath   string
	Decision     domain.Decision
	Golden       golden.Result
}

// ExitCode returns the process exit status for the report.
func (r Report) ExitCode() int {
	return r.Golden.Verdict.ExitCode()
}

// Print writes the KEY=VALUE summary lines.
func (r Report) Print(w io.Writer) error {
	var lines []string
	if r.Golden.Verdict == golden.VerdictBlessed {
		lines = []string{
			fmt.Sprintf("BLESSED %s for case=%s", golden.ExpectedFile, r.Case),
			"WROTE " + r.ExpectedPath,
			"WROTE " + r.ActualPath,
		}
	} else {
		alg := strings.ToUpper(r.HashName)
		lines = []string{
			"CASE=" + r.Case,
			"SNAPSHOT_HASH=" + r.SnapshotHash,
			fmt.Sprintf("EXPECTED_%s=%s", alg, r.ExpectedHash),
			fmt.Sprintf("ACTUAL_%s=%s", alg, r.ActualHash),
			"GOLDEN_MATCH=" + string(r.Golden.Verdict),
		}
		if r.Golden.Verdict == golden.VerdictFail {
			lines = append(lines, fmt.Sprintf("FIRST_MISMATCH_AT_BYTE=%d", r.Golden.MismatchAt))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Run processes the case directory. Input faults are returned as errors before
// any artifact is written; a golden mismatch is a FAIL verdict, not an error.
func (p *Pipeline) Run(caseDir string, bless bool) (Report, error) {
	store := golden.NewStore(caseDir)
	caseName := store.Case()
	l := p.l.With(zap.String("case", caseName))

	raw, err := store.ReadInput()
	if err != nil {
		return Report{}, err
	}

	eval := p.Evaluate(caseName, raw)
	p.logEvaluation(l, eval)

	res, err := store.Settle(eval.Audit, bless)
	if err != nil {
		return Report{}, errors.Wrap(err, "settle golden fixture")
	}

	report := Report{
		Case:         caseName,
		HashName:     p.hasher.Name(),
		SnapshotHash: eval.SnapshotHash,
		ExpectedHash: p.hasher.Sum(res.Expected),
		ActualHash:   p.hasher.Sum(res.Actual),
		ExpectedPath: store.ExpectedPath(),
		ActualPath:   store.ActualPath(),
		Decision:     eval.Decision,
		Golden:       res,
	}

	switch res.Verdict {
	case golden.VerdictFail:
		l.Warn("golden mismatch", zap.Int("first_mismatch_at", res.MismatchAt))
	default:
		l.Info("golden settled", zap.String("verdict", string(res.Verdict)))
	}

	if p.journal != nil {
		event := domain.NewRunEvent(caseName, eval.SnapshotHash, report.ActualHash,
			string(res.Verdict), res.MismatchAt, eval.Decision)
		if err := p.journal.Save(event); err != nil {
			// the verdict is already on disk; a journal fault must not change it
			l.Error("failed to journal run", zap.Error(err))
		}
	}

	return report, nil
}

func (p *Pipeline) logEvaluation(l *zap.Logger, eval Evaluation) {
	fields := []zap.Field{
		zap.String("snapshot_hash", eval.SnapshotHash),
		zap.String("symbol", eval.Snapshot.Symbol),
		zap.String("timeframe", eval.Snapshot.Timeframe),
		zap.Strings("guards", eval.Result.Names()),
		zap.String("decision", string(eval.Decision.Verdict())),
		zap.String("direction", string(eval.Decision.Direction())),
	}
	if body, ok := eval.Snapshot.Body(); ok {
		fields = append(fields, zap.String("bar_body", body.String()))
	}
	if pct, ok := eval.Snapshot.ChangePercent(); ok {
		fields = append(fields, zap.String("change_pct", pct.StringFixed(4)))
	}

	l.Info("snapshot evaluated", fields...)
}
