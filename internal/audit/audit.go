// Package audit renders the canonical single-line audit record.
//
// The output is compared byte-for-byte against golden fixtures, so key order,
// escaping and spacing are fixed here by hand instead of being left to a
// generic encoder.
package audit

import (
	"bytes"
	"strconv"
	"time"

	"github.com/vadiminshakov/vojker/internal/domain"
)

const (
	// Schema tag written as the first field of every record.
	Schema = "vojker.audit.v1"

	runIDPrefix = "golden-v1-"
)

// Identity name and version pair for the rule pack or the engine.
type Identity struct {
	Name    string
	Version string
}

// Record inputs of a single audit document.
type Record struct {
	// Case identifier, usually the case directory base name.
	Case string
	// SnapshotHash fingerprint of the raw input bytes.
	SnapshotHash string
	// Timestamp snapshot time in epoch seconds.
	Timestamp int64
	Decision  domain.Decision
	Trace     []domain.GuardOutcome
}

// Serializer renders records for a fixed pack and engine identity.
type Serializer struct {
	pack   Identity
	engine Identity
}

// NewSerializer creates a Serializer.
func NewSerializer(pack, engine Identity) *Serializer {
	return &Serializer{pack: pack, engine: engine}
}

// Render returns the canonical UTF-8 audit document. Equal records always
// render to equal bytes.
func (s *Serializer) Render(r Record) []byte {
	w := &writer{buf: bytes.NewBuffer(make([]byte, 0, 512))}

	w.raw("{")
	w.key("schema")
	w.str(Schema)
	w.raw(",")
	w.key("snapshot_hash")
	w.str(r.SnapshotHash)
	w.raw(",")
	w.key("pack")
	w.identity(s.pack)
	w.raw(",")
	w.key("engine")
	w.identity(s.engine)
	w.raw(",")

	w.key("decision")
	w.raw("{")
	w.key("decision")
	w.str(string(r.Decision.Verdict()))
	w.raw(",")
	w.key("action")
	w.str(string(r.Decision.Action()))
	w.raw(",")
	w.key("direction")
	w.str(string(r.Decision.Direction()))
	w.raw("},")

	w.key("state_path")
	w.states(r.Decision.StatePath())
	w.raw(",")
	w.key("reason_codes")
	w.reasons(r.Decision.ReasonCodes())
	w.raw(",")

	w.key("guard_trace")
	w.raw("[")
	for i, o := range r.Trace {
		if i > 0 {
			w.raw(",")
		}
		w.outcome(o)
	}
	w.raw("],")

	w.key("meta")
	w.raw("{")
	w.key("run_id")
	w.str(RunID(r.Case))
	w.raw(",")
	w.key("timestamp_utc")
	w.str(TimestampUTC(r.Timestamp))
	w.raw("}")

	w.raw("}")

	return w.buf.Bytes()
}

// RunID derives the run identifier from the case name.
func RunID(caseName string) string {
	return runIDPrefix + caseName
}

// TimestampUTC formats epoch seconds as RFC3339 in UTC.
// Years past 9999 carry a leading '+', as ISO 8601 expanded years do.
func TimestampUTC(epochSeconds int64) string {
	t := time.Unix(epochSeconds, 0).UTC()
	if t.Year() > 9999 {
		return "+" + t.Format(time.RFC3339)
	}
	return t.Format(time.RFC3339)
}

type writer struct {
	buf *bytes.Buffer
}

func (w *writer) raw(s string) {
	w.buf.WriteString(s)
}

func (w *writer) key(k string) {
	w.str(k)
	w.buf.WriteByte(':')
}

func (w *writer) str(s string) {
	w.buf.WriteByte('"')
	writeEscaped(w.buf, s)
	w.buf.WriteByte('"')
}

func (w *writer) identity(id Identity) {
	w.raw("{")
	w.key("name")
	w.str(id.Name)
	w.raw(",")
	w.key("version")
	w.str(id.Version)
	w.raw("}")
}

func (w *writer) states(states []domain.State) {
	w.raw("[")
	for i, st := range states {
		if i > 0 {
			w.raw(",")
		}
		w.str(string(st))
	}
	w.raw("]")
}

func (w *writer) reasons(codes []domain.ReasonCode) {
	w.raw("[")
	for i, c := range codes {
		if i > 0 {
			w.raw(",")
		}
		w.str(string(c))
	}
	w.raw("]")
}

func (w *writer) outcome(o domain.GuardOutcome) {
	w.raw("{")
	w.key("guard")
	w.str(o.Guard)
	w.raw(",")
	w.key("pass")
	w.raw(strconv.FormatBool(o.Pass))
	if !o.Pass {
		w.raw(",")
		w.key("reason")
		w.str(string(o.Reason))
	}
	w.raw("}")
}

const hexDigits = "0123456789abcdef"

// writeEscaped escapes backslash, quote and control bytes below 0x20.
// Every other byte, including multi-byte UTF-8 sequences, is copied as is.
func writeEscaped(buf *bytes.Buffer, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			buf.WriteString(`\\`)
		case '"':
			buf.WriteString(`\"`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
				continue
			}
			buf.WriteByte(c)
		}
	}
}
