// Package golden compares freshly rendered audits against stored fixtures.
package golden

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// File names inside a case directory.
const (
	InputFile    = "golden_input.json"
	ExpectedFile = "expected_audit.json"
	ActualFile   = "actual_audit.json"
)

// Verdict outcome of settling a case against its fixture.
type Verdict string

const (
	VerdictBlessed Verdict = "BLESSED"
	VerdictPass    Verdict = "PASS"
	VerdictFail    Verdict = "FAIL"
)

// ExitCode maps the verdict to a process exit status.
func (v Verdict) ExitCode() int {
	if v == VerdictFail {
		return 1
	}
	return 0
}

// Result outcome of Settle.
type Result struct {
	Verdict Verdict
	// MismatchAt first differing byte index, -1 unless Verdict is FAIL.
	MismatchAt int
	// Expected fixture bytes as stored after Settle.
	Expected []byte
	Actual   []byte
}

// Store golden fixture layout of one case directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at caseDir.
func NewStore(caseDir string) *Store {
	return &Store{dir: caseDir}
}

// Case returns the case identifier, the base name of the case directory.
func (s *Store) Case() string {
	return filepath.Base(filepath.Clean(s.dir))
}

// InputPath returns the snapshot input path.
func (s *Store) InputPath() string {
	return filepath.Join(s.dir, InputFile)
}

// ExpectedPath returns the golden fixture path.
func (s *Store) ExpectedPath() string {
	return filepath.Join(s.dir, ExpectedFile)
}

// ActualPath returns the path of the freshly rendered audit.
func (s *Store) ActualPath() string {
	return filepath.Join(s.dir, ActualFile)
}

// ReadInput reads the raw snapshot bytes.
func (s *Store) ReadInput() ([]byte, error) {
	raw, err := os.ReadFile(s.InputPath())
	if err != nil {
		return nil, errors.Wrap(err, "read golden input")
	}
	return raw, nil
}

// Settle writes the actual artifact and either blesses the fixture or compares
// against it. The fixture is blessed when bless is set or when it does not exist yet.
func (s *Store) Settle(actual []byte, bless bool) (Result, error) {
	if !bless {
		exists, err := s.fixtureExists()
		if err != nil {
			return Result{}, err
		}
		bless = !exists
	}

	if bless {
		return s.bless(actual)
	}
	return s.verify(actual)
}

func (s *Store) bless(actual []byte) (Result, error) {
	var g errgroup.Group
	g.Go(func() error {
		return errors.Wrap(writeFileAtomic(s.ActualPath(), actual), "write actual audit")
	})
	g.Go(func() error {
		return errors.Wrap(writeFileAtomic(s.ExpectedPath(), actual), "write expected audit")
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		Verdict:    VerdictBlessed,
		MismatchAt: -1,
		Expected:   actual,
		Actual:     actual,
	}, nil
}

func (s *Store) verify(actual []byte) (Result, error) {
	var (
		g        errgroup.Group
		expected []byte
	)
	g.Go(func() error {
		return errors.Wrap(writeFileAtomic(s.ActualPath(), actual), "write actual audit")
	})
	g.Go(func() error {
		var err error
		expected, err = os.ReadFile(s.ExpectedPath())
		return errors.Wrap(err, "read expected audit")
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		Verdict:    VerdictPass,
		MismatchAt: -1,
		Expected:   expected,
		Actual:     actual,
	}
	if !bytes.Equal(expected, actual) {
		res.Verdict = VerdictFail
		res.MismatchAt = FirstMismatch(expected, actual)
	}

	return res, nil
}

func (s *Store) fixtureExists() (bool, error) {
	_, err := os.Stat(s.ExpectedPath())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrap(err, "stat expected audit")
}

// FirstMismatch returns the index of the first differing byte, the length of
// the shorter slice when one is a prefix of the other, or -1 when equal.
func FirstMismatch(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) == len(b) {
		return -1
	}
	return n
}

// writeFileAtomic writes via a temp file and rename so readers never see a partial fixture.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
