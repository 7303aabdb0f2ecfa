package runs

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/vojker/internal/domain"
)

const (
	DefaultDir   = "./wal/runs"
	segmentLimit = 100
	maxSegments  = 10

	runKeyPrefix = "run_"
)

// ErrNotInitialized returned when the store was not opened.
var ErrNotInitialized = errors.New("run journal is not initialized")

// WALStore persists run events in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed run journal.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "run_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init run WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the run event to the WAL.
func (s *WALStore) Save(event domain.RunEvent) error {
	if s == nil || s.wal == nil {
		return ErrNotInitialized
	}
	if event.Case == "" {
		return errors.Errorf("run event case is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal run event")
	}

	key := runKeyPrefix + event.Case

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EventsAfter returns all run events written after the provided WAL index.
func (s *WALStore) EventsAfter(index uint64) ([]domain.RunEventRecord, error) {
	if s == nil || s.wal == nil {
		return nil, ErrNotInitialized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.RunEventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(key, runKeyPrefix) {
			continue
		}

		var event domain.RunEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode run event")
		}
		records = append(records, domain.RunEventRecord{Index: idx, Event: event})
	}

	return records, nil
}

// LastForCase returns the most recent event recorded for the case.
func (s *WALStore) LastForCase(caseName string) (domain.RunEventRecord, bool, error) {
	records, err := s.EventsAfter(0)
	if err != nil {
		return domain.RunEventRecord{}, false, err
	}

	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Event.Case == caseName {
			return records[i], true, nil
		}
	}

	return domain.RunEventRecord{}, false, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return ErrNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
