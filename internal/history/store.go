// Package history persists analysis reports as one keyed blob holding the ordered
// array of records, newest first.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"placement-readiness/internal/readiness"
	"placement-readiness/internal/shared/storage/object"
	"placement-readiness/internal/shared/telemetry"
)

// DefaultKey is the blob key used when none is configured.
const DefaultKey = "analysis_history"

const blobContentType = "application/json"

// EventKind names a history change.
type EventKind string

const (
	EventAppended EventKind = "appended"
	EventUpdated  EventKind = "updated"
	EventCleared  EventKind = "cleared"
	EventDropped  EventKind = "dropped"
)

// Event describes a change. Count is the number of records removed for cleared
// and dropped events.
type Event struct {
	Kind     EventKind
	ReportID string
	Count    int
}

// Store is the report history. It is safe for concurrent use; every
// read-modify-write cycle on the blob is serialized.
type Store struct {
	blobs object.Store
	key   string
	now   func() time.Time

	mu sync.Mutex

	obsMu     sync.Mutex
	observers map[int]func(Event)
	nextObs   int
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides the blob key.
func WithKey(key string) Option {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = strings.TrimSpace(key)
		}
	}
}

// WithClock overrides the source of updatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore constructs a Store over blobs.
func NewStore(blobs object.Store, opts ...Option) *Store {
	s := &Store{
		blobs:     blobs,
		key:       DefaultKey,
		now:       func() time.Time { return time.Now().UTC() },
		observers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every change and returns a func that removes it.
// Observers run synchronously after the store lock is released.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

// Append stores report as the newest entry. A report whose id already exists
// replaces the stored one in place.
func (s *Store) Append(ctx context.Context, report readiness.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(report.ID) == "" || report.CreatedAt.IsZero() {
		return ErrInvalidReport
	}

	events, err := func() ([]Event, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		reports, events, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		stored := report.Clone()
		replaced := false
		for i := range reports {
			if reports[i].ID == stored.ID {
				reports[i] = stored
				replaced = true
				break
			}
		}
		if !replaced {
			reports = append([]readiness.Report{stored}, reports...)
		}
		if err := s.save(ctx, reports); err != nil {
			return nil, err
		}
		return append(events, Event{Kind: EventAppended, ReportID: stored.ID}), nil
	}()
	if err != nil {
		return err
	}
	s.notify(events)
	return nil
}

// List returns every valid report, newest first. Records that fail shape
// validation are skipped and a malformed blob reads as an empty history.
func (s *Store) List(ctx context.Context) ([]readiness.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	reports, events, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify(events)
	return reports, nil
}

// GetByID returns the report with id or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (readiness.Report, error) {
	reports, err := s.List(ctx)
	if err != nil {
		return readiness.Report{}, err
	}
	for _, r := range reports {
		if r.ID == id {
			return r, nil
		}
	}
	return readiness.Report{}, ErrNotFound
}

// UpdateConfidence sets the status of one skill, recomputes liveScore from
// baseScore, bumps updatedAt and returns the stored snapshot.
func (s *Store) UpdateConfidence(ctx context.Context, id, skill string, status readiness.Confidence) (readiness.Report, error) {
	if !status.Valid() {
		return readiness.Report{}, ErrInvalidConfidence
	}
	return s.mutate(ctx, id, skill, func(readiness.Confidence) readiness.Confidence {
		return status
	})
}

// ToggleSkill flips the status of one skill. A skill without a status counts as
// needing practice, so its first toggle marks it known.
func (s *Store) ToggleSkill(ctx context.Context, id, skill string) (readiness.Report, error) {
	return s.mutate(ctx, id, skill, readiness.Confidence.Flip)
}

func (s *Store) mutate(ctx context.Context, id, skill string, next func(readiness.Confidence) readiness.Confidence) (readiness.Report, error) {
	if err := ctx.Err(); err != nil {
		return readiness.Report{}, err
	}

	var updated readiness.Report
	events, err := func() ([]Event, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		reports, events, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		idx := -1
		for i := range reports {
			if reports[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return events, ErrNotFound
		}

		report := reports[idx]
		if !containsSkill(report.ExtractedSkills, skill) {
			return events, ErrUnknownSkill
		}
		confidence := readiness.DefaultConfidence(report.ExtractedSkills, report.SkillConfidenceMap)
		confidence[skill] = next(confidence[skill])
		report.SkillConfidenceMap = confidence
		report.LiveScore = readiness.LiveScore(report.BaseScore, report.ExtractedSkills, confidence)
		report.UpdatedAt = s.now().UTC()
		reports[idx] = report

		if err := s.save(ctx, reports); err != nil {
			return nil, err
		}
		updated = report.Clone()
		return append(events, Event{Kind: EventUpdated, ReportID: id}), nil
	}()
	s.notify(events)
	if err != nil {
		return readiness.Report{}, err
	}
	return updated, nil
}

// ClearAll removes every report. It cannot be undone.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	events, err := func() ([]Event, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		reports, events, err := s.load(ctx)
		if err != nil {
			telemetry.Warn("history.clear_load_failed", map[string]any{
				"key":   s.key,
				"error": err.Error(),
			})
			events = nil
		}
		if err := s.blobs.Delete(ctx, s.key); err != nil {
			return nil, fmt.Errorf("clear history: %w: %w", ErrStorage, err)
		}
		return append(events, Event{Kind: EventCleared, Count: len(reports)}), nil
	}()
	if err != nil {
		return err
	}
	s.notify(events)
	return nil
}

// load reads and decodes the blob. The caller must hold s.mu.
func (s *Store) load(ctx context.Context) ([]readiness.Report, []Event, error) {
	data, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, object.ErrNotExist) {
			return []readiness.Report{}, nil, nil
		}
		return nil, nil, fmt.Errorf("read history: %w: %w", ErrStorage, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		telemetry.Warn("history.blob_malformed", map[string]any{
			"key":   s.key,
			"bytes": len(data),
			"error": err.Error(),
		})
		return []readiness.Report{}, nil, nil
	}

	reports := make([]readiness.Report, 0, len(raw))
	var dropped []int
	for i, item := range raw {
		report, ok := decodeRecord(item)
		if !ok {
			dropped = append(dropped, i)
			continue
		}
		reports = append(reports, report)
	}
	if len(dropped) == 0 {
		return reports, nil, nil
	}

	telemetry.Warn("history.records_dropped", map[string]any{
		"key":       s.key,
		"count":     len(dropped),
		"positions": describeDropped(dropped),
	})
	return reports, []Event{{Kind: EventDropped, Count: len(dropped)}}, nil
}

// save writes the whole history. The caller must hold s.mu.
func (s *Store) save(ctx context.Context, reports []readiness.Report) error {
	data, err := encodeRecords(reports)
	if err != nil {
		return err
	}
	if err := s.blobs.Put(ctx, s.key, blobContentType, data); err != nil {
		return fmt.Errorf("write history: %w: %w", ErrStorage, err)
	}
	return nil
}

func (s *Store) notify(events []Event) {
	if len(events) == 0 {
		return
	}
	s.obsMu.Lock()
	observers := make([]func(Event), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()

	for _, ev := range events {
		for _, fn := range observers {
			fn(ev)
		}
	}
}

func containsSkill(skills readiness.ExtractedSkills, skill string) bool {
	for _, category := range skills.Categories() {
		for _, s := range skills[category] {
			if s == skill {
				return true
			}
		}
	}
	return false
}
