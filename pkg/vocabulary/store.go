// Package vocabulary provides an in-memory view of the reference catalogs.
// The engine resolves revision descriptions, revision steps and review codes
// against an immutable snapshot that is refreshed from persistence in the
// background.
package vocabulary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
)

// Snapshot is an immutable view of the three catalogs. Lookups are by id;
// code lookups serve import resolution where documents reference entries by
// their human-readable code.
type Snapshot struct {
	descriptionsByID   map[string]*models.RevisionDescription
	descriptionsByCode map[string]*models.RevisionDescription
	stepsByID          map[string]*models.RevisionStep
	stepsByCode        map[string]*models.RevisionStep
	reviewCodesByID    map[string]*models.ReviewCode
	reviewCodesByCode  map[string]*models.ReviewCode

	descriptions []*models.RevisionDescription
	steps        []*models.RevisionStep
	reviewCodes  []*models.ReviewCode
}

// NewSnapshot builds a snapshot from catalog entries.
func NewSnapshot(
	descriptions []*models.RevisionDescription,
	steps []*models.RevisionStep,
	reviewCodes []*models.ReviewCode,
) *Snapshot {
	snapshot := &Snapshot{
		descriptionsByID:   make(map[string]*models.RevisionDescription, len(descriptions)),
		descriptionsByCode: make(map[string]*models.RevisionDescription, len(descriptions)),
		stepsByID:          make(map[string]*models.RevisionStep, len(steps)),
		stepsByCode:        make(map[string]*models.RevisionStep, len(steps)),
		reviewCodesByID:    make(map[string]*models.ReviewCode, len(reviewCodes)),
		reviewCodesByCode:  make(map[string]*models.ReviewCode, len(reviewCodes)),
		descriptions:       descriptions,
		steps:              steps,
		reviewCodes:        reviewCodes,
	}

	for _, entry := range descriptions {
		snapshot.descriptionsByID[entry.ID] = entry
		snapshot.descriptionsByCode[entry.Code] = entry
	}

	for _, entry := range steps {
		snapshot.stepsByID[entry.ID] = entry
		snapshot.stepsByCode[entry.Code] = entry
	}

	for _, entry := range reviewCodes {
		snapshot.reviewCodesByID[entry.ID] = entry
		snapshot.reviewCodesByCode[entry.Code] = entry
	}

	return snapshot
}

// RevisionDescriptions returns all entries, active or not.
func (s *Snapshot) RevisionDescriptions() []*models.RevisionDescription {
	return s.descriptions
}

// RevisionSteps returns all entries, active or not.
func (s *Snapshot) RevisionSteps() []*models.RevisionStep {
	return s.steps
}

// ReviewCodes returns all entries, active or not.
func (s *Snapshot) ReviewCodes() []*models.ReviewCode {
	return s.reviewCodes
}

// RevisionDescriptionByID looks up a revision description by id.
func (s *Snapshot) RevisionDescriptionByID(id string) (*models.RevisionDescription, bool) {
	entry, ok := s.descriptionsByID[id]

	return entry, ok
}

// RevisionDescriptionByCode looks up a revision description by code.
func (s *Snapshot) RevisionDescriptionByCode(code string) (*models.RevisionDescription, bool) {
	entry, ok := s.descriptionsByCode[code]

	return entry, ok
}

// RevisionStepByID looks up a revision step by id.
func (s *Snapshot) RevisionStepByID(id string) (*models.RevisionStep, bool) {
	entry, ok := s.stepsByID[id]

	return entry, ok
}

// RevisionStepByCode looks up a revision step by code.
func (s *Snapshot) RevisionStepByCode(code string) (*models.RevisionStep, bool) {
	entry, ok := s.stepsByCode[code]

	return entry, ok
}

// ReviewCodeByID looks up a review code by id.
func (s *Snapshot) ReviewCodeByID(id string) (*models.ReviewCode, bool) {
	entry, ok := s.reviewCodesByID[id]

	return entry, ok
}

// ReviewCodeByCode looks up a review code by code.
func (s *Snapshot) ReviewCodeByCode(code string) (*models.ReviewCode, bool) {
	entry, ok := s.reviewCodesByCode[code]

	return entry, ok
}

// ActiveRevisionDescriptions returns revision descriptions still offered to
// preset authors. Inactive entries stay in the snapshot for lookups on
// historical presets.
func (s *Snapshot) ActiveRevisionDescriptions() []*models.RevisionDescription {
	active := make([]*models.RevisionDescription, 0, len(s.descriptions))

	for _, entry := range s.descriptions {
		if entry.IsActive {
			active = append(active, entry)
		}
	}

	return active
}

// ActiveRevisionSteps returns revision steps still offered to preset authors.
func (s *Snapshot) ActiveRevisionSteps() []*models.RevisionStep {
	active := make([]*models.RevisionStep, 0, len(s.steps))

	for _, entry := range s.steps {
		if entry.IsActive {
			active = append(active, entry)
		}
	}

	return active
}

// ActiveReviewCodes returns review codes still accepted for new decisions.
func (s *Snapshot) ActiveReviewCodes() []*models.ReviewCode {
	active := make([]*models.ReviewCode, 0, len(s.reviewCodes))

	for _, entry := range s.reviewCodes {
		if entry.IsActive {
			active = append(active, entry)
		}
	}

	return active
}

// Store holds the current catalog snapshot and swaps it atomically on
// refresh. Readers never block refreshes for long; they only take the read
// lock to grab the pointer.
type Store struct {
	mu       sync.RWMutex
	snapshot *Snapshot

	repo   persistence.VocabularyRepository
	logger *slog.Logger
}

// NewStore creates an empty store backed by the given repository. Call
// Refresh before serving lookups.
func NewStore(repo persistence.VocabularyRepository, logger *slog.Logger) *Store {
	return &Store{
		snapshot: NewSnapshot(nil, nil, nil),
		repo:     repo,
		logger:   logger,
	}
}

// Snapshot returns the current catalog snapshot.
func (st *Store) Snapshot() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.snapshot
}

// Refresh reloads all three catalogs from persistence and swaps the
// snapshot. On error the previous snapshot stays in place.
func (st *Store) Refresh(ctx context.Context) error {
	descriptions, err := st.repo.RevisionDescriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load revision descriptions: %w", err)
	}

	steps, err := st.repo.RevisionSteps(ctx)
	if err != nil {
		return fmt.Errorf("failed to load revision steps: %w", err)
	}

	reviewCodes, err := st.repo.ReviewCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load review codes: %w", err)
	}

	snapshot := NewSnapshot(descriptions, steps, reviewCodes)

	st.mu.Lock()
	st.snapshot = snapshot
	st.mu.Unlock()

	st.logger.InfoContext(ctx, "Vocabulary snapshot refreshed",
		"revision_descriptions", len(descriptions),
		"revision_steps", len(steps),
		"review_codes", len(reviewCodes),
	)

	return nil
}
