package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/doclane/revflow/pkg/cmd"
	"github.com/doclane/revflow/pkg/log"
	"github.com/doclane/revflow/pkg/models"
)

// SeedFile is the on-disk format for vocabulary seeds. All three catalogs are
// optional; absent ones are left untouched.
type SeedFile struct {
	RevisionDescriptions []*models.RevisionDescription `json:"revision_descriptions"`
	RevisionSteps        []*models.RevisionStep        `json:"revision_steps"`
	ReviewCodes          []*models.ReviewCode          `json:"review_codes"`
}

func loadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for _, entry := range seed.RevisionDescriptions {
		if entry.Code == "" {
			return nil, fmt.Errorf("revision description %q has no code", entry.ID)
		}

		if entry.ID == "" {
			entry.ID = newEntryID()
		}
	}

	for _, entry := range seed.RevisionSteps {
		if entry.Code == "" {
			return nil, fmt.Errorf("revision step %q has no code", entry.ID)
		}

		if entry.ID == "" {
			entry.ID = newEntryID()
		}
	}

	for _, entry := range seed.ReviewCodes {
		if entry.Code == "" {
			return nil, fmt.Errorf("review code %q has no code", entry.ID)
		}

		if entry.ID == "" {
			entry.ID = newEntryID()
		}
	}

	return &seed, nil
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

func seedVocabulary(ctx context.Context, databaseURL, path string) error {
	logger := log.WithModule("seed")

	seed, err := loadSeedFile(path)
	if err != nil {
		return err
	}

	persistence, err := cmd.NewPersistence(ctx, logger, databaseURL)
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	repo := persistence.VocabularyRepository()

	for _, entry := range seed.RevisionDescriptions {
		if err := repo.SaveRevisionDescription(ctx, entry); err != nil {
			return fmt.Errorf("failed to save revision description %s: %w", entry.Code, err)
		}
	}

	for _, entry := range seed.RevisionSteps {
		if err := repo.SaveRevisionStep(ctx, entry); err != nil {
			return fmt.Errorf("failed to save revision step %s: %w", entry.Code, err)
		}
	}

	for _, entry := range seed.ReviewCodes {
		if err := repo.SaveReviewCode(ctx, entry); err != nil {
			return fmt.Errorf("failed to save review code %s: %w", entry.Code, err)
		}
	}

	logger.InfoContext(ctx, "Vocabulary seeded",
		"revision_descriptions", len(seed.RevisionDescriptions),
		"revision_steps", len(seed.RevisionSteps),
		"review_codes", len(seed.ReviewCodes),
	)

	return nil
}
