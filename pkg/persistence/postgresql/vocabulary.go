package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/doclane/revflow/pkg/models"
)

// VocabularyRepository handles vocabulary catalog database operations. The
// three catalogs share one schema, so queries are built per table name from a
// fixed set.
type VocabularyRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewVocabularyRepository creates a new vocabulary repository.
func NewVocabularyRepository(db *sql.DB, logger *slog.Logger) *VocabularyRepository {
	return &VocabularyRepository{db: db, logger: logger}
}

type catalogEntry struct {
	ID          string
	Code        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// RevisionDescriptions returns all revision description entries.
func (r *VocabularyRepository) RevisionDescriptions(ctx context.Context) ([]*models.RevisionDescription, error) {
	rows, err := r.listCatalog(ctx, "revision_descriptions")
	if err != nil {
		return nil, err
	}

	entries := make([]*models.RevisionDescription, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &models.RevisionDescription{
			ID:          row.ID,
			Code:        row.Code,
			Description: row.Description,
			IsActive:    row.IsActive,
			CreatedAt:   row.CreatedAt,
		})
	}

	return entries, nil
}

// RevisionSteps returns all revision step entries.
func (r *VocabularyRepository) RevisionSteps(ctx context.Context) ([]*models.RevisionStep, error) {
	rows, err := r.listCatalog(ctx, "revision_steps")
	if err != nil {
		return nil, err
	}

	entries := make([]*models.RevisionStep, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &models.RevisionStep{
			ID:          row.ID,
			Code:        row.Code,
			Description: row.Description,
			IsActive:    row.IsActive,
			CreatedAt:   row.CreatedAt,
		})
	}

	return entries, nil
}

// ReviewCodes returns all review code entries.
func (r *VocabularyRepository) ReviewCodes(ctx context.Context) ([]*models.ReviewCode, error) {
	rows, err := r.listCatalog(ctx, "review_codes")
	if err != nil {
		return nil, err
	}

	entries := make([]*models.ReviewCode, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &models.ReviewCode{
			ID:          row.ID,
			Code:        row.Code,
			Description: row.Description,
			IsActive:    row.IsActive,
			CreatedAt:   row.CreatedAt,
		})
	}

	return entries, nil
}

// SaveRevisionDescription upserts one revision description entry by id.
func (r *VocabularyRepository) SaveRevisionDescription(ctx context.Context, entry *models.RevisionDescription) error {
	return r.saveCatalogEntry(ctx, "revision_descriptions", catalogEntry{
		ID:          entry.ID,
		Code:        entry.Code,
		Description: entry.Description,
		IsActive:    entry.IsActive,
		CreatedAt:   entry.CreatedAt,
	})
}

// SaveRevisionStep upserts one revision step entry by id.
func (r *VocabularyRepository) SaveRevisionStep(ctx context.Context, entry *models.RevisionStep) error {
	return r.saveCatalogEntry(ctx, "revision_steps", catalogEntry{
		ID:          entry.ID,
		Code:        entry.Code,
		Description: entry.Description,
		IsActive:    entry.IsActive,
		CreatedAt:   entry.CreatedAt,
	})
}

// SaveReviewCode upserts one review code entry by id.
func (r *VocabularyRepository) SaveReviewCode(ctx context.Context, entry *models.ReviewCode) error {
	return r.saveCatalogEntry(ctx, "review_codes", catalogEntry{
		ID:          entry.ID,
		Code:        entry.Code,
		Description: entry.Description,
		IsActive:    entry.IsActive,
		CreatedAt:   entry.CreatedAt,
	})
}

func (r *VocabularyRepository) listCatalog(ctx context.Context, table string) ([]catalogEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, code, description, is_active, created_at
		FROM %s
		ORDER BY code
	`, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	var entries []catalogEntry

	for rows.Next() {
		var entry catalogEntry

		err := rows.Scan(&entry.ID, &entry.Code, &entry.Description, &entry.IsActive, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", table, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	return entries, nil
}

func (r *VocabularyRepository) saveCatalogEntry(ctx context.Context, table string, entry catalogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, code, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			description = EXCLUDED.description,
			is_active = EXCLUDED.is_active
	`, table)

	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.Code, entry.Description, entry.IsActive, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save %s entry: %w", table, err)
	}

	return nil
}
