package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
)

// PresetRepository handles workflow preset database operations.
type PresetRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPresetRepository creates a new preset repository.
func NewPresetRepository(db *sql.DB, logger *slog.Logger) *PresetRepository {
	return &PresetRepository{db: db, logger: logger}
}

// List returns presets matching the options, newest first.
func (r *PresetRepository) List(ctx context.Context, opts persistence.ListPresetsOptions) ([]*models.WorkflowPreset, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , is_global
		  , created_by
		  , created_at
		  , updated_at
		  , deleted_at
		FROM workflow_presets
		WHERE deleted_at IS NULL
	`

	args := make([]any, 0, 2)

	switch opts.Scope {
	case persistence.ScopeGlobal:
		query += " AND is_global = TRUE"
	case persistence.ScopeProject:
		query += " AND is_global = FALSE"
	case persistence.ScopeAll:
	}

	if opts.CreatedBy != "" {
		args = append(args, opts.CreatedBy)
		query += fmt.Sprintf(" AND (is_global = TRUE OR created_by = $%d)", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	presets := make([]*models.WorkflowPreset, 0)

	for rows.Next() {
		preset, err := r.scanPresetBase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}

		err = r.loadSequencesAndRules(ctx, preset)
		if err != nil {
			return nil, fmt.Errorf("failed to load preset sequences and rules: %w", err)
		}

		presets = append(presets, preset)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating presets: %w", err)
	}

	return presets, nil
}

// GetByID loads a preset by id, returning (nil, nil) when absent.
func (r *PresetRepository) GetByID(ctx context.Context, id string) (*models.WorkflowPreset, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , is_global
		  , created_by
		  , created_at
		  , updated_at
		  , deleted_at
		FROM workflow_presets
		WHERE id = $1 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, id)

	preset, err := r.scanPresetBase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, persistence.NewPresetError("GetByID", id, err)
	}

	if err := r.loadSequencesAndRules(ctx, preset); err != nil {
		return nil, persistence.NewPresetError("GetByID", id, err)
	}

	return preset, nil
}

// GetByName finds a preset by name within one scope, (nil, nil) when absent.
func (r *PresetRepository) GetByName(ctx context.Context, name string, isGlobal bool) (*models.WorkflowPreset, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , is_global
		  , created_by
		  , created_at
		  , updated_at
		  , deleted_at
		FROM workflow_presets
		WHERE name = $1 AND is_global = $2 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, name, isGlobal)

	preset, err := r.scanPresetBase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan preset: %w", err)
	}

	if err := r.loadSequencesAndRules(ctx, preset); err != nil {
		return nil, persistence.NewPresetError("GetByName", preset.ID, err)
	}

	return preset, nil
}

// Save upserts the preset row and replaces its sequences and rules.
func (r *PresetRepository) Save(ctx context.Context, preset *models.WorkflowPreset) error {
	now := time.Now().UTC()

	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = now
	}

	preset.UpdatedAt = now

	if preset.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewPresetError("Save", "", err)
		}

		preset.ID = id.String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence.NewPresetError("Save", preset.ID, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	presetQuery := `
		INSERT INTO workflow_presets (id, name, description, is_global, created_by, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			is_global = EXCLUDED.is_global,
			created_by = EXCLUDED.created_by,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err = tx.ExecContext(ctx, presetQuery,
		preset.ID,
		preset.Name,
		preset.Description,
		preset.IsGlobal,
		preset.CreatedBy,
		preset.CreatedAt,
		preset.UpdatedAt,
		preset.DeletedAt,
	)
	if err != nil {
		return persistence.NewPresetError("Save", preset.ID, fmt.Errorf("failed to save preset base: %w", err))
	}

	// Sequences and rules are replaced wholesale on every save
	_, err = tx.ExecContext(ctx, "DELETE FROM preset_rules WHERE preset_id = $1", preset.ID)
	if err != nil {
		return persistence.NewPresetError("Save", preset.ID, fmt.Errorf("failed to delete existing rules: %w", err))
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM preset_sequences WHERE preset_id = $1", preset.ID)
	if err != nil {
		return persistence.NewPresetError("Save", preset.ID, fmt.Errorf("failed to delete existing sequences: %w", err))
	}

	if err = r.saveSequences(ctx, tx, preset); err != nil {
		return persistence.NewPresetError("Save", preset.ID, err)
	}

	if err = r.saveRules(ctx, tx, preset); err != nil {
		return persistence.NewPresetError("Save", preset.ID, err)
	}

	if err = tx.Commit(); err != nil {
		return persistence.NewPresetError("Save", preset.ID, fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// Delete soft deletes a preset by setting the deleted_at timestamp.
func (r *PresetRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE workflow_presets SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return persistence.NewPresetError("Delete", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewPresetError("Delete", id, err)
	}

	if rowsAffected == 0 {
		return persistence.NewPresetError("Delete", id, persistence.ErrPresetNotFound)
	}

	return nil
}

func (r *PresetRepository) saveSequences(ctx context.Context, tx *sql.Tx, preset *models.WorkflowPreset) error {
	query := `
		INSERT INTO preset_sequences (preset_id, position, revision_description_id, revision_step_id, is_final, requires_transmittal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for position, sequence := range preset.Sequences {
		_, err := tx.ExecContext(ctx, query,
			preset.ID,
			position,
			sequence.RevisionDescriptionID,
			sequence.RevisionStepID,
			sequence.IsFinal,
			sequence.RequiresTransmittal,
		)
		if err != nil {
			return fmt.Errorf("failed to save sequence %d: %w", position, err)
		}
	}

	return nil
}

func (r *PresetRepository) saveRules(ctx context.Context, tx *sql.Tx, preset *models.WorkflowPreset) error {
	query := `
		INSERT INTO preset_rules (preset_id, position, current_revision_description_id, current_revision_step_id,
			operator, review_code_ids, next_revision_description_id, next_revision_step_id, action_on_fail, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for position, rule := range preset.Rules {
		reviewCodesJSON, err := json.Marshal(rule.ReviewCodeIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal review codes for rule %d: %w", position, err)
		}

		_, err = tx.ExecContext(ctx, query,
			preset.ID,
			position,
			rule.CurrentRevisionDescriptionID,
			rule.CurrentRevisionStepID,
			rule.Operator,
			reviewCodesJSON,
			rule.NextRevisionDescriptionID,
			rule.NextRevisionStepID,
			rule.Fallback(),
			rule.Priority,
		)
		if err != nil {
			return fmt.Errorf("failed to save rule %d: %w", position, err)
		}
	}

	return nil
}

func (r *PresetRepository) loadSequencesAndRules(ctx context.Context, preset *models.WorkflowPreset) error {
	sequencesQuery := `
		SELECT revision_description_id, revision_step_id, is_final, requires_transmittal
		FROM preset_sequences
		WHERE preset_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, sequencesQuery, preset.ID)
	if err != nil {
		return fmt.Errorf("failed to query preset sequences: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	var sequences []*models.Sequence

	for rows.Next() {
		var sequence models.Sequence

		err := rows.Scan(
			&sequence.RevisionDescriptionID,
			&sequence.RevisionStepID,
			&sequence.IsFinal,
			&sequence.RequiresTransmittal,
		)
		if err != nil {
			return fmt.Errorf("failed to scan sequence: %w", err)
		}

		sequences = append(sequences, &sequence)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating sequences: %w", err)
	}

	preset.Sequences = sequences

	rulesQuery := `
		SELECT current_revision_description_id, current_revision_step_id, operator, review_code_ids,
			next_revision_description_id, next_revision_step_id, action_on_fail, priority
		FROM preset_rules
		WHERE preset_id = $1
		ORDER BY position
	`

	ruleRows, err := r.db.QueryContext(ctx, rulesQuery, preset.ID)
	if err != nil {
		return fmt.Errorf("failed to query preset rules: %w", err)
	}

	defer func() {
		err := ruleRows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	var rules []*models.Rule

	for ruleRows.Next() {
		var (
			rule            models.Rule
			reviewCodesJSON []byte
		)

		err := ruleRows.Scan(
			&rule.CurrentRevisionDescriptionID,
			&rule.CurrentRevisionStepID,
			&rule.Operator,
			&reviewCodesJSON,
			&rule.NextRevisionDescriptionID,
			&rule.NextRevisionStepID,
			&rule.ActionOnFail,
			&rule.Priority,
		)
		if err != nil {
			return fmt.Errorf("failed to scan rule: %w", err)
		}

		if reviewCodesJSON != nil {
			err := json.Unmarshal(reviewCodesJSON, &rule.ReviewCodeIDs)
			if err != nil {
				return fmt.Errorf("failed to unmarshal rule review codes: %w", err)
			}
		}

		rules = append(rules, &rule)
	}

	if err := ruleRows.Err(); err != nil {
		return fmt.Errorf("error iterating rules: %w", err)
	}

	preset.Rules = rules

	return nil
}

func (r *PresetRepository) scanPresetBase(scanner interface {
	Scan(dest ...any) error
}) (*models.WorkflowPreset, error) {
	var (
		preset    models.WorkflowPreset
		createdBy sql.NullString
	)

	err := scanner.Scan(
		&preset.ID,
		&preset.Name,
		&preset.Description,
		&preset.IsGlobal,
		&createdBy,
		&preset.CreatedAt,
		&preset.UpdatedAt,
		&preset.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	preset.CreatedBy = createdBy.String

	return &preset, nil
}
