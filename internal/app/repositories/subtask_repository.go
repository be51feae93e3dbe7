package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/thesisdesk/internal/app/models"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
	"github.com/kerem/thesisdesk/internal/pkg/logger"
)

// SubtaskRepository handles database operations for subtasks
type SubtaskRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubtaskRepository creates a new SubtaskRepository
func NewSubtaskRepository(db *pgxpool.Pool) *SubtaskRepository {
	return &SubtaskRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var subtaskColumns = []string{"id", "thesis_id", "week", "description", "file_name", "submitted"}

func scanSubtask(row pgx.Row) (*models.Subtask, error) {
	var s models.Subtask
	err := row.Scan(&s.ID, &s.ThesisID, &s.Week, &s.Description, &s.FileName, &s.Submitted)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByThesis retrieves all subtasks of a thesis ordered by week
func (r *SubtaskRepository) ListByThesis(ctx context.Context, thesisID int64) ([]models.Subtask, error) {
	sql, args, err := r.sb.Select(subtaskColumns...).
		From("subtasks").
		Where(squirrel.Eq{"thesis_id": thesisID}).
		OrderBy("week", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subtasks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("thesisID", thesisID).Msg("Error executing list subtasks query")
		return nil, fmt.Errorf("error listing subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []models.Subtask
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subtask row: %w", err)
		}
		subtasks = append(subtasks, *s)
	}

	return subtasks, rows.Err()
}

// ListByTheses retrieves the subtasks of several theses at once, grouped by
// thesis id. Used by the list endpoints to avoid a query per thesis.
func (r *SubtaskRepository) ListByTheses(ctx context.Context, thesisIDs []int64) (map[int64][]models.Subtask, error) {
	grouped := make(map[int64][]models.Subtask, len(thesisIDs))
	if len(thesisIDs) == 0 {
		return grouped, nil
	}

	sql, args, err := r.sb.Select(subtaskColumns...).
		From("subtasks").
		Where(squirrel.Eq{"thesis_id": thesisIDs}).
		OrderBy("thesis_id", "week", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subtasks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list subtasks query")
		return nil, fmt.Errorf("error listing subtasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subtask row: %w", err)
		}
		grouped[s.ThesisID] = append(grouped[s.ThesisID], *s)
	}

	return grouped, rows.Err()
}

// GetOwned retrieves a subtask only if its parent thesis is assigned to the
// given student.
func (r *SubtaskRepository) GetOwned(ctx context.Context, subtaskID, studentID int64) (*models.Subtask, error) {
	sql, args, err := r.sb.Select(prefixColumns("s", subtaskColumns)...).
		From("subtasks s").
		Join("theses t ON s.thesis_id = t.id").
		Where(squirrel.Eq{"s.id": subtaskID, "t.requested_by": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subtask query: %w", err)
	}

	subtask, err := scanSubtask(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubtaskNotFound
		}
		logger.Error().Err(err).Int64("subtaskID", subtaskID).Msg("Error scanning subtask row")
		return nil, fmt.Errorf("error getting subtask: %w", err)
	}

	return subtask, nil
}

// UpdateSubmission records a subtask file upload. Like the thesis variant it
// doubles as the compensating revert on a failed file move.
func (r *SubtaskRepository) UpdateSubmission(ctx context.Context, subtaskID int64, fileName *string, submitted bool) (*models.Subtask, error) {
	sql, args, err := r.sb.Update("subtasks").
		Set("file_name", fileName).
		Set("submitted", submitted).
		Where(squirrel.Eq{"id": subtaskID}).
		Suffix("RETURNING " + joinColumns(subtaskColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build subtask submission query: %w", err)
	}

	subtask, err := scanSubtask(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubtaskNotFound
		}
		logger.Error().Err(err).Int64("subtaskID", subtaskID).Msg("Error executing subtask submission query")
		return nil, fmt.Errorf("error recording subtask submission: %w", err)
	}

	return subtask, nil
}
