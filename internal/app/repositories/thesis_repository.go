package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/thesisdesk/internal/app/models"
	"github.com/kerem/thesisdesk/internal/db"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
	"github.com/kerem/thesisdesk/internal/pkg/logger"
)

// thesisColumns is the canonical column list for scanning a thesis row
var thesisColumns = []string{
	"id", "title", "description", "request_due_date", "thesis_due_date",
	"added_by", "requested_by", "approved", "submitted", "file_name", "last_update", "created_at",
}

// ThesisWithStudent is a thesis joined with the requesting student's username
type ThesisWithStudent struct {
	models.Thesis
	StudentName *string
}

// ThesisRepository handles database operations for theses
type ThesisRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewThesisRepository creates a new ThesisRepository
func NewThesisRepository(db *pgxpool.Pool) *ThesisRepository {
	return &ThesisRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanThesis(row pgx.Row) (*models.Thesis, error) {
	var t models.Thesis
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.RequestDueDate, &t.ThesisDueDate,
		&t.AddedBy, &t.RequestedBy, &t.Approved, &t.Submitted, &t.FileName, &t.LastUpdate, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a thesis together with its subtasks in one transaction.
// The created thesis and subtasks are returned with their ids filled in.
func (r *ThesisRepository) Create(ctx context.Context, thesis *models.Thesis, subtasks []models.Subtask) (*models.Thesis, []models.Subtask, error) {
	var created *models.Thesis
	createdSubtasks := make([]models.Subtask, 0, len(subtasks))

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("theses").
			Columns("title", "description", "request_due_date", "thesis_due_date", "added_by").
			Values(thesis.Title, thesis.Description, thesis.RequestDueDate, thesis.ThesisDueDate, thesis.AddedBy).
			Suffix("RETURNING " + joinColumns(thesisColumns)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create thesis query: %w", err)
		}

		created, err = scanThesis(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			logger.Error().Err(err).Str("title", thesis.Title).Msg("Error executing create thesis query")
			return fmt.Errorf("error creating thesis: %w", err)
		}

		for _, st := range subtasks {
			sql, args, err := r.sb.Insert("subtasks").
				Columns("thesis_id", "week", "description").
				Values(created.ID, st.Week, st.Description).
				Suffix("RETURNING id, thesis_id, week, description, file_name, submitted").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build create subtask query: %w", err)
			}

			var sub models.Subtask
			err = tx.QueryRow(ctx, sql, args...).Scan(
				&sub.ID, &sub.ThesisID, &sub.Week, &sub.Description, &sub.FileName, &sub.Submitted,
			)
			if err != nil {
				logger.Error().Err(err).Int64("thesisID", created.ID).Msg("Error executing create subtask query")
				return fmt.Errorf("error creating subtask: %w", err)
			}
			createdSubtasks = append(createdSubtasks, sub)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return created, createdSubtasks, nil
}

// GetByID retrieves a thesis by id
func (r *ThesisRepository) GetByID(ctx context.Context, id int64) (*models.Thesis, error) {
	sql, args, err := r.sb.Select(thesisColumns...).
		From("theses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get thesis query: %w", err)
	}

	thesis, err := scanThesis(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThesisNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning thesis row")
		return nil, fmt.Errorf("error getting thesis: %w", err)
	}

	return thesis, nil
}

// GetWithStudent retrieves a thesis joined with the requesting student's username
func (r *ThesisRepository) GetWithStudent(ctx context.Context, id int64) (*ThesisWithStudent, error) {
	sql, args, err := r.sb.Select(prefixColumns("t", thesisColumns)...).
		Column("u.username").
		From("theses t").
		LeftJoin("users u ON t.requested_by = u.id").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get thesis query: %w", err)
	}

	var t ThesisWithStudent
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&t.ID, &t.Title, &t.Description, &t.RequestDueDate, &t.ThesisDueDate,
		&t.AddedBy, &t.RequestedBy, &t.Approved, &t.Submitted, &t.FileName, &t.LastUpdate, &t.CreatedAt,
		&t.StudentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThesisNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning thesis row")
		return nil, fmt.Errorf("error getting thesis: %w", err)
	}

	return &t, nil
}

// ListAll retrieves all theses with the requesting student's username
func (r *ThesisRepository) ListAll(ctx context.Context) ([]ThesisWithStudent, error) {
	sql, args, err := r.sb.Select(prefixColumns("t", thesisColumns)...).
		Column("u.username").
		From("theses t").
		LeftJoin("users u ON t.requested_by = u.id").
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list theses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list theses query")
		return nil, fmt.Errorf("error listing theses: %w", err)
	}
	defer rows.Close()

	var theses []ThesisWithStudent
	for rows.Next() {
		var t ThesisWithStudent
		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.RequestDueDate, &t.ThesisDueDate,
			&t.AddedBy, &t.RequestedBy, &t.Approved, &t.Submitted, &t.FileName, &t.LastUpdate, &t.CreatedAt,
			&t.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning thesis row: %w", err)
		}
		theses = append(theses, t)
	}

	return theses, rows.Err()
}

// ListUnassigned retrieves theses with no pending or approved request
func (r *ThesisRepository) ListUnassigned(ctx context.Context) ([]models.Thesis, error) {
	sql, args, err := r.sb.Select(thesisColumns...).
		From("theses").
		Where("requested_by IS NULL").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list unassigned query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list unassigned query")
		return nil, fmt.Errorf("error listing unassigned theses: %w", err)
	}
	defer rows.Close()

	var theses []models.Thesis
	for rows.Next() {
		t, err := scanThesis(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning thesis row: %w", err)
		}
		theses = append(theses, *t)
	}

	return theses, rows.Err()
}

// ListByStudent retrieves all theses requested by or assigned to a student
func (r *ThesisRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Thesis, error) {
	sql, args, err := r.sb.Select(thesisColumns...).
		From("theses").
		Where(squirrel.Eq{"requested_by": studentID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list by student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list by student query")
		return nil, fmt.Errorf("error listing student theses: %w", err)
	}
	defer rows.Close()

	var theses []models.Thesis
	for rows.Next() {
		t, err := scanThesis(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning thesis row: %w", err)
		}
		theses = append(theses, *t)
	}

	return theses, rows.Err()
}

// ListPendingApproval retrieves requested but not yet approved theses with
// the requesting student's username
func (r *ThesisRepository) ListPendingApproval(ctx context.Context) ([]ThesisWithStudent, error) {
	sql, args, err := r.sb.Select(prefixColumns("t", thesisColumns)...).
		Column("u.username").
		From("theses t").
		LeftJoin("users u ON t.requested_by = u.id").
		Where("t.requested_by IS NOT NULL").
		Where(squirrel.Eq{"t.approved": false}).
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending approval query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing pending approval query")
		return nil, fmt.Errorf("error listing pending requests: %w", err)
	}
	defer rows.Close()

	var theses []ThesisWithStudent
	for rows.Next() {
		var t ThesisWithStudent
		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.RequestDueDate, &t.ThesisDueDate,
			&t.AddedBy, &t.RequestedBy, &t.Approved, &t.Submitted, &t.FileName, &t.LastUpdate, &t.CreatedAt,
			&t.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning thesis row: %w", err)
		}
		theses = append(theses, t)
	}

	return theses, rows.Err()
}

// Claim atomically assigns an unassigned thesis to a student. The conditional
// update closes the race between two students requesting the same thesis: the
// loser sees ErrThesisAlreadyRequested instead of silently overwriting.
func (r *ThesisRepository) Claim(ctx context.Context, thesisID, studentID int64) (*models.Thesis, error) {
	sql, args, err := r.sb.Update("theses").
		Set("requested_by", studentID).
		Where(squirrel.Eq{"id": thesisID}).
		Where("requested_by IS NULL").
		Suffix("RETURNING " + joinColumns(thesisColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build claim query: %w", err)
	}

	thesis, err := scanThesis(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return thesis, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("thesisID", thesisID).Msg("Error executing claim query")
		return nil, fmt.Errorf("error claiming thesis: %w", err)
	}

	// Distinguish a lost race from a missing thesis
	if _, err := r.GetByID(ctx, thesisID); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrThesisAlreadyRequested
}

// Approve marks a pending request approved, re-binding the thesis to the
// given student.
func (r *ThesisRepository) Approve(ctx context.Context, thesisID, studentID int64) (*models.Thesis, error) {
	sql, args, err := r.sb.Update("theses").
		Set("requested_by", studentID).
		Set("approved", true).
		Where(squirrel.Eq{"id": thesisID}).
		Where("requested_by IS NOT NULL").
		Where(squirrel.Eq{"approved": false}).
		Suffix("RETURNING " + joinColumns(thesisColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build approve query: %w", err)
	}

	thesis, err := scanThesis(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return thesis, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("thesisID", thesisID).Msg("Error executing approve query")
		return nil, fmt.Errorf("error approving thesis: %w", err)
	}

	if _, err := r.GetByID(ctx, thesisID); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrThesisNotRequested
}

// UpdateDueDates updates both due dates of a thesis
func (r *ThesisRepository) UpdateDueDates(ctx context.Context, thesisID int64, requestDueDate, thesisDueDate time.Time) (*models.Thesis, error) {
	sql, args, err := r.sb.Update("theses").
		Set("request_due_date", requestDueDate).
		Set("thesis_due_date", thesisDueDate).
		Where(squirrel.Eq{"id": thesisID}).
		Suffix("RETURNING " + joinColumns(thesisColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build due dates query: %w", err)
	}

	thesis, err := scanThesis(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThesisNotFound
		}
		logger.Error().Err(err).Int64("thesisID", thesisID).Msg("Error executing due dates query")
		return nil, fmt.Errorf("error updating due dates: %w", err)
	}

	return thesis, nil
}

// GetAssignedTo retrieves a thesis only if it is assigned to the given
// student. A thesis that exists but belongs to someone else is reported as
// not found, matching the upload contract.
func (r *ThesisRepository) GetAssignedTo(ctx context.Context, thesisID, studentID int64) (*models.Thesis, error) {
	sql, args, err := r.sb.Select(thesisColumns...).
		From("theses").
		Where(squirrel.Eq{"id": thesisID, "requested_by": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assigned query: %w", err)
	}

	thesis, err := scanThesis(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThesisNotFound
		}
		logger.Error().Err(err).Int64("thesisID", thesisID).Msg("Error scanning thesis row")
		return nil, fmt.Errorf("error getting thesis: %w", err)
	}

	return thesis, nil
}

// UpdateSubmission records a thesis submission. It is also used to revert a
// submission when moving the staged file into place fails after commit.
func (r *ThesisRepository) UpdateSubmission(ctx context.Context, thesisID int64, fileName *string, submitted bool, lastUpdate *time.Time) error {
	sql, args, err := r.sb.Update("theses").
		Set("file_name", fileName).
		Set("submitted", submitted).
		Set("last_update", lastUpdate).
		Where(squirrel.Eq{"id": thesisID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build submission query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("thesisID", thesisID).Msg("Error executing submission query")
		return fmt.Errorf("error recording submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrThesisNotFound
	}

	return nil
}

// Delete removes a thesis; feedback and subtasks go with it via ON DELETE
// CASCADE. The stored file names of the thesis and its subtasks are returned
// so the caller can clean up the filesystem.
func (r *ThesisRepository) Delete(ctx context.Context, thesisID int64) ([]string, error) {
	var fileNames []string

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var thesisFile *string
		err := tx.QueryRow(ctx, `SELECT file_name FROM theses WHERE id = $1`, thesisID).Scan(&thesisFile)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrThesisNotFound
			}
			return fmt.Errorf("error reading thesis file name: %w", err)
		}
		if thesisFile != nil {
			fileNames = append(fileNames, *thesisFile)
		}

		rows, err := tx.Query(ctx, `SELECT file_name FROM subtasks WHERE thesis_id = $1 AND file_name IS NOT NULL`, thesisID)
		if err != nil {
			return fmt.Errorf("error reading subtask file names: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("error scanning subtask file name: %w", err)
			}
			fileNames = append(fileNames, name)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM theses WHERE id = $1`, thesisID); err != nil {
			return fmt.Errorf("error deleting thesis: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return fileNames, nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func prefixColumns(prefix string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = prefix + "." + c
	}
	return out
}
