package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/thesisdesk/internal/app/models"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
	"github.com/kerem/thesisdesk/internal/pkg/dberrors"
	"github.com/kerem/thesisdesk/internal/pkg/logger"
)

// FeedbackWithAuthor is a feedback entry joined with its author's username
type FeedbackWithAuthor struct {
	models.Feedback
	AuthorUsername string
}

// FeedbackRepository handles database operations for feedback entries
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends a feedback entry to a thesis
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) (*models.Feedback, error) {
	sql, args, err := r.sb.Insert("feedbacks").
		Columns("content", "thesis_id", "user_id").
		Values(feedback.Content, feedback.ThesisID, feedback.UserID).
		Suffix("RETURNING id, content, thesis_id, user_id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create feedback query: %w", err)
	}

	var created models.Feedback
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&created.ID, &created.Content, &created.ThesisID, &created.UserID, &created.CreatedAt,
	)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrThesisNotFound
		}
		logger.Error().Err(err).Int64("thesisID", feedback.ThesisID).Msg("Error executing create feedback query")
		return nil, fmt.Errorf("error creating feedback: %w", err)
	}

	return &created, nil
}

// ListByThesis retrieves all feedback for a thesis in insertion order, each
// annotated with the author's username.
func (r *FeedbackRepository) ListByThesis(ctx context.Context, thesisID int64) ([]FeedbackWithAuthor, error) {
	sql, args, err := r.sb.Select("f.id", "f.content", "f.thesis_id", "f.user_id", "f.created_at", "u.username").
		From("feedbacks f").
		Join("users u ON f.user_id = u.id").
		Where(squirrel.Eq{"f.thesis_id": thesisID}).
		OrderBy("f.created_at", "f.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("thesisID", thesisID).Msg("Error executing list feedback query")
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	var feedbacks []FeedbackWithAuthor
	for rows.Next() {
		var f FeedbackWithAuthor
		err := rows.Scan(&f.ID, &f.Content, &f.ThesisID, &f.UserID, &f.CreatedAt, &f.AuthorUsername)
		if err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		feedbacks = append(feedbacks, f)
	}

	return feedbacks, rows.Err()
}

// ListByTheses retrieves feedback for several theses at once, grouped by
// thesis id and ordered by insertion within each group.
func (r *FeedbackRepository) ListByTheses(ctx context.Context, thesisIDs []int64) (map[int64][]FeedbackWithAuthor, error) {
	grouped := make(map[int64][]FeedbackWithAuthor, len(thesisIDs))
	if len(thesisIDs) == 0 {
		return grouped, nil
	}

	sql, args, err := r.sb.Select("f.id", "f.content", "f.thesis_id", "f.user_id", "f.created_at", "u.username").
		From("feedbacks f").
		Join("users u ON f.user_id = u.id").
		Where(squirrel.Eq{"f.thesis_id": thesisIDs}).
		OrderBy("f.thesis_id", "f.created_at", "f.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list feedback query")
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f FeedbackWithAuthor
		err := rows.Scan(&f.ID, &f.Content, &f.ThesisID, &f.UserID, &f.CreatedAt, &f.AuthorUsername)
		if err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		grouped[f.ThesisID] = append(grouped[f.ThesisID], f)
	}

	return grouped, rows.Err()
}
