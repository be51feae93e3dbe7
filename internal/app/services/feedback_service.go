package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kerem/thesisdesk/internal/app/models"
	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/app/repositories"
)

// FeedbackService defines the interface for thesis feedback operations
type FeedbackService interface {
	Add(ctx context.Context, thesisID, authorID int64, content string) (*dto.FeedbackResponse, error)
	List(ctx context.Context, thesisID int64) ([]dto.FeedbackResponse, error)
}

// feedbackServiceImpl implements FeedbackService
type feedbackServiceImpl struct {
	feedbackRepo *repositories.FeedbackRepository
	userRepo     *repositories.UserRepository
	logger       zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(feedbackRepo *repositories.FeedbackRepository, userRepo *repositories.UserRepository, logger zerolog.Logger) FeedbackService {
	return &feedbackServiceImpl{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Add attaches a feedback entry to a thesis
func (s *feedbackServiceImpl) Add(ctx context.Context, thesisID, authorID int64, content string) (*dto.FeedbackResponse, error) {
	feedback := &models.Feedback{
		Content:  content,
		ThesisID: thesisID,
		UserID:   authorID,
	}

	created, err := s.feedbackRepo.Create(ctx, feedback)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("thesisID", thesisID).Int64("authorID", authorID).Msg("Feedback added")
	return &dto.FeedbackResponse{
		ID:        created.ID,
		Content:   created.Content,
		ThesisID:  created.ThesisID,
		UserID:    created.UserID,
		CreatedAt: created.CreatedAt,
		Author:    dto.FeedbackAuthor{Username: author.Username},
	}, nil
}

// List returns the feedback entries of a thesis, oldest first
func (s *feedbackServiceImpl) List(ctx context.Context, thesisID int64) ([]dto.FeedbackResponse, error) {
	feedbacks, err := s.feedbackRepo.ListByThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	return toFeedbackResponses(feedbacks), nil
}
