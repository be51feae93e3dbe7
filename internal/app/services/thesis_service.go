package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/kerem/thesisdesk/internal/app/models"
	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/app/repositories"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
	"github.com/kerem/thesisdesk/internal/pkg/filestorage"
	"github.com/kerem/thesisdesk/internal/pkg/helpers"
)

// FileLinkPrefix is the URL path under which stored files are served
const FileLinkPrefix = "/thesis/files/"

// ThesisService defines the interface for thesis lifecycle operations
type ThesisService interface {
	Add(ctx context.Context, teacherID int64, req *dto.AddThesisRequest) (*dto.ThesisResponse, error)
	ListAll(ctx context.Context) ([]dto.ThesisResponse, error)
	ListUnassigned(ctx context.Context) ([]dto.ThesisResponse, error)
	Request(ctx context.Context, studentID, thesisID int64) (*dto.ThesisResponse, error)
	ListPendingApproval(ctx context.Context) ([]dto.ApprovalRequestResponse, error)
	Approve(ctx context.Context, thesisID, studentID int64) (*dto.ThesisResponse, error)
	UpdateDueDates(ctx context.Context, thesisID int64, req *dto.DueDatesRequest) (*dto.ThesisResponse, error)
	Delete(ctx context.Context, thesisID int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]dto.ThesisResponse, error)
	Details(ctx context.Context, thesisID int64) (*dto.ThesisDetailsResponse, error)
	Subtasks(ctx context.Context, thesisID int64) ([]dto.SubtaskResponse, error)
	UploadThesis(ctx context.Context, studentID, thesisID int64, fileHeader *multipart.FileHeader) (*dto.UploadResponse, error)
	UploadSubtask(ctx context.Context, studentID, subtaskID int64, fileHeader *multipart.FileHeader) (*dto.SubtaskUploadResponse, error)
}

// thesisServiceImpl implements ThesisService
type thesisServiceImpl struct {
	thesisRepo   *repositories.ThesisRepository
	subtaskRepo  *repositories.SubtaskRepository
	feedbackRepo *repositories.FeedbackRepository
	storage      filestorage.Storage
	logger       zerolog.Logger
}

// NewThesisService creates a new ThesisService
func NewThesisService(
	thesisRepo *repositories.ThesisRepository,
	subtaskRepo *repositories.SubtaskRepository,
	feedbackRepo *repositories.FeedbackRepository,
	storage filestorage.Storage,
	logger zerolog.Logger,
) ThesisService {
	return &thesisServiceImpl{
		thesisRepo:   thesisRepo,
		subtaskRepo:  subtaskRepo,
		feedbackRepo: feedbackRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Add creates a thesis title together with its weekly subtasks
func (s *thesisServiceImpl) Add(ctx context.Context, teacherID int64, req *dto.AddThesisRequest) (*dto.ThesisResponse, error) {
	requestDue, err := helpers.ParseDate(req.RequestDueDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid request due date")
	}
	thesisDue, err := helpers.ParseDate(req.ThesisDueDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid thesis due date")
	}

	thesis := &models.Thesis{
		Title:          req.Title,
		Description:    req.Description,
		RequestDueDate: requestDue,
		ThesisDueDate:  thesisDue,
		AddedBy:        teacherID,
	}

	subtasks := make([]models.Subtask, 0, len(req.Subtasks))
	for _, st := range req.Subtasks {
		subtasks = append(subtasks, models.Subtask{Week: st.Week, Description: st.Description})
	}

	created, createdSubtasks, err := s.thesisRepo.Create(ctx, thesis, subtasks)
	if err != nil {
		return nil, fmt.Errorf("error creating thesis: %w", err)
	}

	s.logger.Info().Int64("thesisID", created.ID).Str("title", created.Title).Int64("teacherID", teacherID).Msg("Thesis created")

	resp := toThesisResponse(created, nil)
	resp.Subtasks = toSubtaskResponses(createdSubtasks)
	return &resp, nil
}

// ListAll returns every thesis with assignment and subtask summary (teacher view)
func (s *thesisServiceImpl) ListAll(ctx context.Context) ([]dto.ThesisResponse, error) {
	theses, err := s.thesisRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	subtasksByThesis, err := s.subtaskRepo.ListByTheses(ctx, thesisIDsWithStudent(theses))
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ThesisResponse, 0, len(theses))
	for _, t := range theses {
		resp := toThesisResponse(&t.Thesis, t.StudentName)
		resp.Subtasks = toSubtaskResponses(subtasksByThesis[t.ID])
		responses = append(responses, resp)
	}
	return responses, nil
}

// ListUnassigned returns theses no student has requested yet (student view)
func (s *thesisServiceImpl) ListUnassigned(ctx context.Context) ([]dto.ThesisResponse, error) {
	theses, err := s.thesisRepo.ListUnassigned(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ThesisResponse, 0, len(theses))
	for i := range theses {
		responses = append(responses, toThesisResponse(&theses[i], nil))
	}
	return responses, nil
}

// Request claims an unassigned thesis for a student
func (s *thesisServiceImpl) Request(ctx context.Context, studentID, thesisID int64) (*dto.ThesisResponse, error) {
	thesis, err := s.thesisRepo.Claim(ctx, thesisID, studentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("thesisID", thesisID).Int64("studentID", studentID).Msg("Thesis requested")
	resp := toThesisResponse(thesis, nil)
	return &resp, nil
}

// ListPendingApproval returns requested but unapproved theses (teacher view)
func (s *thesisServiceImpl) ListPendingApproval(ctx context.Context) ([]dto.ApprovalRequestResponse, error) {
	theses, err := s.thesisRepo.ListPendingApproval(ctx)
	if err != nil {
		return nil, err
	}

	requests := make([]dto.ApprovalRequestResponse, 0, len(theses))
	for _, t := range theses {
		studentName := "Not assigned"
		if t.StudentName != nil {
			studentName = *t.StudentName
		}
		requests = append(requests, dto.ApprovalRequestResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			StudentName: studentName,
			Approved:    t.Approved,
			RequestedBy: t.RequestedBy,
		})
	}
	return requests, nil
}

// Approve marks a pending request approved for the given student
func (s *thesisServiceImpl) Approve(ctx context.Context, thesisID, studentID int64) (*dto.ThesisResponse, error) {
	thesis, err := s.thesisRepo.Approve(ctx, thesisID, studentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("thesisID", thesisID).Int64("studentID", studentID).Msg("Thesis approved")
	resp := toThesisResponse(thesis, nil)
	return &resp, nil
}

// UpdateDueDates updates both due dates of a thesis
func (s *thesisServiceImpl) UpdateDueDates(ctx context.Context, thesisID int64, req *dto.DueDatesRequest) (*dto.ThesisResponse, error) {
	requestDue, err := helpers.ParseDate(req.RequestDueDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid request due date")
	}
	thesisDue, err := helpers.ParseDate(req.ThesisDueDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid thesis due date")
	}

	thesis, err := s.thesisRepo.UpdateDueDates(ctx, thesisID, requestDue, thesisDue)
	if err != nil {
		return nil, err
	}

	resp := toThesisResponse(thesis, nil)
	return &resp, nil
}

// Delete removes a thesis with its feedback and subtasks, then cleans up any
// stored files. File cleanup failures are logged, not surfaced: the database
// rows are already gone and a retry cannot bring them back.
func (s *thesisServiceImpl) Delete(ctx context.Context, thesisID int64) error {
	fileNames, err := s.thesisRepo.Delete(ctx, thesisID)
	if err != nil {
		return err
	}

	for _, name := range fileNames {
		if err := s.storage.Delete(name); err != nil {
			s.logger.Warn().Err(err).Str("fileName", name).Msg("Failed to delete stored file for removed thesis")
		}
	}

	s.logger.Info().Int64("thesisID", thesisID).Msg("Thesis deleted")
	return nil
}

// ListByStudent returns the student's theses with feedback and subtasks
func (s *thesisServiceImpl) ListByStudent(ctx context.Context, studentID int64) ([]dto.ThesisResponse, error) {
	theses, err := s.thesisRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(theses))
	for _, t := range theses {
		ids = append(ids, t.ID)
	}

	subtasksByThesis, err := s.subtaskRepo.ListByTheses(ctx, ids)
	if err != nil {
		return nil, err
	}
	feedbacksByThesis, err := s.feedbackRepo.ListByTheses(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ThesisResponse, 0, len(theses))
	for i := range theses {
		resp := toThesisResponse(&theses[i], nil)
		resp.Subtasks = toSubtaskResponses(subtasksByThesis[theses[i].ID])
		resp.Feedbacks = toFeedbackResponses(feedbacksByThesis[theses[i].ID])
		responses = append(responses, resp)
	}
	return responses, nil
}

// Details returns the single-thesis detail view with student identity and subtasks
func (s *thesisServiceImpl) Details(ctx context.Context, thesisID int64) (*dto.ThesisDetailsResponse, error) {
	thesis, err := s.thesisRepo.GetWithStudent(ctx, thesisID)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.subtaskRepo.ListByThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}

	return &dto.ThesisDetailsResponse{
		Title:       thesis.Title,
		StudentName: thesis.StudentName,
		LastUpdate:  thesis.LastUpdate,
		Submitted:   thesis.Submitted,
		FileName:    thesis.FileName,
		Subtasks:    toSubtaskResponses(subtasks),
	}, nil
}

// Subtasks lists the subtasks of a thesis
func (s *thesisServiceImpl) Subtasks(ctx context.Context, thesisID int64) ([]dto.SubtaskResponse, error) {
	if _, err := s.thesisRepo.GetByID(ctx, thesisID); err != nil {
		return nil, err
	}

	subtasks, err := s.subtaskRepo.ListByThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	return toSubtaskResponses(subtasks), nil
}

// UploadThesis stores a submission file for the caller's assigned thesis.
// The database update commits before the staged file is moved into place;
// if the move then fails the update is reverted, so a stored fileName always
// points at a file that exists.
func (s *thesisServiceImpl) UploadThesis(ctx context.Context, studentID, thesisID int64, fileHeader *multipart.FileHeader) (*dto.UploadResponse, error) {
	thesis, err := s.thesisRepo.GetAssignedTo(ctx, thesisID, studentID)
	if err != nil {
		return nil, err
	}

	if err := filestorage.ValidateUploadType(fileHeader); err != nil {
		return nil, err
	}

	fileName := filestorage.ThesisFileName(studentID, thesisID, fileHeader.Filename)
	stagedPath, err := s.storage.Stage(fileHeader)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.thesisRepo.UpdateSubmission(ctx, thesisID, &fileName, true, &now); err != nil {
		s.storage.Discard(stagedPath)
		return nil, err
	}

	if thesis.FileName != nil && *thesis.FileName != fileName {
		if err := s.storage.Delete(*thesis.FileName); err != nil {
			s.logger.Warn().Err(err).Str("fileName", *thesis.FileName).Msg("Failed to delete previous thesis file")
		}
	}

	if err := s.storage.Promote(stagedPath, fileName); err != nil {
		// Compensate: put the row back the way it was before surfacing the error
		if revertErr := s.thesisRepo.UpdateSubmission(ctx, thesisID, thesis.FileName, thesis.Submitted, thesis.LastUpdate); revertErr != nil {
			s.logger.Error().Err(revertErr).Int64("thesisID", thesisID).Msg("Failed to revert submission after file move failure")
		}
		s.storage.Discard(stagedPath)
		return nil, err
	}

	s.logger.Info().Int64("thesisID", thesisID).Int64("studentID", studentID).Str("fileName", fileName).Msg("Thesis uploaded")
	return &dto.UploadResponse{
		Message:  "Thesis uploaded successfully",
		FileLink: FileLinkPrefix + fileName,
	}, nil
}

// UploadSubtask stores a file for a subtask of the caller's assigned thesis
func (s *thesisServiceImpl) UploadSubtask(ctx context.Context, studentID, subtaskID int64, fileHeader *multipart.FileHeader) (*dto.SubtaskUploadResponse, error) {
	subtask, err := s.subtaskRepo.GetOwned(ctx, subtaskID, studentID)
	if err != nil {
		return nil, err
	}

	if err := filestorage.ValidateUploadType(fileHeader); err != nil {
		return nil, err
	}

	fileName := filestorage.SubtaskFileName(studentID, subtaskID, fileHeader.Filename)
	stagedPath, err := s.storage.Stage(fileHeader)
	if err != nil {
		return nil, err
	}

	updated, err := s.subtaskRepo.UpdateSubmission(ctx, subtaskID, &fileName, true)
	if err != nil {
		s.storage.Discard(stagedPath)
		return nil, err
	}

	if subtask.FileName != nil && *subtask.FileName != fileName {
		if err := s.storage.Delete(*subtask.FileName); err != nil {
			s.logger.Warn().Err(err).Str("fileName", *subtask.FileName).Msg("Failed to delete previous subtask file")
		}
	}

	if err := s.storage.Promote(stagedPath, fileName); err != nil {
		if _, revertErr := s.subtaskRepo.UpdateSubmission(ctx, subtaskID, subtask.FileName, subtask.Submitted); revertErr != nil {
			s.logger.Error().Err(revertErr).Int64("subtaskID", subtaskID).Msg("Failed to revert subtask submission after file move failure")
		}
		s.storage.Discard(stagedPath)
		return nil, err
	}

	s.logger.Info().Int64("subtaskID", subtaskID).Int64("studentID", studentID).Str("fileName", fileName).Msg("Subtask file uploaded")
	return &dto.SubtaskUploadResponse{
		Message: "File uploaded successfully",
		Subtask: toSubtaskResponse(updated),
	}, nil
}

func thesisIDsWithStudent(theses []repositories.ThesisWithStudent) []int64 {
	ids := make([]int64, 0, len(theses))
	for _, t := range theses {
		ids = append(ids, t.ID)
	}
	return ids
}

func toThesisResponse(t *models.Thesis, studentName *string) dto.ThesisResponse {
	return dto.ThesisResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		RequestDueDate: t.RequestDueDate,
		ThesisDueDate:  t.ThesisDueDate,
		AddedBy:        t.AddedBy,
		RequestedBy:    t.RequestedBy,
		Approved:       t.Approved,
		Submitted:      t.Submitted,
		FileName:       t.FileName,
		LastUpdate:     t.LastUpdate,
		StudentName:    studentName,
	}
}

func toSubtaskResponse(s *models.Subtask) dto.SubtaskResponse {
	return dto.SubtaskResponse{
		ID:          s.ID,
		Week:        s.Week,
		Description: s.Description,
		FileName:    s.FileName,
		Submitted:   s.Submitted,
	}
}

func toSubtaskResponses(subtasks []models.Subtask) []dto.SubtaskResponse {
	responses := make([]dto.SubtaskResponse, 0, len(subtasks))
	for i := range subtasks {
		responses = append(responses, toSubtaskResponse(&subtasks[i]))
	}
	return responses
}

func toFeedbackResponses(feedbacks []repositories.FeedbackWithAuthor) []dto.FeedbackResponse {
	responses := make([]dto.FeedbackResponse, 0, len(feedbacks))
	for _, f := range feedbacks {
		responses = append(responses, dto.FeedbackResponse{
			ID:        f.ID,
			Content:   f.Content,
			ThesisID:  f.ThesisID,
			UserID:    f.UserID,
			CreatedAt: f.CreatedAt,
			Author:    dto.FeedbackAuthor{Username: f.AuthorUsername},
		})
	}
	return responses
}
