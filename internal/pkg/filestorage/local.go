package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
	"github.com/kerem/thesisdesk/internal/pkg/logger"
)

// Allowed MIME types for thesis and subtask uploads
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

const stagingDir = ".staging"

// Storage defines the file storage operations used by the services
type Storage interface {
	Stage(fileHeader *multipart.FileHeader) (string, error)
	Promote(stagedPath, fileName string) error
	Discard(stagedPath string)
	Delete(fileName string) error
	BasePath() string
}

// LocalStorage stores uploaded files on the local filesystem under a single
// base directory. File names are deterministic per entity, so a re-upload
// replaces the previous file instead of accumulating copies.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, stagingDir), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// ValidateUploadType rejects anything that is not a PDF or DOCX upload
func ValidateUploadType(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return apperrors.ErrFileMissing
	}
	switch fileHeader.Header.Get("Content-Type") {
	case MimePDF, MimeDOCX:
		return nil
	}
	return apperrors.ErrUnsupportedFileType
}

// Stage writes the uploaded file into the staging area and returns its path.
// The caller promotes it into place only after the database record is
// committed, so a crash in between leaves a stray staging file rather than a
// dangling fileName reference.
func (ls *LocalStorage) Stage(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", apperrors.ErrFileMissing
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	stagedPath := filepath.Join(ls.basePath, stagingDir, uuid.New().String()+filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(stagedPath)
	if err != nil {
		logger.Error().Err(err).Str("path", stagedPath).Msg("Failed to create staging file")
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", stagedPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(stagedPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	return stagedPath, nil
}

// Promote moves a staged file to its final name, replacing any prior file
// stored under that name.
func (ls *LocalStorage) Promote(stagedPath, fileName string) error {
	finalPath := filepath.Join(ls.basePath, filepath.Base(fileName))
	if err := os.Rename(stagedPath, finalPath); err != nil {
		logger.Error().Err(err).Str("from", stagedPath).Str("to", finalPath).Msg("Failed to move staged file into place")
		return fmt.Errorf("failed to move staged file into place: %w", err)
	}
	logger.Info().Str("fileName", fileName).Msg("File stored")
	return nil
}

// Discard removes a staged file that will not be promoted
func (ls *LocalStorage) Discard(stagedPath string) {
	if stagedPath == "" {
		return
	}
	if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", stagedPath).Msg("Failed to remove staged file")
	}
}

// Delete removes a stored file. Returns nil if the file does not exist,
// deletion is idempotent.
func (ls *LocalStorage) Delete(fileName string) error {
	if fileName == "" {
		return nil
	}

	name := filepath.Base(fileName)
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid file name: %s", fileName)
	}

	physicalPath := filepath.Join(ls.basePath, name)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// BasePath returns the storage root, used for static file serving
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// ThesisFileName derives the deterministic stored name for a thesis upload
func ThesisFileName(userID, thesisID int64, originalName string) string {
	return fmt.Sprintf("thesis_%d_%d%s", userID, thesisID, filepath.Ext(originalName))
}

// SubtaskFileName derives the deterministic stored name for a subtask upload
func SubtaskFileName(userID, subtaskID int64, originalName string) string {
	return fmt.Sprintf("subtask_%d_%d%s", userID, subtaskID, filepath.Ext(originalName))
}
