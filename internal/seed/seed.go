// Package seed creates default data for a fresh database
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/kerem/thesisdesk/internal/app/models"
	appRepos "github.com/kerem/thesisdesk/internal/app/repositories"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
	"github.com/kerem/thesisdesk/internal/pkg/auth"
)

const (
	defaultTeacherUsername = "supervisor"
	defaultTeacherEmail    = "supervisor@thesisdesk.local"
	defaultTeacherPassword = "changeme123"
)

// CreateDefaultData creates a default teacher account if it doesn't exist,
// so a fresh install has someone who can add thesis titles.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.ExistsByEmailOrUsername(ctx, defaultTeacherEmail, defaultTeacherUsername)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Msg("Default teacher account already present, skipping seed")
		return nil
	}

	hashed, err := auth.HashPassword(defaultTeacherPassword)
	if err != nil {
		return err
	}

	teacher := &appModels.User{
		Username: defaultTeacherUsername,
		Email:    defaultTeacherEmail,
		Password: hashed,
		RoleType: appModels.RoleTeacher,
	}
	if _, err := userRepo.Create(ctx, teacher); err != nil {
		// A concurrent boot may have seeded it first
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("username", defaultTeacherUsername).Msg("Default teacher account created")
	return nil
}
