package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	TokenRepository    *TokenRepository
	ThesisRepository   *ThesisRepository
	SubtaskRepository  *SubtaskRepository
	FeedbackRepository *FeedbackRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		TokenRepository:    NewTokenRepository(db),
		ThesisRepository:   NewThesisRepository(db),
		SubtaskRepository:  NewSubtaskRepository(db),
		FeedbackRepository: NewFeedbackRepository(db),
	}
}
