package models

import "time"

// Thesis defines the thesis model based on the 'theses' table.
//
// Lifecycle: unassigned (requested_by NULL) -> requested -> approved -> submitted.
// approved=true implies requested_by is set; submitted=true implies file_name
// and last_update are set.
type Thesis struct {
	ID             int64      `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	RequestDueDate time.Time  `json:"requestDueDate" db:"request_due_date"`
	ThesisDueDate  time.Time  `json:"thesisDueDate" db:"thesis_due_date"`
	AddedBy        int64      `json:"addedBy" db:"added_by"`
	RequestedBy    *int64     `json:"requestedBy" db:"requested_by"`
	Approved       bool       `json:"approved" db:"approved"`
	Submitted      bool       `json:"submitted" db:"submitted"`
	FileName       *string    `json:"fileName" db:"file_name"`
	LastUpdate     *time.Time `json:"lastUpdate" db:"last_update"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

// Subtask is a weekly work item owned by a thesis.
type Subtask struct {
	ID          int64   `json:"id" db:"id"`
	ThesisID    int64   `json:"thesisId" db:"thesis_id"`
	Week        int     `json:"week" db:"week"`
	Description string  `json:"description" db:"description"`
	FileName    *string `json:"fileName" db:"file_name"`
	Submitted   bool    `json:"submitted" db:"submitted"`
}

// Feedback is an append-only comment on a thesis, authored by a teacher.
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	ThesisID  int64     `json:"thesisId" db:"thesis_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RefreshToken is a server-side stored refresh token. Revoking these is
// what makes logout effective before the access token expires.
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
