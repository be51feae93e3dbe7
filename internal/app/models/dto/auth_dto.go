package dto

// SignupRequest represents a new account registration
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
	Role     string `json:"role"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair and the identity the
// dashboards keep client-side.
type LoginResponse struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	Role         string `json:"role"`
	Username     string `json:"username"`
	UserID       int64  `json:"userId"`
}

// RefreshRequest represents a refresh token rotation request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest optionally names the refresh token to revoke. The call
// succeeds without one; the access token then simply runs out on its own.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
