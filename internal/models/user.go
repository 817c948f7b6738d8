// internal/models/user.go
package models

// User is the minimal identity record kept for a browser session. The auth
// service only returns a token on login, so everything beyond the username
// comes from the profile service.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// RegisterRequest is the auth service registration payload.
type RegisterRequest struct {
	Username string `form:"username" json:"username" validate:"required,username"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=3"`
}

// LoginRequest is the auth service login payload.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}
