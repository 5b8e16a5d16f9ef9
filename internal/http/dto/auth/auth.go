// Package auth contiene los DTOs de registro, login, reset y disponibilidad.
package auth

// RegisterRequest es el body de POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResult es lo que devuelve el service.
type RegisterResult struct {
	AccessToken string
	ExpiresIn   int64
	PublicID    string
}

type RegisterResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	PublicID    string `json:"public_id"`
}

// LoginRequest acepta email o username en Identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordResult lleva el link sólo si debug_echo_links está activo.
type ForgotPasswordResult struct {
	DebugLink string
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// StatusResponse es la respuesta de forgot/reset.
type StatusResponse struct {
	Status string `json:"status"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}
