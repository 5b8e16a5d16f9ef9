// Package profile contiene los DTOs del perfil de la cuenta autenticada.
package profile

import (
	"time"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

type ProfileResponse struct {
	PublicID    string    `json:"public_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Nickname    string    `json:"nickname"`
	Phone       string    `json:"phone"`
	Facebook    string    `json:"facebook"`
	Twitter     string    `json:"twitter"`
	Instagram   string    `json:"instagram"`
	LinkedIn    string    `json:"linkedin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromAccount nunca expone el hash ni el id interno.
func FromAccount(a *types.Account) ProfileResponse {
	return ProfileResponse{
		PublicID:    a.PublicID,
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Nickname:    a.Nickname,
		Phone:       a.Phone,
		Facebook:    a.Facebook,
		Twitter:     a.Twitter,
		Instagram:   a.Instagram,
		LinkedIn:    a.LinkedIn,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// UpdateProfileResponse agrega un token nuevo cuando cambió el email.
type UpdateProfileResponse struct {
	ProfileResponse
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// UpdateProfileRequest: campos ausentes (null) no se tocan.
type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	Nickname    *string `json:"nickname"`
	Phone       *string `json:"phone"`
	Facebook    *string `json:"facebook"`
	Twitter     *string `json:"twitter"`
	Instagram   *string `json:"instagram"`
	LinkedIn    *string `json:"linkedin"`
}

func (r UpdateProfileRequest) Patch() types.ProfilePatch {
	return types.ProfilePatch{
		Username:    r.Username,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Nickname:    r.Nickname,
		Phone:       r.Phone,
		Facebook:    r.Facebook,
		Twitter:     r.Twitter,
		Instagram:   r.Instagram,
		LinkedIn:    r.LinkedIn,
	}
}
