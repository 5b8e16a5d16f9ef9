// Package types define las entidades de dominio compartidas entre paquetes.
package types

import (
	"strings"
	"time"
)

// Account es la identidad de un usuario y su material secreto.
type Account struct {
	ID           int64  // clave interna de storage
	PublicID     string // UUID opaco, se genera una vez y nunca se reutiliza
	Username     string
	Email        string
	PasswordHash string `json:"-"`

	DisplayName string
	Nickname    string
	Phone       string
	Facebook    string
	Twitter     string
	Instagram   string
	LinkedIn    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfilePatch es una actualización parcial: nil = no tocar.
type ProfilePatch struct {
	Username    *string
	Email       *string
	DisplayName *string
	Nickname    *string
	Phone       *string
	Facebook    *string
	Twitter     *string
	Instagram   *string
	LinkedIn    *string
}

// Apply copia los campos presentes sobre la cuenta.
func (p ProfilePatch) Apply(a *Account) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.Username, p.Username)
	set(&a.Email, p.Email)
	set(&a.DisplayName, p.DisplayName)
	set(&a.Nickname, p.Nickname)
	set(&a.Phone, p.Phone)
	set(&a.Facebook, p.Facebook)
	set(&a.Twitter, p.Twitter)
	set(&a.Instagram, p.Instagram)
	set(&a.LinkedIn, p.LinkedIn)
}

// NormalizeEmail es la forma canónica con la que se guardan y buscan emails.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LooksLikeEmail decide si un identificador de login es un email.
func LooksLikeEmail(s string) bool {
	return strings.Contains(s, "@")
}
