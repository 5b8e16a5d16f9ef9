// Package password hashea y verifica secretos con bcrypt.
//
// bcrypt sólo mira los primeros 72 bytes. La política es truncar a
// MaxLength tanto al hashear como al verificar; el registro rechaza antes
// los secretos más largos con TooLong.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength es el límite de bcrypt, en bytes.
const MaxLength = 72

var ErrEmptySecret = errors.New("password: empty secret")

type Hasher struct {
	// Cost de bcrypt; 0 = bcrypt.DefaultCost.
	Cost int
}

func (h Hasher) cost() int {
	if h.Cost < bcrypt.MinCost || h.Cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

// Hash devuelve el digest bcrypt (salt aleatorio incluido).
func (h Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	b, err := bcrypt.GenerateFromPassword(truncate(secret), h.cost())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara en tiempo constante. Un digest corrupto da false.
func (h Hasher) Verify(secret, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), truncate(secret)) == nil
}

// TooLong reporta si el secreto supera MaxLength bytes.
func TooLong(secret string) bool { return len(secret) > MaxLength }

func truncate(s string) []byte {
	b := []byte(s)
	if len(b) > MaxLength {
		b = b[:MaxLength]
	}
	return b
}
