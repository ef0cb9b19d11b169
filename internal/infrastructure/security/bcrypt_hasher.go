package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
)

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// BcryptHasher implementa ports.PasswordHasher con bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher crea el hasher. Un coste fuera de rango usa bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
