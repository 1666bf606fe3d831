package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// ICredentialVerifier abstracts password hashing so the services never see the
// algorithm. Implementations must use a slow, salted one-way function.
type ICredentialVerifier interface {
	Hash(raw string) (string, error)
	Verify(raw, digest string) bool
}

type BcryptVerifier struct {
	cost int
}

func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{cost: bcrypt.DefaultCost}
}

func (v *BcryptVerifier) Hash(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), v.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (v *BcryptVerifier) Verify(raw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}

var _ ICredentialVerifier = (*BcryptVerifier)(nil)
