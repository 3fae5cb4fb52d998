package auth

import (
	"errors"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for new hashes.
var PasswordCost = bcrypt.DefaultCost

func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
}

// ComparePassword reports common.ErrInvalidCredentials on mismatch. bcrypt
// compares in constant time.
func ComparePassword(hash []byte, password string) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrInvalidCredentials
	}
	// malformed stored hash: still a failed comparison for the caller
	return errors.Join(common.ErrInvalidCredentials, err)
}
