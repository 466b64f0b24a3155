package auth

import (
	"errors"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces the ADMIN_PASSWORD_HASH value for plaintext.
func HashPassword(plaintext string, cost int) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates longer input
		return "", errs.NewInvalidFieldError("password", "must be 72 bytes or fewer")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("hashing password", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewInternalErrorWithCause("checking password", err)
	}
	return true, nil
}
