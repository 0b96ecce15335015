package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/xenithra/authcore/domain"
)

// PasswordServiceImpl implements domain.PasswordService with bcrypt.
// Every hash carries its own salt and cost factor.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service with the default cost.
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{cost: bcrypt.DefaultCost}
}

// NewPasswordServiceWithCost creates a password service with an explicit cost.
func NewPasswordServiceWithCost(cost int) domain.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
