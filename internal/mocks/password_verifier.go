package mocks

import (
	"errors"

	"github.com/phrazzld/novatasks-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordHasher when ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing.
// Hash prefixes the plaintext with "hashed:" so tests can assert on it.
type MockPasswordHasher struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// HashErr is returned from Hash when set
	HashErr error

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// CompareCalledWith stores the arguments passed to Compare for verification
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}
