// Package session implements the storefront's placeholder login check.
package session

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned for any email and password mismatch
var ErrInvalidCredentials = errors.New("invalid email or password")

// Default placeholder credentials
const (
	DefaultEmail    = "admin@admin"
	DefaultPassword = "123456"
)

// Authenticator compares credentials against a single configured account.
// It issues no tokens; a successful check only unlocks the catalog screens.
type Authenticator struct {
	email    string
	password string
}

// NewAuthenticator creates an authenticator. Empty values take the defaults.
func NewAuthenticator(email, password string) *Authenticator {
	if email == "" {
		email = DefaultEmail
	}
	if password == "" {
		password = DefaultPassword
	}
	return &Authenticator{email: email, password: password}
}

// Login checks email and password. The email comparison ignores surrounding
// whitespace and case.
func (a *Authenticator) Login(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(a.email))) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !emailOK || !passwordOK {
		return ErrInvalidCredentials
	}
	return nil
}
