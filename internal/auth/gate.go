// Package auth implements the single-account login gate and the
// per-browser session it guards.
//
// Credentials are compared in plain text against values loaded from the
// environment. There is no hashing, lockout or attempt counting; deployments
// that need more must front the dashboard with a real identity provider.
package auth

import (
	"crypto/subtle"
	"errors"
)

// MsgInvalidCredentials is the only failure message shown to users. It does
// not reveal which field was wrong.
const MsgInvalidCredentials = "Invalid credentials"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("username and password must be configured")
)

// Credentials is the configured account.
type Credentials struct {
	Username string
	Password string
}

// AuthResult is the outcome of a login attempt.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Err maps a failed result to ErrInvalidCredentials.
func (r AuthResult) Err() error {
	if r.Success {
		return nil
	}
	return ErrInvalidCredentials
}

// Gate checks login attempts. It holds no per-session state and is safe for
// concurrent use.
type Gate struct {
	username []byte
	password []byte
}

func NewGate(c Credentials) (*Gate, error) {
	if c.Username == "" || c.Password == "" {
		return nil, ErrMissingCredentials
	}
	return &Gate{username: []byte(c.Username), password: []byte(c.Password)}, nil
}

// AttemptLogin compares byte-exact and case-sensitive. Both fields are
// always compared so a wrong username costs the same as a wrong password.
func (g *Gate) AttemptLogin(username, password string) AuthResult {
	userOK := subtle.ConstantTimeCompare([]byte(username), g.username)
	passOK := subtle.ConstantTimeCompare([]byte(password), g.password)
	if userOK&passOK == 1 {
		return AuthResult{Success: true}
	}
	return AuthResult{Message: MsgInvalidCredentials}
}

// Login runs an attempt on behalf of s and returns the session's next state.
// Authenticated is terminal: a failed attempt on an authenticated session
// leaves it authenticated.
func (g *Gate) Login(s Session, username, password string) (Session, AuthResult) {
	res := g.AttemptLogin(username, password)
	if res.Success && s.State == Unauthenticated {
		s.State = Authenticated
		s.Username = username
	}
	return s, res
}
