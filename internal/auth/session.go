package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// State is the position of a session in the login state machine.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session is the per-browser login state. It travels in a signed cookie and
// is resolved into the request context on every request.
type Session struct {
	ID       string
	State    State
	Username string
}

// NewSession starts an unauthenticated session with a fresh ID.
func NewSession() Session {
	return Session{ID: uuid.NewString(), State: Unauthenticated}
}

func (s Session) Authenticated() bool {
	return s.State == Authenticated
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the session stored in ctx, or an unauthenticated one.
func SessionFrom(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Session{State: Unauthenticated}
}

const (
	CookieName = "momodash_session"
	issuer     = "momodash"
)

var ErrInvalidSession = errors.New("invalid session")

type sessionClaims struct {
	Username string `json:"usr,omitempty"`
	jwt.RegisteredClaims
}

// SessionCodec signs sessions into HS256 tokens carried in a browser-session
// cookie. The token has no expiry claim; the cookie itself has no Max-Age so
// the browser drops it when the session ends.
type SessionCodec struct {
	secret []byte
	secure bool
}

func NewSessionCodec(secret []byte, secureCookie bool) (*SessionCodec, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("session secret must be at least 16 bytes, got %d", len(secret))
	}
	return &SessionCodec{secret: secret, secure: secureCookie}, nil
}

// Encode returns a signed token. Only authenticated sessions carry a
// username.
func (c *SessionCodec) Encode(s Session) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:      s.ID,
			Issuer:  issuer,
			Subject: s.State.String(),
		},
	}
	if s.Authenticated() {
		claims.Username = s.Username
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the token signature and rebuilds the session.
func (c *SessionCodec) Decode(token string) (Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !parsed.Valid || claims.Issuer != issuer || claims.ID == "" {
		return Session{}, ErrInvalidSession
	}
	s := Session{ID: claims.ID, State: Unauthenticated}
	if claims.Subject == Authenticated.String() && claims.Username != "" {
		s.State = Authenticated
		s.Username = claims.Username
	}
	return s, nil
}

// FromRequest resolves the session cookie. A missing or tampered cookie
// yields a new unauthenticated session and ok=false.
func (c *SessionCodec) FromRequest(r *http.Request) (s Session, ok bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return NewSession(), false
	}
	s, err = c.Decode(cookie.Value)
	if err != nil {
		return NewSession(), false
	}
	return s, true
}

// Write sets the session cookie.
func (c *SessionCodec) Write(w http.ResponseWriter, s Session) error {
	token, err := c.Encode(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (c *SessionCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
