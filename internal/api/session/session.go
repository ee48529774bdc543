// Package session implements a stateless cookie session: the session values
// travel in the cookie as an HS256-signed JWT.
//
// A cookie that is missing, expired, malformed or signed with another key
// yields an empty session. The cookie is only written back when a handler
// changed the session during the request.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sighting-intake-service/internal/logging"
)

type contextKey struct{}

// Session holds the string values carried by one client's cookie.
type Session struct {
	values   map[string]string
	modified bool
}

func (s *Session) Get(key string) string {
	return s.values[key]
}

func (s *Session) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.modified = true
}

// FromContext returns the request's session, or a detached empty one when
// the middleware is not installed.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return &Session{}
}

type claims struct {
	Values map[string]string `json:"v,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs, verifies and writes session cookies.
type Manager struct {
	name   string
	secret []byte
	ttl    time.Duration
}

func NewManager(name, secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session: cookie secret is required")
	}
	if name == "" {
		return nil, errors.New("session: cookie name is required")
	}
	return &Manager{name: name, secret: []byte(secret), ttl: ttl}, nil
}

// Encode signs the session values into a cookie value.
func (m *Manager) Encode(values map[string]string) (string, error) {
	now := time.Now()
	c := &claims{
		Values: values,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value and returns its session values.
func (m *Manager) Decode(value string) (map[string]string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(value, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("session: verify cookie: %w", err)
	}
	return c.Values, nil
}

func (m *Manager) load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.name)
	if err != nil {
		return &Session{}
	}

	values, err := m.Decode(cookie.Value)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("ignoring invalid session cookie")
		return &Session{}
	}
	return &Session{values: values}
}

func (m *Manager) cookie(s *Session) (*http.Cookie, error) {
	c := &http.Cookie{
		Name:     m.name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	value, err := m.Encode(s.values)
	if err != nil {
		return nil, err
	}
	c.Value = value
	if m.ttl > 0 {
		c.MaxAge = int(m.ttl.Seconds())
	}
	return c, nil
}

// Middleware loads the session into the request context and writes the
// cookie before the response header goes out if the session was modified.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.load(r)
		ctx := context.WithValue(r.Context(), contextKey{}, s)

		sw := &sessionWriter{ResponseWriter: w, commit: func() {
			if !s.modified {
				return
			}
			c, err := m.cookie(s)
			if err != nil {
				logging.Ctx(ctx).Error().Err(err).Msg("session cookie not written")
				return
			}
			http.SetCookie(w, c)
		}}

		next.ServeHTTP(sw, r.WithContext(ctx))
		sw.flushHeader()
	})
}

// sessionWriter runs commit once, just before the header is written.
type sessionWriter struct {
	http.ResponseWriter
	commit      func()
	wroteHeader bool
}

func (w *sessionWriter) flushHeader() {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.commit()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flushHeader()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flushHeader()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
