// Package identity supplies the current user identity to the request
// tracker and the HTTP port. The core never stores credentials; it only
// asks "who, if anyone, is signed in right now".
package identity

import (
	"context"
	"sync"
)

// Provider reports the identity of the currently signed-in user. The second
// return is false when nobody is signed in; callers treat that as "absent",
// never as an error.
type Provider interface {
	CurrentUserIdentity(ctx context.Context) (string, bool)
}

// Session is a process-wide Provider set by an external authentication
// flow. It ignores the context.
type Session struct {
	mu     sync.RWMutex
	userID string
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) SignIn(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
}

func (s *Session) CurrentUserIdentity(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

type contextKeyType string

const userIDKey contextKeyType = "authenticatedUserID"

// WithUser binds an authenticated user to the context; the HTTP middleware
// uses it after validating a bearer token.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// FromContext extracts the user bound by WithUser.
func FromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// ContextProvider resolves the identity from the request context. It is the
// Provider wired in front of the HTTP port.
type ContextProvider struct{}

func (ContextProvider) CurrentUserIdentity(ctx context.Context) (string, bool) {
	return FromContext(ctx)
}
