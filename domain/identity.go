package domain

import (
	"context"
	"strings"
	"time"
)

// Viewer is the signed-in person using the client
type Viewer struct {
	ID    string
	Email string
}

// Handle is the local part of the viewer's e-mail
func (v Viewer) Handle() string {
	return HandleOf(v.Email)
}

// HandleOf derives the public handle from an e-mail address
func HandleOf(email string) string {
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local
}

// Session is an authenticated backend session
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Viewer       Viewer
}

type AuthEventKind int

const (
	SignedIn AuthEventKind = iota + 1
	SignedOut
)

func (k AuthEventKind) String() string {
	switch k {
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	default:
		return "UNKNOWN"
	}
}

type AuthEvent struct {
	Kind   AuthEventKind
	Viewer Viewer
}

// Identity is the backend's authentication service
type Identity interface {
	// SignInWithOTP sends a one-time code / magic link to the address.
	SignInWithOTP(ctx context.Context, email, redirectTo string) error

	// VerifyOTP exchanges the code for a session.
	VerifyOTP(ctx context.Context, email, token string) (Session, error)

	SignOut(ctx context.Context, accessToken string) error

	// ParseSession validates an access token.
	// Returns ErrUnauthenticated for invalid or expired tokens.
	ParseSession(accessToken string) (Session, error)

	// OnAuthStateChange registers fn for sign-in and sign-out events.
	OnAuthStateChange(fn func(AuthEvent)) Subscription
}
