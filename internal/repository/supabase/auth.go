package supabase

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

type Auth struct {
	client *Client
	secret []byte

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(domain.AuthEvent)
}

var _ domain.Identity = (*Auth)(nil)

func NewAuth(client *Client, jwtSecret string) *Auth {
	return &Auth{
		client:    client,
		secret:    []byte(jwtSecret),
		listeners: make(map[int]func(domain.AuthEvent)),
	}
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (a *Auth) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/otp"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	req, err := a.client.jsonRequest(http.MethodPost, path, "", map[string]any{
		"email":       email,
		"create_user": true,
	})
	if err != nil {
		return err
	}
	return a.client.do(ctx, req, nil)
}

func (a *Auth) VerifyOTP(ctx context.Context, email, token string) (domain.Session, error) {
	req, err := a.client.jsonRequest(http.MethodPost, "/auth/v1/verify", "", map[string]string{
		"type":  "email",
		"email": email,
		"token": token,
	})
	if err != nil {
		return domain.Session{}, err
	}

	var res tokenResponse
	if err := a.client.do(ctx, req, &res); err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(res.ExpiresIn) * time.Second),
		Viewer:       domain.Viewer{ID: res.User.ID, Email: res.User.Email},
	}
	a.emit(domain.AuthEvent{Kind: domain.SignedIn, Viewer: session.Viewer})
	return session, nil
}

func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	session, err := a.ParseSession(accessToken)
	if err != nil {
		return err
	}
	req := request{method: http.MethodPost, path: "/auth/v1/logout", bearer: accessToken}
	if err := a.client.do(ctx, req, nil); err != nil {
		logrus.Warnf("backend logout failed for %s: %v", session.Viewer.Email, err)
	}
	// 本地状态无论如何都要清理
	a.emit(domain.AuthEvent{Kind: domain.SignedOut, Viewer: session.Viewer})
	return nil
}

func (a *Auth) ParseSession(accessToken string) (domain.Session, error) {
	if accessToken == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	var claims accessClaims
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		logrus.Warnf("rejected access token: %v", err)
		return domain.Session{}, domain.ErrUnauthenticated
	}
	if claims.Subject == "" || claims.Email == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	return domain.Session{
		AccessToken: accessToken,
		ExpiresAt:   claims.ExpiresAt.Time,
		Viewer:      domain.Viewer{ID: claims.Subject, Email: claims.Email},
	}, nil
}

func (a *Auth) OnAuthStateChange(fn func(domain.AuthEvent)) domain.Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return listener{auth: a, id: id}
}

func (a *Auth) emit(e domain.AuthEvent) {
	a.mu.Lock()
	fns := make([]func(domain.AuthEvent), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

type listener struct {
	auth *Auth
	id   int
}

func (l listener) Close() error {
	l.auth.mu.Lock()
	defer l.auth.mu.Unlock()
	delete(l.auth.listeners, l.id)
	return nil
}
