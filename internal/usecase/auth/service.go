package auth

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

// Service runs the passwordless sign in flow against the backend
type Service struct {
	identity   domain.Identity
	redirectTo string
	validate   *validator.Validate
}

func NewService(identity domain.Identity, redirectTo string) *Service {
	return &Service{
		identity:   identity,
		redirectTo: redirectTo,
		validate:   validator.New(),
	}
}

// SignIn asks the backend to mail a magic link / one-time code to email
func (s *Service) SignIn(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.ErrBadParamInput
	}
	if err := s.identity.SignInWithOTP(ctx, email, s.redirectTo); err != nil {
		logrus.Errorf("failed to send sign in code to %s: %v", email, err)
		return err
	}
	return nil
}

func (s *Service) Verify(ctx context.Context, email, token string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.Session{}, domain.ErrBadParamInput
	}
	if token == "" {
		return domain.Session{}, domain.ErrBadParamInput
	}
	return s.identity.VerifyOTP(ctx, email, token)
}

func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return domain.ErrUnauthenticated
	}
	return s.identity.SignOut(ctx, accessToken)
}

// Viewer resolves an access token to the signed-in viewer
func (s *Service) Viewer(accessToken string) (*domain.Viewer, error) {
	session, err := s.identity.ParseSession(accessToken)
	if err != nil {
		return nil, err
	}
	return &session.Viewer, nil
}

// OnSignOut calls fn with every viewer that signs out
func (s *Service) OnSignOut(fn func(domain.Viewer)) domain.Subscription {
	return s.identity.OnAuthStateChange(func(e domain.AuthEvent) {
		if e.Kind == domain.SignedOut {
			fn(e.Viewer)
		}
	})
}
