package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIdentity struct {
	mock.Mock
	listeners []func(domain.AuthEvent)
}

func (m *mockIdentity) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	return m.Called(ctx, email, redirectTo).Error(0)
}

func (m *mockIdentity) VerifyOTP(ctx context.Context, email, token string) (domain.Session, error) {
	args := m.Called(ctx, email, token)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockIdentity) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *mockIdentity) ParseSession(accessToken string) (domain.Session, error) {
	args := m.Called(accessToken)
	return args.Get(0).(domain.Session), args.Error(1)
}

type noopSubscription struct{}

func (noopSubscription) Close() error { return nil }

func (m *mockIdentity) OnAuthStateChange(fn func(domain.AuthEvent)) domain.Subscription {
	m.listeners = append(m.listeners, fn)
	return noopSubscription{}
}

func (m *mockIdentity) emit(e domain.AuthEvent) {
	for _, fn := range m.listeners {
		fn(e)
	}
}

func TestSignIn(t *testing.T) {
	id := new(mockIdentity)
	id.On("SignInWithOTP", mock.Anything, "ada@example.com", "https://app/callback").Return(nil).Once()

	svc := auth.NewService(id, "https://app/callback")
	require.NoError(t, svc.SignIn(context.Background(), " ada@example.com "))
	id.AssertExpectations(t)
}

func TestSignInRejectsInvalidEmail(t *testing.T) {
	id := new(mockIdentity)
	svc := auth.NewService(id, "")

	for _, email := range []string{"", "not-an-email", "@example.com"} {
		assert.ErrorIs(t, svc.SignIn(context.Background(), email), domain.ErrBadParamInput, email)
	}
	id.AssertNotCalled(t, "SignInWithOTP", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignInBackendFailure(t *testing.T) {
	id := new(mockIdentity)
	id.On("SignInWithOTP", mock.Anything, "ada@example.com", "").Return(errors.New("rate limited"))

	err := auth.NewService(id, "").SignIn(context.Background(), "ada@example.com")
	assert.EqualError(t, err, "rate limited")
}

func TestVerify(t *testing.T) {
	id := new(mockIdentity)
	session := domain.Session{AccessToken: "tok", Viewer: domain.Viewer{ID: "u1", Email: "ada@example.com"}}
	id.On("VerifyOTP", mock.Anything, "ada@example.com", "123456").Return(session, nil)
	svc := auth.NewService(id, "")

	got, err := svc.Verify(context.Background(), "ada@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, session, got)

	_, err = svc.Verify(context.Background(), "ada@example.com", " ")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	id.AssertNumberOfCalls(t, "VerifyOTP", 1)
}

func TestViewer(t *testing.T) {
	id := new(mockIdentity)
	id.On("ParseSession", "good").Return(domain.Session{Viewer: domain.Viewer{ID: "u1", Email: "ada@example.com"}}, nil)
	id.On("ParseSession", "bad").Return(domain.Session{}, domain.ErrUnauthenticated)
	svc := auth.NewService(id, "")

	v, err := svc.Viewer("good")
	require.NoError(t, err)
	assert.Equal(t, "ada", v.Handle())

	_, err = svc.Viewer("bad")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSignOut(t *testing.T) {
	id := new(mockIdentity)
	id.On("SignOut", mock.Anything, "tok").Return(nil)
	svc := auth.NewService(id, "")

	var signedOut []string
	svc.OnSignOut(func(v domain.Viewer) { signedOut = append(signedOut, v.ID) })

	require.NoError(t, svc.SignOut(context.Background(), "tok"))
	assert.ErrorIs(t, svc.SignOut(context.Background(), ""), domain.ErrUnauthenticated)

	id.emit(domain.AuthEvent{Kind: domain.SignedIn, Viewer: domain.Viewer{ID: "u2"}})
	id.emit(domain.AuthEvent{Kind: domain.SignedOut, Viewer: domain.Viewer{ID: "u1"}})
	assert.Equal(t, []string{"u1"}, signedOut)
}
