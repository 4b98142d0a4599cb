package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/repositories"
)

var (
	// ErrAuthInvalidToken indicates the Google ID token failed verification.
	ErrAuthInvalidToken = errors.New("auth: invalid google token")
	// ErrAuthUserNotFound indicates the session references an unknown account.
	ErrAuthUserNotFound = errors.New("auth: user not found")
	// ErrAuthRepositoryFailure wraps unexpected repository failures.
	ErrAuthRepositoryFailure = errors.New("auth: repository failure")
)

// GoogleTokenVerifier validates a Google ID token and returns its identity.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (auth.GoogleIdentity, error)
}

// SessionIssuer mints an API token for the given account.
type SessionIssuer interface {
	Issue(subject, email, name string) (string, time.Time, error)
}

// AuthServiceDeps wires dependencies for the auth service implementation.
type AuthServiceDeps struct {
	Registry repositories.Registry
	Google   GoogleTokenVerifier
	Issuer   SessionIssuer
	Clock    func() time.Time
}

type authService struct {
	registry repositories.Registry
	google   GoogleTokenVerifier
	issuer   SessionIssuer
	clock    func() time.Time
}

// NewAuthService constructs an AuthService backed by the provided dependencies.
func NewAuthService(deps AuthServiceDeps) (AuthService, error) {
	if deps.Registry == nil {
		return nil, errors.New("auth service: registry is required")
	}
	if deps.Google == nil {
		return nil, errors.New("auth service: google verifier is required")
	}
	if deps.Issuer == nil {
		return nil, errors.New("auth service: session issuer is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &authService{
		registry: deps.Registry,
		google:   deps.Google,
		issuer:   deps.Issuer,
		clock: func() time.Time {
			return clock().UTC()
		},
	}, nil
}

// LoginWithGoogle verifies the Google ID token, provisions or links the local
// account, stamps its last login, and mints an API session token.
func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (AuthSession, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return AuthSession{}, fmt.Errorf("%w: token is required", ErrAuthInvalidToken)
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return AuthSession{}, fmt.Errorf("%w: %v", ErrAuthInvalidToken, err)
	}

	var user domain.User
	err = s.registry.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.resolveUser(ctx, identity)
		return err
	})
	if err != nil {
		return AuthSession{}, err
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.Email, user.DisplayName)
	if err != nil {
		return AuthSession{}, fmt.Errorf("auth: issue token: %w", err)
	}

	return AuthSession{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.registry.Users().FindByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.User{}, fmt.Errorf("%w: %s", ErrAuthUserNotFound, userID)
		}
		return domain.User{}, fmt.Errorf("%w: %v", ErrAuthRepositoryFailure, err)
	}
	return user, nil
}

// resolveUser finds the account for the verified identity, linking by email
// when the Google subject is new, and creating the account when neither
// matches.
func (s *authService) resolveUser(ctx context.Context, identity auth.GoogleIdentity) (domain.User, error) {
	now := s.clock()

	user, err := s.registry.Users().FindByGoogleID(ctx, identity.Subject)
	switch {
	case err == nil:
		user.Email = identity.Email
		user.DisplayName = identity.Name
		user.PictureURL = identity.Picture
		user.LastLoginAt = &now
		return s.saveUser(ctx, user)
	case !repositories.IsNotFound(err):
		return domain.User{}, fmt.Errorf("%w: %v", ErrAuthRepositoryFailure, err)
	}

	user, err = s.registry.Users().FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		user.GoogleID = identity.Subject
		user.DisplayName = identity.Name
		user.PictureURL = identity.Picture
		user.LastLoginAt = &now
		return s.saveUser(ctx, user)
	case !repositories.IsNotFound(err):
		return domain.User{}, fmt.Errorf("%w: %v", ErrAuthRepositoryFailure, err)
	}

	created, err := s.registry.Users().Insert(ctx, domain.User{
		ID:          ulid.Make().String(),
		GoogleID:    identity.Subject,
		Email:       identity.Email,
		DisplayName: identity.Name,
		PictureURL:  identity.Picture,
		LastLoginAt: &now,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrAuthRepositoryFailure, err)
	}
	return created, nil
}

func (s *authService) saveUser(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := s.registry.Users().Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrAuthRepositoryFailure, err)
	}
	return updated, nil
}
