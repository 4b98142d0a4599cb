package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// ErrGoogleTokenInvalid signals that the Google ID token failed verification.
var ErrGoogleTokenInvalid = errors.New("auth: google id token invalid")

// GoogleIdentity describes the verified Google account behind an ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// GoogleVerifier validates Google ID tokens against the configured OAuth client ID.
type GoogleVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// GoogleVerifierOption customises GoogleVerifier behaviour.
type GoogleVerifierOption func(*GoogleVerifier)

// WithGoogleValidator replaces the token validation function (useful for tests).
func WithGoogleValidator(validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)) GoogleVerifierOption {
	return func(v *GoogleVerifier) {
		if validate != nil {
			v.validate = validate
		}
	}
}

// NewGoogleVerifier constructs a verifier bound to the given OAuth client ID.
func NewGoogleVerifier(clientID string, opts ...GoogleVerifierOption) (*GoogleVerifier, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("auth: google client id is required")
	}

	verifier := &GoogleVerifier{
		audience: clientID,
		validate: func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return idtoken.Validate(ctx, token, audience)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(verifier)
		}
	}
	return verifier, nil
}

// Verify validates the raw ID token and extracts the account identity.
func (v *GoogleVerifier) Verify(ctx context.Context, raw string) (GoogleIdentity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GoogleIdentity{}, ErrGoogleTokenInvalid
	}

	payload, err := v.validate(ctx, raw, v.audience)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrGoogleTokenInvalid, err)
	}
	if payload == nil || strings.TrimSpace(payload.Subject) == "" {
		return GoogleIdentity{}, ErrGoogleTokenInvalid
	}

	identity := GoogleIdentity{
		Subject: payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}
	return identity, nil
}

func claimString(claims map[string]any, key string) string {
	if raw, ok := claims[key].(string); ok {
		return strings.TrimSpace(raw)
	}
	return ""
}
