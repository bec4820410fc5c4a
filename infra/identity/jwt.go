// Package identity verifies signed identity tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/identity"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what a verified token says about its holder.
type Claims struct {
	Identity  identity.Identity
	ExpiresAt time.Time
}

// Verifier checks HS256 tokens whose subject is the identity.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier from the auth configuration.
func NewVerifier(cfg *config.Auth) (*Verifier, error) {
	if cfg == nil || cfg.JwtSecret == "" {
		return nil, fmt.Errorf("identity: jwt secret is required")
	}
	return &Verifier{secret: []byte(cfg.JwtSecret), issuer: cfg.JwtIssuer}, nil
}

// Verify parses and validates a token.
func (v *Verifier) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return Claims{
		Identity:  identity.Identity(claims.Subject),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Sign issues a token for id valid for ttl.
func (v *Verifier) Sign(id identity.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// TokenSource reports the identity of a token, then none once it expires.
type TokenSource struct {
	verifier *Verifier
	token    string
	logger   *slog.Logger
}

// NewTokenSource creates a Source for a single token.
func NewTokenSource(v *Verifier, token string, logger *slog.Logger) *TokenSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenSource{verifier: v, token: token, logger: logger.With("component", "identity")}
}

// Changes emits the token's identity and, when it expires, identity.None.
// An invalid token emits identity.None only.
func (s *TokenSource) Changes(ctx context.Context) <-chan identity.Identity {
	out := make(chan identity.Identity, 1)
	claims, err := s.verifier.Verify(s.token)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, jwt.ErrTokenExpired) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "identity token rejected", "error", err)
		out <- identity.None
		close(out)
		return out
	}

	out <- claims.Identity
	go func() {
		defer close(out)
		timer := time.NewTimer(time.Until(claims.ExpiresAt))
		defer timer.Stop()
		select {
		case <-timer.C:
			s.logger.Info("identity token expired", "identity", claims.Identity)
			select {
			case out <- identity.None:
			case <-ctx.Done():
			}
		case <-ctx.Done():
		}
	}()
	return out
}

var _ identity.Source = (*TokenSource)(nil)
