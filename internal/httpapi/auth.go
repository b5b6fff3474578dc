package httpapi

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quadroapp/quadro/internal/platform/config"
	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
)

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer    string `env:"QUADRO_AUTH_ISSUER"`
	Audience  string `env:"QUADRO_AUTH_AUDIENCE"`
	PublicKey string `env:"QUADRO_AUTH_PUBLIC_KEY"`
}

// TokenVerifierConfig defines how bearer tokens are verified.
type TokenVerifierConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Claims captures the validated identity of a bearer token.
type Claims struct {
	UserID string
	Email  string
	Name   string
}

// accessClaims is the internal claims type used for JWT parsing.
type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoadTokenVerifierConfigFromEnv reads bearer token verification
// configuration.
func LoadTokenVerifierConfigFromEnv(now func() time.Time) (TokenVerifierConfig, error) {
	var raw tokenEnv
	if err := config.ParseEnv(&raw); err != nil {
		return TokenVerifierConfig{}, err
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return TokenVerifierConfig{}, fmt.Errorf("QUADRO_AUTH_ISSUER is required")
	}
	if audience == "" {
		return TokenVerifierConfig{}, fmt.Errorf("QUADRO_AUTH_AUDIENCE is required")
	}
	if publicKey == "" {
		return TokenVerifierConfig{}, fmt.Errorf("QUADRO_AUTH_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return TokenVerifierConfig{}, fmt.Errorf("decode auth public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return TokenVerifierConfig{}, fmt.Errorf("auth public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return TokenVerifierConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyToken verifies one bearer token and returns its identity claims.
func VerifyToken(token string, cfg TokenVerifierConfig) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "bearer token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("token verifier is not configured")
	}

	var parsed accessClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token issuer mismatch")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token audience mismatch")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token exp is required")
	}

	now := cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token not active yet")
	}

	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token sub is required")
	}

	return Claims{
		UserID: subject,
		Email:  strings.TrimSpace(parsed.Email),
		Name:   strings.TrimSpace(parsed.Name),
	}, nil
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeUnauthenticated, "token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeUnauthenticated, "token alg is invalid")
	}
	return apperrors.New(apperrors.CodeUnauthenticated, "token is invalid")
}

// audienceContains reports whether the audience list contains the value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
