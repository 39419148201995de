package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnauthenticated is returned when no credential was presented at all.
	ErrUnauthenticated = errors.New("no credential presented")
	// ErrInvalidCredential is returned when a credential fails integrity or
	// expiry checks.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Identity is the verified caller identity extracted from a credential.
type Identity struct {
	UserID int64
}

// Verifier validates opaque bearer credentials presented at connection time.
type Verifier struct {
	cfg *JWTConfig
}

// NewVerifier creates a credential verifier backed by the given JWT config.
func NewVerifier(cfg *JWTConfig) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify checks the raw credential and extracts the caller identity.
// An absent credential yields ErrUnauthenticated; a credential that fails
// signature, structure, or expiry checks yields ErrInvalidCredential. Any
// other fault is returned wrapped, unclassified, for the caller to log.
func (v *Verifier) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.cfg.Secret, nil
	})
	if err != nil {
		if isCredentialFault(err) {
			return Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
		}
		return Identity{}, fmt.Errorf("verify credential: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("%w: unexpected claims", ErrInvalidCredential)
	}
	if v.cfg.Issuer != "" && claims.Issuer != v.cfg.Issuer {
		return Identity{}, fmt.Errorf("%w: wrong issuer", ErrInvalidCredential)
	}
	if claims.UserID <= 0 {
		return Identity{}, fmt.Errorf("%w: missing user id claim", ErrInvalidCredential)
	}

	return Identity{UserID: claims.UserID}, nil
}

// isCredentialFault reports whether the parse error is the token's fault, as
// opposed to a fault in the verification machinery itself.
func isCredentialFault(err error) bool {
	return errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenExpired) ||
		errors.Is(err, jwt.ErrTokenNotValidYet) ||
		errors.Is(err, jwt.ErrTokenInvalidClaims)
}
