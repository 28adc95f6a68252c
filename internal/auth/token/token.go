// Package token issues and validates the stateless signed bearer tokens that
// assert an identity between login and expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
)

// Validation failures are split into two kinds so callers can tell a stale
// token from a forged or mangled one.
var (
	ErrTokenExpired = dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	ErrTokenInvalid = dErrors.New(dErrors.CodeUnauthorized, "invalid token")
)

// Claims carried by an access token. The subject is the immutable user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Service signs and validates access tokens with a process-wide symmetric key.
// Rotating the key invalidates every previously issued token; there is no key
// versioning.
type Service struct {
	signingKey []byte
	method     jwt.SigningMethod
	ttl        time.Duration
}

// New constructs a token service. The secret and algorithm come from startup
// configuration; an empty secret or unknown algorithm is a construction error
// so the process fails to start rather than run with validation broken.
func New(secret, algorithm string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	method, err := signingMethod(algorithm)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &Service{
		signingKey: []byte(secret),
		method:     method,
		ttl:        ttl,
	}, nil
}

func signingMethod(algorithm string) (jwt.SigningMethod, error) {
	switch algorithm {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}
}

// TTL reports the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user, valid from issuedAt until
// issuedAt plus the configured TTL.
func (s *Service) Issue(userID id.UserID, issuedAt time.Time) (string, error) {
	newToken := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signedToken, nil
}

// Validate checks signature and expiry against wall-clock time (no leeway)
// and returns the subject user id.
func (s *Service) Validate(tokenString string) (id.UserID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.UserID{}, ErrTokenExpired
		}
		return id.UserID{}, ErrTokenInvalid
	}
	if !parsed.Valid {
		return id.UserID{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return id.UserID{}, ErrTokenInvalid
	}

	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return id.UserID{}, ErrTokenInvalid
	}
	return userID, nil
}
