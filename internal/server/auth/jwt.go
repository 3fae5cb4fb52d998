// Package auth holds the server's credential primitives: the signed token
// codec and password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind separates access tokens from refresh tokens. Each kind has its
// own secret and lifetime.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims carries the user identity plus the token kind; the registered
// claims hold exp, iat and a random jti so that two tokens issued to the
// same user in the same second still differ.
type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"uid"`
	Kind   TokenKind `json:"typ"`
}

type keyConfig struct {
	secret   []byte
	validity time.Duration
}

// Codec issues and verifies HS256 tokens.
type Codec struct {
	keys map[TokenKind]keyConfig
	now  func() time.Time
}

// NewCodec builds a Codec. Secrets must be non-empty and distinct, and both
// lifetimes positive.
func NewCodec(accessSecret string, accessValidity time.Duration, refreshSecret string, refreshValidity time.Duration) (*Codec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if accessValidity <= 0 || refreshValidity <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &Codec{
		keys: map[TokenKind]keyConfig{
			AccessToken:  {secret: []byte(accessSecret), validity: accessValidity},
			RefreshToken: {secret: []byte(refreshSecret), validity: refreshValidity},
		},
		now: time.Now,
	}, nil
}

func (c *Codec) IssueAccessToken(userID string) (string, error) {
	return c.issue(userID, AccessToken)
}

func (c *Codec) IssueRefreshToken(userID string) (string, error) {
	return c.issue(userID, RefreshToken)
}

func (c *Codec) issue(userID string, kind TokenKind) (string, error) {
	key, ok := c.keys[kind]
	if !ok {
		return "", common.ErrTokenInvalid
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.validity)),
		},
		UserID: userID,
		Kind:   kind,
	})
	return token.SignedString(key.secret)
}

// Verify checks signature, structure, kind and expiry. It returns
// common.ErrTokenExpired or common.ErrTokenInvalid and never returns
// claims alongside an error.
func (c *Codec) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	key, ok := c.keys[kind]
	if !ok || tokenString == "" {
		return nil, common.ErrTokenInvalid
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	if !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, common.ErrTokenInvalid
	}

	return claims, nil
}
