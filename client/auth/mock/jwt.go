package mock

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenType  = "access_token"
	refreshTokenType = "refresh_token"
)

type claims struct {
	jwt.RegisteredClaims
	Type       string `json:"typ"`
	Generation int    `json:"gen"`
}

// createJWT creates a signed JWT token for subject with the given type and expiry
func (s *Service) createJWT(subject, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Type:       tokenType,
		Generation: s.currentGeneration(),
	})
	return token.SignedString(s.Secret)
}

// verify parses and validates a token of the expected type
func (s *Service) verify(raw, tokenType string) (*claims, error) {
	ret := &claims{}
	_, err := jwt.ParseWithClaims(raw, ret, func(token *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.Issuer))
	if err != nil {
		return nil, err
	}
	if ret.Type != tokenType {
		return nil, fmt.Errorf("unexpected token type: %v", ret.Type)
	}
	return ret, nil
}
