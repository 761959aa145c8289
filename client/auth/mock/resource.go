package mock

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// defaultResourceHandler simulates protected payroll resources
func (s *Service) defaultResourceHandler(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		write(w, http.StatusUnauthorized, &envelope{Reason: "Invalid credentials"})
		return
	}
	accessClaims, err := s.verify(strings.TrimPrefix(authHeader, "Bearer "), accessTokenType)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		write(w, http.StatusUnauthorized, &envelope{Reason: "The Token has expired"})
		return
	case err != nil:
		write(w, http.StatusUnauthorized, &envelope{Reason: "Invalid credentials"})
		return
	case accessClaims.Generation < s.currentGeneration():
		write(w, http.StatusUnauthorized, &envelope{Reason: "The Token has expired"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		if payload, ok := s.Resources[r.URL.Path]; ok {
			write(w, http.StatusOK, &envelope{Data: payload})
			return
		}
		write(w, http.StatusOK, &envelope{Data: r.URL.Path})
	default:
		write(w, http.StatusOK, &envelope{Message: r.Method + " " + r.URL.Path})
	}
}
