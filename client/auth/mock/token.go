package mock

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
)

// defaultLoginHandler handles POST /user/login with a JSON email/password body
func (s *Service) defaultLoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		write(w, http.StatusMethodNotAllowed, &envelope{Reason: "Method not allowed"})
		return
	}
	credentials := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		write(w, http.StatusBadRequest, &envelope{Reason: "Invalid request body"})
		return
	}
	if credentials.Email != s.Email || credentials.Password != s.Password {
		write(w, http.StatusUnauthorized, &envelope{Reason: "Invalid credentials"})
		return
	}
	atomic.AddInt32(&s.logins, 1)
	s.issue(w, credentials.Email, "")
}

// defaultRefreshHandler handles POST /user/refresh/token with the refresh token as bearer
func (s *Service) defaultRefreshHandler(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.refreshes, 1)
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	refreshClaims, err := s.verify(raw, refreshTokenType)
	if err != nil {
		write(w, http.StatusUnauthorized, &envelope{Reason: "Refresh token rejected"})
		return
	}
	s.issue(w, refreshClaims.Subject, raw)
}

// issue writes a profile carrying a fresh token pair, refreshToken is reused when set
func (s *Service) issue(w http.ResponseWriter, subject, refreshToken string) {
	accessToken, err := s.createJWT(subject, accessTokenType, s.AccessTTL)
	if err != nil {
		write(w, http.StatusInternalServerError, &envelope{Reason: "Server error"})
		return
	}
	if refreshToken == "" {
		if refreshToken, err = s.createJWT(subject, refreshTokenType, s.RefreshTTL); err != nil {
			write(w, http.StatusInternalServerError, &envelope{Reason: "Server error"})
			return
		}
	}
	write(w, http.StatusOK, &envelope{Data: map[string]any{
		"user":          map[string]any{"email": subject},
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	}})
}
