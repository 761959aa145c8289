package mock

import (
	"encoding/json"
	"net/http"
)

const (
	LoginPath   = "/user/login"
	RefreshPath = "/user/refresh/token"
)

// Handler routes HTTP requests to the mock payroll endpoints.
type Handler struct {
	Service *Service
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case LoginPath:
		if h.Service.LoginHandler != nil {
			h.Service.LoginHandler(w, r)
		} else {
			h.Service.defaultLoginHandler(w, r)
		}
	case RefreshPath:
		if h.Service.RefreshHandler != nil {
			h.Service.RefreshHandler(w, r)
		} else {
			h.Service.defaultRefreshHandler(w, r)
		}
	default:
		if h.Service.ResourceHandler != nil {
			h.Service.ResourceHandler(w, r)
		} else {
			h.Service.defaultResourceHandler(w, r)
		}
	}
}

// envelope mirrors the backend response envelope
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Reason     string `json:"reason,omitempty"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func write(w http.ResponseWriter, status int, payload *envelope) {
	payload.StatusCode = status
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
