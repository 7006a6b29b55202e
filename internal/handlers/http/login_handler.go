// internal/handlers/http/login_handler.go
package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dca-oilgas/internal/middleware"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // epoch seconds
	User      string `json:"user"`
	Role      string `json:"role"`
}

type LoginDeps struct {
	User      string
	PassHash  string // bcrypt
	JWTSecret string
	TTL       time.Duration
}

func NewLoginHandler(deps LoginDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if deps.User == "" || deps.PassHash == "" || deps.JWTSecret == "" {
			http.Error(w, "admin not configured", http.StatusForbidden)
			return
		}
		if subtle.ConstantTimeCompare([]byte(in.Username), []byte(deps.User)) != 1 {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(deps.PassHash), []byte(in.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, exp, err := middleware.GenerateAdminToken(deps.JWTSecret, deps.User, deps.TTL)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(loginResp{
			Token:     token,
			ExpiresAt: exp,
			User:      deps.User,
			Role:      "admin",
		})
	}
}
