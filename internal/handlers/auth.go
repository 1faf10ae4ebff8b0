package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/liftcare-id/liftcare/internal/middleware"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles user login. The rate limiter runs before any credential
// work so throttled attempts never touch the password check.
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	if !r.limiter.Allow(clientIP(req)) {
		respondError(w, http.StatusTooManyRequests, "Terlalu banyak percobaan login. Coba lagi dalam 1 menit.")
		return
	}

	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}
	if loginReq.Email == "" || loginReq.Password == "" {
		respondError(w, http.StatusBadRequest, "Email dan password harus diisi")
		return
	}

	var user models.User
	if err := r.db.Where("email = ? AND active = ?", loginReq.Email, true).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Email atau password salah")
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Email atau password salah")
		return
	}

	token, err := utils.GenerateUserToken(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
			"phone": user.Phone,
		},
	})
}

// profile returns the authenticated user's own record
func (r *Router) profile(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())

	var user models.User
	if err := r.db.Select("id, name, email, role, phone, active, created_at").
		First(&user, claims.UserID).Error; err != nil {
		respondError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
