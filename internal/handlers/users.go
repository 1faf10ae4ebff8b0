package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/utils"
	"gorm.io/gorm"
)

const userColumns = "id, name, email, role, phone, active, created_at"

// listUsers returns all users, optionally filtered by role or active flag
func (r *Router) listUsers(w http.ResponseWriter, req *http.Request) {
	q := r.db.Select(userColumns).Order("created_at DESC")

	if role := req.URL.Query().Get("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if active := req.URL.Query().Get("active"); active != "" {
		q = q.Where("active = ?", active == "1" || active == "true")
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal memuat data user")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// getUser returns a single user by ID
func (r *Router) getUser(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID user tidak valid")
		return
	}

	var user models.User
	if err := r.db.Select(userColumns).First(&user, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// CreateUserRequest represents the superadmin user-creation payload
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

// createUser creates a new account (superadmin only)
func (r *Router) createUser(w http.ResponseWriter, req *http.Request) {
	var body CreateUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}
	if body.Name == "" || body.Email == "" || body.Password == "" || body.Role == "" {
		respondError(w, http.StatusBadRequest, "Semua field wajib diisi")
		return
	}
	if !models.ValidRole(body.Role) {
		respondError(w, http.StatusBadRequest, "Role tidak dikenal")
		return
	}

	var existing models.User
	err := r.db.Select("id").Where("email = ?", body.Email).First(&existing).Error
	if err == nil {
		respondError(w, http.StatusConflict, "Email sudah terdaftar")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, "Gagal memeriksa email")
		return
	}

	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal memproses password")
		return
	}

	user := models.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: hashed,
		Role:     body.Role,
		Phone:    body.Phone,
		Active:   true,
	}
	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"phone": user.Phone,
	})
}

// UpdateUserRequest uses pointers so absent fields keep their prior values
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Phone    *string `json:"phone"`
	Active   *bool   `json:"active"`
}

// updateUser applies a partial update to an account (superadmin only).
// Setting active=false is the soft-delete: it blocks login but keeps the
// account's schedule and report history intact.
func (r *Router) updateUser(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID user tidak valid")
		return
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}

	var body UpdateUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}

	if body.Name != nil {
		user.Name = *body.Name
	}
	if body.Email != nil {
		user.Email = *body.Email
	}
	if body.Role != nil {
		if !models.ValidRole(*body.Role) {
			respondError(w, http.StatusBadRequest, "Role tidak dikenal")
			return
		}
		user.Role = *body.Role
	}
	if body.Phone != nil {
		user.Phone = *body.Phone
	}
	if body.Active != nil {
		user.Active = *body.Active
	}
	if body.Password != nil && *body.Password != "" {
		hashed, err := utils.HashPassword(*body.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Gagal memproses password")
			return
		}
		user.Password = hashed
	}

	if err := r.db.Select("name", "email", "role", "phone", "active", "password").
		Save(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal mengupdate user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User berhasil diupdate"})
}

// deleteUser removes an account permanently (superadmin only)
func (r *Router) deleteUser(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID user tidak valid")
		return
	}

	res := r.db.Delete(&models.User{}, id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Gagal menghapus user")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User berhasil dihapus"})
}
