package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/liftcare-id/liftcare/internal/models"
)

// listLifts returns all lifts, optionally filtered by type, branch or status
func (r *Router) listLifts(w http.ResponseWriter, req *http.Request) {
	q := r.db.Order("created_at DESC")

	if t := req.URL.Query().Get("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if cabang := req.URL.Query().Get("cabang"); cabang != "" {
		q = q.Where("cabang LIKE ?", "%"+cabang+"%")
	}
	if status := req.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var lifts []models.Lift
	if err := q.Find(&lifts).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal memuat data lift")
		return
	}
	respondJSON(w, http.StatusOK, lifts)
}

// getLift returns a single lift by ID
func (r *Router) getLift(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID lift tidak valid")
		return
	}

	var lift models.Lift
	if err := r.db.First(&lift, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Lift tidak ditemukan")
		return
	}
	respondJSON(w, http.StatusOK, lift)
}

// createLift registers a new lift asset (admin/superadmin)
func (r *Router) createLift(w http.ResponseWriter, req *http.Request) {
	var lift models.Lift
	if err := json.NewDecoder(req.Body).Decode(&lift); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}
	if lift.Name == "" || lift.Type == "" {
		respondError(w, http.StatusBadRequest, "Nama dan tipe lift wajib diisi")
		return
	}
	if !models.ValidLiftType(lift.Type) {
		respondError(w, http.StatusBadRequest, "Tipe lift tidak dikenal")
		return
	}

	lift.ID = 0
	if lift.Status == "" {
		lift.Status = "active"
	}
	if err := r.db.Create(&lift).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat lift")
		return
	}

	respondJSON(w, http.StatusCreated, lift)
}

// UpdateLiftRequest uses pointers so absent fields keep their prior values
type UpdateLiftRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Merk     *string `json:"merk"`
	Model    *string `json:"model"`
	Cabang   *string `json:"cabang"`
	Location *string `json:"location"`
	Floors   *int    `json:"floors"`
	Status   *string `json:"status"`
}

// updateLift applies a partial update to a lift (admin/superadmin)
func (r *Router) updateLift(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID lift tidak valid")
		return
	}

	var lift models.Lift
	if err := r.db.First(&lift, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Lift tidak ditemukan")
		return
	}

	var body UpdateLiftRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}

	if body.Name != nil {
		lift.Name = *body.Name
	}
	if body.Type != nil {
		if !models.ValidLiftType(*body.Type) {
			respondError(w, http.StatusBadRequest, "Tipe lift tidak dikenal")
			return
		}
		lift.Type = *body.Type
	}
	if body.Merk != nil {
		lift.Merk = *body.Merk
	}
	if body.Model != nil {
		lift.Model = *body.Model
	}
	if body.Cabang != nil {
		lift.Cabang = *body.Cabang
	}
	if body.Location != nil {
		lift.Location = *body.Location
	}
	if body.Floors != nil {
		lift.Floors = *body.Floors
	}
	if body.Status != nil {
		lift.Status = *body.Status
	}

	if err := r.db.Save(&lift).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal mengupdate lift")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Lift berhasil diupdate"})
}

// deleteLift removes a lift; the database cascades the delete to its
// schedules, reports and QR tokens.
func (r *Router) deleteLift(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID lift tidak valid")
		return
	}

	res := r.db.Delete(&models.Lift{}, id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Gagal menghapus lift")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Lift tidak ditemukan")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Lift berhasil dihapus"})
}
