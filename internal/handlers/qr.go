package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/liftcare-id/liftcare/internal/middleware"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/services/pdf"
	"github.com/liftcare-id/liftcare/internal/utils"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// liftSnapshot is the denormalized lift view returned with QR responses
type liftSnapshot struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Merk     string `json:"merk"`
	Model    string `json:"model"`
	Cabang   string `json:"cabang"`
	Location string `json:"location"`
	Floors   int    `json:"floors"`
}

func snapshotLift(l *models.Lift) liftSnapshot {
	return liftSnapshot{
		ID:       l.ID,
		Name:     l.Name,
		Type:     l.Type,
		Merk:     l.Merk,
		Model:    l.Model,
		Cabang:   l.Cabang,
		Location: l.Location,
		Floors:   l.Floors,
	}
}

// GenerateQRRequest represents the token-generation payload
type GenerateQRRequest struct {
	LiftID uint `json:"lift_id"`
}

// generateQRToken mints the lift's access token + PIN pair. Idempotent:
// if an active token already exists it is returned unchanged, so a
// previously printed decal is never invalidated by a repeat call.
func (r *Router) generateQRToken(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())

	var body GenerateQRRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}
	if body.LiftID == 0 {
		respondError(w, http.StatusBadRequest, "lift_id wajib diisi")
		return
	}

	var lift models.Lift
	if err := r.db.First(&lift, body.LiftID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Lift tidak ditemukan")
		return
	}

	var existing models.QRToken
	err := r.db.Where("lift_id = ? AND active = ?", body.LiftID, true).First(&existing).Error
	if err == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"token": existing.Token,
			"pin":   existing.Pin,
			"lift":  snapshotLift(&lift),
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, "Gagal memeriksa token")
		return
	}

	token, err := utils.RandomHex(16)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat token")
		return
	}
	pin, err := utils.RandomPin()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat PIN")
		return
	}

	qrToken := models.QRToken{
		LiftID:    body.LiftID,
		Token:     token,
		Pin:       pin,
		CreatedBy: claims.UserID,
		Active:    true,
	}
	if err := r.db.Create(&qrToken).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal menyimpan token")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"pin":   pin,
		"lift":  snapshotLift(&lift),
	})
}

// ValidateQRRequest carries the PIN challenge answer
type ValidateQRRequest struct {
	Pin string `json:"pin"`
}

// validateQRToken is the public PIN challenge. The token in the URL is
// the discoverable artifact from the scanned decal; the PIN is the
// secret. Success mints the 4-hour sentinel session scoped to the lift.
func (r *Router) validateQRToken(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]

	pin := req.URL.Query().Get("pin")
	if req.Method == http.MethodPost && req.Body != nil {
		var body ValidateQRRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err == nil && body.Pin != "" {
			pin = body.Pin
		}
	}
	if pin == "" {
		respondError(w, http.StatusBadRequest, "PIN wajib diisi")
		return
	}

	var qrToken models.QRToken
	err := r.db.Where("token = ? AND active = ?", token, true).First(&qrToken).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "QR code tidak valid atau sudah tidak aktif")
		return
	}

	if qrToken.Pin != pin {
		respondError(w, http.StatusUnauthorized, "PIN salah")
		return
	}

	if qrToken.Expired(time.Now()) {
		respondError(w, http.StatusGone, "QR code sudah kedaluwarsa")
		return
	}

	var lift models.Lift
	if err := r.db.First(&lift, qrToken.LiftID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Lift tidak ditemukan")
		return
	}

	session, err := utils.GenerateQRSessionToken(qrToken.LiftID, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": session,
		"lift":  snapshotLift(&lift),
	})
}

// qrTokenImage serves the raw QR code PNG for a token (admin)
func (r *Router) qrTokenImage(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]

	var qrToken models.QRToken
	if err := r.db.Where("token = ?", token).First(&qrToken).Error; err != nil {
		respondError(w, http.StatusNotFound, "Token tidak ditemukan")
		return
	}

	url := fmt.Sprintf("%s/qr-access/%s", r.cfg.PublicURL, qrToken.Token)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// qrDecal renders the printable A5 access decal for a lift (admin).
// The lift needs an active token first; generate one before printing.
func (r *Router) qrDecal(w http.ResponseWriter, req *http.Request) {
	liftID, err := strconv.ParseUint(mux.Vars(req)["liftID"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID lift tidak valid")
		return
	}

	var lift models.Lift
	if err := r.db.First(&lift, liftID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Lift tidak ditemukan")
		return
	}

	var qrToken models.QRToken
	if err := r.db.Where("lift_id = ? AND active = ?", liftID, true).First(&qrToken).Error; err != nil {
		respondError(w, http.StatusNotFound, "Lift belum memiliki token QR aktif")
		return
	}

	out, err := pdf.RenderDecal(pdf.DecalData{
		Lift:      lift,
		Token:     qrToken.Token,
		Pin:       qrToken.Pin,
		PublicURL: r.cfg.PublicURL,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat dokumen PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("qr-decal-lift-%d.pdf", lift.ID)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
