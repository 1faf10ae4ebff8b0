package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/liftcare-id/liftcare/internal/draft"
	"github.com/liftcare-id/liftcare/internal/middleware"
	"github.com/liftcare-id/liftcare/internal/utils"
	"gorm.io/datatypes"
)

// ownerKey scopes drafts to an identity: QR sessions share one draft per
// lift, logged-in users get one per account.
func ownerKey(claims *utils.Claims) string {
	if claims.IsQRSentinel() {
		return fmt.Sprintf("qr:%d", claims.LiftID)
	}
	return fmt.Sprintf("user:%d", claims.UserID)
}

// getDraft returns the saved form draft for a schedule or lift key
func (r *Router) getDraft(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	formKey := mux.Vars(req)["formKey"]

	payload, err := r.drafts.Get(ownerKey(claims), formKey)
	if errors.Is(err, draft.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Draft tidak ditemukan")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal memuat draft")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// putDraft saves in-progress form state so a reload or lost connection
// does not discard work. The payload is stored verbatim.
func (r *Router) putDraft(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	formKey := mux.Vars(req)["formKey"]

	payload, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	if err != nil || !json.Valid(payload) {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}

	if err := r.drafts.Put(ownerKey(claims), formKey, datatypes.JSON(payload)); err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal menyimpan draft")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Draft tersimpan"})
}

// deleteDraft discards a saved draft explicitly
func (r *Router) deleteDraft(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	formKey := mux.Vars(req)["formKey"]

	if err := r.drafts.Clear(ownerKey(claims), formKey); err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal menghapus draft")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Draft dihapus"})
}
