package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/liftcare-id/liftcare/internal/checklist"
	"github.com/liftcare-id/liftcare/internal/middleware"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/utils"
	"gorm.io/gorm"
)

// scheduleRow is a schedule with the joined display fields list and
// detail views return.
type scheduleRow struct {
	models.Schedule
	LiftName        string `json:"lift_name"`
	LiftType        string `json:"lift_type"`
	Cabang          string `json:"cabang"`
	Merk            string `json:"merk"`
	TechnicianName  string `json:"technician_name"`
	TechnicianPhone string `json:"technician_phone"`
	CreatedByName   string `json:"created_by_name,omitempty"`
}

func (r *Router) scheduleQuery() *gorm.DB {
	return r.db.Table("schedules").
		Select(`schedules.*, l.name AS lift_name, l.type AS lift_type, l.cabang, l.merk,
			u.name AS technician_name, u.phone AS technician_phone, c.name AS created_by_name`).
		Joins("LEFT JOIN lifts l ON schedules.lift_id = l.id").
		Joins("LEFT JOIN users u ON schedules.technician_id = u.id").
		Joins("LEFT JOIN users c ON schedules.created_by = c.id")
}

// listSchedules returns maintenance visits. Technicians only ever see
// their own assignments; admins see everything.
func (r *Router) listSchedules(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	q := r.scheduleQuery()

	if claims.Role == models.RoleTeknisi {
		q = q.Where("schedules.technician_id = ?", claims.UserID)
	}

	query := req.URL.Query()
	if status := query.Get("status"); status != "" {
		q = q.Where("schedules.status = ?", status)
	}
	if tech := query.Get("technician_id"); tech != "" {
		q = q.Where("schedules.technician_id = ?", tech)
	}
	if lift := query.Get("lift_id"); lift != "" {
		q = q.Where("schedules.lift_id = ?", lift)
	}
	if from := query.Get("date_from"); from != "" {
		q = q.Where("schedules.scheduled_date >= ?", from)
	}
	if to := query.Get("date_to"); to != "" {
		q = q.Where("schedules.scheduled_date <= ?", to)
	}

	var rows []scheduleRow
	if err := q.Order("schedules.scheduled_date DESC").Scan(&rows).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal memuat jadwal")
		return
	}
	if rows == nil {
		rows = []scheduleRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// loadScheduleRow fetches one schedule with joins, hiding rows a
// technician is not assigned to.
func (r *Router) loadScheduleRow(claims *utils.Claims, id uint64) (*scheduleRow, bool) {
	var row scheduleRow
	res := r.scheduleQuery().Where("schedules.id = ?", id).Scan(&row)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, false
	}
	if claims.Role == models.RoleTeknisi && !claims.QRAccess && row.TechnicianID != claims.UserID {
		// Not found rather than forbidden: no existence leak across technicians
		return nil, false
	}
	return &row, true
}

// getSchedule returns a single maintenance visit
func (r *Router) getSchedule(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID jadwal tidak valid")
		return
	}

	row, ok := r.loadScheduleRow(claims, id)
	if !ok {
		respondError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// openScheduleForm serves the maintenance form bundle for a visit:
// the schedule, its lift and the empty checklist template for the lift
// type. Opening a scheduled visit transitions it to in_progress as a
// best-effort side effect; a failed transition is logged, never surfaced,
// and never blocks form access.
func (r *Router) openScheduleForm(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID jadwal tidak valid")
		return
	}

	row, ok := r.loadScheduleRow(claims, id)
	if !ok {
		respondError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
		return
	}
	if claims.QRAccess && claims.LiftID != row.LiftID {
		respondError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
		return
	}

	if row.Status == models.ScheduleStatusScheduled {
		err := r.db.Model(&models.Schedule{}).Where("id = ?", row.ID).
			Update("status", models.ScheduleStatusInProgress).Error
		if err != nil {
			log.Printf("schedule %d: failed to mark in_progress: %v", row.ID, err)
		} else {
			row.Status = models.ScheduleStatusInProgress
		}
	}

	var lift models.Lift
	if err := r.db.First(&lift, row.LiftID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Lift tidak ditemukan")
		return
	}

	template, err := checklist.TemplateFor(lift.Type)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal memuat template checklist")
		return
	}
	conditions, _ := checklist.ConditionsFor(lift.Type)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"schedule":   row,
		"lift":       lift,
		"template":   template,
		"conditions": conditions,
	})
}

// CreateScheduleRequest represents the visit-creation payload
type CreateScheduleRequest struct {
	LiftID        uint   `json:"lift_id"`
	TechnicianID  uint   `json:"technician_id"`
	ScheduledDate string `json:"scheduled_date"`
	Notes         string `json:"notes"`
}

// createSchedule plans a maintenance visit (admin/superadmin)
func (r *Router) createSchedule(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())

	var body CreateScheduleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}
	if body.LiftID == 0 || body.TechnicianID == 0 || body.ScheduledDate == "" {
		respondError(w, http.StatusBadRequest, "Lift, teknisi, dan tanggal wajib diisi")
		return
	}

	schedule := models.Schedule{
		LiftID:        body.LiftID,
		TechnicianID:  body.TechnicianID,
		ScheduledDate: body.ScheduledDate,
		Status:        models.ScheduleStatusScheduled,
		Notes:         body.Notes,
		CreatedBy:     claims.UserID,
	}
	if err := r.db.Create(&schedule).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat jadwal")
		return
	}

	respondJSON(w, http.StatusCreated, schedule)
}

// UpdateScheduleRequest uses pointers so absent fields keep prior values
type UpdateScheduleRequest struct {
	LiftID        *uint   `json:"lift_id"`
	TechnicianID  *uint   `json:"technician_id"`
	ScheduledDate *string `json:"scheduled_date"`
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
}

// updateSchedule applies a partial update; any authenticated holder of
// the schedule may change status or fields.
func (r *Router) updateSchedule(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID jadwal tidak valid")
		return
	}

	var schedule models.Schedule
	if err := r.db.First(&schedule, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
		return
	}

	var body UpdateScheduleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}

	if body.LiftID != nil {
		schedule.LiftID = *body.LiftID
	}
	if body.TechnicianID != nil {
		schedule.TechnicianID = *body.TechnicianID
	}
	if body.ScheduledDate != nil {
		schedule.ScheduledDate = *body.ScheduledDate
	}
	if body.Status != nil {
		if !models.ValidScheduleStatus(*body.Status) {
			respondError(w, http.StatusBadRequest, "Status jadwal tidak dikenal")
			return
		}
		schedule.Status = *body.Status
	}
	if body.Notes != nil {
		schedule.Notes = *body.Notes
	}

	if err := r.db.Select("lift_id", "technician_id", "scheduled_date", "status", "notes").
		Save(&schedule).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal mengupdate jadwal")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Jadwal berhasil diupdate"})
}

// deleteSchedule removes a planned visit (admin/superadmin)
func (r *Router) deleteSchedule(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID jadwal tidak valid")
		return
	}

	res := r.db.Delete(&models.Schedule{}, id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Gagal menghapus jadwal")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Jadwal berhasil dihapus"})
}
