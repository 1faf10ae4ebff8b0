package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/liftcare-id/liftcare/internal/checklist"
	"github.com/liftcare-id/liftcare/internal/middleware"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/services/pdf"
	"github.com/liftcare-id/liftcare/internal/utils"
	"gorm.io/datatypes"
)

// reportListRow is the list view of a report. The checklist payload is
// deliberately excluded: callers needing structure fetch by id.
type reportListRow struct {
	ID             uint      `json:"id"`
	ScheduleID     *uint     `json:"schedule_id"`
	LiftID         uint      `json:"lift_id"`
	TechnicianID   *uint     `json:"technician_id"`
	Type           string    `json:"type"`
	Remarks        string    `json:"remarks"`
	Temperature    string    `json:"temperature"`
	Voltage        string    `json:"voltage"`
	CompletedAt    time.Time `json:"completed_at"`
	LiftName       string    `json:"lift_name"`
	LiftType       string    `json:"lift_type"`
	Cabang         string    `json:"cabang"`
	Merk           string    `json:"merk"`
	Model          string    `json:"model"`
	TechnicianName string    `json:"technician_name"`
}

const reportListColumns = `reports.id, reports.schedule_id, reports.lift_id, reports.technician_id,
	reports.type, reports.remarks, reports.temperature, reports.voltage, reports.completed_at,
	l.name AS lift_name, l.type AS lift_type, l.cabang, l.merk, l.model,
	u.name AS technician_name`

// listReports returns report summaries. Technicians only see their own.
func (r *Router) listReports(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())

	q := r.db.Table("reports").
		Select(reportListColumns).
		Joins("LEFT JOIN lifts l ON reports.lift_id = l.id").
		Joins("LEFT JOIN users u ON reports.technician_id = u.id")

	if claims.Role == models.RoleTeknisi && !claims.QRAccess {
		q = q.Where("reports.technician_id = ?", claims.UserID)
	}
	if claims.QRAccess {
		q = q.Where("reports.lift_id = ?", claims.LiftID)
	}

	query := req.URL.Query()
	if t := query.Get("type"); t != "" {
		q = q.Where("reports.type = ?", t)
	}
	if tech := query.Get("technician_id"); tech != "" {
		q = q.Where("reports.technician_id = ?", tech)
	}
	if lift := query.Get("lift_id"); lift != "" {
		q = q.Where("reports.lift_id = ?", lift)
	}
	if from := query.Get("date_from"); from != "" {
		q = q.Where("reports.completed_at >= ?", from)
	}
	if to := query.Get("date_to"); to != "" {
		q = q.Where("reports.completed_at <= ?", to)
	}

	var rows []reportListRow
	if err := q.Order("reports.completed_at DESC").Scan(&rows).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal memuat laporan")
		return
	}
	if rows == nil {
		rows = []reportListRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// reportRow is a report with joined display fields for the detail view
type reportRow struct {
	models.Report
	LiftName        string `json:"lift_name"`
	LiftType        string `json:"lift_type"`
	Cabang          string `json:"cabang"`
	Merk            string `json:"merk"`
	Model           string `json:"model"`
	Location        string `json:"location"`
	TechnicianName  string `json:"technician_name"`
	TechnicianPhone string `json:"technician_phone"`
}

func (r *Router) loadReportRow(claims *utils.Claims, id uint64) (*reportRow, bool) {
	var row reportRow
	res := r.db.Table("reports").
		Select(`reports.*, l.name AS lift_name, l.type AS lift_type, l.cabang, l.merk,
			l.model, l.location, u.name AS technician_name, u.phone AS technician_phone`).
		Joins("LEFT JOIN lifts l ON reports.lift_id = l.id").
		Joins("LEFT JOIN users u ON reports.technician_id = u.id").
		Where("reports.id = ?", id).Scan(&row)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, false
	}

	if claims.QRAccess {
		if row.LiftID != claims.LiftID {
			return nil, false
		}
	} else if claims.Role == models.RoleTeknisi {
		if row.TechnicianID == nil || *row.TechnicianID != claims.UserID {
			return nil, false
		}
	}
	return &row, true
}

// getReport returns one report with its checklist deserialized into the
// structured document.
func (r *Router) getReport(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID laporan tidak valid")
		return
	}

	row, ok := r.loadReportRow(claims, id)
	if !ok {
		respondError(w, http.StatusNotFound, "Laporan tidak ditemukan")
		return
	}

	doc, err := checklist.Parse(row.ChecklistData)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Checklist laporan tidak dapat dibaca")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		reportRow
		ChecklistData *checklist.Document `json:"checklist_data"`
	}{*row, doc})
}

// CreateReportRequest represents a maintenance report submission
type CreateReportRequest struct {
	ScheduleID     *uint           `json:"schedule_id"`
	LiftID         uint            `json:"lift_id"`
	Type           string          `json:"type"`
	ChecklistData  json.RawMessage `json:"checklist_data"`
	Remarks        string          `json:"remarks"`
	Temperature    string          `json:"temperature"`
	Voltage        string          `json:"voltage"`
	TechnicianSign string          `json:"technician_sign"`
	ManagerSign    string          `json:"manager_sign"`
	CustomerSign   string          `json:"customer_sign"`
}

// createReport persists a submitted maintenance report. Reports are
// append-only. Side effects: the referenced schedule is marked completed
// and the submitter's autosave draft is discarded.
func (r *Router) createReport(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())

	var body CreateReportRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Payload tidak valid")
		return
	}
	if body.LiftID == 0 || body.Type == "" || len(body.ChecklistData) == 0 {
		respondError(w, http.StatusBadRequest, "Data lift, tipe, dan checklist wajib diisi")
		return
	}

	// A QR session is scoped to exactly one lift
	if claims.IsQRSentinel() && claims.LiftID != body.LiftID {
		respondError(w, http.StatusForbidden, "Akses ditolak")
		return
	}

	doc, err := checklist.Parse(body.ChecklistData)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Checklist tidak dapat dibaca")
		return
	}
	if err := checklist.Validate(body.Type, doc); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var technicianID *uint
	if !claims.IsQRSentinel() {
		id := claims.UserID
		technicianID = &id
	}

	report := models.Report{
		ScheduleID:     body.ScheduleID,
		LiftID:         body.LiftID,
		TechnicianID:   technicianID,
		Type:           body.Type,
		ChecklistData:  datatypes.JSON(body.ChecklistData),
		Remarks:        body.Remarks,
		Temperature:    body.Temperature,
		Voltage:        body.Voltage,
		TechnicianSign: body.TechnicianSign,
		ManagerSign:    body.ManagerSign,
		CustomerSign:   body.CustomerSign,
	}
	if err := r.db.Create(&report).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal menyimpan laporan")
		return
	}

	// Auto-complete the referenced schedule regardless of its prior state
	if body.ScheduleID != nil {
		err := r.db.Model(&models.Schedule{}).Where("id = ?", *body.ScheduleID).
			Update("status", models.ScheduleStatusCompleted).Error
		if err != nil {
			log.Printf("report %d: failed to complete schedule %d: %v", report.ID, *body.ScheduleID, err)
		}
	}

	// Commit semantics: a successful submit discards the autosave draft
	formKey := fmt.Sprintf("lift:%d", body.LiftID)
	if body.ScheduleID != nil {
		formKey = fmt.Sprintf("schedule:%d", *body.ScheduleID)
	}
	if err := r.drafts.Clear(ownerKey(claims), formKey); err != nil {
		log.Printf("report %d: failed to clear draft %s: %v", report.ID, formKey, err)
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      report.ID,
		"message": "Laporan berhasil disimpan",
	})
}

// renderReportPDF assembles the downloadable report document on demand.
// Signatures are supplied by the client at render time and are never
// persisted; zero, one or two are all valid.
func (r *Router) renderReportPDF(w http.ResponseWriter, req *http.Request) {
	claims := middleware.ClaimsFrom(req.Context())
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID laporan tidak valid")
		return
	}

	row, ok := r.loadReportRow(claims, id)
	if !ok {
		respondError(w, http.StatusNotFound, "Laporan tidak ditemukan")
		return
	}

	var body struct {
		Signatures pdf.Signatures `json:"signatures"`
	}
	if req.Body != nil {
		// An empty body means an unsigned document
		_ = json.NewDecoder(req.Body).Decode(&body)
	}

	doc, err := checklist.Parse(row.ChecklistData)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Checklist laporan tidak dapat dibaca")
		return
	}

	data := pdf.ReportData{
		ID:          row.ID,
		Type:        row.Type,
		CompletedAt: row.CompletedAt,
		Remarks:     row.Remarks,
		Temperature: row.Temperature,
		Voltage:     row.Voltage,
		LiftName:    row.LiftName,
		Merk:        row.Merk,
		Model:       row.Model,
		Cabang:      row.Cabang,
		Location:    row.Location,
		Checklist:   doc,
	}

	out, err := pdf.RenderReport(data, body.Signatures)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Gagal membuat dokumen PDF")
		return
	}

	filename := pdf.Filename(row.Type, row.ID, body.Signatures.Any())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// getChecklistTemplate serves the empty checklist document and condition
// set for a lift type, used by both logged-in and QR-session forms.
func (r *Router) getChecklistTemplate(w http.ResponseWriter, req *http.Request) {
	liftType := mux.Vars(req)["type"]

	template, err := checklist.TemplateFor(liftType)
	if err != nil {
		respondError(w, http.StatusNotFound, "Tipe checklist tidak ditemukan")
		return
	}
	conditions, _ := checklist.ConditionsFor(liftType)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"type":       liftType,
		"template":   template,
		"conditions": conditions,
	})
}

// reportStats aggregates the dashboard counters and short lists
func (r *Router) reportStats(w http.ResponseWriter, req *http.Request) {
	var (
		totalLifts         int64
		totalSchedules     int64
		pendingSchedules   int64
		completedSchedules int64
		totalReports       int64
		totalTechnicians   int64
	)

	r.db.Model(&models.Lift{}).Where("status = ?", "active").Count(&totalLifts)
	r.db.Model(&models.Schedule{}).Count(&totalSchedules)
	r.db.Model(&models.Schedule{}).
		Where("status IN ?", []string{models.ScheduleStatusScheduled, models.ScheduleStatusInProgress}).
		Count(&pendingSchedules)
	r.db.Model(&models.Schedule{}).
		Where("status = ?", models.ScheduleStatusCompleted).Count(&completedSchedules)
	r.db.Model(&models.Report{}).Count(&totalReports)
	r.db.Model(&models.User{}).
		Where("role = ? AND active = ?", models.RoleTeknisi, true).Count(&totalTechnicians)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totalLifts":         totalLifts,
		"totalSchedules":     totalSchedules,
		"pendingSchedules":   pendingSchedules,
		"completedSchedules": completedSchedules,
		"totalReports":       totalReports,
		"totalTechnicians":   totalTechnicians,
		"monthlyReports":     r.monthlyReportCounts(),
		"recentReports":      r.recentReports(),
		"upcomingSchedules":  r.upcomingSchedules(),
	})
}

type monthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// monthlyReportCounts groups report volume by month in Go to stay
// portable across the postgres and sqlite dialects.
func (r *Router) monthlyReportCounts() []monthlyCount {
	var stamps []time.Time
	r.db.Model(&models.Report{}).Order("completed_at DESC").Pluck("completed_at", &stamps)

	byMonth := make(map[string]int)
	order := []string{}
	for _, t := range stamps {
		month := t.Format("2006-01")
		if _, seen := byMonth[month]; !seen {
			if len(order) == 6 {
				continue
			}
			order = append(order, month)
		}
		byMonth[month]++
	}

	out := make([]monthlyCount, 0, len(order))
	for _, m := range order {
		out = append(out, monthlyCount{Month: m, Count: byMonth[m]})
	}
	return out
}

func (r *Router) recentReports() []reportListRow {
	var rows []reportListRow
	r.db.Table("reports").
		Select(reportListColumns).
		Joins("LEFT JOIN lifts l ON reports.lift_id = l.id").
		Joins("LEFT JOIN users u ON reports.technician_id = u.id").
		Order("reports.completed_at DESC").Limit(5).Scan(&rows)
	if rows == nil {
		rows = []reportListRow{}
	}
	return rows
}

func (r *Router) upcomingSchedules() []scheduleRow {
	var rows []scheduleRow
	r.scheduleQuery().
		Where("schedules.status IN ?", []string{models.ScheduleStatusScheduled, models.ScheduleStatusInProgress}).
		Where("schedules.scheduled_date > ?", time.Now().Format("2006-01-02")).
		Order("schedules.scheduled_date ASC").Limit(5).Scan(&rows)
	if rows == nil {
		rows = []scheduleRow{}
	}
	return rows
}
