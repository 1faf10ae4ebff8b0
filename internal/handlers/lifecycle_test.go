package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/liftcare-id/liftcare/internal/checklist"
	"github.com/liftcare-id/liftcare/internal/models"
)

// TestMaintenanceLifecycle walks the whole flow: an admin registers a
// lift and plans a visit, the technician logs in, opens the form,
// autosaves, submits the report, and the signed document renders.
func TestMaintenanceLifecycle(t *testing.T) {
	router, db := newTestRouter(t)
	_, adminToken := seedUser(t, db, "Admin", "admin@liftcare.com", models.RoleAdmin)
	tech, _ := seedUser(t, db, "Budi", "budi@liftcare.com", models.RoleTeknisi)

	// Technician signs in through the API
	rec := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"email": "budi@liftcare.com", "password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Login: expected 200, got %d", rec.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)
	techToken := login.Token

	// Admin registers the lift
	rec = doJSON(t, router, "POST", "/api/lifts", adminToken, map[string]interface{}{
		"name": "Lift Penumpang 1", "type": models.LiftTypePassenger,
		"merk": "Mitsubishi", "cabang": "Bandung", "floors": 12,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create lift: expected 201, got %d", rec.Code)
	}
	var lift models.Lift
	decode(t, rec, &lift)

	// Admin plans the visit
	rec = doJSON(t, router, "POST", "/api/schedules", adminToken, map[string]interface{}{
		"lift_id": lift.ID, "technician_id": tech.ID, "scheduled_date": "2025-04-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create schedule: expected 201, got %d", rec.Code)
	}
	var schedule models.Schedule
	decode(t, rec, &schedule)

	// Technician opens the form and receives the template
	rec = doJSON(t, router, "GET", fmt.Sprintf("/api/schedules/%d/form", schedule.ID), techToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Open form: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var form struct {
		Template *checklist.Document `json:"template"`
	}
	decode(t, rec, &form)
	if form.Template == nil || len(form.Template.Sections) != 6 {
		t.Fatalf("Unexpected passenger template: %+v", form.Template)
	}

	// Work in progress is autosaved
	formKey := fmt.Sprintf("schedule:%d", schedule.ID)
	rec = doJSON(t, router, "PUT", "/api/drafts/"+formKey, techToken, map[string]string{"step": "half done"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Autosave: expected 200, got %d", rec.Code)
	}

	// The template from the form is filled in and submitted
	doc := form.Template
	for si := range doc.Sections {
		for ii := range doc.Sections[si].Items {
			doc.Sections[si].Items[ii].Condition = "✓"
		}
	}
	doc.Building = "Gedung Sate"
	doc.Mechanics = []string{"Budi"}

	rec = doJSON(t, router, "POST", "/api/reports", techToken, map[string]interface{}{
		"schedule_id":    schedule.ID,
		"lift_id":        lift.ID,
		"type":           models.LiftTypePassenger,
		"checklist_data": doc,
		"temperature":    "27",
		"voltage":        "380",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Submit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, rec, &created)

	// The visit is completed and the draft gone
	var stored models.Schedule
	if err := db.First(&stored, schedule.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ScheduleStatusCompleted {
		t.Errorf("Schedule should be completed, got %q", stored.Status)
	}
	if rec := doJSON(t, router, "GET", "/api/drafts/"+formKey, techToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("Draft should be cleared, got %d", rec.Code)
	}

	// The admin sees the report in the list
	rec = doJSON(t, router, "GET", "/api/reports", adminToken, nil)
	var rows []reportListRow
	decode(t, rec, &rows)
	if len(rows) != 1 || rows[0].ID != created.ID {
		t.Fatalf("Admin should see the submitted report, got %+v", rows)
	}

	// And the signed document renders with the right filename
	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/reports/%d/pdf", created.ID), adminToken, map[string]interface{}{
		"signatures": map[string]interface{}{
			"teknisi": map[string]string{
				"image": "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==",
				"name":  "Budi",
			},
			"client": map[string]string{"name": "Pak Hendra"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Render: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("Render should produce a PDF")
	}
	want := fmt.Sprintf("laporan-maintenance-passenger-%d-signed.pdf", created.ID)
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, want) {
		t.Errorf("Expected filename %q in %q", want, got)
	}
}
