package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/liftcare-id/liftcare/internal/models"
)

func TestLiftCRUD(t *testing.T) {
	router, db := newTestRouter(t)
	_, adminToken := seedUser(t, db, "Admin", "admin@liftcare.com", models.RoleAdmin)
	_, techToken := seedUser(t, db, "Budi", "budi@liftcare.com", models.RoleTeknisi)

	rec := doJSON(t, router, "POST", "/api/lifts", adminToken, map[string]interface{}{
		"name":   "Lift Barang 1",
		"type":   models.LiftTypeCargo,
		"merk":   "Hyundai",
		"cabang": "Jakarta Selatan",
		"floors": 8,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create lift: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var lift models.Lift
	decode(t, rec, &lift)
	if lift.Status != "active" {
		t.Errorf("New lift should default to active, got %q", lift.Status)
	}

	// Technicians can read lifts
	rec = doJSON(t, router, "GET", fmt.Sprintf("/api/lifts/%d", lift.ID), techToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Teknisi get lift: expected 200, got %d", rec.Code)
	}

	// But not mutate them
	rec = doJSON(t, router, "POST", "/api/lifts", techToken, map[string]interface{}{
		"name": "X", "type": models.LiftTypeCargo,
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("Teknisi create lift: expected 403, got %d", rec.Code)
	}

	// Partial update keeps absent fields
	rec = doJSON(t, router, "PUT", fmt.Sprintf("/api/lifts/%d", lift.ID), adminToken, map[string]string{
		"status": "inactive",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Update lift: expected 200, got %d", rec.Code)
	}
	var stored models.Lift
	if err := db.First(&stored, lift.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Status != "inactive" || stored.Name != "Lift Barang 1" {
		t.Errorf("Unexpected lift after update: %+v", stored)
	}

	rec = doJSON(t, router, "DELETE", fmt.Sprintf("/api/lifts/%d", lift.ID), adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Delete lift: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, router, "GET", fmt.Sprintf("/api/lifts/%d", lift.ID), adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Deleted lift should be gone, got %d", rec.Code)
	}
}

func TestCreateLiftValidation(t *testing.T) {
	router, db := newTestRouter(t)
	_, adminToken := seedUser(t, db, "Admin", "admin@liftcare.com", models.RoleAdmin)

	rec := doJSON(t, router, "POST", "/api/lifts", adminToken, map[string]string{"name": "Lift X"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Missing type: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/api/lifts", adminToken, map[string]string{
		"name": "Lift X", "type": "escalator",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Unknown type: expected 400, got %d", rec.Code)
	}
}

func TestListLiftsFilters(t *testing.T) {
	router, db := newTestRouter(t)
	_, adminToken := seedUser(t, db, "Admin", "admin@liftcare.com", models.RoleAdmin)
	seedLift(t, db, "Lift Barang 1", models.LiftTypeCargo)
	seedLift(t, db, "Lift Penumpang 1", models.LiftTypePassenger)

	rec := doJSON(t, router, "GET", "/api/lifts?type=cargo", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var lifts []models.Lift
	decode(t, rec, &lifts)
	if len(lifts) != 1 || lifts[0].Type != models.LiftTypeCargo {
		t.Errorf("Type filter should return only cargo lifts, got %+v", lifts)
	}
}
