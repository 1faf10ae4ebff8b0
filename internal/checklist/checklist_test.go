package checklist

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/liftcare-id/liftcare/internal/models"
)

func TestCargoTemplateStructure(t *testing.T) {
	doc, err := TemplateFor(models.LiftTypeCargo)
	if err != nil {
		t.Fatalf("TemplateFor(cargo) failed: %v", err)
	}

	if len(doc.Sections) != 8 {
		t.Fatalf("Expected 8 cargo sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Name != "MESIN" || doc.Sections[0].Num != "1" {
		t.Errorf("Unexpected first section: %+v", doc.Sections[0])
	}
	if doc.Sections[7].Name != "CLEANING" || doc.Sections[7].Num != "8" {
		t.Errorf("Unexpected last section: %+v", doc.Sections[7])
	}
	for _, sec := range doc.Sections {
		if len(sec.Items) == 0 {
			t.Errorf("Section %s has no items", sec.ID)
		}
		for _, item := range sec.Items {
			if item.Condition != "" {
				t.Errorf("Template item %q should start with empty condition", item.Name)
			}
		}
	}
}

func TestPassengerTemplateStructure(t *testing.T) {
	doc, err := TemplateFor(models.LiftTypePassenger)
	if err != nil {
		t.Fatalf("TemplateFor(passenger) failed: %v", err)
	}

	if len(doc.Sections) != 6 {
		t.Fatalf("Expected 6 passenger sections, got %d", len(doc.Sections))
	}
	codes := []string{"A", "B", "C", "D", "E", "F"}
	for i, sec := range doc.Sections {
		if sec.Code != codes[i] {
			t.Errorf("Section %d: expected code %s, got %s", i, codes[i], sec.Code)
		}
	}
}

func TestUnknownLiftType(t *testing.T) {
	if _, err := TemplateFor("escalator"); err == nil {
		t.Error("TemplateFor should reject unknown lift types")
	}
	if _, err := ConditionsFor("escalator"); err == nil {
		t.Error("ConditionsFor should reject unknown lift types")
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := TemplateFor(models.LiftTypePassenger)
	if err != nil {
		t.Fatal(err)
	}

	// Fill a few items with conditions and notes
	doc.Sections[0].Items[0].Condition = "✓"
	doc.Sections[0].Items[1].Condition = "△"
	doc.Sections[0].Items[1].Note = "perlu pelumasan"
	doc.Sections[5].Items[2].Condition = "/"
	doc.Building = "Gedung A"
	doc.ElevatorNo = "LIFT-01"
	doc.Mechanics = []string{"Budi", "Agus"}
	doc.CheckedBy = "Pak Manager"

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !reflect.DeepEqual(doc, parsed) {
		t.Error("Round-trip should preserve section order, item order, conditions and notes exactly")
	}
}

func TestValidate(t *testing.T) {
	doc, _ := TemplateFor(models.LiftTypeCargo)

	// Unset conditions are valid
	if err := Validate(models.LiftTypeCargo, doc); err != nil {
		t.Errorf("Empty conditions should validate: %v", err)
	}

	// Every cargo code is valid
	for i, c := range CargoConditions {
		doc.Sections[0].Items[i%len(doc.Sections[0].Items)].Condition = c.Key
	}
	if err := Validate(models.LiftTypeCargo, doc); err != nil {
		t.Errorf("Cargo codes should validate: %v", err)
	}

	// A passenger glyph is not a cargo code
	doc.Sections[1].Items[0].Condition = "✓"
	if err := Validate(models.LiftTypeCargo, doc); err == nil {
		t.Error("Validate should reject a condition code from the other template")
	}

	// Empty document is rejected
	if err := Validate(models.LiftTypeCargo, &Document{}); err == nil {
		t.Error("Validate should reject an empty checklist")
	}
}

func TestValidateArbitraryStructureAccepted(t *testing.T) {
	// The structure is snapshotted verbatim; only codes are constrained
	doc := &Document{
		Sections: []Section{
			{ID: "custom", Name: "CUSTOM SECTION", Items: []Item{
				{Name: "Custom Item", Condition: "V", Note: "ok"},
			}},
		},
	}
	if err := Validate(models.LiftTypeCargo, doc); err != nil {
		t.Errorf("Client-shaped structure with valid codes should pass: %v", err)
	}
}
