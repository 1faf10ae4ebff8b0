// Package checklist holds the two fixed maintenance checklist templates
// (cargo lift and passenger elevator) and the structured document stored
// in every report. The section/item structure is snapshotted into each
// report at submission time so historical reports stay renderable.
package checklist

import (
	"encoding/json"
	"fmt"

	"github.com/liftcare-id/liftcare/internal/models"
)

// Item is one inspected point: a name, a condition code from the
// template's set (empty until set) and a free-text note.
type Item struct {
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Note      string `json:"note"`
}

// Section is an ordered group of items. Cargo sections carry a number
// ("1".."8"), passenger sections a letter code ("A".."F").
type Section struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Num   string `json:"num,omitempty"`
	Code  string `json:"code,omitempty"`
	Items []Item `json:"items"`
}

// Document is the full checklist payload of a report, plus the
// free-form identification fields each form variant collects.
type Document struct {
	Sections   []Section `json:"sections"`
	Cabang     string    `json:"cabang,omitempty"`
	Building   string    `json:"building,omitempty"`
	ElevatorNo string    `json:"elevatorNo,omitempty"`
	Mechanics  []string  `json:"mechanics,omitempty"`
	CheckedBy  string    `json:"checkedBy,omitempty"`
}

// Condition describes one code of a template's enumerated condition set
type Condition struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// CargoConditions is the cargo lift condition code set
var CargoConditions = []Condition{
	{Key: "X", Title: "Rusak"},
	{Key: "O", Title: "Ganti"},
	{Key: "#", Title: "Adjust/Setel"},
	{Key: "V", Title: "Baik"},
}

// PassengerConditions is the passenger elevator condition code set
var PassengerConditions = []Condition{
	{Key: "✓", Title: "Normal"},
	{Key: "△", Title: "To be Adjusted, replaced, Lubricated, cleaned"},
	{Key: "✕", Title: "To be Repaired or Overhauled"},
	{Key: "○", Title: "Serviced, Replaced, Lubricated & Cleaned"},
	{Key: "/", Title: "Not Applicable"},
}

type sectionSpec struct {
	id    string
	name  string
	num   string
	code  string
	items []string
}

var cargoTemplate = []sectionSpec{
	{id: "mesin", name: "MESIN", num: "1", items: []string{
		"Motor Coil", "Gear Box", "Wire Rope", "Chain Load", "Contactor",
		"Kampas Brake", "Olie Mesin", "Magnetic Brake"}},
	{id: "safety", name: "SAFETY", num: "2", items: []string{
		"Limit Switch Level", "Final Limit Switch", "Emergency Stop",
		"Spring Bufer", "Safety Block", "Gate Lock Switch"}},
	{id: "car", name: "CAR", num: "3", items: []string{
		"Dinding Car", "Pintu Car", "Cam Limit Switch", "Hook Car", "Guide Shoe Car"}},
	{id: "hoistway", name: "HOISTWAY", num: "4", items: []string{
		"Rel Car", "Pintu Luar", "Cable Control", "Braket Rel"}},
	{id: "control_panel", name: "CONTROL PANEL", num: "5", items: []string{
		"Power Supply", "Relay-Relay", "MCB", "Trafo", "Rectifire",
		"Terminal Cable", "Fuse"}},
	{id: "push_bottom", name: "PUSH BOTTOM", num: "6", items: []string{
		"Call 1", "Call 2", "Call 3", "Call 4", "Digital Seven Segment"}},
	{id: "pelumasan", name: "PELUMASAN", num: "7", items: []string{
		"Rel Car", "Chain Load", "Guide Shoe", "Pintu Car", "Pintu Luar",
		"Wire Rope", "Hook Shave"}},
	{id: "cleaning", name: "CLEANING", num: "8", items: []string{
		"Dinding Car", "Top Car", "Bottom Car", "Pit Car", "Machine Room",
		"Machine", "Pintu Car"}},
}

var passengerTemplate = []sectionSpec{
	{id: "machine_room", name: "MACHINE ROOM", code: "A", items: []string{
		"M. Room Environment", "Main Panel", "Motor/Traction Machine",
		"Brake Shoe", "Magnetik Brake/Silinoit Brake", "Sheave Drive",
		"Controller", "Governoor", "Deflextor Sheave", "A.R.D.",
		"Fan / Air Condition"}},
	{id: "car_top", name: "CAR TOP", code: "B", items: []string{
		"Car Top Environment", "Car Frame", "Car Sheave",
		"Operator / Door Operator", "Hoist & Goov. ropes, hitches",
		"Safety Switches", "Safety Breake SW", "Roller / Sliding Guide Car",
		"Standing Car", "Car Hanger Roller"}},
	{id: "entrance", name: "ENTRANCE", code: "C", items: []string{
		"Indicators", "Hall Buttons", "Sill & Entraces", "Hall Door",
		"Hall Lanten", "Hall Hanger Roller"}},
	{id: "hoistway", name: "HOISTWAY", code: "D", items: []string{
		"Hoistway Environment", "Hoist Rope", "Governoor Rope",
		"Compensating Rope", "Traveling Cable", "Limit Switches",
		"Sliding Roller Guides CWT", "Counterweight & Sheave",
		"Brakets & Rail", "Separator Beams/Bracket", "Induktor Van"}},
	{id: "car_cage", name: "CAR CAGE", code: "E", items: []string{
		"Condition of Interior", "Car Operation Panel",
		"Indicators / PC / Arrow", "Car Light & Fan", "Car Door Safety",
		"Riding Comfort", "Leveling", "Interphone / Emergency Bell",
		"Car Sill / Car Door", "Emergency Light"}},
	{id: "pit", name: "PIT", code: "F", items: []string{
		"Pit Environment", "Safety Switches", "Safety Device",
		"Load Weighing Switches", "Tension Sheave Governoor",
		"Compensating Sheave", "Buffers Car / CWT", "CWT Buffer Run by"}},
}

// ConditionsFor returns the condition code set for a lift type
func ConditionsFor(liftType string) ([]Condition, error) {
	switch liftType {
	case models.LiftTypeCargo:
		return CargoConditions, nil
	case models.LiftTypePassenger:
		return PassengerConditions, nil
	}
	return nil, fmt.Errorf("tipe lift tidak dikenal: %q", liftType)
}

// TemplateFor builds an empty checklist document for a lift type, with
// every item present and its condition unset.
func TemplateFor(liftType string) (*Document, error) {
	var specs []sectionSpec
	switch liftType {
	case models.LiftTypeCargo:
		specs = cargoTemplate
	case models.LiftTypePassenger:
		specs = passengerTemplate
	default:
		return nil, fmt.Errorf("tipe lift tidak dikenal: %q", liftType)
	}

	doc := &Document{Sections: make([]Section, 0, len(specs))}
	for _, s := range specs {
		sec := Section{ID: s.id, Name: s.name, Num: s.num, Code: s.code}
		for _, name := range s.items {
			sec.Items = append(sec.Items, Item{Name: name})
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

// Validate checks every set condition code against the lift type's
// enumerated set. Structure (section ids, item names, ordering) is
// snapshotted verbatim; only the codes are constrained.
func Validate(liftType string, doc *Document) error {
	conditions, err := ConditionsFor(liftType)
	if err != nil {
		return err
	}
	if len(doc.Sections) == 0 {
		return fmt.Errorf("checklist kosong")
	}

	allowed := make(map[string]bool, len(conditions))
	for _, c := range conditions {
		allowed[c.Key] = true
	}

	for _, sec := range doc.Sections {
		for _, item := range sec.Items {
			if item.Condition != "" && !allowed[item.Condition] {
				return fmt.Errorf("kode kondisi %q tidak valid untuk item %q", item.Condition, item.Name)
			}
		}
	}
	return nil
}

// Parse deserializes a stored checklist payload
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("checklist tidak dapat dibaca: %w", err)
	}
	return &doc, nil
}
