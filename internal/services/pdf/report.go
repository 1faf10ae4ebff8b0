// Package pdf renders read-side document artifacts: the maintenance
// report PDF and the printable QR access decal. Rendering is a pure
// function of the stored report plus optional signature captures; nothing
// here is persisted.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/liftcare-id/liftcare/internal/checklist"
	"github.com/liftcare-id/liftcare/internal/models"
)

// SignatureField is one captured freehand signature: a PNG raster
// (base64, with or without a data-URL prefix) and the signatory's name.
type SignatureField struct {
	Image string `json:"image"`
	Name  string `json:"name"`
}

// Signatures holds the two-party capture: technician first, then the
// receiving party (client or branch manager). Zero, one or two entries
// are all valid; absent images leave a blank line for manual signing.
type Signatures struct {
	Teknisi SignatureField `json:"teknisi"`
	Client  SignatureField `json:"client"`
}

// Any reports whether at least one signature image is present
func (s *Signatures) Any() bool {
	return s.Teknisi.Image != "" || s.Client.Image != ""
}

// ReportData is the denormalized report snapshot handed to the renderer
type ReportData struct {
	ID          uint
	Type        string
	CompletedAt time.Time
	Remarks     string
	Temperature string
	Voltage     string
	LiftName    string
	Merk        string
	Model       string
	Cabang      string
	Location    string
	Checklist   *checklist.Document
}

// Filename derives the deterministic download name for a rendered report
func Filename(reportType string, id uint, signed bool) string {
	suffix := ""
	if signed {
		suffix = "-signed"
	}
	return fmt.Sprintf("laporan-maintenance-%s-%d%s.pdf", reportType, id, suffix)
}

// printableCondition normalizes the passenger template's Unicode glyphs
// to ASCII equivalents the core PDF fonts can draw.
func printableCondition(c string) string {
	switch c {
	case "✓":
		return "OK"
	case "△":
		return "ADJ"
	case "✕":
		return "REP"
	case "○":
		return "SVC"
	case "/":
		return "N/A"
	case "":
		return "-"
	}
	return c
}

// RenderReport produces the paginated report document for either lift type
func RenderReport(rep ReportData, sigs Signatures) ([]byte, error) {
	switch rep.Type {
	case models.LiftTypeCargo:
		return renderCargo(rep, sigs)
	case models.LiftTypePassenger:
		return renderPassenger(rep, sigs)
	}
	return nil, fmt.Errorf("tipe laporan tidak dikenal: %q", rep.Type)
}

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginX      = 15.0
	contentWidth = pageWidth - 2*marginX
	rowHeight    = 5.5
	footerLimit  = pageHeight - 15.0
)

func renderCargo(rep ReportData, sigs Signatures) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, 15, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 14)
	pdf.SetY(14)
	pdf.CellFormat(contentWidth, 7, "LAPORAN SERVICE MAINTENANCE", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentWidth, 7, "CARGO LIFT", "", 1, "C", false, 0, "")

	// Identification block, right-aligned like the printed form
	pdf.SetFont("Arial", "", 10)
	pdf.SetXY(marginX, 14)
	pdf.CellFormat(contentWidth, 6, "Tgl : "+rep.CompletedAt.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 6, "Merk : "+orDash(rep.Merk), "", 1, "R", false, 0, "")
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 6, "Type : "+orDash(rep.Model), "", 1, "R", false, 0, "")

	cabang := rep.Cabang
	if rep.Checklist != nil && rep.Checklist.Cabang != "" {
		cabang = rep.Checklist.Cabang
	}
	pdf.SetXY(marginX, 36)
	pdf.CellFormat(contentWidth, 6, "CABANG : "+orDash(cabang), "", 1, "L", false, 0, "")

	// Checklist grid: description, one column per condition code, notes
	descW := 70.0
	codeW := 12.0
	noteW := contentWidth - descW - 4*codeW

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(220, 220, 220)
		pdf.CellFormat(descW, rowHeight, "Uraian Pekerjaan", "1", 0, "C", true, 0, "")
		for _, c := range []string{"X", "O", "#", "V"} {
			pdf.CellFormat(codeW, rowHeight, c, "1", 0, "C", true, 0, "")
		}
		pdf.CellFormat(noteW, rowHeight, "Keterangan", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 8)
	}

	pdf.SetY(44)
	header()

	ensureRoom := func(h float64) {
		if pdf.GetY()+h > footerLimit {
			pdf.AddPage()
			pdf.SetY(15)
			header()
		}
	}

	if rep.Checklist != nil {
		for _, sec := range rep.Checklist.Sections {
			ensureRoom(rowHeight)
			pdf.SetFont("Arial", "B", 8)
			pdf.SetFillColor(240, 240, 240)
			pdf.CellFormat(contentWidth, rowHeight, sec.Num+". "+sec.Name, "1", 1, "L", true, 0, "")
			pdf.SetFont("Arial", "", 8)

			for _, item := range sec.Items {
				ensureRoom(rowHeight)
				pdf.CellFormat(descW, rowHeight, "   - "+item.Name, "1", 0, "L", false, 0, "")
				for _, c := range []string{"X", "O", "#", "V"} {
					mark := ""
					if item.Condition == c {
						mark = c
					}
					pdf.CellFormat(codeW, rowHeight, mark, "1", 0, "C", false, 0, "")
				}
				pdf.CellFormat(noteW, rowHeight, truncate(item.Note, 45), "1", 1, "L", false, 0, "")
			}
		}
	}

	// Legend
	pdf.Ln(4)
	ensureY(pdf, 10)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(contentWidth, 4, "Note :   X : Rusak    O : Ganti    # : Adjust / Setel    V : Baik", "", 1, "L", false, 0, "")

	// Remarks
	if rep.Remarks != "" {
		pdf.Ln(3)
		ensureY(pdf, 12)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(contentWidth, 5, "Catatan: "+rep.Remarks, "", "L", false)
	}

	if err := drawSignatureBlock(pdf, sigs, "Yang Mengerjakan :", "Mengetahui,", "Teknisi", "Manager Cabang"); err != nil {
		return nil, err
	}

	return output(pdf)
}

func renderPassenger(rep ReportData, sigs Signatures) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, 15, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetY(14)
	pdf.CellFormat(contentWidth, 7, "MAINTENANCE SERVICE REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 7, "ELEVATORS", "", 1, "C", false, 0, "")
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(marginX, 30, pageWidth-marginX, 30)
	pdf.SetDrawColor(0, 0, 0)

	building := rep.Location
	elevatorNo := rep.LiftName
	checkedBy := ""
	if rep.Checklist != nil {
		if rep.Checklist.Building != "" {
			building = rep.Checklist.Building
		}
		if rep.Checklist.ElevatorNo != "" {
			elevatorNo = rep.Checklist.ElevatorNo
		}
		checkedBy = rep.Checklist.CheckedBy
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetXY(marginX, 33)
	pdf.CellFormat(40, 6, "Name of Building", "", 0, "L", false, 0, "")
	pdf.CellFormat(55, 6, ": "+orDash(building), "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Checked By", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, ": "+orBlank(checkedBy), "", 1, "L", false, 0, "")
	pdf.SetX(marginX)
	pdf.CellFormat(40, 6, "Elevator No.", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, ": "+orDash(elevatorNo), "", 1, "L", false, 0, "")
	pdf.SetX(marginX)
	pdf.CellFormat(40, 6, "Date Service", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, ": "+rep.CompletedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")

	// Checklist grid: No / Description / Status / Note
	noW := 10.0
	statusW := 18.0
	noteW := 40.0
	descW := contentWidth - noW - statusW - noteW

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(50, 80, 150)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(noW, rowHeight, "No", "1", 0, "C", true, 0, "")
		pdf.CellFormat(descW, rowHeight, "Description / Item", "1", 0, "C", true, 0, "")
		pdf.CellFormat(statusW, rowHeight, "Status", "1", 0, "C", true, 0, "")
		pdf.CellFormat(noteW, rowHeight, "Note", "1", 1, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.SetY(56)
	header()

	ensureRoom := func(h float64) {
		if pdf.GetY()+h > footerLimit {
			pdf.AddPage()
			pdf.SetY(15)
			header()
		}
	}

	if rep.Checklist != nil {
		for _, sec := range rep.Checklist.Sections {
			ensureRoom(rowHeight)
			label := sec.Code
			if label == "" {
				label = sec.Num
			}
			pdf.SetFont("Arial", "B", 9)
			pdf.SetFillColor(230, 235, 245)
			pdf.CellFormat(contentWidth, rowHeight, label+".  "+sec.Name, "1", 1, "L", true, 0, "")
			pdf.SetFont("Arial", "", 8)

			for i, item := range sec.Items {
				ensureRoom(rowHeight)
				pdf.CellFormat(noW, rowHeight, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
				pdf.CellFormat(descW, rowHeight, item.Name, "1", 0, "L", false, 0, "")
				pdf.SetFont("Arial", "B", 8)
				pdf.CellFormat(statusW, rowHeight, printableCondition(item.Condition), "1", 0, "C", false, 0, "")
				pdf.SetFont("Arial", "", 8)
				pdf.CellFormat(noteW, rowHeight, truncate(item.Note, 28), "1", 1, "L", false, 0, "")
			}
		}
	}

	// Working-remarks legend
	pdf.Ln(4)
	ensureY(pdf, 20)
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(contentWidth, 4, "Working Remarks :", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 7)
	half := contentWidth / 2
	legend := [][2]string{
		{"OK = Normal", "SVC = Serviced, Replaced, Lubricated & Cleaned"},
		{"ADJ = To be Adjusted, Replaced, Lubricated", "N/A = Not Applicable"},
		{"REP = To be Repaired or Overhauled", ""},
	}
	for _, row := range legend {
		pdf.CellFormat(half, 3.5, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 3.5, row[1], "", 1, "L", false, 0, "")
	}

	if rep.Temperature != "" || rep.Voltage != "" {
		pdf.Ln(2)
		ensureY(pdf, 8)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(half, 5, "Temperature : "+orDash(rep.Temperature)+" C", "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 5, "Power Line Voltage : "+orDash(rep.Voltage)+" V", "", 1, "L", false, 0, "")
	}

	if rep.Checklist != nil && len(rep.Checklist.Mechanics) > 0 {
		pdf.Ln(2)
		ensureY(pdf, float64(6+5*len(rep.Checklist.Mechanics)))
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(contentWidth, 5, "Mechanics :", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for i, m := range rep.Checklist.Mechanics {
			pdf.SetX(marginX + 5)
			pdf.CellFormat(0, 5, fmt.Sprintf("%d. %s", i+1, m), "", 1, "L", false, 0, "")
		}
	}

	if rep.Remarks != "" {
		pdf.Ln(2)
		ensureY(pdf, 12)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(20, 5, "Remarks :", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(contentWidth-20, 5, rep.Remarks, "", "L", false)
	}

	clientFallback := "(                              )"
	if checkedBy != "" {
		clientFallback = checkedBy
	}
	if err := drawSignatureBlock(pdf, sigs, "Yang Mengerjakan", "Mengetahui,", "(                              )", clientFallback); err != nil {
		return nil, err
	}

	return output(pdf)
}

// drawSignatureBlock lays out the two-signatory footer: captured images
// above printed name lines, or a blank line when no image was supplied.
func drawSignatureBlock(pdf *gofpdf.Fpdf, sigs Signatures, leftTitle, rightTitle, leftFallback, rightFallback string) error {
	const (
		sigImgW = 50.0
		sigImgH = 18.0
		blockH  = 45.0
	)

	if pdf.GetY()+blockH > footerLimit {
		pdf.AddPage()
		pdf.SetY(20)
	} else {
		pdf.Ln(8)
	}

	y := pdf.GetY()
	leftCol := pageWidth / 4
	rightCol := 3 * pageWidth / 4

	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(leftCol-40, y)
	pdf.CellFormat(80, 5, leftTitle, "", 0, "C", false, 0, "")
	pdf.SetXY(rightCol-40, y)
	pdf.CellFormat(80, 5, rightTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	if err := placeSignature(pdf, sigs.Teknisi.Image, "sig_teknisi", leftCol-sigImgW/2, y+7, sigImgW, sigImgH); err != nil {
		return err
	}
	if err := placeSignature(pdf, sigs.Client.Image, "sig_client", rightCol-sigImgW/2, y+7, sigImgW, sigImgH); err != nil {
		return err
	}

	lineY := y + 28
	pdf.Line(leftCol-25, lineY, leftCol+25, lineY)
	pdf.Line(rightCol-25, lineY, rightCol+25, lineY)

	leftName := sigs.Teknisi.Name
	if leftName == "" {
		leftName = leftFallback
	}
	rightName := sigs.Client.Name
	if rightName == "" {
		rightName = rightFallback
	}

	pdf.SetFont("Arial", "", 9)
	pdf.SetXY(leftCol-40, lineY+2)
	pdf.CellFormat(80, 5, leftName, "", 0, "C", false, 0, "")
	pdf.SetXY(rightCol-40, lineY+2)
	pdf.CellFormat(80, 5, rightName, "", 1, "C", false, 0, "")

	return nil
}

// placeSignature decodes a base64 PNG capture and embeds it at (x, y)
func placeSignature(pdf *gofpdf.Fpdf, image, name string, x, y, w, h float64) error {
	if image == "" {
		return nil
	}

	raw := image
	if idx := strings.Index(raw, ";base64,"); idx >= 0 {
		raw = raw[idx+len(";base64,"):]
	}
	png, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("tanda tangan tidak dapat dibaca: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func ensureY(pdf *gofpdf.Fpdf, need float64) {
	if pdf.GetY()+need > footerLimit {
		pdf.AddPage()
		pdf.SetY(15)
	}
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orBlank(s string) string {
	if s == "" {
		return "________________________"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
