package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/liftcare-id/liftcare/internal/models"
	qrcode "github.com/skip2/go-qrcode"
)

// DecalData describes the printable QR access decal posted inside a lift
type DecalData struct {
	Lift      models.Lift
	Token     string
	Pin       string
	PublicURL string
}

// AccessURL is the link encoded into the decal's QR code
func (d *DecalData) AccessURL() string {
	return fmt.Sprintf("%s/qr-access/%s", d.PublicURL, d.Token)
}

// RenderDecal produces an A5 decal: lift identification, the QR code and
// the PIN printed beneath it for the visiting technician.
func RenderDecal(d DecalData) ([]byte, error) {
	qrPng, err := qrcode.Encode(d.AccessURL(), qrcode.Medium, 512)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	const pw = 148.0

	pdf.SetFont("Arial", "B", 16)
	pdf.SetY(16)
	pdf.CellFormat(pw-24, 8, "AKSES MAINTENANCE", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(pw-24, 7, d.Lift.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	sub := d.Lift.Cabang
	if d.Lift.Location != "" {
		if sub != "" {
			sub += " - "
		}
		sub += d.Lift.Location
	}
	pdf.CellFormat(pw-24, 6, sub, "", 1, "C", false, 0, "")

	// QR code centered
	const qrSize = 80.0
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("decal_qr", opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("decal_qr", (pw-qrSize)/2, 44, qrSize, qrSize, false, opts, 0, "")

	pdf.SetY(128)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pw-24, 6, "PIN Akses", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(pw-24, 12, d.Pin, "", 1, "C", false, 0, "")

	pdf.SetY(152)
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(pw-24, 4.5,
		"Scan kode QR di atas lalu masukkan PIN untuk membuka formulir maintenance lift ini.",
		"", "C", false)

	return output(pdf)
}
