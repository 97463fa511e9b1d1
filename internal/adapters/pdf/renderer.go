// Package pdf renders the attendance sheet as a printable A4 document.
//
// The layout reproduces the controlled paper form the sheet replaces: a
// boxed header with the organisation mark and form title, an underlined
// metadata block, then one table per attendee type with the captured
// signatures drawn inline.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-pdf/fpdf"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/training"
)

// documentCode is the controlled-form identifier printed top right.
const documentCode = "d/PL/016c-00/0125"

const (
	margin       = 15.0
	headerHeight = 20.0
	rowHeight    = 15.0
	sigWidth     = 24.0
	sigHeight    = 12.0
)

// Renderer produces attendance sheet PDFs. It implements the application's
// SheetRenderer port.
type Renderer struct {
	logoPNG []byte // optional organisation logo; text mark is drawn when absent
}

// NewRenderer creates a Renderer. logoPNG may be nil.
func NewRenderer(logoPNG []byte) *Renderer {
	return &Renderer{logoPNG: logoPNG}
}

// Render produces the attendance sheet for one session.
// PRE: roster entries have been validated on entry
// POST: Returns a complete PDF document, or the builder's first error
func (r *Renderer) Render(info training.Info, roster []attendee.Attendee) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, margin)
	doc.AddPage()

	pageWidth, _ := doc.GetPageSize()
	contentWidth := pageWidth - 2*margin

	// Form code, top right.
	doc.SetFont("Helvetica", "", 8)
	doc.Text(pageWidth-margin-doc.GetStringWidth(documentCode), 10, documentCode)

	r.drawHeader(doc, contentWidth)
	y := r.drawInfoBlock(doc, info, pageWidth)

	var trainers, participants []attendee.Attendee
	for _, a := range roster {
		if a.Type == attendee.TypeTrainer {
			trainers = append(trainers, a)
		} else {
			participants = append(participants, a)
		}
	}
	// The trainer block always shows at least two rows to sign into.
	for len(trainers) < 2 {
		trainers = append(trainers, attendee.Attendee{})
	}

	y = r.drawTable(doc, "Trainer", trainers, y+10, [4]string{"No", "Nama", "Jabatan", "Tanda tangan"})
	r.drawTable(doc, "Peserta", participants, y+10, [4]string{"No", "Nama", "Jabatan / Instansi", "Tandatangan"})

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf build failed: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader draws the boxed logo and title row.
func (r *Renderer) drawHeader(doc *fpdf.Fpdf, contentWidth float64) {
	const top = 15.0
	const logoBoxWidth = 60.0

	doc.SetDrawColor(0, 0, 0)
	doc.Rect(margin, top, logoBoxWidth, headerHeight, "D")

	if len(r.logoPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		doc.RegisterImageOptionsReader("org_logo", opts, bytes.NewReader(r.logoPNG))
		doc.ImageOptions("org_logo", margin+2, top+1, logoBoxWidth-4, headerHeight-2, false, opts, 0, "")
	} else {
		doc.SetFont("Helvetica", "B", 14)
		doc.Text(margin+10, top+13, "PROLINE")
	}

	titleBoxWidth := contentWidth - logoBoxWidth
	doc.Rect(margin+logoBoxWidth, top, titleBoxWidth, headerHeight, "D")
	doc.SetFont("Helvetica", "B", 14)
	title := "DAFTAR HADIR TRAINING"
	doc.Text(margin+logoBoxWidth+(titleBoxWidth-doc.GetStringWidth(title))/2, top+12, title)
}

// drawInfoBlock draws the underlined metadata fields and returns the y
// position below the block.
func (r *Renderer) drawInfoBlock(doc *fpdf.Fpdf, info training.Info, pageWidth float64) float64 {
	const start = 40.0
	const lineHeight = 7.0

	doc.SetFont("Helvetica", "", 10)
	fields := []struct {
		label, value string
	}{
		{"Nama Kegiatan", info.ActivityName},
		{"Nama Instrumen", info.InstrumentName},
		{"Hari,Tanggal", info.Date},
		{"Lokasi", info.Location},
	}
	for i, f := range fields {
		y := start + float64(i)*lineHeight
		doc.Text(margin, y, f.label)
		doc.Text(margin+40, y, ":")
		doc.Text(margin+45, y, f.value)
		doc.Line(margin+45, y+1, pageWidth-margin, y+1)
	}
	return start + float64(len(fields))*lineHeight
}

// drawTable draws one titled attendee table and returns the y position below
// it, adding pages as rows overflow.
func (r *Renderer) drawTable(doc *fpdf.Fpdf, title string, rows []attendee.Attendee, y float64, head [4]string) float64 {
	colWidths := [4]float64{15, 60, 60, 30}
	_, pageHeight := doc.GetPageSize()

	doc.SetFont("Helvetica", "B", 10)
	doc.Text(margin, y, title)
	y += 2

	y = r.drawHeadRow(doc, y, head, colWidths)

	doc.SetFont("Helvetica", "", 10)
	for i, a := range rows {
		if y+rowHeight > pageHeight-margin {
			doc.AddPage()
			y = margin
			y = r.drawHeadRow(doc, y, head, colWidths)
			doc.SetFont("Helvetica", "", 10)
		}

		no := ""
		if a.Name != "" {
			no = fmt.Sprintf("%d", i+1)
		}
		x := margin
		cells := [4]string{no, a.Name, a.Role, ""}
		for c, text := range cells {
			doc.Rect(x, y, colWidths[c], rowHeight, "D")
			if text != "" {
				align := 0.0
				if c == 0 {
					align = (colWidths[c] - doc.GetStringWidth(text)) / 2
				} else {
					align = 2
				}
				doc.Text(x+align, y+rowHeight/2+1.5, text)
			}
			x += colWidths[c]
		}
		r.drawSignature(doc, a, margin+colWidths[0]+colWidths[1]+colWidths[2], y)
		y += rowHeight
	}
	return y
}

// drawHeadRow draws the filled column header row and returns the y below it.
func (r *Renderer) drawHeadRow(doc *fpdf.Fpdf, y float64, head [4]string, colWidths [4]float64) float64 {
	const headHeight = 8.0
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(220, 220, 220)
	x := margin
	for c, text := range head {
		doc.Rect(x, y, colWidths[c], headHeight, "FD")
		doc.Text(x+(colWidths[c]-doc.GetStringWidth(text))/2, y+headHeight/2+1.5, text)
		x += colWidths[c]
	}
	return y + headHeight
}

// drawSignature decodes a PNG data URL and draws it centred in the signature
// cell. A blob that will not decode is skipped; the sheet still renders.
func (r *Renderer) drawSignature(doc *fpdf.Fpdf, a attendee.Attendee, cellX, cellY float64) {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(a.Signature, prefix) {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(a.Signature, prefix))
	if err != nil {
		slog.Warn("export_event", "event", "signature_decode_failed", "attendee_id", a.ID, "error", err)
		return
	}

	name := "sig_" + a.ID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if doc.Err() {
		// A corrupt image poisons the whole document in fpdf; clear the
		// error and leave the cell blank instead.
		slog.Warn("export_event", "event", "signature_image_rejected", "attendee_id", a.ID, "error", doc.Error())
		doc.ClearError()
		return
	}
	x := cellX + (30-sigWidth)/2
	y := cellY + (rowHeight-sigHeight)/2
	doc.ImageOptions(name, x, y, sigWidth, sigHeight, false, opts, 0, "")
}
