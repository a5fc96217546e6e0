package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/scene"
)

// pdfFont is a core font, so no font files are embedded.
const pdfFont = "Helvetica"

// WritePDF writes sc as a single-page vector PDF. One screen pixel maps to
// one PDF point, so the page is exactly the viewport size.
func WritePDF(w io.Writer, sc scene.Scene) error {
	if !(sc.Width > 0) || !(sc.Height > 0) {
		return ErrEmptyScene
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: sc.Width, Ht: sc.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, p := range sc.Primitives {
		switch v := p.(type) {
		case scene.Rect:
			drawPDFRect(pdf, v)
		case scene.Line:
			drawPDFLine(pdf, v)
		case scene.Text:
			drawPDFText(pdf, v, tr)
		}
	}
	pdf.SetAlpha(1, "Normal")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	logging.Logger().Debug("export: pdf", "primitives", len(sc.Primitives))
	return nil
}

// ExportPDF saves sc as a PDF file at path.
func ExportPDF(path string, sc scene.Scene) error {
	return SaveFile(path, func(w io.Writer) error {
		return WritePDF(w, sc)
	})
}

func drawPDFRect(pdf *fpdf.Fpdf, r scene.Rect) {
	// Fill and stroke are painted separately so each keeps its own alpha.
	if r.Fill.A > 0 {
		setFill(pdf, r.Fill)
		pdfRect(pdf, r, "F")
	}
	if r.Stroke.A > 0 && r.StrokeWidth > 0 {
		setStroke(pdf, r.Stroke, r.StrokeWidth)
		pdfRect(pdf, r, "D")
	}
}

func pdfRect(pdf *fpdf.Fpdf, r scene.Rect, style string) {
	if r.Radius > 0 {
		pdf.RoundedRect(r.X, r.Y, r.W, r.H, r.Radius, "1234", style)
		return
	}
	pdf.Rect(r.X, r.Y, r.W, r.H, style)
}

func drawPDFLine(pdf *fpdf.Fpdf, l scene.Line) {
	if l.Stroke.A == 0 || l.StrokeWidth <= 0 {
		return
	}
	setStroke(pdf, l.Stroke, l.StrokeWidth)
	pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
}

func drawPDFText(pdf *fpdf.Fpdf, t scene.Text, tr func(string) string) {
	if t.Content == "" || t.Size <= 0 {
		return
	}
	pdf.SetFont(pdfFont, "", t.Size)
	pdf.SetTextColor(int(t.Fill.R), int(t.Fill.G), int(t.Fill.B))
	pdf.SetAlpha(opacity(t.Fill), "Normal")

	s := tr(t.Content)
	x := t.X
	switch t.Anchor {
	case scene.AnchorMiddle:
		x -= pdf.GetStringWidth(s) / 2
	case scene.AnchorEnd:
		x -= pdf.GetStringWidth(s)
	}
	pdf.Text(x, t.Y, s)
}

func setFill(pdf *fpdf.Fpdf, c color.NRGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(opacity(c), "Normal")
}

func setStroke(pdf *fpdf.Fpdf, c color.NRGBA, width float64) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	pdf.SetLineWidth(width)
	pdf.SetAlpha(opacity(c), "Normal")
}
