package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/model"
)

// LabelInfo holds the data encoded into each rectangle label's QR code.
type LabelInfo struct {
	Layout  string  `json:"layout,omitempty"`
	ID      string  `json:"id"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Rotated bool    `json:"rotated"`
}

// Avery 5160-compatible sheet: 3 columns x 10 rows on US Letter, in mm.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos returns one label per placed rectangle, in layout order.
func CollectLabelInfos(layout model.Layout) []LabelInfo {
	labels := make([]LabelInfo, 0, len(layout.Rectangles))
	for _, r := range layout.Rectangles {
		labels = append(labels, LabelInfo{
			Layout:  layout.Name,
			ID:      r.ID,
			Width:   r.W,
			Height:  r.H,
			X:       r.X,
			Y:       r.Y,
			Rotated: r.Rotated,
		})
	}
	return labels
}

// WriteLabels writes a label sheet PDF for every placed rectangle.
func WriteLabels(w io.Writer, layout model.Layout) error {
	labels := CollectLabelInfos(layout)
	if len(labels) == 0 {
		return ErrNoRectangles
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ID, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	logging.Logger().Debug("export: labels", "count", len(labels))
	return nil
}

// ExportLabels saves the label sheet for layout at path.
func ExportLabels(path string, layout model.Layout) error {
	if len(layout.Rectangles) == 0 {
		return ErrNoRectangles
	}
	return SaveFile(path, func(w io.Writer) error {
		return WriteLabels(w, layout)
	})
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, index int, info LabelInfo) error {
	// Cutting guide.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	imgName := fmt.Sprintf("qr_%d", index)
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, "#"+info.ID, textW), "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%s x %s", model.FormatNumber(info.Width), model.FormatNumber(info.Height))
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pos := fmt.Sprintf("@ (%s, %s)", model.FormatNumber(info.X), model.FormatNumber(info.Y))
	pdf.CellFormat(textW, 3, pos, "", 1, "L", false, 0, "")

	if info.Layout != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.CellFormat(textW, 3, truncate(pdf, info.Layout, textW), "", 1, "L", false, 0, "")
	}

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont(pdfFont, "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
