package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 25.0
	lineHeight = 7.0
)

// PDFRenderer draws documents on A4 pages with fpdf core fonts. Background
// images are looked up in assetsDir.
type PDFRenderer struct {
	assetsDir string
	font      string
}

func NewPDFRenderer(assetsDir, font string) (*PDFRenderer, error) {
	info, err := os.Stat(assetsDir)
	if err != nil {
		return nil, fmt.Errorf("document assets: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document assets: %s is not a directory", assetsDir)
	}
	if font == "" {
		font = "Times"
	}
	return &PDFRenderer{assetsDir: assetsDir, font: font}, nil
}

func (r *PDFRenderer) HasAsset(name string) bool {
	info, err := os.Stat(filepath.Join(r.assetsDir, name))
	return err == nil && !info.IsDir()
}

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	orientation := doc.Orientation
	if orientation == "" {
		orientation = OrientationPortrait
	}

	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	if doc.Background != "" {
		width, height := pdf.GetPageSize()
		pdf.ImageOptions(filepath.Join(r.assetsDir, doc.Background), 0, 0, width, height, false,
			fpdf.ImageOptions{ReadDpi: true}, 0, "")
		pdf.SetXY(pageMargin, pageMargin)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, b := range doc.Blocks {
		r.drawBlock(pdf, tr, b)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.Kind, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write %s: %w", doc.Kind, err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawBlock(pdf *fpdf.Fpdf, tr func(string) string, b Block) {
	text := tr(b.Text)
	switch b.Kind {
	case BlockTitle:
		pdf.SetFont(r.font, "B", 20)
		pdf.CellFormat(0, 12, text, "", 1, "C", false, 0, "")
	case BlockSubtitle:
		pdf.SetFont(r.font, "B", 14)
		pdf.CellFormat(0, 9, text, "", 1, "C", false, 0, "")
	case BlockQuote:
		pdf.SetFont(r.font, "I", 12)
		pdf.MultiCell(0, lineHeight, text, "", "C", false)
	case BlockBullet:
		pdf.SetFont(r.font, "", 12)
		pdf.MultiCell(0, lineHeight, tr("• ")+text, "", "L", false)
	case BlockSignature:
		pdf.SetFont(r.font, "B", 12)
		pdf.CellFormat(0, lineHeight, text, "", 1, "C", false, 0, "")
	case BlockSpacer:
		pdf.Ln(lineHeight / 2)
	case BlockPlaced:
		pdf.SetFont(r.font, "B", 16)
		pdf.Text(b.X, b.Y, text)
	default:
		pdf.SetFont(r.font, "", 12)
		pdf.MultiCell(0, lineHeight, text, "", "J", false)
	}
}
