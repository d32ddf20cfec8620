package pdfgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// RenderMarkdown renders report markdown into a simple A4 PDF. Headings map
// to larger bold text, table rows keep a monospace face, everything else is
// body text. The core fonts are latin-1 only, so the rupee sign becomes an
// ASCII prefix.
func RenderMarkdown(md string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	for _, line := range strings.Split(md, "\n") {
		line = sanitize(line)
		switch {
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(0, 9, strings.TrimPrefix(line, "# "), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 8, strings.TrimPrefix(line, "## "), "", "L", false)
			pdf.Ln(1)
		case strings.HasPrefix(line, "### "):
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 7, strings.TrimPrefix(line, "### "), "", "L", false)
		case strings.HasPrefix(line, "|"):
			pdf.SetFont("Courier", "", 8)
			pdf.MultiCell(0, 4.5, line, "", "L", false)
		case strings.HasPrefix(line, "> "):
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, strings.TrimPrefix(line, "> "), "", "L", false)
		case strings.TrimSpace(line) == "":
			pdf.Ln(3)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sanitize(line string) string {
	line = strings.ReplaceAll(line, "₹", "Rs. ")
	line = strings.ReplaceAll(line, "**", "")
	return line
}
