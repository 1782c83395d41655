// Package proposal renders proposal documents and delivers them.
package proposal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/google/uuid"

	logx "github.com/procode-bot/server/pkg/logger"
)

// proposalCSS is the fixed stylesheet injected into every proposal.
const proposalCSS = `
    body { font-family: 'Helvetica', 'Arial', sans-serif; font-size: 12pt; line-height: 1.6; color: #333; }
    h1 { color: #2c3e50; border-bottom: 2px solid #2c3e50; padding-bottom: 10px; margin-top: 0; }
    h2 { color: #2980b9; margin-top: 20px; }
    .header-container { display: flex; justify-content: space-between; align-items: center; margin-bottom: 30px; }
    .company-name { font-size: 16pt; font-weight: bold; color: #2c3e50; }
    .logo { max-height: 60px; }
    .footer { margin-top: 40px; font-size: 10pt; color: #7f8c8d; border-top: 1px solid #ddd; padding-top: 10px; }
    .price-box { background: #f8f9fa; border-left: 5px solid #27ae60; padding: 15px; margin: 20px 0; font-weight: bold; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
    th { background-color: #f2f2f2; }
`

// PDFRenderer writes proposal PDFs into a local output directory using the
// wkhtmltopdf engine.
type PDFRenderer struct {
	outputDir string
}

func NewPDFRenderer(outputDir string) (*PDFRenderer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}
	return &PDFRenderer{outputDir: outputDir}, nil
}

// CreatePDF converts an HTML string into a PDF file and returns its path.
// An empty path with a non-nil error signals a failed render.
func (r *PDFRenderer) CreatePDF(ctx context.Context, html string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return "", fmt.Errorf("init pdf generator: %w", err)
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(25)
	pdfg.MarginBottom.Set(25)
	pdfg.MarginLeft.Set(25)
	pdfg.MarginRight.Set(25)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(withStylesheet(html)))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		logx.Error().Err(err).Msg("PDF rendering failed")
		return "", fmt.Errorf("render pdf: %w", err)
	}

	name := fmt.Sprintf("proposal_%s.pdf", strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	path := filepath.Join(r.outputDir, name)
	if err := pdfg.WriteFile(path); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("Failed to write PDF")
		return "", fmt.Errorf("write pdf: %w", err)
	}

	logx.Debug().Str("path", path).Msg("PDF saved")
	return path, nil
}

// withStylesheet wraps the model-generated body in a full HTML document
// carrying the fixed proposal stylesheet. Already-complete documents pass
// through untouched.
func withStylesheet(html string) string {
	if strings.Contains(strings.ToLower(html), "<html") {
		return html
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>")
	b.WriteString(proposalCSS)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(html)
	b.WriteString("\n</body>\n</html>")
	return b.String()
}
