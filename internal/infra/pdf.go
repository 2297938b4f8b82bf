package infra

// pdf.go — health-check report rendering using go-pdf/fpdf.
// Produces an A4 document: customer/policy header, then the four-section
// Markdown summary as flowed text. fpdf's core fonts are Latin-only, so a
// UTF-8 TTF covering Traditional Chinese must be supplied via PDF_FONT_PATH.

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer renders policy health-check reports.
type PDFRenderer struct {
	fontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

// Enabled reports whether a CJK font is configured.
func (r *PDFRenderer) Enabled() bool { return r.fontPath != "" }

// RenderHealthReport renders the policy's stored health-check summary to PDF
// bytes. The Markdown is rendered as styled plain text: section headings
// (lines starting with #) in bold, list markers kept as-is — the narrative is
// opaque and never structurally parsed.
func (r *PDFRenderer) RenderHealthReport(customer *model.Customer, policy *model.Policy) ([]byte, error) {
	// Messages here reach the client as-is.
	if r.fontPath == "" {
		return nil, errors.New("尚未設定 PDF 字型（PDF_FONT_PATH），請先設定支援中文的字型檔")
	}
	if strings.TrimSpace(policy.HealthReport) == "" {
		return nil, errors.New("此保單尚未產生健檢摘要")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font("cjk", "", r.fontPath)
	pdf.AddUTF8Font("cjk", "B", r.fontPath)
	pdf.SetMargins(18, 16, 18)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 36

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("cjk", "B", 16)
	pdf.CellFormat(contentW, 9, "保單健檢摘要", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("cjk", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("客戶：%s", customer.Name), "", 1, "L", false, 0, "")
	if policy.Insurer != "" || policy.PolicyGroupName != "" {
		pdf.CellFormat(contentW, 6, fmt.Sprintf("保單：%s %s", policy.Insurer, policy.PolicyGroupName), "", 1, "L", false, 0, "")
	}
	if policy.EffectiveDate != "" {
		pdf.CellFormat(contentW, 6, fmt.Sprintf("生效日：%s", policy.EffectiveDate), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 6, policy.UpdatedAt.Format("產出時間：2006/01/02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(18, pdf.GetY(), pageW-18, pdf.GetY())
	pdf.Ln(3)

	// ── Body ─────────────────────────────────────────────────────────────────
	for _, line := range strings.Split(policy.HealthReport, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(2)
		case strings.HasPrefix(trimmed, "#"):
			pdf.SetFont("cjk", "B", 12)
			pdf.MultiCell(contentW, 7, strings.TrimSpace(strings.TrimLeft(trimmed, "#")), "", "L", false)
			pdf.Ln(1)
		default:
			pdf.SetFont("cjk", "", 10)
			pdf.MultiCell(contentW, 6, trimmed, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("產生 PDF 失敗：%w", err)
	}
	return buf.Bytes(), nil
}
