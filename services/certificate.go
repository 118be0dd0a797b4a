package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	certificateTitle = "Certificado de Finalización"
	certificateFont  = "Go"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Certificate is a rendered document ready to be sent as an attachment.
type Certificate struct {
	Filename    string
	ContentType string
	Content     []byte
}

// CertificateIssuer renders completion certificates. It only reads the
// ledger and never changes stored state.
type CertificateIssuer struct {
	ledger  *EnrollmentLedger
	courses *CourseCatalog
	Now     func() time.Time
}

func NewCertificateIssuer(ledger *EnrollmentLedger, courses *CourseCatalog) *CertificateIssuer {
	return &CertificateIssuer{ledger: ledger, courses: courses, Now: time.Now}
}

// Issue checks the completion gate for (userID, courseID) and renders the
// certificate for holderName.
func (s *CertificateIssuer) Issue(ctx context.Context, userID uuid.UUID, holderName string, courseID uuid.UUID) (*Certificate, error) {
	enrollment, err := s.ledger.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrollment.Completed {
		return nil, ErrNotCompleted
	}

	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	content, err := RenderCertificate(holderName, course.Name, s.Now())
	if err != nil {
		return nil, internal("render certificate", err)
	}
	if err := checkRendered(content, holderName, course.Name); err != nil {
		return nil, internal("check certificate", err)
	}

	return &Certificate{
		Filename:    CertificateFilename(course.Name),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// CertificateFilename is the suggested attachment name for a course.
func CertificateFilename(courseName string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return -1
		case strings.ContainsRune(`"\/:*?<>|;`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(courseName))
	return "certificado-" + clean + ".pdf"
}

// FormatSpanishDate renders t as "14 de octubre de 2026".
func FormatSpanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// RenderCertificate lays out the single-page certificate. The output depends
// only on the three arguments. Text is set in the embedded Go fonts so names
// keep every character.
func RenderCertificate(holderName, courseName string, date time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(date)
	pdf.SetModificationDate(date)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(certificateTitle, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(certificateFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(certificateFont, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(certificateFont, "I", goitalic.TTF)

	pdf.AddPage()
	w, h := pdf.GetPageSize()

	pdf.SetLineWidth(1.5)
	pdf.SetDrawColor(40, 70, 120)
	pdf.Rect(10, 10, w-20, h-20, "D")

	pdf.SetY(45)
	pdf.SetFont(certificateFont, "B", 30)
	pdf.SetTextColor(40, 70, 120)
	pdf.CellFormat(0, 14, certificateTitle, "", 1, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont(certificateFont, "", 16)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 10, "Se certifica que", "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont(certificateFont, "B", 24)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, holderName, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont(certificateFont, "", 16)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 10, "ha completado satisfactoriamente el curso", "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont(certificateFont, "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, courseName, "", 1, "C", false, 0, "")

	pdf.SetY(h - 45)
	pdf.SetFont(certificateFont, "I", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "Fecha: "+FormatSpanishDate(date), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkRendered re-reads the document and requires a single page that shows
// both names exactly as given.
func checkRendered(content []byte, holderName, courseName string) error {
	pages, text, err := ExtractTextFromPDF(content)
	if err != nil {
		return err
	}
	if pages != 1 {
		return fmt.Errorf("expected 1 page, got %d", pages)
	}
	for _, want := range []string{holderName, courseName} {
		if !strings.Contains(text, want) {
			return fmt.Errorf("certificate text does not contain %q", want)
		}
	}
	return nil
}
