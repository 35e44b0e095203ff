package service

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// PDFService extracts raw text from downloaded announcement PDFs.
type PDFService struct {
	logger *zap.Logger
}

func NewPDFService(logger *zap.Logger) *PDFService {
	return &PDFService{logger: logger}
}

// ExtractText returns the concatenated text of all pages, joined by
// newlines. Pages without extractable text contribute nothing; a document
// with no text at all is an error. No OCR is attempted.
func (s *PDFService) ExtractText(pdfPath string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var builder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", pdfPath),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			builder.WriteString(pageText)
			builder.WriteString("\n")
		}
	}

	text := sanitizeUTF8(strings.TrimSpace(builder.String()))
	if text == "" {
		return "", fmt.Errorf("no text found in PDF")
	}

	s.logger.Info("PDF text extracted",
		zap.String("file", pdfPath),
		zap.Int("pages", doc.NumPage()),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
