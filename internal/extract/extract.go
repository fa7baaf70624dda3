// Package extract converts uploaded resume documents into plain text.
//
// Extraction is purely mechanical: pages are concatenated in document
// order with no OCR, no layout reconstruction, and no reading-order
// guarantee for multi-column content. A well-formed document that happens
// to contain no extractable text yields an empty string, not an error.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"resumerank/internal/errors"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format identifies the declared format of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// DetectFormat determines the document format from the uploaded file name
// and the declared content type. The file extension wins when both apply.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".md", ".text":
		return FormatText, nil
	}

	switch contentType {
	case "application/pdf":
		return FormatPDF, nil
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX, nil
	case "text/plain":
		return FormatText, nil
	}

	return "", errors.NewExtractionError(errors.ErrCodeUnsupportedInput,
		fmt.Sprintf("unsupported resume format: %s (%s)", filename, contentType), nil)
}

// Extractor converts document bytes into plain text.
type Extractor struct {
	logger *errors.Logger
}

// NewExtractor creates a new extractor instance
func NewExtractor(logger *errors.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Text extracts the plain text of a document held in memory.
func (e *Extractor) Text(data []byte, format Format) (string, error) {
	switch format {
	case FormatPDF:
		return e.pdfText(data)
	case FormatDOCX:
		return e.docxText(data)
	case FormatText:
		return string(data), nil
	default:
		return "", errors.NewExtractionError(errors.ErrCodeUnsupportedInput,
			fmt.Sprintf("unsupported resume format: %s", format), nil)
	}
}

// pdfText concatenates the text of every page in document order.
func (e *Extractor) pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeInvalidDocument,
			"failed to parse PDF document", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages rather than failing the document
			if e.logger != nil {
				e.logger.Warn("Failed to extract text from PDF page",
					"page", i, "error", err.Error())
			}
			continue
		}

		textBuilder.WriteString(text)
	}

	return textBuilder.String(), nil
}

// docxText extracts the document body of a DOCX file.
func (e *Extractor) docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeInvalidDocument,
			"failed to parse DOCX document", err)
	}
	defer func() {
		if err := doc.Close(); err != nil && e.logger != nil {
			e.logger.Warn("Failed to close DOCX document", "error", err.Error())
		}
	}()

	return doc.Editable().GetContent(), nil
}
