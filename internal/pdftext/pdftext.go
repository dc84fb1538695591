// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from thesis PDFs.
package pdftext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Converter turns a PDF file into plain text. Tests substitute a fake;
// production uses New().
type Converter interface {
	Text(path string) (string, error)
}

type converter struct{}

// New returns the production converter.
func New() Converter {
	return converter{}
}

// Text reads a PDF and returns its concatenated plain text. Scanned
// documents with no text layer yield an error rather than an empty
// string, so callers can record the document as unextractable.
func (converter) Text(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading text from %s: %w", path, err)
	}

	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return "", fmt.Errorf("no text layer in %s", path)
	}
	return buf.String(), nil
}
