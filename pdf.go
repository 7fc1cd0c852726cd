package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"
)

const maxPDFSize = 20 * 1024 * 1024

var (
	ErrInvalidPDF  = errors.New("not a valid PDF")
	ErrPDFTooLarge = errors.New("PDF file too large")
)

func isPDF(path string) bool {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func readPDF(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access PDF file: %w", err)
	}

	if info.Size() > maxPDFSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPDFTooLarge, info.Size(), maxPDFSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read PDF file: %w", err)
	}

	return data, nil
}

// checkPDF reads the document-information dictionary and trailer of a PDF
// and assembles the analysis result. The content is staged in a private
// temporary directory that is removed before returning.
func checkPDF(name string, data []byte) (result *AnalysisResult, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidPDF)
	}
	if len(data) > maxPDFSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPDFTooLarge, len(data), maxPDFSize)
	}

	tmpDir, err := os.MkdirTemp("", "pdfcheck-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF: %w", err)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	trailer := r.Trailer()
	metadata := readInfo(trailer.Key("Info"))
	log.Debug("read document info", "file", name, "keys", len(metadata))

	creationRaw := metadata["CreationDate"]
	modRaw := metadata["ModDate"]
	hasSignature := slices.Contains(trailer.Keys(), "SigFlags")

	sum := sha256.Sum256(data)

	return &AnalysisResult{
		FileName:   name,
		FileSize:   int64(len(data)),
		FileSHA256: hex.EncodeToString(sum[:]),

		Title:    cleanMetadataString(metadata["Title"]),
		Author:   cleanMetadataString(metadata["Author"]),
		Subject:  cleanMetadataString(metadata["Subject"]),
		Creator:  cleanMetadataString(metadata["Creator"]),
		Producer: cleanMetadataString(metadata["Producer"]),
		Keywords: cleanMetadataString(metadata["Keywords"]),

		CreationDate:     parsePDFDate(creationRaw),
		ModificationDate: parsePDFDate(modRaw),

		ModificationStatus: modificationStatus(creationRaw, modRaw),
		DigitalSignature:   signatureStatus(hasSignature),

		RawMetadata: metadata,
	}, nil
}

// readInfo flattens the info dictionary into text values. A missing
// dictionary yields an empty map.
func readInfo(info pdf.Value) map[string]string {
	metadata := make(map[string]string)
	if info.Kind() != pdf.Dict {
		return metadata
	}
	for _, key := range info.Keys() {
		metadata[key] = valueText(info.Key(key))
	}
	return metadata
}

func valueText(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Null:
		return ""
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	default:
		return v.String()
	}
}
