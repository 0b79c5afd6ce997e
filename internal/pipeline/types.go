package pipeline

import (
	"github.com/MeKo-Tech/idscan/internal/aamva"
	"github.com/MeKo-Tech/idscan/internal/fields"
	"github.com/MeKo-Tech/idscan/internal/utils"
)

// Symbol is one decoded barcode symbol together with whatever structure could
// be parsed out of its payload.
type Symbol struct {
	ID   int    `json:"id"`
	Type string `json:"type"`

	// Raw is the payload exactly as decoded. RawFormatted has control
	// separators normalized to newlines for display.
	Raw          string `json:"raw"`
	RawFormatted string `json:"raw_formatted"`

	// Records and Payload are present only when the payload parsed as an
	// AAMVA element stream.
	Records aamva.RecordMap `json:"records,omitempty"`
	Payload *aamva.Payload  `json:"payload,omitempty"`
}

// BarcodeData is the barcode channel's contribution to a scan result.
type BarcodeData struct {
	Detected bool     `json:"detected"`
	Symbols  []Symbol `json:"symbols,omitempty"`
}

// OCRAddress is the address block synthesized from recognized address parts.
type OCRAddress struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// OCRData is the recognition channel's contribution to a scan result.
type OCRData struct {
	Detected bool            `json:"detected"`
	Front    fields.FieldMap `json:"front,omitempty"`
	Back     fields.FieldMap `json:"back,omitempty"`
	Unknown  fields.FieldMap `json:"unknown,omitempty"`
	Address  *OCRAddress     `json:"address,omitempty"`
}

// ScanResult is the complete outcome of scanning one image.
type ScanResult struct {
	Filename   string                    `json:"filename,omitempty"`
	Image      utils.ImageMetadata       `json:"image"`
	Barcode    BarcodeData               `json:"barcode"`
	OCR        OCRData                   `json:"ocr"`
	Structured fields.StructuredIdentity `json:"structured"`
	DurationMs int64                     `json:"duration_ms"`
}
