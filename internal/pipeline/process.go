package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/idscan/internal/aamva"
	"github.com/MeKo-Tech/idscan/internal/barcode"
	"github.com/MeKo-Tech/idscan/internal/fields"
	"github.com/MeKo-Tech/idscan/internal/utils"
)

// ProcessImage scans one encoded image. Undecodable input is the only error;
// an image in which nothing was found yields a result with empty channels and
// an UNKNOWN structured record.
func (p *Pipeline) ProcessImage(ctx context.Context, data []byte) (*ScanResult, error) {
	start := time.Now()

	img, meta, err := utils.DecodeImage(data)
	if err != nil {
		return nil, err
	}

	barcodeData, barcodeFields, sawPDF417 := p.runBarcode(ctx, img)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ocrData, ocrFields := p.runRecognition(ctx, data)

	priority := fields.SourceOCR
	if sawPDF417 {
		priority = fields.SourceBarcode
	}

	// The recognition channel names the document type when it saw one; a
	// parsed AAMVA payload implies a driver license on its own.
	hint := ocrFields["id_type"].Value
	if hint == "" && len(barcodeFields) > 0 {
		hint = "DRIVER LICENSE"
	}

	final := fields.Reconcile(barcodeFields, ocrFields)
	structured := fields.BuildStructured(final, priority, hint, p.now())

	return &ScanResult{
		Image:      meta,
		Barcode:    barcodeData,
		OCR:        ocrData,
		Structured: structured,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// ProcessFile scans an image file from disk.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*ScanResult, error) {
	if !utils.IsSupportedImage(path) {
		return nil, fmt.Errorf("unsupported image file: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	result, err := p.ProcessImage(ctx, data)
	if err != nil {
		return nil, err
	}
	result.Filename = filepath.Base(path)
	result.Image.Path = path
	return result, nil
}

// runBarcode executes the decode search and parses each symbol's payload.
// It returns the channel data, the field map of the first AAMVA-parsable
// PDF417 symbol, and whether any PDF417 symbol was decoded at all.
func (p *Pipeline) runBarcode(ctx context.Context, img image.Image) (BarcodeData, fields.FieldMap, bool) {
	results, err := p.decoder.Decode(ctx, img)
	if err != nil || len(results) == 0 {
		return BarcodeData{}, nil, false
	}

	data := BarcodeData{Detected: true, Symbols: make([]Symbol, 0, len(results))}
	var barcodeFields fields.FieldMap
	sawPDF417 := false

	for i, res := range results {
		sym := parseSymbol(i+1, res)
		data.Symbols = append(data.Symbols, sym)
		if res.Type != barcode.FormatPDF417 {
			continue
		}
		sawPDF417 = true
		if barcodeFields == nil && sym.Payload != nil {
			barcodeFields = fields.FromBarcode(sym.Payload.FieldMap())
		}
	}
	return data, barcodeFields, sawPDF417
}

// runRecognition executes the remote analysis and groups the fields by card
// side. The merged field map feeds reconciliation.
func (p *Pipeline) runRecognition(ctx context.Context, data []byte) (OCRData, fields.FieldMap) {
	docs, _ := p.recognition.AnalyzeIdentityDocument(ctx, data)
	groups := fields.ClassifySides(docs)
	merged := groups.Merged()

	out := OCRData{
		Detected: len(merged) > 0,
		Front:    groups.Front,
		Back:     groups.Back,
		Unknown:  groups.Unknown,
		Address:  addressFrom(merged),
	}
	return out, merged
}

// addressFrom synthesizes the address block when any address part was
// recognized.
func addressFrom(m fields.FieldMap) *OCRAddress {
	addr := OCRAddress{
		Street:     m["street"].Value,
		City:       m["city"].Value,
		State:      m["state"].Value,
		PostalCode: m["postal_code"].Value,
	}
	if addr == (OCRAddress{}) {
		return nil
	}
	return &addr
}

// parseSymbol normalizes and parses one decoded payload.
func parseSymbol(id int, res barcode.Result) Symbol {
	sym := Symbol{
		ID:           id,
		Type:         res.Type.String(),
		Raw:          res.Value,
		RawFormatted: aamva.NormalizeRaw(res.Value),
	}
	records := aamva.ParseRecords(sym.RawFormatted)
	if len(records) > 0 {
		payload := aamva.ParsePayload(records)
		sym.Records = records
		sym.Payload = &payload
	}
	return sym
}
