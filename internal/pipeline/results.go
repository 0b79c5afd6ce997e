package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ToJSON serializes a single scan result to pretty JSON.
func ToJSON(res *ScanResult) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToJSONBatch serializes batch results to pretty JSON. Failed items carry
// their error message in place of a result.
func ToJSONBatch(results []BatchResult) (string, error) {
	type entry struct {
		Filename string      `json:"filename"`
		Result   *ScanResult `json:"result,omitempty"`
		Error    string      `json:"error,omitempty"`
	}
	entries := make([]entry, 0, len(results))
	for _, r := range results {
		e := entry{Filename: r.Filename, Result: r.Result}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToSummary renders a short human-readable account of one scan result.
func ToSummary(res *ScanResult) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var b strings.Builder
	if res.Filename != "" {
		fmt.Fprintf(&b, "file: %s\n", res.Filename)
	}
	fmt.Fprintf(&b, "barcode: detected=%v symbols=%d\n", res.Barcode.Detected, len(res.Barcode.Symbols))
	for _, sym := range res.Barcode.Symbols {
		fmt.Fprintf(&b, "  [%d] %s (%d bytes, %d records)\n", sym.ID, sym.Type, len(sym.Raw), len(sym.Records))
	}
	fmt.Fprintf(&b, "ocr: detected=%v\n", res.OCR.Detected)
	fmt.Fprintf(&b, "type: %s  source: %s  confidence: %s  expired: %v\n",
		res.Structured.IDType, res.Structured.SourcePriority,
		res.Structured.Meta.Confidence, res.Structured.Meta.IsExpired)
	writeGroup(&b, "person", res.Structured.Person)
	writeGroup(&b, "document", res.Structured.Document)
	writeGroup(&b, "address", res.Structured.Address)
	writeGroup(&b, "physical", res.Structured.PhysicalAttributes)
	return b.String(), nil
}

func writeGroup(b *strings.Builder, name string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "%s:\n", name)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, m[k])
	}
}
