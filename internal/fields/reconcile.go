package fields

import "sort"

// barcodeConfidence is the score assumed for barcode-decoded fields. A
// successfully decoded PDF417 payload is structurally checksummed, so the
// channel is treated as inherently high-confidence.
const barcodeConfidence = 100

// FromBarcode lifts the barcode channel's key→value map into a FieldMap.
func FromBarcode(m map[string]string) FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = Field{Value: v, Confidence: barcodeConfidence}
	}
	return out
}

// score is a side's claim on a key: its confidence when it has a non-empty
// value, zero otherwise.
func score(f Field, ok bool) float64 {
	if !ok || f.Value == "" {
		return 0
	}
	return f.Confidence
}

// Reconcile merges the two channels' field maps key by key. The side with the
// higher score wins; ties favor the barcode side. Keys with no non-empty,
// nonzero-confidence value on either side are dropped. Keys are visited in
// sorted order purely so output construction is reproducible.
func Reconcile(barcodeFields, ocrFields FieldMap) map[string]string {
	keys := make(map[string]struct{}, len(barcodeFields)+len(ocrFields))
	for k := range barcodeFields {
		keys[k] = struct{}{}
	}
	for k := range ocrFields {
		keys[k] = struct{}{}
	}
	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	final := make(map[string]string)
	for _, k := range ordered {
		bf, bok := barcodeFields[k]
		of, ook := ocrFields[k]
		bScore := score(bf, bok)
		oScore := score(of, ook)
		switch {
		case bScore == 0 && oScore == 0:
			continue
		case bScore >= oScore:
			final[k] = bf.Value
		default:
			final[k] = of.Value
		}
	}
	return final
}
