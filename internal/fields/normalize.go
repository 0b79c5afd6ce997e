// Package fields owns the canonical field vocabulary shared by the barcode
// and recognition channels, and the reconciliation logic that merges the two
// into a single structured identity record.
package fields

import (
	"strings"

	"github.com/MeKo-Tech/idscan/internal/recognition"
)

// Field is one canonicalized field value with its extraction confidence in
// [0,100].
type Field struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// FieldMap maps canonical snake_case field keys to values.
type FieldMap map[string]Field

// SideGroups holds canonicalized recognition fields grouped by the physical
// card side they were recognized on.
type SideGroups struct {
	Front   FieldMap `json:"front,omitempty"`
	Back    FieldMap `json:"back,omitempty"`
	Unknown FieldMap `json:"unknown,omitempty"`
}

// sideTypeCode is the recognition field whose text indicates the card side.
const sideTypeCode = "ID_TYPE"

// typeCodeTable translates provider field-type codes to the canonical
// vocabulary. Codes outside the table fall back to a derived key.
var typeCodeTable = map[string]string{
	"FIRST_NAME":          "first_name",
	"MIDDLE_NAME":         "middle_name",
	"LAST_NAME":           "last_name",
	"SUFFIX":              "suffix",
	"DATE_OF_BIRTH":       "dob",
	"EXPIRATION_DATE":     "expiry_date",
	"DATE_OF_ISSUE":       "issue_date",
	"DOCUMENT_NUMBER":     "license_number",
	"ID_TYPE":             "id_type",
	"ADDRESS":             "street",
	"CITY_IN_ADDRESS":     "city",
	"STATE_IN_ADDRESS":    "state",
	"ZIP_CODE_IN_ADDRESS": "postal_code",
	"STATE_NAME":          "state_name",
	"COUNTY":              "county",
	"PLACE_OF_BIRTH":      "place_of_birth",
	"CLASS":               "class",
	"RESTRICTIONS":        "restrictions",
	"ENDORSEMENTS":        "endorsements",
	"VETERAN":             "veteran",
	"MRZ_CODE":            "mrz_code",
}

// CanonicalKey resolves a provider field-type code to its canonical key.
// Unknown codes are lower-cased with separators collapsed to underscores;
// blank codes resolve to "".
func CanonicalKey(typeCode string) string {
	code := strings.TrimSpace(typeCode)
	if code == "" {
		return ""
	}
	if key, ok := typeCodeTable[strings.ToUpper(code)]; ok {
		return key
	}
	key := strings.ToLower(code)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// Flatten concatenates every document's field list into one sequence,
// preserving input order.
func Flatten(docs []recognition.Document) []recognition.Field {
	var out []recognition.Field
	for _, doc := range docs {
		out = append(out, doc.Fields...)
	}
	return out
}

// Canonicalize maps recognition fields into a FieldMap. Entries with blank
// type codes are skipped; a repeated key keeps the last value seen.
func Canonicalize(entries []recognition.Field) FieldMap {
	m := make(FieldMap)
	for _, entry := range entries {
		key := CanonicalKey(entry.TypeCode)
		if key == "" {
			continue
		}
		m[key] = Field{Value: entry.Text, Confidence: entry.Confidence}
	}
	return m
}

// sideOf inspects a document's side-indicator field. Documents lacking the
// field, or whose text names neither side, are unknown.
func sideOf(doc recognition.Document) string {
	for _, f := range doc.Fields {
		if !strings.EqualFold(strings.TrimSpace(f.TypeCode), sideTypeCode) {
			continue
		}
		text := strings.ToUpper(f.Text)
		switch {
		case strings.Contains(text, "FRONT"):
			return "front"
		case strings.Contains(text, "BACK"):
			return "back"
		}
		return "unknown"
	}
	return "unknown"
}

// ClassifySides canonicalizes each document's fields into the group of the
// card side it was recognized on. Classification happens per source document,
// before flattening, so one document's side indicator never claims another
// document's fields.
func ClassifySides(docs []recognition.Document) SideGroups {
	groups := SideGroups{}
	for _, doc := range docs {
		fm := Canonicalize(doc.Fields)
		if len(fm) == 0 {
			continue
		}
		switch sideOf(doc) {
		case "front":
			groups.Front = mergeInto(groups.Front, fm)
		case "back":
			groups.Back = mergeInto(groups.Back, fm)
		default:
			groups.Unknown = mergeInto(groups.Unknown, fm)
		}
	}
	return groups
}

// Merged collapses the side groups into one recognition field map for
// reconciliation. Front values win over back, back over unknown.
func (g SideGroups) Merged() FieldMap {
	m := make(FieldMap)
	m = mergeInto(m, g.Unknown)
	m = mergeInto(m, g.Back)
	m = mergeInto(m, g.Front)
	return m
}

func mergeInto(dst, src FieldMap) FieldMap {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(FieldMap, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
