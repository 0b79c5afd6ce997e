package fields

import (
	"strings"
	"time"
)

// SourcePriority labels which extraction channel is authoritative for a
// result.
type SourcePriority string

const (
	SourceBarcode SourcePriority = "BARCODE"
	SourceOCR     SourcePriority = "OCR"
)

// Confidence buckets for the overall result.
const (
	ConfidenceLow    = "LOW"
	ConfidenceMedium = "MEDIUM"
	ConfidenceHigh   = "HIGH"
)

// Identity document types.
const (
	IDTypeDriverLicense = "DRIVER_LICENSE"
	IDTypeUnknown       = "UNKNOWN"
)

// Meta carries derived metadata on a structured identity.
type Meta struct {
	IsExpired  bool   `json:"isExpired"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	Confidence string `json:"confidence"`
}

// StructuredIdentity is the API-facing reconciled record. Field keys inside
// the groups are camel-cased; groups with no fields are omitted.
type StructuredIdentity struct {
	IDType             string            `json:"idType"`
	SourcePriority     SourcePriority    `json:"sourcePriority"`
	Person             map[string]string `json:"person,omitempty"`
	Document           map[string]string `json:"document,omitempty"`
	Address            map[string]string `json:"address,omitempty"`
	PhysicalAttributes map[string]string `json:"physicalAttributes,omitempty"`
	ExtraFields        map[string]string `json:"extraFields,omitempty"`
	Meta               Meta              `json:"meta"`
}

// Output groups for the structured record.
const (
	groupPerson   = "person"
	groupDocument = "document"
	groupAddress  = "address"
	groupPhysical = "physical"
)

// keyGroups assigns known canonical keys to their output group. Keys outside
// the table land in extraFields.
var keyGroups = map[string]string{
	"first_name":             groupPerson,
	"middle_name":            groupPerson,
	"last_name":              groupPerson,
	"suffix":                 groupPerson,
	"sex":                    groupPerson,
	"eye_color":              groupPhysical,
	"hair_color":             groupPhysical,
	"height_in":              groupPhysical,
	"weight_lb":              groupPhysical,
	"license_number":         groupDocument,
	"issue_date":             groupDocument,
	"expiry_date":            groupDocument,
	"dob":                    groupDocument,
	"issuer_country":         groupDocument,
	"audit_number":           groupDocument,
	"document_discriminator": groupDocument,
	"card_revision_date":     groupDocument,
	"hazmat_expiry":          groupDocument,
	"street":                 groupAddress,
	"city":                   groupAddress,
	"state":                  groupAddress,
	"postal_code":            groupAddress,
}

// camelCase converts a snake_case key to camelCase.
func camelCase(key string) string {
	parts := strings.Split(key, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// NormalizeIDType derives the document type label from a free-text hint.
func NormalizeIDType(hint string) string {
	upper := strings.ToUpper(hint)
	if strings.Contains(upper, "DRIVER") && strings.Contains(upper, "LICENSE") {
		return IDTypeDriverLicense
	}
	return IDTypeUnknown
}

// isExpired compares a reconciled YYYY-MM-DD expiry date against the
// reference date at day resolution. Missing or unparsable dates are never
// reported as expired.
func isExpired(expiryDate string, ref time.Time) bool {
	exp, err := time.Parse("2006-01-02", expiryDate)
	if err != nil {
		return false
	}
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return exp.Before(refDay)
}

// BuildStructured groups the reconciled fields into the structured identity
// record. The reference date is injected so expiry checks are deterministic
// under test; production callers pass time.Now().
func BuildStructured(final map[string]string, priority SourcePriority, idTypeHint string, ref time.Time) StructuredIdentity {
	s := StructuredIdentity{
		IDType:         NormalizeIDType(idTypeHint),
		SourcePriority: priority,
	}

	put := func(group string, key, value string) {
		var target *map[string]string
		switch group {
		case groupPerson:
			target = &s.Person
		case groupDocument:
			target = &s.Document
		case groupAddress:
			target = &s.Address
		case groupPhysical:
			target = &s.PhysicalAttributes
		default:
			target = &s.ExtraFields
		}
		if *target == nil {
			*target = make(map[string]string)
		}
		(*target)[camelCase(key)] = value
	}

	for key, value := range final {
		if value == "" {
			continue
		}
		put(keyGroups[key], key, value)
	}

	expiry := final["expiry_date"]
	s.Meta = Meta{
		IsExpired:  isExpired(expiry, ref),
		ExpiryDate: expiry,
		Confidence: confidenceBucket(final, priority),
	}
	return s
}

func confidenceBucket(final map[string]string, priority SourcePriority) string {
	if len(final) == 0 {
		return ConfidenceLow
	}
	if priority == SourceBarcode {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}
