package aamva

import "strings"

// AAMVA element codes carried into the structured payload. Codes outside this
// set stay available in the raw record map only.
const (
	codeFirstName       = "DAC"
	codeMiddleName      = "DAD"
	codeLastName        = "DCS"
	codeSuffix          = "DCU"
	codeSex             = "DBC"
	codeEyeColor        = "DAY"
	codeHairColor       = "DAZ"
	codeHeight          = "DAU"
	codeWeight          = "DAW"
	codeLicenseNumber   = "DAQ"
	codeIssueDate       = "DBD"
	codeExpiryDate      = "DBA"
	codeBirthDate       = "DBB"
	codeIssuerCountry   = "DCG"
	codeAuditNumber     = "DCF"
	codeDiscriminator   = "DCK"
	codeCardRevision    = "DDB"
	codeHazmatExpiry    = "DCH"
	codeStreet          = "DAG"
	codeCity            = "DAI"
	codeState           = "DAJ"
	codePostalCode      = "DAK"
)

// Person holds the cardholder identity elements of a payload.
type Person struct {
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Suffix     string `json:"suffix,omitempty"`
	Sex        string `json:"sex,omitempty"`
	EyeColor   string `json:"eye_color,omitempty"`
	HairColor  string `json:"hair_color,omitempty"`
	HeightIn   string `json:"height_in,omitempty"`
	WeightLb   string `json:"weight_lb,omitempty"`
}

// Document holds the license/card elements of a payload.
type Document struct {
	LicenseNumber         string `json:"license_number,omitempty"`
	IssueDate             string `json:"issue_date,omitempty"`
	ExpiryDate            string `json:"expiry_date,omitempty"`
	DOB                   string `json:"dob,omitempty"`
	IssuerCountry         string `json:"issuer_country,omitempty"`
	AuditNumber           string `json:"audit_number,omitempty"`
	DocumentDiscriminator string `json:"document_discriminator,omitempty"`
	CardRevisionDate      string `json:"card_revision_date,omitempty"`
	HazmatExpiry          string `json:"hazmat_expiry,omitempty"`
}

// Address holds the cardholder address elements of a payload.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Payload is the structured form of a parsed AAMVA record map.
type Payload struct {
	Person   Person   `json:"person"`
	Document Document `json:"document"`
	Address  Address  `json:"address"`
}

// formatDate reformats an 8-digit MMDDYYYY element as YYYY-MM-DD. Values in
// any other shape are dropped rather than guessed at.
func formatDate(value string) string {
	if len(value) != 8 {
		return ""
	}
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return ""
		}
	}
	return value[4:8] + "-" + value[0:2] + "-" + value[2:4]
}

// heightDigits reduces a height element like "068 in" or "068IN" to its digit
// characters.
func heightDigits(value string) string {
	var b strings.Builder
	for _, ch := range value {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// ParsePayload builds the structured payload from a record map.
func ParsePayload(records RecordMap) Payload {
	return Payload{
		Person: Person{
			FirstName:  records[codeFirstName],
			MiddleName: records[codeMiddleName],
			LastName:   records[codeLastName],
			Suffix:     records[codeSuffix],
			Sex:        records[codeSex],
			EyeColor:   records[codeEyeColor],
			HairColor:  records[codeHairColor],
			HeightIn:   heightDigits(records[codeHeight]),
			WeightLb:   records[codeWeight],
		},
		Document: Document{
			LicenseNumber:         records[codeLicenseNumber],
			IssueDate:             formatDate(records[codeIssueDate]),
			ExpiryDate:            formatDate(records[codeExpiryDate]),
			DOB:                   formatDate(records[codeBirthDate]),
			IssuerCountry:         records[codeIssuerCountry],
			AuditNumber:           records[codeAuditNumber],
			DocumentDiscriminator: records[codeDiscriminator],
			CardRevisionDate:      records[codeCardRevision],
			HazmatExpiry:          records[codeHazmatExpiry],
		},
		Address: Address{
			Street:     records[codeStreet],
			City:       records[codeCity],
			State:      records[codeState],
			PostalCode: strings.TrimSpace(records[codePostalCode]),
		},
	}
}

// FieldMap flattens a payload into the canonical snake_case field vocabulary
// shared with the recognition channel. Empty elements are omitted.
func (p Payload) FieldMap() map[string]string {
	m := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	put("first_name", p.Person.FirstName)
	put("middle_name", p.Person.MiddleName)
	put("last_name", p.Person.LastName)
	put("suffix", p.Person.Suffix)
	put("sex", p.Person.Sex)
	put("eye_color", p.Person.EyeColor)
	put("hair_color", p.Person.HairColor)
	put("height_in", p.Person.HeightIn)
	put("weight_lb", p.Person.WeightLb)
	put("license_number", p.Document.LicenseNumber)
	put("issue_date", p.Document.IssueDate)
	put("expiry_date", p.Document.ExpiryDate)
	put("dob", p.Document.DOB)
	put("issuer_country", p.Document.IssuerCountry)
	put("audit_number", p.Document.AuditNumber)
	put("document_discriminator", p.Document.DocumentDiscriminator)
	put("card_revision_date", p.Document.CardRevisionDate)
	put("hazmat_expiry", p.Document.HazmatExpiry)
	put("street", p.Address.Street)
	put("city", p.Address.City)
	put("state", p.Address.State)
	put("postal_code", p.Address.PostalCode)
	return m
}
