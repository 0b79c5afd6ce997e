package aamva

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRaw is a representative driver license payload with CR separators.
const sampleRaw = "@\r" +
	"ANSI 636014040002DL00410278\r" +
	"DAQX12345678\r" +
	"DCSDOE\r" +
	"DACJANE\r" +
	"DADMARIE\r" +
	"DCU\r" +
	"DBC2\r" +
	"DAYBRO\r" +
	"DAZBLK\r" +
	"DAU068 in\r" +
	"DAW130\r" +
	"DBD08242015\r" +
	"DBA08242031\r" +
	"DBB09151990\r" +
	"DCGUSA\r" +
	"DCF83D86421\r" +
	"DCK1234567890\r" +
	"DAG123 MAIN ST\r" +
	"DAISACRAMENTO\r" +
	"DAJCA\r" +
	"DAK958180000  \r"

func TestParsePayload(t *testing.T) {
	records := ParseRecords(NormalizeRaw(sampleRaw))
	require.NotEmpty(t, records)

	p := ParsePayload(records)

	assert.Equal(t, "JANE", p.Person.FirstName)
	assert.Equal(t, "MARIE", p.Person.MiddleName)
	assert.Equal(t, "DOE", p.Person.LastName)
	assert.Equal(t, "2", p.Person.Sex)
	assert.Equal(t, "BRO", p.Person.EyeColor)
	assert.Equal(t, "BLK", p.Person.HairColor)
	assert.Equal(t, "068", p.Person.HeightIn)
	assert.Equal(t, "130", p.Person.WeightLb)

	assert.Equal(t, "X12345678", p.Document.LicenseNumber)
	assert.Equal(t, "2015-08-24", p.Document.IssueDate)
	assert.Equal(t, "2031-08-24", p.Document.ExpiryDate)
	assert.Equal(t, "1990-09-15", p.Document.DOB)
	assert.Equal(t, "USA", p.Document.IssuerCountry)
	assert.Equal(t, "83D86421", p.Document.AuditNumber)
	assert.Equal(t, "1234567890", p.Document.DocumentDiscriminator)

	assert.Equal(t, "123 MAIN ST", p.Address.Street)
	assert.Equal(t, "SACRAMENTO", p.Address.City)
	assert.Equal(t, "CA", p.Address.State)
	assert.Equal(t, "958180000", p.Address.PostalCode)
}

func TestParsePayloadDateHandling(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"valid date", "08242031", "2031-08-24"},
		{"too short", "0824203", ""},
		{"too long", "082420311", ""},
		{"non-digit characters", "08-24-31", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePayload(RecordMap{"DBA": tt.value})
			assert.Equal(t, tt.expected, p.Document.ExpiryDate)
		})
	}
}

func TestParsePayloadHeight(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"inches with unit", "068 in", "068"},
		{"inches compact", "068IN", "068"},
		{"digits only", "070", "070"},
		{"no digits", "in", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePayload(RecordMap{"DAU": tt.value})
			assert.Equal(t, tt.expected, p.Person.HeightIn)
		})
	}
}

func TestPayloadFieldMap(t *testing.T) {
	records := ParseRecords(NormalizeRaw(sampleRaw))
	m := ParsePayload(records).FieldMap()

	assert.Equal(t, "JANE", m["first_name"])
	assert.Equal(t, "X12345678", m["license_number"])
	assert.Equal(t, "2031-08-24", m["expiry_date"])
	assert.Equal(t, "958180000", m["postal_code"])

	// Elements absent from the payload must not appear as empty keys.
	assert.NotContains(t, m, "suffix")
	assert.NotContains(t, m, "hazmat_expiry")
	assert.NotContains(t, m, "card_revision_date")
}

func TestPayloadFieldMapEmpty(t *testing.T) {
	m := ParsePayload(RecordMap{}).FieldMap()
	assert.Empty(t, m)
}
