package aamva

import "strings"

// Sentinel is the compliance indicator that opens every AAMVA payload.
const Sentinel = '@'

// Record element separators. Some decoders emit the literal marker text
// instead of the control character.
var rawReplacer = strings.NewReplacer(
	"<LF>", "\n",
	"<CR>", "\r",
	"<RS>", "\x1e",
)

// NormalizeRaw collapses the payload's control markers and control characters
// (CR, LF, RS, GS) to single newlines so line splitting is uniform regardless
// of how the decoder represented record breaks.
func NormalizeRaw(raw string) string {
	normalized := rawReplacer.Replace(raw)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.ReplaceAll(normalized, "\x1e", "\n") // RS
	normalized = strings.ReplaceAll(normalized, "\x1d", "\n") // GS
	return normalized
}

// RecordMap maps 3-character AAMVA element codes to their string values.
type RecordMap map[string]string

// ParseRecords splits a normalized payload into its element records. Payloads
// that do not open with the sentinel yield an empty map. Lines shorter than
// 4 characters are ignored; a repeated code keeps the last value seen.
func ParseRecords(normalized string) RecordMap {
	if len(normalized) == 0 || normalized[0] != Sentinel {
		return RecordMap{}
	}
	records := make(RecordMap)
	for _, line := range strings.Split(normalized, "\n") {
		if len(line) >= 4 {
			records[line[:3]] = line[3:]
		}
	}
	return records
}
