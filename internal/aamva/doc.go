// Package aamva parses the line-oriented record format embedded in the PDF417
// symbol of North American driver's licenses and ID cards. Parsing is total:
// malformed payloads yield empty or partial record maps, never errors.
package aamva
