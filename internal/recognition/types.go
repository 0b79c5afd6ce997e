// Package recognition is the boundary to the remote document-field
// recognition capability. Absent credentials and transient remote failures
// both degrade to an empty document list, so the pipeline never observes a
// raised failure from this channel.
package recognition

import (
	"context"
	"errors"
)

// ErrNotConfigured indicates the remote capability has no credentials.
var ErrNotConfigured = errors.New("recognition: credentials are not configured")

// Field is one recognized identity-document field.
type Field struct {
	// TypeCode is the provider's field-type code, e.g. "FIRST_NAME".
	TypeCode string `json:"type"`

	// Text is the detected value text.
	Text string `json:"text"`

	// Confidence is the provider's score in [0,100].
	Confidence float64 `json:"confidence"`
}

// Document groups the fields recognized on one document in the input image.
type Document struct {
	DocumentIndex int     `json:"document_index"`
	Fields        []Field `json:"fields"`
}

// Capability analyzes identity documents in an image.
type Capability interface {
	// AnalyzeIdentityDocument returns the recognized documents. An empty
	// slice with a nil error is a clean "nothing recognized"; errors are
	// reserved for an unconfigured capability.
	AnalyzeIdentityDocument(ctx context.Context, imageBytes []byte) ([]Document, error)

	// Available reports whether the capability is configured.
	Available() bool
}

// Unavailable returns a Capability that always reports an empty result set.
func Unavailable() Capability { return unavailable{} }

type unavailable struct{}

func (unavailable) AnalyzeIdentityDocument(context.Context, []byte) ([]Document, error) {
	return nil, ErrNotConfigured
}

func (unavailable) Available() bool { return false }
