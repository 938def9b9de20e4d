package modality

import (
	"encoding/base64"
	"strings"
)

// Blob is a byte payload modality. Either Data (inlined bytes) or URI (an
// external retrieval location) is populated, mirroring how file attachments
// are commonly shipped to model providers.
type Blob struct {
	Base

	Data []byte // Inlined payload bytes (nil if external)
	URI  string // External retrieval URI (empty if inlined)
	Mime string // MIME type, e.g. "image/png", "audio/wav"
}

// Compile-time assertion that Blob satisfies Modality.
var _ Modality = (*Blob)(nil)

// NewBlob creates a blob from inlined bytes.
func NewBlob(data []byte, mime string) *Blob {
	return &Blob{Data: data, Mime: mime}
}

// NewBlobFromURI creates a blob referencing an external location.
func NewBlobFromURI(uri, mime string) *Blob {
	return &Blob{URI: uri, Mime: mime}
}

// NewImage creates an inlined image blob. An empty mime defaults to
// "image/png".
func NewImage(data []byte, mime string) *Blob {
	if mime == "" {
		mime = "image/png"
	}
	return NewBlob(data, mime)
}

// MimeType implements Modality.
func (b *Blob) MimeType() string { return b.Mime }

// Inlined reports whether the payload bytes are carried in-process.
func (b *Blob) Inlined() bool { return len(b.Data) > 0 }

// IsImage reports whether the payload is an image of any subtype.
func (b *Blob) IsImage() bool { return strings.HasPrefix(b.Mime, "image/") }

// Base64 returns the standard base64 encoding of the inlined payload.
func (b *Blob) Base64() string {
	return base64.StdEncoding.EncodeToString(b.Data)
}

// DataURI renders the inlined payload as an RFC 2397 data URI. For external
// blobs it returns the URI unchanged.
func (b *Blob) DataURI() string {
	if !b.Inlined() {
		return b.URI
	}
	return "data:" + b.Mime + ";base64," + b.Base64()
}
