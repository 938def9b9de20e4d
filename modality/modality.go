package modality

// Delimiters marking a modality reference inside message text. Text between
// a start and end delimiter is interpreted as a reference name.
const (
	RefStart = "<<[["
	RefEnd   = "]]>>"
)

// TextMarker returns the delimited placeholder embedded in message text for
// the given reference name.
func TextMarker(name string) string {
	return RefStart + name + RefEnd
}

// Modality is a non-text payload attachable to a message. Once attached the
// object carries the reference name it is stored under; the same object may
// additionally be referenced (without re-binding) from other messages via Ref.
type Modality interface {
	// ReferredName returns the reference name the object is bound to, or the
	// empty string while unattached.
	ReferredName() string

	// Bind attaches the object under the given reference name.
	Bind(name string)

	// Bound reports whether the object is already attached somewhere.
	Bound() bool

	// MimeType describes the payload encoding, e.g. "image/png".
	MimeType() string
}

// Ref is a non-owning handle to a modality already owned by another message.
// Storing a Ref instead of the object itself keeps fusion from duplicating
// payloads; message.Get dereferences it transparently.
type Ref struct {
	Value Modality
}

// MaybeRef binds m under name if it is still unattached, otherwise wraps it
// in a Ref so the original binding is preserved. The returned value is what
// should be stored in message metadata.
func MaybeRef(m Modality, name string) any {
	if m.Bound() {
		return Ref{Value: m}
	}
	m.Bind(name)
	return m
}

// Base supplies referred-name bookkeeping for concrete modality types.
// Embed it by pointer-receiver convention: concrete types should be used as
// pointers so Bind mutates the shared instance.
type Base struct {
	referredName string
}

// ReferredName returns the bound reference name, or "" while unattached.
func (b *Base) ReferredName() string { return b.referredName }

// Bind attaches the object under the given reference name.
func (b *Base) Bind(name string) { b.referredName = name }

// Bound reports whether Bind has been called.
func (b *Base) Bound() bool { return b.referredName != "" }
