package modality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextMarker(t *testing.T) {
	assert.Equal(t, RefStart+"obj0"+RefEnd, TextMarker("obj0"))
}

func TestBaseBinding(t *testing.T) {
	b := NewBlob([]byte{1}, "application/octet-stream")
	assert.False(t, b.Bound())
	assert.Equal(t, "", b.ReferredName())

	b.Bind("obj3")
	assert.True(t, b.Bound())
	assert.Equal(t, "obj3", b.ReferredName())
}

func TestMaybeRef(t *testing.T) {
	b := NewBlob([]byte{1}, "image/png")

	// Unbound: bound in place and stored directly.
	stored := MaybeRef(b, "obj0")
	assert.Same(t, b, stored)
	assert.Equal(t, "obj0", b.ReferredName())

	// Already bound: wrapped without re-binding.
	stored = MaybeRef(b, "obj9")
	ref, ok := stored.(Ref)
	assert.True(t, ok)
	assert.Same(t, b, ref.Value)
	assert.Equal(t, "obj0", b.ReferredName())
}

func TestBlob(t *testing.T) {
	b := NewBlob([]byte("abc"), "image/jpeg")
	assert.True(t, b.Inlined())
	assert.True(t, b.IsImage())
	assert.Equal(t, "image/jpeg", b.MimeType())
	assert.Equal(t, "YWJj", b.Base64())
	assert.Equal(t, "data:image/jpeg;base64,YWJj", b.DataURI())

	u := NewBlobFromURI("https://example.com/a.png", "image/png")
	assert.False(t, u.Inlined())
	assert.Equal(t, "https://example.com/a.png", u.DataURI())

	audio := NewBlob(nil, "audio/wav")
	assert.False(t, audio.IsImage())
}

func TestNewImageDefaultsMime(t *testing.T) {
	assert.Equal(t, "image/png", NewImage([]byte{1}, "").MimeType())
	assert.Equal(t, "image/webp", NewImage([]byte{1}, "image/webp").MimeType())
}
