package element

import (
	"slices"
	"sync/atomic"
)

// Header carries the fields every node shares. It is embedded by value in
// every node type.
type Header struct {
	id                string
	extension         []Extension
	modifierExtension []Extension
	memo              *HashMemo
}

// ElementHeader returns h. Promoted to every node that embeds a Header.
func (h *Header) ElementHeader() *Header {
	return h
}

// ID returns the element id, or "" when absent.
func (h *Header) ID() string {
	return h.id
}

// Extension returns the extensions in order. The slice must not be modified.
func (h *Header) Extension() []Extension {
	return h.extension
}

// ModifierExtension returns the modifier extensions in order. The slice must
// not be modified.
func (h *Header) ModifierExtension() []Extension {
	return h.modifierExtension
}

// HasModifierExtension reports whether any modifier extension is present.
func (h *Header) HasModifierExtension() bool {
	return len(h.modifierExtension) > 0
}

// ExtensionsByURL returns the extensions and modifier extensions with the given url.
func (h *Header) ExtensionsByURL(url string) []Extension {
	var out []Extension
	for _, e := range h.extension {
		if e.URL() == url {
			out = append(out, e)
		}
	}
	for _, e := range h.modifierExtension {
		if e.URL() == url {
			out = append(out, e)
		}
	}
	return out
}

// HasChildren reports whether the header carries extensions.
func (h *Header) HasChildren() bool {
	return len(h.extension) > 0 || len(h.modifierExtension) > 0
}

// HeaderFields lists id, extension and modifierExtension.
func (h *Header) HeaderFields() []Field {
	return []Field{
		Attr("id", h.id, h.id != ""),
		Nodes("extension", h.extension),
		Nodes("modifierExtension", h.modifierExtension),
	}
}

// Memo returns the hash memo cell of the node owning h.
func (h *Header) Memo() *HashMemo {
	return h.memo
}

// HeaderBuilder stages header fields. It is embedded in every builder.
type HeaderBuilder struct {
	ID                string
	Extension         []Extension
	ModifierExtension []Extension
}

// HeaderBuilderFrom seeds a HeaderBuilder from an existing header.
func HeaderBuilderFrom(h *Header) HeaderBuilder {
	if h == nil {
		return HeaderBuilder{}
	}
	return HeaderBuilder{
		ID:                h.id,
		Extension:         slices.Clone(h.extension),
		ModifierExtension: slices.Clone(h.modifierExtension),
	}
}

// AddExtension appends extensions.
func (b *HeaderBuilder) AddExtension(ext ...Extension) {
	b.Extension = append(b.Extension, ext...)
}

// AddModifierExtension appends modifier extensions.
func (b *HeaderBuilder) AddModifierExtension(ext ...Extension) {
	b.ModifierExtension = append(b.ModifierExtension, ext...)
}

// BuildHeader returns a header holding copies of the staged values and a
// fresh hash memo.
func (b *HeaderBuilder) BuildHeader() Header {
	return Header{
		id:                b.ID,
		extension:         slices.Clone(b.Extension),
		modifierExtension: slices.Clone(b.ModifierExtension),
		memo:              new(HashMemo),
	}
}

// HashMemo caches a structural hash. Concurrent first access may compute the
// hash more than once; every writer stores the same value.
type HashMemo struct {
	value atomic.Uint64
	set   atomic.Bool
}

// Load returns the cached hash.
func (m *HashMemo) Load() (uint64, bool) {
	if m == nil || !m.set.Load() {
		return 0, false
	}
	return m.value.Load(), true
}

// Store records the hash. Stores after the first are no-ops.
func (m *HashMemo) Store(h uint64) {
	if m == nil || m.set.Load() {
		return
	}
	m.value.Store(h)
	m.set.Store(true)
}
