package content

import "unsafe"

// Record is a view over one raw record found during enumeration.
//
// A Record is ephemeral: it holds only the originating image base and a copy
// of the raw record, and stays valid for as long as the originating image
// remains loaded. Views are created fresh by every enumeration call and are
// never owned by any registry.
type Record[T, H any] struct {
	category  Category[T, H]
	image     string
	imageBase uintptr
	raw       RawRecord
}

// Image returns the diagnostic name of the originating image ("" when the
// scanner has none).
func (r Record[T, H]) Image() string { return r.image }

// ImageBase returns the originating image's base address, or 0 when the
// platform has no meaningful per-image base.
func (r Record[T, H]) ImageBase() uintptr { return r.imageBase }

// Context returns the record's opaque context word for category-specific
// interpretation.
func (r Record[T, H]) Context() uintptr { return r.raw.Context }

// HasAccessor reports whether the record carries an accessor at all.
func (r Record[T, H]) HasAccessor() bool { return r.raw.Accessor != nil }

// Load materializes the record's decoded value.
//
// hint may be nil. A false result means the record produced nothing (no
// accessor, hint mismatch, or any other accessor-side refusal) and is an
// expected outcome, not an error. Each call re-invokes the accessor;
// repeated calls return independent values and may differ if the accessor
// is not idempotent.
func (r Record[T, H]) Load(hint *H) (T, bool) {
	var zero T
	if r.raw.Accessor == nil {
		return zero, false
	}

	token := r.category.TypeToken()
	var hp unsafe.Pointer
	if hint != nil {
		hp = unsafe.Pointer(hint)
	}

	// out is zeroed storage for the decoded value. On failure the
	// accessor leaves it untouched and we never treat it as initialized;
	// on success the value is moved out by returning a copy.
	var out T
	if !r.raw.invoke(unsafe.Pointer(&out), unsafe.Pointer(&token), hp) {
		return zero, false
	}
	return out, true
}
