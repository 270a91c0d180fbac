package content

import "unsafe"

// AccessorFunc is the fixed ABI every producer compiles against.
//
// out points at uninitialized storage sized and aligned for the decoded
// value; typeToken points at an `any` holding the requesting category's type
// token; hint points at a hint value of the category's hint type, or is nil
// when no hint was supplied. On success the accessor must have written a
// valid value through out, and ownership of that value passes to the caller.
// On failure out must be left untouched.
//
// Accessors must validate the type token before writing: a token that does
// not match the category the accessor was generated for is a decode failure,
// not a misinterpreted write. NewAccessor enforces this.
type AccessorFunc func(out, typeToken, hint unsafe.Pointer) bool

// RawRecord is the fixed-layout record written into content sections.
//
// The field order and total size are the ABI shared by every producing and
// consuming unit; a mismatch is undefined behaviour, prevented by contract
// rather than checked at runtime. Reserved fields must be zero-initialized
// by producers and ignored by readers.
type RawRecord struct {
	// Kind tags the record's logical category. Values are globally
	// reserved per category.
	Kind uint32

	// Reserved1 is a forward-compatibility slot.
	Reserved1 uint32

	// Accessor, when non-nil, points at an AccessorFunc value
	// (*AccessorFunc). A nil Accessor means the record can never decode.
	Accessor unsafe.Pointer

	// Context is an opaque word interpreted by the record's category.
	Context uintptr

	// Reserved2 is reserved for future fields.
	Reserved2 uintptr
}

// RecordSize is the byte size of one RawRecord. Section lengths are always
// a multiple of this (producer contract).
const RecordSize = unsafe.Sizeof(RawRecord{})

// invoke calls the record's accessor through the untyped pointer ABI.
// Callers must have checked Accessor is non-nil.
func (r *RawRecord) invoke(out, typeToken, hint unsafe.Pointer) bool {
	fn := *(*AccessorFunc)(r.Accessor)
	if fn == nil {
		return false
	}
	return fn(out, typeToken, hint)
}
