package content

import "unsafe"

// NewAccessor wraps a typed producer in the raw accessor ABI.
//
// The returned accessor refuses any request whose type token is not equal to
// cat's token, so a record offered to the wrong category (including one
// caused by a kind-tag collision between categories) decodes to nothing
// instead of writing through a mistyped pointer. For NoHint categories the
// hint pointer is passed through and simply never consulted.
func NewAccessor[T, H any](cat Category[T, H], produce func(hint *H) (T, bool)) AccessorFunc {
	want := cat.TypeToken()
	return func(out, typeToken, hint unsafe.Pointer) bool {
		if out == nil || typeToken == nil {
			return false
		}
		if *(*any)(typeToken) != want {
			return false
		}
		var h *H
		if hint != nil {
			h = (*H)(hint)
		}
		v, ok := produce(h)
		if !ok {
			return false
		}
		*(*T)(out) = v
		return true
	}
}
