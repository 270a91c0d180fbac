package content

import "reflect"

// NoHint is the hint type of categories that do not support hint
// disambiguation. Accessors for such categories accept and discard any hint
// pointer they are given.
type NoHint struct{}

// Category describes one logical family of content records.
//
// T is the decoded value type, H the hint type (use NoHint when the category
// never disambiguates). The zero Kind is technically valid but, like every
// kind tag, must be globally reserved for exactly one category; uniqueness
// is a cross-module contract documented externally, not enforced here.
type Category[T, H any] struct {
	// Kind is the category's reserved kind tag.
	Kind uint32

	// Token overrides the type token passed to accessors. Leave nil for
	// the default (the reflect.Type of T). An override lets records
	// reference a non-public decoded type through a token that is
	// visible where the records are generated. Tokens must be
	// comparable.
	Token any
}

// TypeToken returns the value whose address is passed to accessors so they
// can verify they are materializing the type the caller expects.
func (c Category[T, H]) TypeToken() any {
	if c.Token != nil {
		return c.Token
	}
	return reflect.TypeFor[T]()
}
