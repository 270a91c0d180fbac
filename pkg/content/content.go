// Package content implements self-registering content-record discovery.
//
// Producing units emit fixed-layout records into per-image sections; a
// running process enumerates the records of one logical category and decodes
// them on demand through an untyped accessor function, without any central
// registry. The package is the single unsafe boundary of that pipeline:
// section memory is reinterpreted as record arrays and accessor pointers are
// invoked here, and nowhere else.
package content

// SectionKind selects which metadata sections a scan visits.
type SectionKind uint32

// Section kind values are stable forever; add new values only.
const (
	// SectionContent is the generic content-record section kind. All
	// category enumeration reads sections of this kind.
	SectionContent SectionKind = 0x0001
)
