package content

import (
	"iter"
	"unsafe"
)

// SectionRange is one contiguous run of record memory contributed by a
// loaded image.
//
// Length must be a multiple of RecordSize and Base must be RecordSize
// aligned; both are producer/scanner contracts, not runtime checks. The
// memory is borrowed: it belongs to the image and stays readable for as long
// as the image remains loaded.
type SectionRange struct {
	// Image is a diagnostic name for the contributing image. May be "".
	Image string

	// ImageBase is the image's base address, or 0 on platforms where
	// images have no meaningful per-image base.
	ImageBase uintptr

	// Base is the start of the record array.
	Base unsafe.Pointer

	// Length is the byte length of the record array.
	Length uintptr
}

// Records reinterprets the range as its record array.
//
// This, together with RawRecord.invoke, is the package's reinterpretation
// point; the returned slice aliases the section memory and must not outlive
// the owning image.
func (sr SectionRange) Records() []RawRecord {
	n := sr.Length / RecordSize
	if n == 0 || sr.Base == nil {
		return nil
	}
	return unsafe.Slice((*RawRecord)(sr.Base), n)
}

// Scanner yields the section ranges of every currently loaded image that
// carries a section of the requested kind, in image load order. A scanner
// that finds nothing yields an empty sequence; that is not an error.
type Scanner interface {
	Sections(kind SectionKind) iter.Seq[SectionRange]
}

// Records enumerates all records of cat known to the process image table.
// Shorthand for RecordsIn(cat, ProcessScanner()).
func Records[T, H any](cat Category[T, H]) iter.Seq[Record[T, H]] {
	return RecordsIn(cat, ProcessScanner())
}

// RecordsIn enumerates all records of cat visible through sc.
//
// The sequence is lazy and finite: sections are visited in scanner order,
// each range is reinterpreted as a record array, records whose kind does not
// match are skipped, and the survivors are wrapped into views on demand.
// Record order within an image follows memory layout order and carries no
// meaning. The returned sequence is single-pass; call RecordsIn again to
// restart (each call re-queries the scanner).
func RecordsIn[T, H any](cat Category[T, H], sc Scanner) iter.Seq[Record[T, H]] {
	return func(yield func(Record[T, H]) bool) {
		for sr := range sc.Sections(SectionContent) {
			recs := sr.Records()
			for i := range recs {
				if recs[i].Kind != cat.Kind {
					continue
				}
				v := Record[T, H]{
					category:  cat,
					image:     sr.Image,
					imageBase: sr.ImageBase,
					raw:       recs[i],
				}
				if !yield(v) {
					return
				}
			}
		}
	}
}
