package content

import (
	"iter"
	"sync"
	"unsafe"

	"github.com/google/uuid"
)

// Image is one registered contributor of record sections. It owns the
// backing storage of its sections; records stay valid until Deregister.
type Image struct {
	name     string
	base     uintptr
	sections map[SectionKind][]RawRecord

	// pins keeps every accessor reachable independently of the record
	// storage for the image's registered lifetime.
	pins []*AccessorFunc
}

// Name returns the image's diagnostic name.
func (im *Image) Name() string { return im.name }

// Base returns the image's base address: the start of its first record
// storage block, or 0 for an image with no records.
func (im *Image) Base() uintptr { return im.base }

// Deregister removes the image from the process image table. Views obtained
// from earlier enumerations of this image must no longer be used.
func (im *Image) Deregister() {
	procTable.remove(im)
}

// ImageBuilder assembles the record sections of one producing unit.
// This is the registration analogue of build-time record emission: the
// records a builder lays out are discovered through the same raw-memory
// scan path as any other section.
type ImageBuilder struct {
	name     string
	sections map[SectionKind][]RawRecord
	fns      map[int]AccessorFunc // record index in flat order -> accessor
	order    []sectionRecord
}

type sectionRecord struct {
	section SectionKind
	index   int
}

// NewImage starts a builder for a producing unit. An empty name is replaced
// with a generated one.
func NewImage(name string) *ImageBuilder {
	if name == "" {
		name = "img_" + uuid.NewString()
	}
	return &ImageBuilder{
		name:     name,
		sections: make(map[SectionKind][]RawRecord),
		fns:      make(map[int]AccessorFunc),
	}
}

// Add appends a record to the image's generic content section. fn may be nil
// for a record that can never decode.
func (b *ImageBuilder) Add(kind uint32, context uintptr, fn AccessorFunc) *ImageBuilder {
	return b.AddTo(SectionContent, kind, context, fn)
}

// AddTo appends a record to the section of the given kind.
func (b *ImageBuilder) AddTo(section SectionKind, kind uint32, context uintptr, fn AccessorFunc) *ImageBuilder {
	recs := b.sections[section]
	b.sections[section] = append(recs, RawRecord{
		Kind:    kind,
		Context: context,
	})
	if fn != nil {
		b.fns[len(b.order)] = fn
	}
	b.order = append(b.order, sectionRecord{section: section, index: len(recs)})
	return b
}

// Register freezes the builder's records and installs them in the process
// image table. The builder must not be reused afterwards.
func (b *ImageBuilder) Register() *Image {
	im := &Image{
		name:     b.name,
		sections: make(map[SectionKind][]RawRecord, len(b.sections)),
	}

	// Copy record arrays so the image owns storage the builder can no
	// longer touch, then wire accessor pointers into the frozen copies.
	for kind, recs := range b.sections {
		frozen := make([]RawRecord, len(recs))
		copy(frozen, recs)
		im.sections[kind] = frozen
	}
	for flat, fn := range b.fns {
		sr := b.order[flat]
		p := new(AccessorFunc)
		*p = fn
		im.pins = append(im.pins, p)
		im.sections[sr.section][sr.index].Accessor = unsafe.Pointer(p)
	}

	for _, kind := range []SectionKind{SectionContent} {
		if recs := im.sections[kind]; len(recs) > 0 {
			im.base = uintptr(unsafe.Pointer(&recs[0]))
			break
		}
	}
	if im.base == 0 {
		for _, recs := range im.sections {
			if len(recs) > 0 {
				im.base = uintptr(unsafe.Pointer(&recs[0]))
				break
			}
		}
	}

	procTable.add(im)
	return im
}

// processTable is the in-process image registry backing ProcessScanner.
// Images are append-only while registered; their sections are immutable, so
// scans run without holding the lock beyond the snapshot.
type processTable struct {
	mu     sync.RWMutex
	images []*Image
}

var procTable processTable

// ProcessScanner returns the scanner over all images registered in this
// process, in registration order.
func ProcessScanner() Scanner { return &procTable }

func (t *processTable) add(im *Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.images = append(t.images, im)
}

func (t *processTable) remove(im *Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, cur := range t.images {
		if cur == im {
			t.images = append(t.images[:i], t.images[i+1:]...)
			return
		}
	}
}

// Sections implements Scanner.
func (t *processTable) Sections(kind SectionKind) iter.Seq[SectionRange] {
	t.mu.RLock()
	images := make([]*Image, len(t.images))
	copy(images, t.images)
	t.mu.RUnlock()

	return func(yield func(SectionRange) bool) {
		for _, im := range images {
			recs := im.sections[kind]
			if len(recs) == 0 {
				continue
			}
			sr := SectionRange{
				Image:     im.name,
				ImageBase: im.base,
				Base:      unsafe.Pointer(&recs[0]),
				Length:    uintptr(len(recs)) * RecordSize,
			}
			if !yield(sr) {
				return
			}
		}
	}
}
