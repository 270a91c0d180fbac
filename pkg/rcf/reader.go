package rcf

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"golang.org/x/sys/unix"
)

type File struct {
	Data     []byte
	Header   *RCFHeader
	Sections []RCFSection
	mmapped  bool
}

// Open maps an RCF file read-only and validates its structure.
// If mmap is unavailable, it falls back to ReadAt-based loading.
// The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < 0 {
		return nil, ErrCorruptFile
	}
	if size64 > int64(int(^uint(0)>>1)) {
		// cannot index this file safely as []byte on this architecture.
		return nil, ErrCorruptFile
	}
	size := int(size64)
	if size < rcfHeaderSize {
		return nil, ErrCorruptFile
	}

	// Prefer mmap where available for zero-copy section slices.
	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		size,
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err == nil {
		rf, parseErr := parseFileData(data, true)
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		return rf, nil
	}

	// Fallback path that does not require mmap support.
	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false)
}

// OpenReaderAt loads and validates an RCF from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, ErrCorruptFile
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrCorruptFile
	}
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parseFileData(data []byte, mmapped bool) (*File, error) {
	if len(data) < rcfHeaderSize {
		return nil, ErrCorruptFile
	}
	hdr, ok := decodeHeader(data[:rcfHeaderSize])
	if !ok {
		return nil, ErrCorruptFile
	}
	if !hdr.Valid() {
		return nil, ErrInvalidMagic
	}
	if !hdr.Compatible() {
		return nil, ErrUnsupportedMajor
	}
	if hdr.FileSize != uint64(len(data)) {
		return nil, ErrCorruptFile
	}
	if uint64(hdr.HeaderSize) > uint64(len(data)) {
		return nil, ErrCorruptFile
	}

	// Section directory bounds check.
	dirSize := uint64(hdr.SectionCount) * rcfSectionSize
	dirStart := hdr.SectionDirOffset
	dirEnd := dirStart + dirSize

	if hdr.SectionCount > 0 {
		if dirStart < uint64(hdr.HeaderSize) {
			return nil, ErrCorruptFile
		}
		if dirEnd < dirStart || dirEnd > uint64(len(data)) {
			return nil, ErrCorruptFile
		}
	}

	sections := make([]RCFSection, hdr.SectionCount)
	for i := range sections {
		start := int(dirStart) + i*rcfSectionSize
		sec, ok := decodeSection(data[start : start+rcfSectionSize])
		if !ok {
			return nil, ErrCorruptFile
		}
		sections[i] = sec
	}

	// Validate section bounds and ensure they do not overlap the section directory.
	for i := range sections {
		s := &sections[i]

		if s.Size > uint64(len(data)) {
			return nil, fmt.Errorf("%w: section %d size out of range", ErrCorruptFile, i)
		}
		end := s.Offset + s.Size
		if end < s.Offset {
			return nil, fmt.Errorf("%w: section %d offset overflow", ErrCorruptFile, i)
		}
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: section %d out of bounds", ErrCorruptFile, i)
		}
		if s.Offset < uint64(hdr.HeaderSize) {
			return nil, fmt.Errorf("%w: section %d overlaps header", ErrCorruptFile, i)
		}
		if rangesOverlap(s.Offset, end, dirStart, dirEnd) {
			return nil, fmt.Errorf("%w: section %d overlaps section directory", ErrCorruptFile, i)
		}
		if (s.Offset % rcfAlign) != 0 {
			return nil, fmt.Errorf("%w: section %d offset not %d-byte aligned", ErrCorruptFile, i, rcfAlign)
		}
	}

	return &File{
		Data:     data,
		Header:   &hdr,
		Sections: sections,
		mmapped:  mmapped,
	}, nil
}

// Close releases file resources and any mmap backing.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	if f.Data != nil {
		var err error
		if f.mmapped {
			err = unix.Munmap(f.Data)
		}
		f.Data = nil
		f.Header = nil
		f.Sections = nil
		f.mmapped = false
		return err
	}
	f.Header = nil
	f.Sections = nil
	f.mmapped = false
	return nil
}

// Section returns the first section matching the given type, or nil if it does not exist.
func (f *File) Section(t SectionType) *RCFSection {
	for i := range f.Sections {
		if SectionType(f.Sections[i].Type) == t {
			return &f.Sections[i]
		}
	}
	return nil
}

// SectionData returns a zero-copy slice covering the section payload.
// The caller must not retain this slice after File.Close().
func (f *File) SectionData(s *RCFSection) []byte {
	if f == nil || s == nil || f.Data == nil {
		return nil
	}

	start := s.Offset
	end := s.Offset + s.Size

	if end < start || end > uint64(len(f.Data)) {
		return nil
	}

	// Safe because Open() rejects files that don't fit into an int-sized slice.
	return f.Data[int(start):int(end)]
}

// Images decodes the image directory.
func (f *File) Images() ([]ImageInfo, error) {
	s := f.Section(SectionImageDir)
	if s == nil {
		return nil, fmt.Errorf("%w: missing image directory", ErrCorruptFile)
	}
	var infos []ImageInfo
	if err := json.Unmarshal(f.SectionData(s), &infos); err != nil {
		return nil, fmt.Errorf("%w: image directory: %v", ErrCorruptFile, err)
	}
	return infos, nil
}

// Records decodes the whole record table in file order.
func (f *File) Records() ([]DiskRecord, error) {
	s := f.Section(SectionRecordTable)
	if s == nil {
		return nil, fmt.Errorf("%w: missing record table", ErrCorruptFile)
	}
	raw := f.SectionData(s)
	if len(raw)%diskRecordSize != 0 {
		return nil, fmt.Errorf("%w: record table size %d not a multiple of %d", ErrCorruptFile, len(raw), diskRecordSize)
	}
	recs := make([]DiskRecord, 0, len(raw)/diskRecordSize)
	for off := 0; off < len(raw); off += diskRecordSize {
		rec, ok := decodeDiskRecord(raw[off : off+diskRecordSize])
		if !ok {
			return nil, ErrCorruptFile
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ImageRecords returns the records of the i'th image in the directory.
// The record table groups records by image in directory order; the
// directory's per-image counts partition it.
func (f *File) ImageRecords(i int) ([]DiskRecord, error) {
	infos, err := f.Images()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(infos) {
		return nil, fmt.Errorf("rcf: image index %d out of range [0,%d)", i, len(infos))
	}
	recs, err := f.Records()
	if err != nil {
		return nil, err
	}
	start := 0
	for j := 0; j < i; j++ {
		if infos[j].Records < 0 {
			return nil, ErrCorruptFile
		}
		start += infos[j].Records
	}
	end := start + infos[i].Records
	if infos[i].Records < 0 || end > len(recs) {
		return nil, fmt.Errorf("%w: image directory counts exceed record table", ErrCorruptFile)
	}
	return recs[start:end], nil
}

func rangesOverlap(a0, a1, b0, b1 uint64) bool {
	// half-open ranges [a0,a1) and [b0,b1)
	return a0 < b1 && b0 < a1
}
