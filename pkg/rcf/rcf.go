// Package rcf implements the Record Container File format.
//
// RCF is a single-file, memory-mappable snapshot of a process's content
// records, for offline tooling. It carries only what survives the process:
// kind tags, context words and accessor presence. Live accessor pointers are
// never persisted.
package rcf

// RCF global constants must never change.
const (
	// MagicRCF is the file magic for all RCF containers.
	// It is encoded as "RCF\0".
	MagicRCF = "RCF\x00"

	// Current Major Version: Any change indicates a breaking format change.
	CurrentMajor uint16 = 1

	// Current Minor Version: Versions may add new optional sections or fields.
	CurrentMinor uint16 = 0
)

type SectionType uint32

const (
	// SectionImageDir holds a JSON array of ImageInfo, in capture order.
	SectionImageDir SectionType = 0x0001

	// SectionRecordTable holds packed DiskRecord entries, grouped by
	// image in image-directory order.
	SectionRecordTable SectionType = 0x0002
)

type RCFHeader struct {
	Magic            [4]byte
	Major            uint16
	Minor            uint16
	HeaderSize       uint32
	SectionCount     uint32
	SectionDirOffset uint64
	FileSize         uint64
	Flags            uint64
}

type RCFSection struct {
	Type    uint32
	Version uint32
	Offset  uint64
	Size    uint64
}

// DiskRecord is the on-disk rendition of one content record. All fields are
// little-endian; the layout is fixed at 32 bytes forever.
type DiskRecord struct {
	Kind      uint32
	Reserved1 uint32
	Flags     uint64
	Context   uint64
	Reserved2 uint64
}

// DiskRecord flags.
const (
	// FlagHasAccessor records that the live record carried an accessor.
	// The pointer itself is meaningless across processes and is dropped.
	FlagHasAccessor uint64 = 1 << 0
)

// ImageInfo describes one captured image in the image directory.
type ImageInfo struct {
	Name    string `json:"name"`
	Base    uint64 `json:"base"`
	Records int    `json:"records"`
}

const (
	rcfAlign       = 8
	rcfHeaderSize  = 40
	rcfSectionSize = 24
	diskRecordSize = 32
)

func (h *RCFHeader) Valid() bool {
	if string(h.Magic[:]) != MagicRCF {
		return false
	}
	if h.HeaderSize < rcfHeaderSize {
		return false
	}
	return true
}

func (h *RCFHeader) Compatible() bool {
	return h.Major == CurrentMajor
}

func (s *RCFSection) End() uint64 {
	return s.Offset + s.Size
}
