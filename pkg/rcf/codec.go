package rcf

import "encoding/binary"

// Explicit little-endian field codecs. The on-disk layouts are the format's
// ABI and never depend on the host's in-memory struct layout.

func encodeHeader(dst []byte, h RCFHeader) bool {
	if len(dst) < rcfHeaderSize {
		return false
	}
	copy(dst[0:4], h.Magic[:])
	binary.LittleEndian.PutUint16(dst[4:6], h.Major)
	binary.LittleEndian.PutUint16(dst[6:8], h.Minor)
	binary.LittleEndian.PutUint32(dst[8:12], h.HeaderSize)
	binary.LittleEndian.PutUint32(dst[12:16], h.SectionCount)
	binary.LittleEndian.PutUint64(dst[16:24], h.SectionDirOffset)
	binary.LittleEndian.PutUint64(dst[24:32], h.FileSize)
	binary.LittleEndian.PutUint64(dst[32:40], h.Flags)
	return true
}

func decodeHeader(src []byte) (RCFHeader, bool) {
	var h RCFHeader
	if len(src) < rcfHeaderSize {
		return h, false
	}
	copy(h.Magic[:], src[0:4])
	h.Major = binary.LittleEndian.Uint16(src[4:6])
	h.Minor = binary.LittleEndian.Uint16(src[6:8])
	h.HeaderSize = binary.LittleEndian.Uint32(src[8:12])
	h.SectionCount = binary.LittleEndian.Uint32(src[12:16])
	h.SectionDirOffset = binary.LittleEndian.Uint64(src[16:24])
	h.FileSize = binary.LittleEndian.Uint64(src[24:32])
	h.Flags = binary.LittleEndian.Uint64(src[32:40])
	return h, true
}

func encodeSection(dst []byte, s RCFSection) bool {
	if len(dst) < rcfSectionSize {
		return false
	}
	binary.LittleEndian.PutUint32(dst[0:4], s.Type)
	binary.LittleEndian.PutUint32(dst[4:8], s.Version)
	binary.LittleEndian.PutUint64(dst[8:16], s.Offset)
	binary.LittleEndian.PutUint64(dst[16:24], s.Size)
	return true
}

func decodeSection(src []byte) (RCFSection, bool) {
	var s RCFSection
	if len(src) < rcfSectionSize {
		return s, false
	}
	s.Type = binary.LittleEndian.Uint32(src[0:4])
	s.Version = binary.LittleEndian.Uint32(src[4:8])
	s.Offset = binary.LittleEndian.Uint64(src[8:16])
	s.Size = binary.LittleEndian.Uint64(src[16:24])
	return s, true
}

func encodeDiskRecord(dst []byte, r DiskRecord) bool {
	if len(dst) < diskRecordSize {
		return false
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.Kind)
	binary.LittleEndian.PutUint32(dst[4:8], r.Reserved1)
	binary.LittleEndian.PutUint64(dst[8:16], r.Flags)
	binary.LittleEndian.PutUint64(dst[16:24], r.Context)
	binary.LittleEndian.PutUint64(dst[24:32], r.Reserved2)
	return true
}

func decodeDiskRecord(src []byte) (DiskRecord, bool) {
	var r DiskRecord
	if len(src) < diskRecordSize {
		return r, false
	}
	r.Kind = binary.LittleEndian.Uint32(src[0:4])
	r.Reserved1 = binary.LittleEndian.Uint32(src[4:8])
	r.Flags = binary.LittleEndian.Uint64(src[8:16])
	r.Context = binary.LittleEndian.Uint64(src[16:24])
	r.Reserved2 = binary.LittleEndian.Uint64(src[24:32])
	return r, true
}
