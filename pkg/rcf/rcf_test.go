package rcf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/sigil/pkg/content"
)

func writeSnapshot(t *testing.T, snap *Snapshot) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.rcf")
	if err := snap.WriteFile(path); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestCaptureWriteOpenRoundTrip(t *testing.T) {
	catA := content.Category[string, content.NoHint]{Kind: 7}
	accA := content.NewAccessor(catA, func(*content.NoHint) (string, bool) { return "a", true })

	imgA := content.NewImage("image-a").
		Add(7, 1, accA).
		Add(9, 0, nil).
		Register()
	defer imgA.Deregister()
	imgB := content.NewImage("image-b").
		Add(7, 2, nil).
		Register()
	defer imgB.Deregister()

	snap := Capture(content.ProcessScanner())
	if snap.RecordCount() < 3 {
		t.Fatalf("captured %d records, want at least 3", snap.RecordCount())
	}

	path := writeSnapshot(t, snap)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	infos, err := f.Images()
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	idx := -1
	for i, info := range infos {
		if info.Name == "image-a" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatalf("image-a missing from directory: %+v", infos)
	}
	if infos[idx].Records != 2 {
		t.Fatalf("image-a records = %d, want 2", infos[idx].Records)
	}
	if infos[idx].Base == 0 {
		t.Fatal("image-a base not captured")
	}

	recs, err := f.ImageRecords(idx)
	if err != nil {
		t.Fatalf("image records: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Kind != 7 || recs[0].Context != 1 {
		t.Fatalf("first record %+v, want kind 7 context 1", recs[0])
	}
	if recs[0].Flags&FlagHasAccessor == 0 {
		t.Fatal("accessor presence not recorded")
	}
	if recs[1].Kind != 9 || recs[1].Flags&FlagHasAccessor != 0 {
		t.Fatalf("second record %+v, want kind 9 without accessor", recs[1])
	}
}

func TestOpenRejectsCorruptFiles(t *testing.T) {
	t.Parallel()

	valid := func(t *testing.T) []byte {
		t.Helper()
		snap := &Snapshot{Images: []ImageSnapshot{{
			Info:    ImageInfo{Name: "x", Records: 1},
			Records: []DiskRecord{{Kind: 1, Context: 2}},
		}}}
		path := filepath.Join(t.TempDir(), "v.rcf")
		if err := snap.WriteFile(path); err != nil {
			t.Fatalf("write: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		return data
	}

	openBytes := func(t *testing.T, data []byte) error {
		t.Helper()
		path := filepath.Join(t.TempDir(), "c.rcf")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write corrupt file: %v", err)
		}
		f, err := Open(path)
		if err == nil {
			_ = f.Close()
		}
		return err
	}

	t.Run("bad magic", func(t *testing.T) {
		data := valid(t)
		data[0] = 'X'
		if err := openBytes(t, data); err != ErrInvalidMagic {
			t.Fatalf("got %v, want ErrInvalidMagic", err)
		}
	})

	t.Run("future major version", func(t *testing.T) {
		data := valid(t)
		data[4] = 0xff
		if err := openBytes(t, data); err != ErrUnsupportedMajor {
			t.Fatalf("got %v, want ErrUnsupportedMajor", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		data := valid(t)
		if err := openBytes(t, data[:len(data)-8]); err == nil {
			t.Fatal("truncated file accepted")
		}
	})

	t.Run("too short for header", func(t *testing.T) {
		if err := openBytes(t, []byte("RCF\x00")); err != ErrCorruptFile {
			t.Fatalf("got %v, want ErrCorruptFile", err)
		}
	})
}

func TestEmptySnapshot(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{}
	path := writeSnapshot(t, snap)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	infos, err := f.Images()
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("got %d images, want 0", len(infos))
	}
	recs, err := f.Records()
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d records, want 0", len(recs))
	}
}

func TestDiskRecordEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	r := DiskRecord{
		Kind:      0x11223344,
		Reserved1: 0x55667788,
		Flags:     0x0102030405060708,
		Context:   0x1112131415161718,
		Reserved2: 0x2122232425262728,
	}
	var raw [diskRecordSize]byte
	if !encodeDiskRecord(raw[:], r) {
		t.Fatalf("encode disk record failed")
	}
	if raw[0] != 0x44 || raw[3] != 0x11 {
		t.Fatalf("kind is not little-endian: %x", raw[0:4])
	}
	if raw[16] != 0x18 || raw[23] != 0x11 {
		t.Fatalf("context is not little-endian: %x", raw[16:24])
	}
	decoded, ok := decodeDiskRecord(raw[:])
	if !ok {
		t.Fatalf("decode disk record failed")
	}
	if decoded != r {
		t.Fatalf("disk record round-trip mismatch: got %+v want %+v", decoded, r)
	}
}

func TestHeaderAndSectionEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	h := RCFHeader{
		Magic:            [4]byte{'R', 'C', 'F', 0},
		Major:            0x1122,
		Minor:            0x3344,
		HeaderSize:       rcfHeaderSize,
		SectionCount:     7,
		SectionDirOffset: 0x0102030405060708,
		FileSize:         0x1112131415161718,
		Flags:            0x2122232425262728,
	}
	var hdrRaw [rcfHeaderSize]byte
	if !encodeHeader(hdrRaw[:], h) {
		t.Fatalf("encode header failed")
	}
	if hdrRaw[4] != 0x22 || hdrRaw[5] != 0x11 {
		t.Fatalf("major is not little-endian: %x", hdrRaw[4:6])
	}
	decodedH, ok := decodeHeader(hdrRaw[:])
	if !ok {
		t.Fatalf("decode header failed")
	}
	if decodedH != h {
		t.Fatalf("header round-trip mismatch: got %+v want %+v", decodedH, h)
	}

	s := RCFSection{
		Type:    0x11223344,
		Version: 0x55667788,
		Offset:  0x0102030405060708,
		Size:    0x1112131415161718,
	}
	var secRaw [rcfSectionSize]byte
	if !encodeSection(secRaw[:], s) {
		t.Fatalf("encode section failed")
	}
	if secRaw[0] != 0x44 || secRaw[3] != 0x11 {
		t.Fatalf("section type is not little-endian: %x", secRaw[0:4])
	}
	decodedS, ok := decodeSection(secRaw[:])
	if !ok {
		t.Fatalf("decode section failed")
	}
	if decodedS != s {
		t.Fatalf("section round-trip mismatch: got %+v want %+v", decodedS, s)
	}
}
