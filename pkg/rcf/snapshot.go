package rcf

import (
	"os"

	"github.com/goccy/go-json"

	"github.com/samcharles93/sigil/pkg/content"
)

// ImageSnapshot pairs an image directory entry with its captured records.
type ImageSnapshot struct {
	Info    ImageInfo
	Records []DiskRecord
}

// Snapshot is an in-memory capture of a record universe, ready to be
// written as an RCF container.
type Snapshot struct {
	Images []ImageSnapshot
}

// Capture walks every content section visible through sc and converts its
// records to their portable rendition. Accessor pointers are reduced to a
// presence flag.
func Capture(sc content.Scanner) *Snapshot {
	snap := &Snapshot{}
	for sr := range sc.Sections(content.SectionContent) {
		recs := sr.Records()
		img := ImageSnapshot{
			Info: ImageInfo{
				Name:    sr.Image,
				Base:    uint64(sr.ImageBase),
				Records: len(recs),
			},
			Records: make([]DiskRecord, 0, len(recs)),
		}
		for i := range recs {
			var flags uint64
			if recs[i].Accessor != nil {
				flags |= FlagHasAccessor
			}
			img.Records = append(img.Records, DiskRecord{
				Kind:    recs[i].Kind,
				Flags:   flags,
				Context: uint64(recs[i].Context),
			})
		}
		snap.Images = append(snap.Images, img)
	}
	return snap
}

// RecordCount returns the total number of captured records.
func (s *Snapshot) RecordCount() int {
	n := 0
	for i := range s.Images {
		n += len(s.Images[i].Records)
	}
	return n
}

// Write emits the snapshot as an RCF container into f.
func (s *Snapshot) Write(f *os.File) error {
	w, err := NewWriter(f)
	if err != nil {
		return err
	}

	infos := make([]ImageInfo, 0, len(s.Images))
	for i := range s.Images {
		infos = append(infos, s.Images[i].Info)
	}
	dir, err := json.Marshal(infos)
	if err != nil {
		return err
	}
	if err := w.WriteSection(SectionImageDir, 1, dir); err != nil {
		return err
	}

	table := make([]byte, s.RecordCount()*diskRecordSize)
	off := 0
	for i := range s.Images {
		for _, rec := range s.Images[i].Records {
			if !encodeDiskRecord(table[off:off+diskRecordSize], rec) {
				return ErrCorruptFile
			}
			off += diskRecordSize
		}
	}
	if err := w.WriteSection(SectionRecordTable, 1, table); err != nil {
		return err
	}

	return w.Finalise()
}

// WriteFile writes the snapshot to a new file at path.
func (s *Snapshot) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
