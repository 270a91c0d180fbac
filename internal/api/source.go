package api

import (
	"github.com/samcharles93/sigil/pkg/content"
	"github.com/samcharles93/sigil/pkg/rcf"
)

// Source supplies the record universe the server exposes: either the live
// process image table or an RCF snapshot file.
type Source interface {
	Images() ([]ImageDTO, error)

	// Records returns all records, filtered to one kind when kind is
	// non-nil.
	Records(kind *uint32) ([]RecordDTO, error)
}

type liveSource struct {
	scanner content.Scanner
}

// NewLiveSource serves the records currently visible through sc.
func NewLiveSource(sc content.Scanner) Source {
	return liveSource{scanner: sc}
}

func (s liveSource) Images() ([]ImageDTO, error) {
	out := []ImageDTO{}
	for sr := range s.scanner.Sections(content.SectionContent) {
		out = append(out, ImageDTO{
			Name:    sr.Image,
			Base:    uint64(sr.ImageBase),
			Records: len(sr.Records()),
		})
	}
	return out, nil
}

func (s liveSource) Records(kind *uint32) ([]RecordDTO, error) {
	out := []RecordDTO{}
	for sr := range s.scanner.Sections(content.SectionContent) {
		recs := sr.Records()
		for i := range recs {
			if kind != nil && recs[i].Kind != *kind {
				continue
			}
			out = append(out, RecordDTO{
				Image:       sr.Image,
				Kind:        recs[i].Kind,
				Context:     uint64(recs[i].Context),
				HasAccessor: recs[i].Accessor != nil,
			})
		}
	}
	return out, nil
}

type fileSource struct {
	file *rcf.File
}

// NewFileSource serves the records captured in an opened RCF snapshot.
// The source does not take ownership of f.
func NewFileSource(f *rcf.File) Source {
	return fileSource{file: f}
}

func (s fileSource) Images() ([]ImageDTO, error) {
	infos, err := s.file.Images()
	if err != nil {
		return nil, err
	}
	out := make([]ImageDTO, 0, len(infos))
	for _, info := range infos {
		out = append(out, ImageDTO{
			Name:    info.Name,
			Base:    info.Base,
			Records: info.Records,
		})
	}
	return out, nil
}

func (s fileSource) Records(kind *uint32) ([]RecordDTO, error) {
	infos, err := s.file.Images()
	if err != nil {
		return nil, err
	}
	out := []RecordDTO{}
	for i, info := range infos {
		recs, err := s.file.ImageRecords(i)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if kind != nil && rec.Kind != *kind {
				continue
			}
			out = append(out, RecordDTO{
				Image:       info.Name,
				Kind:        rec.Kind,
				Context:     rec.Context,
				HasAccessor: rec.Flags&rcf.FlagHasAccessor != 0,
			})
		}
	}
	return out, nil
}
