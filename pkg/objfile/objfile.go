// Package objfile exposes the section directory and symbol records of an ELF
// object file. Container decoding is done by debug/elf; this package only
// keeps the headers around and decodes symbol-table records on demand.
package objfile

import (
	"bytes"
	"debug/elf"
	"io"

	"github.com/pkg/errors"
)

// ErrParse is returned when the input is not a recognizable ELF container or
// one of its records cannot be decoded.
var ErrParse = errors.New("parse object file")

type SectionKind uint8

const (
	KindOther SectionKind = iota
	KindSymbolTable
	KindStringTable
	KindRelocation
)

func (k SectionKind) String() string {
	switch k {
	case KindSymbolTable:
		return "symtab"
	case KindStringTable:
		return "strtab"
	case KindRelocation:
		return "reloc"
	default:
		return "other"
	}
}

// Section is one entry of the section directory.
type Section struct {
	elf.SectionHeader
	Index int
}

func (s Section) Kind() SectionKind {
	switch s.Type {
	case elf.SHT_SYMTAB, elf.SHT_DYNSYM:
		return KindSymbolTable
	case elf.SHT_STRTAB:
		return KindStringTable
	case elf.SHT_REL, elf.SHT_RELA:
		return KindRelocation
	default:
		return KindOther
	}
}

type File struct {
	elf.FileHeader
	sections []Section

	reader io.ReaderAt
	size   uint64
}

// OpenBytes parses an in-memory ELF image.
func OpenBytes(b []byte) (*File, error) {
	return Open(bytes.NewReader(b), int64(len(b)))
}

// Open parses an ELF image of the given size. Section reads are bounded by
// size.
func Open(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrParse, "negative image size %d", size)
	}
	elfFile, err := elf.NewFile(r)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "%v", err)
	}
	res := &File{
		FileHeader: elfFile.FileHeader,
		sections:   make([]Section, 0, len(elfFile.Sections)),
		reader:     r,
		size:       uint64(size),
	}
	for i := range elfFile.Sections {
		res.sections = append(res.sections, Section{
			SectionHeader: elfFile.Sections[i].SectionHeader,
			Index:         i,
		})
	}
	return res, nil
}

// Sections returns the section directory in on-disk order.
func (f *File) Sections() []Section {
	return f.sections
}

func (f *File) NumSections() int {
	return len(f.sections)
}

func (f *File) Section(i int) (Section, bool) {
	if i < 0 || i >= len(f.sections) {
		return Section{}, false
	}
	return f.sections[i], true
}

// SymbolEntrySize is the fixed symbol record stride for the file class.
func (f *File) SymbolEntrySize() uint64 {
	if f.Class == elf.ELFCLASS64 {
		return elf.Sym64Size
	}
	return elf.Sym32Size
}

// SectionData reads the raw bytes of a section.
func (f *File) SectionData(s Section) ([]byte, error) {
	if s.Type == elf.SHT_NOBITS {
		return nil, nil
	}
	if s.Offset > f.size || s.Size > f.size-s.Offset {
		return nil, errors.Wrapf(ErrParse, "section %d (%s): range [%#x, +%#x) exceeds image size %#x", s.Index, s.Name, s.Offset, s.Size, f.size)
	}
	res := make([]byte, s.Size)
	if _, err := f.reader.ReadAt(res, int64(s.Offset)); err != nil {
		return nil, errors.Wrapf(ErrParse, "read section %d (%s): %v", s.Index, s.Name, err)
	}
	return res, nil
}
