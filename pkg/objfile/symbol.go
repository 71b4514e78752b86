package objfile

import (
	"bytes"
	"debug/elf"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Symbol is a decoded symbol-table record with its name resolved.
type Symbol struct {
	Name  string
	Value uint64
	Size  uint64
	Info  byte
	Other byte
	Shndx elf.SectionIndex
}

func (s Symbol) Type() elf.SymType {
	return elf.ST_TYPE(s.Info)
}

func (s Symbol) Bind() elf.SymBind {
	return elf.ST_BIND(s.Info)
}

// Undefined reports whether the symbol has no defining section.
func (s Symbol) Undefined() bool {
	return s.Shndx == elf.SHN_UNDEF
}

// Symbols decodes every record of a symbol-table section, including the
// reserved null record at index 0. Names are resolved through the string
// table the section links to; callers are expected to have validated that
// link already.
func (f *File) Symbols(s Section) ([]Symbol, error) {
	if s.Kind() != KindSymbolTable {
		return nil, errors.Errorf("section %d (%s) is not a symbol table", s.Index, s.Name)
	}
	strtab, ok := f.Section(int(s.Link))
	if !ok {
		return nil, errors.Wrapf(ErrParse, "section %d (%s): string table link %d out of range", s.Index, s.Name, s.Link)
	}
	strs, err := f.SectionData(strtab)
	if err != nil {
		return nil, err
	}
	data, err := f.SectionData(s)
	if err != nil {
		return nil, err
	}

	stride := f.SymbolEntrySize()
	if uint64(len(data))%stride != 0 {
		return nil, errors.Wrapf(ErrParse, "section %d (%s): size %d is not a multiple of %d", s.Index, s.Name, len(data), stride)
	}
	n := uint64(len(data)) / stride
	res := make([]Symbol, 0, n)
	r := bytes.NewReader(data)
	for i := uint64(0); i < n; i++ {
		var (
			sym     Symbol
			nameOff uint32
		)
		if f.Class == elf.ELFCLASS64 {
			var raw elf.Sym64
			if err := binary.Read(r, f.ByteOrder, &raw); err != nil {
				return nil, errors.Wrapf(ErrParse, "section %d (%s) record %d: %v", s.Index, s.Name, i, err)
			}
			nameOff = raw.Name
			sym = Symbol{Value: raw.Value, Size: raw.Size, Info: raw.Info, Other: raw.Other, Shndx: elf.SectionIndex(raw.Shndx)}
		} else {
			var raw elf.Sym32
			if err := binary.Read(r, f.ByteOrder, &raw); err != nil {
				return nil, errors.Wrapf(ErrParse, "section %d (%s) record %d: %v", s.Index, s.Name, i, err)
			}
			nameOff = raw.Name
			sym = Symbol{Value: uint64(raw.Value), Size: uint64(raw.Size), Info: raw.Info, Other: raw.Other, Shndx: elf.SectionIndex(raw.Shndx)}
		}
		name, ok := getString(strs, nameOff)
		if !ok {
			return nil, errors.Wrapf(ErrParse, "section %d (%s) record %d: name offset %d outside string table", s.Index, s.Name, i, nameOff)
		}
		sym.Name = name
		res = append(res, sym)
	}
	return res, nil
}

// getString extracts a NUL-terminated string from a string table.
func getString(table []byte, start uint32) (string, bool) {
	if uint64(start) >= uint64(len(table)) {
		// Offset 0 into an empty table names the null symbol.
		return "", start == 0
	}
	end := bytes.IndexByte(table[start:], 0)
	if end < 0 {
		return "", false
	}
	return string(table[start : int(start)+end]), true
}
