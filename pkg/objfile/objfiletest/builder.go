// Package objfiletest assembles small little-endian ELF images in memory for
// tests.
package objfiletest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// Section indexes created by New.
const (
	TextSection = 1
	DataSection = 2
)

type Symbol struct {
	Name  string
	Value uint64
	Size  uint64
	Type  elf.SymType
	Bind  elf.SymBind
	Shndx elf.SectionIndex
}

// Func returns a global function symbol defined in .text.
func Func(name string, addr, size uint64) Symbol {
	return Symbol{Name: name, Value: addr, Size: size, Type: elf.STT_FUNC, Bind: elf.STB_GLOBAL, Shndx: TextSection}
}

// Object returns a global data symbol defined in .data.
func Object(name string, addr, size uint64) Symbol {
	return Symbol{Name: name, Value: addr, Size: size, Type: elf.STT_OBJECT, Bind: elf.STB_GLOBAL, Shndx: DataSection}
}

type section struct {
	name    string
	typ     elf.SectionType
	flags   elf.SectionFlag
	link    uint32
	info    uint32
	entsize uint64
	size    *uint64
	data    []byte
}

type Builder struct {
	class    elf.Class
	sections []section
}

// New returns a builder holding the null section, .text and .data.
func New(class elf.Class) *Builder {
	b := &Builder{class: class}
	b.sections = append(b.sections, section{})
	b.AddSection(".text", elf.SHT_PROGBITS, make([]byte, 16))
	b.AddSection(".data", elf.SHT_PROGBITS, make([]byte, 16))
	return b
}

func (b *Builder) AddSection(name string, typ elf.SectionType, data []byte) uint32 {
	b.sections = append(b.sections, section{name: name, typ: typ, data: data})
	return uint32(len(b.sections) - 1)
}

// AddSymbolTable appends a string table followed by a symbol table linked to
// it. The reserved null record is prepended to syms.
func (b *Builder) AddSymbolTable(name, strtabName string, typ elf.SectionType, syms []Symbol) (symtab, strtab uint32) {
	strs := []byte{0}
	offsets := make(map[string]uint32)
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		if _, ok := offsets[s.Name]; ok {
			continue
		}
		offsets[s.Name] = uint32(len(strs))
		strs = append(append(strs, s.Name...), 0)
	}
	strtab = b.AddSection(strtabName, elf.SHT_STRTAB, strs)

	var buf bytes.Buffer
	records := append([]Symbol{{}}, syms...)
	for _, s := range records {
		info := elf.ST_INFO(s.Bind, s.Type)
		if b.class == elf.ELFCLASS64 {
			_ = binary.Write(&buf, binary.LittleEndian, elf.Sym64{
				Name:  offsets[s.Name],
				Info:  info,
				Shndx: uint16(s.Shndx),
				Value: s.Value,
				Size:  s.Size,
			})
		} else {
			_ = binary.Write(&buf, binary.LittleEndian, elf.Sym32{
				Name:  offsets[s.Name],
				Value: uint32(s.Value),
				Size:  uint32(s.Size),
				Info:  info,
				Shndx: uint16(s.Shndx),
			})
		}
	}
	symtab = b.AddSection(name, typ, buf.Bytes())
	b.sections[symtab].link = strtab
	b.sections[symtab].info = 1
	b.sections[symtab].entsize = b.symSize()
	return symtab, strtab
}

func (b *Builder) SetLink(idx, link uint32) {
	b.sections[idx].link = link
}

func (b *Builder) SetEntsize(idx uint32, entsize uint64) {
	b.sections[idx].entsize = entsize
}

// SetSize overrides the sh_size written for a section; its data is unchanged.
func (b *Builder) SetSize(idx uint32, size uint64) {
	b.sections[idx].size = &size
}

func (b *Builder) SetType(idx uint32, typ elf.SectionType) {
	b.sections[idx].typ = typ
}

func (b *Builder) symSize() uint64 {
	if b.class == elf.ELFCLASS64 {
		return elf.Sym64Size
	}
	return elf.Sym32Size
}

// Bytes lays out the header, section contents, a .shstrtab and the section
// header table.
func (b *Builder) Bytes() []byte {
	sections := append([]section(nil), b.sections...)
	shstrtab := []byte{0}
	names := make([]uint32, len(sections)+1)
	for i, s := range sections {
		if s.name == "" {
			continue
		}
		names[i] = uint32(len(shstrtab))
		shstrtab = append(append(shstrtab, s.name...), 0)
	}
	names[len(sections)] = uint32(len(shstrtab))
	shstrtab = append(append(shstrtab, ".shstrtab"...), 0)
	sections = append(sections, section{name: ".shstrtab", typ: elf.SHT_STRTAB, data: shstrtab})

	ehsize, shentsize := 52, 40
	if b.class == elf.ELFCLASS64 {
		ehsize, shentsize = 64, 64
	}

	offsets := make([]uint64, len(sections))
	body := bytes.Buffer{}
	for i, s := range sections {
		if i == 0 {
			continue
		}
		for (ehsize+body.Len())%8 != 0 {
			body.WriteByte(0)
		}
		offsets[i] = uint64(ehsize + body.Len())
		body.Write(s.data)
	}
	for (ehsize+body.Len())%8 != 0 {
		body.WriteByte(0)
	}
	shoff := uint64(ehsize + body.Len())

	var ident [elf.EI_NIDENT]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(b.class)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	out := bytes.Buffer{}
	le := binary.LittleEndian
	if b.class == elf.ELFCLASS64 {
		_ = binary.Write(&out, le, elf.Header64{
			Ident:     ident,
			Type:      uint16(elf.ET_REL),
			Machine:   uint16(elf.EM_X86_64),
			Version:   uint32(elf.EV_CURRENT),
			Shoff:     shoff,
			Ehsize:    uint16(ehsize),
			Shentsize: uint16(shentsize),
			Shnum:     uint16(len(sections)),
			Shstrndx:  uint16(len(sections) - 1),
		})
	} else {
		_ = binary.Write(&out, le, elf.Header32{
			Ident:     ident,
			Type:      uint16(elf.ET_REL),
			Machine:   uint16(elf.EM_ARM),
			Version:   uint32(elf.EV_CURRENT),
			Shoff:     uint32(shoff),
			Ehsize:    uint16(ehsize),
			Shentsize: uint16(shentsize),
			Shnum:     uint16(len(sections)),
			Shstrndx:  uint16(len(sections) - 1),
		})
	}
	out.Write(body.Bytes())

	for i, s := range sections {
		var off uint64
		if i != 0 {
			off = offsets[i]
		}
		size := uint64(len(s.data))
		if s.size != nil {
			size = *s.size
		}
		if b.class == elf.ELFCLASS64 {
			_ = binary.Write(&out, le, elf.Section64{
				Name:      names[i],
				Type:      uint32(s.typ),
				Flags:     uint64(s.flags),
				Off:       off,
				Size:      size,
				Link:      s.link,
				Info:      s.info,
				Addralign: 1,
				Entsize:   s.entsize,
			})
		} else {
			_ = binary.Write(&out, le, elf.Section32{
				Name:      names[i],
				Type:      uint32(s.typ),
				Flags:     uint32(s.flags),
				Off:       uint32(off),
				Size:      uint32(size),
				Link:      s.link,
				Info:      s.info,
				Addralign: 1,
				Entsize:   uint32(s.entsize),
			})
		}
	}
	return out.Bytes()
}
