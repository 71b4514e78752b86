// Package symbols collects defined function and data symbols from every
// symbol table of an object file into address-ordered maps.
package symbols

import (
	"debug/elf"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/grafana/elfmap/pkg/objfile"
)

// ErrMalformedInput is returned when a symbol table is present but cannot be
// trusted: its string table link is out of range or not a string table, or
// its record stride does not match the file class.
var ErrMalformedInput = errors.New("malformed input")

// TableRef pairs a symbol table with the string table it links to.
type TableRef struct {
	Symtab objfile.Section
	Strtab objfile.Section
}

type Result struct {
	Functions *Map
	Data      *Map
	Tables    []TableRef
}

// Collect walks all symbol tables of f. Entries from every table accumulate
// into the same two maps. Any validation failure aborts the whole collection.
func Collect(f *objfile.File, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	res := &Result{
		Functions: NewMap(o.policy),
		Data:      NewMap(o.policy),
	}
	for _, s := range f.Sections() {
		if s.Kind() != objfile.KindSymbolTable {
			continue
		}
		ref, err := resolveTable(f, s)
		if err != nil {
			return nil, err
		}
		syms, err := f.Symbols(s)
		if err != nil {
			return nil, err
		}
		added := res.add(syms, o.logger)
		level.Debug(o.logger).Log(
			"msg", "collected symbol table",
			"section", s.Name,
			"strtab", ref.Strtab.Name,
			"records", len(syms),
			"kept", added,
		)
		res.Tables = append(res.Tables, ref)
	}
	return res, nil
}

func resolveTable(f *objfile.File, s objfile.Section) (TableRef, error) {
	link := int(s.Link)
	if link <= 0 || link >= f.NumSections() {
		return TableRef{}, errors.Wrapf(ErrMalformedInput,
			"section %d (%s): string table index %d out of range [1, %d)", s.Index, s.Name, s.Link, f.NumSections())
	}
	strtab, _ := f.Section(link)
	if strtab.Kind() != objfile.KindStringTable {
		return TableRef{}, errors.Wrapf(ErrMalformedInput,
			"section %d (%s): linked section %d (%s) has type %s, not a string table", s.Index, s.Name, link, strtab.Name, strtab.Type)
	}
	if want := f.SymbolEntrySize(); s.Entsize != want {
		return TableRef{}, errors.Wrapf(ErrMalformedInput,
			"section %d (%s): entry size %d, expected %d for %s", s.Index, s.Name, s.Entsize, want, f.Class)
	}
	return TableRef{Symtab: s, Strtab: strtab}, nil
}

func (r *Result) add(syms []objfile.Symbol, logger log.Logger) int {
	added := 0
	for _, sym := range syms {
		if sym.Name == "" || sym.Undefined() {
			continue
		}
		var m *Map
		e := Entry{Name: sym.Name, Address: sym.Value, Size: sym.Size}
		switch sym.Type() {
		case elf.STT_FUNC:
			m, e.Kind = r.Functions, KindFunction
		case elf.STT_OBJECT:
			m, e.Kind = r.Data, KindData
		default:
			continue
		}
		if prev, dup := m.Put(e); dup {
			level.Debug(logger).Log(
				"msg", "duplicate symbol address",
				"kind", e.Kind,
				"addr", fmt.Sprintf("%#x", e.Address),
				"previous", prev.Name,
				"current", e.Name,
				"policy", m.policy,
			)
		}
		added++
	}
	return added
}
