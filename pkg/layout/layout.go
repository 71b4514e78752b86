// Package layout renders address-ordered symbol maps as a linear memory map
// with a running cumulative offset.
package layout

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grafana/elfmap/pkg/symbols"
)

const (
	TextTitle = ".text section layout"
	DataTitle = ".data section layout"

	// DefaultStride is the value printed in the fixed alignment column.
	DefaultStride = 4
)

const header = "  Starting        Virtual\n" +
	"  address  Size   address\n" +
	"  -----------------------\n"

// Row is one line of a layout block. Offset is the sum of the sizes of all
// preceding rows, not the symbol's address.
type Row struct {
	Offset  uint64
	Size    uint64
	Address uint64
	Stride  uint
	Name    string
}

// Rows folds m in ascending address order.
func Rows(m *symbols.Map, opts ...Option) []Row {
	o := newOptions(opts)
	res := make([]Row, 0, m.Len())
	var offset uint64
	m.Ascend(func(e symbols.Entry) bool {
		res = append(res, Row{
			Offset:  offset,
			Size:    e.Size,
			Address: e.Address,
			Stride:  o.stride,
			Name:    e.Name,
		})
		offset += e.Size
		return true
	})
	return res
}

// Render writes one titled layout block.
func Render(w io.Writer, title string, m *symbols.Map, opts ...Option) error {
	bw := bufio.NewWriter(w)
	if err := render(bw, title, Rows(m, opts...)); err != nil {
		return err
	}
	return bw.Flush()
}

// Report writes the .text block for functions and the .data block for data,
// separated by a blank line.
func Report(w io.Writer, functions, data *symbols.Map, opts ...Option) error {
	bw := bufio.NewWriter(w)
	if err := render(bw, TextTitle, Rows(functions, opts...)); err != nil {
		return err
	}
	if _, err := io.WriteString(bw, "\n\n"); err != nil {
		return err
	}
	if err := render(bw, DataTitle, Rows(data, opts...)); err != nil {
		return err
	}
	return bw.Flush()
}

func render(w io.Writer, title string, rows []Row) error {
	if _, err := io.WriteString(w, title+"\n"+header); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "  %08x %06x %08x  %d %s\n", r.Offset, r.Size, r.Address, r.Stride, r.Name); err != nil {
			return err
		}
	}
	return nil
}
