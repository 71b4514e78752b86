package layout

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grafana/elfmap/pkg/symbols"
)

func newMap(kind symbols.Kind, entries ...symbols.Entry) *symbols.Map {
	m := symbols.NewMap(symbols.KeepLast)
	for _, e := range entries {
		e.Kind = kind
		m.Put(e)
	}
	return m
}

func TestReport(t *testing.T) {
	functions := newMap(symbols.KindFunction, symbols.Entry{Name: "main", Address: 0x1000, Size: 0x20})
	data := newMap(symbols.KindData, symbols.Entry{Name: "g_counter", Address: 0x2000, Size: 0x4})

	var buf bytes.Buffer
	require.NoError(t, Report(&buf, functions, data))
	require.Equal(t, `.text section layout
  Starting        Virtual
  address  Size   address
  -----------------------
  00000000 000020 00001000  4 main


.data section layout
  Starting        Virtual
  address  Size   address
  -----------------------
  00000000 000004 00002000  4 g_counter
`, buf.String())
}

func TestReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	empty := symbols.NewMap(symbols.KeepLast)
	require.NoError(t, Report(&buf, empty, empty))
	require.Equal(t, TextTitle+"\n"+header+"\n\n"+DataTitle+"\n"+header, buf.String())
}

func TestRenderAccumulatesOffset(t *testing.T) {
	m := newMap(symbols.KindFunction,
		symbols.Entry{Name: "b", Address: 0x1010, Size: 0x8},
		symbols.Entry{Name: "a", Address: 0x1000, Size: 0x10},
	)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, TextTitle, m))
	require.Equal(t, TextTitle+"\n"+header+
		"  00000000 000010 00001000  4 a\n"+
		"  00000010 000008 00001010  4 b\n", buf.String())
}

func TestRenderStride(t *testing.T) {
	m := newMap(symbols.KindData, symbols.Entry{Name: "x", Address: 0x10, Size: 0x2})
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, DataTitle, m, WithStride(8)))
	require.Contains(t, buf.String(), "  00000000 000002 00000010  8 x\n")
}

func TestRowsProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	m := symbols.NewMap(symbols.KeepLast)
	for i := 0; i < 500; i++ {
		m.Put(symbols.Entry{
			Name:    "sym",
			Address: uint64(rnd.Int63n(1 << 20)),
			Size:    uint64(rnd.Int63n(256)),
			Kind:    symbols.KindFunction,
		})
	}

	rows := Rows(m)
	require.Len(t, rows, m.Len())
	require.Zero(t, rows[0].Offset)
	var sum uint64
	for i, r := range rows {
		require.Equal(t, sum, r.Offset, "row %d", i)
		require.Equal(t, uint(DefaultStride), r.Stride)
		if i > 0 {
			require.Less(t, rows[i-1].Address, r.Address)
		}
		sum += r.Size
	}
	require.Equal(t, m.TotalSize(), sum)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReportWriteError(t *testing.T) {
	m := newMap(symbols.KindFunction, symbols.Entry{Name: "main", Address: 0x1000, Size: 0x20})
	require.EqualError(t, Report(failingWriter{}, m, m), "disk full")
}
