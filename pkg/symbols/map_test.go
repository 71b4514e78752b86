package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapOrdersByAddress(t *testing.T) {
	m := NewMap(KeepLast)
	for _, e := range []Entry{
		{Name: "c", Address: 0x3000, Size: 1},
		{Name: "a", Address: 0x1000, Size: 2},
		{Name: "b", Address: 0x2000, Size: 3},
	} {
		_, dup := m.Put(e)
		require.False(t, dup)
	}
	require.Equal(t, 3, m.Len())
	require.Equal(t, uint64(6), m.TotalSize())

	var names []string
	for _, e := range m.Entries() {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"a", "b", "c"}, names)

	e, ok := m.Get(0x2000)
	require.True(t, ok)
	require.Equal(t, "b", e.Name)
	_, ok = m.Get(0x2001)
	require.False(t, ok)
}

func TestMapDuplicatePolicy(t *testing.T) {
	tests := []struct {
		policy DuplicatePolicy
		want   string
	}{
		{KeepLast, "second"},
		{KeepFirst, "first"},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			m := NewMap(tt.policy)
			m.Put(Entry{Name: "first", Address: 0x3000, Size: 4})
			prev, dup := m.Put(Entry{Name: "second", Address: 0x3000, Size: 8})
			require.True(t, dup)
			require.Equal(t, "first", prev.Name)
			require.Equal(t, 1, m.Len())

			e, ok := m.Get(0x3000)
			require.True(t, ok)
			require.Equal(t, tt.want, e.Name)
		})
	}
}

func TestMapAscendStops(t *testing.T) {
	m := NewMap(KeepLast)
	for i := uint64(0); i < 100; i++ {
		m.Put(Entry{Name: "s", Address: i * 4, Size: 4})
	}
	seen := 0
	m.Ascend(func(Entry) bool {
		seen++
		return seen < 10
	})
	require.Equal(t, 10, seen)
}
