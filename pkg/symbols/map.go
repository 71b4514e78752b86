package symbols

import (
	"fmt"

	"github.com/google/btree"
)

type Kind uint8

const (
	KindFunction Kind = iota + 1
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Entry is one defined, named symbol.
type Entry struct {
	Name    string
	Address uint64
	Size    uint64
	Kind    Kind
}

// DuplicatePolicy decides which entry survives when two symbols of the same
// kind share an address.
type DuplicatePolicy uint8

const (
	// KeepLast keeps the entry processed last in section and record order.
	KeepLast DuplicatePolicy = iota
	// KeepFirst keeps the entry processed first.
	KeepFirst
)

func (p DuplicatePolicy) String() string {
	if p == KeepFirst {
		return "keep-first"
	}
	return "keep-last"
}

const btreeDegree = 16

// Map holds entries keyed by address in ascending order.
type Map struct {
	policy DuplicatePolicy
	tree   *btree.BTreeG[Entry]
}

func NewMap(policy DuplicatePolicy) *Map {
	return &Map{
		policy: policy,
		tree: btree.NewG[Entry](btreeDegree, func(a, b Entry) bool {
			return a.Address < b.Address
		}),
	}
}

// Put inserts e. If another entry already sits at e.Address it returns that
// entry and true; whether e replaced it depends on the map's policy.
func (m *Map) Put(e Entry) (Entry, bool) {
	if m.policy == KeepFirst {
		if prev, ok := m.tree.Get(e); ok {
			return prev, true
		}
	}
	return m.tree.ReplaceOrInsert(e)
}

func (m *Map) Get(addr uint64) (Entry, bool) {
	return m.tree.Get(Entry{Address: addr})
}

func (m *Map) Len() int {
	return m.tree.Len()
}

// Ascend calls fn for each entry in ascending address order until fn returns
// false.
func (m *Map) Ascend(fn func(Entry) bool) {
	m.tree.Ascend(fn)
}

func (m *Map) Entries() []Entry {
	res := make([]Entry, 0, m.tree.Len())
	m.tree.Ascend(func(e Entry) bool {
		res = append(res, e)
		return true
	})
	return res
}

// TotalSize is the sum of all entry sizes.
func (m *Map) TotalSize() uint64 {
	var total uint64
	m.tree.Ascend(func(e Entry) bool {
		total += e.Size
		return true
	})
	return total
}
