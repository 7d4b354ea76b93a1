package intern

import "github.com/cespare/xxhash/v2"

const initialSlots = 64

// Table assigns dense ids to names in first-seen order. It is not safe
// for concurrent use; each worker owns its own Table.
type Table struct {
	names  []string
	hashes []uint64
	// slots holds id+1 for occupied slots, 0 for empty ones.
	slots []int32
	mask  uint64
}

func NewTable() *Table {
	return &Table{
		slots: make([]int32, initialSlots),
		mask:  initialSlots - 1,
	}
}

func (t *Table) Len() int {
	return len(t.names)
}

func (t *Table) Name(id int) string {
	return t.names[id]
}

// Names returns the interned names in id order. The slice is shared
// with the table and must not be modified.
func (t *Table) Names() []string {
	return t.names
}

func (t *Table) Lookup(name []byte) (int, bool) {
	h := xxhash.Sum64(name)
	pos, found := probe(t, name, h)
	if !found {
		return -1, false
	}
	return int(t.slots[pos] - 1), true
}

// Intern returns the id of name, assigning the next id if it was never
// seen. The name is copied, so callers may reuse the slice.
func (t *Table) Intern(name []byte) int {
	h := xxhash.Sum64(name)
	pos, found := probe(t, name, h)
	if found {
		return int(t.slots[pos] - 1)
	}
	return t.insert(pos, string(name), h)
}

// InternString is Intern for names that are already strings, as when
// folding one table into another.
func (t *Table) InternString(name string) int {
	h := xxhash.Sum64String(name)
	pos, found := probe(t, name, h)
	if found {
		return int(t.slots[pos] - 1)
	}
	return t.insert(pos, name, h)
}

func (t *Table) insert(pos uint64, name string, h uint64) int {
	id := len(t.names)
	t.names = append(t.names, name)
	t.hashes = append(t.hashes, h)
	t.slots[pos] = int32(id + 1)

	if 2*len(t.names) > len(t.slots) {
		t.grow()
	}
	return id
}

// probe finds the slot holding name, or the empty slot where it belongs.
func probe[K ~string | ~[]byte](t *Table, name K, h uint64) (uint64, bool) {
	pos := h & t.mask
	for {
		slot := t.slots[pos]
		if slot == 0 {
			return pos, false
		}
		id := slot - 1
		if t.hashes[id] == h && t.names[id] == string(name) {
			return pos, true
		}
		pos = (pos + 1) & t.mask
	}
}

func (t *Table) grow() {
	slots := make([]int32, 2*len(t.slots))
	mask := uint64(len(slots) - 1)

	for id, h := range t.hashes {
		pos := h & mask
		for slots[pos] != 0 {
			pos = (pos + 1) & mask
		}
		slots[pos] = int32(id + 1)
	}
	t.slots = slots
	t.mask = mask
}
