package vibrato

// WordEntry is one dictionary word: a connection-id pair, an emission
// cost, and a reference into the feature-string table. Immutable once a
// Dictionary is built.
//
// Invariant: LeftID < num_left and RightID < num_right for the owning
// Connector's dimensions; violating this is an InvalidIDError at build
// time, never at lookup time.
type WordEntry struct {
	LeftID    uint16
	RightID   uint16
	WordCost  int16
	FeatureID uint32
}

// FeatureTable stores feature-string payloads once, referenced by index
// from WordEntry.FeatureID, including the unk.def templates held by
// UnkHandler.
//
// Unlike vibrato/trie's Interner (used for the small, narrow-alphabet set
// of char.def category names), feature strings are arbitrary UTF-8 text
// with no bound on distinct byte values, so deduplication here uses a
// plain map rather than forcing them through the hash trie's 85-category
// ceiling.
type FeatureTable struct {
	strings []string
	index   map[string]uint32
}

// NewFeatureTable returns an empty feature-string table.
func NewFeatureTable() *FeatureTable {
	return &FeatureTable{index: make(map[string]uint32)}
}

// Intern returns the id for s, assigning a new one the first time s is
// seen.
func (t *FeatureTable) Intern(s string) uint32 {
	if id, ok := t.index[s]; ok {
		return id
	}
	id := uint32(len(t.strings))
	t.strings = append(t.strings, s)
	t.index[s] = id
	return id
}

// Get returns the feature string for id, or "" if id is out of range.
func (t *FeatureTable) Get(id uint32) string {
	if int(id) >= len(t.strings) {
		return ""
	}
	return t.strings[id]
}

// Len returns the number of distinct feature strings stored.
func (t *FeatureTable) Len() int { return len(t.strings) }
