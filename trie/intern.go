package trie

// Interner deduplicates short byte-string keys into dense sequential ids,
// backed by TinyHashTrie for exact-match lookup. It is sized for small,
// narrow-alphabet key sets such as char.def category names, not
// arbitrary UTF-8 feature text, since TinyHashTrie's category alphabet
// tops out at 85 distinct byte values across all interned keys (see
// NewTinyHashTrie).
type Interner struct {
	trie     *TinyHashTrie
	enc      map[byte]int8
	nextCode int8
	pos2id   map[int]uint32
	values   []string
}

// NewInterner returns an interner sized for roughly capacity distinct
// keys.
func NewInterner(capacity int) (*Interner, error) {
	t, err := NewTinyHashTrie(tableSizeFor(capacity), 85)
	if err != nil {
		return nil, err
	}
	return &Interner{
		trie:   t,
		enc:    make(map[byte]int8),
		pos2id: make(map[int]uint32),
	}, nil
}

// tableSizeFor reserves the 2*(85+1) slots TinyHashTrie keeps outside its
// hashed span on top of room for capacity keys.
func tableSizeFor(capacity int) uint16 {
	n := capacity*8 + 2*(85+1) + 97
	if n > 0xFFFF {
		n = 0xFFFF
	}
	if n%2 == 0 {
		n++
	}
	return uint16(n)
}

// encode maps raw key bytes onto the trie's dense 1..85 alphabet,
// assigning a code to each distinct byte value the first time it's seen.
// Returns false if key is empty or would push the alphabet past 85
// distinct byte values.
func (in *Interner) encode(key []byte) ([]byte, bool) {
	if len(key) == 0 {
		return nil, false
	}
	out := make([]byte, len(key))
	for i, b := range key {
		c, ok := in.enc[b]
		if !ok {
			if in.nextCode >= 85 {
				return nil, false
			}
			in.nextCode++
			c = in.nextCode
			in.enc[b] = c
		}
		out[i] = byte(c)
	}
	return out, true
}

// Intern returns a dense id for s, assigning a new one the first time s
// is seen. ok is false if s can't be represented (empty, or the combined
// alphabet of all keys interned so far exceeds 85 distinct bytes), or if
// the interner is frozen and s was never interned.
func (in *Interner) Intern(s string) (id uint32, ok bool) {
	enc, ok := in.encode([]byte(s))
	if !ok {
		return 0, false
	}
	pos := in.trie.AllocPositionForWord(enc)
	if pos == 0 {
		return 0, false
	}
	if existing, seen := in.pos2id[pos]; seen {
		return existing, true
	}
	id = uint32(len(in.values))
	in.values = append(in.values, s)
	in.pos2id[pos] = id
	return id, true
}

// String returns the interned string for id, or "" if id is out of range.
func (in *Interner) String(id uint32) string {
	if int(id) >= len(in.values) {
		return ""
	}
	return in.values[id]
}

// Len returns the number of distinct strings interned so far.
func (in *Interner) Len() int { return len(in.values) }

// Freeze finalizes the interner for lookup-only use.
func (in *Interner) Freeze() { in.trie.Freeze() }
