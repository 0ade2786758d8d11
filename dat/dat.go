package dat

// DAT is a frozen double-array trie keyed by byte sequences (surfaces).
//   - Nodes/states are indices into Base/Check (0 is unused; Root is
//     typically 1).
//   - Transition: t := Base[s] + c; valid if Check[t] == s; next state is t.
//   - c is the dense symbol for one input byte: byte value + 1, so that 0
//     is reserved for "no transition". Unlike a rune-keyed trie, no
//     separate rune→dense remapping table is needed: the byte alphabet is
//     already dense (Sigma is always 256).
//
// Postings:
//   - If PostingOff[s] != 0, node s is terminal and has an associated
//     word-entry id list.
//   - Id lists are stored in Posting as a varint count followed by that
//     many varint-encoded word-entry ids (entries sharing one surface, in
//     insertion order).
type DAT struct {
	// Root state index (commonly 1).
	Root uint32

	// Base and Check are the classic double-array.
	Base  []int32 // len == N
	Check []int32 // len == N

	// PostingOff holds offsets into Posting for terminal nodes.
	// 0 means "no posting". Offsets are indices into Posting (byte slice).
	PostingOff []uint32 // len == N

	// Posting is a blob of packed word-entry id lists, see above.
	Posting []byte
}

// Sigma is the size of the byte alphabet used by DAT transitions: one
// symbol per possible byte value (symbols 1..256); the reserved "no
// symbol" value 0 is not counted.
const Sigma = 256

// Symbol maps a byte to its dense DAT alphabet symbol.
func Symbol(b byte) uint16 { return uint16(b) + 1 }

// NStates returns the number of allocated slots/states in the arrays.
func (d *DAT) NStates() int { return len(d.Base) }

// Transition returns (nextState, ok) for one input byte from state.
func (d *DAT) Transition(state uint32, b byte) (uint32, bool) {
	if int(state) >= len(d.Base) || int(state) >= len(d.Check) {
		return 0, false
	}
	t := d.Base[state] + int32(Symbol(b))
	if t <= 0 || int(t) >= len(d.Check) {
		return 0, false
	}
	if d.Check[t] != int32(state) {
		return 0, false
	}
	return uint32(t), true
}

// HasPosting reports whether state is terminal (carries a word-entry id
// list) and returns the byte offset of its posting record.
func (d *DAT) HasPosting(state uint32) (uint32, bool) {
	if int(state) >= len(d.PostingOff) {
		return 0, false
	}
	off := d.PostingOff[state]
	return off, off != 0
}

// Iterator returns a stateful prefix-walking cursor starting at Root.
func (d *DAT) Iterator() *Iterator {
	return &Iterator{d: d, state: d.Root}
}

// Iterator advances through successive trie states for one query key, one
// byte at a time. It is forward-only and single-pass, restartable by
// calling DAT.Iterator again from a fresh starting position.
type Iterator struct {
	d     *DAT
	state uint32
	dead  bool
}

// Next advances the iterator by one byte. It returns false once the byte
// sequence walked so far has no matching trie path; the iterator is then
// dead and further calls keep returning false.
func (it *Iterator) Next(b byte) (uint32, bool) {
	if it.dead || it.d == nil {
		return 0, false
	}
	next, ok := it.d.Transition(it.state, b)
	if !ok {
		it.dead = true
		return 0, false
	}
	it.state = next
	return next, true
}
