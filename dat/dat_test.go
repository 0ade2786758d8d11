package dat

import "testing"

// buildTiny hand-assembles a two-byte trie holding the single key "ab"
// (byte values 0x61, 0x62) terminating at state 199, with posting blob
// encoding one varint-packed word-entry id (5).
func buildTiny() *DAT {
	n := 200
	d := &DAT{
		Root:       1,
		Base:       make([]int32, n),
		Check:      make([]int32, n),
		PostingOff: make([]uint32, n),
		Posting:    []byte{1, 5}, // count=1, id=5 (both fit in one varint byte)
	}
	d.Base[1] = 2            // Base[1]=2 + symbol('a')=98 -> 100
	d.Check[100] = 1          // state 100 represents "a"
	d.Base[100] = 100         // Base[100]=100 + symbol('b')=99 -> 199
	d.Check[199] = 100        // state 199 represents "ab"
	d.PostingOff[199] = 1     // offset into Posting (non-zero => terminal)
	return d
}

func TestDATTransitionWalksKnownKey(t *testing.T) {
	d := buildTiny()
	s1, ok := d.Transition(d.Root, 'a')
	if !ok || s1 != 100 {
		t.Fatalf("Transition(root,'a') = (%d,%v), want (100,true)", s1, ok)
	}
	s2, ok := d.Transition(s1, 'b')
	if !ok || s2 != 199 {
		t.Fatalf("Transition(100,'b') = (%d,%v), want (199,true)", s2, ok)
	}
}

func TestDATTransitionRejectsUnknownByte(t *testing.T) {
	d := buildTiny()
	if _, ok := d.Transition(d.Root, 'z'); ok {
		t.Fatalf("expected no transition for unknown byte 'z' from root")
	}
}

func TestDATTransitionOutOfRangeState(t *testing.T) {
	d := buildTiny()
	if _, ok := d.Transition(uint32(len(d.Base)+10), 'a'); ok {
		t.Fatalf("expected no transition for out-of-range state")
	}
}

func TestDATHasPosting(t *testing.T) {
	d := buildTiny()
	if _, ok := d.HasPosting(100); ok {
		t.Fatalf("state 100 (\"a\") should not carry a posting")
	}
	off, ok := d.HasPosting(199)
	if !ok || off != 1 {
		t.Fatalf("HasPosting(199) = (%d,%v), want (1,true)", off, ok)
	}
}

func TestDATIteratorPrefixWalk(t *testing.T) {
	d := buildTiny()
	it := d.Iterator()
	s, ok := it.Next('a')
	if !ok || s != 100 {
		t.Fatalf("iterator.Next('a') = (%d,%v), want (100,true)", s, ok)
	}
	s, ok = it.Next('b')
	if !ok || s != 199 {
		t.Fatalf("iterator.Next('b') = (%d,%v), want (199,true)", s, ok)
	}
	if off, ok := d.HasPosting(s); !ok || off != 1 {
		t.Fatalf("expected terminal state with posting offset 1, got (%d,%v)", off, ok)
	}
}

func TestDATIteratorDiesOnMismatch(t *testing.T) {
	d := buildTiny()
	it := d.Iterator()
	if _, ok := it.Next('x'); ok {
		t.Fatalf("expected iterator to die on first unmatched byte")
	}
	if _, ok := it.Next('a'); ok {
		t.Fatalf("expected dead iterator to keep returning false")
	}
}

func TestSymbolIsByteValuePlusOne(t *testing.T) {
	if Symbol(0) != 1 {
		t.Fatalf("Symbol(0) = %d, want 1", Symbol(0))
	}
	if Symbol(255) != 256 {
		t.Fatalf("Symbol(255) = %d, want 256", Symbol(255))
	}
}

func TestNStates(t *testing.T) {
	d := buildTiny()
	if d.NStates() != 200 {
		t.Fatalf("NStates() = %d, want 200", d.NStates())
	}
}
