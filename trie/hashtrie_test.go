package trie

import "testing"

func TestNewTinyHashTrieRejectsOversizedAlphabet(t *testing.T) {
	if _, err := NewTinyHashTrie(101, 86); err == nil {
		t.Fatalf("expected error for catcnt > 85")
	}
}

func TestAllocPositionForWordIsStableAcrossLookups(t *testing.T) {
	tr, err := NewTinyHashTrie(101, 5)
	if err != nil {
		t.Fatalf("NewTinyHashTrie: %v", err)
	}
	first := tr.AllocPositionForWord([]byte{1, 2})
	second := tr.AllocPositionForWord([]byte{1, 2})
	if first != second {
		t.Fatalf("same word produced different positions: %d vs %d", first, second)
	}
}

func TestAllocPositionForWordDistinguishesWords(t *testing.T) {
	tr, err := NewTinyHashTrie(101, 5)
	if err != nil {
		t.Fatalf("NewTinyHashTrie: %v", err)
	}
	a := tr.AllocPositionForWord([]byte{1, 2})
	b := tr.AllocPositionForWord([]byte{1, 3})
	if a == b {
		t.Fatalf("distinct words collided at the same position: %d", a)
	}
}

func TestAllocPositionForWordSharesPrefixFamily(t *testing.T) {
	tr, err := NewTinyHashTrie(101, 5)
	if err != nil {
		t.Fatalf("NewTinyHashTrie: %v", err)
	}
	// Insert several words sharing the prefix {1,2,...} to exercise
	// family growth/move, then confirm every one of them still resolves
	// to a stable, distinct position.
	words := [][]byte{
		{1, 2}, {1, 3}, {1, 4}, {1, 2, 3}, {1, 2, 4}, {2, 1},
	}
	positions := make(map[int][]byte)
	for _, w := range words {
		p := tr.AllocPositionForWord(w)
		if other, seen := positions[p]; seen {
			t.Fatalf("words %v and %v collided at position %d", w, other, p)
		}
		positions[p] = w
	}
	for _, w := range words {
		p1 := tr.AllocPositionForWord(w)
		p2 := tr.AllocPositionForWord(w)
		if p1 != p2 {
			t.Fatalf("word %v not stable: %d vs %d", w, p1, p2)
		}
	}
}

func TestFrozenTrieIsLookupOnly(t *testing.T) {
	tr, err := NewTinyHashTrie(101, 5)
	if err != nil {
		t.Fatalf("NewTinyHashTrie: %v", err)
	}
	known := tr.AllocPositionForWord([]byte{1, 2})
	tr.Freeze()

	if p := tr.AllocPositionForWord([]byte{1, 2}); p != known {
		t.Fatalf("frozen trie lost a previously inserted word: got %d, want %d", p, known)
	}
	if p := tr.AllocPositionForWord([]byte{3, 4}); p != 0 {
		t.Fatalf("frozen trie inserted a new word, got position %d, want 0", p)
	}
}
