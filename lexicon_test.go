package vibrato

import "testing"

func TestLexiconCommonPrefixSearch(t *testing.T) {
	b := NewLexiconBuilder()
	b.Add("東京", WordEntry{LeftID: 1, RightID: 1, WordCost: 100})
	b.Add("東京都", WordEntry{LeftID: 2, RightID: 2, WordCost: 200})
	b.Add("京都", WordEntry{LeftID: 3, RightID: 3, WordCost: 150})
	lex := b.Freeze()

	input := []byte("東京都")
	var lengths []int
	lex.CommonPrefixSearch(input, 0, func(length int, entry WordEntry) bool {
		lengths = append(lengths, length)
		return true
	})

	want := map[int]bool{len("東京"): true, len("東京都"): true}
	if len(lengths) != 2 {
		t.Fatalf("expected 2 matches at offset 0, got %d: %v", len(lengths), lengths)
	}
	for _, l := range lengths {
		if !want[l] {
			t.Fatalf("unexpected match length %d", l)
		}
	}
}

func TestLexiconCommonPrefixSearchAtOffset(t *testing.T) {
	b := NewLexiconBuilder()
	b.Add("東京", WordEntry{LeftID: 1, RightID: 1, WordCost: 100})
	b.Add("京都", WordEntry{LeftID: 3, RightID: 3, WordCost: 150})
	lex := b.Freeze()

	input := []byte("東京都東京都")
	offset := len("東")
	var got []WordEntry
	lex.CommonPrefixSearch(input, offset, func(length int, entry WordEntry) bool {
		got = append(got, entry)
		return true
	})
	if len(got) != 1 || got[0].WordCost != 150 {
		t.Fatalf("expected single match for 京都 at offset %d, got %v", offset, got)
	}
}

func TestLexiconHomographs(t *testing.T) {
	b := NewLexiconBuilder()
	b.Add("橋", WordEntry{LeftID: 1, RightID: 1, WordCost: 100})
	b.Add("橋", WordEntry{LeftID: 2, RightID: 2, WordCost: 300})
	lex := b.Freeze()

	var entries []WordEntry
	lex.CommonPrefixSearch([]byte("橋"), 0, func(length int, entry WordEntry) bool {
		entries = append(entries, entry)
		return true
	})
	if len(entries) != 2 {
		t.Fatalf("expected 2 homographs, got %d", len(entries))
	}
}

func TestLexiconNoMatch(t *testing.T) {
	b := NewLexiconBuilder()
	b.Add("東京", WordEntry{LeftID: 1, RightID: 1, WordCost: 100})
	lex := b.Freeze()

	var hit bool
	lex.CommonPrefixSearch([]byte("大阪"), 0, func(length int, entry WordEntry) bool {
		hit = true
		return true
	})
	if hit {
		t.Fatalf("expected no match for unrelated surface")
	}
}

func TestLexiconYieldStopsEarly(t *testing.T) {
	b := NewLexiconBuilder()
	b.Add("東", WordEntry{LeftID: 1, RightID: 1, WordCost: 1})
	b.Add("東京", WordEntry{LeftID: 2, RightID: 2, WordCost: 2})
	lex := b.Freeze()

	count := 0
	lex.CommonPrefixSearch([]byte("東京"), 0, func(length int, entry WordEntry) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("expected yield to stop after first call, got %d calls", count)
	}
}
