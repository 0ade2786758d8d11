package vibrato

import (
	"encoding/binary"

	"github.com/yumemi-lab/vibrato/dat"
)

// Lexicon is a frozen double-array trie over known-word surfaces, valued
// by packed lists of WordEntries sharing that surface (homographs).
type Lexicon struct {
	dat     *dat.DAT
	entries []WordEntry
}

// CommonPrefixSearch enumerates every surface in the lexicon that is a
// prefix of input[offset:], in increasing-length order, including all
// homographs at each length. It calls yield(length, entry) for each
// match and stops early if yield returns false.
func (lex *Lexicon) CommonPrefixSearch(input []byte, offset int, yield func(length int, entry WordEntry) bool) {
	it := lex.dat.Iterator()
	for i := offset; i < len(input); i++ {
		state, ok := it.Next(input[i])
		if !ok {
			return
		}
		if off, has := lex.dat.HasPosting(state); has {
			length := i - offset + 1
			for _, id := range decodePostingIDs(lex.dat.Posting, off) {
				if !yield(length, lex.entries[id]) {
					return
				}
			}
		}
	}
}

func decodePostingIDs(posting []byte, off uint32) []uint32 {
	buf := posting[off:]
	count, n := binary.Uvarint(buf)
	buf = buf[n:]
	ids := make([]uint32, 0, count)
	for i := uint64(0); i < count; i++ {
		id, m := binary.Uvarint(buf)
		buf = buf[m:]
		ids = append(ids, uint32(id))
	}
	return ids
}

// Entry returns the WordEntry for id.
func (lex *Lexicon) Entry(id uint32) WordEntry { return lex.entries[id] }

// Len returns the number of distinct WordEntries stored.
func (lex *Lexicon) Len() int { return len(lex.entries) }

// NStates returns the number of allocated double-array trie states,
// for Stats().
func (lex *Lexicon) NStates() int { return lex.dat.NStates() }
