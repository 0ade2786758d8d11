package vibrato

import "github.com/derekparker/trie"

// UserLexicon is a secondary overlay lexicon: a small, hand-authored
// word list queried in parallel with the system Lexicon and merged into
// the same candidate stream. It's small enough that it doesn't need the
// cache-tuned double-array treatment the system Lexicon gets.
type UserLexicon struct {
	t       *trie.Trie
	entries []WordEntry
}

// NewUserLexicon returns an empty user lexicon.
func NewUserLexicon() *UserLexicon {
	return &UserLexicon{t: trie.New()}
}

// Add inserts one WordEntry under surface.
func (u *UserLexicon) Add(surface string, entry WordEntry) {
	id := len(u.entries)
	u.entries = append(u.entries, entry)
	if node, ok := u.t.Find(surface); ok {
		ids, _ := node.Meta().([]int)
		u.t.Add(surface, append(ids, id))
		return
	}
	u.t.Add(surface, []int{id})
}

// CommonPrefixSearch enumerates every surface in the overlay that is a
// prefix of input[offset:], probing Find at increasing lengths. Cheap
// at user-lexicon scale, unlike the double-array Lexicon's single trie
// walk.
func (u *UserLexicon) CommonPrefixSearch(input []byte, offset int, yield func(length int, entry WordEntry) bool) {
	for length := 1; offset+length <= len(input); length++ {
		surface := string(input[offset : offset+length])
		node, ok := u.t.Find(surface)
		if !ok {
			continue
		}
		ids, _ := node.Meta().([]int)
		for _, id := range ids {
			if !yield(length, u.entries[id]) {
				return
			}
		}
	}
}

// Len returns the number of distinct WordEntries stored in the overlay.
func (u *UserLexicon) Len() int { return len(u.entries) }
