package vibrato

import (
	"encoding/binary"
	"sort"

	"github.com/yumemi-lab/vibrato/dat"
)

type lexBuildNode struct {
	state    uint32
	children map[byte]*lexBuildNode
}

// LexiconBuilder incrementally inserts (surface, WordEntry) pairs and
// compiles them into a frozen Lexicon: an in-memory trie grows during
// Add, then Freeze compiles it into contiguous Base/Check arrays via
// empty-slot probing (findLexBase/ensureLexIndex), after which postings
// are resolved by walking the frozen trie.
type LexiconBuilder struct {
	root    *lexBuildNode
	entries []WordEntry
	surface map[string][]uint32 // surface -> entry indices, insertion order
	order   []string            // surfaces in first-seen order, for deterministic Freeze
}

// NewLexiconBuilder returns an empty builder.
func NewLexiconBuilder() *LexiconBuilder {
	return &LexiconBuilder{
		root:    &lexBuildNode{state: 1, children: make(map[byte]*lexBuildNode)},
		surface: make(map[string][]uint32),
	}
}

// Add inserts one WordEntry under surface, returning its entry id.
func (b *LexiconBuilder) Add(surface string, entry WordEntry) uint32 {
	id := uint32(len(b.entries))
	b.entries = append(b.entries, entry)
	if _, seen := b.surface[surface]; !seen {
		b.order = append(b.order, surface)
		b.insert(surface)
	}
	b.surface[surface] = append(b.surface[surface], id)
	return id
}

func (b *LexiconBuilder) insert(surface string) {
	n := b.root
	for i := 0; i < len(surface); i++ {
		c := surface[i]
		child := n.children[c]
		if child == nil {
			child = &lexBuildNode{children: make(map[byte]*lexBuildNode)}
			n.children[c] = child
		}
		n = child
	}
}

// Freeze compiles the builder into a read-only Lexicon. The builder must
// not be used afterward.
func (b *LexiconBuilder) Freeze() *Lexicon {
	d := &dat.DAT{Root: 1}
	d.Base = make([]int32, int(d.Root)+1)
	d.Check = make([]int32, int(d.Root)+1)
	b.root.state = d.Root

	queue := []*lexBuildNode{b.root}
	for q := 0; q < len(queue); q++ {
		n := queue[q]
		if len(n.children) == 0 {
			continue
		}
		labels := sortedByteLabels(n.children)
		base := findLexBase(d.Check, labels)
		ensureLexIndex(d, base+int(dat.Symbol(labels[len(labels)-1])))
		d.Base[n.state] = int32(base)
		for _, label := range labels {
			t := base + int(dat.Symbol(label))
			ensureLexIndex(d, t)
			child := n.children[label]
			child.state = uint32(t)
			d.Check[t] = int32(n.state)
			queue = append(queue, child)
		}
	}
	d.PostingOff = make([]uint32, len(d.Base))

	postings := make([]byte, 1) // offset 0 is reserved for "no posting"
	for _, surface := range b.order {
		state, ok := walkLex(d, surface)
		if !ok {
			continue
		}
		ids := b.surface[surface]
		off := uint32(len(postings))
		postings = appendVarint(postings, uint64(len(ids)))
		for _, id := range ids {
			postings = appendVarint(postings, uint64(id))
		}
		d.PostingOff[state] = off
	}
	d.Posting = postings

	return &Lexicon{dat: d, entries: b.entries}
}

func walkLex(d *dat.DAT, surface string) (uint32, bool) {
	state := d.Root
	for i := 0; i < len(surface); i++ {
		next, ok := d.Transition(state, surface[i])
		if !ok {
			return 0, false
		}
		state = next
	}
	return state, true
}

func sortedByteLabels(children map[byte]*lexBuildNode) []byte {
	labels := make([]byte, 0, len(children))
	for label := range children {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

func findLexBase(check []int32, labels []byte) int {
	for base := 1; ; base++ {
		ok := true
		for _, label := range labels {
			t := base + int(dat.Symbol(label))
			if t < len(check) && check[t] != 0 {
				ok = false
				break
			}
		}
		if ok {
			return base
		}
	}
}

func ensureLexIndex(d *dat.DAT, idx int) {
	if idx < len(d.Base) {
		return
	}
	grow := idx + 1 - len(d.Base)
	d.Base = append(d.Base, make([]int32, grow)...)
	d.Check = append(d.Check, make([]int32, grow)...)
}

func appendVarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}
