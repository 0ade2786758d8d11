package vibrato

// UnkHandler generates out-of-vocabulary candidate words at a position
// using CharProperty rules. Entries are grouped contiguously by category
// id with an offset table, mirroring the reference implementation's
// category-offset/entries layout for unknown-word generation: fetching
// the templates for one category is a plain contiguous slice.
type UnkHandler struct {
	entries []WordEntry
	offset  []uint32 // len == numCategories+1
}

// UnkHandlerBuilder accumulates (category, WordEntry) rows parsed from
// unk.def before Freeze groups them contiguously by category.
type UnkHandlerBuilder struct {
	byCategory [][]WordEntry
}

// NewUnkHandlerBuilder returns a builder for a CharProperty declaring
// numCategories categories.
func NewUnkHandlerBuilder(numCategories int) *UnkHandlerBuilder {
	return &UnkHandlerBuilder{byCategory: make([][]WordEntry, numCategories)}
}

// Add appends one unk.def row's template under category catID.
func (b *UnkHandlerBuilder) Add(catID int, entry WordEntry) {
	b.byCategory[catID] = append(b.byCategory[catID], entry)
}

// Freeze compiles the builder into a read-only UnkHandler.
func (b *UnkHandlerBuilder) Freeze() *UnkHandler {
	numCats := len(b.byCategory)
	offset := make([]uint32, numCats+1)
	var entries []WordEntry
	for cat := 0; cat < numCats; cat++ {
		offset[cat] = uint32(len(entries))
		entries = append(entries, b.byCategory[cat]...)
	}
	offset[numCats] = uint32(len(entries))
	return &UnkHandler{entries: entries, offset: offset}
}

// TemplatesFor returns the unk.def templates declared for category catID.
func (u *UnkHandler) TemplatesFor(catID int) []WordEntry {
	return u.entries[u.offset[catID]:u.offset[catID+1]]
}

// Candidate is one OOV candidate: its byte length from the start
// position, and the template entry to emit it with.
type Candidate struct {
	Length int
	Entry  WordEntry
}

// Generate emits OOV candidates starting at char index pos, per spec
// §4.3: for each category the character at pos belongs to, emit prefixes
// of length 1..c.Length (or until a character leaves the category), plus
// one grouped candidate spanning the whole same-category run if c.Group
// is set. hasKnownMatch gates generation for non-invoke categories.
// maxGroupingLen (0 = unlimited) caps the grouped candidate's length,
// mirroring MeCab's -M flag.
func (u *UnkHandler) Generate(cp *CharProperty, s *Sentence, pos int, hasKnownMatch bool, maxGroupingLen uint16, yield func(Candidate) bool) {
	n := s.NumChars()
	if pos >= n {
		return
	}
	mask := s.Categories(pos)
	emitted := false
	for cat := 0; cat < cp.NumCategories(); cat++ {
		bit := uint16(1) << uint(cat)
		if mask&bit == 0 {
			continue
		}
		if hasKnownMatch && !cp.IsInvoke(cat) {
			continue
		}
		templates := u.TemplatesFor(cat)
		if len(templates) == 0 {
			continue
		}

		groupable := 1
		for pos+groupable < n && s.Categories(pos+groupable)&bit != 0 {
			groupable++
		}

		limit := groupable
		if l := int(cp.LengthLimit(cat)); l > 0 && l < limit {
			limit = l
		}
		for length := 1; length <= limit; length++ {
			byteLen := s.ByteOffset(pos+length) - s.ByteOffset(pos)
			for _, t := range templates {
				emitted = true
				if !yield(Candidate{Length: byteLen, Entry: t}) {
					return
				}
			}
		}

		// groupable-1 <= max_grouping_len (not groupable <= ...) avoids
		// counting the character at pos itself twice against the cap.
		if cp.IsGroup(cat) && groupable > limit {
			if maxGroupingLen == 0 || groupable-1 <= int(maxGroupingLen) {
				byteLen := s.ByteOffset(pos+groupable) - s.ByteOffset(pos)
				for _, t := range templates {
					emitted = true
					if !yield(Candidate{Length: byteLen, Entry: t}) {
						return
					}
				}
			}
		}
	}
	if emitted {
		return
	}
	// Nothing fired (e.g. every matching category was gated off by an
	// existing known-word match): DEFAULT still guarantees at least one
	// single-character candidate, keeping the lattice connected.
	def := cp.DefaultCategory()
	templates := u.TemplatesFor(def)
	if len(templates) == 0 {
		return
	}
	byteLen := s.ByteOffset(pos+1) - s.ByteOffset(pos)
	for _, t := range templates {
		if !yield(Candidate{Length: byteLen, Entry: t}) {
			return
		}
	}
}
