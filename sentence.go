package vibrato

import "unicode/utf8"

// Sentence is per-Worker scratch: the current input decoded into
// characters with byte boundaries and a category-bitmask cache,
// precomputed once per Tokenize call and reset in place between calls to
// avoid allocator pressure (spec §5: Worker scratch is owned exclusively
// by one thread and never shared).
type Sentence struct {
	bytes      []byte
	charOffset []int // len(chars)+1; charOffset[i] is the byte offset of char i
	catCache   []uint16
}

// Reset decodes input and precomputes char boundaries and category
// bitmasks, discarding scratch from the previous call.
func (s *Sentence) Reset(cp *CharProperty, input []byte) {
	s.bytes = input
	s.charOffset = s.charOffset[:0]
	s.catCache = s.catCache[:0]
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRune(input[i:])
		s.charOffset = append(s.charOffset, i)
		s.catCache = append(s.catCache, cp.Categorize(r))
		i += size
	}
	s.charOffset = append(s.charOffset, len(input))
}

// NumChars returns the number of decoded characters.
func (s *Sentence) NumChars() int { return len(s.catCache) }

// ByteOffset returns the byte offset of char index i (0..NumChars()).
func (s *Sentence) ByteOffset(i int) int { return s.charOffset[i] }

// Categories returns the category bitmask of char index i.
func (s *Sentence) Categories(i int) uint16 { return s.catCache[i] }

// Bytes returns the full input buffer backing this sentence.
func (s *Sentence) Bytes() []byte { return s.bytes }
