package vibrato

import "math"

// defaultMaxSentenceLen is the default SentenceTooLong cap (spec §7):
// 2^24 bytes.
const defaultMaxSentenceLen = 1 << 24

// TokenizerConfig is the small configuration value passed by value at
// Worker construction (spec §9).
type TokenizerConfig struct {
	IgnoreSpace    bool
	MaxGroupingLen uint16 // 0 = unlimited
	MaxSentenceLen int    // 0 = defaultMaxSentenceLen
}

// Tokenizer is the per-thread Worker (spec §3/§5): it owns its Sentence
// scratch and Lattice storage exclusively, resetting them in place
// between Tokenize calls to avoid allocator pressure. A Tokenizer must
// not be shared across goroutines; construct one per worker from the
// same read-only Dictionary.
type Tokenizer struct {
	dict          *Dictionary
	cfg           TokenizerConfig
	sent          Sentence
	lattice       Lattice
	spaceCategory int // -1 if char.def declares no SPACE category
}

func newTokenizer(d *Dictionary, cfg TokenizerConfig) *Tokenizer {
	if cfg.MaxSentenceLen == 0 {
		cfg.MaxSentenceLen = defaultMaxSentenceLen
	}
	spaceCat := -1
	if id, ok := d.CharProp.CategoryByName("SPACE"); ok {
		spaceCat = id
	}
	return &Tokenizer{dict: d, cfg: cfg, spaceCategory: spaceCat}
}

// Tokenize builds the lattice for input (CharProperty categorization,
// Lexicon/UserLexicon common-prefix search, UnkHandler generation) and
// returns its minimum-cost segmentation via Viterbi backtrace. Empty
// input returns zero tokens. Successive calls on the same Tokenizer are
// strictly sequential and reuse scratch storage in place.
func (t *Tokenizer) Tokenize(input []byte) ([]Token, error) {
	if len(input) > t.cfg.MaxSentenceLen {
		return nil, &SentenceTooLongError{Len: len(input), Max: t.cfg.MaxSentenceLen}
	}
	t.sent.Reset(t.dict.CharProp, input)
	n := t.sent.NumChars()
	if n == 0 {
		return nil, nil
	}
	t.lattice.reset(n)

	for pos := 0; pos < n; pos++ {
		if t.cfg.IgnoreSpace && t.isSpace(pos) {
			t.carryForward(pos)
			continue
		}
		if len(t.lattice.nodes[pos]) == 0 {
			continue
		}
		t.step(input, pos)
	}

	return t.backtrace(n), nil
}

func (t *Tokenizer) isSpace(pos int) bool {
	if t.spaceCategory < 0 {
		return false
	}
	return t.sent.Categories(pos)&(uint16(1)<<uint(t.spaceCategory)) != 0
}

// carryForward propagates every end-node at pos across an ignored SPACE
// character to pos+1 unchanged: zero cost, no connector call, no token
// emitted (surfaceLen 0), exactly MeCab's "-S" space-stripping behavior.
func (t *Tokenizer) carryForward(pos int) {
	for i, e := range t.lattice.nodes[pos] {
		t.lattice.relaxInto(pos+1, latticeNode{
			startPos: pos, rightID: e.rightID, cumCost: e.cumCost,
			bestPrev: i, featureID: e.featureID, isUnk: e.isUnk,
		})
	}
}

// step relaxes every candidate word starting at char position pos
// (known-word matches from Lexicon and UserLexicon, plus UnkHandler
// candidates) against every end-node already recorded at pos.
func (t *Tokenizer) step(input []byte, pos int) {
	ends := t.lattice.nodes[pos]
	hasKnown := false

	relax := func(byteLen int, entry WordEntry, isUnk bool) {
		j := pos + t.charLenForBytes(pos, byteLen)
		for i := range ends {
			e := &ends[i]
			cost := e.cumCost + int32(t.dict.Conn.Cost(e.rightID, entry.LeftID)) + int32(entry.WordCost)
			t.lattice.relaxInto(j, latticeNode{
				startPos: pos, rightID: entry.RightID, cumCost: cost,
				bestPrev: i, featureID: entry.FeatureID, isUnk: isUnk,
				surfaceLen: byteLen,
			})
		}
	}

	offset := t.sent.ByteOffset(pos)
	t.dict.Lex.CommonPrefixSearch(input, offset, func(length int, entry WordEntry) bool {
		hasKnown = true
		relax(length, entry, false)
		return true
	})
	if t.dict.User != nil {
		t.dict.User.CommonPrefixSearch(input, offset, func(length int, entry WordEntry) bool {
			hasKnown = true
			relax(length, entry, false)
			return true
		})
	}
	t.dict.Unk.Generate(t.dict.CharProp, &t.sent, pos, hasKnown, t.cfg.MaxGroupingLen, func(c Candidate) bool {
		relax(c.Length, c.Entry, true)
		return true
	})
}

// charLenForBytes returns how many characters starting at pos are
// spanned by a byteLen-byte surface (candidate lengths always fall on a
// char boundary, since they come from UTF-8 keyed lookups or from
// ByteOffset differences).
func (t *Tokenizer) charLenForBytes(pos, byteLen int) int {
	target := t.sent.ByteOffset(pos) + byteLen
	j := pos
	for t.sent.ByteOffset(j) < target {
		j++
	}
	return j - pos
}

// backtrace connects every end-node at the final position to the EOS
// sentinel, picks the minimum-cost one, and follows best-predecessor
// pointers back to BOS, reversing to produce tokens in reading order.
func (t *Tokenizer) backtrace(n int) []Token {
	final := t.lattice.nodes[n]
	if len(final) == 0 {
		return nil
	}
	bestCost := int32(math.MaxInt32)
	bestIdx := -1
	for i := range final {
		c := final[i].cumCost + int32(t.dict.Conn.Cost(final[i].rightID, bosEosConnID))
		if c < bestCost {
			bestCost = c
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil
	}

	var rev []Token
	pos, idx := n, bestIdx
	for {
		node := t.lattice.nodes[pos][idx]
		if node.surfaceLen > 0 {
			startByte := t.sent.ByteOffset(node.startPos)
			endByte := t.sent.ByteOffset(pos)
			rev = append(rev, Token{
				Surface:   string(t.sent.Bytes()[startByte:endByte]),
				Feature:   t.dict.Features.Get(node.featureID),
				StartChar: node.startPos,
				EndChar:   pos,
				StartByte: startByte,
				EndByte:   endByte,
				IsUnknown: node.isUnk,
			})
		}
		if node.bestPrev == -1 {
			break
		}
		pos, idx = node.startPos, node.bestPrev
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
