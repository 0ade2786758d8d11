package vibrato

import "testing"

// buildTestDictionary assembles a small hand-built Dictionary exercising
// known-word ambiguity (the 京都/東京都/東京/都 overlap classically used to
// test MeCab-family tokenizers) plus an unknown-word fallback.
func buildTestDictionary(t *testing.T) *Dictionary {
	t.Helper()

	cp := NewCharProperty()
	kanji, err := cp.AddCategory(CharCategory{Name: "KANJI", Invoke: true, Group: true, Length: 2})
	if err != nil {
		t.Fatalf("AddCategory(KANJI): %v", err)
	}
	def, err := cp.AddCategory(CharCategory{Name: "DEFAULT", Invoke: true, Group: false, Length: 0})
	if err != nil {
		t.Fatalf("AddCategory(DEFAULT): %v", err)
	}
	cp.AssignRange(0x4E00, 0x9FFF, kanji)

	features := NewFeatureTable()
	lb := NewLexiconBuilder()
	// left/right id 1 = noun (id 0 is BOS/EOS); every connection cost below
	// is 0, so word costs decide: 東京 + 都 (100+500) loses to 東京都 (100)
	// as a single word, and 京都 never profits from starting mid-word.
	lb.Add("東京都", WordEntry{LeftID: 1, RightID: 1, WordCost: 100, FeatureID: features.Intern("名詞,固有名詞,東京都")})
	lb.Add("東京", WordEntry{LeftID: 1, RightID: 1, WordCost: 100, FeatureID: features.Intern("名詞,固有名詞,東京")})
	lb.Add("京都", WordEntry{LeftID: 1, RightID: 1, WordCost: 100, FeatureID: features.Intern("名詞,固有名詞,京都")})
	lb.Add("都", WordEntry{LeftID: 1, RightID: 1, WordCost: 500, FeatureID: features.Intern("名詞,接尾,都")})
	lex := lb.Freeze()

	ub := NewUnkHandlerBuilder(cp.NumCategories())
	ub.Add(kanji, WordEntry{LeftID: 1, RightID: 1, WordCost: 3000, FeatureID: features.Intern("名詞,一般,*")})
	ub.Add(def, WordEntry{LeftID: 1, RightID: 1, WordCost: 3000, FeatureID: features.Intern("記号,一般,*")})
	unk := ub.Freeze()

	conn := NewMatrixConnector(2, 2)
	conn.Set(bosEosConnID, bosEosConnID, 0)
	conn.Set(bosEosConnID, 1, 0)
	conn.Set(1, bosEosConnID, 0)
	conn.Set(1, 1, 0)

	return &Dictionary{CharProp: cp, Lex: lex, Unk: unk, Conn: conn, Features: features}
}

func TestTokenizeKyotoTokyo(t *testing.T) {
	d := buildTestDictionary(t)
	tok := d.NewTokenizer(TokenizerConfig{})

	tokens, err := tok.Tokenize([]byte("京都東京都"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	var surfaces []string
	for _, tk := range tokens {
		surfaces = append(surfaces, tk.Surface)
	}
	want := []string{"京都", "東京都"}
	if len(surfaces) != len(want) {
		t.Fatalf("got %v, want %v", surfaces, want)
	}
	for i := range want {
		if surfaces[i] != want[i] {
			t.Fatalf("got %v, want %v", surfaces, want)
		}
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	d := buildTestDictionary(t)
	tok := d.NewTokenizer(TokenizerConfig{})
	tokens, err := tok.Tokenize(nil)
	if err != nil {
		t.Fatalf("Tokenize(nil): %v", err)
	}
	if tokens != nil {
		t.Fatalf("expected no tokens for empty input, got %v", tokens)
	}
}

func TestTokenizeUnknownWordFallback(t *testing.T) {
	d := buildTestDictionary(t)
	tok := d.NewTokenizer(TokenizerConfig{})
	tokens, err := tok.Tokenize([]byte("!"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 1 || !tokens[0].IsUnknown {
		t.Fatalf("expected single unknown token, got %v", tokens)
	}
}

func TestTokenizeSentenceTooLong(t *testing.T) {
	d := buildTestDictionary(t)
	tok := d.NewTokenizer(TokenizerConfig{MaxSentenceLen: 4})
	_, err := tok.Tokenize([]byte("京都東京都"))
	if err == nil {
		t.Fatalf("expected SentenceTooLongError")
	}
	if _, ok := err.(*SentenceTooLongError); !ok {
		t.Fatalf("expected *SentenceTooLongError, got %T", err)
	}
}

func TestTokenizeIgnoreSpace(t *testing.T) {
	d := buildTestDictionary(t)
	// Give the dictionary a SPACE category so IgnoreSpace has something to
	// strip.
	spaceID, err := d.CharProp.AddCategory(CharCategory{Name: "SPACE", Invoke: false, Group: true, Length: 0})
	if err != nil {
		t.Fatalf("AddCategory(SPACE): %v", err)
	}
	d.CharProp.Assign(' ', spaceID)

	tok := d.NewTokenizer(TokenizerConfig{IgnoreSpace: true})
	tokens, err := tok.Tokenize([]byte("京都 東京都"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for _, tk := range tokens {
		if tk.Surface == " " {
			t.Fatalf("expected space to be stripped from output, got token %q", tk.Surface)
		}
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens with space stripped, got %v", tokens)
	}
}

func TestFormatTokensAndWakati(t *testing.T) {
	d := buildTestDictionary(t)
	tok := d.NewTokenizer(TokenizerConfig{})
	tokens, err := tok.Tokenize([]byte("東京都"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	rendered := FormatTokens(tokens)
	if rendered == "" {
		t.Fatalf("expected non-empty rendering")
	}
	wakati := FormatWakati(tokens)
	if wakati != "東京都" {
		t.Fatalf("FormatWakati = %q, want %q", wakati, "東京都")
	}
}
