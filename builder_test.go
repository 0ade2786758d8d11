package vibrato

import (
	"strings"
	"testing"
)

const testCharDef = `
# comment line, ignored
DEFAULT 0 1 0
KANJI   1 1 2
SPACE   0 1 0

0x0020 SPACE
0x4E00..0x9FFF KANJI
`

const testMatrixDef = `
2 2
0 0 0
0 1 0
1 0 0
1 1 50
`

const testLexCSV = `東京都,1,1,100,名詞,固有名詞,東京都
東京,1,1,100,名詞,固有名詞,東京
京都,1,1,100,名詞,固有名詞,京都
`

const testUnkDef = `
KANJI,1,1,3000,名詞,一般,*
DEFAULT,1,1,3000,記号,一般,*
`

func buildTestDictionaryFromSources(t *testing.T) *Dictionary {
	t.Helper()
	b, err := NewDictionaryBuilder()
	if err != nil {
		t.Fatalf("NewDictionaryBuilder: %v", err)
	}
	if err := b.LoadCharDef(strings.NewReader(testCharDef)); err != nil {
		t.Fatalf("LoadCharDef: %v", err)
	}
	if err := b.LoadMatrixDef(strings.NewReader(testMatrixDef)); err != nil {
		t.Fatalf("LoadMatrixDef: %v", err)
	}
	if err := b.LoadLexicon(strings.NewReader(testLexCSV)); err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	if err := b.LoadUnkDef(strings.NewReader(testUnkDef)); err != nil {
		t.Fatalf("LoadUnkDef: %v", err)
	}
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func TestBuilderEndToEnd(t *testing.T) {
	d := buildTestDictionaryFromSources(t)

	if d.CharProp.NumCategories() != 3 {
		t.Fatalf("expected 3 categories, got %d", d.CharProp.NumCategories())
	}
	if d.Lex.Len() != 3 {
		t.Fatalf("expected 3 lexicon entries, got %d", d.Lex.Len())
	}
	if d.Conn.NumLeft() != 2 || d.Conn.NumRight() != 2 {
		t.Fatalf("expected 2x2 connector, got %dx%d", d.Conn.NumRight(), d.Conn.NumLeft())
	}

	kanjiID, ok := d.CharProp.CategoryByName("KANJI")
	if !ok {
		t.Fatalf("KANJI category not found")
	}
	if mask := d.CharProp.Categorize('東'); mask&(1<<uint(kanjiID)) == 0 {
		t.Fatalf("expected 東 to classify as KANJI")
	}

	tok := d.NewTokenizer(TokenizerConfig{})
	tokens, err := tok.Tokenize([]byte("東京都"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Surface != "東京都" {
		t.Fatalf("expected single token 東京都, got %v", tokens)
	}
}

func TestBuilderRejectsUnkDefBeforeCharDef(t *testing.T) {
	b, err := NewDictionaryBuilder()
	if err != nil {
		t.Fatalf("NewDictionaryBuilder: %v", err)
	}
	if err := b.LoadUnkDef(strings.NewReader(testUnkDef)); err == nil {
		t.Fatalf("expected error loading unk.def before char.def")
	}
}

func TestBuilderRejectsUnknownCategoryInUnkDef(t *testing.T) {
	b, err := NewDictionaryBuilder()
	if err != nil {
		t.Fatalf("NewDictionaryBuilder: %v", err)
	}
	if err := b.LoadCharDef(strings.NewReader(testCharDef)); err != nil {
		t.Fatalf("LoadCharDef: %v", err)
	}
	if err := b.LoadUnkDef(strings.NewReader("HIRAGANA,1,1,100,*\n")); err == nil {
		t.Fatalf("expected error for unk.def row naming an undeclared category")
	}
}

func TestBuilderRejectsMissingDefaultCategory(t *testing.T) {
	b, err := NewDictionaryBuilder()
	if err != nil {
		t.Fatalf("NewDictionaryBuilder: %v", err)
	}
	if err := b.LoadCharDef(strings.NewReader("KANJI 1 1 2\n0x4E00..0x9FFF KANJI\n")); err == nil {
		t.Fatalf("expected error for char.def missing DEFAULT category")
	}
}

func TestBuilderRejectsOutOfRangeMatrixRow(t *testing.T) {
	b, err := NewDictionaryBuilder()
	if err != nil {
		t.Fatalf("NewDictionaryBuilder: %v", err)
	}
	badMatrix := "2 2\n5 0 0\n"
	if err := b.LoadMatrixDef(strings.NewReader(badMatrix)); err == nil {
		t.Fatalf("expected InvalidIDError for out-of-range right-id")
	}
}

func TestBuilderRejectsDuplicateCategory(t *testing.T) {
	b, err := NewDictionaryBuilder()
	if err != nil {
		t.Fatalf("NewDictionaryBuilder: %v", err)
	}
	dup := "DEFAULT 0 1 0\nDEFAULT 0 1 0\n"
	if err := b.LoadCharDef(strings.NewReader(dup)); err == nil {
		t.Fatalf("expected error for duplicate category declaration")
	}
}
