package vibrato

import (
	"bytes"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	d := buildTestDictionaryFromSources(t)

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(bytes.NewReader(buf.Bytes()), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Lex.Len() != d.Lex.Len() {
		t.Fatalf("lexicon entry count mismatch: got %d, want %d", loaded.Lex.Len(), d.Lex.Len())
	}
	if loaded.CharProp.NumCategories() != d.CharProp.NumCategories() {
		t.Fatalf("category count mismatch: got %d, want %d", loaded.CharProp.NumCategories(), d.CharProp.NumCategories())
	}
	if loaded.Conn.NumRight() != d.Conn.NumRight() || loaded.Conn.NumLeft() != d.Conn.NumLeft() {
		t.Fatalf("connector shape mismatch: got %dx%d, want %dx%d",
			loaded.Conn.NumRight(), loaded.Conn.NumLeft(), d.Conn.NumRight(), d.Conn.NumLeft())
	}
	for right := uint16(0); right < uint16(d.Conn.NumRight()); right++ {
		for left := uint16(0); left < uint16(d.Conn.NumLeft()); left++ {
			if loaded.Conn.Cost(right, left) != d.Conn.Cost(right, left) {
				t.Fatalf("connector cost mismatch at (%d,%d)", right, left)
			}
		}
	}

	tok := loaded.NewTokenizer(TokenizerConfig{})
	tokens, err := tok.Tokenize([]byte("東京都"))
	if err != nil {
		t.Fatalf("Tokenize on loaded dictionary: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Surface != "東京都" {
		t.Fatalf("expected single token 東京都 from loaded dictionary, got %v", tokens)
	}
	if tokens[0].Feature == "" {
		t.Fatalf("expected feature string to survive round trip")
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	garbage := bytes.NewReader([]byte("not a vibrato dictionary blob"))
	if _, err := Load(garbage, false); err != ErrVersionMismatch {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestSaveLoadWithManifest(t *testing.T) {
	d := buildTestDictionaryFromSources(t)
	d.Manifest = &Manifest{Name: "test-dict", License: "BSD", Charset: "UTF-8", MatrixPrecision: "int16"}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(bytes.NewReader(buf.Bytes()), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Manifest == nil || loaded.Manifest.Name != "test-dict" {
		t.Fatalf("expected manifest to survive round trip, got %+v", loaded.Manifest)
	}
}
