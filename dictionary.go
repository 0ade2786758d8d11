package vibrato

import (
	"fmt"
	"strings"

	conv "github.com/AlasdairF/Conv"
)

// Dictionary is the aggregate of Lexicon + UnknownGen + Connector +
// CharProperty + feature-string table + optional user-lexicon overlay
// (spec §3). It is constructed by DictionaryBuilder from MeCab sources or
// by Load from a serialized blob, then is read-only and freely shared
// across worker goroutines (spec §5).
type Dictionary struct {
	CharProp *CharProperty
	Lex      *Lexicon
	Unk      *UnkHandler
	Conn     Connector
	Features *FeatureTable
	User     *UserLexicon // optional, nil if no overlay loaded
	Manifest *Manifest    // optional, nil if no sidecar present
}

// NewTokenizer returns a Tokenizer (the per-thread Worker) bound to this
// Dictionary, configured with cfg.
func (d *Dictionary) NewTokenizer(cfg TokenizerConfig) *Tokenizer {
	return newTokenizer(d, cfg)
}

// SetUserLexicon attaches (or replaces) the user-lexicon overlay.
func (d *Dictionary) SetUserLexicon(u *UserLexicon) { d.User = u }

// Stats formats a human-readable diagnostic snapshot of the dictionary:
// lexicon entry count, trie state count, category count, connector shape
// and feature-string count, plus the user-lexicon size and manifest name
// when present. It does not report a trie fill ratio.
func (d *Dictionary) Stats() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lexicon entries: %s\n", conv.FormatThousands(int64(d.Lex.Len())))
	fmt.Fprintf(&b, "lexicon trie states: %s\n", conv.FormatThousands(int64(d.Lex.NStates())))
	fmt.Fprintf(&b, "categories: %d\n", d.CharProp.NumCategories())
	fmt.Fprintf(&b, "connector shape: %s x %s (right x left)\n",
		conv.FormatThousands(int64(d.Conn.NumRight())), conv.FormatThousands(int64(d.Conn.NumLeft())))
	fmt.Fprintf(&b, "feature strings: %s\n", conv.FormatThousands(int64(d.Features.Len())))
	if d.User != nil {
		fmt.Fprintf(&b, "user lexicon entries: %s\n", conv.FormatThousands(int64(d.User.Len())))
	}
	if d.Manifest != nil {
		fmt.Fprintf(&b, "manifest: %s (%s)\n", d.Manifest.Name, d.Manifest.License)
	}
	return b.String()
}
