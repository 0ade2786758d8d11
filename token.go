package vibrato

import "strings"

// Token is one segmented word from the decoder's backtrace, carrying its
// surface span in both characters and bytes plus its resolved feature
// string (spec §4.6).
type Token struct {
	Surface   string
	Feature   string
	StartChar int
	EndChar   int
	StartByte int
	EndByte   int
	IsUnknown bool
}

// FormatTokens renders tokens the default way: one "<surface>\t<feature>"
// line per token (unknown-word tokens additionally tab-suffixed
// "(unk)"), terminated by a literal "EOS" line.
func FormatTokens(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Surface)
		b.WriteByte('\t')
		b.WriteString(tok.Feature)
		if tok.IsUnknown {
			b.WriteString("\t(unk)")
		}
		b.WriteByte('\n')
	}
	b.WriteString("EOS\n")
	return b.String()
}

// FormatWakati renders tokens in wakati mode: surfaces space-separated on
// one line, with no EOS marker.
func FormatWakati(tokens []Token) string {
	surfaces := make([]string, len(tokens))
	for i, tok := range tokens {
		surfaces[i] = tok.Surface
	}
	return strings.Join(surfaces, " ")
}
