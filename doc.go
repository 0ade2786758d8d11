/*
Package vibrato is a MeCab-compatible Japanese morphological analyzer.

It loads a compiled dictionary (a frozen double-array trie (DAT) lexicon,
an unknown-word handler, and a connection-cost matrix) and tokenizes
sentences by building a lattice of candidate words and running Viterbi
search over it to find the minimum-cost segmentation. Dictionaries can
also be compiled from the plain-text MeCab source format (lex.csv,
matrix.def, char.def, unk.def) via DictionaryBuilder.

Further Reading

	https://taku910.github.io/mecab/
	https://github.com/daac-tools/vibrato

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package vibrato

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'vibrato'
func tracer() tracing.Trace {
	return tracing.Select("vibrato")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
