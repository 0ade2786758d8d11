package trie

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'vibrato.trie'
func tracer() tracing.Trace {
	return tracing.Select("vibrato.trie")
}
