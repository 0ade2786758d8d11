package vibrato

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed line in one of the MeCab source files
// consumed by DictionaryBuilder (lex.csv, unk.def, char.def, matrix.def).
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// InvalidIDError reports a left-id or right-id outside its declared
// range, found either while parsing a matrix.def row or while validating
// the word entries of a built or loaded Dictionary.
type InvalidIDError struct {
	Kind string // "left-id" or "right-id"
	ID   int
	Max  int // exclusive upper bound
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("%s %d out of range [0,%d)", e.Kind, e.ID, e.Max)
}

// ErrVersionMismatch is returned when a serialized dictionary's magic
// header doesn't match the version this build understands.
var ErrVersionMismatch = errors.New("vibrato: dictionary magic/version mismatch")

// SentenceTooLongError is returned by Tokenizer.Tokenize when the input
// exceeds the configured byte limit. Worker state remains valid; the
// caller may tokenize the next sentence normally.
type SentenceTooLongError struct {
	Len int
	Max int
}

func (e *SentenceTooLongError) Error() string {
	return fmt.Sprintf("vibrato: sentence length %d exceeds limit %d", e.Len, e.Max)
}

// IoFailure wraps an underlying I/O error encountered while reading or
// writing a dictionary source or binary blob, adding the path that was
// being processed.
type IoFailure struct {
	Path string
	Err  error
}

func (e *IoFailure) Error() string {
	return fmt.Sprintf("vibrato: %s: %v", e.Path, e.Err)
}

func (e *IoFailure) Unwrap() error { return e.Err }
