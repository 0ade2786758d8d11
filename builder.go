package vibrato

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/yumemi-lab/vibrato/trie"
)

// DictionaryBuilder compiles a Dictionary from the four MeCab dictionary
// source files (char.def, matrix.def, lex.csv, unk.def), each streamed
// through a small per-format Reader: a bufio.Scanner-backed type exposing
// Next() (..., error), returning io.EOF once exhausted, so a caller never
// has to load a whole source file into memory to compile it.
//
// Load char.def before unk.def: unk.def rows name a char.def category
// rather than a connection id pair. Within char.def, a category must be
// declared before a range assignment names it.
type DictionaryBuilder struct {
	charProp *CharProperty
	lex      *LexiconBuilder
	unk      *UnkHandlerBuilder
	conn     *matrixConnector
	features *FeatureTable
	catNames *trie.Interner
}

// NewDictionaryBuilder returns an empty builder.
func NewDictionaryBuilder() (*DictionaryBuilder, error) {
	interner, err := trie.NewInterner(64)
	if err != nil {
		return nil, err
	}
	return &DictionaryBuilder{
		charProp: NewCharProperty(),
		lex:      NewLexiconBuilder(),
		features: NewFeatureTable(),
		catNames: interner,
	}, nil
}

// internCategoryName canonicalizes a category name through catNames so
// that every WordEntry/range/unk.def row referring to, say, "KANJI"
// shares one backing string instead of a fresh allocation per occurrence
// (char.def category names are exactly the small, fixed-alphabet keyset
// vibrato/trie's hash trie was built for).
func (b *DictionaryBuilder) internCategoryName(name string) (string, error) {
	id, ok := b.catNames.Intern(name)
	if !ok {
		return "", &ParseError{File: "char.def", Msg: "category name alphabet overflow: " + name}
	}
	return b.catNames.String(id), nil
}

// LoadCharDef parses char.def: category declarations ("NAME INVOKE GROUP
// LENGTH") and codepoint range assignments ("0xLO[..0xHI] NAME..."),
// trailing "#" comments stripped, blank lines skipped. A DEFAULT category
// must be declared; its absence would let some codepoint reach the
// lattice with no category at all, breaking the BOS-to-EOS connectivity
// invariant.
func (b *DictionaryBuilder) LoadCharDef(r io.Reader) error {
	cr := NewCharDefReader(r)
	for {
		e, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if !e.isRange {
			canonical, err := b.internCategoryName(e.category.Name)
			if err != nil {
				return err
			}
			e.category.Name = canonical
			if _, err := b.charProp.AddCategory(e.category); err != nil {
				return err
			}
			continue
		}
		for _, name := range e.names {
			canonical, err := b.internCategoryName(name)
			if err != nil {
				return err
			}
			catID, ok := b.charProp.CategoryByName(canonical)
			if !ok {
				return &ParseError{File: "char.def", Line: e.line, Msg: "range refers to undeclared category: " + name}
			}
			b.charProp.AssignRange(e.lo, e.hi, catID)
		}
	}
	if _, ok := b.charProp.CategoryByName("DEFAULT"); !ok {
		return &ParseError{File: "char.def", Msg: "missing required DEFAULT category"}
	}
	b.unk = NewUnkHandlerBuilder(b.charProp.NumCategories())
	return nil
}

// LoadMatrixDef parses matrix.def: a "num_right num_left" header line
// followed by "right_id left_id cost" rows, building the dense
// matrixConnector directly (a compact remap is a later, corpus-driven
// optimization outside the builder's scope, see connector.go).
func (b *DictionaryBuilder) LoadMatrixDef(r io.Reader) error {
	mr := NewMatrixDefReader(r)
	var conn *matrixConnector
	for {
		e, err := mr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if conn == nil {
			numLeft, numRight := mr.Dimensions()
			conn = NewMatrixConnector(numRight, numLeft)
		}
		if int(e.Left) >= conn.NumLeft() {
			return &InvalidIDError{Kind: "left-id", ID: int(e.Left), Max: conn.NumLeft()}
		}
		if int(e.Right) >= conn.NumRight() {
			return &InvalidIDError{Kind: "right-id", ID: int(e.Right), Max: conn.NumRight()}
		}
		conn.Set(e.Right, e.Left, e.Cost)
	}
	if conn == nil {
		return &ParseError{File: "matrix.def", Msg: "empty matrix definition"}
	}
	b.conn = conn
	return nil
}

// LoadLexicon streams lex.csv: "surface,left_id,right_id,cost,feature",
// feature free text (may itself contain commas, so only the first four
// fields are split out). Row order within a shared surface is preserved,
// matching LexiconBuilder's insertion-order posting layout.
func (b *DictionaryBuilder) LoadLexicon(r io.Reader) error {
	lr := NewLexReader(r)
	for {
		row, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		featID := b.features.Intern(row.Feature)
		b.lex.Add(row.Surface, WordEntry{LeftID: row.Left, RightID: row.Right, WordCost: row.Cost, FeatureID: featID})
	}
	return nil
}

// LoadUnkDef streams unk.def: "category,left_id,right_id,cost,feature",
// the same row shape as lex.csv but keyed by char.def category name
// instead of a literal surface. char.def must already be loaded.
func (b *DictionaryBuilder) LoadUnkDef(r io.Reader) error {
	if b.unk == nil {
		return &ParseError{File: "unk.def", Msg: "char.def must be loaded before unk.def"}
	}
	ur := NewUnkReader(r)
	for {
		row, err := ur.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		canonical, err := b.internCategoryName(row.Category)
		if err != nil {
			return err
		}
		catID, ok := b.charProp.CategoryByName(canonical)
		if !ok {
			return &ParseError{File: "unk.def", Line: row.Line, Msg: "unknown category: " + row.Category}
		}
		featID := b.features.Intern(row.Feature)
		b.unk.Add(catID, WordEntry{LeftID: row.Left, RightID: row.Right, WordCost: row.Cost, FeatureID: featID})
	}
	return nil
}

// Build compiles everything staged so far into a read-only Dictionary,
// freezing the lexicon trie, the unknown-word template table, and the
// category-name interner, then runs the same consistency checks Load
// applies to a deserialized blob (spec §4.7's id-range validation).
func (b *DictionaryBuilder) Build() (*Dictionary, error) {
	if b.conn == nil {
		return nil, &ParseError{File: "matrix.def", Msg: "matrix.def not loaded"}
	}
	if b.unk == nil {
		return nil, &ParseError{File: "char.def", Msg: "char.def not loaded"}
	}
	b.catNames.Freeze()
	d := &Dictionary{
		CharProp: b.charProp,
		Lex:      b.lex.Freeze(),
		Unk:      b.unk.Freeze(),
		Conn:     b.conn,
		Features: b.features,
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// charDefEntry is one parsed char.def line: either a category
// declaration or a codepoint range assignment naming one or more already
// declared categories.
type charDefEntry struct {
	isRange  bool
	category CharCategory
	lo, hi   rune
	names    []string
	line     int
}

// CharDefReader streams char.def entries one line at a time.
type CharDefReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewCharDefReader(r io.Reader) *CharDefReader {
	return &CharDefReader{scanner: bufio.NewScanner(r)}
}

func (cr *CharDefReader) Next() (charDefEntry, error) {
	for cr.scanner.Scan() {
		cr.line++
		line := strings.TrimSpace(cr.scanner.Text())
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if strings.HasPrefix(fields[0], "0x") {
			return parseCharRangeLine(fields, cr.line)
		}
		return parseCharCategoryLine(fields, cr.line)
	}
	if err := cr.scanner.Err(); err != nil {
		return charDefEntry{}, err
	}
	return charDefEntry{}, io.EOF
}

func parseCharCategoryLine(fields []string, lineNo int) (charDefEntry, error) {
	if len(fields) < 4 {
		return charDefEntry{}, &ParseError{File: "char.def", Line: lineNo, Msg: `expected "NAME INVOKE GROUP LENGTH"`}
	}
	invoke, err1 := strconv.Atoi(fields[1])
	group, err2 := strconv.Atoi(fields[2])
	length, err3 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return charDefEntry{}, &ParseError{File: "char.def", Line: lineNo, Msg: "bad category flags: " + strings.Join(fields[1:4], " ")}
	}
	return charDefEntry{
		line:     lineNo,
		category: CharCategory{Name: fields[0], Invoke: invoke != 0, Group: group != 0, Length: uint16(length)},
	}, nil
}

func parseCharRangeLine(fields []string, lineNo int) (charDefEntry, error) {
	if len(fields) < 2 {
		return charDefEntry{}, &ParseError{File: "char.def", Line: lineNo, Msg: `expected "0xLO[..0xHI] CATEGORY..."`}
	}
	lo, hi, err := parseCodepointRange(fields[0])
	if err != nil {
		return charDefEntry{}, &ParseError{File: "char.def", Line: lineNo, Msg: err.Error()}
	}
	return charDefEntry{isRange: true, line: lineNo, lo: lo, hi: hi, names: fields[1:]}, nil
}

func parseCodepointRange(s string) (rune, rune, error) {
	parts := strings.SplitN(s, "..", 2)
	lo, err := parseHexRune(parts[0])
	if err != nil {
		return 0, 0, err
	}
	if len(parts) == 1 {
		return lo, lo, nil
	}
	hi, err := parseHexRune(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func parseHexRune(s string) (rune, error) {
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, err
	}
	return rune(v), nil
}

// MatrixEntry is one parsed matrix.def connection-cost row.
type MatrixEntry struct {
	Left, Right uint16
	Cost        int16
}

// MatrixDefReader streams matrix.def rows. Dimensions returns the header
// (numLeft, numRight) once the first line has been consumed.
type MatrixDefReader struct {
	scanner           *bufio.Scanner
	line              int
	sawHeader         bool
	numLeft, numRight int
}

func NewMatrixDefReader(r io.Reader) *MatrixDefReader {
	return &MatrixDefReader{scanner: bufio.NewScanner(r)}
}

func (mr *MatrixDefReader) Dimensions() (numLeft, numRight int) { return mr.numLeft, mr.numRight }

func (mr *MatrixDefReader) Next() (MatrixEntry, error) {
	for mr.scanner.Scan() {
		mr.line++
		line := strings.TrimSpace(mr.scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if !mr.sawHeader {
			if len(fields) != 2 {
				return MatrixEntry{}, &ParseError{File: "matrix.def", Line: mr.line, Msg: `expected "num_right num_left" header`}
			}
			right, err1 := strconv.Atoi(fields[0])
			left, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil {
				return MatrixEntry{}, &ParseError{File: "matrix.def", Line: mr.line, Msg: "bad header dimensions"}
			}
			mr.numLeft, mr.numRight = left, right
			mr.sawHeader = true
			continue
		}
		if len(fields) != 3 {
			return MatrixEntry{}, &ParseError{File: "matrix.def", Line: mr.line, Msg: `expected "right_id left_id cost"`}
		}
		r, err1 := strconv.ParseUint(fields[0], 10, 16)
		l, err2 := strconv.ParseUint(fields[1], 10, 16)
		c, err3 := strconv.ParseInt(fields[2], 10, 16)
		if err1 != nil || err2 != nil || err3 != nil {
			return MatrixEntry{}, &ParseError{File: "matrix.def", Line: mr.line, Msg: "bad matrix row: " + line}
		}
		return MatrixEntry{Left: uint16(l), Right: uint16(r), Cost: int16(c)}, nil
	}
	if err := mr.scanner.Err(); err != nil {
		return MatrixEntry{}, err
	}
	return MatrixEntry{}, io.EOF
}

// LexRow is one parsed lex.csv row.
type LexRow struct {
	Surface string
	Left    uint16
	Right   uint16
	Cost    int16
	Feature string
	Line    int
}

// LexReader streams lex.csv rows.
type LexReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewLexReader(r io.Reader) *LexReader { return &LexReader{scanner: bufio.NewScanner(r)} }

func (lr *LexReader) Next() (LexRow, error) {
	for lr.scanner.Scan() {
		lr.line++
		line := lr.scanner.Text()
		if line == "" {
			continue
		}
		first, left, right, cost, feature, err := parseCSVRow(line, "lex.csv", lr.line)
		if err != nil {
			return LexRow{}, err
		}
		return LexRow{Surface: first, Left: left, Right: right, Cost: cost, Feature: feature, Line: lr.line}, nil
	}
	if err := lr.scanner.Err(); err != nil {
		return LexRow{}, err
	}
	return LexRow{}, io.EOF
}

// UnkRow is one parsed unk.def row.
type UnkRow struct {
	Category string
	Left     uint16
	Right    uint16
	Cost     int16
	Feature  string
	Line     int
}

// UnkReader streams unk.def rows, the same column shape as lex.csv.
type UnkReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewUnkReader(r io.Reader) *UnkReader { return &UnkReader{scanner: bufio.NewScanner(r)} }

func (ur *UnkReader) Next() (UnkRow, error) {
	for ur.scanner.Scan() {
		ur.line++
		line := ur.scanner.Text()
		if line == "" {
			continue
		}
		first, left, right, cost, feature, err := parseCSVRow(line, "unk.def", ur.line)
		if err != nil {
			return UnkRow{}, err
		}
		return UnkRow{Category: first, Left: left, Right: right, Cost: cost, Feature: feature, Line: ur.line}, nil
	}
	if err := ur.scanner.Err(); err != nil {
		return UnkRow{}, err
	}
	return UnkRow{}, io.EOF
}

// parseCSVRow splits the common "first,left_id,right_id,cost,feature"
// row shape shared by lex.csv and unk.def; feature is left untouched so
// embedded commas survive.
func parseCSVRow(line, file string, lineNo int) (first string, left, right uint16, cost int16, feature string, err error) {
	fields := strings.SplitN(line, ",", 5)
	if len(fields) < 5 {
		err = &ParseError{File: file, Line: lineNo, Msg: "expected at least 5 comma-separated fields"}
		return
	}
	l, err1 := strconv.ParseUint(fields[1], 10, 16)
	r, err2 := strconv.ParseUint(fields[2], 10, 16)
	c, err3 := strconv.ParseInt(fields[3], 10, 16)
	if err1 != nil || err2 != nil || err3 != nil {
		err = &ParseError{File: file, Line: lineNo, Msg: "bad left-id/right-id/cost fields"}
		return
	}
	return fields[0], uint16(l), uint16(r), int16(c), fields[4], nil
}
