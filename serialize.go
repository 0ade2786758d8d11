package vibrato

import (
	"bytes"
	"io"

	custom "github.com/AlasdairF/Custom"

	"github.com/yumemi-lab/vibrato/dat"
)

// dictMagic is the fixed 8-byte header: 7 ASCII bytes plus a version tag.
// A mismatch on Load refuses the blob outright.
var dictMagic = [8]byte{'V', 'I', 'B', 'R', 'A', 'T', 'O', 1}

// Save serializes d as a single binary blob: the magic header followed
// by length-prefixed sections for char_property, lexicon, connector,
// unk_gen, and features, with an optional manifest trailer. Written with
// github.com/AlasdairF/Custom's buffered Writer.
func (d *Dictionary) Save(w io.Writer) error {
	cw := custom.NewWriter(w)
	if _, err := cw.Write(dictMagic[:]); err != nil {
		return err
	}
	sections := [][]byte{
		encodeCharProperty(d.CharProp),
		encodeLexicon(d.Lex),
		encodeConnector(d.Conn),
		encodeUnkHandler(d.Unk),
		encodeFeatures(d.Features),
	}
	for _, sec := range sections {
		if err := cw.WriteBytes32(sec); err != nil {
			return err
		}
	}
	if d.Manifest != nil {
		var buf bytes.Buffer
		if err := d.Manifest.Write(&buf); err != nil {
			return err
		}
		if err := cw.WriteBytes32(buf.Bytes()); err != nil {
			return err
		}
	}
	return cw.Close()
}

// Load reads a blob written by Save. unchecked skips the internal
// consistency assertions Load otherwise runs before returning (connector
// dimensions, id ranges), for callers that attest the blob is already
// trusted. A manifest trailer, or any further trailing section, is
// optional and its absence is not an error: unrecognized trailing
// sections are reserved for forward compatibility, not rejected.
func Load(r io.Reader, unchecked bool) (*Dictionary, error) {
	cr := custom.NewReader(r)
	var magic [8]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return nil, err
	}
	if magic != dictMagic {
		return nil, ErrVersionMismatch
	}

	charPropBytes, err := cr.ReadBytes32()
	if err != nil {
		return nil, err
	}
	lexBytes, err := cr.ReadBytes32()
	if err != nil {
		return nil, err
	}
	connBytes, err := cr.ReadBytes32()
	if err != nil {
		return nil, err
	}
	unkBytes, err := cr.ReadBytes32()
	if err != nil {
		return nil, err
	}
	featBytes, err := cr.ReadBytes32()
	if err != nil {
		return nil, err
	}

	cp, err := decodeCharProperty(charPropBytes)
	if err != nil {
		return nil, err
	}
	lex, err := decodeLexicon(lexBytes)
	if err != nil {
		return nil, err
	}
	conn, err := decodeConnector(connBytes)
	if err != nil {
		return nil, err
	}
	unk, err := decodeUnkHandler(unkBytes)
	if err != nil {
		return nil, err
	}
	features, err := decodeFeatures(featBytes)
	if err != nil {
		return nil, err
	}

	d := &Dictionary{CharProp: cp, Lex: lex, Conn: conn, Unk: unk, Features: features}

	if manifestBytes, merr := cr.ReadBytes32(); merr == nil {
		if m, derr := LoadManifest(bytes.NewReader(manifestBytes)); derr == nil {
			d.Manifest = m
		}
	}

	if !unchecked {
		if err := d.validate(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dictionary) validate() error {
	if d.Conn.NumRight() == 0 || d.Conn.NumLeft() == 0 {
		return &ParseError{File: "dictionary", Msg: "connector has zero dimension"}
	}
	for i := 0; i < d.Lex.Len(); i++ {
		if err := checkEntryIDs(d.Lex.Entry(uint32(i)), d.Conn); err != nil {
			return err
		}
	}
	for _, e := range d.Unk.entries {
		if err := checkEntryIDs(e, d.Conn); err != nil {
			return err
		}
	}
	return nil
}

func checkEntryIDs(e WordEntry, conn Connector) error {
	if int(e.LeftID) >= conn.NumLeft() {
		return &InvalidIDError{Kind: "left-id", ID: int(e.LeftID), Max: conn.NumLeft()}
	}
	if int(e.RightID) >= conn.NumRight() {
		return &InvalidIDError{Kind: "right-id", ID: int(e.RightID), Max: conn.NumRight()}
	}
	return nil
}

// sectionWriter is a thin helper around custom.Writer for building one
// section's payload in memory; writes to an in-memory buffer don't fail,
// so call sites don't need to check every field write.
type sectionWriter struct {
	buf bytes.Buffer
	w   *custom.Writer
}

func newSectionWriter() *sectionWriter {
	sw := &sectionWriter{}
	sw.w = custom.NewWriter(&sw.buf)
	return sw
}

func (sw *sectionWriter) bytes() []byte {
	sw.w.Close()
	return sw.buf.Bytes()
}

// sectionReader is the read-side counterpart: it remembers the first
// error encountered and every subsequent read becomes a no-op, so
// decoders can read a whole section without interleaved error checks.
type sectionReader struct {
	r   *custom.Reader
	err error
}

func newSectionReader(data []byte) *sectionReader {
	return &sectionReader{r: custom.NewReader(bytes.NewReader(data))}
}

func (sr *sectionReader) u8() uint8 {
	if sr.err != nil {
		return 0
	}
	v, err := sr.r.ReadUint8()
	if err != nil {
		sr.err = err
	}
	return v
}

func (sr *sectionReader) u16() uint16 {
	if sr.err != nil {
		return 0
	}
	v, err := sr.r.ReadUint16()
	if err != nil {
		sr.err = err
	}
	return v
}

func (sr *sectionReader) u32() uint32 {
	if sr.err != nil {
		return 0
	}
	v, err := sr.r.ReadUint32()
	if err != nil {
		sr.err = err
	}
	return v
}

func (sr *sectionReader) bytes8() []byte {
	if sr.err != nil {
		return nil
	}
	v, err := sr.r.ReadBytes8()
	if err != nil {
		sr.err = err
	}
	return v
}

func (sr *sectionReader) bytes32() []byte {
	if sr.err != nil {
		return nil
	}
	v, err := sr.r.ReadBytes32()
	if err != nil {
		sr.err = err
	}
	return v
}

func encodeCharProperty(cp *CharProperty) []byte {
	sw := newSectionWriter()
	sw.w.WriteUint8(uint8(len(cp.Categories)))
	for _, c := range cp.Categories {
		sw.w.WriteBytes8([]byte(c.Name))
		flags := uint8(0)
		if c.Invoke {
			flags |= 1
		}
		if c.Group {
			flags |= 2
		}
		sw.w.WriteUint8(flags)
		sw.w.WriteUint16(c.Length)
	}
	sw.w.WriteUint32(uint32(cp.defaultID))
	sw.w.WriteUint32(uint32(len(cp.ranges)))
	for _, rg := range cp.ranges {
		sw.w.WriteUint32(uint32(rg.Lo))
		sw.w.WriteUint32(uint32(rg.Hi))
		sw.w.WriteUint16(rg.Mask)
	}
	return sw.bytes()
}

func decodeCharProperty(data []byte) (*CharProperty, error) {
	sr := newSectionReader(data)
	numCats := int(sr.u8())
	cp := NewCharProperty()
	for i := 0; i < numCats; i++ {
		name := string(sr.bytes8())
		flags := sr.u8()
		length := sr.u16()
		cp.Categories = append(cp.Categories, CharCategory{
			Name: name, Invoke: flags&1 != 0, Group: flags&2 != 0, Length: length,
		})
		cp.byName[name] = i
	}
	cp.defaultID = int(sr.u32())
	numRanges := int(sr.u32())
	for i := 0; i < numRanges; i++ {
		lo := rune(sr.u32())
		hi := rune(sr.u32())
		mask := sr.u16()
		cp.ranges = append(cp.ranges, charRange{Lo: lo, Hi: hi, Mask: mask})
		for r := lo; r <= hi; r++ {
			cp.table.Or(r, mask)
		}
	}
	if sr.err != nil {
		return nil, sr.err
	}
	return cp, nil
}

func encodeLexicon(lex *Lexicon) []byte {
	sw := newSectionWriter()
	sw.w.WriteUint32(lex.dat.Root)
	sw.w.WriteUint32(uint32(len(lex.dat.Base)))
	for _, v := range lex.dat.Base {
		sw.w.WriteUint32(uint32(v))
	}
	for _, v := range lex.dat.Check {
		sw.w.WriteUint32(uint32(v))
	}
	for _, v := range lex.dat.PostingOff {
		sw.w.WriteUint32(v)
	}
	sw.w.WriteBytes32(lex.dat.Posting)
	sw.w.WriteUint32(uint32(len(lex.entries)))
	for _, e := range lex.entries {
		sw.w.WriteUint16(e.LeftID)
		sw.w.WriteUint16(e.RightID)
		sw.w.WriteUint16(uint16(e.WordCost))
		sw.w.WriteUint32(e.FeatureID)
	}
	return sw.bytes()
}

func decodeLexicon(data []byte) (*Lexicon, error) {
	sr := newSectionReader(data)
	root := sr.u32()
	n := int(sr.u32())
	base := make([]int32, n)
	for i := range base {
		base[i] = int32(sr.u32())
	}
	check := make([]int32, n)
	for i := range check {
		check[i] = int32(sr.u32())
	}
	postingOff := make([]uint32, n)
	for i := range postingOff {
		postingOff[i] = sr.u32()
	}
	posting := sr.bytes32()
	numEntries := int(sr.u32())
	entries := make([]WordEntry, numEntries)
	for i := range entries {
		entries[i] = WordEntry{
			LeftID:    sr.u16(),
			RightID:   sr.u16(),
			WordCost:  int16(sr.u16()),
			FeatureID: sr.u32(),
		}
	}
	if sr.err != nil {
		return nil, sr.err
	}
	return &Lexicon{
		dat:     &dat.DAT{Root: root, Base: base, Check: check, PostingOff: postingOff, Posting: posting},
		entries: entries,
	}, nil
}

func encodeConnector(c Connector) []byte {
	sw := newSectionWriter()
	switch conn := c.(type) {
	case *matrixConnector:
		sw.w.WriteUint8(0)
		sw.w.WriteUint32(uint32(conn.numRight))
		sw.w.WriteUint32(uint32(conn.numLeft))
		for _, v := range conn.costs {
			sw.w.WriteUint16(uint16(v))
		}
	case *compactDualConnector:
		tag := uint8(1)
		if conn.dual {
			tag = 2
		}
		sw.w.WriteUint8(tag)
		writeClassTable(sw.w, conn.rightClass1, conn.leftClass1, conn.numRightClasses1, conn.numLeftClasses1, conn.cost1)
		if conn.dual {
			writeClassTable(sw.w, conn.rightClass2, conn.leftClass2, conn.numRightClasses2, conn.numLeftClasses2, conn.cost2)
		}
	}
	return sw.bytes()
}

func writeClassTable(w *custom.Writer, rightClass, leftClass []uint16, numR, numL int, cost []int16) {
	w.WriteUint32(uint32(len(rightClass)))
	for _, v := range rightClass {
		w.WriteUint16(v)
	}
	w.WriteUint32(uint32(len(leftClass)))
	for _, v := range leftClass {
		w.WriteUint16(v)
	}
	w.WriteUint32(uint32(numR))
	w.WriteUint32(uint32(numL))
	for _, v := range cost {
		w.WriteUint16(uint16(v))
	}
}

func readClassTable(sr *sectionReader) (rightClass, leftClass []uint16, numR, numL int, cost []int16) {
	nR := int(sr.u32())
	rightClass = make([]uint16, nR)
	for i := range rightClass {
		rightClass[i] = sr.u16()
	}
	nL := int(sr.u32())
	leftClass = make([]uint16, nL)
	for i := range leftClass {
		leftClass[i] = sr.u16()
	}
	numR = int(sr.u32())
	numL = int(sr.u32())
	cost = make([]int16, numR*numL)
	for i := range cost {
		cost[i] = int16(sr.u16())
	}
	return
}

func decodeConnector(data []byte) (Connector, error) {
	sr := newSectionReader(data)
	tag := sr.u8()
	switch tag {
	case 0:
		numRight := int(sr.u32())
		numLeft := int(sr.u32())
		costs := make([]int16, numRight*numLeft)
		for i := range costs {
			costs[i] = int16(sr.u16())
		}
		if sr.err != nil {
			return nil, sr.err
		}
		return &matrixConnector{numRight: numRight, numLeft: numLeft, costs: costs}, nil
	case 1, 2:
		rightClass1, leftClass1, numR1, numL1, cost1 := readClassTable(sr)
		conn := NewCompactConnector(rightClass1, leftClass1, numR1, numL1, cost1)
		if tag == 2 {
			rightClass2, leftClass2, numR2, numL2, cost2 := readClassTable(sr)
			conn = conn.WithSecondTable(rightClass2, leftClass2, numR2, numL2, cost2)
		}
		if sr.err != nil {
			return nil, sr.err
		}
		return conn, nil
	default:
		return nil, &ParseError{File: "dictionary", Msg: "unknown connector section tag"}
	}
}

func encodeUnkHandler(u *UnkHandler) []byte {
	sw := newSectionWriter()
	sw.w.WriteUint32(uint32(len(u.offset)))
	for _, v := range u.offset {
		sw.w.WriteUint32(v)
	}
	sw.w.WriteUint32(uint32(len(u.entries)))
	for _, e := range u.entries {
		sw.w.WriteUint16(e.LeftID)
		sw.w.WriteUint16(e.RightID)
		sw.w.WriteUint16(uint16(e.WordCost))
		sw.w.WriteUint32(e.FeatureID)
	}
	return sw.bytes()
}

func decodeUnkHandler(data []byte) (*UnkHandler, error) {
	sr := newSectionReader(data)
	numOffsets := int(sr.u32())
	offset := make([]uint32, numOffsets)
	for i := range offset {
		offset[i] = sr.u32()
	}
	numEntries := int(sr.u32())
	entries := make([]WordEntry, numEntries)
	for i := range entries {
		entries[i] = WordEntry{
			LeftID:    sr.u16(),
			RightID:   sr.u16(),
			WordCost:  int16(sr.u16()),
			FeatureID: sr.u32(),
		}
	}
	if sr.err != nil {
		return nil, sr.err
	}
	return &UnkHandler{entries: entries, offset: offset}, nil
}

func encodeFeatures(ft *FeatureTable) []byte {
	sw := newSectionWriter()
	sw.w.WriteUint32(uint32(len(ft.strings)))
	for _, s := range ft.strings {
		sw.w.WriteBytes32([]byte(s))
	}
	return sw.bytes()
}

func decodeFeatures(data []byte) (*FeatureTable, error) {
	sr := newSectionReader(data)
	n := int(sr.u32())
	ft := NewFeatureTable()
	for i := 0; i < n; i++ {
		ft.Intern(string(sr.bytes32()))
	}
	if sr.err != nil {
		return nil, sr.err
	}
	return ft, nil
}
