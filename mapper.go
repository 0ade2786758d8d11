package vibrato

import (
	"encoding/binary"
	"io"
	"sort"
)

// ConnIdCounter accumulates first-pass frequency observations of left/
// right connection ids during a trial tokenization, used to produce a
// ConnIdMapper that places high-frequency ids at low indices so the
// hottest Connector rows/columns share cache lines.
type ConnIdCounter struct {
	rightFreq []uint64
	leftFreq  []uint64
}

// NewConnIdCounter returns a counter sized for the given connector shape.
func NewConnIdCounter(numRight, numLeft int) *ConnIdCounter {
	return &ConnIdCounter{
		rightFreq: make([]uint64, numRight),
		leftFreq:  make([]uint64, numLeft),
	}
}

// Observe records one connection-id pair from a tokenized edge.
func (c *ConnIdCounter) Observe(rightID, leftID uint16) {
	c.rightFreq[rightID]++
	c.leftFreq[leftID]++
}

// Finalize produces the permutation. Id 0 (the BOS/EOS sentinel id)
// stays fixed at index 0; every other id is ordered by descending
// observed frequency, ties broken by ascending original id to keep the
// result deterministic.
func (c *ConnIdCounter) Finalize() *ConnIdMapper {
	return &ConnIdMapper{
		rmap: rankByFrequency(c.rightFreq),
		lmap: rankByFrequency(c.leftFreq),
	}
}

func rankByFrequency(freq []uint64) []uint32 {
	n := len(freq)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if n > 1 {
		rest := order[1:]
		sort.SliceStable(rest, func(i, j int) bool {
			if freq[rest[i]] != freq[rest[j]] {
				return freq[rest[i]] > freq[rest[j]]
			}
			return rest[i] < rest[j]
		})
	}
	newID := make([]uint32, n)
	for newIdx, oldID := range order {
		newID[oldID] = uint32(newIdx)
	}
	return newID
}

// ConnIdMapper is a pair of permutations over [0..num_left) and
// [0..num_right), applied to both WordEntry ids and Connector rows/
// columns. Post-condition (spec §4.5):
// cost_after(permute(r), permute(l)) == cost_before(r, l) for all (r, l).
type ConnIdMapper struct {
	lmap []uint32 // lmap[oldLeftID] = newLeftID
	rmap []uint32 // rmap[oldRightID] = newRightID
}

// NewIdentityMapper returns a mapper that changes no id: reserializing a
// Dictionary through it must leave the bytes unchanged (spec §8).
func NewIdentityMapper(numRight, numLeft int) *ConnIdMapper {
	m := &ConnIdMapper{lmap: make([]uint32, numLeft), rmap: make([]uint32, numRight)}
	for i := range m.lmap {
		m.lmap[i] = uint32(i)
	}
	for i := range m.rmap {
		m.rmap[i] = uint32(i)
	}
	return m
}

func (m *ConnIdMapper) MapLeft(old uint16) uint16  { return uint16(m.lmap[old]) }
func (m *ConnIdMapper) MapRight(old uint16) uint16 { return uint16(m.rmap[old]) }

// ApplyToEntry rewrites one WordEntry's connection ids in place.
func (m *ConnIdMapper) ApplyToEntry(e *WordEntry) {
	e.LeftID = m.MapLeft(e.LeftID)
	e.RightID = m.MapRight(e.RightID)
}

// ApplyToMatrix returns a new dense connector with rows/columns permuted
// to match this mapping.
func (m *ConnIdMapper) ApplyToMatrix(c *matrixConnector) *matrixConnector {
	out := NewMatrixConnector(c.numRight, c.numLeft)
	for r := 0; r < c.numRight; r++ {
		for l := 0; l < c.numLeft; l++ {
			out.Set(m.MapRight(uint16(r)), m.MapLeft(uint16(l)), c.Cost(uint16(r), uint16(l)))
		}
	}
	return out
}

// WriteLMap/WriteRMap emit the raw 32-bit little-endian permutation
// arrays (spec §6's *.lmap/*.rmap format).
func (m *ConnIdMapper) WriteLMap(w io.Writer) error { return writeIDArray(w, m.lmap) }
func (m *ConnIdMapper) WriteRMap(w io.Writer) error { return writeIDArray(w, m.rmap) }

// LoadConnIdMapper reads a previously-written *.lmap/*.rmap pair.
func LoadConnIdMapper(lr, rr io.Reader, numLeft, numRight int) (*ConnIdMapper, error) {
	lmap, err := readIDArray(lr, numLeft)
	if err != nil {
		return nil, err
	}
	rmap, err := readIDArray(rr, numRight)
	if err != nil {
		return nil, err
	}
	return &ConnIdMapper{lmap: lmap, rmap: rmap}, nil
}

func writeIDArray(w io.Writer, ids []uint32) error {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], id)
	}
	_, err := w.Write(buf)
	return err
}

func readIDArray(r io.Reader, n int) ([]uint32, error) {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return ids, nil
}
