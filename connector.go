package vibrato

import "math"

// Connector exposes the connection-cost lookup between two adjacent
// words: the right-id of the word ending at a position and the left-id
// of the word starting there. Modeled as a tagged variant: a small
// interface with two concrete shapes. The Viterbi loop takes a Connector
// interface value; Go generics can't specialize away that dispatch the
// way a C++ template instantiation could, so the per-edge interface call
// is accepted as a deliberate, idiomatic-Go tradeoff (see DESIGN.md).
type Connector interface {
	// Cost returns the connection cost between rightIDPrev (the ending
	// word's right-id) and leftIDCurr (the starting word's left-id).
	Cost(rightIDPrev, leftIDCurr uint16) int16
	NumRight() int
	NumLeft() int
}

// matrixConnector is the dense form: a contiguous row-major array indexed
// left_id*num_right + right_id, following the reference connector's index
// formula directly.
type matrixConnector struct {
	numRight, numLeft int
	costs             []int16 // len == numRight*numLeft
}

// NewMatrixConnector returns a dense Connector of the given logical shape,
// with every cost initialized to 0; DictionaryBuilder.LoadMatrixDef fills
// it from matrix.def through Set.
func NewMatrixConnector(numRight, numLeft int) *matrixConnector {
	return &matrixConnector{
		numRight: numRight,
		numLeft:  numLeft,
		costs:    make([]int16, numRight*numLeft),
	}
}

func (m *matrixConnector) index(right, left uint16) int {
	return int(left)*m.numRight + int(right)
}

func (m *matrixConnector) Cost(right, left uint16) int16 {
	return m.costs[m.index(right, left)]
}

func (m *matrixConnector) Set(right, left uint16, cost int16) {
	m.costs[m.index(right, left)] = cost
}

func (m *matrixConnector) NumRight() int { return m.numRight }
func (m *matrixConnector) NumLeft() int  { return m.numLeft }

// compactDualConnector trades memory for lookups: right/left ids are
// first remapped into a much smaller class space, then a class-by-class
// table is indexed the same way matrixConnector is. An optional second
// remap/table pair supports the dual-connector form, in which the two
// class costs are averaged with round-half-to-even. connector_test.go
// checks the rounding on fixed cases; it is not compared against another
// implementation.
type compactDualConnector struct {
	rightClass1, leftClass1           []uint16
	cost1                             []int16
	numRightClasses1, numLeftClasses1 int

	dual                               bool
	rightClass2, leftClass2            []uint16
	cost2                              []int16
	numRightClasses2, numLeftClasses2  int
}

// NewCompactConnector returns a single-table compact Connector. Building
// the class remap tables themselves (clustering right/left ids by
// similar cost rows) is a corpus-driven preprocessing step done offline,
// on par with CRF training; this constructor accepts already-computed
// tables, e.g. from a serialized dictionary or a test fixture.
func NewCompactConnector(rightClass, leftClass []uint16, numRightClasses, numLeftClasses int, cost []int16) *compactDualConnector {
	return &compactDualConnector{
		rightClass1:      rightClass,
		leftClass1:       leftClass,
		numRightClasses1: numRightClasses,
		numLeftClasses1:  numLeftClasses,
		cost1:            cost,
	}
}

// WithSecondTable upgrades a compact connector to the dual form, whose
// cost is the round-half-to-even average of both class tables' costs.
func (c *compactDualConnector) WithSecondTable(rightClass, leftClass []uint16, numRightClasses, numLeftClasses int, cost []int16) *compactDualConnector {
	c.dual = true
	c.rightClass2 = rightClass
	c.leftClass2 = leftClass
	c.numRightClasses2 = numRightClasses
	c.numLeftClasses2 = numLeftClasses
	c.cost2 = cost
	return c
}

func (c *compactDualConnector) Cost(right, left uint16) int16 {
	r1, l1 := c.rightClass1[right], c.leftClass1[left]
	v1 := c.cost1[int(l1)*c.numRightClasses1+int(r1)]
	if !c.dual {
		return v1
	}
	r2, l2 := c.rightClass2[right], c.leftClass2[left]
	v2 := c.cost2[int(l2)*c.numRightClasses2+int(r2)]
	return roundHalfEven(v1, v2)
}

func (c *compactDualConnector) NumRight() int { return len(c.rightClass1) }
func (c *compactDualConnector) NumLeft() int  { return len(c.leftClass1) }

func roundHalfEven(a, b int16) int16 {
	sum := float64(a) + float64(b)
	return int16(math.RoundToEven(sum / 2))
}
