/*
Package sparse implements a sparse integer matrix type, used for the
generated GOTO table (state × nonterminal → state). Each cell can hold a
pair of values (see IntMatrix.Add).

This implementation uses the COO algorithm (a.k.a. triplet-encoding), the
same one the teacher module used for its LR GOTO/ACTION tables.

	https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
Copyright © 2022 the hydra authors
*/
package sparse

import "fmt"

// IntMatrix is a sparse matrix of (int32, int32) pairs, addressed
// (row, col). Construct with NewIntMatrix(rows, cols, nullValue).
//
//	M := NewIntMatrix(10, 10, DefaultNullValue)
//	M.Set(2, 3, 4711)
//	v := M.Value(2, 3)     // 4711
//	M.Add(2, 3, 123)       // now holds the pair (4711, 123)
//	cnt := M.ValueCount()  // 1: one (row,col) position populated
//
// Values are never deleted, only overwritten with the null value; space
// for a cleared cell is not reclaimed.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

type triplet struct {
	row, col int
	value    intPair
}

// DefaultNullValue is the default empty-cell value for a matrix built
// without an explicit null value.
const DefaultNullValue = -2147483648

// NewIntMatrix creates an m×n matrix. nullValue marks an empty cell.
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{values: []triplet{}, rowcnt: m, colcnt: n, nullval: nullValue}
}

// M returns the row count.
func (m *IntMatrix) M() int { return m.rowcnt }

// N returns the column count.
func (m *IntMatrix) N() int { return m.colcnt }

// NullValue returns the matrix's empty-cell marker.
func (m *IntMatrix) NullValue() int32 { return m.nullval }

// ValueCount returns the number of distinct (row,col) positions populated.
func (m *IntMatrix) ValueCount() int { return len(m.values) }

// Value returns the primary value at (i,j), or NullValue if unset.
func (m *IntMatrix) Value(i, j int) int32 {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) {
			if t.storedAt(i, j) {
				return t.value.a
			}
			break
		}
	}
	return m.nullval
}

// Values returns the (primary, secondary) pair at (i,j).
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) {
			if t.storedAt(i, j) {
				return t.value.a, t.value.b
			}
			break
		}
	}
	return m.nullval, m.nullval
}

// Set overwrites the primary value at (i,j).
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix { return m.setOrAdd(i, j, value, false) }

// Add sets the primary value if the cell is empty, otherwise fills the
// secondary slot (or overwrites it, if both are already in use) — used to
// record a second, conflicting candidate action at the same cell.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix { return m.setOrAdd(i, j, value, true) }

func (m *IntMatrix) setOrAdd(i, j int, value int32, doAdd bool) *IntMatrix {
	at := 0
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) {
			if t.storedAt(i, j) {
				if doAdd {
					m.values[k].value = addIntValue(m.values[k].value, value, m.nullval)
				} else {
					m.values[k].value = newIntPair(value, m.nullval)
				}
				return m
			}
			break
		}
		at++
	}
	tnew := triplet{row: i, col: j, value: newIntPair(value, m.nullval)}
	m.values = append(m.values, tnew)
	copy(m.values[at+1:], m.values[at:])
	m.values[at] = tnew
	return m
}

func addIntValue(v intPair, n int32, nullval int32) intPair {
	if v.a == nullval {
		v.a = n
	} else if v.b == nullval {
		v.b = n
	} else {
		v.b = n
	}
	return v
}

// Each calls fn once for every populated (row, col) cell, in storage order,
// passing its primary value. Used by automaton.Table.EncodeTo to flatten
// the GOTO matrix into a serializable record.
func (m *IntMatrix) Each(fn func(row, col int, value int32)) {
	for _, t := range m.values {
		if t.value.a != m.nullval {
			fn(t.row, t.col, t.value.a)
		}
	}
}

func (t *triplet) storedLeftOf(i, j int) bool { return t.row < i || (t.row == i && t.col < j) }
func (t *triplet) storedAt(i, j int) bool     { return t.row == i && t.col == j }

type intPair struct{ a, b int32 }

func (pr intPair) String() string { return fmt.Sprintf("[%d,%d]", pr.a, pr.b) }
func newIntPair(a, b int32) intPair { return intPair{a, b} }
