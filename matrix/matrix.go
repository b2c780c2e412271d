// Package matrix computes pairwise compression-distance matrices between a
// test and a train collection.
//
// A Matrix is a contiguous block of rows of the full |test| x |train| matrix.
// Entry (i, j) is the distance of test item Start+i to train item j, with
// train items in input order.
package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Row holds the distances of one test item to every train item.
type Row []float64

// Matrix is a row block of a distance matrix starting at global test index Start.
type Matrix struct {
	Start int
	Rows  []Row
}

// Len returns the number of rows.
func (m *Matrix) Len() int { return len(m.Rows) }

// End returns the exclusive global index of the last row.
func (m *Matrix) End() int { return m.Start + len(m.Rows) }

// Cols returns the number of train columns (0 for an empty matrix).
func (m *Matrix) Cols() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// Dense copies the matrix into a gonum dense matrix.
// It returns nil for a matrix without rows or columns.
func (m *Matrix) Dense() *mat.Dense {
	r, c := m.Len(), m.Cols()
	if r == 0 || c == 0 {
		return nil
	}
	data := make([]float64, 0, r*c)
	for _, row := range m.Rows {
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data)
}

// FromDense creates a Matrix from a dense matrix whose first row is global
// test index start.
func FromDense(start int, d mat.Matrix) *Matrix {
	r, _ := d.Dims()
	rows := make([]Row, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, d)
	}
	return &Matrix{Start: start, Rows: rows}
}

// Concat joins contiguous blocks into one matrix. Blocks must be given in
// order, each starting where the previous one ends, with equal column counts.
func Concat(blocks ...*Matrix) (*Matrix, error) {
	if len(blocks) == 0 {
		return nil, errors.New("concat: no blocks")
	}
	out := &Matrix{Start: blocks[0].Start}
	for i, b := range blocks {
		if b.Start != out.End() {
			return nil, fmt.Errorf("concat: block %d starts at %d, want %d", i, b.Start, out.End())
		}
		if out.Len() > 0 && b.Len() > 0 && b.Cols() != out.Cols() {
			return nil, fmt.Errorf("concat: block %d has %d columns, want %d", i, b.Cols(), out.Cols())
		}
		out.Rows = append(out.Rows, b.Rows...)
	}
	return out, nil
}
