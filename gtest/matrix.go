// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gtest

import (
	"fmt"
	"math"

	"golang.org/x/sigtest/sigmath"
)

// A Matrix is an observation matrix of nonnegative counts. Each row
// is an independent sample and each column is a category. All rows
// must have the same length.
type Matrix [][]float64

// Dims returns the number of rows and columns of m. The column count
// is taken from the first row.
func (m Matrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// check validates the shape and entries of m on behalf of op.
func (m Matrix) check(op string) error {
	rows, cols := m.Dims()
	if rows == 0 {
		return &sigmath.InputError{Op: op, Index: -1, Msg: "matrix has no rows"}
	}
	if cols == 0 {
		return &sigmath.InputError{Op: op, Index: -1, Msg: "matrix has no columns"}
	}
	for i, row := range m {
		if len(row) != cols {
			return &sigmath.InputError{Op: op, Index: i, Msg: fmt.Sprintf("ragged row has %d columns, want %d", len(row), cols)}
		}
		for j, o := range row {
			if math.IsNaN(o) || math.IsInf(o, 0) {
				return &sigmath.InputError{Op: op, Index: i, Msg: fmt.Sprintf("count %v in column %d is not a number", o, j)}
			}
			if o < 0 {
				return &sigmath.InputError{Op: op, Index: i, Msg: fmt.Sprintf("count %v in column %d is negative", o, j)}
			}
		}
	}
	return nil
}

// marginals returns the row sums, column sums, and grand total of m.
// m must already be checked.
func (m Matrix) marginals() (rowSums, colSums []float64, total float64) {
	rows, cols := m.Dims()
	rowSums, colSums = make([]float64, rows), make([]float64, cols)
	for i, row := range m {
		for j, o := range row {
			rowSums[i] += o
			colSums[j] += o
		}
		total += rowSums[i]
	}
	return
}
