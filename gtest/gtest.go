// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gtest implements the log-likelihood ratio test ("G-test")
// of homogeneity: it tests whether every row of an observation matrix
// of counts was drawn from one shared categorical distribution.
//
// The null model pools all rows, so the expected count of cell (i, j)
// is E = R_i·C_j/N for row sum R_i, column sum C_j, and total N. The
// alternative model gives each row its own distribution, which
// reproduces the observed counts O. The statistic
//
//	G = 2 · Σ O·ln(O/E)
//
// is asymptotically chi-squared with (rows-1)·(cols-1) degrees of
// freedom under the null hypothesis.
//
// Empty cells contribute nothing to G, following the limit
// 0·ln(0) = 0. A row (or column) whose counts are all zero therefore
// carries no information and contributes nothing either; it is not an
// error, but it is reported in Result.Warnings. A matrix with a
// single row or a single column has zero degrees of freedom, and its
// p-value is defined to be exactly 1.
package gtest

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"golang.org/x/sigtest/sigmath"
)

// ErrInvalidInput is returned (wrapped in a *sigmath.InputError) for
// empty or ragged matrices and for negative or non-finite counts.
var ErrInvalidInput = sigmath.ErrInvalidInput

// A Result is the outcome of a G-test on one observation matrix.
type Result struct {
	// G is the log-likelihood ratio statistic. It is never
	// negative.
	G float64

	// DF is the degrees of freedom of the reference distribution,
	// (rows-1)·(cols-1).
	DF int

	// P is the p-value of the null hypothesis that all rows share
	// one distribution. P is exactly 1 if DF is 0.
	P float64

	// Warnings lists conditions that make P less trustworthy
	// without preventing the test, such as zero-sum rows or small
	// expected counts.
	Warnings []error
}

// A BatchError reports which matrix of a batch could not be tested.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("matrix %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// A Tester runs G-tests. The zero Tester uses DefaultThresholds, the
// chi-squared reference distribution, and one worker per CPU.
//
// A Tester is safe for concurrent use as long as it is not modified.
type Tester struct {
	// Thresholds configures the warning thresholds. If nil,
	// sigmath.DefaultThresholds is used.
	Thresholds *sigmath.Thresholds

	// Survival returns the upper tail probability of the
	// reference distribution with df degrees of freedom at g. If
	// nil, ChiSquaredSurvival is used. It is never called with
	// df == 0.
	Survival func(g float64, df int) float64

	// Workers bounds the number of matrices TestBatch evaluates at
	// once. If <= 0, runtime.GOMAXPROCS(0) is used.
	Workers int
}

var defaultTester Tester

// ChiSquaredSurvival returns P(X > g) for X chi-squared distributed
// with df degrees of freedom.
func ChiSquaredSurvival(g float64, df int) float64 {
	return distuv.ChiSquared{K: float64(df)}.Survival(g)
}

// Test returns the p-value of the G-test of homogeneity on m using the
// zero Tester.
func Test(m Matrix) (float64, error) {
	return defaultTester.Test(m)
}

// TestBatch returns the p-values of independent G-tests on each of ms,
// in the same order, using the zero Tester.
func TestBatch(ms []Matrix) ([]float64, error) {
	return defaultTester.TestBatch(ms)
}

// Analyze runs the G-test on m using the zero Tester.
func Analyze(m Matrix) (Result, error) {
	return defaultTester.Analyze(m)
}

// AnalyzeBatch runs independent G-tests on each of ms using the zero
// Tester.
func AnalyzeBatch(ms []Matrix) ([]Result, error) {
	return defaultTester.AnalyzeBatch(ms)
}

// Test returns the p-value of the G-test of homogeneity on m.
func (t *Tester) Test(m Matrix) (float64, error) {
	r, err := t.analyze("gtest.Test", m)
	if err != nil {
		return 0, err
	}
	return r.P, nil
}

// TestBatch returns the p-values of independent G-tests on each of ms,
// in the same order. If any matrix is invalid, TestBatch returns a
// *BatchError identifying it and no p-values.
func (t *Tester) TestBatch(ms []Matrix) ([]float64, error) {
	rs, err := t.AnalyzeBatch(ms)
	if err != nil {
		return nil, err
	}
	ps := make([]float64, len(rs))
	for i, r := range rs {
		ps[i] = r.P
	}
	return ps, nil
}

// Analyze runs the G-test on m.
func (t *Tester) Analyze(m Matrix) (Result, error) {
	return t.analyze("gtest.Analyze", m)
}

// AnalyzeBatch runs independent G-tests on each of ms, concurrently,
// and returns their results in the same order. If several matrices are
// invalid, the returned *BatchError names the one with the lowest
// index.
func (t *Tester) AnalyzeBatch(ms []Matrix) ([]Result, error) {
	out := make([]Result, len(ms))
	errs := make([]error, len(ms))
	var g errgroup.Group
	g.SetLimit(t.workers())
	for i, m := range ms {
		i, m := i, m
		// Each goroutine owns slot i of out and errs.
		g.Go(func() error {
			out[i], errs[i] = t.analyze("gtest.TestBatch", m)
			return nil
		})
	}
	g.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
	}
	return out, nil
}

func (t *Tester) analyze(op string, m Matrix) (Result, error) {
	if err := m.check(op); err != nil {
		return Result{}, err
	}
	rows, cols := m.Dims()
	rowSums, colSums, total := m.marginals()
	if math.IsInf(total, 0) {
		return Result{}, &sigmath.InputError{Op: op, Index: -1, Msg: "counts overflow float64"}
	}

	var r Result
	r.DF = (rows - 1) * (cols - 1)
	r.Warnings = t.warnings(rowSums, colSums, total)

	// Sum O·ln(O/E) as O·(ln(O/R) - ln(C/N)): the log of the
	// row's own proportion minus the log of the pooled
	// proportion. This never forms E or O/E, which can underflow
	// for large sparse matrices.
	if total > 0 {
		logPooled := make([]float64, cols)
		for j, c := range colSums {
			if c > 0 {
				logPooled[j] = math.Log(c) - math.Log(total)
			}
		}
		var sum float64
		for i, row := range m {
			if rowSums[i] == 0 {
				continue
			}
			logR := math.Log(rowSums[i])
			for j, o := range row {
				if o == 0 {
					continue
				}
				sum += o * (math.Log(o) - logR - logPooled[j])
			}
		}
		// Identical rows give a G that is zero up to rounding,
		// which may be slightly negative.
		r.G = math.Max(0, 2*sum)
	}

	if r.DF == 0 {
		r.P = 1
		return r, nil
	}
	survival := t.Survival
	if survival == nil {
		survival = ChiSquaredSurvival
	}
	r.P = survival(r.G, r.DF)
	return r, nil
}

func (t *Tester) warnings(rowSums, colSums []float64, total float64) []error {
	var warnings []error
	if total == 0 {
		return append(warnings, fmt.Errorf("matrix has no observations"))
	}
	for i, r := range rowSums {
		if r == 0 {
			warnings = append(warnings, fmt.Errorf("row %d sums to zero and carries no information", i))
		}
	}
	for j, c := range colSums {
		if c == 0 {
			warnings = append(warnings, fmt.Errorf("column %d sums to zero and carries no information", j))
		}
	}

	thresholds := t.Thresholds
	if thresholds == nil {
		thresholds = &sigmath.DefaultThresholds
	}
	small, cells := 0, 0
	for _, r := range rowSums {
		for _, c := range colSums {
			if r == 0 || c == 0 {
				continue
			}
			cells++
			if r*c/total < thresholds.MinExpected {
				small++
			}
		}
	}
	if small > 0 {
		warnings = append(warnings, fmt.Errorf("%d of %d expected counts below %v; chi-squared approximation may be poor", small, cells, thresholds.MinExpected))
	}
	return warnings
}

func (t *Tester) workers() int {
	if t.Workers > 0 {
		return t.Workers
	}
	return runtime.GOMAXPROCS(0)
}
