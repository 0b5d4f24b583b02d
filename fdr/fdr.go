// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fdr implements the Benjamini-Hochberg procedure for
// controlling the false discovery rate of a family of hypothesis
// tests.
//
// The procedure is valid when the tests are independent or positively
// correlated. Given m p-values sorted as p(1) <= ... <= p(m), it finds
// the largest rank k with p(k) <= k/m·α and declares the hypotheses
// of rank 1 through k significant.
package fdr

import (
	"sort"

	"golang.org/x/sigtest/sigmath"
)

// ErrInvalidInput is returned (wrapped in a *sigmath.InputError) for
// p-values outside [0, 1] and alpha outside (0, 1).
var ErrInvalidInput = sigmath.ErrInvalidInput

// Correct applies the Benjamini-Hochberg procedure to pvalues at
// false discovery rate alpha. The result has one entry per p-value,
// in the same order, and is true for each hypothesis declared
// significant.
//
// An empty pvalues yields an empty result. Ties are broken by input
// order, which does not affect the set of significant hypotheses.
func Correct(pvalues []float64, alpha float64) ([]bool, error) {
	if err := sigmath.CheckAlpha("fdr.Correct", alpha); err != nil {
		return nil, err
	}
	if err := sigmath.CheckPValues("fdr.Correct", pvalues); err != nil {
		return nil, err
	}

	m := len(pvalues)
	order := Order(pvalues)

	// Step up: the cut is the largest rank whose p-value is at or
	// below its critical value, even if smaller ranks are not.
	cut := 0
	for k := m; k >= 1; k-- {
		if pvalues[order[k-1]] <= float64(k)*alpha/float64(m) {
			cut = k
			break
		}
	}

	sig := make([]bool, m)
	for _, i := range order[:cut] {
		sig[i] = true
	}
	return sig, nil
}

// CorrectRows applies Correct independently to each row of rows.
// Each row is its own family of tests.
func CorrectRows(rows [][]float64, alpha float64) ([][]bool, error) {
	out := make([][]bool, len(rows))
	for i, row := range rows {
		sig, err := Correct(row, alpha)
		if err != nil {
			return nil, err
		}
		out[i] = sig
	}
	return out, nil
}

// Adjust returns the Benjamini-Hochberg adjusted p-values (often
// called q-values) of pvalues, in input order. The adjusted value of
// the p-value with rank k is
//
//	q(k) = min over j >= k of min(1, m·p(j)/j)
//
// so q(k) is the smallest false discovery rate at which the
// hypothesis would be declared significant by Correct.
func Adjust(pvalues []float64) ([]float64, error) {
	if err := sigmath.CheckPValues("fdr.Adjust", pvalues); err != nil {
		return nil, err
	}

	m := len(pvalues)
	order := Order(pvalues)
	q := make([]float64, m)
	min := 1.0
	for k := m; k >= 1; k-- {
		i := order[k-1]
		if v := pvalues[i] * float64(m) / float64(k); v < min {
			min = v
		}
		q[i] = min
	}
	return q, nil
}

// Count returns the number of true values in sig.
func Count(sig []bool) int {
	n := 0
	for _, s := range sig {
		if s {
			n++
		}
	}
	return n
}

// Order returns the indexes of pvalues in ascending p-value order,
// with ties in input order. The hypothesis at order[k-1] has rank k in
// Correct and Adjust.
func Order(pvalues []float64) []int {
	order := make([]int, len(pvalues))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pvalues[order[a]] < pvalues[order[b]]
	})
	return order
}
