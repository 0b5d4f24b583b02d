// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sigmath

import (
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Summary summarizes a set of p-values, typically the results of
// many independent tests that are about to be corrected together.
type Summary struct {
	// N is the number of p-values.
	N int

	// Min, Median, and Max describe the spread of the p-values.
	// They are 0 if N is 0.
	Min, Median, Max float64

	// Mean is the arithmetic mean of the p-values. Under a global
	// null hypothesis p-values are uniform and Mean is near 0.5.
	Mean float64

	// Below is the number of p-values at or below the alpha the
	// summary was computed for, before any correction.
	Below int
}

// Summarize computes a Summary of ps at level alpha. It does not
// modify ps.
func Summarize(ps []float64, alpha float64) (Summary, error) {
	if err := CheckPValues("sigmath.Summarize", ps); err != nil {
		return Summary{}, err
	}
	s := Summary{N: len(ps)}
	if len(ps) == 0 {
		return s, nil
	}

	sorted := append([]float64(nil), ps...)
	sort.Float64s(sorted)
	sample := stats.Sample{Xs: sorted, Sorted: true}

	s.Min, s.Max = stats.Bounds(sorted)
	s.Median = sample.Quantile(0.5)
	s.Mean = stats.Mean(sorted)
	s.Below = sort.Search(len(sorted), func(i int) bool { return sorted[i] > alpha })
	return s, nil
}

// String formats s as "n=N min=… median=… max=…", followed by the
// number of uncorrected rejections.
func (s Summary) String() string {
	if s.N == 0 {
		return "n=0"
	}
	return fmt.Sprintf("n=%d min=%.3g median=%.3g max=%.3g below=%d", s.N, s.Min, s.Median, s.Max, s.Below)
}
