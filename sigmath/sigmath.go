// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sigmath holds the pieces shared by the significance tests
// in this module: the thresholds they are configured with, the
// invalid-input error they report, and summaries of p-value sets.
//
// Like the tests built on it, nothing in this package logs. Problems
// that prevent a computation are returned as errors; problems that
// merely weaken a result are attached to it as a list of warnings,
// captured as an []error value, which should be shown to the user
// along with the result.
package sigmath

import "math"

// A Thresholds configures the statistical thresholds used by the
// tests in this module.
//
// This should be initialized to DefaultThresholds because it may be
// extended with other fields in the future.
type Thresholds struct {
	// Alpha is the false discovery rate at which a set of
	// p-values is corrected, and the level below which a single
	// test rejects its null hypothesis.
	//
	// This is typically 0.05.
	Alpha float64

	// MinExpected is the smallest expected cell count for which
	// the chi-squared approximation of the G statistic is
	// trusted. Cells below it produce a warning, not an error.
	MinExpected float64
}

// DefaultThresholds contains a reasonable set of defaults for Thresholds.
var DefaultThresholds = Thresholds{
	Alpha:       0.05,
	MinExpected: 5,
}

// CheckAlpha returns an *InputError if alpha is not in the open
// interval (0, 1).
func CheckAlpha(op string, alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return &InputError{Op: op, Index: -1, Msg: "alpha must be in (0, 1), got " + formatFloat(alpha)}
	}
	return nil
}

// CheckPValues returns an *InputError for the first entry of ps that
// is not a probability. NaN is never a probability.
func CheckPValues(op string, ps []float64) error {
	for i, p := range ps {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return &InputError{Op: op, Index: i, Msg: "p-value " + formatFloat(p) + " outside [0, 1]"}
		}
	}
	return nil
}
