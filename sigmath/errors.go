// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sigmath

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidInput is the error class for malformed or out-of-domain
// input: empty or ragged matrices, negative or non-finite counts,
// p-values outside [0, 1], or an alpha outside (0, 1).
//
// Errors returned by this module for such input are *InputError
// values, which match ErrInvalidInput under errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// An InputError describes a single contract violation in the input
// to operation Op.
type InputError struct {
	// Op is the operation that rejected the input, such as
	// "fdr.Correct".
	Op string

	// Index is the position of the offending value, or -1 if the
	// problem is not tied to one position. For matrices it is the
	// row index.
	Index int

	// Msg describes the violation.
	Msg string
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s: %s", e.Op, ErrInvalidInput, e.Msg)
	}
	return fmt.Sprintf("%s: %s at %d: %s", e.Op, ErrInvalidInput, e.Index, e.Msg)
}

// Unwrap returns ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
