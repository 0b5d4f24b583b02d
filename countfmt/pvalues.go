// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package countfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadPValues reads a list of p-values from r. Values may be split
// across lines and separated like the fields of a count table; blank
// lines and "#" comments are skipped. The values are not range
// checked.
//
// A malformed value is reported as a *SyntaxError.
func ReadPValues(r io.Reader, fileName string) ([]float64, error) {
	var ps []float64
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		for _, f := range splitFields(text) {
			p, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &SyntaxError{fileName, line, fmt.Sprintf("%q is not a number", f)}
			}
			ps = append(ps, p)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return ps, nil
}
