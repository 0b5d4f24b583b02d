// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sigtest/fdr"
	"golang.org/x/sigtest/internal/texttab"
)

func formatG(g float64) string { return fmt.Sprintf("%.2f", g) }
func formatP(p float64) string { return fmt.Sprintf("%.3g", p) }
func formatShape(r *result) string { return fmt.Sprintf("%d×%d", r.Rows, r.Cols) }

func mark(r *result) string {
	if r.Significant {
		return "*"
	}
	return ""
}

func countSignificant(results []*result) int {
	sig := make([]bool, len(results))
	for i, r := range results {
		sig[i] = r.Significant
	}
	return fdr.Count(sig)
}

// formatText writes results as an aligned text table followed by a
// count of the significant results. matrices selects the columns
// describing G-tests.
func formatText(w io.Writer, results []*result, alpha float64, matrices bool) error {
	var tab texttab.Table
	tab.Row().Cell("name")
	if matrices {
		tab.Cell("shape").Cell("G", texttab.Right).Cell("df", texttab.Right)
	}
	tab.Cell("p", texttab.Right).Cell("q", texttab.Right)

	for _, r := range results {
		tab.Row().Cell(r.Name)
		if matrices {
			tab.Cell(formatShape(r)).Cell(formatG(r.G), texttab.Right).Cell(strconv.Itoa(r.DF), texttab.Right)
		}
		tab.Cell(formatP(r.P), texttab.Right).Cell(formatP(r.Q), texttab.Right).Cell(mark(r))
	}
	if err := tab.Format(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d significant at FDR α=%v\n", countSignificant(results), len(results), alpha)
	return err
}

// formatCSV writes results as CSV with a header row.
func formatCSV(w io.Writer, results []*result, matrices bool) error {
	cw := csv.NewWriter(w)
	hdr := []string{"name"}
	if matrices {
		hdr = append(hdr, "rows", "cols", "g", "df")
	}
	hdr = append(hdr, "p", "q", "significant")
	cw.Write(hdr)

	for _, r := range results {
		row := []string{r.Name}
		if matrices {
			row = append(row, strconv.Itoa(r.Rows), strconv.Itoa(r.Cols), formatG(r.G), strconv.Itoa(r.DF))
		}
		row = append(row, formatP(r.P), formatP(r.Q), strconv.FormatBool(r.Significant))
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}
