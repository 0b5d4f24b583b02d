// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Sigstat tests tables of category counts for homogeneity and
// corrects the results for multiple testing.
//
// Usage:
//
//	sigstat [flags] [tables.txt ...]
//
// Each input file holds one or more observation matrices in the
// count table format: one row of counts per line, numbers separated
// by commas or spaces, a blank line between matrices, and an optional
// "name: ..." line before each matrix. With no files, sigstat reads
// standard input.
//
// For every matrix sigstat runs a G-test (log-likelihood ratio test)
// of the null hypothesis that all of its rows share one distribution
// over the columns. It then applies the Benjamini-Hochberg procedure
// to the whole set of p-values and marks with "*" the matrices whose
// difference between rows is significant at false discovery rate α.
// The q column is the Benjamini-Hochberg adjusted p-value: the
// smallest α at which that matrix would be marked.
//
// The -alpha flag sets α (default 0.05).
//
// The -format flag selects the output format: text (the default),
// csv, or html.
//
// The -pvalues flag treats the inputs as lists of p-values instead
// of count tables and only applies the correction.
//
// The -plot flag writes a PNG chart of the sorted p-values against
// the Benjamini-Hochberg critical line to the named file.
//
// The -summary flag adds a line describing the uncorrected p-values.
// It is only supported by the text format.
//
// Warnings about individual tests, such as all-zero rows or expected
// counts too small for the chi-squared approximation, are printed to
// standard error.
//
// Example
//
// Suppose the file example.txt contains:
//
//	name: colors
//	10 20 30
//	30 20 10
//
//	name: flips
//	10 90
//	20 80
//
//	name: coins
//	50 50
//	50 50
//
// Then:
//
//	$ sigstat example.txt
//	name    shape      G  df         p         q
//	colors  2×3    20.93   2  2.85e-05  8.56e-05  *
//	flips   2×2     3.99   1    0.0459    0.0688
//	coins   2×2     0.00   1         1         1
//	1 of 3 significant at FDR α=0.05
//
// Note that flips is not marked: its p-value is below 0.05, but not
// below its Benjamini-Hochberg critical value of 2/3·0.05.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/sigtest/countfmt"
	"golang.org/x/sigtest/fdr"
	"golang.org/x/sigtest/gtest"
	"golang.org/x/sigtest/internal/bhplot"
	"golang.org/x/sigtest/sigmath"
)

func main() {
	log.SetPrefix("sigstat: ")
	log.SetFlags(0)

	if err := sigstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err != errReported {
			log.Print(err)
		}
		os.Exit(1)
	}
}

// errReported means the problems were already printed to stderr.
var errReported = errors.New("errors reported")

// A result is one line of output: a tested matrix or a bare p-value.
type result struct {
	Name string

	// Rows, Cols, G, and DF are only set for matrices.
	Rows, Cols int
	G          float64
	DF         int

	P, Q        float64
	Significant bool
}

func sigstat(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("sigstat", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: sigstat [flags] [inputs...]

sigstat runs G-tests of homogeneity on tables of counts and corrects
the resulting p-values with the Benjamini-Hochberg procedure.
See https://pkg.go.dev/golang.org/x/sigtest/cmd/sigstat for details.

Flags:
`)
		flags.PrintDefaults()
	}
	flagAlpha := flags.Float64("alpha", sigmath.DefaultThresholds.Alpha, "control the false discovery rate at `α`")
	flagFormat := flags.String("format", "text", "print results in `format`: text, csv, or html")
	flagPValues := flags.Bool("pvalues", false, "inputs are lists of p-values; only correct them")
	flagPlot := flags.String("plot", "", "write a Benjamini-Hochberg chart to `file` as PNG")
	flagSummary := flags.Bool("summary", false, "describe the uncorrected p-values")
	flagWorkers := flags.Int("j", 0, "test up to `n` tables at once (0 means one per CPU)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := sigmath.CheckAlpha("sigstat", *flagAlpha); err != nil {
		return err
	}
	format := strings.ToLower(*flagFormat)
	switch format {
	case "text", "csv", "html":
	default:
		flags.Usage()
		return fmt.Errorf("unknown format %q", *flagFormat)
	}
	if *flagSummary && format != "text" {
		return fmt.Errorf("-summary requires -format text")
	}

	logger := log.New(wErr, "", 0)

	var results []*result
	var err error
	if *flagPValues {
		results, err = readPValues(flags.Args())
	} else {
		results, err = testTables(flags.Args(), *flagWorkers, logger)
	}
	if err != nil && err != errReported {
		return err
	}
	inputErr := err

	ps := make([]float64, len(results))
	for i, r := range results {
		ps[i] = r.P
	}
	sig, err := fdr.Correct(ps, *flagAlpha)
	if err != nil {
		return err
	}
	qs, err := fdr.Adjust(ps)
	if err != nil {
		return err
	}
	for i, r := range results {
		r.Significant, r.Q = sig[i], qs[i]
	}

	var buf bytes.Buffer
	switch format {
	case "text":
		err = formatText(&buf, results, *flagAlpha, !*flagPValues)
		if err == nil && *flagSummary {
			var s sigmath.Summary
			if s, err = sigmath.Summarize(ps, *flagAlpha); err == nil {
				fmt.Fprintf(&buf, "p-values: %s\n", s)
			}
		}
	case "csv":
		err = formatCSV(&buf, results, !*flagPValues)
	case "html":
		err = formatHTML(&buf, results, *flagAlpha, !*flagPValues)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}

	if *flagPlot != "" && len(ps) > 0 {
		if err := writePlot(*flagPlot, ps, *flagAlpha); err != nil {
			return err
		}
	}
	return inputErr
}

// testTables reads count tables from paths and runs a G-test on each.
// Syntax errors are logged and the broken tables skipped; they make
// testTables return errReported after the remaining tables are tested.
func testTables(paths []string, workers int, logger *log.Logger) ([]*result, error) {
	files := &countfmt.Files{Paths: paths, AllowStdin: true}
	var tables []*countfmt.Table
	var inputErr error
	for files.Scan() {
		switch rec := files.Result().(type) {
		case *countfmt.Table:
			tables = append(tables, rec)
		case *countfmt.SyntaxError:
			logger.Print(rec)
			inputErr = errReported
		}
	}
	if err := files.Err(); err != nil {
		return nil, err
	}

	ms := make([]gtest.Matrix, len(tables))
	for i, t := range tables {
		ms[i] = t.Matrix()
	}
	tester := &gtest.Tester{Workers: workers}
	rs, err := tester.AnalyzeBatch(ms)
	if err != nil {
		// Name the table rather than its batch index.
		var be *gtest.BatchError
		if errors.As(err, &be) {
			file, line := tables[be.Index].Pos()
			return nil, fmt.Errorf("%s:%d: table %s: %w", file, line, tables[be.Index].Name, be.Err)
		}
		return nil, err
	}

	results := make([]*result, len(tables))
	for i, t := range tables {
		r := rs[i]
		rows, cols := ms[i].Dims()
		results[i] = &result{Name: t.Name, Rows: rows, Cols: cols, G: r.G, DF: r.DF, P: r.P}
		for _, warn := range r.Warnings {
			logger.Printf("%s: %v", t.Name, warn)
		}
	}
	return results, inputErr
}

// readPValues reads p-value lists from paths, or from stdin if paths
// is empty.
func readPValues(paths []string) ([]*result, error) {
	read := func(r io.Reader, name string) ([]*result, error) {
		ps, err := countfmt.ReadPValues(r, name)
		if err != nil {
			return nil, err
		}
		out := make([]*result, len(ps))
		for i, p := range ps {
			out[i] = &result{Name: fmt.Sprintf("%s#%d", name, i), P: p}
		}
		return out, nil
	}

	if len(paths) == 0 {
		return read(os.Stdin, "-")
	}
	var results []*result
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		rs, err := read(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}

func writePlot(path string, ps []float64, alpha float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	chart := &bhplot.Chart{Title: fmt.Sprintf("Benjamini-Hochberg, α=%v", alpha)}
	if err := chart.Render(f, ps, alpha); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
