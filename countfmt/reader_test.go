// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package countfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/sigtest/gtest"
)

func parseAll(t *testing.T, data string) []Record {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test")
	var out []Record
	for r.Scan() {
		out = append(out, r.Result())
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out
}

func printRecord(w io.Writer, r Record) {
	switch r := r.(type) {
	case *Table:
		_, line := r.Pos()
		fmt.Fprintf(w, "%s@%d %v\n", r.Name, line, r.Rows)
	case *SyntaxError:
		fmt.Fprintf(w, "SyntaxError: %s\n", r)
	default:
		panic(fmt.Sprintf("unknown record type %T", r))
	}
}

func TestReader(t *testing.T) {
	type testCase struct {
		name, input, want string
	}
	for _, test := range []testCase{
		{
			"basic",
			"10 20 30\n30 20 10\n",
			"test#0@1 [[10 20 30] [30 20 10]]\n",
		},
		{
			"separators",
			"1,2, 3\n4\t5  6\n",
			"test#0@1 [[1 2 3] [4 5 6]]\n",
		},
		{
			"blank lines split tables",
			"1 2\n3 4\n\n\n5 6\n7 8\n",
			"test#0@1 [[1 2] [3 4]]\ntest#1@5 [[5 6] [7 8]]\n",
		},
		{
			"names and comments",
			`# header comment
name: colors
10 20 30
# inside
30 20 10
name: shapes
5, 5
4, 6
`,
			"colors@3 [[10 20 30] [30 20 10]]\nshapes@7 [[5 5] [4 6]]\n",
		},
		{
			"other keys ignored",
			"unit: people\n1 2\n3 4\n",
			"test#0@2 [[1 2] [3 4]]\n",
		},
		{
			"syntax error drops table",
			"name: bad\n1 2\n3 x\n4 5\n\n6 7\n8 9\n",
			"SyntaxError: test:3: column 1: \"x\" is not a number\ntest#1@6 [[6 7] [8 9]]\n",
		},
		{
			"syntax error on first row",
			"name: bad\n1 y\n\nname: good\n1 2\n",
			"SyntaxError: test:2: column 1: \"y\" is not a number\ngood@5 [[1 2]]\n",
		},
		{
			"ragged rows are kept",
			"1 2 3\n4 5\n",
			"test#0@1 [[1 2 3] [4 5]]\n",
		},
		{
			"empty",
			"\n# nothing\n\n",
			"",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			var got strings.Builder
			for _, rec := range parseAll(t, test.input) {
				printRecord(&got, rec)
			}
			if got.String() != test.want {
				t.Errorf("got:\n%s\nwant:\n%s", got.String(), test.want)
			}
		})
	}
}

func TestReaderResultBeforeScan(t *testing.T) {
	r := NewReader(strings.NewReader("1 2\n"), "test")
	if _, ok := r.Result().(*SyntaxError); !ok {
		t.Errorf("Result before Scan: got %v, want *SyntaxError", r.Result())
	}
	var zero Reader
	if zero.Scan() {
		t.Errorf("zero Reader scanned a record")
	}
}

func TestTableMatrix(t *testing.T) {
	recs := parseAll(t, "1 2\n3 4\n")
	tab := recs[0].(*Table)
	m := tab.Matrix()
	if !reflect.DeepEqual(m, gtest.Matrix{{1, 2}, {3, 4}}) {
		t.Errorf("got %v", m)
	}
	m[0][0] = 99
	if tab.Rows[0][0] != 1 {
		t.Errorf("Matrix shares storage with the table")
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("1 2\n3 4\n"), 0666); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("name: second\n5 6\n7 8\n"), 0666); err != nil {
		t.Fatal(err)
	}

	f := &Files{Paths: []string{a, b}}
	var names []string
	for f.Scan() {
		tab, ok := f.Result().(*Table)
		if !ok {
			t.Fatalf("unexpected record %v", f.Result())
		}
		names = append(names, tab.Name)
	}
	if err := f.Err(); err != nil {
		t.Fatal(err)
	}
	if want := []string{a + "#0", "second"}; !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}

	f = &Files{Paths: []string{filepath.Join(dir, "missing.txt")}}
	if f.Scan() {
		t.Errorf("scanned a record from a missing file")
	}
	if f.Err() == nil {
		t.Errorf("missing file: want error")
	}
}

func TestReadPValues(t *testing.T) {
	ps, err := ReadPValues(strings.NewReader("# p-values\n0.01, 0.02\n\n0.5\n1e-3\n"), "test")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0.01, 0.02, 0.5, 0.001}; !reflect.DeepEqual(ps, want) {
		t.Errorf("got %v, want %v", ps, want)
	}

	_, err = ReadPValues(strings.NewReader("0.1\nabc\n"), "test")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("got %v, want *SyntaxError", err)
	}
	if se.Line != 2 {
		t.Errorf("got line %d, want 2", se.Line)
	}
}
