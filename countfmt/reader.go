// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package countfmt reads observation matrices of counts from a simple
// line-oriented text format.
//
// Each non-blank line holds one row of a matrix: numbers separated by
// commas, spaces, or tabs. A blank line ends the current matrix. Lines
// beginning with "#" are comments. A line of the form
//
//	name: value
//
// names the next matrix; matrices without a name are called
// "file#N", counting from 0 within each file. Other "key: value"
// lines are accepted and ignored.
//
// For example, this file holds two 2×3 matrices:
//
//	# Category counts per group.
//	name: colors
//	10 20 30
//	30 20 10
//
//	name: shapes
//	5, 5, 5
//	4, 6, 5
package countfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sigtest/gtest"
)

// A Reader reads observation matrices in the count table format.
//
// Its API is modeled on bufio.Scanner. To construct a new Reader,
// either call NewReader, or call Reset on a zeroed Reader.
type Reader struct {
	s        *bufio.Scanner
	err      error
	fileName string
	line     int

	// n is the number of tables started in this file, for naming.
	n int
	// name is the name set for the next table, if any.
	name string
	// cur is the table being accumulated, or nil.
	cur *Table
	// skip is set after a syntax error until the end of the
	// broken table.
	skip bool

	rec Record
}

// A Record is a single record read by a Reader. It is either a
// *Table or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as the file name
	// and line number.
	Pos() (fileName string, line int)
}

// A Table is one observation matrix read from the input.
type Table struct {
	// Name is the table's name from a "name:" line, or
	// "file#N" if it had none.
	Name string

	// Rows are the counts, one slice per input line. Rows are not
	// checked for equal length; gtest reports ragged input.
	Rows [][]float64

	fileName string
	line     int
}

// Pos returns the file name and the line number of the table's first
// row.
func (t *Table) Pos() (fileName string, line int) {
	return t.fileName, t.line
}

// Matrix returns a copy of t's counts as a gtest.Matrix.
func (t *Table) Matrix() gtest.Matrix {
	return gtest.Matrix(t.Rows).Clone()
}

// A SyntaxError represents a syntax error on a particular line of a
// count table file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

var noRecord = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NewReader constructs a reader to parse count tables from r.
// fileName is used in table names and error messages.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	*r = Reader{
		s:        bufio.NewScanner(ior),
		fileName: fileName,
	}
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns false,
// in which case the caller should use the Err method to check for
// errors.
//
// A syntax error does not stop Scan. It is returned as a
// *SyntaxError record and the table it appears in is dropped.
func (r *Reader) Scan() bool {
	if r.err != nil || r.s == nil {
		return false
	}
	r.rec = nil

	for r.s.Scan() {
		r.line++
		line := strings.TrimSpace(r.s.Text())

		switch {
		case line == "":
			if t := r.finish(); t != nil {
				r.rec = t
				return true
			}
			r.skip = false

		case line[0] == '#':
			// Comment.

		default:
			if key, val, ok := parseKeyValueLine(line); ok {
				t := r.finish()
				r.skip = false
				if key == "name" {
					r.name = val
				}
				if t != nil {
					r.rec = t
					return true
				}
				continue
			}
			if r.skip {
				continue
			}
			row, err := parseRow(line)
			if err != nil {
				if r.cur == nil {
					// Use up the name and number of
					// the dropped table.
					r.start()
				}
				r.cur, r.skip = nil, true
				r.rec = &SyntaxError{r.fileName, r.line, err.Error()}
				return true
			}
			if r.cur == nil {
				r.cur = r.start()
			}
			r.cur.Rows = append(r.cur.Rows, row)
		}
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
		return false
	}
	// Flush the last table at EOF.
	if t := r.finish(); t != nil {
		r.rec = t
		return true
	}
	return false
}

// start begins a new table at the current line.
func (r *Reader) start() *Table {
	t := &Table{Name: r.name, fileName: r.fileName, line: r.line}
	if t.Name == "" {
		t.Name = fmt.Sprintf("%s#%d", r.fileName, r.n)
	}
	r.n++
	r.name = ""
	return t
}

// finish ends the current table and returns it, or nil if there is
// none.
func (r *Reader) finish() *Table {
	t := r.cur
	r.cur = nil
	return t
}

// Result returns the record that was just read by Scan. The returned
// record is not modified by later calls to Scan.
func (r *Reader) Result() Record {
	if r.rec == nil {
		return noRecord
	}
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// parseKeyValueLine attempts to parse line as a "key: val" pair. The
// key begins with a lower case letter and contains no spaces or upper
// case letters.
func parseKeyValueLine(line string) (key, val string, ok bool) {
	for i := 0; i < len(line); {
		c, n := utf8.DecodeRuneInString(line[i:])
		if i == 0 && !unicode.IsLower(c) {
			return "", "", false
		}
		if unicode.IsSpace(c) || unicode.IsUpper(c) {
			return "", "", false
		}
		if i > 0 && c == ':' {
			return line[:i], strings.TrimSpace(line[i+1:]), true
		}
		i += n
	}
	return "", "", false
}

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(c rune) bool {
		return c == ',' || unicode.IsSpace(c)
	})
}

// parseRow parses a row of numbers.
func parseRow(line string) ([]float64, error) {
	fields := splitFields(line)
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %q is not a number", i, f)
		}
		row[i] = v
	}
	return row, nil
}
