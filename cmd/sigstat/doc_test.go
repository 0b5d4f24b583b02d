// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/token"
	"os"
	"regexp"
	"strings"
	"testing"

	"golang.org/x/sigtest/internal/diff"
)

// Test that the examples in the command documentation do what they
// say.
func TestDoc(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "main.go", nil, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	p, err := doc.NewFromFiles(fset, []*ast.File{f}, "p")
	if err != nil {
		t.Fatal(err)
	}
	tests := parseDocTests(p.Doc)
	if len(tests) == 0 {
		t.Fatal("failed to parse doc tests: found 0 tests")
	}

	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")
	for _, test := range tests {
		var got, gotErr bytes.Buffer
		t.Logf("sigstat %s", strings.Join(test.args, " "))
		if err := sigstat(&got, &gotErr, test.args); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if gotErr.Len() != 0 {
			t.Errorf("unexpected stderr output:\n%s", gotErr.String())
			continue
		}
		if d := diff.Diff([]byte(test.want), got.Bytes()); d != "" {
			t.Errorf("sigstat %s:\n%s", strings.Join(test.args, " "), d)
		}
	}
}

type docTest struct {
	args []string
	want string
}

var docTestRe = regexp.MustCompile(`(?m)^[ \t]+\$ sigstat (.*)\n((?:\t.*\n|\n)+)`)

func parseDocTests(doc string) []*docTest {
	var tests []*docTest
	for _, m := range docTestRe.FindAllStringSubmatch(doc, -1) {
		want := strings.TrimRight(m[2], "\n") + "\n"
		// Strip the indentation.
		want = strings.Replace(want[1:], "\n\t", "\n", -1)
		tests = append(tests, &docTest{
			args: strings.Fields(m[1]),
			want: want,
		})
	}
	return tests
}
