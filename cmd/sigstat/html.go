// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"strconv"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Significance Test Results</title>
<style>
.sigstat { border-collapse: collapse; }
.sigstat th { border-bottom: 1px solid #666; padding: 0em 1em; }
.sigstat td { text-align: right; padding: 0em 1em; }
.sigstat td:nth-child(1) { text-align: left; }
.sigstat .significant td { font-weight: bold; }
</style>
</head>
<body>
<table class='sigstat'>
<tr><th>name{{if .Matrices}}<th>shape<th>G<th>df{{end}}<th>p<th>q
{{- range .Rows}}
<tr{{if .Significant}} class='significant'{{end}}><td>{{.Name}}{{if $.Matrices}}<td>{{.Shape}}<td>{{.G}}<td>{{.DF}}{{end}}<td>{{.P}}<td>{{.Q}}
{{- end}}
</table>
<p>{{.Count}} of {{len .Rows}} significant at FDR α={{.Alpha}}</p>
</body>
</html>
`))

type htmlRow struct {
	Name, Shape, G, DF, P, Q string
	Significant              bool
}

// formatHTML writes results as an HTML page.
func formatHTML(w io.Writer, results []*result, alpha float64, matrices bool) error {
	data := struct {
		Matrices bool
		Alpha    float64
		Count    int
		Rows     []htmlRow
	}{Matrices: matrices, Alpha: alpha, Count: countSignificant(results)}
	for _, r := range results {
		row := htmlRow{Name: r.Name, P: formatP(r.P), Q: formatP(r.Q), Significant: r.Significant}
		if matrices {
			row.Shape, row.G, row.DF = formatShape(r), formatG(r.G), strconv.Itoa(r.DF)
		}
		data.Rows = append(data.Rows, row)
	}
	return htmlTemplate.Execute(w, data)
}
