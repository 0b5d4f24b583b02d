// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bhplot draws Benjamini-Hochberg step-up charts: sorted
// p-values against their rank, with the critical line k/m·α.
// Hypotheses declared significant are drawn in a separate color.
package bhplot

import (
	"errors"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"golang.org/x/sigtest/fdr"
)

// A Chart configures how a step-up chart is drawn. The zero Chart
// draws a 16×10 cm PNG at 96 DPI.
type Chart struct {
	Title         string
	Width, Height vg.Length
	DPI           int
}

var (
	sigColor  = color.RGBA{R: 0xc0, A: 0xff}
	restColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	lineColor = color.RGBA{B: 0xc0, A: 0xff}
)

// Points splits pvalues into chart series. Each point's X is the rank
// of the p-value (from 1) and Y is the p-value. sig holds the points
// declared significant at level alpha, rest holds the others, and
// crit holds the two ends of the critical line.
func Points(pvalues []float64, alpha float64) (sig, rest, crit plotter.XYs, err error) {
	decisions, err := fdr.Correct(pvalues, alpha)
	if err != nil {
		return nil, nil, nil, err
	}
	m := len(pvalues)
	if m == 0 {
		return nil, nil, nil, errors.New("no p-values to plot")
	}

	order := fdr.Order(pvalues)
	for k, i := range order {
		pt := plotter.XY{X: float64(k + 1), Y: pvalues[i]}
		if decisions[i] {
			sig = append(sig, pt)
		} else {
			rest = append(rest, pt)
		}
	}
	crit = plotter.XYs{{X: 0, Y: 0}, {X: float64(m), Y: alpha}}
	return sig, rest, crit, nil
}

// Render draws the step-up chart for pvalues at level alpha and
// writes it to w as a PNG.
func (c *Chart) Render(w io.Writer, pvalues []float64, alpha float64) error {
	sig, rest, crit, err := Points(pvalues, alpha)
	if err != nil {
		return err
	}

	pl := plot.New()
	pl.Title.Text = c.Title
	pl.X.Label.Text = "rank"
	pl.Y.Label.Text = "p-value"
	pl.X.Min = 0
	pl.Y.Min = 0

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	line, err := plotter.NewLine(crit)
	if err != nil {
		return err
	}
	line.LineStyle.Color = lineColor
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	pl.Add(line)
	pl.Legend.Add("k/m·α", line)

	for _, series := range []struct {
		pts   plotter.XYs
		clr   color.Color
		label string
	}{
		{sig, sigColor, "significant"},
		{rest, restColor, "not significant"},
	} {
		if len(series.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(series.pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = series.clr
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		pl.Add(sc)
		pl.Legend.Add(series.label, sc)
	}
	pl.Legend.Top = true
	pl.Legend.Left = true

	width, height, dpi := c.Width, c.Height, c.DPI
	if width == 0 {
		width = 16 * vg.Centimeter
	}
	if height == 0 {
		height = 10 * vg.Centimeter
	}
	if dpi == 0 {
		dpi = 96
	}
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	pl.Draw(draw.New(can))
	_, err = can.WriteTo(w)
	return err
}
