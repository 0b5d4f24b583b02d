// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdr

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestCorrect(t *testing.T) {
	check := func(ps []float64, alpha float64, want []bool) {
		t.Helper()
		got, err := Correct(ps, alpha)
		if err != nil {
			t.Errorf("for %v at %v: unexpected error %v", ps, alpha, err)
			return
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("for %v at %v: got %v, want %v", ps, alpha, got, want)
		}
	}
	T, F := true, false

	// The largest rank meets its critical value exactly, which
	// carries every smaller rank with it.
	check([]float64{0.01, 0.02, 0.03, 0.04, 0.05}, 0.05, []bool{T, T, T, T, T})
	// Same set, out of order.
	check([]float64{0.05, 0.03, 0.01, 0.04, 0.02}, 0.05, []bool{T, T, T, T, T})

	// Rank 2 misses its critical value (0.025), but rank 4 meets
	// its own, so the step-up declares all four significant.
	check([]float64{0.01, 0.03, 0.035, 0.04}, 0.05, []bool{T, T, T, T})

	check([]float64{0.001, 0.008, 0.039, 0.041, 0.042, 0.06, 0.074, 0.205, 0.212, 0.216}, 0.05,
		[]bool{T, T, F, F, F, F, F, F, F, F})

	// Nothing survives.
	check([]float64{0.2, 0.5, 0.9}, 0.05, []bool{F, F, F})

	// A single test is compared against alpha itself.
	check([]float64{0.05}, 0.05, []bool{T})
	check([]float64{0.0500001}, 0.05, []bool{F})

	// Boundary values of the p-value domain.
	check([]float64{0, 1}, 0.05, []bool{T, F})
	check([]float64{1, 1}, 0.5, []bool{F, F})
}

func TestCorrectEmpty(t *testing.T) {
	for _, alpha := range []float64{0.001, 0.05, 0.5, 0.999} {
		got, err := Correct(nil, alpha)
		if err != nil {
			t.Errorf("at %v: unexpected error %v", alpha, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("at %v: got %#v, want empty slice", alpha, got)
		}
	}
}

func TestCorrectTies(t *testing.T) {
	// Duplicates must get the same decision regardless of where
	// they appear.
	ps := []float64{0.02, 0.5, 0.02, 0.02, 0.9}
	got, err := Correct(ps, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, false, true, true, false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOrder(t *testing.T) {
	check := func(ps []float64, want []int) {
		t.Helper()
		if got := Order(ps); !reflect.DeepEqual(got, want) {
			t.Errorf("Order(%v) = %v, want %v", ps, got, want)
		}
	}
	check([]float64{}, []int{})
	check([]float64{0.3, 0.1, 0.2}, []int{1, 2, 0})
	check([]float64{0.02, 0.5, 0.02, 0.02, 0.9}, []int{0, 2, 3, 1, 4})
}

func TestCorrectInvalid(t *testing.T) {
	check := func(ps []float64, alpha float64) {
		t.Helper()
		got, err := Correct(ps, alpha)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("for %v at %v: got error %v, want ErrInvalidInput", ps, alpha, err)
		}
		if got != nil {
			t.Errorf("for %v at %v: got partial result %v", ps, alpha, got)
		}
	}
	check([]float64{0.01, 1.5}, 0.05)
	check([]float64{-0.01}, 0.05)
	check([]float64{math.NaN()}, 0.05)
	check([]float64{0.01}, 0)
	check([]float64{0.01}, 1)
	check(nil, -1)
}

func TestCorrectMonotone(t *testing.T) {
	// If every p-value in a is at most the corresponding one in
	// b, a can't have fewer discoveries than b.
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 500; iter++ {
		m := 1 + r.Intn(40)
		a, b := make([]float64, m), make([]float64, m)
		for i := range b {
			b[i] = math.Pow(r.Float64(), 3)
			a[i] = b[i] * r.Float64()
		}
		for _, alpha := range []float64{0.01, 0.05, 0.2} {
			sa, err := Correct(a, alpha)
			if err != nil {
				t.Fatal(err)
			}
			sb, err := Correct(b, alpha)
			if err != nil {
				t.Fatal(err)
			}
			if Count(sa) < Count(sb) {
				t.Fatalf("at %v: %v has %d discoveries, larger %v has %d", alpha, a, Count(sa), b, Count(sb))
			}
		}
	}
}

func TestCorrectRows(t *testing.T) {
	rows := [][]float64{
		{0.01, 0.02, 0.03, 0.04, 0.05},
		{},
		{0.2, 0.001},
	}
	got, err := CorrectRows(rows, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]bool{{true, true, true, true, true}, {}, {false, true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = CorrectRows([][]float64{{0.01}, {2}}, 0.05)
	if !errors.Is(err, ErrInvalidInput) || got != nil {
		t.Errorf("got %v, %v; want nil, ErrInvalidInput", got, err)
	}
}

func TestAdjust(t *testing.T) {
	check := func(ps, want []float64) {
		t.Helper()
		got, err := Adjust(ps)
		if err != nil {
			t.Errorf("for %v: unexpected error %v", ps, err)
			return
		}
		if len(got) != len(want) {
			t.Errorf("for %v: got %v, want %v", ps, got, want)
			return
		}
		for i := range got {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Errorf("for %v: got %v, want %v", ps, got, want)
				return
			}
		}
	}
	check(nil, []float64{})
	check([]float64{0.01, 0.04, 0.03, 0.005}, []float64{0.02, 0.04, 0.04, 0.02})
	check([]float64{0.01, 0.02, 0.03, 0.04, 0.05}, []float64{0.05, 0.05, 0.05, 0.05, 0.05})
	// Adjusted values are capped at 1.
	check([]float64{0.9, 0.8}, []float64{0.9, 0.9})
	check([]float64{1, 1, 1}, []float64{1, 1, 1})

	if _, err := Adjust([]float64{0.5, 1.01}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestAdjustAgreesWithCorrect(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for iter := 0; iter < 200; iter++ {
		m := 1 + r.Intn(30)
		ps := make([]float64, m)
		for i := range ps {
			ps[i] = math.Pow(r.Float64(), 4)
		}
		q, err := Adjust(ps)
		if err != nil {
			t.Fatal(err)
		}
		for _, alpha := range []float64{0.01, 0.05, 0.1} {
			sig, err := Correct(ps, alpha)
			if err != nil {
				t.Fatal(err)
			}
			for i := range ps {
				// Skip values within rounding of the
				// threshold.
				if math.Abs(q[i]-alpha) < 1e-12 {
					continue
				}
				if (q[i] <= alpha) != sig[i] {
					t.Fatalf("at %v: p=%v q=%v but significant=%v (all p %v)", alpha, ps[i], q[i], sig[i], ps)
				}
			}
		}
	}
}
