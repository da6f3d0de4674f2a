// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spline

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_spline01(tst *testing.T) {

	chk.PrintTitle("spline01: endpoint exactness on a single interval")

	p := []float64{8.0, 10.0}
	pEnd := 10.0
	basis := BuildBasis(p, pEnd)
	tau := []float64{5.0, 3.0}
	coeffs, deltaHat := ComputeTauSpline(basis, tau, 0.4, 0.1)

	if len(coeffs) != 1 {
		tst.Fatalf("expected 1 interval, got %v", len(coeffs))
	}

	s0 := math.Sqrt(pEnd - p[0])
	tau0, delta0 := Eval(coeffs[0], s0)
	if math.Abs(tau0-tau[0]) > 1e-9 {
		tst.Errorf("tau mismatch at p[0]: got %v want %v", tau0, tau[0])
	}
	if math.Abs(delta0-deltaHat[0]) > 1e-7 {
		tst.Errorf("delta mismatch at p[0]: got %v want %v", delta0, deltaHat[0])
	}

	s1 := math.Sqrt(pEnd - p[1])
	tau1, delta1 := Eval(coeffs[0], s1)
	if math.Abs(tau1-tau[1]) > 1e-9 {
		tst.Errorf("tau mismatch at p[1]: got %v want %v", tau1, tau[1])
	}
	if math.Abs(delta1-deltaHat[1]) > 1e-7 {
		tst.Errorf("delta mismatch at p[1]: got %v want %v", delta1, deltaHat[1])
	}
}

func Test_spline02(tst *testing.T) {

	chk.PrintTitle("spline02: multi-interval continuity of Δ at interior nodes")

	p := []float64{6.0, 7.5, 9.0, 10.0}
	pEnd := 10.0
	basis := BuildBasis(p, pEnd)
	tau := []float64{9.0, 6.5, 4.0, 2.0}
	coeffs, deltaHat := ComputeTauSpline(basis, tau, 1.2, 0.2)

	if len(coeffs) != 3 {
		tst.Fatalf("expected 3 intervals, got %v", len(coeffs))
	}
	for j := 1; j < len(p)-1; j++ {
		sRight := math.Sqrt(pEnd - p[j])
		_, dLeft := Eval(coeffs[j-1], sRight)
		_, dRight := Eval(coeffs[j], sRight)
		if math.Abs(dLeft-dRight) > 1e-6 {
			tst.Errorf("Δ discontinuous at node %v: left=%v right=%v", j, dLeft, dRight)
		}
		if math.Abs(dLeft-deltaHat[j]) > 1e-6 {
			tst.Errorf("Δ̂[%v]=%v does not match evaluated Δ=%v", j, deltaHat[j], dLeft)
		}
	}
}
