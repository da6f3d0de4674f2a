// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tauint

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/globalseis/travt/emodel"
	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/units"
)

func Test_tauint01(tst *testing.T) {

	chk.PrintTitle("tauint01: vertical ray (p=0) tau equals layer thickness integral")

	m := emodel.New(&refdata.Model{Wave: units.P, Samples: []refdata.ModelSample{
		{Z: 0.0, P: 10.0},
		{Z: -0.1, P: 9.0},
	}})
	ti := New(m)
	tau, x, err := ti.Layer(0.0, 10.0, 0.0, 9.0, -0.1)
	if err != nil {
		tst.Errorf("Layer failed: %v", err)
		return
	}
	if x > 1e-9 {
		tst.Errorf("expected x=0 for a vertical ray, got %v", x)
	}
	if tau <= 0 {
		tst.Errorf("expected tau>0, got %v", tau)
	}
}

func Test_tauint02(tst *testing.T) {

	chk.PrintTitle("tauint02: thin layer (p1≈p2) matches constant-velocity limit")

	ti := New(emodel.New(&refdata.Model{Wave: units.P, Samples: []refdata.ModelSample{
		{Z: 0.0, P: 10.0},
		{Z: -0.05, P: 10.0 - 1e-12},
	}}))
	p := 5.0
	tau, x, err := ti.Layer(p, 10.0, 0.0, 10.0-1e-12, -0.05)
	if err != nil {
		tst.Errorf("Layer failed: %v", err)
		return
	}
	q := math.Sqrt(10.0*10.0 - p*p)
	wantTau := 0.05 * q
	wantX := 0.05 * p / q
	if math.Abs(tau-wantTau) > 1e-6 {
		tst.Errorf("tau mismatch: got %v want %v", tau, wantTau)
	}
	if math.Abs(x-wantX) > 1e-6 {
		tst.Errorf("x mismatch: got %v want %v", x, wantX)
	}
}

func Test_tauint03(tst *testing.T) {

	chk.PrintTitle("tauint03: p exceeding an endpoint slowness fails with TauIntegral")

	ti := New(emodel.New(&refdata.Model{Wave: units.P, Samples: []refdata.ModelSample{
		{Z: 0.0, P: 10.0},
		{Z: -0.1, P: 9.0},
	}}))
	_, _, err := ti.Layer(9.5, 9.0, -0.1, 8.0, -0.2)
	if err == nil {
		tst.Errorf("expected a TauIntegral error")
	}
}

func Test_tauint04(tst *testing.T) {

	chk.PrintTitle("tauint04: Range sums layers and caps at the source depth")

	m := emodel.New(&refdata.Model{Wave: units.P, Samples: []refdata.ModelSample{
		{Z: 0.0, P: 10.0},
		{Z: -0.1, P: 9.0},
		{Z: -0.2, P: 8.0},
	}})
	ti := New(m)
	tau, x, err := ti.Range(0.0, 0, 1, 8.5, -0.15)
	if err != nil {
		tst.Errorf("Range failed: %v", err)
		return
	}
	if tau <= 0 || x > 1e-9 {
		tst.Errorf("unexpected Range result tau=%v x=%v", tau, x)
	}
}
