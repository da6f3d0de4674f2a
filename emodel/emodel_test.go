// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emodel

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/units"
)

func sampleModel() *refdata.Model {
	return &refdata.Model{
		Wave: units.P,
		Samples: []refdata.ModelSample{
			{Z: 0.0, P: 10.0, UpIndex: 0},
			{Z: -0.1, P: 9.0, UpIndex: 1},
			{Z: -0.2, P: 8.0, UpIndex: 2},
			{Z: -0.3, P: 7.5, UpIndex: 3},
		},
	}
}

func Test_emodel01(tst *testing.T) {

	chk.PrintTitle("emodel01: exact hits")

	m := New(sampleModel())
	hit, err := m.FindSlowness(-0.1)
	if err != nil {
		tst.Errorf("FindSlowness failed: %v", err)
		return
	}
	if hit.P != 9.0 || !hit.OnGrid {
		tst.Errorf("expected exact hit p=9.0, got %+v", hit)
	}
}

func Test_emodel02(tst *testing.T) {

	chk.PrintTitle("emodel02: interpolation between samples")

	m := New(sampleModel())
	hit, err := m.FindSlowness(-0.15)
	if err != nil {
		tst.Errorf("FindSlowness failed: %v", err)
		return
	}
	if hit.OnGrid {
		tst.Errorf("expected an interpolated hit, got on-grid")
	}
	if hit.P >= 9.0 || hit.P <= 8.0 {
		tst.Errorf("interpolated p=%v out of bracket (8,9)", hit.P)
	}
}

func Test_emodel03(tst *testing.T) {

	chk.PrintTitle("emodel03: depth out of range")

	m := New(sampleModel())
	_, err := m.FindSlowness(-1.0)
	if err == nil {
		tst.Errorf("expected DepthOutOfRange error")
	}
}

func Test_emodel04(tst *testing.T) {

	chk.PrintTitle("emodel04: low-velocity zone -> max slowness is the lid")

	ref := &refdata.Model{
		Wave: units.P,
		Samples: []refdata.ModelSample{
			{Z: 0.0, P: 10.0},
			{Z: -0.1, P: 9.0}, // LVZ lid: slowness decreases to here...
			{Z: -0.2, P: 9.5}, // ...then increases again (LVZ)
			{Z: -0.3, P: 8.0},
		},
	}
	m := New(ref)
	hit, err := m.FindSlowness(-0.2)
	if err != nil {
		tst.Errorf("FindSlowness failed: %v", err)
		return
	}
	pMax := m.FindMaxSlowness(hit)
	if pMax != 9.0 {
		tst.Errorf("expected pMax=9.0 (LVZ lid), got %v", pMax)
	}
}

func Test_emodel05(tst *testing.T) {

	chk.PrintTitle("emodel05: find_depth round trips find_slowness")

	m := New(sampleModel())
	z, err := m.FindDepth(8.5, true)
	if err != nil {
		tst.Errorf("FindDepth failed: %v", err)
		return
	}
	hit, err := m.FindSlowness(z)
	if err != nil {
		tst.Errorf("FindSlowness failed: %v", err)
		return
	}
	if hit.P < 8.49 || hit.P > 8.51 {
		tst.Errorf("round trip mismatch: got p=%v, want ~8.5", hit.P)
	}
}
