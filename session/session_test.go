// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/units"
)

// fakeLoader is a minimal in-memory refdata.Loader fixture: a two-layer P/S
// model (samples at the surface, 100 km and 2885 km) with a single "P"
// up-going branch and a single "PcP" surface-reflection branch.
type fakeLoader struct{}

func flatZ(depthKm float64) float64 { return units.FlatDepth(depthKm) }

func (fakeLoader) Model(wave units.WaveType) (*refdata.Model, error) {
	v := 8.0
	if wave == units.S {
		v = 4.5
	}
	pSurf := units.EarthRadiusKm / v
	pDeep := pSurf * 0.7
	return &refdata.Model{
		Wave: wave,
		Samples: []refdata.ModelSample{
			{Z: flatZ(0.011), P: pSurf, UpIndex: 0},
			{Z: flatZ(100), P: pDeep, UpIndex: 1},
			{Z: flatZ(2885), P: pDeep * 0.5, UpIndex: -1},
		},
	}, nil
}

func (fakeLoader) UpGoing(wave units.WaveType) (*refdata.UpGoing, error) {
	v := 8.0
	if wave == units.S {
		v = 4.5
	}
	pSurf := units.EarthRadiusKm / v
	p := []float64{pSurf, pSurf * 0.9, 0}
	return &refdata.UpGoing{
		Wave: wave,
		P:    p,
		TauUp: [][]float64{
			{0, 0.05, 0.4},
			{0.02, 0.06, 0.41},
		},
		XUp: [][]float64{
			{0, 0.1, 1.0},
			{0.01, 0.11, 1.0},
		},
		BranchEndSlowness: []float64{pSurf, 0},
	}, nil
}

func (fakeLoader) Branches() ([]*refdata.Branch, error) {
	v := 8.0
	pSurf := units.EarthRadiusKm / v
	p := []float64{pSurf, pSurf * 0.9, 0}
	tau := []float64{0, 0.05, 0.4}
	return []*refdata.Branch{
		{
			Phase: "P", Segment: "P", Legs: [3]units.WaveType{units.P, units.P, units.P},
			NumLegs: 1, Sign: -1, Count: 0,
			PMin: 0, PMax: pSurf,
			DeltaMin: 0, DeltaMax: 1.0,
			P: p, Tau: tau,
		},
		{
			Phase: "PcP", Segment: "PcP", Legs: [3]units.WaveType{units.P, units.P, units.P},
			NumLegs: 1, Sign: 1, Count: 1,
			PMin: 0, PMax: pSurf,
			DeltaMin: 0, DeltaMax: 1.0,
			P: p, Tau: []float64{0.2, 0.25, 0.6},
		},
	}, nil
}

func (fakeLoader) PhaseGroups() (*refdata.PhaseGroups, error) {
	return &refdata.PhaseGroups{
		Regional:     map[string]bool{},
		Depth:        map[string]bool{},
		Downweight:   map[string]bool{},
		CanUse:       map[string]bool{"P": true, "PcP": true},
		Useless:      map[string]bool{},
		Primary:      map[string]string{"P": "P", "PcP": "P"},
		Auxiliary:    map[string]string{},
		GroupMembers: map[string][]string{"P": {"P", "PcP"}},
		AuxCompanion: map[string]string{},
		PriCompanion: map[string]string{},
	}, nil
}

func (fakeLoader) Stats(phase string) (*refdata.PhaseStats, error) {
	return &refdata.PhaseStats{
		Phase: phase, MinDeg: 0, MaxDeg: 180,
		Points: []refdata.StatBreakPoint{
			{DegreesDelta: 0, Bias: 0, Spread: 1, Observ: 1},
			{DegreesDelta: 180, Bias: 0, Spread: 1, Observ: 1},
		},
	}, nil
}

func (fakeLoader) Ellipticity(phase string) (*refdata.EllipticityTable, error) {
	return nil, chk.Err("no ellipticity table for %s", phase)
}

func (fakeLoader) Topography() (*refdata.Topography, error) {
	return nil, chk.Err("no topography table")
}

func Test_session01(tst *testing.T) {

	chk.PrintTitle("session01: SetSession is idempotent on identical depth")

	s, err := New(fakeLoader{})
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := s.SetSession(10, nil, nil, nil, false, false, false); err != nil {
		tst.Fatalf("first SetSession failed: %v", err)
	}
	zsFirst := s.zs
	if err := s.SetSession(10, nil, nil, nil, false, false, false); err != nil {
		tst.Fatalf("second SetSession failed: %v", err)
	}
	if s.zs != zsFirst {
		tst.Errorf("expected zs unchanged on identical-depth SetSession, got %v vs %v", s.zs, zsFirst)
	}
}

func Test_session02(tst *testing.T) {

	chk.PrintTitle("session02: SetSession rejects depth outside [0, MAX_DEPTH]")

	s, err := New(fakeLoader{})
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := s.SetSession(-1, nil, nil, nil, false, false, false); err == nil {
		tst.Errorf("expected BadDepth for negative depth")
	}
	if err := s.SetSession(units.MaxDepthKm+1, nil, nil, nil, false, false, false); err == nil {
		tst.Errorf("expected BadDepth for depth beyond MAX_DEPTH")
	}
}

func Test_session03(tst *testing.T) {

	chk.PrintTitle("session03: GetTravelTime before SetSession fails")

	s, err := New(fakeLoader{})
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if _, err := s.GetTravelTime(0, 30); err == nil {
		tst.Errorf("expected an error calling GetTravelTime before SetSession")
	}
}

func Test_session04(tst *testing.T) {

	chk.PrintTitle("session04: GetTravelTime at a surface source returns arrivals sorted by time")

	s, err := New(fakeLoader{})
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := s.SetSession(0, nil, nil, nil, true, true, false); err != nil {
		tst.Fatalf("SetSession failed: %v", err)
	}
	c, err := s.GetTravelTime(0, 0.5)
	if err != nil {
		tst.Fatalf("GetTravelTime failed: %v", err)
	}
	for i := 1; i < len(c.Arrivals); i++ {
		if c.Arrivals[i].TimeSec < c.Arrivals[i-1].TimeSec {
			tst.Errorf("expected ascending travel times, got %+v", c.Arrivals)
		}
	}
}

func Test_session05(tst *testing.T) {

	chk.PrintTitle("session05: phase filter restricts arrivals to the requested group")

	s, err := New(fakeLoader{})
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := s.SetSession(0, nil, nil, []string{"nonexistent"}, false, true, false); err != nil {
		tst.Fatalf("SetSession failed: %v", err)
	}
	c, err := s.GetTravelTime(0, 0.5)
	if err != nil {
		tst.Fatalf("GetTravelTime failed: %v", err)
	}
	if len(c.Arrivals) != 0 {
		tst.Errorf("expected no arrivals for an unmatched phase filter, got %+v", c.Arrivals)
	}
}

func Test_session06(tst *testing.T) {

	chk.PrintTitle("session06: invalid distance with no station location returns no arrivals, no error")

	s, err := New(fakeLoader{})
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := s.SetSession(10, nil, nil, nil, false, false, false); err != nil {
		tst.Fatalf("SetSession failed: %v", err)
	}
	c, err := s.GetTravelTime(0, math.NaN())
	if err != nil {
		tst.Fatalf("expected graceful degrade, got error: %v", err)
	}
	if len(c.Arrivals) != 0 {
		tst.Errorf("expected zero arrivals, got %+v", c.Arrivals)
	}
}
