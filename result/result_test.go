// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package result

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_result01(tst *testing.T) {

	chk.PrintTitle("result01: Finalize sorts and collapses close duplicates")

	c := New()
	c.AddPhase(Arrival{Phase: "P", TimeSec: 500.0, Observability: 1, CanUse: true})
	c.AddPhase(Arrival{Phase: "P", TimeSec: 100.001, Observability: 1, CanUse: true})
	c.AddPhase(Arrival{Phase: "P", TimeSec: 100.0, Observability: 1, CanUse: true})
	c.Finalize(false, true)

	if len(c.Arrivals) != 2 {
		tst.Fatalf("expected 2 arrivals after close-phase merge, got %v", len(c.Arrivals))
	}
	if c.Arrivals[0].TimeSec != 100.0 {
		tst.Errorf("expected ascending sort, got first time %v", c.Arrivals[0].TimeSec)
	}
}

func Test_result02(tst *testing.T) {

	chk.PrintTitle("result02: tectonic filter renames Pb/Sb to Pg/Sg outside a K context")

	c := New()
	c.AddPhase(Arrival{Phase: "Pb", TimeSec: 10, Observability: 1})
	c.AddPhase(Arrival{Phase: "PKPb", TimeSec: 20, Observability: 1})
	c.Finalize(true, true)

	if c.Arrivals[0].Phase != "Pg" {
		tst.Errorf("expected Pb renamed to Pg, got %v", c.Arrivals[0].Phase)
	}
	if c.Arrivals[1].Phase != "PKPb" {
		tst.Errorf("expected PKPb unchanged (K context), got %v", c.Arrivals[1].Phase)
	}
}

func Test_result03(tst *testing.T) {

	chk.PrintTitle("result03: Sn beyond 30 degrees is dropped")

	c := New()
	c.AddPhase(Arrival{Phase: "Sn", TimeSec: 10, DeltaDeg: 35, Observability: 1})
	c.AddPhase(Arrival{Phase: "P", TimeSec: 11, DeltaDeg: 35, Observability: 1})
	c.Finalize(false, true)

	if len(c.Arrivals) != 1 || c.Arrivals[0].Phase != "P" {
		tst.Errorf("expected Sn dropped, got %+v", c.Arrivals)
	}
}

func Test_result04(tst *testing.T) {

	chk.PrintTitle("result04: modifyCanUse clears usability for high spread")

	c := New()
	c.AddPhase(Arrival{Phase: "P", TimeSec: 10, Spread: 20, Observability: 1, CanUse: true})
	c.Finalize(false, true)

	if c.Arrivals[0].CanUse {
		tst.Errorf("expected CanUse cleared for spread >= default usable spread")
	}
}

func Test_result05(tst *testing.T) {

	chk.PrintTitle("result05: back-branch filter keeps the earliest of each phase")

	c := New()
	c.AddPhase(Arrival{Phase: "PP", TimeSec: 50, Observability: 1})
	c.AddPhase(Arrival{Phase: "PP", TimeSec: 40, Observability: 1})
	c.Finalize(false, false)

	if len(c.Arrivals) != 1 || c.Arrivals[0].TimeSec != 40 {
		tst.Errorf("expected only the earliest PP kept, got %+v", c.Arrivals)
	}
}
