// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decim

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_decim01(tst *testing.T) {

	chk.PrintTitle("decim01: endpoints are always kept")

	p := []float64{10, 9, 8, 7, 6, 5}
	delta := []float64{0, 0.5, 1.0, 1.05, 1.1, 3.0}
	keep := FastDecimate(p, delta, 1.0)
	if keep[0] != 0 {
		tst.Errorf("expected first kept index 0, got %v", keep[0])
	}
	if keep[len(keep)-1] != len(p)-1 {
		tst.Errorf("expected last kept index %v, got %v", len(p)-1, keep[len(keep)-1])
	}
}

func Test_decim02(tst *testing.T) {

	chk.PrintTitle("decim02: spacing stays close to deltaMin")

	p := make([]float64, 20)
	delta := make([]float64, 20)
	for i := range p {
		p[i] = float64(20 - i)
		delta[i] = float64(i) * 0.3
	}
	keep := FastDecimate(p, delta, 1.0)
	for i := 1; i < len(keep)-1; i++ {
		d := delta[keep[i]] - delta[keep[i-1]]
		if d < 0.9 {
			tst.Errorf("spacing too small between kept samples: %v", d)
		}
	}
}
