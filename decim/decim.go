// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package decim implements the decimator: selecting a subset of
// ray-parameter samples yielding a near-uniform distance step, used to
// control the up-going branch size for numerical stability of the spline.
package decim

import "math"

// FastDecimate greedily selects indices into p/delta so that the spacing
// between consecutive kept distances stays approximately deltaMin. The
// first and last samples are always kept.
func FastDecimate(p, delta []float64, deltaMin float64) []int {
	n := len(p)
	if n == 0 {
		return nil
	}
	if n <= 2 || deltaMin <= 0 {
		keep := make([]int, n)
		for i := range keep {
			keep[i] = i
		}
		return keep
	}
	keep := make([]int, 0, n)
	keep = append(keep, 0)
	last := 0
	for i := 1; i < n-1; i++ {
		if math.Abs(delta[i]-delta[last]) >= deltaMin {
			keep = append(keep, i)
			last = i
		}
	}
	if keep[len(keep)-1] != n-1 {
		keep = append(keep, n-1)
	}
	return keep
}

// Apply builds the decimated p/tau/delta slices from keep indices.
func Apply(keep []int, p, tau, delta []float64) (pOut, tauOut, deltaOut []float64) {
	pOut = make([]float64, len(keep))
	tauOut = make([]float64, len(keep))
	deltaOut = make([]float64, len(keep))
	for j, i := range keep {
		pOut[j] = p[i]
		tauOut[j] = tau[i]
		if delta != nil {
			deltaOut[j] = delta[i]
		}
	}
	return
}
