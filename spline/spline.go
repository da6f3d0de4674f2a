// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package spline implements the spline core: the tau(p) interpolant
//
//	τ̂(p) = a0 + a1·Δp + a2·Δp² + a3·Δp^(3/2),   Δp = pEnd - p
//
// built per branch sub-interval, where pEnd is the branch's maximum p. The
// √Δp term captures the square-root tau singularity near a caustic.
package spline

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/globalseis/travt/units"
)

// Basis holds, per interval [p_j, p_j+1], the 4x4 matrix that maps
// (tau_j, tau_j+1, Δ_j, Δ_j+1) to the interval's (a0,a1,a2,a3), precomputed
// once the p-grid and branch pEnd are known.
type Basis struct {
	P    []float64 // p-grid, N samples
	PEnd float64
	inv  [][][4]float64 // inv[k] is the 4x4 inverse for interval k, row-major
}

// BuildBasis precomputes the endpoint-derivative basis for p-grid p and
// branch maximum pEnd.
func BuildBasis(p []float64, pEnd float64) *Basis {
	n := len(p)
	b := &Basis{P: append([]float64{}, p...), PEnd: pEnd, inv: make([][][4]float64, maxInt(n-1, 0))}
	for k := 0; k < n-1; k++ {
		s1 := math.Sqrt(math.Max(0, pEnd-p[k]))
		s2 := math.Sqrt(math.Max(0, pEnd-p[k+1]))
		b.inv[k] = invertIntervalMatrix(s1, s2)
	}
	return b
}

// invertIntervalMatrix returns the inverse of the 4x4 system
//
//	a0 + a1*s1² + a2*s1⁴ + a3*s1³ = T1
//	a0 + a1*s2² + a2*s2⁴ + a3*s2³ = T2
//	     a1·1   + a2·2s1² + a3·1.5s1 = D1
//	     a1·1   + a2·2s2² + a3·1.5s2 = D2
//
// as a row-major 4x4 coefficient table, so that
// a_i = sum_j inv[i][j] * (T1,T2,D1,D2)[j].
func invertIntervalMatrix(s1, s2 float64) [][4]float64 {
	m := la.MatAlloc(4, 4)
	m[0] = []float64{1, s1 * s1, s1 * s1 * s1 * s1, s1 * s1 * s1}
	m[1] = []float64{1, s2 * s2, s2 * s2 * s2 * s2, s2 * s2 * s2}
	m[2] = []float64{0, 1, 2 * s1 * s1, 1.5 * s1}
	m[3] = []float64{0, 1, 2 * s2 * s2, 1.5 * s2}
	inv := la.MatAlloc(4, 4)
	if err := la.MatInvG(inv, m, 1e-10); err != nil {
		// a degenerate interval (s1 == s2, as from repeated p samples)
		// falls back to the identity when MatInvG reports a failure.
		for i := range inv {
			inv[i][i] = 1
		}
	}
	out := make([][4]float64, 4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = inv[i][j]
		}
	}
	return out
}

// Coeffs is one interval's (a0,a1,a2,a3).
type Coeffs [4]float64

// ComputeTauSpline solves for the interior distances Δ̂ by enforcing
// continuity of dΔ/dp across adjoining intervals, given tau at every
// sample and the distances at the two branch endpoints only. Returns the
// per-interval coefficients and the distance at every sample.
func ComputeTauSpline(basis *Basis, tau []float64, deltaFirst, deltaLast float64) (coeffs []Coeffs, deltaHat []float64) {
	n := len(tau)
	deltaHat = make([]float64, n)
	deltaHat[0] = deltaFirst
	deltaHat[n-1] = deltaLast

	if n > 2 {
		solveInteriorDeltas(basis, tau, deltaHat)
	}

	coeffs = make([]Coeffs, n-1)
	for k := 0; k < n-1; k++ {
		inv := basis.inv[k]
		rhs := [4]float64{tau[k], tau[k+1], deltaHat[k], deltaHat[k+1]}
		var a Coeffs
		for i := 0; i < 4; i++ {
			var sum float64
			for j := 0; j < 4; j++ {
				sum += inv[i][j] * rhs[j]
			}
			a[i] = sum
		}
		coeffs[k] = a
	}
	return
}

// curvatureCoeffs returns (cT1,cT2,cD1,cD2) such that dΔ/dp at the interval
// point s = sqrt(pEnd - p) equals cT1*T1+cT2*T2+cD1*D1+cD2*D2, using
// dΔ/dp = -2a2 - 0.75a3/s.
func curvatureCoeffs(inv [][4]float64, s float64) (c [4]float64) {
	if s < units.EpsMin {
		s = units.EpsMin
	}
	for j := 0; j < 4; j++ {
		c[j] = -2*inv[2][j] - 0.75*inv[3][j]/s
	}
	return
}

// solveInteriorDeltas assembles and solves the tridiagonal continuity
// system for the interior Δ̂ values via the Thomas algorithm: a direct
// elimination is the standard, simplest approach for a genuinely
// tridiagonal system of this size and is preferred here over a general
// banded solver (see DESIGN.md).
func solveInteriorDeltas(basis *Basis, tau, deltaHat []float64) {
	n := len(tau)
	m := n - 2 // number of interior unknowns
	if m <= 0 {
		return
	}
	sub := make([]float64, m)
	diag := make([]float64, m)
	sup := make([]float64, m)
	rhs := make([]float64, m)

	for row := 0; row < m; row++ {
		j := row + 1 // node index in [1, n-2]
		sLeft := math.Sqrt(math.Max(0, basis.PEnd-basis.P[j]))

		left := basis.inv[j-1]  // interval (j-1, j)
		right := basis.inv[j]   // interval (j, j+1)

		cLeft := curvatureCoeffs(left, sLeft)   // at right endpoint of left interval (index 1 -> s2=sLeft)
		cRight := curvatureCoeffs(right, sLeft) // at left endpoint of right interval (index 0 -> s1=sLeft)

		// cLeft combines (T_{j-1}, T_j, D_{j-1}, D_j); cRight combines
		// (T_j, T_{j+1}, D_j, D_{j+1}). Continuity: cLeft == cRight.
		// Move known T terms and known boundary D terms to the RHS,
		// leaving a tridiagonal system in the interior D's.
		constRHS := cRight[0]*tau[j] + cRight[1]*tau[j+1] - cLeft[0]*tau[j-1] - cLeft[1]*tau[j]

		// D_{j-1} coefficient (only present if j-1 is interior, i.e. row>0)
		if row > 0 {
			sub[row] = cLeft[2]
		} else {
			constRHS -= cLeft[2] * deltaHat[0]
		}
		diag[row] = cLeft[3] - cRight[2]
		if row < m-1 {
			sup[row] = -cRight[3]
		} else {
			constRHS += cRight[3] * deltaHat[n-1]
		}
		rhs[row] = constRHS
	}

	thomas(sub, diag, sup, rhs)
	for row := 0; row < m; row++ {
		deltaHat[row+1] = rhs[row]
	}
}

// thomas solves a tridiagonal system in place (rhs becomes the solution).
func thomas(sub, diag, sup, rhs []float64) {
	n := len(diag)
	cp := make([]float64, n)
	dp := make([]float64, n)
	if n == 0 {
		return
	}
	d0 := diag[0]
	if math.Abs(d0) < units.EpsMin {
		d0 = units.EpsMin
	}
	cp[0] = sup[0] / d0
	dp[0] = rhs[0] / d0
	for i := 1; i < n; i++ {
		m := diag[i] - sub[i]*cp[i-1]
		if math.Abs(m) < units.EpsMin {
			m = units.EpsMin
		}
		if i < n-1 {
			cp[i] = sup[i] / m
		}
		dp[i] = (rhs[i] - sub[i]*dp[i-1]) / m
	}
	rhs[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		rhs[i] = dp[i] - cp[i]*rhs[i+1]
	}
}

// Eval evaluates τ̂ and Δ(p) = -dτ̂/dp at normalized p within interval k,
// given p's position via s = sqrt(pEnd - p).
func Eval(a Coeffs, s float64) (tau, delta float64) {
	dp := s * s
	tau = a[0] + dp*(a[1]+dp*a[2]+s*a[3])
	delta = a[1] + 2*dp*a[2] + 1.5*s*a[3]
	return
}

// D2TdDelta2 returns d²T/dΔ² = -(2a2 + 0.75a3/max(|s|,ε)) / tNorm.
func D2TdDelta2(a Coeffs, s, tNorm float64) float64 {
	if math.Abs(s) < units.Eps {
		s = units.Eps
	}
	return -(2*a[2] + 0.75*a[3]/s) / tNorm
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
