// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tauint implements the tau integrator: flat-Earth-transformed
// slowness integrals across a depth range and across a single layer, used
// for depth corrections and low-velocity-zone handling.
//
// Within one layer the slowness-depth law is assumed log-linear in the
// flattened coordinate, u(z) = pTop * exp((z-zTop)/b); the single-layer
// integral then has the closed form used by Integrator.Layer below.
package tauint

import (
	"math"

	"github.com/globalseis/travt/emodel"
	"github.com/globalseis/travt/travterr"
	"github.com/globalseis/travt/units"
)

// Integrator evaluates layer and range integrals against one wave-type
// Earth model.
type Integrator struct {
	Model *emodel.Model
}

// New returns an Integrator bound to m.
func New(m *emodel.Model) *Integrator {
	return &Integrator{Model: m}
}

// Layer computes the single-layer contribution τ_layer(p, p1,p2, z1,z2):
//
//	τ(p) = b·[(q1-q2) - p·(acos(p/p1) - acos(p/p2))]
//	x(p) = b·(acos(p/p1) - acos(p/p2))
//
// with q_i = sqrt(p_i²-p²) and b = (z1-z2)/(ln p1 - ln p2), the thin-layer
// limit (p1≈p2) reducing to a constant-velocity layer.
func (ti *Integrator) Layer(p, p1, z1, p2, z2 float64) (tau, x float64, err error) {
	q1sq := p1*p1 - p*p
	q2sq := p2*p2 - p*p
	if q1sq < -units.Eps || q2sq < -units.Eps {
		return 0, 0, travterr.New(travterr.TauIntegral, "ray parameter p=%v exceeds a layer endpoint slowness (p1=%v, p2=%v)", p, p1, p2)
	}
	q1 := math.Sqrt(math.Max(0, q1sq))
	q2 := math.Sqrt(math.Max(0, q2sq))

	if math.Abs(p1-p2) < units.Eps || math.Abs(math.Log(p1)-math.Log(p2)) < units.EpsMin {
		// thin-layer / constant-velocity limit
		pc := 0.5 * (p1 + p2)
		q := math.Sqrt(math.Max(0, pc*pc-p*p))
		dz := math.Abs(z1 - z2)
		if q < units.EpsMin {
			return 0, 0, nil
		}
		return dz * q, dz * p / q, nil
	}

	b := (z1 - z2) / (math.Log(p1) - math.Log(p2))

	acos1 := safeAcos(p / p1)
	acos2 := safeAcos(p / p2)

	tau = b * ((q1 - q2) - p*(acos1-acos2))
	x = b * (acos1 - acos2)
	return math.Abs(tau), math.Abs(x), nil
}

func safeAcos(r float64) float64 {
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return math.Acos(r)
}

// Range sums Layer contributions over model layers iLo..iHi (inclusive),
// capped at the end by (pEnd, zEnd) instead of the next model sample -- the
// source depth in the usual case, or an explicit turning-point interface
// when a CapPoint is supplied.
func (ti *Integrator) Range(p float64, iLo, iHi int, pEnd, zEnd float64, cap ...CapPoint) (tau, x float64, err error) {
	m := ti.Model
	n := len(m.P)
	if iHi >= n {
		iHi = n - 1
	}
	for i := iLo; i < iHi; i++ {
		dt, dx, e := ti.Layer(p, m.P[i], m.Z[i], m.P[i+1], m.Z[i+1])
		if e != nil {
			return tau, x, e
		}
		tau += dt
		x += dx
	}
	// final partial layer down to the capping interface (source depth, or
	// an explicit turning-point interface)
	capP, capZ := pEnd, zEnd
	if len(cap) > 0 {
		capP, capZ = cap[0].P, cap[0].Z
	}
	if iHi >= 0 && iHi < n {
		dt, dx, e := ti.Layer(p, m.P[iHi], m.Z[iHi], capP, capZ)
		if e != nil {
			return tau, x, e
		}
		tau += dt
		x += dx
	}
	return tau, x, nil
}

// CapPoint optionally replaces the source-depth cap of Range with an
// explicit turning-point interface.
type CapPoint struct {
	P, Z float64
}
