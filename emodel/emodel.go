// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package emodel implements the Earth model: the 1-D slowness-vs-
// flattened-depth table for one wave type, with the depth/slowness lookups
// the rest of the engine depends on.
package emodel

import (
	"math"

	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/travterr"
	"github.com/globalseis/travt/units"
)

// Model holds the immutable slowness-depth table for one wave type.
type Model struct {
	Wave units.WaveType
	Z    []float64 // normalized flattened depth, strictly decreasing
	P    []float64 // normalized slowness, non-increasing
}

// New builds a Model from reference data.
func New(ref *refdata.Model) *Model {
	m := &Model{Wave: ref.Wave, Z: make([]float64, len(ref.Samples)), P: make([]float64, len(ref.Samples))}
	for i, s := range ref.Samples {
		m.Z[i] = s.Z
		m.P[i] = s.P
	}
	return m
}

// SlownessHit is the explicit result of FindSlowness.
type SlownessHit struct {
	Index  int
	P      float64
	Z      float64
	OnGrid bool
}

// FindSlowness locates the slowness at normalized flattened depth z,
// interpolating logarithmically on z and linearly on p.
func (m *Model) FindSlowness(z float64) (SlownessHit, error) {
	n := len(m.Z)
	if n == 0 || z < m.Z[n-1]-units.Eps {
		return SlownessHit{}, travterr.New(travterr.DepthOutOfRange, "depth z=%v is below the deepest sample of the %v model", z, m.Wave)
	}
	// find smallest i with Z[i] <= z
	i := 0
	for i < n && m.Z[i] > z+units.Eps {
		i++
	}
	if i >= n {
		i = n - 1
	}
	if units.EqualEps(m.Z[i], z) {
		return SlownessHit{Index: i, P: m.P[i], Z: z, OnGrid: true}, nil
	}
	if i == 0 {
		// z is above the shallowest sample but not an exact hit; clamp to
		// the surface sample.
		return SlownessHit{Index: 0, P: m.P[0], Z: z, OnGrid: false}, nil
	}
	p := logInterp(z, m.Z[i-1], m.Z[i], m.P[i-1], m.P[i])
	return SlownessHit{Index: i, P: p, Z: z, OnGrid: false}, nil
}

// FindDepth locates the normalized flattened depth at slowness p. When
// first is true it returns the shallowest matching depth (forward scan for
// the first index with P[i] <= p); otherwise the deepest (backward scan for
// the first index, from the bottom, with P[i] >= p). The two scans diverge
// inside a low-velocity zone, where p is not monotone in depth.
func (m *Model) FindDepth(p float64, first bool) (float64, error) {
	n := len(m.P)
	if n == 0 {
		return 0, travterr.New(travterr.DepthOutOfRange, "empty %v model", m.Wave)
	}
	if first {
		i := 0
		for i < n && m.P[i] > p+units.Eps {
			i++
		}
		if i >= n {
			return 0, travterr.New(travterr.DepthOutOfRange, "slowness p=%v is outside the %v model", p, m.Wave)
		}
		if units.EqualEps(m.P[i], p) || i == 0 {
			return m.Z[i], nil
		}
		return logInterpInverse(p, m.Z[i-1], m.Z[i], m.P[i-1], m.P[i]), nil
	}
	i := n - 1
	for i >= 0 && m.P[i] < p-units.Eps {
		i--
	}
	if i < 0 {
		return 0, travterr.New(travterr.DepthOutOfRange, "slowness p=%v is outside the %v model", p, m.Wave)
	}
	if units.EqualEps(m.P[i], p) || i == n-1 {
		return m.Z[i], nil
	}
	return logInterpInverse(p, m.Z[i], m.Z[i+1], m.P[i], m.P[i+1]), nil
}

// FindMaxSlowness returns the ceiling on ray parameters that can reach the
// source: the minimum slowness between the surface and the source sample
// located by a prior FindSlowness call (the lid of any intervening LVZ, or
// the source slowness itself if there is none).
func (m *Model) FindMaxSlowness(hit SlownessHit) float64 {
	pMax := hit.P
	for i := 0; i <= hit.Index && i < len(m.P); i++ {
		if m.P[i] < pMax {
			pMax = m.P[i]
		}
	}
	return pMax
}

// logInterp implements the log-linear interpolation law:
//
//	p = p0 + (p1-p0) * (exp(z-z0)-1) / (exp(z1-z0)-1)
func logInterp(z, z0, z1, p0, p1 float64) float64 {
	denom := math.Exp(z1-z0) - 1.0
	if math.Abs(denom) < units.EpsMin {
		return p0
	}
	return p0 + (p1-p0)*(math.Exp(z-z0)-1.0)/denom
}

// logInterpInverse solves logInterp for z given p.
func logInterpInverse(p, z0, z1, p0, p1 float64) float64 {
	if math.Abs(p1-p0) < units.EpsMin {
		return z0
	}
	r := (p - p0) / (p1 - p0)
	dz := z1 - z0
	return z0 + math.Log(1.0+r*(math.Exp(dz)-1.0))
}
