// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package units implements the model conversions: normalization
// constants, flat-Earth transforms and the degree/radian/slowness unit
// conversions shared by every other package.
package units

import "math"

// Normative constants
const (
	EarthRadiusKm = 6371.0

	MaxDepthKm = 800.0
	MinElevKm  = -11.0
	MaxElevKm  = 9.0

	// DepthFloorKm avoids the z -> -inf singularity at the surface.
	DepthFloorKm = 0.011

	// Flattening is the geocentric-colatitude ellipsoid flattening used
	// for the station distance/azimuth and bounce-point projections.
	Flattening = 0.993305521

	SurfVelP     = 5.80 // km/s
	SurfVelS     = 3.46 // km/s
	SurfVelWater = 1.50 // km/s

	LgGroupVelocity = 3.4 // km/s
	LRGroupVelocity = 3.5 // km/s

	LgMaxDepthKm  = 35.0
	LRMaxDepthKm  = 55.0
	LRMaxDeltaDeg = 40.0

	PwPConstantSec        = -4.67
	PwPBounceElevThreshKm = -1.5

	ClosePhaseMergeSec     = 0.005
	ObservabilityShadowSec = 3.0
	DefaultSpreadUsableSec = 12.0

	// Eps is the single named floating-point tolerance used to compare
	// normalized slownesses across reference and up-going grids.
	Eps    = 1e-9
	EpsMin = 1e-30
	EpsMax = 1e30
)

// TNorm is the reference normalization period (s): the Earth's radius
// divided by the reference surface P velocity. Every model p/tau value is
// normalized by EarthRadiusKm and this reference velocity;
// TNorm converts a normalized tau back into seconds.
const TNorm = EarthRadiusKm / SurfVelP

// FlatDepth converts a dimensional depth (km) to normalized flattened depth
// z = ln(1 - d/R).
func FlatDepth(depthKm float64) float64 {
	return math.Log(1.0 - depthKm/EarthRadiusKm)
}

// UnflattenDepth is the inverse of FlatDepth.
func UnflattenDepth(z float64) float64 {
	return EarthRadiusKm * (1.0 - math.Exp(z))
}

// FloorDepth applies the depth floor to avoid the flat-Earth singularity
// at the surface.
func FloorDepth(depthKm float64) float64 {
	if depthKm < DepthFloorKm {
		return DepthFloorKm
	}
	return depthKm
}

// DegToRad and RadToDeg convert between degrees and radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// SlownessToSecPerDeg converts a normalized slowness p (s/radian-equivalent,
// normalized by radius and reference velocity) to dT/dΔ in s/degree, given
// the normalization period tNorm (s) used to build the reference model.
func SlownessToSecPerDeg(pNorm, tNorm float64) float64 {
	return pNorm * tNorm * math.Pi / 180.0
}

// EqualEps reports whether a and b are equal to within Eps.
func EqualEps(a, b float64) bool {
	return math.Abs(a-b) <= Eps
}

// GroupVelocityTime returns the surface-wave travel time for a given
// angular distance, treating the path as a great-circle arc of radius
// EarthRadiusKm traveling at the given group velocity.
func GroupVelocityTime(deltaDeg, groupVelocityKmPerSec float64) float64 {
	return DegToRad(deltaDeg) * EarthRadiusKm / groupVelocityKmPerSec
}

// WaveType enumerates the two body-wave types the engine tracks: a small
// enum instead of deep per-name type inheritance.
type WaveType int

const (
	P WaveType = iota
	S
)

func (w WaveType) String() string {
	if w == P {
		return "P"
	}
	return "S"
}

// Other returns the converted-leg partner wave type.
func (w WaveType) Other() WaveType {
	if w == P {
		return S
	}
	return P
}

// SurfVelocity returns the reference surface velocity (km/s) for elevation
// corrections; "water" is addressed directly by callers via
// SurfVelWater since it has no WaveType of its own.
func (w WaveType) SurfVelocity() float64 {
	if w == P {
		return SurfVelP
	}
	return SurfVelS
}
