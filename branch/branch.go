// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package branch implements the branch volume: one per named seismic
// branch (P, PcP, sS, PKPdf, ...). It depth-corrects tau and distance using
// the up-going volumes, builds the interpolating polynomial via spline, and
// inverts it per request to find all arrivals at a given normalized
// distance.
package branch

import (
	"math"

	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/spline"
	"github.com/globalseis/travt/tauint"
	"github.com/globalseis/travt/units"
	"github.com/globalseis/travt/upgoing"
)

// Interval is one corrected p-sub-interval with its Δ-range and spline
// coefficients.
type Interval struct {
	PLo, PHi     float64
	DeltaLo, DeltaHi float64
	A            spline.Coeffs
}

// Volume is the depth-corrected state for one named branch.
type Volume struct {
	Ref *refdata.Branch

	Exists   bool
	Computed bool
	Useless  bool

	P        []float64
	Tau      []float64
	Basis    *spline.Basis
	Intervals []Interval

	DeltaLo, DeltaHi float64
	CausticP         float64
	HasCaustic       bool
	MinCausticCount, MaxCausticCount int

	// TryHi[i] is the highest try index valid at endpoint i (0=Δmin,1=Δmax):
	// 0 -> Δ<=π, 1 -> Δ<=2π, 2 -> Δ<=3π
	TryHi [2]int

	PhaseCode string // possibly with a crustal suffix for up-going branches
	PMaxUsed  float64

	// SourceDepthKm is the source depth this volume was last corrected for,
	// used to gate the Lg/LR add-on rules.
	SourceDepthKm float64
}

// New allocates an uncorrected branch volume from its reference.
func New(ref *refdata.Branch) *Volume {
	return &Volume{Ref: ref, PhaseCode: ref.Phase}
}

// crustalSuffix tags an up-going branch with the appropriate suffix based on
// source depth relative to the Conrad/Moho/upper-mantle interfaces.
func crustalSuffix(depthKm float64) string {
	switch {
	case depthKm < 20.0:
		return "g" // above Conrad: upper-crustal
	case depthKm < 35.0:
		return "b" // between Conrad and Moho: lower-crustal
	case depthKm < 210.0:
		return "n" // between Moho and upper-mantle discontinuity
	default:
		return ""
	}
}

// CorrectForDepth rebuilds the depth-corrected branch state.
func (bv *Volume) CorrectForDepth(zs, depthKm, dTdz, deltaMin float64, isSurfaceSource bool, up, otherUp *upgoing.Volume, integ *tauint.Integrator) error {
	ref := bv.Ref
	bv.Useless = false
	bv.Computed = false
	bv.SourceDepthKm = depthKm

	if isSurfaceSource {
		if ref.Sign > 0 {
			// surface source, surface-reflected branch: copy reference
			// verbatim
			bv.P = append([]float64{}, ref.P...)
			bv.Tau = append([]float64{}, ref.Tau...)
			bv.Exists = true
			bv.PMaxUsed = ref.PMax
			return bv.buildSpline(ref.DeltaMin, ref.DeltaMax)
		}
		// surface source, direct down-going: branch does not exist
		bv.Exists = false
		return nil
	}

	pMax := math.Min(ref.PMax, up.PMax)
	if ref.PMin >= pMax-units.Eps {
		bv.Exists = false
		return nil
	}
	bv.PMaxUsed = pMax

	// keep all reference p's <= pMax, plus one beyond clamped to pMax
	var p []float64
	for _, pp := range ref.P {
		if pp <= pMax+units.Eps {
			p = append(p, pp)
		}
	}
	if len(p) == 0 || p[len(p)-1] < pMax-units.Eps {
		p = append(p, pMax)
	} else {
		p[len(p)-1] = pMax
	}
	bv.P = p
	bv.Tau = make([]float64, len(p))

	var deltaLast float64
	isUpGoing := ref.NumLegs == 1 && ref.Sign < 0
	if isUpGoing {
		for i, pp := range p {
			bv.Tau[i] = interpAt(up.P, up.TauUpC, pp)
		}
		// correct only distance: x_range[1] (the p_max endpoint) becomes
		// the up-going leg's own surface-to-source distance
		deltaLast = up.XSurfaceToSource
		pDec, tauDec := up.DecimateUp(depthKm, 30.0, deltaMin)
		if len(pDec) >= 2 {
			bv.P = pDec
			bv.Tau = tauDec
		}
	} else {
		for i, pp := range p {
			bv.Tau[i] = interpAt(ref.P, ref.Tau, pp) + ref.Sign*interpAt(up.P, up.TauUpC, pp)
		}
		// endpoint p = pMax uses the composite τ_last/x_last formulas
		bv.Tau[len(bv.Tau)-1] = tauLast(ref, up, otherUp)
		deltaLast = xLast(ref, up, otherUp)
	}

	bv.Exists = true
	if ref.Phase == "" {
		bv.PhaseCode = ref.Phase
	} else if isUpGoing {
		bv.PhaseCode = ref.Phase + crustalSuffix(depthKm)
	}

	return bv.buildSpline(ref.DeltaMin, deltaLast)
}

// tauLast computes τ_last at the branch's terminal p, the composite of the
// source-to-surface leg plus each mantle-traversal segment, converted if the
// segment's wave type differs from the up-going wave type.
func tauLast(ref *refdata.Branch, up, otherUp *upgoing.Volume) float64 {
	tau := ref.Sign * up.TauSurfaceToSource
	for leg := 1; leg < ref.NumLegs; leg++ {
		if ref.Legs[leg] == up.Wave {
			tau += float64(ref.Count) * (up.TauSurfaceToSource + up.TauLVZ)
		} else {
			tau += float64(ref.Count) * otherUp.TauConverted
		}
	}
	return tau
}

// xLast computes x_last at the branch's terminal p, mirroring tauLast for
// distance instead of tau.
func xLast(ref *refdata.Branch, up, otherUp *upgoing.Volume) float64 {
	x := ref.Sign * up.XSurfaceToSource
	for leg := 1; leg < ref.NumLegs; leg++ {
		if ref.Legs[leg] == up.Wave {
			x += float64(ref.Count) * (up.XSurfaceToSource + up.XLVZ)
		} else {
			x += float64(ref.Count) * otherUp.XConverted
		}
	}
	return x
}

// interpAt linearly interpolates y(grid) at x, extrapolating flat past the
// ends -- the reference/up-going tables are sampled densely enough that
// this matches the original grid exactly at on-grid points.
func interpAt(grid, y []float64, x float64) float64 {
	n := len(grid)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return y[0]
	}
	desc := grid[0] > grid[n-1]
	if (desc && x >= grid[0]) || (!desc && x <= grid[0]) {
		return y[0]
	}
	if (desc && x <= grid[n-1]) || (!desc && x >= grid[n-1]) {
		return y[n-1]
	}
	i := 0
	for i < n-1 {
		lo, hi := grid[i], grid[i+1]
		if desc {
			lo, hi = hi, lo
		}
		if x >= lo && x <= hi {
			break
		}
		i++
	}
	if i >= n-1 {
		i = n - 2
	}
	x0, x1 := grid[i], grid[i+1]
	if math.Abs(x1-x0) < units.EpsMin {
		return y[i]
	}
	t := (x - x0) / (x1 - x0)
	return y[i] + t*(y[i+1]-y[i])
}

// buildSpline rebuilds the interpolating polynomial and re-runs the
// caustic scan and distance-tries classification.
func (bv *Volume) buildSpline(deltaFirst, deltaLast float64) error {
	n := len(bv.P)
	if n < 2 {
		bv.Exists = false
		return nil
	}
	bv.Basis = spline.BuildBasis(bv.P, bv.PMaxUsed)
	coeffs, _ := spline.ComputeTauSpline(bv.Basis, bv.Tau, deltaFirst, deltaLast)

	bv.Intervals = make([]Interval, n-1)
	bv.HasCaustic = false
	bv.DeltaLo, bv.DeltaHi = math.Inf(1), math.Inf(-1)
	for k := 0; k < n-1; k++ {
		a := coeffs[k]
		s1 := math.Sqrt(math.Max(0, bv.PMaxUsed-bv.P[k]))
		s2 := math.Sqrt(math.Max(0, bv.PMaxUsed-bv.P[k+1]))
		_, d1 := spline.Eval(a, s1)
		_, d2 := spline.Eval(a, s2)
		lo, hi := d1, d2
		if lo > hi {
			lo, hi = hi, lo
		}

		// caustic / extremum scan
		if math.Abs(a[2]) > units.EpsMin {
			sStar := -0.375 * a[3] / a[2]
			dpStar := sStar * sStar
			dpLo, dpHi := bv.PMaxUsed-bv.P[k+1], bv.PMaxUsed-bv.P[k]
			if dpLo > dpHi {
				dpLo, dpHi = dpHi, dpLo
			}
			if sStar > 0 && dpStar > dpLo && dpStar < dpHi {
				deltaStar := a[1] + sStar*(2*sStar*a[2]+1.5*a[3])
				if deltaStar < lo {
					lo = deltaStar
				}
				if deltaStar > hi {
					hi = deltaStar
				}
				bv.HasCaustic = true
				pStar := bv.PMaxUsed - dpStar
				bv.CausticP = pStar
				if a[3] > 0 {
					bv.MinCausticCount++
				} else {
					bv.MaxCausticCount++
				}
			}
		}

		bv.Intervals[k] = Interval{PLo: bv.P[k+1], PHi: bv.P[k], DeltaLo: lo, DeltaHi: hi, A: a}
		if lo < bv.DeltaLo {
			bv.DeltaLo = lo
		}
		if hi > bv.DeltaHi {
			bv.DeltaHi = hi
		}
	}

	// distance tries
	bv.TryHi[0] = triesFor(bv.DeltaLo)
	bv.TryHi[1] = triesFor(bv.DeltaHi)

	bv.Computed = true
	return nil
}

func triesFor(deltaNorm float64) int {
	switch {
	case deltaNorm <= math.Pi+units.Eps:
		return 0
	case deltaNorm <= 2*math.Pi+units.Eps:
		return 1
	default:
		return 2
	}
}

// Arrival is one root of the travel-time inversion at a requested distance
//. The session/result layers enrich this with
// phase-group flags, statistics, and corrections.
type Arrival struct {
	Phase        string
	UniquePhase  string
	TimeSec      float64
	DTdDelta     float64 // s/deg
	DTdz         float64
	D2TdDelta2   float64
	TryIndex     int
	PArr         float64 // normalized ray parameter of the arrival
	IsDiffracted bool
	AddOn        string
}

// TravelTimes implements the per-arrival query: given a try index and
// a normalized distance, returns every arrival the branch produces.
func (bv *Volume) TravelTimes(tryIndex int, deltaNorm, pSource, tNorm, dTdzNorm float64, wantAll bool) []Arrival {
	var out []Arrival
	if !bv.Exists || (bv.Useless && !wantAll) {
		return out
	}
	if tryIndex < 0 || (tryIndex == 0 && bv.TryHi[0] < 0) {
		return out
	}
	if tryIndex > bv.TryHi[0] && tryIndex > bv.TryHi[1] {
		return out
	}
	trySign := 1.0
	if tryIndex%2 == 1 {
		trySign = -1.0
	}

	if deltaNorm < bv.DeltaLo-units.Eps || deltaNorm > bv.DeltaHi+units.Eps {
		if bv.Ref.HasDiff && deltaNorm >= bv.DeltaHi && deltaNorm <= bv.Ref.DiffX+units.Eps {
			out = append(out, bv.diffractedArrival(tryIndex, trySign, deltaNorm, tNorm, dTdzNorm, pSource))
		}
		return bv.applyAddOn(out, tryIndex, trySign, deltaNorm, tNorm)
	}

	for k, iv := range bv.Intervals {
		if deltaNorm < iv.DeltaLo-units.Eps || deltaNorm > iv.DeltaHi+units.Eps {
			continue
		}
		roots := solveRoots(iv.A, deltaNorm)
		dpLo := bv.PMaxUsed - iv.PLo
		dpHi := bv.PMaxUsed - iv.PHi
		if dpLo > dpHi {
			dpLo, dpHi = dpHi, dpLo
		}
		tol := math.Max(3e-6*(iv.PHi-iv.PLo), 1e-4)
		for _, s := range roots {
			dp := s * math.Abs(s)
			if dp < dpLo-tol || dp > dpHi+tol {
				continue
			}
			pArr := bv.PMaxUsed - dp
			tauNorm, _ := spline.Eval(iv.A, s)
			phase := bv.PhaseCode
			if bv.HasCaustic && pArr < bv.CausticP && hasTriplicationAB(phase) {
				phase = renameABtoBC(phase)
			}
			a := Arrival{
				Phase:       phase,
				UniquePhase: phase,
				TimeSec:     tNorm * (tauNorm + pArr*deltaNorm),
				DTdDelta:    trySign * units.SlownessToSecPerDeg(pArr, tNorm),
				DTdz:        bv.Ref.Sign * dTdzNorm * math.Sqrt(math.Abs(pSource*pSource-pArr*pArr)),
				D2TdDelta2:  spline.D2TdDelta2(iv.A, s, tNorm),
				TryIndex:    tryIndex,
				PArr:        pArr,
			}
			out = append(out, a)
		}
		_ = k
	}
	return bv.applyAddOn(out, tryIndex, trySign, deltaNorm, tNorm)
}

func hasTriplicationAB(phase string) bool {
	return len(phase) >= 2 && phase[len(phase)-2:] == "ab"
}

func renameABtoBC(phase string) string {
	return phase[:len(phase)-2] + "bc"
}

// solveRoots solves 2a2 s² + 1.5a3 s + (a1-deltaNorm) = 0 for s, returning
// zero, one, or two real, non-negative roots, using the numerically stable
// copy-sign form for the first root.
func solveRoots(a spline.Coeffs, deltaNorm float64) []float64 {
	A := 2 * a[2]
	B := 1.5 * a[3]
	C := a[1] - deltaNorm
	if math.Abs(A) < units.EpsMin {
		if math.Abs(B) < units.EpsMin {
			return nil
		}
		s := -C / B
		if s >= 0 {
			return []float64{s}
		}
		return nil
	}
	disc := B*B - 4*A*C
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	var s1 float64
	if B >= 0 {
		s1 = -(B + sq) / (2 * A)
	} else {
		s1 = -(B - sq) / (2 * A)
	}
	var roots []float64
	if s1 >= 0 {
		roots = append(roots, s1)
	}
	if math.Abs(s1) > units.EpsMin {
		s2 := C / (A * s1)
		if s2 >= 0 && math.Abs(s2-s1) > units.Eps {
			roots = append(roots, s2)
		}
	}
	return roots
}

func (bv *Volume) diffractedArrival(tryIndex int, trySign, deltaNorm, tNorm, dTdzNorm, pSource float64) Arrival {
	pArr := bv.PMaxUsed
	phase := bv.PhaseCode + "dif"
	return Arrival{
		Phase:        phase,
		UniquePhase:  phase,
		TimeSec:      tNorm * (bv.Tau[len(bv.Tau)-1] + pArr*deltaNorm),
		DTdDelta:     trySign * units.SlownessToSecPerDeg(pArr, tNorm),
		DTdz:         bv.Ref.Sign * dTdzNorm * math.Sqrt(math.Abs(pSource*pSource-pArr*pArr)),
		TryIndex:     tryIndex,
		PArr:         pArr,
		IsDiffracted: true,
	}
}

// applyAddOn implements the add-on rule for Lg/LR/pwP/PKPpre once at
// least one arrival was emitted.
func (bv *Volume) applyAddOn(arrivals []Arrival, tryIndex int, trySign, deltaNorm, tNorm float64) []Arrival {
	if len(arrivals) == 0 || bv.Ref.AddOn == "" {
		return arrivals
	}
	deltaDeg := units.RadToDeg(deltaNorm)
	switch bv.Ref.AddOn {
	case "Lg":
		if bv.SourceDepthKm <= units.LgMaxDepthKm {
			a := &arrivals[len(arrivals)-1]
			a.Phase = "Lg"
			a.UniquePhase = "Lg"
			a.AddOn = "Lg"
			a.TimeSec = units.GroupVelocityTime(deltaDeg, units.LgGroupVelocity)
		}
	case "LR":
		if bv.SourceDepthKm <= units.LRMaxDepthKm && deltaDeg <= units.LRMaxDeltaDeg {
			a := &arrivals[len(arrivals)-1]
			a.Phase = "LR"
			a.UniquePhase = "LR"
			a.AddOn = "LR"
			a.TimeSec = units.GroupVelocityTime(deltaDeg, units.LRGroupVelocity)
		}
	case "pwP":
		clone := arrivals[len(arrivals)-1]
		clone.Phase = "pwP"
		clone.UniquePhase = "pwP"
		clone.AddOn = "pwP"
		arrivals = append(arrivals, clone)
	case "PKPpre":
		clone := arrivals[len(arrivals)-1]
		clone.Phase = "PKPpre"
		clone.UniquePhase = "PKPpre"
		clone.AddOn = "PKPpre"
		arrivals = append(arrivals, clone)
	}
	return arrivals
}

// OneRay is the inverse query of TravelTimes: given a ray parameter (s/deg),
// locates the interval containing it and evaluates Δ from the polynomial.
// Used for surface-focus corrections of surface reflections.
func (bv *Volume) OneRay(dTdDeltaSecPerDeg, tNorm float64) (deltaDeg float64, err error) {
	pNorm := dTdDeltaSecPerDeg / (tNorm * math.Pi / 180.0)
	for _, iv := range bv.Intervals {
		if pNorm <= iv.PHi+units.Eps && pNorm >= iv.PLo-units.Eps {
			s := math.Sqrt(math.Max(0, bv.PMaxUsed-pNorm))
			_, delta := spline.Eval(iv.A, s)
			return units.RadToDeg(delta), nil
		}
	}
	return 0, errNotOnBranch
}

var errNotOnBranch = &oneRayError{"ray parameter not on this branch"}

type oneRayError struct{ msg string }

func (e *oneRayError) Error() string { return e.msg }
