// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package session implements the all-branches controller: session
// state (depth, phase filter, flags), driving the up-going and branch
// volumes across every depth change, and the getTravelTime request path
// that aggregates arrivals, applies corrections and statistics, and
// finalizes the result container.
package session

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/globalseis/travt/branch"
	"github.com/globalseis/travt/corr"
	"github.com/globalseis/travt/emodel"
	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/result"
	"github.com/globalseis/travt/tauint"
	"github.com/globalseis/travt/travterr"
	"github.com/globalseis/travt/units"
	"github.com/globalseis/travt/upgoing"
)

// defaultDeltaMinNorm is the decimation/caustic-scan spacing target,
// 0.05 degree expressed in the normalized (radian) distance unit.
const defaultDeltaMinNorm = 0.05 * math.Pi / 180.0

// distanceFoldEps is the micro-tolerance used to detect the Δ≈0 and Δ≈π
// degenerate wrap cases in the three-candidate-distance construction.
const distanceFoldEps = 1e-6

// Session owns the immutable reference data (shared, read-only) and the
// volatile per-depth state of one travel-time session. It is not
// safe for concurrent use; a session pool managing many sessions across
// threads is an out-of-scope collaborator.
type Session struct {
	loader refdata.Loader

	refModels [2]*refdata.Model
	models    [2]*emodel.Model
	integs    [2]*tauint.Integrator
	upRefs    [2]*refdata.UpGoing
	up        [2]*upgoing.Volume

	groups *refdata.PhaseGroups
	topo   *refdata.Topography

	branchRefs []*refdata.Branch
	branches   []*branch.Volume
	upBranch   [2]*branch.Volume // the plain up-going "P"/"S" branch, used for upRay lookups

	initialized bool

	DepthKm    float64
	HasLoc     bool
	Lat, Lon   float64
	WantAll    bool
	ReturnBack bool
	Tectonic   bool

	filter phaseFilter

	zs        float64
	dTdzNorm  float64
	sourceHit [2]emodel.SlownessHit
}

// New loads the immutable reference data once and returns an uninitialized
// session; SetSession must be called before any GetTravelTime.
func New(loader refdata.Loader) (*Session, error) {
	s := &Session{loader: loader}

	for _, w := range []units.WaveType{units.P, units.S} {
		refModel, err := loader.Model(w)
		if err != nil {
			return nil, err
		}
		s.refModels[w] = refModel
		s.models[w] = emodel.New(refModel)
		s.integs[w] = tauint.New(s.models[w])

		upRef, err := loader.UpGoing(w)
		if err != nil {
			return nil, err
		}
		s.upRefs[w] = upRef
	}
	s.up[units.P] = upgoing.New(units.P, s.models[units.P], s.models[units.S], s.upRefs[units.P])
	s.up[units.S] = upgoing.New(units.S, s.models[units.S], s.models[units.P], s.upRefs[units.S])

	refs, err := loader.Branches()
	if err != nil {
		return nil, err
	}
	s.branchRefs = refs
	s.branches = make([]*branch.Volume, len(refs))
	for i, ref := range refs {
		bv := branch.New(ref)
		s.branches[i] = bv
		if ref.NumLegs == 1 && ref.Sign < 0 {
			s.upBranch[waveForBranch(ref)] = bv
		}
	}

	groups, err := loader.PhaseGroups()
	if err != nil {
		return nil, err
	}
	s.groups = groups

	if topo, err := loader.Topography(); err == nil {
		s.topo = topo
	} else {
		io.Pfyel("session: no topography table available, bounce-point corrections disabled\n")
	}

	return s, nil
}

// waveForBranch returns the wave type of a branch's source-nearest leg,
// which selects the up-going volume that depth-corrects it.
func waveForBranch(ref *refdata.Branch) units.WaveType {
	return ref.Legs[0]
}

// SetSession is the `new_session` operation: validates depth, and,
// unless it is unchanged from the current session (idempotence), recomputes
// z_s/dT_dz, rebuilds the up-going and branch volumes, and replaces the
// phase filter. A no-op depth change still replaces the phase filter and
// the tectonic/return-back/want-all flags -- unlike the source system this
// reimplementation preserves by not special-casing them away.
func (s *Session) SetSession(depthKm float64, lat, lon *float64, phaseList []string, wantAll, wantBack, tectonic bool) error {
	if math.IsNaN(depthKm) || depthKm < 0 || depthKm > units.MaxDepthKm {
		return travterr.New(travterr.BadDepth, "depth=%v km is outside [0, %v]", depthKm, units.MaxDepthKm)
	}

	s.WantAll = wantAll
	s.ReturnBack = wantBack
	s.Tectonic = tectonic
	s.filter = buildPhaseFilter(phaseList, s.groups)

	if lat != nil && lon != nil {
		s.HasLoc = true
		s.Lat, s.Lon = *lat, *lon
	} else {
		s.HasLoc = false
	}

	if s.initialized && units.EqualEps(depthKm, s.DepthKm) {
		return nil
	}
	s.DepthKm = depthKm
	s.initialized = true

	// dT/dz is reported directly in the model's native normalized flat
	// coordinate; no extra Jacobian factor is needed since every
	// tau-integral quantity is already expressed against that coordinate.
	s.dTdzNorm = 1.0

	isSurfaceSource := depthKm < units.DepthFloorKm
	if isSurfaceSource {
		s.zs = 0
		for _, w := range []units.WaveType{units.P, units.S} {
			s.sourceHit[w] = emodel.SlownessHit{}
			if err := s.up[w].NewDepth(0, s.sourceHit[w], s.refModels[w].Samples); err != nil {
				return err
			}
		}
	} else {
		d := units.FloorDepth(depthKm)
		s.zs = units.FlatDepth(d)
		for _, w := range []units.WaveType{units.P, units.S} {
			hit, err := s.models[w].FindSlowness(s.zs)
			if err != nil {
				return travterr.AsBadDepth(err)
			}
			s.sourceHit[w] = hit
			if err := s.up[w].NewDepth(s.zs, hit, s.refModels[w].Samples); err != nil {
				return err
			}
		}
	}

	for i, ref := range s.branchRefs {
		wave := waveForBranch(ref)
		other := wave.Other()
		if err := s.branches[i].CorrectForDepth(s.zs, s.DepthKm, s.dTdzNorm, defaultDeltaMinNorm, isSurfaceSource, s.up[wave], s.up[other], s.integs[wave]); err != nil {
			return err
		}
	}
	return nil
}

// phaseFilter implements the phase-list expansion and match rule.
type phaseFilter struct {
	all    bool
	ploc   bool // special token: regional group
	pdep   bool // special token: depth-sensitive group
	basic  bool // special token: location-usable group
	groups map[string]bool
	exact  map[string]bool
}

func buildPhaseFilter(phaseList []string, groups *refdata.PhaseGroups) phaseFilter {
	pf := phaseFilter{groups: map[string]bool{}, exact: map[string]bool{}}
	if len(phaseList) == 0 {
		pf.all = true
		return pf
	}
	for _, tok := range phaseList {
		switch tok {
		case "all":
			pf.all = true
		case "ploc":
			pf.ploc = true
		case "pdep":
			pf.pdep = true
		case "basic":
			pf.basic = true
		default:
			if groups != nil {
				if _, ok := groups.GroupMembers[tok]; ok {
					pf.groups[tok] = true
					if comp, ok := groups.AuxCompanion[tok]; ok {
						pf.groups[comp] = true
					}
					continue
				}
				if g, ok := groups.Primary[tok]; ok {
					pf.groups[g] = true
					if comp, ok := groups.AuxCompanion[g]; ok {
						pf.groups[comp] = true
					}
					continue
				}
				if g, ok := groups.Auxiliary[tok]; ok {
					pf.groups[g] = true
					continue
				}
			}
			pf.exact[tok] = true
		}
	}
	return pf
}

func (pf phaseFilter) matches(ref *refdata.Branch, groups *refdata.PhaseGroups) bool {
	if pf.all {
		return true
	}
	code := ref.Phase
	if pf.exact[code] {
		return true
	}
	if groups != nil {
		if g, ok := groups.Primary[code]; ok && pf.groups[g] {
			return true
		}
		if g, ok := groups.Auxiliary[code]; ok && pf.groups[g] {
			return true
		}
		if pf.ploc && groups.Regional[code] {
			return true
		}
		if pf.pdep && groups.Depth[code] {
			return true
		}
		if pf.basic && groups.CanUse[code] {
			return true
		}
	}
	return false
}

// GetTravelTime is the simple `get_travel_time(elev, Δ)` request: no
// station location, so only the elevation correction applies.
func (s *Session) GetTravelTime(elevKm, deltaDeg float64) (*result.Container, error) {
	return s.getTravelTime(false, 0, 0, elevKm, deltaDeg, math.NaN())
}

// GetTravelTimeAtStation is the complex request: station location and
// azimuth are known, enabling ellipticity and bounce-point corrections.
func (s *Session) GetTravelTimeAtStation(staLat, staLon, elevKm, deltaDeg, azDeg float64) (*result.Container, error) {
	return s.getTravelTime(true, staLat, staLon, elevKm, deltaDeg, azDeg)
}

func (s *Session) getTravelTime(hasStation bool, staLat, staLon, elevKm, deltaDeg, azDeg float64) (*result.Container, error) {
	if !s.initialized {
		return nil, travterr.New(travterr.BadDepth, "GetTravelTime called before SetSession")
	}

	if math.IsNaN(deltaDeg) || deltaDeg < 0 || deltaDeg > 180 {
		if hasStation && s.HasLoc {
			deltaDeg, azDeg = corr.DistanceAzimuth(s.Lat, s.Lon, staLat, staLon)
		} else {
			io.Pfyel("session: distance invalid and no station location to recompute it from; returning no arrivals\n")
			return result.New(), nil
		}
	}
	if elevKm < units.MinElevKm || elevKm > units.MaxElevKm {
		elevKm = 0
	}
	complexRequest := hasStation && !math.IsNaN(azDeg)

	deltaRad := units.DegToRad(deltaDeg)
	x0 := math.Mod(math.Abs(deltaRad), 2*math.Pi)
	if x0 > math.Pi {
		x0 = 2*math.Pi - x0
	}
	candidates := [3]float64{x0, 2*math.Pi - x0, x0 + 2*math.Pi}
	disableTry1 := x0 < distanceFoldEps || math.Abs(x0-math.Pi) < distanceFoldEps

	c := result.New()
	for tryIndex := 0; tryIndex < 3; tryIndex++ {
		if tryIndex == 1 && disableTry1 {
			continue
		}
		dNorm := candidates[tryIndex]
		for i, bv := range s.branches {
			ref := s.branchRefs[i]
			if !s.filter.matches(ref, s.groups) {
				continue
			}
			wave := waveForBranch(ref)
			pSource := s.sourceHit[wave].P
			for _, a := range bv.TravelTimes(tryIndex, dNorm, pSource, units.TNorm, s.dTdzNorm, s.WantAll) {
				if ra := s.enrich(a, elevKm, deltaDeg, azDeg, complexRequest, wave); ra != nil {
					c.AddPhase(*ra)
				}
			}
		}
	}
	c.Finalize(s.Tectonic, s.ReturnBack)
	return c, nil
}

// enrich converts a raw branch arrival into a result.Arrival, attaching
// phase-group flags, corrections, and statistics. Returns nil if the
// arrival must be dropped (an ungated pwP whose bounce point is not under
// water).
func (s *Session) enrich(a branch.Arrival, elevKm, deltaDeg, azDeg float64, complexRequest bool, wave units.WaveType) *result.Arrival {
	ra := &result.Arrival{
		Phase:      a.Phase,
		UniquePhase: a.UniquePhase,
		TimeSec:    a.TimeSec,
		DTdDelta:   a.DTdDelta,
		DTdz:       a.DTdz,
		D2TdDelta2: a.D2TdDelta2,
		DeltaDeg:   deltaDeg,
		DepthKm:    s.DepthKm,
	}
	if s.groups != nil {
		ra.Regional = s.groups.Regional[a.Phase]
		ra.DepthDep = s.groups.Depth[a.Phase]
		ra.Downweight = s.groups.Downweight[a.Phase]
		ra.CanUse = s.groups.CanUse[a.Phase]
		ra.Useless = s.groups.Useless[a.Phase]
		if _, ok := s.groups.Primary[a.Phase]; ok {
			ra.IsPrimary = true
		}
		if _, ok := s.groups.Auxiliary[a.Phase]; ok {
			ra.IsAuxiliary = true
		}
	}

	pSecPerKm := corr.PSecPerKm(a.DTdDelta)
	ra.TimeSec += corr.ElevationCorrection(elevKm, wave.SurfVelocity(), pSecPerKm)

	if complexRequest {
		if tab, err := s.loader.Ellipticity(a.Phase); err == nil {
			ra.TimeSec += corr.EllipticityCorrection(tab, s.DepthKm, deltaDeg, azDeg)
		}
		if s.topo != nil {
			code := classifyReflection(a.Phase)
			if code != "none" {
				delta, ok := s.bounceCorrection(code, a, wave, deltaDeg, azDeg, pSecPerKm)
				if !ok {
					return nil
				}
				ra.TimeSec += delta
			}
		}
	}

	if stats, err := s.loader.Stats(a.Phase); err == nil {
		folded := math.Mod(deltaDeg, 360)
		if folded > 180 {
			folded = 360 - folded
		}
		bias, spread, observ := interpStats(stats, folded)
		ra.Bias, ra.Spread, ra.Observability = bias, spread, observ
		ra.TimeSec += bias
	} else {
		ra.Observability = 1
	}

	return ra
}

// classifyReflection maps a phase code to its bounce-point reflection type.
func classifyReflection(phase string) string {
	switch phase {
	case "PP", "SS":
		return "mid"
	case "PS", "SP":
		return "midconv"
	case "pwP":
		return "pwp"
	}
	if len(phase) > 0 && (phase[0] == 'p' || phase[0] == 's') {
		return "updepth"
	}
	return "none"
}

// bounceCorrection computes the bounce-point correction for one
// reflection class, projecting the bounce point from the source location
// and sampling topography there. Returns ok=false only for an ungated pwP
// (bounce point not under water), which must drop the arrival.
func (s *Session) bounceCorrection(code string, a branch.Arrival, wave units.WaveType, deltaDeg, azDeg, pSecPerKm float64) (float64, bool) {
	var bounceDeltaDeg float64
	if up := s.upBranch[wave]; up != nil {
		if deltaUp, err := up.OneRay(math.Abs(a.DTdDelta), units.TNorm); err == nil {
			switch code {
			case "updepth":
				bounceDeltaDeg = deltaUp
			case "mid", "midconv":
				bounceDeltaDeg = 0.5 * (deltaDeg - deltaUp)
			}
		}
	}

	bLat, bLon := corr.ProjectBouncePoint(s.Lat, s.Lon, azDeg, bounceDeltaDeg)
	elevKm := corr.TopographyElevation(s.topo, bLat, bLon)

	if code == "pwp" {
		return corr.PwPCorrection(elevKm, pSecPerKm)
	}

	if code == "midconv" {
		other := wave.Other()
		return corr.ElevationCorrection(elevKm, wave.SurfVelocity(), pSecPerKm) +
			corr.ElevationCorrection(elevKm, other.SurfVelocity(), pSecPerKm), true
	}
	return 2 * corr.ElevationCorrection(elevKm, wave.SurfVelocity(), pSecPerKm), true
}

// interpStats evaluates the piecewise-linear bias/spread/observability fit
// at deltaDeg (already folded into [0,180]), clamping to the table's ends.
func interpStats(stats *refdata.PhaseStats, deltaDeg float64) (bias, spread, observ float64) {
	pts := stats.Points
	if len(pts) == 0 {
		return 0, units.DefaultSpreadUsableSec, 1
	}
	if deltaDeg <= pts[0].DegreesDelta {
		p := pts[0]
		return p.Bias, p.Spread, p.Observ
	}
	if deltaDeg >= pts[len(pts)-1].DegreesDelta {
		p := pts[len(pts)-1]
		return p.Bias, p.Spread, p.Observ
	}
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		if deltaDeg >= a.DegreesDelta && deltaDeg <= b.DegreesDelta {
			span := b.DegreesDelta - a.DegreesDelta
			if math.Abs(span) < units.EpsMin {
				return a.Bias, a.Spread, a.Observ
			}
			t := (deltaDeg - a.DegreesDelta) / span
			bias = a.Bias
			if !b.BreakBias {
				bias = a.Bias + t*(b.Bias-a.Bias)
			}
			spread = a.Spread
			if !b.BreakSpread {
				spread = a.Spread + t*(b.Spread-a.Spread)
			}
			observ = a.Observ
			if !b.BreakObserv {
				observ = a.Observ + t*(b.Observ-a.Observ)
			}
			return
		}
	}
	last := pts[len(pts)-1]
	return last.Bias, last.Spread, last.Observ
}
