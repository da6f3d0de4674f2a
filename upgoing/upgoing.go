// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package upgoing implements the up-going branch volume: for the
// current source depth, the corrected up-going tau(p), distance(p), and the
// end-integrals consumed by every surface-reflected branch.
package upgoing

import (
	"math"

	"github.com/cpmech/gosl/utl"
	"github.com/globalseis/travt/decim"
	"github.com/globalseis/travt/emodel"
	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/tauint"
	"github.com/globalseis/travt/units"
)

// Volume holds the corrected up-going state for one wave type.
type Volume struct {
	Wave       units.WaveType
	Model      *emodel.Model
	OtherModel *emodel.Model
	Integ      *tauint.Integrator
	OtherInteg *tauint.Integrator
	Ref        *refdata.UpGoing

	// Corrected state, rebuilt by NewDepth.
	Empty      bool // true for a surface source (z_s = 0)
	SourceIdx  int
	SourceP    float64
	PMax       float64
	P          []float64
	TauUpC     []float64
	XUpC       []float64

	TauSurfaceToSource, XSurfaceToSource float64
	TauLVZ, XLVZ                         float64
	TauConverted, XConverted             float64
}

// New builds an (uncorrected) up-going volume for one wave type.
func New(wave units.WaveType, model, otherModel *emodel.Model, ref *refdata.UpGoing) *Volume {
	return &Volume{
		Wave:       wave,
		Model:      model,
		OtherModel: otherModel,
		Integ:      tauint.New(model),
		OtherInteg: tauint.New(otherModel),
		Ref:        ref,
	}
}

// nearestUpIndex finds the depth-table row (closest sampled source depth at
// or shallower than the model index hit) that has up-going data, scanning
// toward the surface the way the reference table is only sparsely sampled.
func nearestUpIndex(samples []refdata.ModelSample, fromIdx int) int {
	for i := fromIdx; i >= 0; i-- {
		if samples[i].UpIndex >= 0 {
			return samples[i].UpIndex
		}
	}
	return 0
}

// NewDepth rebuilds the corrected up-going volume for source depth zs
// (normalized flattened depth) and its model slowness hit.
func (v *Volume) NewDepth(zs float64, hit emodel.SlownessHit, samples []refdata.ModelSample) error {
	v.SourceIdx = hit.Index
	v.SourceP = hit.P
	v.PMax = v.Model.FindMaxSlowness(hit)

	if zs >= -units.Eps {
		// surface source: the up-going branch is empty
		v.Empty = true
		v.P = nil
		v.TauUpC = nil
		v.XUpC = nil
		v.TauSurfaceToSource, v.XSurfaceToSource = 0, 0
		v.TauLVZ, v.XLVZ = 0, 0
		v.TauConverted, v.XConverted = 0, 0
		return nil
	}
	v.Empty = false

	dIdx := nearestUpIndex(samples, hit.Index)
	refTau := v.Ref.TauUp[dIdx]
	n := len(v.Ref.P)
	v.P = make([]float64, 0, n)
	v.TauUpC = make([]float64, 0, n)
	v.XUpC = append([]float64{}, v.Ref.XUp[dIdx]...)

	pS := hit.P
	zS := hit.Z
	iS := hit.Index

	for i, p := range v.Ref.P {
		if p > v.PMax+units.Eps {
			continue
		}
		// move the tau endpoint from the model sample at or below the
		// source (model index iS) to the exact source depth
		dTau, dX, err := v.Integ.Layer(p, pS, zS, v.Model.P[iS], v.Model.Z[iS])
		if err != nil {
			return err
		}
		v.P = append(v.P, p)
		v.TauUpC = append(v.TauUpC, refTau[i]-dTau)
		for j, pEnd := range v.Ref.BranchEndSlowness {
			if units.EqualEps(pEnd, p) && j < len(v.XUpC) {
				v.XUpC[j] -= dX
			}
		}
	}

	return v.computeEndIntegrals(pS, zS, iS)
}

// computeEndIntegrals computes the three scalar end-integrals of step 4
// for p = min(pMax, pS).
func (v *Volume) computeEndIntegrals(pS, zS float64, iS int) error {
	p := utl.Min(v.PMax, pS)

	tauSS, xSS, err := v.Integ.Range(p, 0, iS-1, pS, zS)
	if err != nil {
		return err
	}
	v.TauSurfaceToSource, v.XSurfaceToSource = tauSS, xSS

	if v.PMax > pS+units.Eps {
		// source sits in a low-velocity zone: integrate from the source
		// down to the shallowest depth below it where slowness >= pMax
		zLid, err := v.Model.FindDepth(v.PMax, false)
		if err == nil {
			lidP := v.PMax
			tauLVZ, xLVZ, e := v.Integ.Layer(p, pS, zS, lidP, zLid)
			if e == nil {
				v.TauLVZ, v.XLVZ = tauLVZ, xLVZ
			}
		}
	} else {
		v.TauLVZ, v.XLVZ = 0, 0
	}

	zCnv, err := v.OtherModel.FindDepth(v.PMax, true)
	if err != nil {
		v.TauConverted, v.XConverted = 0, 0
		return nil
	}
	// last sample of the other model above the turning depth zCnv
	iCnv := 0
	for iCnv+1 < len(v.OtherModel.Z) && v.OtherModel.Z[iCnv+1] > zCnv+units.Eps {
		iCnv++
	}
	tauCnv, xCnv, err := v.OtherInteg.Range(p, 0, iCnv, v.PMax, zCnv)
	if err != nil {
		v.TauConverted, v.XConverted = 0, 0
		return nil
	}
	v.TauConverted, v.XConverted = tauCnv, xCnv
	return nil
}

// DecimateUp returns the decimated p-grid for this volume: shallow
// sources (d <= replacementDepthKm) get an analytic reconstruction rather
// than the greedy decimator, which is unstable that close to the surface.
func (v *Volume) DecimateUp(depthKm, replacementDepthKm, deltaMin float64) (p, tau []float64) {
	if depthKm <= replacementDepthKm {
		return v.analyticReplacement(depthKm)
	}
	keep := decim.FastDecimate(v.P, v.XUpC, deltaMin)
	p, tau, _ = decim.Apply(keep, v.P, v.TauUpC, nil)
	return
}

// analyticReplacement reconstructs 5 or 6 p-values via
//
//	p_j = pMax - dp * (L-j-1)^k,   k in {6,7}
//
// recomputing tau by Integ.Range at each, keeping the endpoint tau at
// TauSurfaceToSource.
func (v *Volume) analyticReplacement(depthKm float64) (p, tau []float64) {
	L := 5
	k := 6.0
	if depthKm > 0.5*unitsReplacementSplitKm {
		L = 6
		k = 7.0
	}
	dp := v.PMax / float64(L*L)
	p = make([]float64, L)
	tau = make([]float64, L)
	for j := 0; j < L; j++ {
		exp := math.Pow(float64(L-j-1), k)
		p[j] = v.PMax - dp*exp
		if p[j] < 0 {
			p[j] = 0
		}
	}
	p[L-1] = v.PMax
	for j, pj := range p {
		if j == L-1 {
			tau[j] = v.TauSurfaceToSource
			continue
		}
		zCap, err := v.Model.FindDepth(pj, true)
		if err != nil {
			tau[j] = 0
			continue
		}
		tt, _, err := v.Integ.Range(pj, 0, v.SourceIdx-1, pj, zCap)
		if err != nil {
			tt = 0
		}
		tau[j] = tt
	}
	return
}

// unitsReplacementSplitKm sets the depth-dependent switch between the 5- and
// 6-point analytic reconstructions: sources deeper than half this depth get
// the 6-point form.
const unitsReplacementSplitKm = 30.0
