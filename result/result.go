// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package result implements the result container: an ordered
// collection of per-arrival records with sort/filter/finalize operations.
package result

import (
	"math"
	"sort"
	"strings"

	"github.com/globalseis/travt/units"
)

// Arrival is one travel-time arrival, enriched with phase-group flags and
// statistics beyond the raw branch.Arrival.
type Arrival struct {
	Phase       string
	UniquePhase string

	TimeSec    float64
	DTdDelta   float64
	DTdz       float64
	D2TdDelta2 float64

	IsPrimary   bool
	IsAuxiliary bool
	Regional    bool
	DepthDep    bool
	Downweight  bool
	Useless     bool
	CanUse      bool

	DeltaDeg      float64
	DepthKm       float64
	Spread        float64
	Observability float64
	DSpreadDDelta float64
	Bias          float64
}

// Container is the ordered collection of arrivals for one getTravelTime
// request.
type Container struct {
	Arrivals []Arrival
}

// New returns an empty container.
func New() *Container { return &Container{} }

// AddPhase appends an arrival.
func (c *Container) AddPhase(a Arrival) { c.Arrivals = append(c.Arrivals, a) }

// RemovePhase deletes the arrival at index i.
func (c *Container) RemovePhase(i int) {
	c.Arrivals = append(c.Arrivals[:i], c.Arrivals[i+1:]...)
}

// SortByTime sorts arrivals ascending by travel time.
func (c *Container) SortByTime() {
	sort.SliceStable(c.Arrivals, func(i, j int) bool {
		return c.Arrivals[i].TimeSec < c.Arrivals[j].TimeSec
	})
}

// Finalize composes the filter chain: sort, filterClosePhases,
// modifyCloseObservability, (optionally) filterBackBranches,
// (optionally) filterTectonicPhases, applyMiscFilters, modifyCanUse.
func (c *Container) Finalize(tectonic, returnBackBranches bool) {
	c.SortByTime()
	c.filterClosePhases()
	c.modifyCloseObservability()
	if !returnBackBranches {
		c.filterBackBranches()
	}
	if tectonic {
		c.filterTectonicPhases()
	}
	c.applyMiscFilters()
	c.modifyCanUse()
}

// filterClosePhases collapses same-named arrivals closer than the merge
// tolerance into one.
func (c *Container) filterClosePhases() {
	var kept []Arrival
	for _, a := range c.Arrivals {
		if n := len(kept); n > 0 && kept[n-1].Phase == a.Phase && math.Abs(kept[n-1].TimeSec-a.TimeSec) < units.ClosePhaseMergeSec {
			continue
		}
		kept = append(kept, a)
	}
	c.Arrivals = kept
}

// modifyCloseObservability reduces the observability of a later arrival
// falling within the observability shadow of an earlier one via a
// half-cosine lobe.
func (c *Container) modifyCloseObservability() {
	for i := 1; i < len(c.Arrivals); i++ {
		dt := c.Arrivals[i].TimeSec - c.Arrivals[i-1].TimeSec
		if dt >= 0 && dt < units.ObservabilityShadowSec {
			lobe := 0.5 * (1 + math.Cos(math.Pi*dt/units.ObservabilityShadowSec))
			c.Arrivals[i].Observability *= (1 - lobe)
		}
	}
}

// filterBackBranches keeps only the earliest arrival of each phase name.
func (c *Container) filterBackBranches() {
	seen := make(map[string]bool, len(c.Arrivals))
	var kept []Arrival
	for _, a := range c.Arrivals {
		if seen[a.Phase] {
			continue
		}
		seen[a.Phase] = true
		kept = append(kept, a)
	}
	c.Arrivals = kept
}

// filterTectonicPhases renames Pb->Pg and Sb->Sg outside a 'K' (core leg)
// context.
func (c *Container) filterTectonicPhases() {
	for i := range c.Arrivals {
		p := c.Arrivals[i].Phase
		if strings.Contains(p, "K") {
			continue
		}
		switch p {
		case "Pb":
			c.Arrivals[i].Phase = "Pg"
			c.Arrivals[i].UniquePhase = "Pg"
		case "Sb":
			c.Arrivals[i].Phase = "Sg"
			c.Arrivals[i].UniquePhase = "Sg"
		}
	}
}

// applyMiscFilters drops Sn beyond 30 degrees.
func (c *Container) applyMiscFilters() {
	var kept []Arrival
	for _, a := range c.Arrivals {
		if a.Phase == "Sn" && a.DeltaDeg > 30.0 {
			continue
		}
		kept = append(kept, a)
	}
	c.Arrivals = kept
}

// modifyCanUse clears the location-usable flag for arrivals whose spread is
// at or beyond the default usable spread, or whose observability vanishes.
func (c *Container) modifyCanUse() {
	for i := range c.Arrivals {
		if c.Arrivals[i].Spread >= units.DefaultSpreadUsableSec || c.Arrivals[i].Observability <= 0 {
			c.Arrivals[i].CanUse = false
		}
	}
}
