// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package refdata holds the immutable reference data types and the narrow
// interface through which the out-of-scope auxiliary-data loader (phase
// groups, statistics, ellipticity tables, bounce-point topography, and the
// tau-p model file itself) is consumed as a read-only lookup service.
// Parsing the on-disk formats is the loader's job, not this module's;
// travt only defines what it needs to read.
package refdata

import "github.com/globalseis/travt/units"

// ModelSample is one (z, p, upIndex) row of a per-wave-type slowness model.
type ModelSample struct {
	Z       float64 // normalized flattened depth, strictly decreasing
	P       float64 // normalized slowness, non-increasing
	UpIndex int     // index into the up-going tables, -1 if not sampled
}

// Model is the per-wave-type slowness-vs-flattened-depth table.
type Model struct {
	Wave    units.WaveType
	Samples []ModelSample
}

// UpGoing is the per-wave-type global up-going reference: a global
// p-grid plus, for each sampled source depth, tau/x contributions of a
// surface-to-that-depth ray.
type UpGoing struct {
	Wave units.WaveType
	P    []float64 // global p-grid, non-increasing

	// TauUp[d][i] / XUp[d][i] are tau/x contributions for the source-depth
	// sample d at p-grid index i.
	TauUp [][]float64
	XUp   [][]float64

	// BranchEndSlowness lists the branch-endpoint slownesses at which
	// distance jumps are sampled.
	BranchEndSlowness []float64
}

// Branch is the surface-focus reference for one named branch.
type Branch struct {
	Phase       string         // phase code, e.g. "PcP", "pwP"
	Segment     string         // segment code
	Legs        [3]units.WaveType // up to three leg wave types; unused legs repeat the last
	NumLegs     int
	Sign        float64 // +1 surface reflection, -1 direct down-going
	Count       int     // mantle-traversal count
	PMin, PMax  float64
	DeltaMin    float64
	DeltaMax    float64
	P           []float64 // reference p-grid
	Tau         []float64 // reference tau at P
	X           []float64 // reference distance at branch endpoints (len 2: [pMin, pMax] contributions) or per-sample
	BasisReady  bool      // whether precomputed B-spline basis coefficients are valid as-is

	DiffX    float64 // optional diffraction extension x_diff; 0 if absent
	HasDiff  bool

	AddOn   string // "", "pwP", "Lg", "LR", "PKPpre"
	Shell   string // shell name
	TurnMin float64
	TurnMax float64
}

// PhaseGroups is the phase-groups file content: five fixed groups plus
// primary/auxiliary pairs.
type PhaseGroups struct {
	Regional   map[string]bool
	Depth      map[string]bool
	Downweight map[string]bool
	CanUse     map[string]bool
	Useless    map[string]bool

	// Primary maps a phase code to its primary group name; Auxiliary maps
	// a phase code to its auxiliary group name. A phase belongs to exactly
	// one of the two.
	Primary   map[string]string
	Auxiliary map[string]string

	// GroupMembers maps a group name (primary or auxiliary) to its member
	// phase codes, and AuxCompanion/PriCompanion link a primary group name
	// to its auxiliary companion and back.
	GroupMembers map[string][]string
	AuxCompanion map[string]string
	PriCompanion map[string]string
}

// StatBreakPoint is one row of a phase's piecewise-linear statistics fit.
type StatBreakPoint struct {
	DegreesDelta float64
	Bias         float64
	Spread       float64
	Observ       float64
	BreakBias    bool
	BreakSpread  bool
	BreakObserv  bool
}

// PhaseStats is the per-phase statistics table.
type PhaseStats struct {
	Phase         string
	MinDeg, MaxDeg float64
	Points        []StatBreakPoint
}

// EllipticityTable is the per-phase ellipticity table: t0/t1/t2 at fixed
// depths {0,100,200,300,500,700} across a distance grid.
type EllipticityTable struct {
	Phase          string
	MinDeg, MaxDeg float64
	Depths         []float64 // fixed depth nodes, km
	Dist           []float64 // distance grid, degrees
	T0, T1, T2     [][]float64 // [depthIndex][distIndex]
}

// Topography is the bounce-point elevation grid (km; +land, -ocean).
type Topography struct {
	LatMin, LatStep float64
	LonMin, LonStep float64
	NLat, NLon      int
	Elev            [][]float64 // [latIndex][lonIndex]
}

// Loader is the read-only lookup service for all reference data. An
// out-of-scope collaborator (the offline table builder + auxiliary-data
// loader) implements it; travt only consumes it.
type Loader interface {
	Model(wave units.WaveType) (*Model, error)
	UpGoing(wave units.WaveType) (*UpGoing, error)
	Branches() ([]*Branch, error)
	PhaseGroups() (*PhaseGroups, error)
	Stats(phase string) (*PhaseStats, error)
	Ellipticity(phase string) (*EllipticityTable, error)
	Topography() (*Topography, error)
}
