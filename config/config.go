// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config implements the ambient configuration layer: the on-disk
// file locations the auxiliary-data loader needs (model, phase-groups,
// statistics, ellipticity, and topography files) and the small set of
// numerical constants an operator may override, read from a JSON file the
// way a simulation description is read elsewhere in this codebase.
package config

import (
	"encoding/json"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// Files holds the on-disk locations of the reference data consumed through
// refdata.Loader; the out-of-scope auxiliary-data
// loader is the only thing that opens them.
type Files struct {
	ModelFile       string `json:"modelfile"`       // model table: P/S slowness grids, up-going tables, branch specs
	PhaseGroupsFile string `json:"phasegroupsfile"` // phase groups file
	StatsFile       string `json:"statsfile"`       // statistics file
	EllipticityFile string `json:"ellipticityfile"` // ellipticity file
	TopographyFile  string `json:"topographyfile"`  // topography file
}

// Config is the top-level configuration for one travt deployment.
type Config struct {
	Desc  string `json:"desc"`
	Files Files  `json:"files"`

	// Overrides holds named numerical-constant overrides as fun.Prm
	// records; any name not present keeps its normative default.
	Overrides fun.Prms `json:"overrides"`

	// resolved constants, after applying Overrides to the defaults.
	DepthFloorKm float64
	Eps          float64
	PwPConstSec  float64
}

// Default returns a Config with every constant at its normative value and
// no reference files configured.
func Default() *Config {
	return &Config{
		DepthFloorKm: 0.011,
		Eps:          1e-9,
		PwPConstSec:  -4.67,
	}
}

// Read loads a Config from a JSON file: read the bytes, seed defaults,
// then unmarshal over them so a partial file only overrides what it
// names.
func Read(path string) (*Config, error) {
	o := Default()
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("config: cannot read %q: %v", path, err)
	}
	if err := json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("config: cannot parse %q: %v", path, err)
	}
	if err := o.applyOverrides(); err != nil {
		return nil, err
	}
	return o, nil
}

// applyOverrides folds Overrides onto the resolved constants by name.
func (o *Config) applyOverrides() error {
	for _, p := range o.Overrides {
		switch strings.ToLower(p.N) {
		case "depthfloorkm":
			o.DepthFloorKm = p.V
		case "eps":
			o.Eps = p.V
		case "pwpconstsec":
			o.PwPConstSec = p.V
		default:
			return chk.Err("config: override named %q is not a recognized constant", p.N)
		}
	}
	return nil
}
