/*
Copyright © 2019 the MACES authors.
This file is part of MACES.

MACES is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MACES is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MACES.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package vdk05 contains the van de Koppel et al. (2005) biomass-only
// accretion mechanism: logistic growth limited by elevation, with
// senescence and wave-damage mortality, and no organic deposition.
package vdk05

import (
	"fmt"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
	"github.com/changliao1025/MACES/science/growth"
)

// Mechanism fulfils the github.com/changliao1025/MACES.OrganicMechanism
// interface.
type Mechanism struct {
	rB0  [maces.NPFT]float64 // intrinsic growth rate [yr-1]
	bmax [maces.NPFT]float64 // maximal standing biomass [kg m-2]
	czh  [maces.NPFT]float64 // half-saturation elevation constant [m]
	dP   [maces.NPFT]float64 // mortality due to senescence [yr-1]
	dB   [maces.NPFT]float64 // mortality due to wave damage [yr-1 per unit slope]
}

var _ maces.OrganicMechanism = (*Mechanism)(nil)

// NewMechanism builds the mechanism from the parameter table t.
func NewMechanism(t *params.Table) (*Mechanism, error) {
	var m Mechanism
	var err error
	if m.rB0, err = t.PerPFT("rB0", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.bmax, err = t.PerPFT("Bmax", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	for _, pft := range maces.VegetatedPFTs {
		if m.bmax[pft] <= 0 {
			return nil, fmt.Errorf("vdk05: non-positive Bmax for plant function type %d", pft)
		}
	}
	if m.czh, err = t.PerPFT("czh", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.dP, err = t.PerPFT("dP", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.dB, err = t.PerPFT("dB", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	return &m, nil
}

// OrganicDeposition sets the organic deposition flux of every cell to
// zero; this mechanism models biomass only.
func (m *Mechanism) OrganicDeposition(p *maces.Platform, f *maces.Forcing) {
	for _, c := range p.Cells {
		c.DepOM = 0
	}
}

// AbovegroundBiomass advances the biomass of every vegetated cell by one
// semi-implicit trapezoidal step of the logistic growth/mortality rate
// equation. There is no elevation gate: the elevation enters through the
// saturating growth limitation max(zh,0)/(max(zh,0)+czh).
func (m *Mechanism) AbovegroundBiomass(p *maces.Platform, f *maces.Forcing) {
	dtYr := f.Dt / maces.SecondsPerYear
	for _, c := range p.Cells {
		if !c.PFT.Vegetated() {
			continue
		}
		zh := c.Zh
		if zh < 0 {
			zh = 0
		}
		a := m.rB0[c.PFT]*(1-c.Bag/m.bmax[c.PFT])*(zh/(zh+m.czh[c.PFT])) -
			m.dP[c.PFT] - m.dB[c.PFT]*c.S
		c.Bag = growth.SemiImplicit(c.Bag, a, dtYr)
	}
}
