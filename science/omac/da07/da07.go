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

// Package da07 contains the D'Alpaos et al. (2007) accretion mechanism:
// peak-season biomass scales linearly with depth below mean high tide
// and follows a smooth annual sinusoid between a winter floor and the
// peak; deposition scales linearly with the standing biomass.
package da07

import (
	"fmt"
	"math"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
)

// biomass below this tolerance produces no deposition
const tol = 1e-10

// Mechanism fulfils the github.com/changliao1025/MACES.OrganicMechanism
// interface.
type Mechanism struct {
	bmax  [maces.NPFT]float64 // maximum aboveground biomass [kg m-2]
	omega float64             // ratio of winter biomass to the seasonal peak
	mps   float64             // month of peak biomass
	qom0  float64             // typical OM deposition rate [m yr-1]
	rhoOM float64             // organic matter density [kg m-3]
}

var _ maces.OrganicMechanism = (*Mechanism)(nil)

// NewMechanism builds the mechanism from the parameter table t. Bmax
// must be positive for every marsh and mangrove type.
func NewMechanism(t *params.Table) (*Mechanism, error) {
	var m Mechanism
	var err error
	if m.bmax, err = t.PerPFT("Bmax", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	for _, pft := range maces.VegetatedPFTs {
		if m.bmax[pft] <= 0 {
			return nil, fmt.Errorf("da07: non-positive Bmax for plant function type %d", pft)
		}
	}
	if m.omega, err = t.Scalar("omega"); err != nil {
		return nil, err
	}
	if m.mps, err = t.Scalar("mps"); err != nil {
		return nil, err
	}
	if m.qom0, err = t.Scalar("Qom0"); err != nil {
		return nil, err
	}
	if m.rhoOM, err = t.Scalar("rhoOM"); err != nil {
		return nil, err
	}
	return &m, nil
}

// OrganicDeposition calculates the deposition flux of cells carrying
// biomass as the typical deposition rate scaled by the standing biomass
// relative to the type's maximum.
func (m *Mechanism) OrganicDeposition(p *maces.Platform, f *maces.Forcing) {
	for _, c := range p.Cells {
		c.DepOM = 0
		if c.Bag > tol {
			c.DepOM = m.qom0 / maces.SecondsPerYear * m.rhoOM * c.Bag / m.bmax[c.PFT]
		}
	}
}

// AbovegroundBiomass updates the biomass of the cells between mean sea
// level and mean high tide. The annual cycle is a sinusoid in the month
// of year between the winter floor omega·Bps and the elevation-scaled
// peak Bps, phase-shifted so that the peak falls in month mps.
func (m *Mechanism) AbovegroundBiomass(p *maces.Platform, f *maces.Forcing) {
	mht := f.MHT()
	mo := float64(f.Month)
	season := 0.5 * (1 - m.omega) * (math.Sin(math.Pi*mo/6-m.mps*math.Pi/12) + 1)
	for _, c := range p.Cells {
		if c.Zh < 0 || c.Zh > mht {
			continue
		}
		bps := (mht - c.Zh) / mht * m.bmax[c.PFT]
		c.Bag = season*bps + m.omega*bps
	}
}
