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

// Package nullmod contains the zero-deposition baseline accretion
// mechanism: no organic matter ever reaches the soil column, and the
// standing biomass follows the Morris et al. (2012) quadratic depth
// curve. It is used for "no organic accretion" control runs.
package nullmod

import (
	"math"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
)

// Mechanism fulfils the github.com/changliao1025/MACES.OrganicMechanism
// interface.
type Mechanism struct {
	aa, bb, cc [maces.NPFT]float64
}

var _ maces.OrganicMechanism = (*Mechanism)(nil)

// NewMechanism builds the baseline mechanism from the parameter table t.
// The quadratic coefficients aa [kg m-3], bb [kg m-4] and cc [kg m-2]
// must be defined for every marsh and mangrove type.
func NewMechanism(t *params.Table) (*Mechanism, error) {
	var m Mechanism
	var err error
	if m.aa, err = t.PerPFT("aa", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.bb, err = t.PerPFT("bb", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.cc, err = t.PerPFT("cc", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	return &m, nil
}

// OrganicDeposition sets the organic deposition flux of every cell to
// zero.
func (m *Mechanism) OrganicDeposition(p *maces.Platform, f *maces.Forcing) {
	for _, c := range p.Cells {
		c.DepOM = 0
	}
}

// AbovegroundBiomass updates the aboveground biomass of the vegetated
// cells between mean sea level and mean high tide as a quadratic
// saturating function of the depth below mean high tide.
func (m *Mechanism) AbovegroundBiomass(p *maces.Platform, f *maces.Forcing) {
	mht := f.MHT()
	for _, c := range p.Cells {
		if c.Zh < 0 || c.Zh > mht || !c.PFT.Vegetated() {
			continue
		}
		d := mht - c.Zh
		c.Bag = math.Max(0, m.aa[c.PFT]*d+m.bb[c.PFT]*d*d+m.cc[c.PFT])
	}
}
