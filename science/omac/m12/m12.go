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

// Package m12 contains the Morris et al. (2012) accretion mechanism:
// the quadratic depth-below-high-tide biomass curve combined with
// deposition of the refractory fraction of the turning-over root pool.
package m12

import (
	"fmt"
	"math"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
)

// Mechanism fulfils the github.com/changliao1025/MACES.OrganicMechanism
// interface.
type Mechanism struct {
	aa, bb, cc [maces.NPFT]float64
	kr         [maces.NPFT]float64 // refractory fraction of root and rhizome biomass
	tr         [maces.NPFT]float64 // root and rhizome turnover time [yr]
	phi        [maces.NPFT]float64 // root:shoot quotient
}

var _ maces.OrganicMechanism = (*Mechanism)(nil)

// NewMechanism builds the mechanism from the parameter table t. The
// turnover time Tr must be positive for every marsh and mangrove type.
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
	if m.kr, err = t.PerPFT("Kr", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.tr, err = t.PerPFT("Tr", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	for _, pft := range maces.VegetatedPFTs {
		if m.tr[pft] <= 0 {
			return nil, fmt.Errorf("m12: non-positive root turnover time for plant function type %d", pft)
		}
	}
	if m.phi, err = t.PerPFT("phi", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	return &m, nil
}

// OrganicDeposition calculates the deposition flux as the refractory
// fraction Kr of the root pool phi·Bag divided by the root turnover
// time. Cells without standing biomass get zero flux.
func (m *Mechanism) OrganicDeposition(p *maces.Platform, f *maces.Forcing) {
	for _, c := range p.Cells {
		c.DepOM = 0
		if c.Bag > 0 {
			c.DepOM = m.kr[c.PFT] * (m.phi[c.PFT] * c.Bag) /
				(m.tr[c.PFT] * maces.SecondsPerYear)
		}
	}
}

// AbovegroundBiomass updates the biomass of the vegetated cells between
// mean sea level and mean high tide as a quadratic saturating function
// of the depth below mean high tide.
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
