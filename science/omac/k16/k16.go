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

// Package k16 contains the Kakeh et al. (2016) accretion mechanism:
// per-type marsh growth laws plus a coupled two-variable allometric
// growth model for mangrove stands. A mechanism instance owns the stem
// diameter and height of the mangrove stands on the transect, so it must
// not be shared between simulations or called concurrently.
package k16

import (
	"fmt"
	"math"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
	"github.com/changliao1025/MACES/science/growth"
)

// Mechanism fulfils the github.com/changliao1025/MACES.OrganicMechanism
// interface and additionally models belowground biomass.
type Mechanism struct {
	bmax [maces.NPFT]float64 // maximum aboveground biomass [kg m-2]
	phi  [maces.NPFT]float64 // marsh root:shoot quotient

	gammaB float64 // biomass turnover deposition coefficient [m yr-1 m2 kg-1]
	rhoOM  float64 // organic matter density [kg m-3]
	gmgv   float64 // stem diameter growth rate [cm s-1]
	b2mgv  float64 // linear coefficient of the height-diameter relation
	b3mgv  float64 // quadratic coefficient of the height-diameter relation [cm-1]
	mdmax  float64 // maximum stem diameter [cm]
	mhmax  float64 // maximum tree height [cm]

	// Per-cell mangrove stand state, allocated at construction and
	// evolving monotonically forward for the lifetime of the instance.
	md []float64 // individual tree stem diameter [cm]
	mh []float64 // individual tree height [cm]
}

var (
	_ maces.OrganicMechanism   = (*Mechanism)(nil)
	_ maces.BelowgroundModeler = (*Mechanism)(nil)
)

// NewMechanism builds the mechanism from the parameter table t for a
// transect of nx cells. The mangrove stands are seeded with the Md0
// seedling diameter [cm], which must be positive: the allometric growth
// rate is proportional to the current diameter, so a stand started at
// zero would never grow and its inferred tree density would be
// undefined.
func NewMechanism(t *params.Table, nx int) (*Mechanism, error) {
	if nx <= 0 {
		return nil, fmt.Errorf("k16: non-positive transect size %d", nx)
	}
	var m Mechanism
	var err error
	if m.bmax, err = t.PerPFT("Bmax", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	for _, pft := range maces.MarshPFTs {
		if m.bmax[pft] <= 0 {
			return nil, fmt.Errorf("k16: non-positive Bmax for plant function type %d", pft)
		}
	}
	if m.phi, err = t.PerPFT("phi", maces.MarshPFTs); err != nil {
		return nil, err
	}
	var md0 float64
	for name, dst := range map[string]*float64{
		"gammaB": &m.gammaB, "rhoOM": &m.rhoOM, "Gmgv": &m.gmgv,
		"b2mgv": &m.b2mgv, "b3mgv": &m.b3mgv,
		"Mdmax": &m.mdmax, "Mhmax": &m.mhmax, "Md0": &md0,
	} {
		if *dst, err = t.Scalar(name); err != nil {
			return nil, err
		}
	}
	if m.mdmax <= 0 || m.mhmax <= 0 {
		return nil, fmt.Errorf("k16: non-positive mangrove size limits Mdmax=%g, Mhmax=%g", m.mdmax, m.mhmax)
	}
	if md0 <= 0 {
		return nil, fmt.Errorf("k16: non-positive mangrove seedling diameter Md0=%g", md0)
	}
	m.md = make([]float64, nx)
	m.mh = make([]float64, nx)
	for i := range m.md {
		m.md[i] = md0
		m.mh[i] = 137 + m.b2mgv*md0 + m.b3mgv*md0*md0
	}
	return &m, nil
}

// OrganicDeposition calculates the deposition flux of every cell as a
// constant turnover fraction of the standing biomass; there is no
// elevation or cover-type gate.
func (m *Mechanism) OrganicDeposition(p *maces.Platform, f *maces.Forcing) {
	for _, c := range p.Cells {
		c.DepOM = m.rhoOM * m.gammaB / maces.SecondsPerYear * c.Bag
	}
}

// AbovegroundBiomass updates the biomass of the cells between mean sea
// level and mean high tide, with three disjoint per-type branches:
// Spartina-dominated salt marshes and multi-species marshes advance a
// logistic rate equation by one semi-implicit trapezoidal step, while
// mangrove cells grow the stand allometry. The mangrove update order is
// fixed: diameter first, then height from the new diameter, then
// biomass from both.
func (m *Mechanism) AbovegroundBiomass(p *maces.Platform, f *maces.Forcing) {
	mht := f.MHT()
	for _, c := range p.Cells {
		if c.Zh < 0 || c.Zh > mht {
			continue
		}
		switch {
		case c.PFT == maces.SaltMarsh:
			// production and mortality rates [s-1]
			rz := (1 - 0.5*c.Zh/mht) / maces.SecondsPerYear
			mz := 0.5 * c.Zh / mht / maces.SecondsPerYear
			a := growth.Logistic(c.Bag, rz, mz, m.bmax[c.PFT])
			c.Bag = growth.SemiImplicit(c.Bag, a, f.Dt)
		case c.PFT == maces.BrackishMarsh || c.PFT == maces.FreshMarsh:
			// Rates here are already normalized per step; they are
			// deliberately not divided by the seconds in a year.
			rz := 0.5 * (1 + c.Zh/mht)
			mz := 0.5 * (1 - c.Zh/mht)
			a := growth.Logistic(c.Bag, rz, mz, m.bmax[c.PFT])
			c.Bag = growth.SemiImplicit(c.Bag, a, f.Dt)
		case c.PFT == maces.Mangrove:
			i := c.Row
			// relative submergence and parabolic inundation index
			sub := 1 - c.Zh/mht
			light := math.Max(4*sub-8*sub*sub+0.5, 0)
			m.md[i] += f.Dt * light * m.gmgv / m.mdmax / m.mhmax *
				m.md[i] * (1 - m.md[i]*m.mh[i]) /
				(274 + 3*m.b2mgv*m.md[i] - 4*m.b3mgv*m.md[i]*m.md[i])
			m.mh[i] = 137 + m.b2mgv*m.md[i] + m.b3mgv*m.md[i]*m.md[i]
			rout := 0.5 / m.md[i] // tree density [trees m-2]
			c.Bag = rout * 0.308 * math.Pow(m.md[i], 2.11)
		}
	}
}

// BelowgroundBiomass updates the root pool of the cells between mean sea
// level and mean high tide: marshes use the per-type root:shoot
// quotient, mangroves the stand-density allometric power law.
func (m *Mechanism) BelowgroundBiomass(p *maces.Platform, f *maces.Forcing) {
	mht := f.MHT()
	for _, c := range p.Cells {
		if c.Zh < 0 || c.Zh > mht {
			continue
		}
		switch {
		case c.PFT.Marsh():
			c.Bbg = m.phi[c.PFT] * c.Bag
		case c.PFT == maces.Mangrove:
			rout := 0.5 / m.md[c.Row]
			c.Bbg = rout * 1.28 * math.Pow(m.md[c.Row], 1.17)
		}
	}
}

// Diameter returns the current mangrove stem diameter [cm] at cell
// index i.
func (m *Mechanism) Diameter(i int) float64 { return m.md[i] }

// Height returns the current mangrove tree height [cm] at cell index i.
func (m *Mechanism) Height(i int) float64 { return m.mh[i] }
