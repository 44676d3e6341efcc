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

// Package km12 contains the Kirwan & Mudd (2012) accretion mechanism.
// It is the most elaborate of the family: temperature-forced seasonal
// biomass between mean sea level and mean higher-high water, mortality-
// driven organic deposition, a depth-dependent root pool, and two-pool
// first-order soil carbon decay.
package km12

import (
	"fmt"
	"math"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
)

// jdPhi is the phase shift in days between the peak growth rate and the
// peak biomass; growth peaks before biomass does.
const jdPhi = 56

// Mechanism fulfils the github.com/changliao1025/MACES.OrganicMechanism
// interface and additionally models belowground biomass and soil carbon
// decay.
type Mechanism struct {
	bmax    [maces.NPFT]float64 // maximum aboveground biomass [kg m-2]
	tref    [maces.NPFT]float64 // reference temperature for growth [K]
	sigmaB  [maces.NPFT]float64 // biomass increase with temperature [K-1]
	thetaBG [maces.NPFT]float64 // depth coefficient of the root:shoot quotient [m-1]
	dmbm    [maces.NPFT]float64 // offset of the root:shoot quotient

	rBmin float64 // ratio of winter biomass to the seasonal peak
	rGmin float64 // ratio of winter growth rate to the peak biomass [day-1]
	rGps  float64 // ratio of peak growth rate to the peak biomass [day-1]
	jdps  float64 // day of year of peak biomass

	kl0     float64 // column-integrated decay rate of the labile pool [yr-1]
	kr0     float64 // column-integrated decay rate of the refractory pool [yr-1]
	trefOM  float64 // reference temperature for decay [K]
	sigmaOM float64 // decay increase with temperature [K-1]
}

var (
	_ maces.OrganicMechanism   = (*Mechanism)(nil)
	_ maces.BelowgroundModeler = (*Mechanism)(nil)
	_ maces.SoilCarbonModeler  = (*Mechanism)(nil)
)

// NewMechanism builds the mechanism from the parameter table t.
func NewMechanism(t *params.Table) (*Mechanism, error) {
	var m Mechanism
	var err error
	if m.bmax, err = t.PerPFT("Bmax", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	for _, pft := range maces.VegetatedPFTs {
		if m.bmax[pft] <= 0 {
			return nil, fmt.Errorf("km12: non-positive Bmax for plant function type %d", pft)
		}
	}
	if m.tref, err = t.PerPFT("Tref", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.sigmaB, err = t.PerPFT("sigmaB", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.thetaBG, err = t.PerPFT("thetaBG", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	if m.dmbm, err = t.PerPFT("Dmbm", maces.VegetatedPFTs); err != nil {
		return nil, err
	}
	for name, dst := range map[string]*float64{
		"rBmin": &m.rBmin, "rGmin": &m.rGmin, "rGps": &m.rGps, "jdps": &m.jdps,
		"kl0": &m.kl0, "kr0": &m.kr0, "TrefOM": &m.trefOM, "sigmaOM": &m.sigmaOM,
	} {
		if *dst, err = t.Scalar(name); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// peakBiomass returns the temperature-forced peak-season biomass of cell
// c: the elevation-scaled maximum perturbed linearly by the air
// temperature anomaly.
func (m *Mechanism) peakBiomass(c *maces.Cell, f *maces.Forcing) float64 {
	return m.bmax[c.PFT] * (f.MHHW - c.Zh) / f.MHHW *
		(1 + (f.Tair-m.tref[c.PFT])*m.sigmaB[c.PFT])
}

// rootShoot returns the depth-dependent root:shoot quotient of cell c.
func (m *Mechanism) rootShoot(c *maces.Cell, f *maces.Forcing) float64 {
	return m.thetaBG[c.PFT]*(f.MHHW-c.Zh) + m.dmbm[c.PFT]
}

// OrganicDeposition calculates the deposition flux of the cells between
// mean sea level and mean higher-high water. The aboveground mortality
// flux is derived from the derivative of the seasonal biomass curve plus
// a seasonal blend of the growth rates, and is routed belowground with
// the root:shoot quotient.
func (m *Mechanism) OrganicDeposition(p *maces.Platform, f *maces.Forcing) {
	jd := float64(f.Day)
	for _, c := range p.Cells {
		c.DepOM = 0
		if c.Zh < 0 || c.Zh > f.MHHW {
			continue
		}
		phi := m.rootShoot(c, f)
		bps := m.peakBiomass(c, f)
		bmin := m.rBmin * bps
		gmin := m.rGmin / maces.SecondsPerDay * bps
		gps := m.rGps / maces.SecondsPerDay * bps
		// aboveground mortality rate [kg m-2 s-1]
		mag := 0.5*(gmin+gps+(gps-gmin)*math.Cos(2*math.Pi*(jd-m.jdps+jdPhi)/maces.DaysPerYear)) +
			math.Pi/maces.DaysPerYear*(bps-bmin)*math.Sin(2*math.Pi*(jd-m.jdps)/maces.DaysPerYear)
		c.DepOM = math.Max(phi, 0) * math.Max(mag, 0)
	}
}

// AbovegroundBiomass updates the biomass of the cells between mean sea
// level and mean higher-high water as a cosine interpolation between the
// winter floor and the temperature-forced seasonal peak.
func (m *Mechanism) AbovegroundBiomass(p *maces.Platform, f *maces.Forcing) {
	jd := float64(f.Day)
	season := math.Cos(2 * math.Pi * (jd - m.jdps) / maces.DaysPerYear)
	for _, c := range p.Cells {
		if c.Zh < 0 || c.Zh > f.MHHW {
			continue
		}
		bps := m.peakBiomass(c, f)
		bmin := m.rBmin * bps
		c.Bag = math.Max(0.5*(bmin+bps+(bps-bmin)*season), 0)
	}
}

// BelowgroundBiomass updates the root pool of the cells between mean sea
// level and mean higher-high water using the depth-dependent root:shoot
// quotient.
func (m *Mechanism) BelowgroundBiomass(p *maces.Platform, f *maces.Forcing) {
	for _, c := range p.Cells {
		if c.Zh < 0 || c.Zh > f.MHHW {
			continue
		}
		c.Bbg = math.Max(m.rootShoot(c, f), 0) * math.Max(c.Bag, 0)
	}
}

// SoilCarbonDecay calculates the mineralization rate of the labile and
// refractory soil organic matter pools of every cell, each decaying
// first-order at a soil-temperature-modulated rate. There is no floor
// here: soil temperatures far below the reference can reverse the
// apparent decay.
func (m *Mechanism) SoilCarbonDecay(p *maces.Platform, f *maces.Forcing) {
	tmod := 1 + (f.Tsoi-m.trefOM)*m.sigmaOM
	for _, c := range p.Cells {
		c.DecayOM[maces.LabilePool] = tmod * m.kl0 / maces.SecondsPerYear * c.OM[maces.LabilePool]
		c.DecayOM[maces.RefractoryPool] = tmod * m.kr0 / maces.SecondsPerYear * c.OM[maces.RefractoryPool]
	}
}
