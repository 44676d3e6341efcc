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

package km12

import (
	"math"
	"strings"
	"testing"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
)

const testNamelist = `<maces version="1.0">
  <omac model="KM12MOD">
    <param name="Bmax" units="kg m-2">2.5</param>
    <param name="Tref" units="K">293.15</param>
    <param name="sigmaB" units="K-1">0.01</param>
    <param name="thetaBG" units="m-1">0.5</param>
    <param name="Dmbm">1.0</param>
    <param name="rBmin">0.3</param>
    <param name="rGmin" units="day-1">0.001</param>
    <param name="rGps" units="day-1">0.01</param>
    <param name="jdps">213</param>
    <param name="kl0" units="yr-1">1.2</param>
    <param name="kr0" units="yr-1">0.1</param>
    <param name="TrefOM" units="K">288.15</param>
    <param name="sigmaOM" units="K-1">0.02</param>
  </omac>
</maces>`

func testMechanism(t *testing.T) *Mechanism {
	tab, err := params.Load(strings.NewReader(testNamelist), "KM12MOD")
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMechanism(tab)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func singleCell(t *testing.T, zh float64) *maces.Platform {
	p, err := maces.NewPlatform([]float64{0}, []float64{zh}, []maces.PFT{maces.SaltMarsh})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAbovegroundBiomassPeakDay(t *testing.T) {
	const tolerance = 1.e-12
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	f := &maces.Forcing{TR: 1.0, MHHW: 0.7, Tair: 293.15, Day: 213}

	m.AbovegroundBiomass(p, f)

	// at the reference temperature on the peak day, Bag = Bps
	bps := 2.5 * (0.7 - 0.2) / 0.7
	if math.Abs(p.Cells[0].Bag-bps) > tolerance {
		t.Errorf("got %g, want %g", p.Cells[0].Bag, bps)
	}
}

func TestAbovegroundBiomassWinterFloor(t *testing.T) {
	const tolerance = 1.e-9
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	// half a year from the peak the cosine reaches its minimum
	f := &maces.Forcing{TR: 1.0, MHHW: 0.7, Tair: 293.15, Day: 213 - 182}

	m.AbovegroundBiomass(p, f)

	bps := 2.5 * (0.7 - 0.2) / 0.7
	got := p.Cells[0].Bag
	// 182.5 days is not representable, so the floor is only approximate
	if got < 0.3*bps-tolerance || got > 0.31*bps {
		t.Errorf("got %g, want about %g", got, 0.3*bps)
	}
}

// The seasonal cycle repeats after 365 days.
func TestSeasonalPeriodicity(t *testing.T) {
	const tolerance = 1.e-12
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	f := &maces.Forcing{TR: 1.0, MHHW: 0.7, Tair: 290.0, Day: 100}

	m.AbovegroundBiomass(p, f)
	m.OrganicDeposition(p, f)
	bag, dep := p.Cells[0].Bag, p.Cells[0].DepOM

	f.Day = 100 + 365
	m.AbovegroundBiomass(p, f)
	m.OrganicDeposition(p, f)
	if math.Abs(p.Cells[0].Bag-bag) > tolerance {
		t.Errorf("biomass after one period: got %g, want %g", p.Cells[0].Bag, bag)
	}
	if math.Abs(p.Cells[0].DepOM-dep) > tolerance*math.Abs(dep) {
		t.Errorf("deposition after one period: got %g, want %g", p.Cells[0].DepOM, dep)
	}
}

// Warmer peak seasons carry more biomass.
func TestTemperatureForcing(t *testing.T) {
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	f := &maces.Forcing{TR: 1.0, MHHW: 0.7, Tair: 293.15, Day: 213}
	m.AbovegroundBiomass(p, f)
	cool := p.Cells[0].Bag

	f.Tair = 296.15
	m.AbovegroundBiomass(p, f)
	if p.Cells[0].Bag <= cool {
		t.Errorf("warm-season biomass %g not above %g", p.Cells[0].Bag, cool)
	}
}

// The inundation gate runs on mean higher-high water, not mean high
// tide, and has no cover-type component.
func TestGate(t *testing.T) {
	m := testMechanism(t)
	p, f := maces.TransectTestData()
	for _, c := range p.Cells {
		c.Bag = 0.7
		c.Bbg = 0.4
		c.DepOM = 1e-8
	}
	m.OrganicDeposition(p, f)
	m.AbovegroundBiomass(p, f)
	m.BelowgroundBiomass(p, f)
	for i, c := range p.Cells {
		if c.Zh < 0 || c.Zh > f.MHHW {
			if c.Bag != 0.7 || c.Bbg != 0.4 {
				t.Errorf("cell %d (zh=%g): outside the gate but updated", i, c.Zh)
			}
			if c.DepOM != 0 {
				t.Errorf("cell %d (zh=%g): stale deposition not cleared", i, c.Zh)
			}
		}
	}
}

func TestOrganicDepositionNonNegative(t *testing.T) {
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	for day := 1; day <= 365; day++ {
		f := &maces.Forcing{TR: 1.0, MHHW: 0.7, Tair: 290.0, Day: day}
		m.OrganicDeposition(p, f)
		if p.Cells[0].DepOM < 0 {
			t.Fatalf("day %d: negative deposition %g", day, p.Cells[0].DepOM)
		}
	}
}

func TestBelowgroundBiomass(t *testing.T) {
	const tolerance = 1.e-12
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	f := &maces.Forcing{TR: 1.0, MHHW: 0.7}
	c := p.Cells[0]
	c.Bag = 1.5

	m.BelowgroundBiomass(p, f)

	// Bbg = (thetaBG·(MHHW − zh) + Dmbm)·Bag
	want := (0.5*(0.7-0.2) + 1.0) * 1.5
	if math.Abs(c.Bbg-want) > tolerance {
		t.Errorf("got %g, want %g", c.Bbg, want)
	}
}

func TestSoilCarbonDecay(t *testing.T) {
	const tolerance = 1.e-12
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	c := p.Cells[0]
	c.OM[maces.LabilePool] = 2.0
	c.OM[maces.RefractoryPool] = 10.0
	f := &maces.Forcing{TR: 1.0, MHHW: 0.7, Tsoi: 293.15}

	m.SoilCarbonDecay(p, f)

	tmod := 1 + (293.15-288.15)*0.02
	wantL := tmod * 1.2 / maces.SecondsPerYear * 2.0
	wantR := tmod * 0.1 / maces.SecondsPerYear * 10.0
	if math.Abs(c.DecayOM[maces.LabilePool]-wantL) > tolerance*wantL {
		t.Errorf("labile decay: got %g, want %g", c.DecayOM[maces.LabilePool], wantL)
	}
	if math.Abs(c.DecayOM[maces.RefractoryPool]-wantR) > tolerance*wantR {
		t.Errorf("refractory decay: got %g, want %g", c.DecayOM[maces.RefractoryPool], wantR)
	}
}

// Soil far below the reference temperature turns the apparent decay
// negative; the rate is passed through unclamped.
func TestSoilCarbonDecayColdSoil(t *testing.T) {
	m := testMechanism(t)
	p := singleCell(t, 0.2)
	c := p.Cells[0]
	c.OM[maces.LabilePool] = 2.0
	f := &maces.Forcing{TR: 1.0, MHHW: 0.7, Tsoi: 288.15 - 60}

	m.SoilCarbonDecay(p, f)
	if c.DecayOM[maces.LabilePool] >= 0 {
		t.Errorf("got %g, want a negative rate", c.DecayOM[maces.LabilePool])
	}
}
