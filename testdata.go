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

package maces

// TransectTestData returns a small transect and one step of driving data
// for use in testing the accretion mechanisms. The transect runs from a
// subtidal flat through a vegetated marsh platform to an upland cell, so
// that mechanism tests cover cells on both sides of the inundation and
// cover-type gates.
func TransectTestData() (*Platform, *Forcing) {
	x := []float64{0, 100, 200, 300, 400, 500, 600}
	zh := []float64{-0.8, -0.2, 0.05, 0.2, 0.35, 0.45, 1.5}
	pft := []PFT{TidalFlat, TidalFlat, SaltMarsh, SaltMarsh, BrackishMarsh, Mangrove, NeedleEvergreen}
	p, err := NewPlatform(x, zh, pft)
	if err != nil {
		panic(err)
	}
	f := &Forcing{
		TR:    1.0,
		MHHW:  0.7,
		Tair:  288.15,
		Tsoi:  286.15,
		Day:   152,
		Month: 6,
		Dt:    SecondsPerDay,
	}
	return p, f
}
