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

// Package maces implements the organic-matter accretion kernel of a
// one-dimensional coastal wetland (marsh and mangrove) transect model.
// Interchangeable accretion mechanisms live in the science subdirectories;
// this package holds the transect state, the mechanism contracts, the
// driving data, and the simulation driver.
package maces

import (
	"fmt"
	"reflect"
)

// Version gives the version of this copy of the model.
const Version = "0.2.0"

// PFT is a platform vegetation-cover (plant function type) code.
type PFT int

// Platform plant function types.
const (
	Barrier        PFT = iota // uninhabitable barriers (roads, dykes, harbors and etc)
	TidalFlat                 // unvegetated tidal flats
	SaltMarsh                 // salt marshes
	BrackishMarsh             // brackish marshes
	FreshMarsh                // freshwater marshes
	Mangrove                  // mangroves
	NeedleEvergreen           // needleleaf evergreen trees
	NeedleDeciduous           // needleleaf deciduous trees; the upstream
	// datasets also file broadleaf evergreen trees under this code.
	BroadDeciduous // broadleaf deciduous trees
)

// NPFT is the number of distinct plant function type codes.
const NPFT = 9

// VegetatedPFTs lists the marsh and mangrove types that the organic
// accretion equations apply to.
var VegetatedPFTs = []PFT{SaltMarsh, BrackishMarsh, FreshMarsh, Mangrove}

// MarshPFTs lists the marsh types only.
var MarshPFTs = []PFT{SaltMarsh, BrackishMarsh, FreshMarsh}

// Vegetated reports whether p is a marsh or mangrove type.
func (p PFT) Vegetated() bool { return p >= SaltMarsh && p <= Mangrove }

// Marsh reports whether p is one of the marsh types.
func (p PFT) Marsh() bool { return p >= SaltMarsh && p <= FreshMarsh }

// Valid reports whether p is within the closed enumeration.
func (p PFT) Valid() bool { return p >= Barrier && p < NPFT }

// Indices of the belowground soil organic matter pools.
const (
	LabilePool = iota
	RefractoryPool
	NPool
)

// Cell holds the state of a single transect grid cell. The biogeochemistry
// mechanisms mutate Bag, Bbg, DepOM, DecayOM and (for mechanisms that track
// soil carbon) read OM; X, Zh and PFT are owned by the geomorphology driver.
type Cell struct {
	X   float64 `desc:"Along-transect coordinate" units:"m"`
	Zh  float64 `desc:"Surface elevation relative to mean sea level" units:"m"`
	S   float64 `desc:"Local platform surface slope" units:"m m-1"`
	PFT PFT     `desc:"Platform vegetation cover type" units:"category"`

	Bag float64 `desc:"Aboveground biomass" units:"kg m-2"`
	Bbg float64 `desc:"Belowground biomass" units:"kg m-2"`

	// Labile and refractory belowground soil organic matter [kg m-2].
	OM [NPool]float64

	DepOM float64 `desc:"Organic matter deposition rate" units:"kg m-2 s-1"`

	// Mineralization rate of the two OM pools [kg m-2 s-1].
	DecayOM [NPool]float64

	Row int // index of this cell within the transect
}

// omLabels maps output variable names to OM pool fields, which the
// reflection lookup in Value cannot reach on its own.
var omLabels = map[string]func(*Cell) float64{
	"LabileOM":        func(c *Cell) float64 { return c.OM[LabilePool] },
	"RefractoryOM":    func(c *Cell) float64 { return c.OM[RefractoryPool] },
	"LabileDecay":     func(c *Cell) float64 { return c.DecayOM[LabilePool] },
	"RefractoryDecay": func(c *Cell) float64 { return c.DecayOM[RefractoryPool] },
}

var omUnits = map[string]string{
	"LabileOM":        "kg m-2",
	"RefractoryOM":    "kg m-2",
	"LabileDecay":     "kg m-2 s-1",
	"RefractoryDecay": "kg m-2 s-1",
}

// Value returns the value of the named model variable in this cell.
func (c *Cell) Value(varName string) (float64, error) {
	if f, ok := omLabels[varName]; ok {
		return f(c), nil
	}
	if varName == "PFT" {
		return float64(c.PFT), nil
	}
	val := reflect.Indirect(reflect.ValueOf(c))
	fv := val.FieldByName(varName)
	if !fv.IsValid() || fv.Kind() != reflect.Float64 {
		return 0, fmt.Errorf("maces: undefined variable name '%s'", varName)
	}
	return fv.Float(), nil
}

// Platform is a one-dimensional coastal wetland transect. The cell buffers
// are allocated once for a model run; each mechanism call mutates a subset
// of the cell fields in place and leaves the rest untouched.
type Platform struct {
	Cells []*Cell
}

// NewPlatform creates a transect from index-aligned coordinate, elevation
// and cover-type arrays. The coordinates must be strictly increasing.
func NewPlatform(x, zh []float64, pft []PFT) (*Platform, error) {
	if len(x) != len(zh) || len(x) != len(pft) {
		return nil, fmt.Errorf("maces: mismatched transect arrays: len(x)=%d, len(zh)=%d, len(pft)=%d",
			len(x), len(zh), len(pft))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("maces: empty transect")
	}
	p := &Platform{Cells: make([]*Cell, len(x))}
	for i := range x {
		if i > 0 && x[i] <= x[i-1] {
			return nil, fmt.Errorf("maces: transect coordinates not increasing at index %d (%g after %g)",
				i, x[i], x[i-1])
		}
		if !pft[i].Valid() {
			return nil, fmt.Errorf("maces: invalid plant function type %d at index %d", pft[i], i)
		}
		p.Cells[i] = &Cell{X: x[i], Zh: zh[i], PFT: pft[i], Row: i}
	}
	p.ComputeSlope()
	return p, nil
}

// Len returns the number of cells in the transect.
func (p *Platform) Len() int { return len(p.Cells) }

// ComputeSlope recalculates the surface slope of every cell from the
// current elevation profile, using central differences in the interior
// and one-sided differences at the transect ends.
func (p *Platform) ComputeSlope() {
	n := len(p.Cells)
	if n == 1 {
		p.Cells[0].S = 0
		return
	}
	for i, c := range p.Cells {
		switch i {
		case 0:
			c.S = (p.Cells[1].Zh - c.Zh) / (p.Cells[1].X - c.X)
		case n - 1:
			c.S = (c.Zh - p.Cells[n-2].Zh) / (c.X - p.Cells[n-2].X)
		default:
			c.S = (p.Cells[i+1].Zh - p.Cells[i-1].Zh) / (p.Cells[i+1].X - p.Cells[i-1].X)
		}
	}
}

// ToArray converts the named cell variable into a regular array.
func (p *Platform) ToArray(varName string) ([]float64, error) {
	o := make([]float64, len(p.Cells))
	for i, c := range p.Cells {
		v, err := c.Value(varName)
		if err != nil {
			return nil, err
		}
		o[i] = v
	}
	return o, nil
}

// Units returns the units of the named model variable.
func (p *Platform) Units(varName string) (string, error) {
	if u, ok := omUnits[varName]; ok {
		return u, nil
	}
	t := reflect.TypeOf(Cell{})
	ftype, ok := t.FieldByName(varName)
	if !ok {
		return "", fmt.Errorf("maces: undefined variable name '%s'", varName)
	}
	return ftype.Tag.Get("units"), nil
}

// OutputOptions returns the names and descriptions of the model variables
// that can be requested for output.
func (p *Platform) OutputOptions() (names, descriptions []string) {
	t := reflect.TypeOf(Cell{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		desc := f.Tag.Get("desc")
		if desc == "" {
			continue
		}
		names = append(names, f.Name)
		descriptions = append(descriptions, desc)
	}
	for _, v := range [][2]string{
		{"LabileOM", "Labile soil organic matter pool"},
		{"RefractoryOM", "Refractory soil organic matter pool"},
		{"LabileDecay", "Labile soil organic matter decay rate"},
		{"RefractoryDecay", "Refractory soil organic matter decay rate"},
	} {
		names = append(names, v[0])
		descriptions = append(descriptions, v[1])
	}
	return names, descriptions
}
