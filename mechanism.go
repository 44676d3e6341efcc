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

// OrganicMechanism is an interface for organic-matter accretion models.
// Exactly one mechanism is selected at configuration time and invoked once
// per simulation step. Every operation receives the full transect and the
// scalar driving data for the current step, and mutates the relevant cell
// fields in place: cells outside the operation's validity window keep their
// previous values, so callers must treat the buffers as partially updated
// rather than freshly computed.
type OrganicMechanism interface {
	// OrganicDeposition calculates the organic matter deposition rate
	// [kg m-2 s-1] and stores it in the DepOM field of every cell. The
	// deposition buffer is recomputed on each call; cells where the
	// mechanism does not apply get zero flux.
	OrganicDeposition(p *Platform, f *Forcing)

	// AbovegroundBiomass updates the standing aboveground biomass
	// [kg m-2] in the Bag field of the cells the mechanism applies to.
	AbovegroundBiomass(p *Platform, f *Forcing)
}

// BelowgroundModeler is implemented by organic mechanisms that track a
// root biomass pool in addition to the aboveground pool.
type BelowgroundModeler interface {
	// BelowgroundBiomass updates the belowground biomass [kg m-2] in
	// the Bbg field of the cells the mechanism applies to.
	BelowgroundBiomass(p *Platform, f *Forcing)
}

// SoilCarbonModeler is implemented by organic mechanisms that model the
// first-order decay of the two soil organic matter pools.
type SoilCarbonModeler interface {
	// SoilCarbonDecay calculates the mineralization rate [kg m-2 s-1]
	// of the labile and refractory OM pools and stores it in the
	// DecayOM field of every cell.
	SoilCarbonDecay(p *Platform, f *Forcing)
}

// MineralMechanism is an interface for mineral sediment accretion models.
// Implementations live outside this module; the contract is declared here
// so that the driver can treat mineral accretion as a sibling strategy of
// organic accretion.
type MineralMechanism interface {
	// MineralAccretion calculates the mineral accretion rate on the
	// platform from suspended sediment and hydrodynamic state.
	MineralAccretion(p *Platform, f *Forcing)
}

// ErosionMechanism is an interface for storm-surge erosion models,
// declared here for the same reason as MineralMechanism.
type ErosionMechanism interface {
	// WindErosion calculates the storm surge erosion rate of the
	// platform from the significant wave height.
	WindErosion(p *Platform, f *Forcing)
}

// MigrationMechanism is an interface for models of end-of-year landward
// migration of the wetland cover types, declared here for the same reason
// as MineralMechanism.
type MigrationMechanism interface {
	// LandwardMigration reassigns the platform cover types from the
	// inundation and salinity history of the past years.
	LandwardMigration(p *Platform, f *Forcing)
}
