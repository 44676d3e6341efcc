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

import (
	"fmt"
	"io"
	"time"

	"github.com/gonum/floats"
)

// DomainManipulator is a class of functions that operate on the entire
// simulation domain once per time step.
type DomainManipulator func(s *Simulation) error

// CellManipulator is a class of functions that operate on a single grid
// cell with the driving data of the current step.
type CellManipulator func(c *Cell, f *Forcing)

// Simulation holds the state of a transect simulation. The biogeochemistry
// kernel itself is synchronous and single-threaded; each step runs the
// RunFuncs in order against the current driving data.
type Simulation struct {
	// Platform is the transect being simulated.
	Platform *Platform

	// Forcing holds the driving-data time series.
	Forcing *ForcingData

	// Mechanism is the organic accretion model selected for this run.
	Mechanism OrganicMechanism

	// Functions for initializing the simulation.
	InitFuncs []DomainManipulator

	// Functions to run at each time step.
	RunFuncs []DomainManipulator

	// Functions to run after the simulation is finished.
	CleanupFuncs []DomainManipulator

	// Step is the index of the current time step.
	Step int

	// Done specifies whether the simulation is finished.
	Done bool

	f *Forcing // driving data for the current step
}

// Init initializes the simulation.
func (s *Simulation) Init() error {
	if s.Platform == nil {
		return fmt.Errorf("maces: simulation has no platform")
	}
	if s.Mechanism == nil {
		return fmt.Errorf("maces: simulation has no organic mechanism")
	}
	for _, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Run runs the simulation until the driving data is exhausted or a run
// function sets Done.
func (s *Simulation) Run() error {
	if s.Forcing == nil || s.Forcing.Len() == 0 {
		return fmt.Errorf("maces: simulation has no driving data")
	}
	for !s.Done {
		f, err := s.Forcing.StepForcing(s.Step)
		if err != nil {
			return err
		}
		s.f = f
		for _, fn := range s.RunFuncs {
			if err := fn(s); err != nil {
				return err
			}
		}
		s.Step++
		if s.Step >= s.Forcing.Len() {
			s.Done = true
		}
	}
	return nil
}

// Cleanup runs the cleanup functions.
func (s *Simulation) Cleanup() error {
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// CurrentForcing returns the driving data of the step being calculated.
func (s *Simulation) CurrentForcing() *Forcing { return s.f }

// UpdateSlope returns a function that refreshes the platform surface
// slopes from the current elevation profile. It should run before any
// mechanism that reads cell slopes.
func UpdateSlope() DomainManipulator {
	return func(s *Simulation) error {
		s.Platform.ComputeSlope()
		return nil
	}
}

// Accretion returns a function that runs the organic accretion operations
// of the selected mechanism in their fixed order: deposition from the
// standing biomass of the previous step, then the aboveground update, then
// the optional belowground and soil-carbon operations.
func Accretion() DomainManipulator {
	return func(s *Simulation) error {
		s.Mechanism.OrganicDeposition(s.Platform, s.f)
		s.Mechanism.AbovegroundBiomass(s.Platform, s.f)
		if bg, ok := s.Mechanism.(BelowgroundModeler); ok {
			bg.BelowgroundBiomass(s.Platform, s.f)
		}
		if sc, ok := s.Mechanism.(SoilCarbonModeler); ok {
			sc.SoilCarbonDecay(s.Platform, s.f)
		}
		return nil
	}
}

// Calculations returns a function that runs a series of calculations on
// every cell of the transect, in transect order.
func Calculations(calculators ...CellManipulator) DomainManipulator {
	return func(s *Simulation) error {
		for _, c := range s.Platform.Cells {
			for _, cc := range calculators {
				cc(c, s.f)
			}
		}
		return nil
	}
}

// AccumulateOM returns a function that integrates the organic deposition
// flux into the soil organic matter pools and removes the mineralized
// mass. labileFrac is the fraction of fresh deposition entering the labile
// pool; the remainder enters the refractory pool. Pools are floored at
// zero.
func AccumulateOM(labileFrac float64) CellManipulator {
	return func(c *Cell, f *Forcing) {
		c.OM[LabilePool] += (labileFrac*c.DepOM - c.DecayOM[LabilePool]) * f.Dt
		c.OM[RefractoryPool] += ((1-labileFrac)*c.DepOM - c.DecayOM[RefractoryPool]) * f.Dt
		for i := range c.OM {
			if c.OM[i] < 0 {
				c.OM[i] = 0
			}
		}
	}
}

// StepLimit returns a function that finishes the simulation after
// numSteps steps. If numSteps is zero or negative the simulation runs
// until the driving data is exhausted.
func StepLimit(numSteps int) DomainManipulator {
	return func(s *Simulation) error {
		if numSteps > 0 && s.Step+1 >= numSteps {
			s.Done = true
		}
		return nil
	}
}

// Log writes simulation status messages to w.
func Log(w io.Writer) DomainManipulator {
	startTime := time.Now()
	timeStepTime := time.Now()

	return func(s *Simulation) error {
		bag, err := s.Platform.ToArray("Bag")
		if err != nil {
			return err
		}
		dep, err := s.Platform.ToArray("DepOM")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Step %-6d  walltime=%6.3gh  Δwalltime=%4.2gs  "+
			"day=%3d  ΣBag=%.4g kg/m  ΣDepOM=%.4g kg/m/s\n",
			s.Step, time.Since(startTime).Hours(),
			time.Since(timeStepTime).Seconds(), s.f.Day,
			floats.Sum(bag), floats.Sum(dep))
		timeStepTime = time.Now()
		return nil
	}
}
