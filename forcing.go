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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Time constants for a 365-day model calendar.
const (
	SecondsPerDay  = 8.64e4
	SecondsPerYear = 3.1536e7
	DaysPerYear    = 365
)

// Forcing holds the scalar driving data for one simulation step.
type Forcing struct {
	TR   float64 // tidal range [m]
	MHHW float64 // mean higher-high water level [m above MSL]
	Tair float64 // air temperature [K]
	Tsoi float64 // soil temperature [K]

	Month int // month of year, 1 to 12
	Day   int // day of year, 1 to 365

	Dt float64 // time step [s]
}

// MHT returns the mean high tide water level [m above MSL].
func (f *Forcing) MHT() float64 { return 0.5 * f.TR }

// end day of each month in the 365-day calendar
var monthEnds = [12]int{31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

// MonthOfDay converts a day of year (1 to 365) to a month (1 to 12).
func MonthOfDay(jd int) int {
	for m, end := range monthEnds {
		if jd <= end {
			return m + 1
		}
	}
	return 12
}

// forcingVars are the variables required in a driving-data file, each a
// time series with one record per step.
var forcingVars = []string{"TR", "MHHW", "Tair", "Tsoi"}

// ForcingData holds a full time series of driving data read from a
// NetCDF file.
type ForcingData struct {
	series map[string]*sparse.DenseArray

	// Dt is the interval between successive records [s].
	Dt float64

	// StartDay is the day of year of the first record.
	StartDay int

	n int
}

// ReadForcing reads the driving-data time series from the NetCDF file ff.
// dt is the record interval in seconds and startDay the day of year of the
// first record.
func ReadForcing(ff *cdf.File, dt float64, startDay int) (*ForcingData, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("maces: non-positive forcing interval %g", dt)
	}
	if startDay < 1 || startDay > DaysPerYear {
		return nil, fmt.Errorf("maces: forcing start day %d outside 1-%d", startDay, DaysPerYear)
	}
	fd := &ForcingData{
		series:   make(map[string]*sparse.DenseArray),
		Dt:       dt,
		StartDay: startDay,
	}
	for _, v := range forcingVars {
		data, err := readNCF(v, ff)
		if err != nil {
			return nil, err
		}
		if fd.n == 0 {
			fd.n = data.Shape[0]
		} else if data.Shape[0] != fd.n {
			return nil, fmt.Errorf("maces: forcing variable %s has %d records; want %d",
				v, data.Shape[0], fd.n)
		}
		fd.series[v] = data
	}
	return fd, nil
}

// OpenForcing reads driving data from the NetCDF file at path.
func OpenForcing(path string, dt float64, startDay int) (*ForcingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("maces: opening forcing file: %v", err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("maces: reading forcing file %s: %v", path, err)
	}
	return ReadForcing(ff, dt, startDay)
}

// Len returns the number of forcing records.
func (fd *ForcingData) Len() int { return fd.n }

// StepForcing returns the driving data for the given step index. The model
// calendar wraps after day 365.
func (fd *ForcingData) StepForcing(step int) (*Forcing, error) {
	if step < 0 || step >= fd.n {
		return nil, fmt.Errorf("maces: forcing step %d outside 0-%d", step, fd.n-1)
	}
	elapsed := float64(step) * fd.Dt
	jd := (fd.StartDay - 1 + int(elapsed/SecondsPerDay)) % DaysPerYear
	f := &Forcing{
		TR:    fd.series["TR"].Get(step),
		MHHW:  fd.series["MHHW"].Get(step),
		Tair:  fd.series["Tair"].Get(step),
		Tsoi:  fd.series["Tsoi"].Get(step),
		Day:   jd + 1,
		Month: MonthOfDay(jd + 1),
		Dt:    fd.Dt,
	}
	return f, nil
}

// readNCF reads the full time series of variable v out of netcdf file ff.
func readNCF(v string, ff *cdf.File) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("maces: read netcdf: variable %v not in file", v)
	}
	r := ff.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("maces: read netcdf variable %s: %v", v, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("maces: read netcdf variable %s: unsupported type %T", v, buf)
	}
	return data, nil
}
