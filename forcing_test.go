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
	"testing"

	"github.com/ctessum/sparse"
)

func TestMonthOfDay(t *testing.T) {
	tests := []struct {
		jd, month int
	}{
		{1, 1}, {31, 1}, {32, 2}, {59, 2}, {60, 3},
		{151, 5}, {152, 6}, {334, 11}, {335, 12}, {365, 12},
	}
	for _, tt := range tests {
		if m := MonthOfDay(tt.jd); m != tt.month {
			t.Errorf("day %d: got month %d, want %d", tt.jd, m, tt.month)
		}
	}
}

func TestMHT(t *testing.T) {
	f := &Forcing{TR: 1.4}
	if different(f.MHT(), 0.7, 1e-15) {
		t.Errorf("mean high tide: got %g, want 0.7", f.MHT())
	}
}

// testForcingData builds an in-memory driving-data series without a
// NetCDF file.
func testForcingData(n int, dt float64, startDay int) *ForcingData {
	fd := &ForcingData{
		series:   make(map[string]*sparse.DenseArray),
		Dt:       dt,
		StartDay: startDay,
		n:        n,
	}
	for _, v := range forcingVars {
		data := sparse.ZerosDense(n)
		for i := 0; i < n; i++ {
			data.Elements[i] = float64(i)
		}
		fd.series[v] = data
	}
	return fd
}

func TestStepForcing(t *testing.T) {
	fd := testForcingData(400, SecondsPerDay, 364)
	f, err := fd.StepForcing(0)
	if err != nil {
		t.Fatal(err)
	}
	if f.Day != 364 {
		t.Errorf("step 0: got day %d, want 364", f.Day)
	}
	if f.TR != 0 {
		t.Errorf("step 0: got TR %g, want 0", f.TR)
	}

	// the model calendar wraps after day 365
	f, err = fd.StepForcing(2)
	if err != nil {
		t.Fatal(err)
	}
	if f.Day != 1 {
		t.Errorf("step 2: got day %d, want 1", f.Day)
	}
	if f.Month != 1 {
		t.Errorf("step 2: got month %d, want 1", f.Month)
	}
	if f.TR != 2 {
		t.Errorf("step 2: got TR %g, want 2", f.TR)
	}
	if f.Dt != SecondsPerDay {
		t.Errorf("step 2: got dt %g, want %g", f.Dt, SecondsPerDay)
	}

	if _, err := fd.StepForcing(400); err == nil {
		t.Error("expected error for step beyond the series")
	}
	if _, err := fd.StepForcing(-1); err == nil {
		t.Error("expected error for negative step")
	}
}

func TestStepForcingSubDaily(t *testing.T) {
	// with half-hour records the day should advance every 48 steps
	fd := testForcingData(100, 1800, 1)
	f, err := fd.StepForcing(47)
	if err != nil {
		t.Fatal(err)
	}
	if f.Day != 1 {
		t.Errorf("step 47: got day %d, want 1", f.Day)
	}
	f, err = fd.StepForcing(48)
	if err != nil {
		t.Fatal(err)
	}
	if f.Day != 2 {
		t.Errorf("step 48: got day %d, want 2", f.Day)
	}
}
