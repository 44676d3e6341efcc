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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

func TestNewOutputter(t *testing.T) {
	o, err := NewOutputter("out.nc", map[string]string{
		"TotalB":  "Bag + Bbg",
		"DepOM":   "", // empty expression defaults to the variable itself
		"Capped":  "min(Bag, 2)",
		"Flooded": "max(Zh, 0)",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Bag", "Bbg", "DepOM", "Zh"}
	if len(o.modelVariables) != len(want) {
		t.Fatalf("model variables: got %v, want %v", o.modelVariables, want)
	}
	for i, v := range want {
		if o.modelVariables[i] != v {
			t.Fatalf("model variables: got %v, want %v", o.modelVariables, want)
		}
	}
}

func TestNewOutputterErrors(t *testing.T) {
	if _, err := NewOutputter("out.nc", map[string]string{"bad name": "Bag"}, nil); err == nil {
		t.Error("expected error for output name with a space")
	}
	if _, err := NewOutputter("out.nc", map[string]string{"2x": "Bag"}, nil); err == nil {
		t.Error("expected error for output name starting with a digit")
	}
	if _, err := NewOutputter("out.nc", map[string]string{"Bad": "Bag +* 2"}, nil); err == nil {
		t.Error("expected error for malformed expression")
	}
}

func TestCheckOutputVars(t *testing.T) {
	p, _ := TransectTestData()
	s := &Simulation{Platform: p, Mechanism: &minimalMechanism{}}

	o, err := NewOutputter("out.nc", map[string]string{"TotalB": "Bag + Bbg"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.CheckOutputVars()(s); err != nil {
		t.Error(err)
	}

	o, err = NewOutputter("out.nc", map[string]string{"Bad": "Bogus * 2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.CheckOutputVars()(s); err == nil {
		t.Error("expected error for undefined model variable")
	}
}

func TestOutput(t *testing.T) {
	const tolerance = 1.e-12
	p, f := TransectTestData()
	for _, c := range p.Cells {
		c.Bag = 0.5 * float64(c.Row)
		c.Bbg = 1.0
	}
	o, err := NewOutputter("out.nc", map[string]string{"TotalB": "Bag + Bbg"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := &Simulation{Platform: p, Mechanism: &minimalMechanism{}, f: f}
	if err := o.Output()(s); err != nil {
		t.Fatal(err)
	}
	if err := o.Output()(s); err != nil {
		t.Fatal(err)
	}

	r := o.Results()
	if len(r["TotalB"]) != 2 {
		t.Fatalf("got %d snapshots; want 2", len(r["TotalB"]))
	}
	for i := range p.Cells {
		want := 0.5*float64(i) + 1.0
		if different(r["TotalB"][0][i], want, tolerance) {
			t.Errorf("cell %d: got %g, want %g", i, r["TotalB"][0][i], want)
		}
	}
	if len(o.days) != 2 || o.days[0] != int32(f.Day) {
		t.Errorf("snapshot days: got %v, want two records of day %d", o.days, f.Day)
	}
}

func TestWriteNetCDF(t *testing.T) {
	const tolerance = 1.e-12
	dir, err := ioutil.TempDir("", "maces")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	fname := filepath.Join(dir, "out.nc")

	p, f := TransectTestData()
	for _, c := range p.Cells {
		c.Bag = float64(c.Row)
	}
	o, err := NewOutputter(fname, map[string]string{"Bag": "Bag"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := &Simulation{Platform: p, Mechanism: &minimalMechanism{}, f: f}
	if err := o.Output()(s); err != nil {
		t.Fatal(err)
	}
	if err := o.WriteNetCDF()(s); err != nil {
		t.Fatal(err)
	}

	ff, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	cf, err := cdf.Open(ff)
	if err != nil {
		t.Fatal(err)
	}
	data, err := readNCF("Bag", cf)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Shape) != 2 || data.Shape[0] != 1 || data.Shape[1] != p.Len() {
		t.Fatalf("output shape: got %v, want [1 %d]", data.Shape, p.Len())
	}
	for i := range p.Cells {
		if different(data.Get(0, i), float64(i), tolerance) {
			t.Errorf("cell %d: got %g, want %g", i, data.Get(0, i), float64(i))
		}
	}
}

func TestWriteNetCDFNoSnapshots(t *testing.T) {
	p, _ := TransectTestData()
	o, err := NewOutputter("out.nc", map[string]string{"Bag": "Bag"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := &Simulation{Platform: p, Mechanism: &minimalMechanism{}}
	if err := o.WriteNetCDF()(s); err == nil {
		t.Error("expected error when no output was accumulated")
	}
}
