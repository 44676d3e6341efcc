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

package macesutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	maces "github.com/changliao1025/MACES"
)

const testTransect = `
X = [0.0, 100.0, 200.0, 300.0]
Zh = [-0.2, 0.1, 0.25, 0.4]
PFT = [1, 2, 2, 5]
`

const testNamelist = `<maces version="1.0">
  <omac model="M12MOD">
    <param name="aa" units="kg m-3">25.2</param>
    <param name="bb" units="kg m-4">-40.0</param>
    <param name="cc" units="kg m-2">0.4</param>
    <param name="Kr">0.1</param>
    <param name="Tr" units="yr">1.5</param>
    <param name="phi">1.1</param>
  </omac>
</maces>`

func writeTemp(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTransect(t *testing.T) {
	dir, err := ioutil.TempDir("", "maces")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := writeTemp(t, dir, "transect.toml", testTransect)

	p, err := LoadTransect(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Fatalf("got %d cells; want 4", p.Len())
	}
	if p.Cells[1].PFT != maces.SaltMarsh || p.Cells[3].PFT != maces.Mangrove {
		t.Errorf("cover types not mapped: %d, %d", p.Cells[1].PFT, p.Cells[3].PFT)
	}
	if p.Cells[2].Zh != 0.25 {
		t.Errorf("cell 2 elevation: got %g, want 0.25", p.Cells[2].Zh)
	}
}

func TestLoadTransectErrors(t *testing.T) {
	if _, err := LoadTransect("no/such/file.toml"); err == nil {
		t.Error("expected error for missing file")
	}

	dir, err := ioutil.TempDir("", "maces")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := writeTemp(t, dir, "bad.toml", "X = not valid toml [")
	if _, err := LoadTransect(path); err == nil {
		t.Error("expected error for malformed file")
	}

	path = writeTemp(t, dir, "short.toml", "X = [0.0]\nZh = [0.0, 1.0]\nPFT = [1]")
	if _, err := LoadTransect(path); err == nil {
		t.Error("expected error for mismatched arrays")
	}
}

func TestNewMechanism(t *testing.T) {
	dir, err := ioutil.TempDir("", "maces")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := writeTemp(t, dir, "namelist.maces.xml", testNamelist)

	if _, err := NewMechanism("M12MOD", path, 4); err != nil {
		t.Error(err)
	}
	if _, err := NewMechanism("BOGUSMOD", path, 4); err == nil {
		t.Error("expected error for unknown mechanism name")
	}
	// the namelist has no group for this model
	if _, err := NewMechanism("K16MOD", path, 4); err == nil {
		t.Error("expected error for model missing from the namelist")
	}
}

func TestGetStringMapString(t *testing.T) {
	Cfg.Set("TestOutputVars", `{"Bag": "Bag", "TotalB": "Bag + Bbg"}`)
	m := GetStringMapString("TestOutputVars", Cfg)
	if m["TotalB"] != "Bag + Bbg" {
		t.Errorf("got %v", m)
	}

	Cfg.Set("TestOutputVars2", map[string]interface{}{"Bag": "Bag"})
	m = GetStringMapString("TestOutputVars2", Cfg)
	if m["Bag"] != "Bag" {
		t.Errorf("got %v", m)
	}
}

func TestOptionDefaults(t *testing.T) {
	if got := Cfg.GetString("Mechanism"); got != "M12MOD" {
		t.Errorf("default mechanism: got %q", got)
	}
	if got := Cfg.GetFloat64("Dt"); got != maces.SecondsPerDay {
		t.Errorf("default time step: got %g", got)
	}
	if got := Cfg.GetInt("StartDay"); got != 1 {
		t.Errorf("default start day: got %d", got)
	}
}
