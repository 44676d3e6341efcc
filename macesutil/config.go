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
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	maces "github.com/changliao1025/MACES"
	"github.com/changliao1025/MACES/params"
	"github.com/changliao1025/MACES/science/omac/da07"
	"github.com/changliao1025/MACES/science/omac/k16"
	"github.com/changliao1025/MACES/science/omac/km12"
	"github.com/changliao1025/MACES/science/omac/m12"
	"github.com/changliao1025/MACES/science/omac/nullmod"
	"github.com/changliao1025/MACES/science/omac/vdk05"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for getStringMapString variable %s: %#v", varName, i))
	}
}

// TransectConfig describes a platform transect as read from a TOML file.
// Cells are listed seaward to landward with strictly increasing coordinates.
type TransectConfig struct {
	// X holds the cell center coordinates [m].
	X []float64
	// Zh holds the cell elevations relative to mean sea level [msl].
	Zh []float64
	// PFT holds the cell plant function type codes.
	PFT []int
}

// LoadTransect reads a transect description from the TOML file at path
// and creates the corresponding platform.
func LoadTransect(path string) (*maces.Platform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("maces: opening transect file: %v", err)
	}
	defer f.Close()
	var tc TransectConfig
	if _, err := toml.DecodeReader(f, &tc); err != nil {
		return nil, fmt.Errorf("maces: parsing transect file %s: %v", path, err)
	}
	pft := make([]maces.PFT, len(tc.PFT))
	for i, p := range tc.PFT {
		pft[i] = maces.PFT(p)
	}
	return maces.NewPlatform(tc.X, tc.Zh, pft)
}

// NewMechanism creates the organic accretion mechanism with the given
// name, reading its coefficients from the parameter file at paramPath.
// nx is the number of cells in the transect; it is only used by
// mechanisms that carry per-cell state.
func NewMechanism(name, paramPath string, nx int) (maces.OrganicMechanism, error) {
	t, err := params.LoadFile(paramPath, name)
	if err != nil {
		return nil, err
	}
	switch name {
	case "NULLMOD":
		return nullmod.NewMechanism(t)
	case "VDK05MOD":
		return vdk05.NewMechanism(t)
	case "M12MOD":
		return m12.NewMechanism(t)
	case "DA07MOD":
		return da07.NewMechanism(t)
	case "KM12MOD":
		return km12.NewMechanism(t)
	case "K16MOD":
		return k16.NewMechanism(t, nx)
	default:
		return nil, fmt.Errorf("maces: invalid mechanism name %s", name)
	}
}

// Run runs a transect simulation as specified by the configuration in cfg
// and writes the results to a NetCDF file.
func Run(cfg *viper.Viper) error {
	p, err := LoadTransect(cfg.GetString("TransectFile"))
	if err != nil {
		return err
	}
	name := cfg.GetString("Mechanism")
	mech, err := NewMechanism(name, cfg.GetString("ParamFile"), len(p.Cells))
	if err != nil {
		return err
	}
	dt := cfg.GetFloat64("Dt")
	f, err := maces.OpenForcing(cfg.GetString("ForcingFile"), dt, cfg.GetInt("StartDay"))
	if err != nil {
		return err
	}
	o, err := maces.NewOutputter(cfg.GetString("OutputFile"),
		GetStringMapString("OutputVariables", cfg), nil)
	if err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"mechanism": name,
		"cells":     len(p.Cells),
		"dt":        dt,
	}).Info("starting simulation")

	s := &maces.Simulation{
		Platform:  p,
		Forcing:   f,
		Mechanism: mech,
		InitFuncs: []maces.DomainManipulator{
			o.CheckOutputVars(),
		},
		RunFuncs: []maces.DomainManipulator{
			maces.UpdateSlope(),
			maces.Accretion(),
			maces.Calculations(maces.AccumulateOM(cfg.GetFloat64("LabileFraction"))),
			o.Output(),
			maces.StepLimit(cfg.GetInt("NumSteps")),
			maces.Log(logger.Writer()),
		},
		CleanupFuncs: []maces.DomainManipulator{
			o.WriteNetCDF(),
		},
	}
	if err := s.Init(); err != nil {
		return err
	}
	if err := s.Run(); err != nil {
		return err
	}
	if err := s.Cleanup(); err != nil {
		return err
	}
	logger.WithField("output", cfg.GetString("OutputFile")).Info("simulation finished")
	return nil
}
