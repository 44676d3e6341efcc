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

// Package macesutil holds the configuration layer and the commands of
// the maces command-line interface.
package macesutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	maces "github.com/changliao1025/MACES"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to MACES.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Mechanism",
			usage: `
              Mechanism selects the organic accretion model for the run.
              Valid options are NULLMOD, VDK05MOD, M12MOD, DA07MOD,
              KM12MOD and K16MOD.`,
			shorthand:  "m",
			defaultVal: "M12MOD",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ParamFile",
			usage: `
              ParamFile is the path to the XML namelist holding the
              coefficient tables of the accretion mechanisms.`,
			defaultVal: "namelist.maces.xml",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TransectFile",
			usage: `
              TransectFile is the path to the TOML file describing the
              platform transect (coordinates, elevations and cover types).`,
			defaultVal: "transect.toml",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ForcingFile",
			usage: `
              ForcingFile is the path to the NetCDF file holding the
              driving-data time series (TR, MHHW, Tair, Tsoi).`,
			defaultVal: "forcing.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of the NetCDF file where simulation
              results are written.`,
			defaultVal: "output.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables maps output names to the expressions that
              define them in terms of model variables, for example
              {"Bag": "Bag", "TotalB": "Bag + Bbg"}.`,
			defaultVal: map[string]string{"Bag": "Bag", "DepOM": "DepOM"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Dt",
			usage: `
              Dt is the simulation time step and the interval between
              successive driving-data records [seconds].`,
			defaultVal: maces.SecondsPerDay,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StartDay",
			usage: `
              StartDay is the day of year (1 to 365) of the first
              driving-data record.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumSteps",
			usage: `
              NumSteps limits the number of steps to run. If zero or
              negative, the simulation runs until the driving data is
              exhausted.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LabileFraction",
			usage: `
              LabileFraction is the fraction of fresh organic deposition
              entering the labile soil carbon pool; the remainder enters
              the refractory pool.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MACES")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("maces: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "maces",
	Short: "A coastal wetland accretion model.",
	Long: `MACES simulates the organic-matter dynamics of a one-dimensional
coastal wetland transect. Use the subcommands specified below to access the
model functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MACES_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of MACES.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("MACES v%s\n", maces.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a transect simulation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs a MACES transect simulation with the organic accretion
mechanism selected by the Mechanism configuration variable, writing the
requested output variables to a NetCDF file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Cfg)
	},
	DisableAutoGenTag: true,
}
