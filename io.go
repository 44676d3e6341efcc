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
	"math"
	"os"
	"regexp"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/cdf"
)

// Outputter accumulates snapshots of user-requested output variables and
// writes them to a NetCDF file when the simulation finishes.
//
// outputVariables maps output names to expressions defining how they are
// calculated from the model variables of each cell, for example
// {"TotalB": "Bag + Bbg"}. The expressions can use the functions defined
// in outputFunctions.
type Outputter struct {
	fileName        string
	outputVariables map[string]string
	outputFunctions map[string]govaluate.ExpressionFunction
	expressions     map[string]*govaluate.EvaluableExpression
	modelVariables  []string

	results map[string][][]float64 // [output variable][snapshot][cell]
	days    []int32                // day of year of each snapshot
}

// NewOutputter initializes a new Outputter. Default output functions are
// 'exp(x)', 'min(x, y)' and 'max(x, y)'; callers can add more through
// outputFunctions.
func NewOutputter(fileName string, outputVariables map[string]string,
	outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {

	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("maces: got %d arguments for function 'exp', but need 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"min": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("maces: got %d arguments for function 'min', but need 2", len(arg))
			}
			return math.Min(arg[0].(float64), arg[1].(float64)), nil
		},
		"max": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("maces: got %d arguments for function 'max', but need 2", len(arg))
			}
			return math.Max(arg[0].(float64), arg[1].(float64)), nil
		},
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	o := &Outputter{
		fileName:        fileName,
		outputVariables: make(map[string]string, len(outputVariables)),
		outputFunctions: defaultOutputFuncs,
		expressions:     make(map[string]*govaluate.EvaluableExpression, len(outputVariables)),
		results:         make(map[string][][]float64, len(outputVariables)),
	}
	for k, v := range outputVariables {
		if v == "" {
			v = k
		}
		o.outputVariables[k] = v
	}
	if err := checkOutputNames(o.outputVariables); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for key, val := range o.outputVariables {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("maces: output variable %s: %v", key, err)
		}
		o.expressions[key] = expression
		for _, v := range expression.Vars() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				o.modelVariables = append(o.modelVariables, v)
			}
		}
	}
	sort.Strings(o.modelVariables)
	return o, nil
}

// checkOutputNames checks that the output variable names are plain
// identifiers, so that they can appear in other output expressions and as
// NetCDF variable names.
func checkOutputNames(o map[string]string) error {
	for key := range o {
		ok, err := regexp.MatchString(`^[A-Za-z]\w*$`, key)
		if err != nil {
			panic(err)
		}
		if !ok {
			return fmt.Errorf("maces: output variable name '%s' includes unsupported characters", key)
		}
	}
	return nil
}

// CheckOutputVars returns a function that checks whether the model
// variables required by the output expressions exist in the model.
func (o *Outputter) CheckOutputVars() DomainManipulator {
	return func(s *Simulation) error {
		names, _ := s.Platform.OutputOptions()
		have := make(map[string]struct{}, len(names))
		for _, n := range names {
			have[n] = struct{}{}
		}
		for _, v := range o.modelVariables {
			if _, ok := have[v]; !ok {
				return fmt.Errorf("maces: undefined variable name '%s'", v)
			}
		}
		return nil
	}
}

// Output returns a function that evaluates the output expressions for
// every cell and appends the result as one snapshot per output variable.
func (o *Outputter) Output() DomainManipulator {
	return func(s *Simulation) error {
		n := s.Platform.Len()
		params := make(map[string]interface{}, len(o.modelVariables))
		snapshot := make(map[string][]float64, len(o.outputVariables))
		for key := range o.outputVariables {
			snapshot[key] = make([]float64, n)
		}
		for i, c := range s.Platform.Cells {
			for _, v := range o.modelVariables {
				val, err := c.Value(v)
				if err != nil {
					return err
				}
				params[v] = val
			}
			for key, expression := range o.expressions {
				result, err := expression.Evaluate(params)
				if err != nil {
					return fmt.Errorf("maces: evaluating output variable %s: %v", key, err)
				}
				v, ok := result.(float64)
				if !ok {
					return fmt.Errorf("maces: output variable %s is not numeric", key)
				}
				snapshot[key][i] = v
			}
		}
		for key, vals := range snapshot {
			o.results[key] = append(o.results[key], vals)
		}
		o.days = append(o.days, int32(s.CurrentForcing().Day))
		return nil
	}
}

// Results returns the accumulated output in the form of
// map[variable][snapshot][cell].
func (o *Outputter) Results() map[string][][]float64 { return o.results }

// WriteNetCDF returns a function that writes the accumulated output to
// the Outputter's NetCDF file.
func (o *Outputter) WriteNetCDF() DomainManipulator {
	return func(s *Simulation) error {
		nt := len(o.days)
		if nt == 0 {
			return fmt.Errorf("maces: no output snapshots to write")
		}
		nx := s.Platform.Len()

		h := cdf.NewHeader([]string{"time", "cell"}, []int{nt, nx})
		h.AddVariable("day", []string{"time"}, []int32{0})
		h.AddAttribute("day", "description", "Day of year of each output record")
		h.AddVariable("x", []string{"cell"}, []float64{0})
		h.AddAttribute("x", "description", "Along-transect coordinate")
		h.AddAttribute("x", "units", "m")
		for _, k := range sortKeys(o.outputVariables) {
			h.AddVariable(k, []string{"time", "cell"}, []float64{0})
			h.AddAttribute(k, "description", o.outputVariables[k])
			if u, err := s.Platform.Units(o.outputVariables[k]); err == nil {
				h.AddAttribute(k, "units", u)
			}
		}
		h.Define()
		for _, err := range h.Check() {
			return fmt.Errorf("maces: creating output netcdf header: %v", err)
		}

		ff, err := os.Create(o.fileName)
		if err != nil {
			return fmt.Errorf("maces: creating output file: %v", err)
		}
		defer ff.Close()
		f, err := cdf.Create(ff, h)
		if err != nil {
			return fmt.Errorf("maces: creating output netcdf file: %v", err)
		}

		w := f.Writer("day", []int{0}, []int{nt})
		if _, err := w.Write(o.days); err != nil {
			return fmt.Errorf("maces: writing output days: %v", err)
		}
		x, err := s.Platform.ToArray("X")
		if err != nil {
			return err
		}
		w = f.Writer("x", []int{0}, []int{nx})
		if _, err := w.Write(x); err != nil {
			return fmt.Errorf("maces: writing output coordinates: %v", err)
		}
		for _, k := range sortKeys(o.outputVariables) {
			flat := make([]float64, 0, nt*nx)
			for _, row := range o.results[k] {
				flat = append(flat, row...)
			}
			w = f.Writer(k, []int{0, 0}, []int{nt, nx})
			if _, err := w.Write(flat); err != nil {
				return fmt.Errorf("maces: writing output variable %s: %v", k, err)
			}
		}
		if err := cdf.UpdateNumRecs(ff); err != nil {
			return fmt.Errorf("maces: finalizing output file: %v", err)
		}
		return nil
	}
}

func sortKeys(m map[string]string) []string {
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}
