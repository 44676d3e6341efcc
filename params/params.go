// Package params loads the per-plant-function-type coefficient tables of
// the MACES accretion mechanisms from XML namelist files.
package params

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	maces "github.com/changliao1025/MACES"
)

// File is a holder for a MACES parameter namelist.
type File struct {
	XMLName xml.Name `xml:"maces"`
	Version string   `xml:"version,attr"`
	Groups  []Group  `xml:"omac"`
}

// Group holds the parameter entries for one accretion mechanism.
type Group struct {
	Model   string  `xml:"model,attr"`
	Entries []Entry `xml:"param"`
}

// Entry is a single named parameter: either a scalar (character data) or
// a set of per-plant-function-type values.
type Entry struct {
	Name   string  `xml:"name,attr"`
	Units  string  `xml:"units,attr"`
	Text   string  `xml:",chardata"`
	Values []Value `xml:"value"`
}

// Value is one per-type value of a parameter.
type Value struct {
	PFT int     `xml:"pft,attr"`
	Val float64 `xml:",chardata"`
}

// Param is a parsed model parameter.
type Param struct {
	Name  string
	Units string

	scalar   float64
	isScalar bool

	byPFT   [maces.NPFT]float64
	defined [maces.NPFT]bool
}

// Table maps parameter names to values for one mechanism, validated
// eagerly at load time and immutable afterwards.
type Table struct {
	Model   string
	Version string

	params map[string]*Param
}

// Load reads the parameter table for the named mechanism from the XML
// namelist in r.
func Load(r io.Reader, model string) (*Table, error) {
	d := xml.NewDecoder(r)
	var f File
	if err := d.Decode(&f); err != nil {
		return nil, fmt.Errorf("params: decoding namelist: %v", err)
	}
	for _, g := range f.Groups {
		if g.Model != model {
			continue
		}
		t := &Table{Model: model, Version: f.Version, params: make(map[string]*Param)}
		for _, e := range g.Entries {
			p, err := e.parse()
			if err != nil {
				return nil, fmt.Errorf("params: model %s: %v", model, err)
			}
			if _, ok := t.params[p.Name]; ok {
				return nil, fmt.Errorf("params: model %s: duplicate parameter %s", model, p.Name)
			}
			t.params[p.Name] = p
		}
		return t, nil
	}
	return nil, fmt.Errorf("params: namelist has no parameter group for model %s", model)
}

// LoadFile reads the parameter table for the named mechanism from the
// XML namelist at path.
func LoadFile(path, model string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("params: opening namelist: %v", err)
	}
	defer f.Close()
	return Load(f, model)
}

func (e Entry) parse() (*Param, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("parameter with empty name")
	}
	p := &Param{Name: e.Name, Units: e.Units}
	if len(e.Values) == 0 {
		v, err := strconv.ParseFloat(strings.TrimSpace(e.Text), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %v", e.Name, err)
		}
		p.scalar = v
		p.isScalar = true
		return p, nil
	}
	for _, val := range e.Values {
		pft := maces.PFT(val.PFT)
		if !pft.Valid() {
			return nil, fmt.Errorf("parameter %s: plant function type %d outside the enumeration", e.Name, val.PFT)
		}
		if p.defined[pft] {
			return nil, fmt.Errorf("parameter %s: duplicate value for plant function type %d", e.Name, val.PFT)
		}
		p.byPFT[pft] = val.Val
		p.defined[pft] = true
	}
	return p, nil
}

// Scalar returns the named scalar parameter. Per-type parameters cannot
// be read as scalars.
func (t *Table) Scalar(name string) (float64, error) {
	p, ok := t.params[name]
	if !ok {
		return 0, fmt.Errorf("params: model %s: missing parameter %s", t.Model, name)
	}
	if !p.isScalar {
		return 0, fmt.Errorf("params: model %s: parameter %s is per-type, not scalar", t.Model, name)
	}
	return p.scalar, nil
}

// PerPFT returns the named parameter as an array indexed by plant
// function type. A value must be defined for every type in required;
// types without a defined value get zero. A scalar parameter is
// broadcast to all types.
func (t *Table) PerPFT(name string, required []maces.PFT) ([maces.NPFT]float64, error) {
	var out [maces.NPFT]float64
	p, ok := t.params[name]
	if !ok {
		return out, fmt.Errorf("params: model %s: missing parameter %s", t.Model, name)
	}
	if p.isScalar {
		for i := range out {
			out[i] = p.scalar
		}
		return out, nil
	}
	for _, pft := range required {
		if !p.defined[pft] {
			return out, fmt.Errorf("params: model %s: parameter %s has no value for plant function type %d",
				t.Model, name, pft)
		}
	}
	out = p.byPFT
	return out, nil
}

// Has reports whether the table defines the named parameter.
func (t *Table) Has(name string) bool {
	_, ok := t.params[name]
	return ok
}
