package MHD1D

import (
	"fmt"

	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/utils"
)

type FieldName uint8

// Primitive fields of the state
const (
	Rho FieldName = iota
	Ux
	Uy
	Uz
	Pg
	E
	Bx
	By
	Bz
	NumFields
)

var fieldNames = []string{"rho", "ux", "uy", "uz", "pg", "e", "bx", "by", "bz"}

func (f FieldName) String() string {
	if f < NumFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("FieldName(%d)", f)
}

func NewFieldName(label string) (f FieldName, err error) {
	for i, name := range fieldNames {
		if name == label {
			return FieldName(i), nil
		}
	}
	err = fmt.Errorf("unknown field name: %q, valid names are %v", label, fieldNames)
	return
}

type ConservedName uint8

// Evolved (conserved) quantities, in the order Advance produces them
const (
	CRho ConservedName = iota
	CRhoUx
	CRhoUy
	CRhoUz
	CE
	CBx
	CBy
	CBz
	NumConserved
)

var conservedNames = []string{"rho", "rhoux", "rhouy", "rhouz", "e", "bx", "by", "bz"}

func (c ConservedName) String() string {
	if c < NumConserved {
		return conservedNames[c]
	}
	return fmt.Sprintf("ConservedName(%d)", c)
}

// FieldState is one snapshot of the fluid on the grid. The evaluators only
// read from it.
type FieldState struct {
	X                      utils.Vector
	Rho, Ux, Uy, Uz, Pg, E utils.Vector
	Bx, By, Bz             utils.Vector
}

// NewFieldState allocates all fields zeroed on grid g. X shares g's storage.
func NewFieldState(g *FD1D.Grid) (s *FieldState) {
	var (
		N = g.Len()
	)
	s = &FieldState{X: g.X}
	for f := Rho; f < NumFields; f++ {
		*s.fieldP(f) = utils.NewVector(N)
	}
	return
}

func (s *FieldState) fieldP(f FieldName) *utils.Vector {
	switch f {
	case Rho:
		return &s.Rho
	case Ux:
		return &s.Ux
	case Uy:
		return &s.Uy
	case Uz:
		return &s.Uz
	case Pg:
		return &s.Pg
	case E:
		return &s.E
	case Bx:
		return &s.Bx
	case By:
		return &s.By
	case Bz:
		return &s.Bz
	}
	panic(fmt.Errorf("unknown field %v", f))
}

func (s *FieldState) Field(f FieldName) utils.Vector { return *s.fieldP(f) }

func (s *FieldState) Len() int { return s.X.Len() }

// Copy is deep for the fields, X is shared
func (s *FieldState) Copy() (R *FieldState) {
	R = &FieldState{X: s.X}
	for f := Rho; f < NumFields; f++ {
		*R.fieldP(f) = s.Field(f).Copy()
	}
	return
}

// check verifies that the named fields have the grid's length
func (s *FieldState) check(op string, fields ...FieldName) error {
	var (
		N = s.X.Len()
	)
	for _, f := range fields {
		if n := s.Field(f).Len(); n != N {
			return &utils.ShapeError{Op: op + "(" + f.String() + ")", Want: N, Got: n}
		}
	}
	return nil
}

// Validate checks every field against the grid
func (s *FieldState) Validate() error {
	all := make([]FieldName, 0, NumFields)
	for f := Rho; f < NumFields; f++ {
		all = append(all, f)
	}
	return s.check("Validate", all...)
}

// Derivatives holds the time derivative of each evolved quantity. A fresh
// value is produced by every call to Advance.
type Derivatives struct {
	Rho, RhoUx, RhoUy, RhoUz utils.Vector
	E                        utils.Vector
	Bx, By, Bz               utils.Vector
}

func newDerivatives(d [NumConserved]utils.Vector) *Derivatives {
	return &Derivatives{
		Rho: d[CRho], RhoUx: d[CRhoUx], RhoUy: d[CRhoUy], RhoUz: d[CRhoUz],
		E: d[CE], Bx: d[CBx], By: d[CBy], Bz: d[CBz],
	}
}

func (d *Derivatives) Vectors() [NumConserved]utils.Vector {
	return [NumConserved]utils.Vector{d.Rho, d.RhoUx, d.RhoUy, d.RhoUz, d.E, d.Bx, d.By, d.Bz}
}

func (d *Derivatives) Field(c ConservedName) utils.Vector { return d.Vectors()[c] }
