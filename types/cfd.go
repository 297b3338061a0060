package types

import (
	"fmt"
	"strings"
)

// BCFLAG selects what happens to the two end points of a 1D grid after each
// time integration stage.
type BCFLAG uint8

const (
	BC_None      BCFLAG = iota // End points evolve with the one-sided stencils
	BC_Dirichlet               // End points are held at their initial values
	BC_Neuman                  // End points copy the adjacent interior value
)

var BCNameMap = map[string]BCFLAG{
	"none":      BC_None,
	"open":      BC_None,
	"dirichlet": BC_Dirichlet,
	"fixed":     BC_Dirichlet,
	"neuman":    BC_Neuman,
	"neumann":   BC_Neuman,
	"outflow":   BC_Neuman,
}

var bcNames = []string{"None", "Dirichlet", "Neuman"}

func (bcf BCFLAG) String() string {
	if int(bcf) < len(bcNames) {
		return bcNames[bcf]
	}
	return fmt.Sprintf("BCFLAG(%d)", bcf)
}

func NewBCFLAG(label string) (bcf BCFLAG, err error) {
	var ok bool
	if bcf, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown boundary condition type: %q", label)
	}
	return
}
