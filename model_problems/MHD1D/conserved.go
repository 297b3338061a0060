package MHD1D

import (
	"github.com/notargets/gomhd/utils"
)

// Conserved is the vector of evolved quantities, indexed by ConservedName
type Conserved [NumConserved]utils.Vector

func ToConserved(s *FieldState) (c Conserved) {
	c[CRho] = s.Rho.Copy()
	c[CRhoUx] = s.Rho.Copy().ElMul(s.Ux)
	c[CRhoUy] = s.Rho.Copy().ElMul(s.Uy)
	c[CRhoUz] = s.Rho.Copy().ElMul(s.Uz)
	c[CE] = s.E.Copy()
	c[CBx] = s.Bx.Copy()
	c[CBy] = s.By.Copy()
	c[CBz] = s.Bz.Copy()
	return
}

// ToPrimitive recovers the velocities and the gas pressure Pg = (gamma-1)*e.
// Zero density produces non-finite velocities, which are not corrected here.
func (c Conserved) ToPrimitive(x utils.Vector, gamma float64) (s *FieldState) {
	var (
		div = func(rhou, rho float64) float64 { return rhou / rho }
	)
	s = &FieldState{
		X:   x,
		Rho: c[CRho].Copy(),
		Ux:  c[CRhoUx].Copy().Apply2(c[CRho], div),
		Uy:  c[CRhoUy].Copy().Apply2(c[CRho], div),
		Uz:  c[CRhoUz].Copy().Apply2(c[CRho], div),
		E:   c[CE].Copy(),
		Pg:  c[CE].Copy().Scale(gamma - 1.),
		Bx:  c[CBx].Copy(),
		By:  c[CBy].Copy(),
		Bz:  c[CBz].Copy(),
	}
	return
}

func (c Conserved) Copy() (R Conserved) {
	for n := range c {
		R[n] = c[n].Copy()
	}
	return
}

func (c Conserved) IsNan() bool { return utils.IsNan(c[:]) }
