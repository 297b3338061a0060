package MHD1D

import (
	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/utils"
)

// Equations evaluates the right hand side of the 1.5D ideal MHD system. Every
// term uses the same derivative backend.
type Equations struct {
	Selector
}

// NewEquations uses the finite difference backend when D is nil
func NewEquations(D FD1D.Derivative) *Equations {
	if D == nil {
		D = FD1D.FiniteDifference{}
	}
	return &Equations{Selector{D: D}}
}

func (eq *Equations) stencils(s *FieldState) *stencils {
	return &stencils{Selector: eq.Selector, x: s.X}
}

// DRhoDt = -rho*dux/dx - ux*drho/dx
func (eq *Equations) DRhoDt(s *FieldState) (drho utils.Vector, err error) {
	if err = s.check("DRhoDt", Rho, Ux); err != nil {
		return
	}
	var (
		st   = eq.stencils(s)
		dUx  = st.cent(s.Ux)
		dRho = st.dir(s.Rho, s.Ux)
	)
	if err = st.err; err != nil {
		return
	}
	drho = s.Rho.Copy().ElMul(dUx).Scale(-1).Subtract(s.Ux.Copy().ElMul(dRho))
	return
}

// DRhoUxDt = -rho*ux*dux/dx + ux*d(rho*ux)/dx - dPg/dx - Bz*dBz/dx - By*dBy/dx
func (eq *Equations) DRhoUxDt(s *FieldState) (drhoux utils.Vector, err error) {
	if err = s.check("DRhoUxDt", Rho, Ux, Pg, By, Bz); err != nil {
		return
	}
	var (
		st     = eq.stencils(s)
		rhoUx  = s.Rho.Copy().ElMul(s.Ux)
		dUx    = st.dir(s.Ux, s.Ux)
		dRhoUx = st.dir(rhoUx, s.Ux)
		dPg    = st.cent(s.Pg)
		dBz    = st.dir(s.Bz, s.Bz)
		dBy    = st.dir(s.By, s.By)
	)
	if err = st.err; err != nil {
		return
	}
	drhoux = rhoUx.Copy().ElMul(dUx).Scale(-1).
		Add(s.Ux.Copy().ElMul(dRhoUx)).
		Subtract(dPg).
		Subtract(s.Bz.Copy().ElMul(dBz)).
		Subtract(s.By.Copy().ElMul(dBy))
	return
}

// DRhoUyDt = -rho*uy*dux/dx + ux*d(rho*uy)/dx + Bx*dBy/dx, stencils from uy, uy and Bx
func (eq *Equations) DRhoUyDt(s *FieldState) (drhouy utils.Vector, err error) {
	if err = s.check("DRhoUyDt", Rho, Ux, Uy, Bx, By); err != nil {
		return
	}
	var (
		st     = eq.stencils(s)
		rhoUy  = s.Rho.Copy().ElMul(s.Uy)
		dUx    = st.dir(s.Ux, s.Uy)
		dRhoUy = st.dir(rhoUy, s.Uy)
		dBy    = st.dir(s.By, s.Bx)
	)
	if err = st.err; err != nil {
		return
	}
	drhouy = rhoUy.Copy().ElMul(dUx).Scale(-1).
		Add(s.Ux.Copy().ElMul(dRhoUy)).
		Add(s.Bx.Copy().ElMul(dBy))
	return
}

// DRhoUzDt = -rho*uz*dux/dx + ux*d(rho*uz)/dx - Bx*dBz/dx, stencils from uz, uz and Bx
func (eq *Equations) DRhoUzDt(s *FieldState) (drhouz utils.Vector, err error) {
	if err = s.check("DRhoUzDt", Rho, Ux, Uz, Bx, Bz); err != nil {
		return
	}
	var (
		st     = eq.stencils(s)
		rhoUz  = s.Rho.Copy().ElMul(s.Uz)
		dUx    = st.dir(s.Ux, s.Uz)
		dRhoUz = st.dir(rhoUz, s.Uz)
		dBz    = st.dir(s.Bz, s.Bx)
	)
	if err = st.err; err != nil {
		return
	}
	drhouz = rhoUz.Copy().ElMul(dUx).Scale(-1).
		Add(s.Ux.Copy().ElMul(dRhoUz)).
		Subtract(s.Bx.Copy().ElMul(dBz))
	return
}

// DEDt = -ux*de/dx - (e+Pg)*dux/dx
func (eq *Equations) DEDt(s *FieldState) (de utils.Vector, err error) {
	if err = s.check("DEDt", Ux, E, Pg); err != nil {
		return
	}
	var (
		st  = eq.stencils(s)
		dE  = st.dir(s.E, s.Ux)
		dUx = st.cent(s.Ux)
	)
	if err = st.err; err != nil {
		return
	}
	de = s.Ux.Copy().ElMul(dE).Scale(-1).
		Subtract(s.E.Copy().Add(s.Pg).ElMul(dUx))
	return
}

// DBxDt is identically zero in 1D, whatever the state holds
func (eq *Equations) DBxDt(s *FieldState) (dbx utils.Vector, err error) {
	return utils.NewVector(s.X.Len()), nil
}

// DByDt = -By*dux/dx - ux*dBy/dx + Bx*duy/dx + uy*dBx/dx
func (eq *Equations) DByDt(s *FieldState) (dby utils.Vector, err error) {
	if err = s.check("DByDt", Ux, Uy, Bx, By); err != nil {
		return
	}
	var (
		st  = eq.stencils(s)
		dUx = st.dir(s.Ux, s.By)
		dBy = st.dir(s.By, s.Ux)
		dUy = st.dir(s.Uy, s.Bx)
		dBx = st.dir(s.Bx, s.Uy)
	)
	if err = st.err; err != nil {
		return
	}
	dby = s.By.Copy().ElMul(dUx).Scale(-1).
		Subtract(s.Ux.Copy().ElMul(dBy)).
		Add(s.Bx.Copy().ElMul(dUy)).
		Add(s.Uy.Copy().ElMul(dBx))
	return
}

// DBzDt = Bz*dux/dx + ux*dBz/dx - uz*dBx/dx - Bx*duz/dx
func (eq *Equations) DBzDt(s *FieldState) (dbz utils.Vector, err error) {
	if err = s.check("DBzDt", Ux, Uz, Bx, Bz); err != nil {
		return
	}
	var (
		st  = eq.stencils(s)
		dUx = st.dir(s.Ux, s.Bz)
		dBz = st.dir(s.Bz, s.Ux)
		dBx = st.dir(s.Bx, s.Uz)
		dUz = st.dir(s.Uz, s.Bx)
	)
	if err = st.err; err != nil {
		return
	}
	dbz = s.Bz.Copy().ElMul(dUx).
		Add(s.Ux.Copy().ElMul(dBz)).
		Subtract(s.Uz.Copy().ElMul(dBx)).
		Subtract(s.Bx.Copy().ElMul(dUz))
	return
}
