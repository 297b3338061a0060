package MHD1D

import (
	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/utils"
)

// Selector picks the derivative stencil per point from the sign of a
// companion field.
type Selector struct {
	D FD1D.Derivative
}

// Directional is the upwind derivative of f where sign >= 0 and the downwind
// derivative where sign < 0. Exact zeros take the upwind value, NaN signs take
// the downwind value. Both stencils are evaluated over the whole grid before
// the merge.
func (sel Selector) Directional(x, f, sign utils.Vector) (d utils.Vector, err error) {
	var (
		up, dn utils.Vector
	)
	if up, err = sel.D.Upwind(x, f); err != nil {
		return
	}
	if dn, err = sel.D.Downwind(x, f); err != nil {
		return
	}
	if err = utils.CheckLen("Directional", x.Len(), sign.Len()); err != nil {
		return
	}
	return utils.Merge(up, dn, sign.Find(utils.GreaterOrEqual, 0, false))
}

func (sel Selector) Centered(x, f utils.Vector) (utils.Vector, error) {
	return sel.D.Centered(x, f)
}

// stencils accumulates the first error so the term formulas read straight
// through. After an error every call returns an empty vector.
type stencils struct {
	Selector
	x   utils.Vector
	err error
}

func (st *stencils) dir(f, sign utils.Vector) (d utils.Vector) {
	if st.err == nil {
		d, st.err = st.Directional(st.x, f, sign)
	}
	return
}

func (st *stencils) cent(f utils.Vector) (d utils.Vector) {
	if st.err == nil {
		d, st.err = st.Centered(st.x, f)
	}
	return
}
