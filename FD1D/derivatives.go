package FD1D

import (
	"github.com/notargets/gomhd/utils"
)

// Derivative computes first derivatives of a field sampled on x.
// Implementations must not keep mutable state between calls.
type Derivative interface {
	// Upwind is backward biased, one-sided at the lower boundary
	Upwind(x, f utils.Vector) (utils.Vector, error)
	// Downwind is forward biased, one-sided at the upper boundary
	Downwind(x, f utils.Vector) (utils.Vector, error)
	// Centered is symmetric, one-sided at both boundaries
	Centered(x, f utils.Vector) (utils.Vector, error)
}

// FiniteDifference is the two point / three point finite difference backend
// on a non-uniform grid.
type FiniteDifference struct{}

var _ Derivative = FiniteDifference{}

func checkShape(op string, x, f utils.Vector) (err error) {
	if err = utils.CheckLen(op, x.Len(), f.Len()); err != nil {
		return
	}
	if x.Len() < 2 {
		err = &utils.ShapeError{Op: op, Want: 2, Got: x.Len()}
	}
	return
}

func (FiniteDifference) Upwind(x, f utils.Vector) (d utils.Vector, err error) {
	if err = checkShape("Upwind", x, f); err != nil {
		return
	}
	var (
		N      = x.Len()
		xd, fd = x.DataP(), f.DataP()
	)
	d = utils.NewVector(N)
	dd := d.DataP()
	for i := 1; i < N; i++ {
		dd[i] = (fd[i] - fd[i-1]) / (xd[i] - xd[i-1])
	}
	dd[0] = (fd[1] - fd[0]) / (xd[1] - xd[0])
	return
}

func (FiniteDifference) Downwind(x, f utils.Vector) (d utils.Vector, err error) {
	if err = checkShape("Downwind", x, f); err != nil {
		return
	}
	var (
		N      = x.Len()
		xd, fd = x.DataP(), f.DataP()
	)
	d = utils.NewVector(N)
	dd := d.DataP()
	for i := 0; i < N-1; i++ {
		dd[i] = (fd[i+1] - fd[i]) / (xd[i+1] - xd[i])
	}
	dd[N-1] = (fd[N-1] - fd[N-2]) / (xd[N-1] - xd[N-2])
	return
}

func (FiniteDifference) Centered(x, f utils.Vector) (d utils.Vector, err error) {
	if err = checkShape("Centered", x, f); err != nil {
		return
	}
	var (
		N      = x.Len()
		xd, fd = x.DataP(), f.DataP()
	)
	d = utils.NewVector(N)
	dd := d.DataP()
	for i := 1; i < N-1; i++ {
		dd[i] = (fd[i+1] - fd[i-1]) / (xd[i+1] - xd[i-1])
	}
	dd[0] = (fd[1] - fd[0]) / (xd[1] - xd[0])
	dd[N-1] = (fd[N-1] - fd[N-2]) / (xd[N-1] - xd[N-2])
	return
}
