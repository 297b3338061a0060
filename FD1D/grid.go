package FD1D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gomhd/utils"
)

// Grid is a strictly monotonic, possibly non-uniform set of node coordinates.
// It is not modified after construction.
type Grid struct {
	X utils.Vector
}

func NewGrid(x []float64) (g *Grid, err error) {
	var (
		N = len(x)
	)
	if N < 2 {
		err = fmt.Errorf("grid needs at least 2 points, have %d", N)
		return
	}
	sign := math.Copysign(1, x[1]-x[0])
	for i := 1; i < N; i++ {
		dx := (x[i] - x[i-1]) * sign
		if !(dx > 0) {
			err = fmt.Errorf("grid is not strictly monotonic at index %d: x[%d] = %v, x[%d] = %v",
				i, i-1, x[i-1], i, x[i])
			return
		}
	}
	xc := make([]float64, N)
	copy(xc, x)
	g = &Grid{X: utils.NewVector(N, xc)}
	return
}

func NewUniformGrid(xmin, xmax float64, N int) (g *Grid, err error) {
	if N < 2 {
		err = fmt.Errorf("grid needs at least 2 points, have %d", N)
		return
	}
	return NewGrid(floats.Span(make([]float64, N), xmin, xmax))
}

// NewStretchedGrid clusters points toward the middle of [xmin, xmax] for
// beta > 0 and toward the ends for beta < 0, beta = 0 is uniform.
func NewStretchedGrid(xmin, xmax float64, N int, beta float64) (g *Grid, err error) {
	if beta == 0 {
		return NewUniformGrid(xmin, xmax, N)
	}
	if N < 2 {
		err = fmt.Errorf("grid needs at least 2 points, have %d", N)
		return
	}
	var (
		s      = floats.Span(make([]float64, N), -1, 1)
		x      = make([]float64, N)
		xc     = 0.5 * (xmin + xmax)
		half   = 0.5 * (xmax - xmin)
		b      = math.Abs(beta)
		tanhB  = math.Tanh(b)
		invert = beta < 0
	)
	for i, sval := range s {
		if invert {
			// Cluster toward the ends
			x[i] = xc + half*math.Tanh(b*sval)/tanhB
		} else {
			x[i] = xc + half*math.Atanh(sval*tanhB)/b
		}
	}
	x[0], x[N-1] = xmin, xmax
	return NewGrid(x)
}

func (g *Grid) Len() int { return g.X.Len() }

func (g *Grid) MinSpacing() (dxMin float64) {
	var (
		x = g.X.DataP()
	)
	dxMin = math.Inf(1)
	for i := 1; i < len(x); i++ {
		dxMin = math.Min(dxMin, math.Abs(x[i]-x[i-1]))
	}
	return
}
