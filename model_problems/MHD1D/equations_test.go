package MHD1D

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/utils"
)

func newTestState(t *testing.T, x []float64) *FieldState {
	g, err := FD1D.NewGrid(x)
	require.NoError(t, err)
	return NewFieldState(g)
}

func vec(data ...float64) utils.Vector { return utils.NewVector(len(data), data) }

func TestSelector(t *testing.T) {
	var (
		sel  = Selector{D: FD1D.FiniteDifference{}}
		x    = vec(0, 1, 2, 3)
		f    = vec(1, 2, 4, 8)
		sign = vec(1, -1, 0, -2)
	)
	up, _ := sel.D.Upwind(x, f)
	dn, _ := sel.D.Downwind(x, f)
	d, err := sel.Directional(x, f, sign)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 2, 4}, d.Data())
	// An exact zero in the sign field routes to the upwind stencil
	assert.Equal(t, up.AtVec(2), d.AtVec(2))
	assert.NotEqual(t, dn.AtVec(2), d.AtVec(2))
	// Negative zero compares equal to zero
	d, err = sel.Directional(x, f, vec(math.Copysign(0, -1), -1, -1, -1))
	require.NoError(t, err)
	assert.Equal(t, up.AtVec(0), d.AtVec(0))
	// Strictly positive is pure upwind, strictly negative is pure downwind
	d, _ = sel.Directional(x, f, vec(1, 1, 1, 1))
	assert.Equal(t, up.Data(), d.Data())
	d, _ = sel.Directional(x, f, vec(-1, -1, -1, -1))
	assert.Equal(t, dn.Data(), d.Data())
	// NaN sign goes downwind
	d, _ = sel.Directional(x, f, vec(1, math.NaN(), 1, 1))
	assert.Equal(t, dn.AtVec(1), d.AtVec(1))

	c, err := sel.Centered(x, f)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5, 3, 4}, c.Data())

	var se *utils.ShapeError
	_, err = sel.Directional(x, vec(1, 2, 3), sign)
	assert.True(t, errors.As(err, &se))
	_, err = sel.Directional(x, f, vec(1, 2, 3))
	assert.True(t, errors.As(err, &se))
	_, err = sel.Centered(x, vec(1))
	assert.True(t, errors.As(err, &se))
}

func TestZeroMotion(t *testing.T) {
	var (
		eq = NewEquations(nil)
	)
	for _, x := range [][]float64{{0, 1, 2, 3}, {0, 0.1, 0.5, 0.6, 2, 5}, {3, 2}} {
		s := newTestState(t, x)
		s.Rho.Set(2)
		s.Pg.Set(3)
		s.E.Set(1.5)
		s.Bx.Set(0.3)
		s.By.Set(-0.7)
		s.Bz.Set(0.2)
		d, err := eq.Advance(s)
		require.NoError(t, err)
		zero := make([]float64, len(x))
		for c, v := range d.Vectors() {
			assert.Equal(t, zero, v.Data(), "field %s", ConservedName(c))
		}
	}
}

func TestDBxDtIsExactZero(t *testing.T) {
	var (
		eq  = NewEquations(nil)
		s   = newTestState(t, []float64{0, 1, 2, 3, 4})
		nan = math.NaN()
	)
	for f := Rho; f < NumFields; f++ {
		s.Field(f).Set(nan)
	}
	dbx, err := eq.DBxDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, dbx.Data())
	for i := 0; i < dbx.Len(); i++ {
		assert.False(t, math.Signbit(dbx.AtVec(i)))
	}
	// Still exactly zero with fields of the wrong length
	s.Bx = vec(1, 2)
	dbx, err = eq.DBxDt(s)
	require.NoError(t, err)
	assert.Equal(t, 5, dbx.Len())
	assert.Equal(t, 0., dbx.AbsMax())
}

func TestContinuity(t *testing.T) {
	var (
		eq = NewEquations(nil)
	)
	// Uniform density and velocity
	{
		s := newTestState(t, []float64{0, 1, 2, 3})
		s.Rho.Set(1)
		s.Ux.Set(1)
		drho, err := eq.DRhoDt(s)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0, 0}, drho.Data())
		dbx, _ := eq.DBxDt(s)
		assert.Equal(t, []float64{0, 0, 0, 0}, dbx.Data())
	}
	// Density gradient, ux > 0 everywhere: upwind only
	{
		s := newTestState(t, []float64{0, 1, 2, 3})
		s.Rho = vec(1, 2, 3, 4)
		s.Ux.Set(1)
		drho, err := eq.DRhoDt(s)
		require.NoError(t, err)
		fd := FD1D.FiniteDifference{}
		cUx, err := fd.Centered(s.X, s.Ux)
		require.NoError(t, err)
		upRho, err := fd.Upwind(s.X, s.Rho)
		require.NoError(t, err)
		expect := s.Rho.Copy().ElMul(cUx).Scale(-1).Subtract(s.Ux.Copy().ElMul(upRho))
		assert.Equal(t, expect.Data(), drho.Data())
		assert.Equal(t, []float64{-1, -1, -1, -1}, drho.Data())
	}
	// Mixed signs including a stagnation point
	{
		s := newTestState(t, []float64{0, 1, 2, 3})
		s.Rho = vec(1, 2, 4, 8)
		s.Ux = vec(1, -1, 0, -2)
		drho, err := eq.DRhoDt(s)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 3, 2, 24}, drho.Data())
	}
}

func TestEnergy(t *testing.T) {
	var (
		eq = NewEquations(nil)
		s  = newTestState(t, []float64{0, 1, 2, 3})
	)
	s.Ux.Set(1)
	s.E = vec(1, 2, 4, 8)
	de, err := eq.DEDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1, -2, -4}, de.Data())

	// Compression term: ux = x, de/dx = 0
	s.Ux = vec(0, 1, 2, 3)
	s.E.Set(2)
	s.Pg.Set(1)
	de, err = eq.DEDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -3, -3, -3}, de.Data())
}

func TestMomentumAndInduction(t *testing.T) {
	var (
		eq = NewEquations(nil)
		s  = newTestState(t, []float64{0, 1, 2, 3})
	)
	// Pressure gradient only
	s.Rho.Set(1)
	s.Pg = vec(0, 1, 2, 3)
	drhoux, err := eq.DRhoUxDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1, -1, -1}, drhoux.Data())

	// Magnetic pressure from By = x, stencil sign from By itself
	s.Pg.Set(0)
	s.By = vec(0, 1, 2, 3)
	drhoux, err = eq.DRhoUxDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, -1, -2, -3}, drhoux.Data())

	// Magnetic tension in y with Bx = 2
	s.Bx.Set(2)
	drhouy, err := eq.DRhoUyDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2, 2}, drhouy.Data())

	// and in z, with the opposite sign
	s.By.Set(0)
	s.Bz = vec(0, 1, 2, 3)
	drhouz, err := eq.DRhoUzDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2, -2, -2}, drhouz.Data())

	// Induction: advection of By and Bz by ux = 1
	s = newTestState(t, []float64{0, 1, 2, 3})
	s.Ux.Set(1)
	s.By = vec(0, 1, 2, 3)
	s.Bz = vec(0, 1, 2, 3)
	dby, err := eq.DByDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1, -1, -1}, dby.Data())
	dbz, err := eq.DBzDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, dbz.Data())

	// Transverse velocity shear with Bx = 1
	s = newTestState(t, []float64{0, 1, 2, 3})
	s.Bx.Set(1)
	s.Uy = vec(0, 1, 2, 3)
	s.Uz = vec(0, 2, 4, 6)
	dby, err = eq.DByDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, dby.Data())
	dbz, err = eq.DBzDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2, -2, -2}, dbz.Data())
}

// Each velocity and field component has its own sign pattern on the interior
// points, so routing a term on the wrong sign field, or flipping it, shows.
func TestMixedSignRouting(t *testing.T) {
	var (
		eq = NewEquations(nil)
		s  = newTestState(t, []float64{0, 1, 2, 3, 4, 5})
	)
	s.Rho = vec(2, 1, 1, 1, 1, 1)
	s.Ux = vec(-2, -2, 1, -1, -0.5, 1)
	s.Uy = vec(-1, -0.5, -0.5, 2, -2, 1)
	s.Uz = vec(-0.5, 1, -1, 0.5, -0.5, 1)
	s.Bx = vec(-0.5, 0.5, -0.5, 2, 0.5, -0.5)
	s.By = vec(0.5, 1, 0.5, -2, 0.5, -1)
	s.Bz = vec(-1, -2, 0.5, 1, 1, 0.5)
	s.Pg = vec(1, 2, 1, 2, 2, 0.5)

	for name, tc := range map[string]struct {
		rhs    func(*FieldState) (utils.Vector, error)
		expect []float64
	}{
		"DRhoUxDt": {eq.DRhoUxDt, []float64{-6.25, 4.5, -1, 4, -0.5, 0.25}},
		"DRhoUyDt": {eq.DRhoUyDt, []float64{-3.25, 1.75, 2.75, -3.5, 2.75, 2.25}},
		"DRhoUzDt": {eq.DRhoUzDt, []float64{-4.5, -3.5, -0.25, -1.5, 0, -0.25}},
		"DByDt":    {eq.DByDt, []float64{-0.25, -0.25, -3.5, 13.5, -1, 0.5}},
		"DBzDt":    {eq.DBzDt, []float64{3.25, -12.75, 7.25, -6.25, 0.75, 2}},
	} {
		t.Run(name, func(t *testing.T) {
			d, err := tc.rhs(s)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, d.Data())
		})
	}
}

func TestShapeEnforcement(t *testing.T) {
	var (
		eq = NewEquations(nil)
		se *utils.ShapeError
	)
	for f := Rho; f < NumFields; f++ {
		s := newTestState(t, []float64{0, 1, 2, 3})
		s.Rho.Set(1)
		*s.fieldP(f) = utils.NewVector(3)
		for c, ev := range eq.evaluators() {
			if ConservedName(c) == CBx {
				continue
			}
			d, err := ev(s)
			if err != nil {
				assert.True(t, errors.As(err, &se), "field %s, evaluator %s", f, ConservedName(c))
				assert.True(t, d.IsEmpty())
			}
		}
		d, err := eq.Advance(s)
		require.Error(t, err, "field %s", f)
		assert.True(t, errors.As(err, &se))
		assert.Nil(t, d)
		assert.Error(t, s.Validate())
	}
	// Every evaluator but DBx reads rho or ux
	s := newTestState(t, []float64{0, 1, 2, 3})
	s.Rho = utils.NewVector(2)
	s.Ux = utils.NewVector(2)
	for c, ev := range eq.evaluators() {
		_, err := ev(s)
		if ConservedName(c) == CBx {
			assert.NoError(t, err)
		} else {
			assert.True(t, errors.As(err, &se), "evaluator %s", ConservedName(c))
		}
	}
}

// countingBackend records calls and scales the finite difference result
type countingBackend struct {
	FD1D.FiniteDifference
	scale                     float64
	mu                        sync.Mutex
	upwind, downwind, centred int
}

func (b *countingBackend) Upwind(x, f utils.Vector) (d utils.Vector, err error) {
	b.mu.Lock()
	b.upwind++
	b.mu.Unlock()
	if d, err = b.FiniteDifference.Upwind(x, f); err == nil {
		d.Scale(b.scale)
	}
	return
}

func (b *countingBackend) Downwind(x, f utils.Vector) (d utils.Vector, err error) {
	b.mu.Lock()
	b.downwind++
	b.mu.Unlock()
	if d, err = b.FiniteDifference.Downwind(x, f); err == nil {
		d.Scale(b.scale)
	}
	return
}

func (b *countingBackend) Centered(x, f utils.Vector) (d utils.Vector, err error) {
	b.mu.Lock()
	b.centred++
	b.mu.Unlock()
	if d, err = b.FiniteDifference.Centered(x, f); err == nil {
		d.Scale(b.scale)
	}
	return
}

func TestSingleBackend(t *testing.T) {
	var (
		s = newTestState(t, []float64{0, 0.5, 1.5, 2, 3.5})
	)
	s.Rho = vec(1, 2, 1.5, 0.5, 1)
	s.Ux = vec(0.5, -0.25, 0, 1, -1)
	s.Uy = vec(-1, 0.5, 0.75, 0, 0.25)
	s.Uz = vec(0.25, 0, -0.5, 1, 2)
	s.Pg = vec(1, 0.5, 2, 1, 0.25)
	s.E = vec(2, 1, 4, 2, 0.5)
	s.Bx = vec(0.75, -0.5, 0, 0.25, 1)
	s.By = vec(1, 0, -1, 0.5, -0.25)
	s.Bz = vec(-0.5, 0.25, 1, 0, 0.75)

	// Energy alone goes through the injected backend
	{
		b := &countingBackend{scale: 1}
		_, err := NewEquations(b).DEDt(s)
		require.NoError(t, err)
		assert.Equal(t, 1, b.upwind)
		assert.Equal(t, 1, b.downwind)
		assert.Equal(t, 1, b.centred)
	}
	// The right hand side is linear in the derivative operator, a backend
	// scaled by two doubles every term exactly
	{
		b := &countingBackend{scale: 2}
		d2, err := NewEquations(b).Advance(s)
		require.NoError(t, err)
		d1, err := NewEquations(nil).Advance(s)
		require.NoError(t, err)
		for c := CRho; c < NumConserved; c++ {
			assert.Equal(t, d1.Field(c).Copy().Scale(2).Data(), d2.Field(c).Data(), "field %s", c)
		}
		// 1+4+3+3+1+0+4+4 directional terms, 1+1+0+0+1 centered terms
		assert.Equal(t, 20, b.upwind)
		assert.Equal(t, 20, b.downwind)
		assert.Equal(t, 3, b.centred)
	}
	// State is untouched
	assert.Equal(t, []float64{1, 2, 1.5, 0.5, 1}, s.Rho.Data())
	assert.Equal(t, []float64{0.5, -0.25, 0, 1, -1}, s.Ux.Data())
}

func TestNonFiniteInputsPropagate(t *testing.T) {
	var (
		eq = NewEquations(nil)
		s  = newTestState(t, []float64{0, 1, 2, 3})
	)
	s.Rho = vec(1, math.Inf(1), 1, 1)
	s.Ux.Set(1)
	drho, err := eq.DRhoDt(s)
	require.NoError(t, err)
	assert.True(t, utils.IsNan(drho))
	// Negative density is accepted as is
	s.Rho = vec(-1, -1, -1, -1)
	drho, err = eq.DRhoDt(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, drho.Data())
}
