package MHD1D

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/types"
	"github.com/notargets/gomhd/utils"
)

var ErrDiverged = errors.New("MHD1D: solution diverged (NaN or Inf detected)")

// SimulationError carries the step at which the run stopped
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d, time %8.5f: %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }

type IntegratorType uint8

const (
	FORWARD_EULER IntegratorType = iota
	SSP_RK3
)

var (
	integratorNames   = []string{"FORWARD_EULER", "SSP_RK3"}
	IntegratorNameMap = map[string]IntegratorType{
		"euler":         FORWARD_EULER,
		"forward_euler": FORWARD_EULER,
		"rk3":           SSP_RK3,
		"ssp_rk3":       SSP_RK3,
	}
)

func (it IntegratorType) String() string {
	if int(it) < len(integratorNames) {
		return integratorNames[it]
	}
	return fmt.Sprintf("IntegratorType(%d)", it)
}

func NewIntegratorType(label string) (it IntegratorType, err error) {
	var ok bool
	if it, ok = IntegratorNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown integrator: %q", label)
	}
	return
}

// Observer receives the primitive state at snapshot steps
type Observer interface {
	OnSnapshot(ctx context.Context, step int, time float64, s *FieldState) error
}

// Solver advances a FieldState in time with a fixed step, using Advance for
// the right hand side.
type Solver struct {
	Eq                *Equations
	Grid              *FD1D.Grid
	Gamma, DT         float64
	FinalTime         float64
	Integrator        IntegratorType
	BC                types.BCFLAG
	Parallel          bool
	LogFrequency      int
	SnapshotFrequency int
	Logger            *zap.Logger
	Metrics           *Metrics
	Observer          Observer
	Time              float64
	Steps             int
	U                 Conserved
	initial           Conserved
}

func NewSolver(g *FD1D.Grid, s0 *FieldState, gamma, DT, FinalTime float64,
	integrator IntegratorType, bc types.BCFLAG) (c *Solver, err error) {
	switch {
	case DT <= 0:
		err = fmt.Errorf("time step must be positive, have %v", DT)
	case FinalTime <= 0:
		err = fmt.Errorf("final time must be positive, have %v", FinalTime)
	case gamma <= 1:
		err = fmt.Errorf("gamma must be greater than 1, have %v", gamma)
	}
	if err != nil {
		return
	}
	if err = s0.Validate(); err != nil {
		return
	}
	if err = utils.CheckLen("NewSolver", g.Len(), s0.Len()); err != nil {
		return
	}
	c = &Solver{
		Eq:           NewEquations(nil),
		Grid:         g,
		Gamma:        gamma,
		DT:           DT,
		FinalTime:    FinalTime,
		Integrator:   integrator,
		BC:           bc,
		LogFrequency: 50,
		Logger:       zap.NewNop(),
		U:            ToConserved(s0),
	}
	c.initial = c.U.Copy()
	return
}

// State returns the primitive fields of the current solution
func (c *Solver) State() *FieldState { return c.U.ToPrimitive(c.Grid.X, c.Gamma) }

func (c *Solver) rhs(ctx context.Context, U Conserved) (R Conserved, err error) {
	var (
		s     = U.ToPrimitive(c.Grid.X, c.Gamma)
		d     *Derivatives
		start = time.Now()
	)
	if c.Parallel {
		d, err = c.Eq.AdvanceParallel(ctx, s)
	} else {
		d, err = c.Eq.Advance(s)
	}
	if err != nil {
		return
	}
	if c.Metrics != nil {
		c.Metrics.RHSEvaluations.Inc()
		c.Metrics.AdvanceSeconds.Observe(time.Since(start).Seconds())
	}
	R = d.Vectors()
	return
}

func (c *Solver) BoundaryConditions(U Conserved) {
	var (
		N = c.Grid.Len()
	)
	for n := range U {
		data := U[n].DataP()
		switch c.BC {
		case types.BC_Dirichlet:
			u0 := c.initial[n].DataP()
			data[0], data[N-1] = u0[0], u0[N-1]
		case types.BC_Neuman:
			data[0], data[N-1] = data[1], data[N-2]
		}
	}
}

// Step advances the solution by dt
func (c *Solver) Step(ctx context.Context, dt float64) (err error) {
	var (
		U0       = c.U
		R        Conserved
		U1, U2   Conserved
		update1  = func(u0, rhs float64) float64 { return u0 + dt*rhs }
		update2  = func(u0, u1, rhs float64) float64 { return (3*u0 + u1 + rhs*dt) * (1. / 4.) }
		update3  = func(u0, u2, rhs float64) float64 { return (u0 + 2*u2 + 2*dt*rhs) * (1. / 3.) }
		newStage = func(U, R Conserved) (S Conserved) {
			for n := range U {
				S[n] = U[n].Copy().Apply2(R[n], update1)
			}
			return
		}
	)
	if R, err = c.rhs(ctx, U0); err != nil {
		return
	}
	U1 = newStage(U0, R)
	c.BoundaryConditions(U1)
	switch c.Integrator {
	case FORWARD_EULER:
		c.U = U1
	case SSP_RK3:
		if R, err = c.rhs(ctx, U1); err != nil {
			return
		}
		for n := range U0 {
			U2[n] = U0[n].Copy().Apply3(U1[n], R[n], update2)
		}
		c.BoundaryConditions(U2)
		if R, err = c.rhs(ctx, U2); err != nil {
			return
		}
		var U3 Conserved
		for n := range U0 {
			U3[n] = U0[n].Copy().Apply3(U2[n], R[n], update3)
		}
		c.BoundaryConditions(U3)
		c.U = U3
	default:
		return fmt.Errorf("unknown integrator: %v", c.Integrator)
	}
	c.Time += dt
	c.Steps++
	if c.Metrics != nil {
		c.Metrics.Steps.Inc()
		c.Metrics.SimTime.Set(c.Time)
	}
	if c.U.IsNan() {
		return ErrDiverged
	}
	return
}

func (c *Solver) snapshot(ctx context.Context) error {
	if c.Observer == nil {
		return nil
	}
	return c.Observer.OnSnapshot(ctx, c.Steps, c.Time, c.State())
}

// Run integrates until FinalTime. Cancellation is checked between steps.
func (c *Solver) Run(ctx context.Context) (err error) {
	var (
		logger = c.Logger
		tol    = 1.e-12 * math.Max(1, c.FinalTime)
	)
	if logger == nil {
		logger = zap.NewNop()
	}
	wrap := func(err error) error {
		return &SimulationError{Step: c.Steps, Time: c.Time, Wrapped: err}
	}
	logger.Info("starting MHD 1D run",
		zap.Int("points", c.Grid.Len()),
		zap.Stringer("integrator", c.Integrator),
		zap.Stringer("bc", c.BC),
		zap.Float64("dt", c.DT),
		zap.Float64("min_dx", c.Grid.MinSpacing()),
		zap.Float64("final_time", c.FinalTime))
	if err = c.snapshot(ctx); err != nil {
		return wrap(err)
	}
	for c.Time < c.FinalTime-tol {
		if err = ctx.Err(); err != nil {
			return wrap(err)
		}
		dt := math.Min(c.DT, c.FinalTime-c.Time)
		if err = c.Step(ctx, dt); err != nil {
			return wrap(err)
		}
		isDone := c.Time >= c.FinalTime-tol
		if (c.LogFrequency > 0 && c.Steps%c.LogFrequency == 0) || isDone {
			fields := []zap.Field{
				zap.Int("step", c.Steps),
				zap.Float64("time", c.Time),
				zap.Float64("rho_min", c.U[CRho].Min()),
				zap.Float64("rho_max", c.U[CRho].Max()),
				zap.Float64("e_min", c.U[CE].Min()),
				zap.Float64("e_max", c.U[CE].Max()),
			}
			if isDone {
				fields = append(fields, zap.Stringer("memory", utils.ReadMemUsage()))
			}
			logger.Info("step", fields...)
		}
		if isDone || (c.SnapshotFrequency > 0 && c.Steps%c.SnapshotFrequency == 0) {
			if err = c.snapshot(ctx); err != nil {
				return wrap(err)
			}
		}
	}
	return
}
