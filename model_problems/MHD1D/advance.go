package MHD1D

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/gomhd/utils"
)

type evaluator func(s *FieldState) (utils.Vector, error)

// evaluators are in ConservedName order
func (eq *Equations) evaluators() [NumConserved]evaluator {
	return [NumConserved]evaluator{
		eq.DRhoDt, eq.DRhoUxDt, eq.DRhoUyDt, eq.DRhoUzDt,
		eq.DEDt, eq.DBxDt, eq.DByDt, eq.DBzDt,
	}
}

// Advance evaluates all eight time derivatives for one snapshot. The state is
// not modified and no time integration is done. Errors from the derivative
// kernels are returned as they are.
func (eq *Equations) Advance(s *FieldState) (d *Derivatives, err error) {
	var (
		res [NumConserved]utils.Vector
	)
	for c, f := range eq.evaluators() {
		if res[c], err = f(s); err != nil {
			return nil, err
		}
	}
	return newDerivatives(res), nil
}

// AdvanceParallel gives the same result as Advance with the eight evaluators
// running concurrently. The first error cancels the others.
func (eq *Equations) AdvanceParallel(ctx context.Context, s *FieldState) (d *Derivatives, err error) {
	var (
		res [NumConserved]utils.Vector
	)
	g, gctx := errgroup.WithContext(ctx)
	for c, f := range eq.evaluators() {
		c, f := c, f
		g.Go(func() (err error) {
			if err = gctx.Err(); err != nil {
				return
			}
			res[c], err = f(s)
			return
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return newDerivatives(res), nil
}
