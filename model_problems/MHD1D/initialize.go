package MHD1D

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/utils"
)

type CaseType uint8

const (
	UNIFORM CaseType = iota
	DENSITY_WAVE
	BRIO_WU
	ALFVEN_WAVE
)

var (
	caseNames = []string{
		"UNIFORM",
		"DENSITY_WAVE",
		"BRIO_WU",
		"ALFVEN_WAVE",
	}
	CaseNameMap = map[string]CaseType{
		"uniform":      UNIFORM,
		"freestream":   UNIFORM,
		"density_wave": DENSITY_WAVE,
		"densitywave":  DENSITY_WAVE,
		"brio_wu":      BRIO_WU,
		"briowu":       BRIO_WU,
		"shocktube":    BRIO_WU,
		"alfven_wave":  ALFVEN_WAVE,
		"alfven":       ALFVEN_WAVE,
	}
)

func (ct CaseType) String() string {
	if int(ct) < len(caseNames) {
		return caseNames[ct]
	}
	return fmt.Sprintf("CaseType(%d)", ct)
}

func NewCaseType(label string) (ct CaseType, err error) {
	var ok bool
	if ct, ok = CaseNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown initial condition case: %q", label)
	}
	return
}

// InitializeCase builds the initial state of the case on grid g. The energy
// field is the internal energy density Pg/(gamma-1).
func InitializeCase(g *FD1D.Grid, ct CaseType, gamma float64) (s *FieldState, err error) {
	if gamma <= 1 {
		err = fmt.Errorf("gamma must be greater than 1, have %v", gamma)
		return
	}
	var (
		N          = g.Len()
		x          = g.X
		xmin, xmax = x.AtVec(0), x.AtVec(N - 1)
		L          = xmax - xmin
		k          = 2 * math.Pi / L
		sinKx      = func(amp float64) func(float64) float64 {
			return func(xval float64) float64 { return amp * math.Sin(k*(xval-xmin)) }
		}
	)
	s = NewFieldState(g)
	switch ct {
	case UNIFORM:
		s.Rho.Set(1)
		s.Pg.Set(1)
	case DENSITY_WAVE:
		s.Rho = x.Copy().Apply(sinKx(0.2)).AddScalar(1)
		s.Ux.Set(1)
		s.Pg.Set(1)
	case BRIO_WU:
		var (
			xmid      = 0.5 * (xmin + xmax)
			leftHalf  = x.Find(utils.Less, xmid, false)
			rightHalf = leftHalf.Complement(N)
		)
		if xmin > xmax {
			leftHalf, rightHalf = rightHalf, leftHalf
		}
		s.Rho.AssignScalar(leftHalf, 1).AssignScalar(rightHalf, 0.125)
		s.Pg.AssignScalar(leftHalf, 1).AssignScalar(rightHalf, 0.1)
		s.By.AssignScalar(leftHalf, 1).AssignScalar(rightHalf, -1)
		s.Bx = utils.NewVectorConstant(N, 0.75)
	case ALFVEN_WAVE:
		s.Rho.Set(1)
		s.Pg.Set(1)
		s.Bx.Set(1)
		s.Uy = x.Copy().Apply(sinKx(0.1))
		s.By = x.Copy().Apply(sinKx(-0.1))
	default:
		err = fmt.Errorf("unknown initial condition case: %v", ct)
		return nil, err
	}
	s.E = s.Pg.Copy().Scale(1. / (gamma - 1.))
	return
}
