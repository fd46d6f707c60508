package optimizer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Problem is the QP handed to a solver: maximize
//
//	alpha·x − cost·|x − x0| − 0.5·lambda·x²
//
// subject to the per-coordinate box Lower ≤ x ≤ Upper (position and trade
// caps intersected by the caller) and the optional coupling constraints
// |Σx| ≤ MaxNetDeltaUSD, |FactorLoading·x| ≤ MaxFactorExposure and
// Σ|x| ≤ MaxGrossUSD. Zero scalars disable the corresponding constraint.
type Problem struct {
	Alpha   []float64
	Current []float64
	Cost    []float64
	Lambda  []float64
	Lower   []float64
	Upper   []float64

	FactorLoading     []float64
	MaxFactorExposure float64
	MaxNetDeltaUSD    float64
	MaxGrossUSD       float64
}

// Solver solves one Problem. Returning an error means no usable solution
// (infeasible, non-convergent, numerical failure); the optimizer falls back
// to holding current positions in that case.
type Solver interface {
	Solve(p *Problem) ([]float64, error)
}

// smoothEps smooths the non-differentiable |d| terms as sqrt(d²+eps) so the
// objective has a gradient everywhere.
const smoothEps = 1e-10

// PenaltySolver solves the QP by quadratic exterior penalties with an
// escalating penalty weight, minimizing each subproblem with L-BFGS. The
// final iterate is clamped to the box, so box feasibility is exact; the
// coupling constraints are verified within tolerance.
type PenaltySolver struct {
	MaxIter int
	Tol     float64
}

// NewPenaltySolver returns a solver with the given per-subproblem iteration
// budget and gradient tolerance.
func NewPenaltySolver(maxIter int, tol float64) *PenaltySolver {
	if maxIter <= 0 {
		maxIter = 500
	}
	if tol <= 0 {
		tol = 1e-8
	}

	return &PenaltySolver{MaxIter: maxIter, Tol: tol}
}

// Solve implements Solver.
func (s *PenaltySolver) Solve(p *Problem) ([]float64, error) {
	n := len(p.Alpha)
	if n == 0 {
		return nil, fmt.Errorf("empty problem")
	}

	for i := 0; i < n; i++ {
		if p.Lower[i] > p.Upper[i]+1e-9 {
			return nil, fmt.Errorf("infeasible box for coordinate %d: [%f, %f]", i, p.Lower[i], p.Upper[i])
		}
	}

	// Warm start from the current position clamped into the box: always
	// feasible, and the no-trade point when the box permits it.
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = clamp(p.Current[i], p.Lower[i], p.Upper[i])
	}

	for _, mu := range []float64{1e2, 1e4, 1e6} {
		problem := optimize.Problem{
			Func: func(v []float64) float64 { return s.penalized(p, v, mu) },
			Grad: func(grad, v []float64) { s.penalizedGrad(p, v, mu, grad) },
		}

		settings := &optimize.Settings{
			GradientThreshold: s.Tol,
			MajorIterations:   s.MaxIter,
		}

		result, err := optimize.Minimize(problem, x, settings, &optimize.LBFGS{})
		if err != nil {
			return nil, fmt.Errorf("lbfgs (mu=%g): %w", mu, err)
		}

		copy(x, result.X)
	}

	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) {
			return nil, fmt.Errorf("solver produced NaN at coordinate %d", i)
		}
		x[i] = clamp(x[i], p.Lower[i], p.Upper[i])
	}

	err := s.checkCoupling(p, x)
	if err != nil {
		return nil, err
	}

	return x, nil
}

// penalized is the negated objective plus exterior penalties, minimized by
// the inner solver.
func (s *PenaltySolver) penalized(p *Problem, x []float64, mu float64) float64 {
	f := -floats.Dot(p.Alpha, x)

	for i := range x {
		d := x[i] - p.Current[i]
		f += p.Cost[i]*math.Sqrt(d*d+smoothEps) + 0.5*p.Lambda[i]*x[i]*x[i]

		lo := p.Lower[i] - x[i]
		if lo > 0 {
			f += mu * lo * lo
		}
		hi := x[i] - p.Upper[i]
		if hi > 0 {
			f += mu * hi * hi
		}
	}

	if p.MaxNetDeltaUSD > 0 {
		v := math.Abs(floats.Sum(x)) - p.MaxNetDeltaUSD
		if v > 0 {
			f += mu * v * v
		}
	}

	if p.FactorLoading != nil && p.MaxFactorExposure > 0 {
		v := math.Abs(floats.Dot(p.FactorLoading, x)) - p.MaxFactorExposure
		if v > 0 {
			f += mu * v * v
		}
	}

	if p.MaxGrossUSD > 0 {
		v := smoothL1(x) - p.MaxGrossUSD
		if v > 0 {
			f += mu * v * v
		}
	}

	return f
}

func (s *PenaltySolver) penalizedGrad(p *Problem, x []float64, mu float64, grad []float64) {
	for i := range x {
		d := x[i] - p.Current[i]
		grad[i] = -p.Alpha[i] + p.Cost[i]*d/math.Sqrt(d*d+smoothEps) + p.Lambda[i]*x[i]

		lo := p.Lower[i] - x[i]
		if lo > 0 {
			grad[i] -= 2 * mu * lo
		}
		hi := x[i] - p.Upper[i]
		if hi > 0 {
			grad[i] += 2 * mu * hi
		}
	}

	if p.MaxNetDeltaUSD > 0 {
		sum := floats.Sum(x)
		v := math.Abs(sum) - p.MaxNetDeltaUSD
		if v > 0 {
			g := 2 * mu * v * sign(sum)
			for i := range grad {
				grad[i] += g
			}
		}
	}

	if p.FactorLoading != nil && p.MaxFactorExposure > 0 {
		dot := floats.Dot(p.FactorLoading, x)
		v := math.Abs(dot) - p.MaxFactorExposure
		if v > 0 {
			g := 2 * mu * v * sign(dot)
			for i := range grad {
				grad[i] += g * p.FactorLoading[i]
			}
		}
	}

	if p.MaxGrossUSD > 0 {
		v := smoothL1(x) - p.MaxGrossUSD
		if v > 0 {
			g := 2 * mu * v
			for i := range grad {
				grad[i] += g * x[i] / math.Sqrt(x[i]*x[i]+smoothEps)
			}
		}
	}
}

// checkCoupling verifies the aggregate constraints within a relative
// tolerance after the box clamp.
func (s *PenaltySolver) checkCoupling(p *Problem, x []float64) error {
	const relTol = 1e-3

	if p.MaxNetDeltaUSD > 0 {
		net := math.Abs(floats.Sum(x))
		if net > p.MaxNetDeltaUSD*(1+relTol)+1 {
			return fmt.Errorf("net delta constraint violated: |%f| > %f", net, p.MaxNetDeltaUSD)
		}
	}

	if p.FactorLoading != nil && p.MaxFactorExposure > 0 {
		exp := math.Abs(floats.Dot(p.FactorLoading, x))
		if exp > p.MaxFactorExposure*(1+relTol)+1 {
			return fmt.Errorf("factor exposure constraint violated: |%f| > %f", exp, p.MaxFactorExposure)
		}
	}

	if p.MaxGrossUSD > 0 {
		gross := floats.Norm(x, 1)
		if gross > p.MaxGrossUSD*(1+relTol)+1 {
			return fmt.Errorf("gross exposure constraint violated: %f > %f", gross, p.MaxGrossUSD)
		}
	}

	return nil
}

func smoothL1(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += math.Sqrt(v*v + smoothEps)
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
