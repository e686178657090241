// Package rootfind implements bracketing scalar root finders.
package rootfind

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/meenmo/mbs/config"
	"github.com/meenmo/mbs/errs"
)

// Func is an objective function. Extra arguments supplied through WithArgs
// are passed through unchanged on every evaluation.
type Func func(x float64, args ...float64) float64

// Result is the outcome of a root search.
type Result struct {
	// Root is the best estimate of the root (the bracket end with the
	// smallest |f|).
	Root float64
	// FuncValue is f(Root). Callers comparing against their own tolerance
	// should use this rather than trusting Converged alone.
	FuncValue float64
	// Iterations is the number of interpolation/bisection steps taken.
	Iterations int
	// Converged is false only when the iteration cap was reached.
	Converged bool
}

type options struct {
	args      []float64
	maxIter   int
	tolerance float64
	logger    zerolog.Logger
}

// Option configures Brent.
type Option func(*options)

// WithArgs sets extra arguments passed to f after x.
func WithArgs(args ...float64) Option {
	return func(o *options) { o.args = append([]float64(nil), args...) }
}

// WithMaxIterations overrides the iteration cap.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIter = n }
}

// WithTolerance overrides the convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

// WithLogger attaches a logger for per-iteration debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Brent finds a root of f inside [a, b] using Brent's method: inverse
// quadratic interpolation when the three retained function values are
// distinct, the secant step otherwise, and bisection whenever the
// interpolated step is not trusted.
//
// f(a) and f(b) must have opposite signs (or one of them be zero), otherwise
// errs.ErrDomain is returned. When the iteration cap is reached the best
// estimate is returned together with an error wrapping errs.ErrNotConverged.
func Brent(f Func, a, b float64, opts ...Option) (Result, error) {
	cfg := config.GetConfig()
	o := options{
		maxIter:   cfg.RootMaxIterations,
		tolerance: cfg.RootTolerance,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if f == nil {
		return Result{}, fmt.Errorf("Brent: objective function is required: %w", errs.ErrInvalidInput)
	}
	if o.maxIter <= 0 {
		return Result{}, fmt.Errorf("Brent: max iterations must be positive, got %d: %w", o.maxIter, errs.ErrInvalidInput)
	}
	if !(o.tolerance > 0) {
		return Result{}, fmt.Errorf("Brent: tolerance must be positive, got %g: %w", o.tolerance, errs.ErrInvalidInput)
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return Result{}, fmt.Errorf("Brent: bracket [%g, %g] must be finite: %w", a, b, errs.ErrInvalidInput)
	}

	fa := f(a, o.args...)
	fb := f(b, o.args...)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return Result{}, fmt.Errorf("Brent: f is NaN at bracket end (f(%g)=%g, f(%g)=%g): %w", a, fa, b, fb, errs.ErrDomain)
	}
	if fa == 0 {
		return Result{Root: a, FuncValue: 0, Converged: true}, nil
	}
	if fb == 0 {
		return Result{Root: b, FuncValue: 0, Converged: true}, nil
	}
	if fa*fb > 0 {
		return Result{}, fmt.Errorf("Brent: f(%g)=%g and f(%g)=%g do not bracket a root: %w", a, fa, b, fb, errs.ErrDomain)
	}

	// b is always the best current estimate.
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	tol := o.tolerance
	c, fc := a, fa
	d := 0.0
	bisected := true

	for iter := 1; iter <= o.maxIter; iter++ {
		var s float64
		if fa != fc && fb != fc {
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			s = b - fb*(b-a)/(fb-fa)
		}

		if !strictlyBetween(s, (3*a+b)/4, b) ||
			(bisected && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!bisected && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(bisected && math.Abs(b-c) < tol) ||
			(!bisected && math.Abs(c-d) < tol) {
			s = (a + b) / 2
			bisected = true
		} else {
			bisected = false
		}

		fs := f(s, o.args...)

		d = c
		c, fc = b, fb
		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}

		o.logger.Debug().
			Int("iter", iter).
			Float64("a", a).
			Float64("b", b).
			Float64("fb", fb).
			Bool("bisection", bisected).
			Msg("brent step")

		if math.Abs(fb) <= tol || math.Abs(fs) <= tol || math.Abs(b-a) <= tol {
			return Result{Root: b, FuncValue: fb, Iterations: iter, Converged: true}, nil
		}
	}

	o.logger.Warn().
		Int("max_iterations", o.maxIter).
		Float64("root", b).
		Float64("f_root", fb).
		Msg("brent hit iteration cap")

	res := Result{Root: b, FuncValue: fb, Iterations: o.maxIter}
	return res, fmt.Errorf("Brent: %w after %d iterations (root=%.12g, f=%.6g)", errs.ErrNotConverged, o.maxIter, b, fb)
}

// strictlyBetween reports whether s lies strictly inside the open interval
// spanned by x and y, whichever of the two is larger.
func strictlyBetween(s, x, y float64) bool {
	lo, hi := x, y
	if lo > hi {
		lo, hi = hi, lo
	}
	return s > lo && s < hi
}
