// qpsolver.go --  This file is part of goGW project.
//
//	goGW is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/interp"
)

const bisectMaxIter = 64

// Root is one solution of the Dyson equation w = e0 + Sigma(w).
type Root struct {
	Energy  float64
	Z       float64
	Primary bool // largest Z among the roots found
}

/// QPSolution is the per-orbital result: the linearized one-shot estimate
// plus every graphical root found on the sampling grid. Err carries the
// per-orbital error kinds (degenerate Z, no root); the batch never aborts
// on them.
type QPSolution struct {
	Orbital    int
	E0         float64
	XMinusVxc  float64
	SigmaC0    float64
	Z          float64
	ELin       float64
	Degenerate bool
	Roots      []Root
	Err        error
}

// SolveQP extracts the quasiparticle energies from one orbital's sampled
// self-energy. The graphical branch scans f(w) = w - e0 - Sigma(w) for
// sign changes and refines each bracket by bisection on a piecewise-linear
// model of Sigma_c.
func SolveQP(se *SelfEnergy) *QPSolution {
	sol := &QPSolution{Orbital: se.Orbital, E0: se.E0, XMinusVxc: se.XMinusVxc}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(se.Omega, se.SigmaC); err != nil {
		sol.Err = errors.Wrapf(ErrInvalidGridParameter, "orbital %d: %v", se.Orbital, err)
		return sol
	}
	sol.SigmaC0 = pl.Predict(se.E0)

	// Linearized estimate: central difference on the two grid points
	// nearest the reference energy.
	j := nearestIndex(se.Omega, se.E0)
	if j < 1 {
		j = 1
	}
	if j > len(se.Omega)-2 {
		j = len(se.Omega) - 2
	}
	h := se.Omega[j+1] - se.Omega[j-1]
	dS := (se.SigmaC[j+1] - se.SigmaC[j-1]) / h
	sol.Z = 1 / (1 - dS)
	sol.ELin = se.E0 + sol.Z*(se.XMinusVxc+sol.SigmaC0)
	if sol.Z <= 0 || sol.Z > 1 {
		sol.Degenerate = true
		sol.Err = errors.Wrapf(ErrDegenerateLinearization,
			"orbital %d: Z = %.4f", se.Orbital, sol.Z)
	}

	// Graphical scan.
	f := func(w float64) float64 { return w - se.E0 - se.XMinusVxc - pl.Predict(w) }
	tol := (se.Omega[1] - se.Omega[0]) * 1e-6
	for m := 0; m < len(se.Omega)-1; m++ {
		lo, hi := se.Omega[m], se.Omega[m+1]
		flo, fhi := f(lo), f(hi)
		if flo == 0 {
			sol.Roots = append(sol.Roots, rootAt(se, lo, m))
			continue
		}
		if fhi == 0 {
			// interior right-endpoint zeros are picked up as the next
			// segment's left endpoint; the last grid point has no next
			// segment and must be claimed here
			if m == len(se.Omega)-2 {
				sol.Roots = append(sol.Roots, rootAt(se, hi, m))
			}
			continue
		}
		if flo*fhi > 0 {
			continue
		}
		for it := 0; it < bisectMaxIter && hi-lo > tol; it++ {
			// interpolate rather than halve; f is piecewise linear here
			mid := lo - flo*(hi-lo)/(fhi-flo)
			if mid <= lo || mid >= hi {
				mid = 0.5 * (lo + hi)
			}
			fm := f(mid)
			if fm == 0 {
				lo, hi = mid, mid
				break
			}
			if flo*fm < 0 {
				hi, fhi = mid, fm
			} else {
				lo, flo = mid, fm
			}
		}
		sol.Roots = append(sol.Roots, rootAt(se, 0.5*(lo+hi), m))
	}

	if len(sol.Roots) == 0 {
		err := errors.Wrapf(ErrNoRootFound,
			"orbital %d: no sign change of w-e0-Sigma(w) on [%g, %g]; widen the grid",
			se.Orbital, se.Omega[0], se.Omega[len(se.Omega)-1])
		if sol.Err == nil {
			sol.Err = err
		}
		return sol
	}

	slices.SortFunc(sol.Roots, func(a, b Root) int {
		switch {
		case a.Energy < b.Energy:
			return -1
		case a.Energy > b.Energy:
			return 1
		}
		return 0
	})
	best := 0
	for i := range sol.Roots {
		if sol.Roots[i].Z > sol.Roots[best].Z {
			best = i
		}
	}
	sol.Roots[best].Primary = true
	return sol
}

// rootAt builds the Root record for energy w found in grid segment m,
// with Z from the segment's own slope of Sigma_c.
func rootAt(se *SelfEnergy, w float64, m int) Root {
	dS := (se.SigmaC[m+1] - se.SigmaC[m]) / (se.Omega[m+1] - se.Omega[m])
	return Root{Energy: w, Z: 1 / (1 - dS)}
}

func nearestIndex(xs []float64, x float64) int {
	best := 0
	for i, v := range xs {
		if math.Abs(v-x) < math.Abs(xs[best]-x) {
			best = i
		}
	}
	return best
}
