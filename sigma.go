// sigma.go --  This file is part of goGW project.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SelfEnergy is the assembled per-orbital self-energy on the real sampling
// grid: Sigma(w) = (Sigma_x - Vxc) + Sigma_c(w), with Sigma_c = residue +
// integral terms, real part.
type SelfEnergy struct {
	Orbital   int
	E0        float64
	XMinusVxc float64
	Omega     []float64
	SigmaC    []float64
}

// Sigma returns the total self-energy at sampling point m.
func (s *SelfEnergy) Sigma(m int) float64 { return s.XMinusVxc + s.SigmaC[m] }

// Assembler drives the residue and integral calculators over the real
// sampling grid and owns the buffer it fills. The grid points are
// independent, so they are partitioned across the worker pool; each worker
// writes its own disjoint index range.
type Assembler struct {
	Orb   *OrbitalSet
	RI    *RITensor
	Grid  *FreqGrid
	W     Screened
	Vxc   []float64
	Debug bool
}

// ExchangeMinusVxc computes the static shift Sigma_x - Vxc for orbital n.
// Sigma_x_n = -sum_{i occ} (ni|in) contracted through the RI vectors.
func (a *Assembler) ExchangeMinusVxc(n int) float64 {
	sx := 0.0
	for i := 0; i < a.Orb.NOcc; i++ {
		b := a.RI.Pair(n, i)
		sx -= floats.Dot(b, b)
	}
	return sx - a.Vxc[n]
}

// Assemble evaluates Sigma_c on the full sampling grid for one orbital.
// The SelfEnergy is returned only once every point is in place; no partial
// grid is ever visible to the solver.
func (a *Assembler) Assemble(n int) *SelfEnergy {
	e0 := a.Orb.Energies[n]
	se := &SelfEnergy{
		Orbital:   n,
		E0:        e0,
		XMinusVxc: a.ExchangeMinusVxc(n),
		Omega:     a.Grid.RealGrid(e0),
		SigmaC:    make([]float64, a.Grid.RealN),
	}

	resid := &ResidueCalc{Orb: a.Orb, W: a.W}
	integ := &IntegralCalc{Orb: a.Orb, Grid: a.Grid, W: a.W}

	parallelOver(a.Grid.RealN, func(m int) {
		w := se.Omega[m]
		se.SigmaC[m] = real(integ.Term(n, w)) + resid.Term(n, w)
	})

	if a.Debug {
		sq := make([]float64, len(se.SigmaC))
		floats.MulTo(sq, se.SigmaC, se.SigmaC)
		rms := math.Sqrt(stat.Mean(sq, nil))
		ri := resid.Term(n, e0)
		ii := real(integ.Term(n, e0))
		fmt.Printf("debug: orbital %d  Sigma_x-Vxc = %12.6f  rms(Sigma_c) = %12.6f  residue(E0) = %12.6f  integral(E0) = %12.6f\n",
			n, se.XMinusVxc, rms, ri, ii)
	}
	return se
}
