// integral.go --  This file is part of goGW project.
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

import "math"

// IntegralCalc evaluates the imaginary-axis part of Sigma_c,
//
//	-(1/2pi) sum_q int dw' W_nq(iw') [ 1/(w-eq+iw') + 1/(w-eq-iw') ],
//
// with the quadrature rule of the FreqGrid. Truncation error is set by the
// grid order alone; there is no adaptive refinement.
type IntegralCalc struct {
	Orb  *OrbitalSet
	Grid *FreqGrid
	W    Screened
}

// Term returns the complex quadrature sum for orbital n at sampling
// frequency omega. The imaginary parts of the two Green's-function
// branches cancel analytically; they are carried in full precision anyway
// so the cancellation happens at the end, not inside the sum.
func (c *IntegralCalc) Term(n int, omega float64) complex128 {
	var sum complex128
	for k, wp := range c.Grid.Nodes {
		wk := c.Grid.Weights[k]
		for q, eq := range c.Orb.Energies {
			wval := c.W.WImag(n, q, k)
			g := 1/complex(omega-eq, wp) + 1/complex(omega-eq, -wp)
			sum += complex(wk*wval, 0) * g
		}
	}
	return sum * complex(-1/(2*math.Pi), 0)
}
