// grid.go --  This file is part of goGW project.
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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate/quad"
)

// freqScale sets the midpoint (in Hartree) of the compactifying map that
// carries the Gauss-Legendre nodes from (-1,1) onto (0,inf).
var freqScale = 0.5

// FreqGrid carries the imaginary-axis quadrature rule and the parameters of
// the per-orbital real-axis sampling grid. Built once per calculation.
type FreqGrid struct {
	Nodes    []float64 // imaginary-axis abscissas, strictly increasing
	Weights  []float64 // matching quadrature weights, all positive
	RealN    int
	RealStep float64
}

// NewFreqGrid maps an order-N Gauss-Legendre rule on (-1,1) through
// w' = w0*(1+t)/(1-t), which is monotonic on (-1,1) and covers (0,inf).
// The Jacobian 2*w0/(1-t)^2 folds into the weights.
func NewFreqGrid(order, realN int, realStep float64) (*FreqGrid, error) {
	if order < 1 {
		return nil, errors.Wrapf(ErrInvalidGridParameter, "quadrature order %d", order)
	}
	if realN < 3 {
		return nil, errors.Wrapf(ErrInvalidGridParameter, "real-axis grid of %d points", realN)
	}
	if realStep <= 0 {
		return nil, errors.Wrapf(ErrInvalidGridParameter, "real-axis step %g", realStep)
	}

	t := make([]float64, order)
	w := make([]float64, order)
	quad.Legendre{}.FixedLocations(t, w, -1, 1)

	g := &FreqGrid{
		Nodes:    make([]float64, order),
		Weights:  make([]float64, order),
		RealN:    realN,
		RealStep: realStep,
	}
	for i := range t {
		g.Nodes[i] = freqScale * (1 + t[i]) / (1 - t[i])
		g.Weights[i] = w[i] * 2 * freqScale / ((1 - t[i]) * (1 - t[i]))
	}
	return g, nil
}

// RealGrid returns the uniform sampling frequencies centered on an orbital
// energy. RealN odd puts the center itself on the grid.
func (g *FreqGrid) RealGrid(center float64) []float64 {
	res := make([]float64, g.RealN)
	half := float64(g.RealN-1) / 2
	for m := range res {
		res[m] = center + (float64(m)-half)*g.RealStep
	}
	return res
}
