// gw_test.go --  This file is part of goGW project.
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
	"testing"

	"github.com/stretchr/testify/require"
)

func init() {
	initTestLog()
}

// testSystem builds a small closed-shell model: four orbitals (two
// occupied), three auxiliary functions, RI coefficients symmetric in the
// orbital pair and small enough that the dielectric stays well
// conditioned.
func testSystem(t *testing.T) (*OrbitalSet, *RITensor, []float64) {
	t.Helper()
	energies := []float64{-0.9, -0.5, 0.3, 0.8}
	occupations := []float64{2, 2, 0, 0}
	orb, err := NewOrbitalSet(energies, occupations)
	require.NoError(t, err)

	nOrb, nAux := 4, 3
	data := make([]float64, nOrb*nOrb*nAux)
	for p := 0; p < nOrb; p++ {
		for q := 0; q < nOrb; q++ {
			for P := 0; P < nAux; P++ {
				v := 0.2/(1+math.Abs(float64(p-q))) +
					0.02*float64(P)*float64(p+q+1)/float64(nOrb)
				data[(p*nOrb+q)*nAux+P] = v
			}
		}
	}
	ri, err := NewRITensor(nOrb, nAux, data)
	require.NoError(t, err)

	vxc := []float64{-0.35, -0.30, -0.15, -0.10}
	return orb, ri, vxc
}

func testGrid(t *testing.T, order int) *FreqGrid {
	t.Helper()
	g, err := NewFreqGrid(order, 101, 0.01)
	require.NoError(t, err)
	return g
}

func allOrbitals(orb *OrbitalSet) []int {
	targets := make([]int, orb.NOrb())
	for i := range targets {
		targets[i] = i
	}
	return targets
}

func buildW(t *testing.T, orb *OrbitalSet, ri *RITensor, grid *FreqGrid, mode WMode) Screened {
	t.Helper()
	b := &ScreenedBuilder{
		Orb: orb, RI: ri, Grid: grid,
		Targets: allOrbitals(orb),
		Eta:     1e-3,
		Budget:  1 << 30,
	}
	w, err := b.Build(mode)
	require.NoError(t, err)
	return w
}
