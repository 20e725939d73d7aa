// screened_test.go --  This file is part of goGW project.
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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// Both variants contract the same dielectric kernels, so their values must
// agree to machine precision, not just to the physical tolerance.
func TestFullVsFactorizedEquivalence(t *testing.T) {
	orb, ri, _ := testSystem(t)
	grid := testGrid(t, 16)

	full := buildW(t, orb, ri, grid, WFull)
	fact := buildW(t, orb, ri, grid, WFactorized)
	require.Equal(t, "analytic", full.Tag())
	require.Equal(t, "low-memory", fact.Tag())

	for p := 0; p < orb.NOrb(); p++ {
		for q := 0; q < orb.NOrb(); q++ {
			for k := range grid.Nodes {
				assert.InDelta(t, full.WImag(p, q, k), fact.WImag(p, q, k), 1e-12,
					"WImag(%d,%d,%d)", p, q, k)
			}
			for _, w := range []float64{0.05, 0.31, 1.2} {
				assert.InDelta(t, full.WReal(p, q, w), fact.WReal(p, q, w), 1e-12,
					"WReal(%d,%d,%g)", p, q, w)
			}
		}
	}
}

func TestWRealEven(t *testing.T) {
	orb, ri, _ := testSystem(t)
	grid := testGrid(t, 8)
	w := buildW(t, orb, ri, grid, WFactorized)
	assert.InDelta(t, w.WReal(1, 2, 0.4), w.WReal(1, 2, -0.4), 1e-14)
}

func TestScreeningAttracts(t *testing.T) {
	// On the imaginary axis eps is positive definite with eps >= 1, so the
	// diagonal screened correction W_pp must be negative.
	orb, ri, _ := testSystem(t)
	grid := testGrid(t, 8)
	w := buildW(t, orb, ri, grid, WFull)
	for p := 0; p < orb.NOrb(); p++ {
		for k := range grid.Nodes {
			assert.Less(t, w.WImag(p, p, k), 0.0, "WImag(%d,%d,%d)", p, p, k)
		}
	}
}

func TestKernelStats(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{3, 0, 0, -4})
	rms, maxAbs := kernelStats(m)
	assert.InDelta(t, 2.5, rms, 1e-14)
	assert.Equal(t, 4.0, maxAbs)
}

// Debug builds print the per-frequency kernel summary and dump the first
// kernel; both variants must still produce the same interaction.
func TestDebugBuildReporting(t *testing.T) {
	orb, ri, _ := testSystem(t)
	grid := testGrid(t, 8)
	b := &ScreenedBuilder{
		Orb: orb, RI: ri, Grid: grid,
		Targets: allOrbitals(orb), Eta: 1e-3, Budget: 1 << 30,
		Debug: true,
	}
	full, err := b.Build(WFull)
	require.NoError(t, err)
	fact, err := b.Build(WFactorized)
	require.NoError(t, err)
	assert.InDelta(t, full.WImag(0, 0, 0), fact.WImag(0, 0, 0), 1e-12)
}

func TestMemoryProjectionAndFallback(t *testing.T) {
	orb, ri, _ := testSystem(t)
	grid := testGrid(t, 16)
	b := &ScreenedBuilder{Orb: orb, RI: ri, Grid: grid, Targets: allOrbitals(orb), Eta: 1e-3}

	assert.Positive(t, b.FullBytes())
	assert.Positive(t, b.FactorizedBytes())

	// Forcing the analytic variant under an impossible budget is an error.
	b.Budget = 1
	_, err := b.Build(WFull)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMemoryBudgetExceeded))

	// Auto mode downgrades instead.
	w, err := b.Build(WAuto)
	require.NoError(t, err)
	assert.Equal(t, "low-memory", w.Tag())

	// With room to spare, auto picks the analytic path.
	b.Budget = 1 << 30
	w, err = b.Build(WAuto)
	require.NoError(t, err)
	assert.Equal(t, "analytic", w.Tag())
}
