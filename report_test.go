// report_test.go --  This file is part of goGW project.
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
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every energy line of the report carries both units: eV for reading,
// Hartree in parentheses for reference.
func TestReportBothUnits(t *testing.T) {
	var buf bytes.Buffer
	old := OutputLogger
	OutputLogger = log.New(&buf, "", 0)
	defer func() { OutputLogger = old }()

	orb, err := NewOrbitalSet([]float64{-0.5, 0.3}, []float64{2, 0})
	require.NoError(t, err)

	sols := []*QPSolution{{
		Orbital:   0,
		E0:        -0.5,
		XMinusVxc: 0.125,
		SigmaC0:   -0.0625,
		Z:         0.8,
		ELin:      -0.46875,
		Roots:     []Root{{Energy: -0.46875, Z: 0.8, Primary: true}},
	}}
	PrintReport(orb, sols, "analytic")
	out := buf.String()

	for _, want := range []string{
		"-0.500000 Ha)", // E0
		"0.125000 Ha)",  // Sigma_x - Vxc
		"-0.062500 Ha)", // Sigma_c(E0)
		"-0.468750 Ha)", // E_lin and the graphical root
	} {
		assert.Truef(t, strings.Contains(out, want), "report is missing %q:\n%s", want, out)
	}
	// the root line itself has the Hartree value next to the eV one
	assert.Equal(t, 2, strings.Count(out, "-0.468750 Ha)"))
	assert.Contains(t, out, "eV")
}
