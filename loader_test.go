// loader_test.go --  This file is part of goGW project.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeProviderFiles(t *testing.T, nOrb, nAux int) DataPaths {
	t.Helper()
	dir := t.TempDir()

	var en, occ, vxc strings.Builder
	for p := 0; p < nOrb; p++ {
		fmt.Fprintf(&en, "%f\n", -1.0+0.4*float64(p))
		o := 0.0
		if p < nOrb/2 {
			o = 2.0
		}
		fmt.Fprintf(&occ, "%f\n", o)
		fmt.Fprintf(&vxc, "%f\n", -0.2)
	}

	var ri strings.Builder
	fmt.Fprintf(&ri, "%d %d\n", nOrb, nAux)
	for pq := 0; pq < nOrb*nOrb; pq++ {
		for P := 0; P < nAux; P++ {
			fmt.Fprintf(&ri, " %f", 0.1)
		}
		fmt.Fprintln(&ri)
	}

	return DataPaths{
		Energies:    writeTestFile(t, dir, "energies.txt", en.String()),
		Occupations: writeTestFile(t, dir, "occ.txt", occ.String()),
		RITensor:    writeTestFile(t, dir, "ri.txt", ri.String()),
		Vxc:         writeTestFile(t, dir, "vxc.txt", vxc.String()),
	}
}

func TestLoadRunData(t *testing.T) {
	paths := writeProviderFiles(t, 4, 3)
	data, err := LoadRunData(paths)
	require.NoError(t, err)
	assert.Equal(t, 4, data.Orb.NOrb())
	assert.Equal(t, 2, data.Orb.NOcc)
	assert.Equal(t, 3, data.RI.NAux)
	assert.Len(t, data.Vxc, 4)
}

func TestLoadRunDataShapeMismatch(t *testing.T) {
	paths := writeProviderFiles(t, 4, 3)

	// RI header disagrees with the reference orbital count
	bad := writeTestFile(t, t.TempDir(), "ri.txt", "5 3\n0.1 0.1 0.1\n")
	paths.RITensor = bad
	_, err := LoadRunData(paths)
	assert.True(t, errors.Is(err, ErrInconsistentInputShapes), "got %v", err)
}

func TestLoadRunDataVxcMismatch(t *testing.T) {
	paths := writeProviderFiles(t, 4, 3)
	paths.Vxc = writeTestFile(t, t.TempDir(), "vxc.txt", "-0.2 -0.2\n")
	_, err := LoadRunData(paths)
	assert.True(t, errors.Is(err, ErrInconsistentInputShapes), "got %v", err)
}

func TestLoadRunDataMissingFile(t *testing.T) {
	paths := writeProviderFiles(t, 2, 2)
	paths.Energies = filepath.Join(t.TempDir(), "nope.txt")
	_, err := LoadRunData(paths)
	assert.Error(t, err)
}
