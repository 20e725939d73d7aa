// loader.go --  This file is part of goGW project.
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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RunData bundles the validated provider inputs for one calculation.
type RunData struct {
	Orb *OrbitalSet
	RI  *RITensor
	Vxc []float64
}

// readFloats parses every whitespace-separated number in a text file.
func readFloats(fname string) ([]float64, error) {
	lines, err := ReadFileLines(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	var res []float64
	for ln, line := range lines {
		for _, word := range strings.Fields(line) {
			f, err := strconv.ParseFloat(word, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s line %d", fname, ln+1)
			}
			res = append(res, f)
		}
	}
	return res, nil
}

// LoadRunData reads the provider files named in the input deck and checks
// every shape against every other before any numerics start. The RI file
// carries a one-line "norb naux" header followed by norb*norb rows of naux
// coefficients.
func LoadRunData(paths DataPaths) (*RunData, error) {
	energies, err := readFloats(paths.Energies)
	if err != nil {
		return nil, err
	}
	occupations, err := readFloats(paths.Occupations)
	if err != nil {
		return nil, err
	}
	vxc, err := readFloats(paths.Vxc)
	if err != nil {
		return nil, err
	}

	orb, err := NewOrbitalSet(energies, occupations)
	if err != nil {
		return nil, err
	}
	if len(vxc) != orb.NOrb() {
		return nil, errors.Wrapf(ErrInconsistentInputShapes,
			"%d Vxc diagonal entries vs %d orbitals", len(vxc), orb.NOrb())
	}

	ri, err := loadRITensor(paths.RITensor, orb.NOrb())
	if err != nil {
		return nil, err
	}
	return &RunData{Orb: orb, RI: ri, Vxc: vxc}, nil
}

func loadRITensor(fname string, nOrb int) (*RITensor, error) {
	raw, err := readFloats(fname)
	if err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, errors.Wrapf(ErrInconsistentInputShapes, "RI file %s has no header", fname)
	}
	hdrOrb := int(raw[0])
	nAux := int(raw[1])
	if hdrOrb != nOrb {
		return nil, errors.Wrapf(ErrInconsistentInputShapes,
			"RI tensor declares %d orbitals, reference provides %d", hdrOrb, nOrb)
	}
	return NewRITensor(nOrb, nAux, raw[2:])
}
