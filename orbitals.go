// orbitals.go --  This file is part of goGW project.
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
	"gonum.org/v1/gonum/mat"
)

// OccThreshold separates occupied from virtual orbitals. Closed-shell
// references carry occupation 2.0 on occupied orbitals and 0.0 otherwise,
// so anything above 1.0 counts as occupied.
var OccThreshold = 1.0

// OrbitalSet holds the mean-field orbital energies (Hartree) with the
// occupied block first. Immutable after construction.
type OrbitalSet struct {
	Energies []float64
	NOcc     int
}

func NewOrbitalSet(energies, occupations []float64) (*OrbitalSet, error) {
	if len(energies) != len(occupations) {
		return nil, errors.Wrapf(ErrInconsistentInputShapes,
			"%d orbital energies vs %d occupation numbers", len(energies), len(occupations))
	}
	nocc := 0
	for i, f := range occupations {
		if f > OccThreshold {
			if i != nocc {
				return nil, errors.Wrapf(ErrInconsistentInputShapes,
					"occupied orbital %d follows a virtual one; occupied block must come first", i)
			}
			nocc++
		}
	}
	es := make([]float64, len(energies))
	copy(es, energies)
	return &OrbitalSet{Energies: es, NOcc: nocc}, nil
}

func (s *OrbitalSet) NOrb() int { return len(s.Energies) }

func (s *OrbitalSet) NVir() int { return len(s.Energies) - s.NOcc }

func (s *OrbitalSet) IsOccupied(q int) bool { return q < s.NOcc }

// RITensor stores the three-index RI coefficients B^P_pq, one auxiliary
// vector per orbital pair, row-major over (p,q). Shared read-only between
// the screened-interaction evaluator and the exchange term.
type RITensor struct {
	NOrb, NAux int
	data       []float64
}

func NewRITensor(nOrb, nAux int, data []float64) (*RITensor, error) {
	if nOrb < 1 || nAux < 1 {
		return nil, errors.Wrapf(ErrInconsistentInputShapes,
			"nonpositive tensor dimensions %d x %d", nOrb, nAux)
	}
	if len(data) != nOrb*nOrb*nAux {
		return nil, errors.Wrapf(ErrInconsistentInputShapes,
			"RI tensor has %d entries, want %d*%d*%d = %d",
			len(data), nOrb, nOrb, nAux, nOrb*nOrb*nAux)
	}
	return &RITensor{NOrb: nOrb, NAux: nAux, data: data}, nil
}

// Pair returns the auxiliary-basis vector of orbital pair (p,q).
func (t *RITensor) Pair(p, q int) []float64 {
	off := (p*t.NOrb + q) * t.NAux
	return t.data[off : off+t.NAux]
}

func (t *RITensor) PairVec(p, q int) *mat.VecDense {
	return mat.NewVecDense(t.NAux, t.Pair(p, q))
}
