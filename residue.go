// residue.go --  This file is part of goGW project.
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

// Enclosure classifies a Green's-function pole against the deformed
// contour for one sampling frequency.
type Enclosure int

const (
	NotEnclosed      Enclosure = iota
	EnclosedPositive           // virtual pole inside the counter-clockwise loop
	EnclosedNegative           // occupied pole inside the clockwise loop
)

// PoleEnclosure decides whether the pole at eq is picked up when the
// convolution contour is closed for sampling frequency omega. Occupied
// poles sit in the upper half plane and enter the clockwise loop when
// omega < eq; virtual poles sit in the lower half plane and enter the
// counter-clockwise loop when omega > eq. Equality contributes nothing:
// the pole lies on the contour boundary, not strictly inside.
func PoleEnclosure(occupied bool, eq, omega float64) Enclosure {
	if occupied {
		if omega < eq {
			return EnclosedNegative
		}
		return NotEnclosed
	}
	if omega > eq {
		return EnclosedPositive
	}
	return NotEnclosed
}

// ResidueCalc sums the residues of the enclosed Green's-function poles.
// W itself is assumed pole-free inside the contour (RPA W on the deformed
// contour), so only G contributes. With no occupied orbitals the screening
// vanishes and every term is exactly zero.
type ResidueCalc struct {
	Orb *OrbitalSet
	W   Screened
}

// Term returns the residue contribution to Sigma_c for orbital n at
// sampling frequency omega. Each enclosed pole contributes the screened
// interaction evaluated at the pole distance, signed by loop orientation.
func (r *ResidueCalc) Term(n int, omega float64) float64 {
	res := 0.0
	for q, eq := range r.Orb.Energies {
		switch PoleEnclosure(r.Orb.IsOccupied(q), eq, omega) {
		case EnclosedPositive:
			res += r.W.WReal(n, q, omega-eq)
		case EnclosedNegative:
			res -= r.W.WReal(n, q, eq-omega)
		}
	}
	return res
}
