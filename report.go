// report.go --  This file is part of goGW project.
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
	"strings"
)

var Ha2eV = 27.211386245988

func printOutputDelimiter() {
	OutputLogger.Println(strings.Repeat("-", 70))
}

// PrintReport writes the per-orbital quasiparticle table to the output
// file. Every target orbital appears, populated or flagged with its error.
func PrintReport(orb *OrbitalSet, sols []*QPSolution, tag string) {
	printOutputDelimiter()
	OutputLogger.Println("G0W0 quasiparticle energies (contour deformation, " + tag + " W)")
	OutputLogger.Println("All energies in eV; reference values in Hartree in parentheses.")
	printOutputDelimiter()

	for _, sol := range sols {
		kind := "occ"
		if !orb.IsOccupied(sol.Orbital) {
			kind = "vir"
		}
		OutputLogger.Printf("Orbital %3d (%s)  E0 = %12.4f eV (%12.6f Ha)",
			sol.Orbital, kind, sol.E0*Ha2eV, sol.E0)
		OutputLogger.Printf("  Sigma_x - Vxc   = %12.4f eV (%12.6f Ha)",
			sol.XMinusVxc*Ha2eV, sol.XMinusVxc)
		OutputLogger.Printf("  Sigma_c(E0)     = %12.4f eV (%12.6f Ha)",
			sol.SigmaC0*Ha2eV, sol.SigmaC0)
		zflag := ""
		if sol.Degenerate {
			zflag = "  [degenerate linearization]"
		}
		OutputLogger.Printf("  Z               = %12.4f%s", sol.Z, zflag)
		OutputLogger.Printf("  E_qp (linear)   = %12.4f eV (%12.6f Ha)",
			sol.ELin*Ha2eV, sol.ELin)

		if len(sol.Roots) == 0 {
			OutputLogger.Printf("  Graphical solution: %v", sol.Err)
		} else {
			OutputLogger.Println("  Graphical roots:")
			for _, r := range sol.Roots {
				mark := " "
				if r.Primary {
					mark = "*"
				}
				OutputLogger.Printf("   %s E_qp = %12.4f eV (%12.6f Ha)   Z = %8.4f",
					mark, r.Energy*Ha2eV, r.Energy, r.Z)
			}
		}
		if sol.Err != nil && len(sol.Roots) > 0 {
			OutputLogger.Printf("  Note: %v", sol.Err)
		}
		printOutputDelimiter()
	}
	fmt.Println("Report written for", len(sols), "orbitals.")
}
