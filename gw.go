// gw.go --  This file is part of goGW project.
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
	"time"
)

// RunPipeline drives one G0W0 calculation end to end:
// grid -> W(iw) -> per-orbital Sigma(w) -> qp solve. Structural failures
// return an error before any orbital work; per-orbital failures land on
// that orbital's QPSolution and the batch completes.
func RunPipeline(opts *Options, data *RunData) ([]*QPSolution, string, error) {
	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	tstart := time.Now()
	grid, err := NewFreqGrid(opts.QuadratureOrder, opts.SigmaFrequencyCount, opts.SigmaFrequencyStep)
	if err != nil {
		return nil, "", err
	}
	targets := opts.Targets(data.Orb)

	builder := &ScreenedBuilder{
		Orb:     data.Orb,
		RI:      data.RI,
		Grid:    grid,
		Targets: targets,
		Eta:     opts.Eta,
		Budget:  int64(opts.MemoryBudgetMB) * 1024 * 1024,
		Debug:   opts.Debug,
	}
	w, err := builder.Build(opts.WVariant())
	if err != nil {
		return nil, "", err
	}
	tstop := time.Now()
	fmt.Println("------", "Time for screened interaction ("+w.Tag()+"):", tstop.Sub(tstart))
	InfoLogger.Println("Screened interaction done ("+w.Tag()+")...", tstop.Sub(tstart))
	tstart = tstop

	asm := &Assembler{
		Orb:   data.Orb,
		RI:    data.RI,
		Grid:  grid,
		W:     w,
		Vxc:   data.Vxc,
		Debug: opts.Debug,
	}

	sols := make([]*QPSolution, 0, len(targets))
	for _, n := range targets {
		se := asm.Assemble(n)
		sols = append(sols, SolveQP(se))
	}
	tstop = time.Now()
	fmt.Println("------", "Time for self-energy assembly and qp solve:", tstop.Sub(tstart))
	InfoLogger.Println("Self-energy and qp solve done...", tstop.Sub(tstart))

	return sols, w.Tag(), nil
}
