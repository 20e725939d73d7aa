// main.go --  This file is part of goGW project.
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
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

var (
	WarningLogger *log.Logger
	InfoLogger    *log.Logger
	ErrorLogger   *log.Logger
	OutputLogger  *log.Logger
)

func initLog(fname string) {
	file, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}

	InfoLogger = log.New(file, "INFO: ", log.Ldate|log.Ltime)
	WarningLogger = log.New(file, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger = log.New(file, "", 0)
}

// initTestLog points the loggers at stderr so library code can log when no
// output file exists (tests, dry runs).
func initTestLog() {
	InfoLogger = log.New(os.Stderr, "INFO: ", 0)
	WarningLogger = log.New(os.Stderr, "WARNING: ", 0)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", 0)
	OutputLogger = log.New(os.Stderr, "", 0)
}

func appInfo() {
	OutputLogger.Println("goGW -- one-shot G0W0 with contour deformation")
	OutputLogger.Println("Companion to goHF; consumes its orbitals and RI integrals.")
}

var rootCmd = &cobra.Command{
	Use:   "gogw",
	Short: "G0W0 quasiparticle energies via contour deformation",
	Long: `gogw computes the frequency-dependent GW self-energy of a closed-shell
molecule with the contour-deformation technique and extracts quasiparticle
energies, both linearized and from the graphical solution of the Dyson
equation. Orbital energies, occupations, RI integrals and the Vxc diagonal
come from an external mean-field calculation named in the input deck.`,
}

var runCmd = &cobra.Command{
	Use:   "run <input.yaml>",
	Short: "Run a G0W0 calculation from an input deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGW(args[0])
	},
}

func runGW(inpFname string) error {
	split := strings.Split(inpFname, ".")
	fExt := split[len(split)-1]
	outFname := inpFname[0:len(inpFname)-len(fExt)] + "out"
	fmt.Println("Output file: ", outFname)
	initLog(outFname)

	InfoLogger.Println("Starting goGW...")
	appInfo()

	opts, err := LoadOptions(inpFname)
	if err != nil {
		ErrorLogger.Println(err)
		return err
	}
	if opts.NProcs > 0 {
		runtime.GOMAXPROCS(opts.NProcs)
		OutputLogger.Println("Number of threads set to", opts.NProcs, ".")
	}

	data, err := LoadRunData(opts.Data)
	if err != nil {
		ErrorLogger.Println(err)
		return err
	}
	OutputLogger.Println("Loaded", data.Orb.NOrb(), "orbitals (", data.Orb.NOcc,
		"occupied ),", data.RI.NAux, "auxiliary functions.")

	sols, tag, err := RunPipeline(opts, data)
	if err != nil {
		ErrorLogger.Println(err)
		return err
	}

	PrintReport(data.Orb, sols, tag)
	if opts.Debug {
		MemReport()
	}
	InfoLogger.Println("Exiting goGW...")
	fmt.Println("goGW done.")
	return nil
}

func main() {
	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
