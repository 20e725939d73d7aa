// helper.go --  This file is part of goGW project.
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
	"bufio"
	"fmt"
	"os"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

func ReadFileLines(fname string) ([]string, error) {
	var result []string
	var err error

	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		result = append(result, scanner.Text())
	}
	err = scanner.Err()

	return result, err
}

func PrintDense(D *mat.Dense) {
	fa := mat.Formatted(D, mat.Prefix("    "), mat.Squeeze())
	fmt.Printf("    %.8f\n", fa)
}

func MemReport() {
	var memStats runtime.MemStats

	runtime.ReadMemStats(&memStats)

	fmt.Printf("Alloc: %d bytes\n", memStats.Alloc)
	fmt.Printf("TotalAlloc: %d bytes\n", memStats.TotalAlloc)
	fmt.Printf("HeapAlloc: %d bytes\n", memStats.HeapAlloc)
	fmt.Printf("HeapSys: %d bytes\n", memStats.HeapSys)
}
