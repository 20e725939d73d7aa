// errors.go --  This file is part of goGW project.
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

import "github.com/pkg/errors"

// Error kinds. Structural ones (grid parameters, input shapes) abort a run
// before any numerical work; the per-orbital ones are attached to that
// orbital's report entry and the batch continues.
var (
	ErrInvalidGridParameter    = errors.New("invalid grid parameter")
	ErrMemoryBudgetExceeded    = errors.New("memory budget exceeded")
	ErrDegenerateLinearization = errors.New("degenerate linearization (Z outside (0,1])")
	ErrNoRootFound             = errors.New("no quasiparticle root found on sampling grid")
	ErrInconsistentInputShapes = errors.New("inconsistent input shapes")
)
