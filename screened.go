// screened.go --  This file is part of goGW project.
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
	"math"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Screened is the correlation part of the screened interaction,
// W_pq = b_pq . (eps^-1 - 1) . b_pq, exposed on the imaginary grid and at
// arbitrary real frequencies (needed at the residue poles). Both variants
// are read-only after Build and safe for concurrent lookups.
type Screened interface {
	Tag() string
	// WImag returns W_pq at imaginary grid point k.
	WImag(p, q, k int) float64
	// WReal returns W_pq at real frequency omega. W is even in omega.
	WReal(p, q int, omega float64) float64
}

type WMode int

const (
	WAuto WMode = iota
	WFull
	WFactorized
)

// dielectric builds the RPA dielectric kernels in the auxiliary basis.
// The occupied-virtual RI block is laid out once as an nAux x (nocc*nvir)
// matrix so each frequency costs one scaled matrix product.
type dielectric struct {
	orb   *OrbitalSet
	ri    *RITensor
	eta   float64
	bov   *mat.Dense // nil when there are no occ-vir pairs
	delta []float64  // eps_a - eps_i per ov column

	mu        sync.Mutex
	realCache map[int64]*mat.Dense
}

func newDielectric(orb *OrbitalSet, ri *RITensor, eta float64) *dielectric {
	d := &dielectric{orb: orb, ri: ri, eta: eta, realCache: make(map[int64]*mat.Dense)}
	nov := orb.NOcc * orb.NVir()
	if nov == 0 {
		return d
	}
	d.bov = mat.NewDense(ri.NAux, nov, nil)
	d.delta = make([]float64, nov)
	col := 0
	for i := 0; i < orb.NOcc; i++ {
		for a := orb.NOcc; a < orb.NOrb(); a++ {
			b := ri.Pair(i, a)
			for P := 0; P < ri.NAux; P++ {
				d.bov.Set(P, col, b[P])
			}
			d.delta[col] = orb.Energies[a] - orb.Energies[i]
			col++
		}
	}
	return d
}

// chi0 assembles B_ov * diag(c) * B_ov^T for per-pair coefficients c.
func (d *dielectric) chi0(c []float64) *mat.Dense {
	naux := d.ri.NAux
	res := mat.NewDense(naux, naux, nil)
	if d.bov == nil {
		return res
	}
	scaled := mat.DenseCopyOf(d.bov)
	for col, cv := range c {
		for P := 0; P < naux; P++ {
			scaled.Set(P, col, scaled.At(P, col)*cv)
		}
	}
	res.Mul(scaled, d.bov.T())
	return res
}

// imagKernel returns M(iw) = eps(iw)^-1 - 1 with
// eps(iw) = 1 + sum_ia 4*delta/(delta^2+w^2) b_ia b_ia^T.
// eps is symmetric positive definite on the imaginary axis.
func (d *dielectric) imagKernel(omega float64) *mat.Dense {
	naux := d.ri.NAux
	if d.bov == nil {
		return mat.NewDense(naux, naux, nil)
	}
	c := make([]float64, len(d.delta))
	for col, dl := range d.delta {
		c[col] = 4 * dl / (dl*dl + omega*omega)
	}
	pi := d.chi0(c)

	eps := mat.NewSymDense(naux, nil)
	for P := 0; P < naux; P++ {
		for Q := P; Q < naux; Q++ {
			v := 0.5 * (pi.At(P, Q) + pi.At(Q, P))
			if P == Q {
				v += 1
			}
			eps.SetSym(P, Q, v)
		}
	}

	var ch mat.Cholesky
	if !ch.Factorize(eps) {
		ErrorLogger.Println("Dielectric Cholesky factorization failed at iw =", omega)
		return d.invertLU(denseOfSym(eps))
	}
	var inv mat.SymDense
	if err := ch.InverseTo(&inv); err != nil {
		ErrorLogger.Println("Dielectric inversion failed at iw =", omega, ":", err)
		return mat.NewDense(naux, naux, nil)
	}
	m := denseOfSym(&inv)
	for P := 0; P < naux; P++ {
		m.Set(P, P, m.At(P, P)-1)
	}
	return m
}

// realKernel returns M(w) at a real frequency, eta-broadened:
// chi0(w) = sum_ia 2*[ (w-delta)/((w-delta)^2+eta^2)
//                    - (w+delta)/((w+delta)^2+eta^2) ] b_ia b_ia^T,
// eps(w) = 1 - chi0(w). Not positive definite in general, so LU is used.
// Kernels are cached per frequency; the residue calculators hit the same
// pole frequencies repeatedly across the sampling grid.
func (d *dielectric) realKernel(omega float64) *mat.Dense {
	omega = math.Abs(omega)
	key := int64(math.Round(omega / 1e-9))
	d.mu.Lock()
	if m, ok := d.realCache[key]; ok {
		d.mu.Unlock()
		return m
	}
	d.mu.Unlock()

	naux := d.ri.NAux
	var m *mat.Dense
	if d.bov == nil {
		m = mat.NewDense(naux, naux, nil)
	} else {
		c := make([]float64, len(d.delta))
		for col, dl := range d.delta {
			dm := omega - dl
			dp := omega + dl
			c[col] = 2 * (dm/(dm*dm+d.eta*d.eta) - dp/(dp*dp+d.eta*d.eta))
		}
		chi := d.chi0(c)
		eps := mat.NewDense(naux, naux, nil)
		for P := 0; P < naux; P++ {
			for Q := 0; Q < naux; Q++ {
				v := -0.5 * (chi.At(P, Q) + chi.At(Q, P))
				if P == Q {
					v += 1
				}
				eps.Set(P, Q, v)
			}
		}
		m = d.invertLU(eps)
	}

	d.mu.Lock()
	d.realCache[key] = m
	d.mu.Unlock()
	return m
}

// invertLU returns eps^-1 - 1.
func (d *dielectric) invertLU(eps *mat.Dense) *mat.Dense {
	naux := d.ri.NAux
	var lu mat.LU
	lu.Factorize(eps)
	inv := mat.NewDense(naux, naux, nil)
	if err := lu.SolveTo(inv, false, identity(naux)); err != nil {
		ErrorLogger.Println("Dielectric LU solve failed:", err)
		return mat.NewDense(naux, naux, nil)
	}
	for P := 0; P < naux; P++ {
		inv.Set(P, P, inv.At(P, P)-1)
	}
	return inv
}

func denseOfSym(s mat.Symmetric) *mat.Dense {
	n := s.SymmetricDim()
	res := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			res.Set(i, j, s.At(i, j))
		}
	}
	return res
}

func identity(n int) *mat.Dense {
	res := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		res.Set(i, i, 1)
	}
	return res
}

// ScreenedBuilder projects the memory cost of both W variants and builds
// the chosen one. Targets are the orbitals that receive a qp solve; the
// full tensor is materialized only for their rows.
type ScreenedBuilder struct {
	Orb     *OrbitalSet
	RI      *RITensor
	Grid    *FreqGrid
	Targets []int
	Eta     float64
	Budget  int64 // bytes
	Debug   bool
}

// FullBytes projects the peak allocation of the analytic path: the dense
// W slab plus one transient aux x aux kernel per worker.
func (b *ScreenedBuilder) FullBytes() int64 {
	naux := int64(b.RI.NAux)
	slab := int64(len(b.Targets)) * int64(b.Orb.NOrb()) * int64(len(b.Grid.Nodes))
	return 8 * (slab + naux*naux*int64(runtime.GOMAXPROCS(-1)))
}

// FactorizedBytes projects the low-memory path: one aux x aux screened
// kernel per imaginary grid point, nothing per orbital pair.
func (b *ScreenedBuilder) FactorizedBytes() int64 {
	naux := int64(b.RI.NAux)
	return 8 * naux * naux * int64(len(b.Grid.Nodes))
}

// Build computes W(iw) in the requested mode. WAuto picks the full variant
// when its projection fits the budget and falls back otherwise; a forced
// WFull that does not fit is an error, not a silent downgrade.
func (b *ScreenedBuilder) Build(mode WMode) (Screened, error) {
	full := b.FullBytes()
	fact := b.FactorizedBytes()
	InfoLogger.Println("Projected W memory: analytic", full, "bytes, low-memory", fact, "bytes, budget", b.Budget)

	switch mode {
	case WFull:
		if full > b.Budget {
			return nil, errors.Wrapf(ErrMemoryBudgetExceeded,
				"analytic W needs %d bytes, budget %d; rerun with low_memory_mode", full, b.Budget)
		}
	case WFactorized:
		// always allowed
	case WAuto:
		if full > b.Budget {
			WarningLogger.Println("Analytic W exceeds memory budget, falling back to low-memory variant.")
			mode = WFactorized
		} else {
			mode = WFull
		}
	}

	d := newDielectric(b.Orb, b.RI, b.Eta)
	if mode == WFactorized {
		return b.buildFactorized(d)
	}
	return b.buildFull(d)
}

type fullW struct {
	d    *dielectric
	grid *FreqGrid
	rows map[int]int
	nOrb int
	w    []float64 // [targetRow][q][k]
}

func (b *ScreenedBuilder) buildFull(d *dielectric) (Screened, error) {
	nOrb := b.Orb.NOrb()
	nf := len(b.Grid.Nodes)
	res := &fullW{d: d, grid: b.Grid, rows: make(map[int]int, len(b.Targets)), nOrb: nOrb}
	for row, p := range b.Targets {
		res.rows[p] = row
	}
	res.w = make([]float64, len(b.Targets)*nOrb*nf)

	rms := make([]float64, nf)
	maxAbs := make([]float64, nf)
	var firstKernel *mat.Dense
	parallelOver(nf, func(k int) {
		m := d.imagKernel(b.Grid.Nodes[k])
		if b.Debug {
			rms[k], maxAbs[k] = kernelStats(m)
			if k == 0 {
				firstKernel = m
			}
		}
		for row, p := range b.Targets {
			for q := 0; q < nOrb; q++ {
				bv := b.RI.PairVec(p, q)
				res.w[(row*nOrb+q)*nf+k] = mat.Inner(bv, m, bv)
			}
		}
	})
	if b.Debug {
		b.printKernelDebug(rms, maxAbs, firstKernel)
	}
	return res, nil
}

func (f *fullW) Tag() string { return "analytic" }

func (f *fullW) WImag(p, q, k int) float64 {
	row, ok := f.rows[p]
	if !ok {
		panic(fmt.Sprintf("orbital %d is not a qp target", p))
	}
	return f.w[(row*f.nOrb+q)*len(f.grid.Nodes)+k]
}

func (f *fullW) WReal(p, q int, omega float64) float64 {
	bv := f.d.ri.PairVec(p, q)
	return mat.Inner(bv, f.d.realKernel(omega), bv)
}

type factorizedW struct {
	d       *dielectric
	grid    *FreqGrid
	kernels []*mat.Dense
}

func (b *ScreenedBuilder) buildFactorized(d *dielectric) (Screened, error) {
	res := &factorizedW{d: d, grid: b.Grid, kernels: make([]*mat.Dense, len(b.Grid.Nodes))}
	parallelOver(len(b.Grid.Nodes), func(k int) {
		res.kernels[k] = d.imagKernel(b.Grid.Nodes[k])
	})
	if b.Debug {
		nf := len(b.Grid.Nodes)
		rms := make([]float64, nf)
		maxAbs := make([]float64, nf)
		for k, m := range res.kernels {
			rms[k], maxAbs[k] = kernelStats(m)
		}
		var firstKernel *mat.Dense
		if nf > 0 {
			firstKernel = res.kernels[0]
		}
		b.printKernelDebug(rms, maxAbs, firstKernel)
	}
	return res, nil
}

// kernelStats summarizes a screened kernel: the RMS over its entries and
// the largest magnitude, max|eps^-1 - 1|, which bounds how far the
// dielectric is from the identity at that frequency.
func kernelStats(m *mat.Dense) (rms, maxAbs float64) {
	raw := m.RawMatrix().Data
	sq := make([]float64, len(raw))
	floats.MulTo(sq, raw, raw)
	rms = math.Sqrt(stat.Mean(sq, nil))
	for _, v := range raw {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return rms, maxAbs
}

func (b *ScreenedBuilder) printKernelDebug(rms, maxAbs []float64, firstKernel *mat.Dense) {
	for k := range rms {
		fmt.Printf("debug: iw' = %12.6f  rms(kernel) = %12.6e  max|eps^-1 - 1| = %12.6e\n",
			b.Grid.Nodes[k], rms[k], maxAbs[k])
	}
	if firstKernel != nil {
		fmt.Println("debug: screened kernel at the first imaginary node:")
		PrintDense(firstKernel)
	}
}

func (f *factorizedW) Tag() string { return "low-memory" }

func (f *factorizedW) WImag(p, q, k int) float64 {
	bv := f.d.ri.PairVec(p, q)
	return mat.Inner(bv, f.kernels[k], bv)
}

func (f *factorizedW) WReal(p, q int, omega float64) float64 {
	bv := f.d.ri.PairVec(p, q)
	return mat.Inner(bv, f.d.realKernel(omega), bv)
}

// parallelOver partitions n independent work items across GOMAXPROCS
// goroutines, each owning a contiguous index range.
func parallelOver(n int, work func(i int)) {
	workers := runtime.GOMAXPROCS(-1)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			work(i)
		}
		return
	}
	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				work(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
