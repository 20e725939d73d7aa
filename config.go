// config.go --  This file is part of goGW project.
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
	"github.com/spf13/viper"
)

// DataPaths names the provider artifacts consumed at the external
// interface boundary: the mean-field reference and the RI integrals.
type DataPaths struct {
	Energies    string
	Occupations string
	RITensor    string
	Vxc         string
}

// Options is the full configuration surface of a run. Built once from the
// input deck and passed by value everywhere; there is no module-level
// mutable run state.
type Options struct {
	OccupiedCount        int
	VirtualCountIncluded int
	SigmaFrequencyCount  int
	SigmaFrequencyStep   float64
	QuadratureOrder      int
	AnalyticW            *bool // nil means pick by memory projection
	LowMemoryMode        bool
	Debug                bool
	Eta                  float64
	MemoryBudgetMB       int
	NProcs               int
	Data                 DataPaths
}

// LoadOptions reads the YAML input deck. Recognized keys live under the
// gw: and data: blocks; unset keys fall back to defaults.
func LoadOptions(path string) (*Options, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("gw.occupied_count", 1)
	v.SetDefault("gw.virtual_count_included", 1)
	v.SetDefault("gw.sigma_frequency_count", 201)
	v.SetDefault("gw.sigma_frequency_step", 0.005)
	v.SetDefault("gw.quadrature_order", 64)
	v.SetDefault("gw.low_memory_mode", false)
	v.SetDefault("gw.debug", false)
	v.SetDefault("gw.eta", 1e-3)
	v.SetDefault("gw.memory_budget_mb", 2048)
	v.SetDefault("gw.nprocs", 0)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "reading input deck")
	}

	opts := &Options{
		OccupiedCount:        v.GetInt("gw.occupied_count"),
		VirtualCountIncluded: v.GetInt("gw.virtual_count_included"),
		SigmaFrequencyCount:  v.GetInt("gw.sigma_frequency_count"),
		SigmaFrequencyStep:   v.GetFloat64("gw.sigma_frequency_step"),
		QuadratureOrder:      v.GetInt("gw.quadrature_order"),
		LowMemoryMode:        v.GetBool("gw.low_memory_mode"),
		Debug:                v.GetBool("gw.debug"),
		Eta:                  v.GetFloat64("gw.eta"),
		MemoryBudgetMB:       v.GetInt("gw.memory_budget_mb"),
		NProcs:               v.GetInt("gw.nprocs"),
		Data: DataPaths{
			Energies:    v.GetString("data.energies"),
			Occupations: v.GetString("data.occupations"),
			RITensor:    v.GetString("data.ri_tensor"),
			Vxc:         v.GetString("data.vxc"),
		},
	}
	if v.IsSet("gw.analytic_screened_interaction") {
		b := v.GetBool("gw.analytic_screened_interaction")
		opts.AnalyticW = &b
	}
	return opts, nil
}

// Validate checks the structural parameters. Failures here abort the run
// before any numerical work.
func (o *Options) Validate() error {
	if o.QuadratureOrder < 1 {
		return errors.Wrapf(ErrInvalidGridParameter, "quadrature_order %d", o.QuadratureOrder)
	}
	if o.SigmaFrequencyCount < 3 {
		return errors.Wrapf(ErrInvalidGridParameter, "sigma_frequency_count %d", o.SigmaFrequencyCount)
	}
	if o.SigmaFrequencyStep <= 0 {
		return errors.Wrapf(ErrInvalidGridParameter, "sigma_frequency_step %g", o.SigmaFrequencyStep)
	}
	if o.OccupiedCount < 0 || o.VirtualCountIncluded < 0 {
		return errors.Wrapf(ErrInvalidGridParameter,
			"negative orbital window (%d occupied, %d virtual)",
			o.OccupiedCount, o.VirtualCountIncluded)
	}
	if o.Eta <= 0 {
		return errors.Wrapf(ErrInvalidGridParameter, "eta %g", o.Eta)
	}
	if o.MemoryBudgetMB < 1 {
		return errors.Wrapf(ErrInvalidGridParameter, "memory_budget_mb %d", o.MemoryBudgetMB)
	}
	return nil
}

// WVariant resolves the screened-interaction mode from the two flags:
// low_memory_mode forces the factorized path, an explicit
// analytic_screened_interaction pins the choice, otherwise the memory
// projection decides.
func (o *Options) WVariant() WMode {
	if o.LowMemoryMode {
		return WFactorized
	}
	if o.AnalyticW != nil {
		if *o.AnalyticW {
			return WFull
		}
		return WFactorized
	}
	return WAuto
}

// Targets lists the orbitals receiving a full qp solve: the window of
// highest occupied and lowest virtual orbitals set by the options.
func (o *Options) Targets(orb *OrbitalSet) []int {
	lo := orb.NOcc - o.OccupiedCount
	if lo < 0 {
		lo = 0
	}
	hi := orb.NOcc + o.VirtualCountIncluded
	if hi > orb.NOrb() {
		hi = orb.NOrb()
	}
	targets := make([]int, 0, hi-lo)
	for n := lo; n < hi; n++ {
		targets = append(targets, n)
	}
	return targets
}
