package engine_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldlab/internal/engine"
	"github.com/san-kum/fieldlab/internal/grid"
)

func TestEngineInvariants(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Engine Invariants Suite")
}

func fieldSum(f grid.Field) float64 {
	total := 0.0
	for _, v := range f {
		total += v
	}
	return total
}

var _ = Describe("long-run behavior", func() {
	It("keeps density non-negative and E/F bounded over 10000 steps", func() {
		p := engine.DefaultParams()
		p.ExcitBound = 1e3
		p.RegBound = 1e3
		// Push the coupling hard enough that the cubic damping and the
		// guard actually have work to do.
		p.Beta = 2.0
		p.Delta1 = 2.0
		p.Delta2 = 1.5

		eng, err := engine.New(16, 1.0, 0.005, p)
		Expect(err).NotTo(HaveOccurred())
		eng.SeedGaussian(2.0, 0.15)

		for i := 0; i < 10; i++ {
			eng.Advance(1000)
			st := eng.Stats()
			Expect(st.Rho.Min).To(BeNumerically(">=", 0))
			Expect(math.Abs(st.Excit.Min)).To(BeNumerically("<=", p.ExcitBound))
			Expect(math.Abs(st.Excit.Max)).To(BeNumerically("<=", p.ExcitBound))
			Expect(math.Abs(st.Reg.Min)).To(BeNumerically("<=", p.RegBound))
			Expect(math.Abs(st.Reg.Max)).To(BeNumerically("<=", p.RegBound))
		}
		Expect(eng.StepCount()).To(Equal(10000))
	})

	It("conserves field totals when only diffusion is active", func() {
		p := engine.DefaultParams()
		p.Beta = 0
		p.Delta1 = 0
		p.Delta2 = 0
		p.Kappa = 0
		p.MFactor = 0
		p.CubicDamping = 0
		p.RegDiffusion = 0
		p.StiffDiffusion = 0
		p.Gamma = 0.2
		// Effectively disable relaxation.
		p.TauRho = 1e12
		p.TauExcit = 1e12
		p.TauReg = 1e12

		// Keep dt*D*k2max comfortably inside the explicit stability
		// window for the density step; only E and F go implicit.
		eng, err := engine.New(16, 1.0, 0.001, p)
		Expect(err).NotTo(HaveOccurred())

		n := 16
		geo := eng.Geometry()
		rho := grid.NewField(n)
		excit := grid.NewField(n)
		reg := grid.NewField(n)
		for i := 0; i < n; i++ {
			x := float64(i) * geo.Dx
			for j := 0; j < n; j++ {
				y := float64(j) * geo.Dx
				r2 := (x-0.5)*(x-0.5) + (y-0.5)*(y-0.5)
				rho[i*n+j] = math.Exp(-r2 / (2 * 0.15 * 0.15))
				excit[i*n+j] = 0.3 * math.Sin(2*math.Pi*x)
				reg[i*n+j] = 0.2 * math.Cos(2*math.Pi*y)
			}
		}
		Expect(eng.SetFields(rho, excit, reg)).To(Succeed())

		before := eng.Snapshot()
		rhoTotal := fieldSum(before.Rho)
		excitTotal := fieldSum(before.Excit)
		regTotal := fieldSum(before.Reg)

		eng.Advance(500)

		after := eng.Snapshot()
		Expect(fieldSum(after.Rho)).To(BeNumerically("~", rhoTotal, math.Abs(rhoTotal)*1e-6))
		Expect(fieldSum(after.Excit)).To(BeNumerically("~", excitTotal, 1e-6))
		Expect(fieldSum(after.Reg)).To(BeNumerically("~", regTotal, 1e-6))
		Expect(eng.Stats().StabilityWarnings).To(Equal(0))
	})

	It("decays monotonically toward zero in the linear sourceless regime", func() {
		p := engine.DefaultParams()
		p.MFactor = 0
		p.CubicDamping = 0
		p.Beta = 0
		p.Delta1 = 0
		p.Delta2 = 0
		p.TauRho = 2
		p.TauExcit = 2
		p.TauReg = 2

		eng, err := engine.New(16, 1.0, 0.001, p)
		Expect(err).NotTo(HaveOccurred())
		eng.SeedGaussian(1.0, 0.15)

		n := 16
		geo := eng.Geometry()
		snap := eng.Snapshot()
		excit := grid.NewField(n)
		reg := grid.NewField(n)
		for i := 0; i < n; i++ {
			x := float64(i) * geo.Dx
			for j := 0; j < n; j++ {
				excit[i*n+j] = 0.5 * math.Sin(2*math.Pi*x)
				reg[i*n+j] = 0.4 * math.Sin(4*math.Pi*x)
			}
		}
		Expect(eng.SetFields(snap.Rho, excit, reg)).To(Succeed())

		prev := eng.Stats()
		for i := 0; i < 20; i++ {
			eng.Advance(200)
			st := eng.Stats()
			Expect(st.Rho.RMS).To(BeNumerically("<=", prev.Rho.RMS+1e-12))
			Expect(st.Excit.RMS).To(BeNumerically("<=", prev.Excit.RMS+1e-12))
			Expect(st.Reg.RMS).To(BeNumerically("<=", prev.Reg.RMS+1e-12))
			prev = st
		}

		Expect(prev.Rho.RMS).To(BeNumerically("<", 0.1))
		Expect(prev.Excit.RMS).To(BeNumerically("<", 0.1))
		Expect(prev.Reg.RMS).To(BeNumerically("<", 0.1))
	})
})
