package sim_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/config"
	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/metrics"
	"github.com/san-kum/solitons/internal/physics"
	"github.com/san-kum/solitons/internal/sim"
	"github.com/san-kum/solitons/internal/spectral"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func singleSoliton(duration float64, samples int) *config.Config {
	cfg := config.GetPreset("kdv", "single")
	cfg.Duration = duration
	cfg.Samples = samples
	return cfg
}

func inviscid(points int, duration, dt float64) *config.Config {
	cfg := config.GetPreset("burgers", "inviscid")
	cfg.Points = points
	cfg.Duration = duration
	cfg.Samples = 0
	cfg.Dt = dt
	return cfg
}

// steepness attaches a min-gradient tracker to s for the next run.
func steepness(s *sim.Simulator, cfg *config.Config) *metrics.Steepness {
	g, err := cfg.Grid()
	Expect(err).NotTo(HaveOccurred())
	m := metrics.NewSteepness(spectral.NewDifferentiator(g))
	s.AddObserver(m)
	return m
}

var _ = Describe("Simulator", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = sim.New(quiet)
	})

	Describe("result layout", func() {
		It("returns an M×N matrix whose first row is the initial profile", func() {
			cfg := singleSoliton(1, 5)
			res, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			m, n := res.Dims()
			Expect(m).To(Equal(5))
			Expect(n).To(Equal(64))
			Expect(res.Times).To(HaveLen(5))

			u0, err := physics.InitialCondition(physics.ModelKdV, res.Grid, cfg.Params())
			Expect(err).NotTo(HaveOccurred())
			Expect([]float64(res.Row(0))).To(Equal([]float64(u0)))
		})

		It("reports a single sample without integrating", func() {
			res, err := s.Run(context.Background(), singleSoliton(1, 1))
			Expect(err).NotTo(HaveOccurred())
			m, _ := res.Dims()
			Expect(m).To(Equal(1))
			Expect(res.Stats.Steps).To(BeZero())
		})

		It("does not keep a reference to the caller's config", func() {
			cfg := singleSoliton(1, 3)
			res, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			cfg.Solitons[0].C = 5
			Expect(res.Config.Solitons[0].C).To(Equal(0.75))
		})
	})

	Describe("idempotence", func() {
		It("produces identical matrices for identical configurations", func() {
			cfg := singleSoliton(2, 9)
			a, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(mat.Equal(a.U, b.U)).To(BeTrue())
			Expect(a.Stats).To(Equal(b.Stats))
		})
	})

	Describe("KdV", func() {
		It("translates a single soliton at its speed", func() {
			const c, T = 0.75, 10.0
			cfg := singleSoliton(T, 11)
			res, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			g := res.Grid
			shift := cfg.Solitons[0].Shift
			exact := make([]float64, g.N)
			for j, x := range g.X {
				exact[j] = physics.KdVExact(g.Wrap(x-shift-c*T), c)
			}
			got := res.Final()
			diff := make([]float64, g.N)
			floats.SubTo(diff, got, exact)
			Expect(floats.Norm(diff, 2) / floats.Norm(exact, 2)).To(BeNumerically("<", 1e-2))
		})

		It("conserves mass and energy across a two-soliton interaction", func() {
			cfg := config.GetPreset("kdv", "two-soliton")
			cfg.Duration = 20
			cfg.Samples = 21
			res, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Metrics).To(HaveKey("energy_drift"))
			Expect(res.Metrics["mass_drift"]).To(BeNumerically("<", 1e-6))
			Expect(res.Metrics["energy_drift"]).To(BeNumerically("<", 1e-3))
			Expect(res.Metrics["peak"]).To(BeNumerically("~", 0.375, 0.01))
			Expect(res.Metrics["stability"]).To(Equal(1.0))
		})
	})

	Describe("Burgers", func() {
		It("steepens the sech pulse towards the breaking time", func() {
			// characteristics cross at t=2 for u0 = sech(x)
			cfg := inviscid(256, 1.6, 0.25)
			tracker := steepness(s, cfg)
			res, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			steep := tracker.History()
			Expect(steep).To(HaveLen(7))
			for i := 1; i < len(steep); i++ {
				Expect(steep[i]).To(BeNumerically("<", steep[i-1]))
			}
			Expect(res.Metrics["min_gradient"]).To(BeNumerically("~", -0.5/(1-0.5*1.5), 0.2))
			Expect(res.Metrics).NotTo(HaveKey("energy_drift"))
		})

		It("keeps integrating past the breaking time on a coarse grid", func() {
			cfg := inviscid(128, 12, 0.1)
			res, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			m, _ := res.Dims()
			Expect(m).To(Equal(120))
			Expect(res.Final().IsValid()).To(BeTrue())
			Expect(res.Metrics["min_gradient"]).To(BeNumerically("<", -2))
		})

		It("stays stable on the full grid up to t=80", func() {
			if testing.Short() || os.Getenv("SOLITONS_FULL_SCALE") == "" {
				Skip("full-scale run; set SOLITONS_FULL_SCALE=1 without -short")
			}
			cfg := config.GetPreset("burgers", "inviscid")
			tracker := steepness(s, cfg)
			_, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			steep := tracker.History()
			for i := 1; i <= 15; i++ {
				Expect(steep[i]).To(BeNumerically("<", steep[i-1]))
			}
		})
	})

	Describe("failures", func() {
		It("rejects invalid configurations before integrating", func() {
			for _, mutate := range []func(*config.Config){
				func(c *config.Config) { c.Points = 2 },
				func(c *config.Config) { c.Points = 65 },
				func(c *config.Config) { c.Model = "schrodinger" },
				func(c *config.Config) { c.Solitons = nil },
			} {
				cfg := singleSoliton(1, 3)
				mutate(cfg)
				_, err := s.Run(context.Background(), cfg)
				Expect(errors.Is(err, dynamo.ErrInvalidConfiguration)).To(BeTrue(), "%v", err)
			}
		})

		It("reports divergence with the failing interval", func() {
			cfg := singleSoliton(5, 6)
			cfg.MaxSteps = 3
			res, err := s.Run(context.Background(), cfg)
			Expect(res).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrIntegrationDivergence)).To(BeTrue())

			var de *dynamo.DivergenceError
			Expect(errors.As(err, &de)).To(BeTrue())
			Expect(de.Interval).To(Equal(1))
			Expect(de.Steps).To(Equal(3))
		})

		It("stops on a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := s.Run(ctx, singleSoliton(5, 6))
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})

	Describe("observers", func() {
		It("sees every row in order", func() {
			var seen []int
			var times []float64
			s.AddObserver(dynamo.ObserverFunc(func(i int, t float64, u dynamo.State) {
				seen = append(seen, i)
				times = append(times, t)
			}))
			res, err := s.Run(context.Background(), singleSoliton(2, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal([]int{0, 1, 2, 3, 4}))
			Expect(times).To(Equal(res.Times))
		})
	})

	Describe("Sweep", func() {
		It("runs configurations concurrently and keeps their order", func() {
			a := singleSoliton(2, 3)
			b := singleSoliton(2, 3)
			b.Solitons[0].C = 0.5
			results, err := s.Sweep(context.Background(), []*config.Config{a, b}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Config.Solitons[0].C).To(Equal(0.75))
			Expect(results[1].Config.Solitons[0].C).To(Equal(0.5))

			peak := func(r *sim.Result) float64 { return r.Row(0).MaxAbs() }
			Expect(peak(results[0])).To(BeNumerically(">", peak(results[1])))
		})

		It("returns the failing run's error", func() {
			bad := singleSoliton(2, 3)
			bad.Points = 7
			_, err := s.Sweep(context.Background(), []*config.Config{singleSoliton(2, 3), bad}, 1)
			Expect(errors.Is(err, dynamo.ErrInvalidConfiguration)).To(BeTrue())
		})
	})
})
