package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/core"
	"github.com/BackendStack21/ml-kem-go/kem"
)

const (
	opKeyGen      = "keygen"
	opEncapsulate = "encapsulate"
	opDecapsulate = "decapsulate"
)

// benchmarkMetrics records per-operation latency in microseconds on a private
// registry, partitioned by parameter set and operation.
type benchmarkMetrics struct {
	registry *prometheus.Registry
	latency  *prometheus.HistogramVec
}

func newBenchmarkMetrics() *benchmarkMetrics {
	m := &benchmarkMetrics{
		registry: prometheus.NewRegistry(),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mlkem",
				Subsystem: "benchmark",
				Name:      "operation_latency_microseconds",
				Help:      "Latency of ML-KEM operations",
				Buckets:   prometheus.ExponentialBuckets(10, 2, 14),
			},
			[]string{"level", "operation"},
		),
	}
	m.registry.MustRegister(m.latency)
	return m
}

func (m *benchmarkMetrics) observe(level mlkem.SecurityLevel, op string, d time.Duration) {
	m.latency.WithLabelValues(string(level), op).Observe(float64(d) / float64(time.Microsecond))
}

// BenchmarkResult summarizes one histogram series.
type BenchmarkResult struct {
	Level     string  `json:"level"`
	Operation string  `json:"operation"`
	Count     uint64  `json:"count"`
	MeanMicro float64 `json:"mean_us"`
}

func (m *benchmarkMetrics) results() ([]BenchmarkResult, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "gathering metrics")
	}
	var out []BenchmarkResult
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_HISTOGRAM {
			continue
		}
		for _, metric := range mf.GetMetric() {
			h := metric.GetHistogram()
			r := BenchmarkResult{Count: h.GetSampleCount()}
			if r.Count > 0 {
				r.MeanMicro = h.GetSampleSum() / float64(r.Count)
			}
			for _, label := range metric.GetLabel() {
				switch label.GetName() {
				case "level":
					r.Level = label.GetValue()
				case "operation":
					r.Operation = label.GetValue()
				}
			}
			out = append(out, r)
		}
	}
	order := map[string]int{opKeyGen: 0, opEncapsulate: 1, opDecapsulate: 2}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return levelRank(out[i].Level) < levelRank(out[j].Level)
		}
		return order[out[i].Operation] < order[out[j].Operation]
	})
	return out, nil
}

func levelRank(level string) int {
	for i, p := range core.AllParams() {
		if string(p.Level) == level {
			return i
		}
	}
	return len(core.AllParams())
}

// runLevel measures every operation iterations times and checks that each
// decapsulation recovers the encapsulated secret.
func runLevel(m *benchmarkMetrics, level mlkem.SecurityLevel, iterations int) error {
	for i := 0; i < iterations; i++ {
		start := time.Now()
		kp, err := kem.GenerateKeyPair(level)
		m.observe(level, opKeyGen, time.Since(start))
		if err != nil {
			return errors.Wrapf(err, "%s keygen", level)
		}

		start = time.Now()
		res, err := kem.Encapsulate(kp.EncapsulationKey)
		m.observe(level, opEncapsulate, time.Since(start))
		if err != nil {
			return errors.Wrapf(err, "%s encapsulate", level)
		}

		start = time.Now()
		ss, err := kem.Decapsulate(kp.DecapsulationKey, res.Ciphertext)
		m.observe(level, opDecapsulate, time.Since(start))
		if err != nil {
			return errors.Wrapf(err, "%s decapsulate", level)
		}
		if string(ss) != string(res.SharedSecret) {
			return errors.Errorf("%s: shared secret mismatch on iteration %d", level, i)
		}
	}
	return nil
}

func benchmarkLevels(c *cli.Context) ([]mlkem.SecurityLevel, error) {
	names := c.StringSlice("level")
	if len(names) == 0 {
		var all []mlkem.SecurityLevel
		for _, p := range core.AllParams() {
			all = append(all, p.Level)
		}
		return all, nil
	}
	levels := make([]mlkem.SecurityLevel, 0, len(names))
	for _, name := range names {
		level, err := core.ParseLevel(name)
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func benchmark(c *cli.Context) error {
	log := createLogger(c)

	levels, err := benchmarkLevels(c)
	if err != nil {
		return err
	}
	iterations := c.Int("iterations")
	if iterations < 1 {
		iterations = 1
	}
	parallel := c.Int("parallel")
	if parallel < 1 {
		parallel = 1
	}

	m := newBenchmarkMetrics()
	var g errgroup.Group
	g.SetLimit(parallel)
	for _, level := range levels {
		g.Go(func() error {
			log.Debug().Str("level", string(level)).Int("iterations", iterations).Msg("Benchmarking")
			return runLevel(m, level, iterations)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	results, err := m.results()
	if err != nil {
		return err
	}

	w := c.App.Writer
	if c.Bool("json") {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	fmt.Fprintf(w, "ML-KEM Benchmark Results\n")
	fmt.Fprintf(w, "========================\n")
	fmt.Fprintf(w, "Iterations: %d\n\n", iterations)
	fmt.Fprintf(w, "%-12s %-12s %8s %12s\n", "Level", "Operation", "Count", "Mean")
	for _, r := range results {
		mean := time.Duration(r.MeanMicro * float64(time.Microsecond))
		fmt.Fprintf(w, "%-12s %-12s %8d %12v\n", r.Level, r.Operation, r.Count, mean)
	}
	return nil
}
