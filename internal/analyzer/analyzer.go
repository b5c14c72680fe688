package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/polybench-dev/polybench/internal/aggregator"
	"github.com/polybench-dev/polybench/internal/comparator"
	"github.com/polybench-dev/polybench/internal/storage"
)

// Analyzer turns a benchmark's run history into trend and anomaly
// signals for internal/reporter.
type Analyzer struct {
	MinDataPoints   int
	ZScoreThreshold float64
}

// New returns an Analyzer with the teacher's defaults: 3 data points
// minimum for a trend, 2.0 standard deviations for an anomaly.
func New() *Analyzer {
	return &Analyzer{MinDataPoints: 3, ZScoreThreshold: 2.0}
}

// Trend fits a simple linear regression of nanos_per_op against days
// since the first run and reports the direction, slope, and fit quality.
func (a *Analyzer) Trend(runs []*storage.Run) (*Trend, error) {
	if len(runs) < a.MinDataPoints {
		return nil, fmt.Errorf("analyzer: insufficient data points: %d < %d", len(runs), a.MinDataPoints)
	}

	sorted := sortedByRunAt(runs)
	n := float64(len(sorted))
	start := sorted[0].RunAt
	var sumX, sumY, sumXY, sumX2 float64
	for _, r := range sorted {
		x := r.RunAt.Sub(start).Hours() / 24
		y := r.NanosPerOp
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if math.Abs(denom) < 1e-10 {
		return nil, fmt.Errorf("analyzer: no time variance across runs")
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for _, r := range sorted {
		x := r.RunAt.Sub(start).Hours() / 24
		predicted := intercept + slope*x
		ssRes += (r.NanosPerOp - predicted) * (r.NanosPerOp - predicted)
		ssTot += (r.NanosPerOp - meanY) * (r.NanosPerOp - meanY)
	}
	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1.0 - ssRes/ssTot
		rSquared = math.Max(0, math.Min(1, rSquared))
	}

	direction := "stable"
	if math.Abs(slope) > 1.0 {
		if slope > 0 {
			direction = "degrading"
		} else {
			direction = "improving"
		}
	}

	end := sorted[len(sorted)-1].RunAt
	periodDays := int(end.Sub(start).Hours() / 24)
	if periodDays == 0 {
		periodDays = 1
	}

	startValue := sorted[0].NanosPerOp
	endValue := sorted[len(sorted)-1].NanosPerOp
	changePercent := 0.0
	if startValue > 0 {
		changePercent = (endValue - startValue) / startValue * 100
	}

	return &Trend{
		Name: sorted[0].Name, Language: sorted[0].Language,
		Direction: direction, SlopeNsPerDay: slope, RSquared: rSquared,
		ChangePercent: changePercent, PeriodDays: periodDays, DataPoints: len(sorted),
		StartTime: start, EndTime: end, StartValue: startValue, EndValue: endValue,
	}, nil
}

// DetectAnomalies flags runs whose nanos_per_op is more than
// ZScoreThreshold standard deviations from the history's mean.
func (a *Analyzer) DetectAnomalies(runs []*storage.Run) []*Anomaly {
	if len(runs) < 2 {
		return nil
	}
	sorted := sortedByRunAt(runs)

	values := make([]float64, len(sorted))
	for i, r := range sorted {
		values[i] = r.NanosPerOp
	}
	mean := meanOf(values)
	stdDev := stddevOf(values, mean)
	if stdDev == 0 {
		return nil
	}

	var anomalies []*Anomaly
	for _, r := range sorted {
		z := (r.NanosPerOp - mean) / stdDev
		if math.Abs(z) <= a.ZScoreThreshold {
			continue
		}
		anomalies = append(anomalies, &Anomaly{
			Name: r.Name, Language: r.Language, RunAt: r.RunAt,
			Value: r.NanosPerOp, ZScore: z, Severity: severityOf(math.Abs(z)),
		})
	}
	return anomalies
}

func severityOf(absZ float64) string {
	switch {
	case absZ > 3.0:
		return "critical"
	case absZ > 2.5:
		return "high"
	case absZ > 1.5:
		return "medium"
	default:
		return "low"
	}
}

// ReliabilityFlags extracts internal/comparator's per-benchmark async
// spread warnings into analyzer's reporting vocabulary.
func ReliabilityFlags(comparisons []*comparator.BenchmarkComparison) []ReliabilityFlag {
	var flags []ReliabilityFlag
	for _, c := range comparisons {
		if c.AsyncSpreadWarning {
			flags = append(flags, ReliabilityFlag{BenchmarkName: c.Name, SpreadPoints: c.AsyncSpreadPoints})
		}
	}
	return flags
}

// UnstableBenchmarks returns the names of aggregated results whose
// multi-run RunAggregate was classified unstable.
func UnstableBenchmarks(results []*aggregator.AggregatedResult) []string {
	var names []string
	for _, r := range results {
		if r.Measured.Runs != nil && !r.Measured.Runs.IsStable {
			names = append(names, r.Name)
		}
	}
	return names
}

func sortedByRunAt(runs []*storage.Run) []*storage.Run {
	sorted := append([]*storage.Run(nil), runs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RunAt.Before(sorted[j].RunAt) })
	return sorted
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
