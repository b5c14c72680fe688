package analyzer

import "time"

// Trend describes a benchmark's direction across a run-history sample.
type Trend struct {
	Name          string
	Language      string
	Direction     string // "improving", "degrading", "stable"
	SlopeNsPerDay float64
	RSquared      float64
	ChangePercent float64
	PeriodDays    int
	DataPoints    int
	StartTime     time.Time
	EndTime       time.Time
	StartValue    float64
	EndValue      float64
}

// Anomaly flags a single run whose nanos_per_op is a z-score outlier
// relative to its benchmark's run history.
type Anomaly struct {
	Name     string
	Language string
	RunAt    time.Time
	Value    float64
	ZScore   float64
	Severity string // "critical", "high", "medium", "low"
}

// ReliabilityFlag surfaces a comparator-detected cross-language async
// reliability disagreement in analyzer's vocabulary, so internal/reporter
// only has to consume one "things worth flagging" shape.
type ReliabilityFlag struct {
	BenchmarkName string
	SpreadPoints  float64
}
