package recorder

import "time"

// RunRecord holds the summary of a single payoff simulation run.
type RunRecord struct {
	PlanID            string
	Strategy          string
	TotalDebt         float64
	TotalInterestPaid float64
	TotalPaid         float64
	MonthsToPayoff    int
	CreatedAt         time.Time
}

// ProgressRecord holds a periodic snapshot of where a stored plan should be.
type ProgressRecord struct {
	PlanID            string
	MonthsElapsed     int
	ExpectedRemaining float64
	MonthsLeft        int
	SnapshotAt        time.Time
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordRun(rec RunRecord) error
	RecordProgress(rec ProgressRecord) error
	Close() error
}
