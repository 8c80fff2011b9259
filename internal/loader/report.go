package loader

import "time"

// Report aggregates the outcome of one dataset load. Counts cover every
// record that entered the pipeline, root and derived children alike.
type Report struct {
	Table     string
	Processed int
	Skipped   int
	Failed    int
	Failures  []Failure
	Started   time.Time
	Duration  time.Duration
}

// Failure records one rejected record with enough context to chase it.
type Failure struct {
	Table    string
	RecordID string
	Reason   string
}

func NewReport(table string) *Report {
	return &Report{Table: table, Started: time.Now()}
}

func (r *Report) Finish() {
	r.Duration = time.Since(r.Started)
}

func (r *Report) recordFailure(table, id string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{Table: table, RecordID: id, Reason: err.Error()})
}

// Clean reports whether every record landed.
func (r *Report) Clean() bool {
	return r.Skipped == 0 && r.Failed == 0
}
