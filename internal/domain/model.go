package domain

import "time"

// Report is the outcome of one batch run. Results keep input order.
type Report struct {
	RunID      string      `json:"run_id"`
	Source     string      `json:"source"`
	CommitHash string      `json:"commit_hash,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Results    []IRRResult `json:"results"`
}

// Solved counts results whose IRR was solved.
func (r Report) Solved() int {
	n := 0
	for _, res := range r.Results {
		if res.IRR.IsSolved() {
			n++
		}
	}
	return n
}

// Failed counts results whose solve failed.
func (r Report) Failed() int {
	return len(r.Results) - r.Solved()
}

// FailuresByKind tallies failures per FailureKind.
func (r Report) FailuresByKind() map[FailureKind]int {
	out := make(map[FailureKind]int)
	for _, res := range r.Results {
		if !res.IRR.IsSolved() {
			out[res.IRR.Kind()]++
		}
	}
	return out
}
