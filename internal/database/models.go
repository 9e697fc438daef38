package database

import "time"

// RunKind identifies what an indexing run covered.
type RunKind string

const (
	RunKindAll      RunKind = "all"
	RunKindOne      RunKind = "one"
	RunKindRegister RunKind = "register"
)

// Counter mirrors one found/finished pair of a progress snapshot.
type Counter struct {
	Found    int `json:"found"`
	Finished int `json:"finished"`
}

// IndexRun is one recorded indexing run.
type IndexRun struct {
	ID          int64     `json:"id"`
	Kind        RunKind   `json:"kind"`
	Target      string    `json:"target"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Collections Counter   `json:"collections"`
	Packs       Counter   `json:"packs"`
	Assets      Counter   `json:"assets"`
	Error       string    `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r IndexRun) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether the run ended without an error.
func (r IndexRun) Succeeded() bool {
	return r.Error == ""
}
