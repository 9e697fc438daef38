// Package progress defines the snapshots emitted while long scans run.
//
// A Snapshot counts units found and finished at three granularities
// (collections, packs, assets). Found counters grow as content is
// enumerated; finished counters move by one per completed unit and only
// after the unit has been counted as found.
package progress

import "sync"

// Counter tracks discovered and completed units of one granularity.
type Counter struct {
	Found    int `json:"found"`
	Finished int `json:"finished"`
}

// Snapshot is a point-in-time progress report.
type Snapshot struct {
	Message     string  `json:"message,omitempty"`
	Finished    bool    `json:"finished"`
	Collections Counter `json:"collections"`
	Packs       Counter `json:"subcollections"`
	Assets      Counter `json:"items"`
}

// Totals sums the three counters into one bounded pair.
func (s Snapshot) Totals() (finished, found int) {
	finished = s.Collections.Finished + s.Packs.Finished + s.Assets.Finished
	found = s.Collections.Found + s.Packs.Found + s.Assets.Found
	return finished, found
}

// Sink receives snapshots. A nil Sink discards them.
type Sink func(Snapshot)

// Emit sends s to the sink if there is one.
func (f Sink) Emit(s Snapshot) {
	if f != nil {
		f(s)
	}
}

// Tee returns a sink forwarding to every non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(s Snapshot) {
		for _, sink := range live {
			sink(s)
		}
	}
}

// Latest is a sink that remembers the most recent snapshot. It is safe for
// concurrent use, so HTTP handlers can poll it while a run emits.
type Latest struct {
	mu   sync.RWMutex
	snap Snapshot
	seen bool
}

// Sink returns the recording sink.
func (l *Latest) Sink() Sink {
	return func(s Snapshot) {
		l.mu.Lock()
		l.snap = s
		l.seen = true
		l.mu.Unlock()
	}
}

// Get returns the last recorded snapshot and whether one was recorded.
func (l *Latest) Get() (Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap, l.seen
}
