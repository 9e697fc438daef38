package progress

// Tracker owns the snapshot of one run and pushes a copy to its sink after
// every change. It is not safe for concurrent use; one run drives it.
type Tracker struct {
	sink Sink
	snap Snapshot
}

// NewTracker creates a tracker emitting to sink, which may be nil.
func NewTracker(sink Sink) *Tracker {
	return &Tracker{sink: sink}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

func (t *Tracker) emit(message string) {
	t.snap.Message = message
	t.sink.Emit(t.snap)
}

// Start emits the initial snapshot.
func (t *Tracker) Start(message string) {
	t.emit(message)
}

// Message emits the current counters with a new message.
func (t *Tracker) Message(message string) {
	t.emit(message)
}

// FoundCollections adds n discovered collections.
func (t *Tracker) FoundCollections(n int, message string) {
	t.snap.Collections.Found += n
	t.emit(message)
}

// FoundPacks adds n discovered packs.
func (t *Tracker) FoundPacks(n int, message string) {
	t.snap.Packs.Found += n
	t.emit(message)
}

// FoundAssets adds n discovered assets.
func (t *Tracker) FoundAssets(n int, message string) {
	t.snap.Assets.Found += n
	t.emit(message)
}

// FinishAsset marks one asset done.
func (t *Tracker) FinishAsset(message string) {
	t.snap.Assets.Finished++
	t.emit(message)
}

// FinishPack marks one pack done.
func (t *Tracker) FinishPack(message string) {
	t.snap.Packs.Finished++
	t.emit(message)
}

// FinishCollection marks one collection done.
func (t *Tracker) FinishCollection(message string) {
	t.snap.Collections.Finished++
	t.emit(message)
}

// Done emits the final snapshot with Finished set.
func (t *Tracker) Done(message string) {
	t.snap.Finished = true
	t.emit(message)
}
