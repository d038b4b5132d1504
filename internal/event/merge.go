package event

// Entry pairs a normalized event with its merge flag before run
// collapsing. ID, Actor and Time come from the source record the
// payload was normalized from.
type Entry struct {
	Event             Event
	MergeWithPrevious bool
}

// CollapseRuns folds a sequence of normalized entries, in original
// order, into a deduplicated event list. An entry flagged for merge
// replaces the previous output entry wholesale, so a maximal run of
// merge-flagged entries collapses into a single event carrying the id
// and time of the run's last entry together with its accumulated
// payload. A merge flag on the first entry has nothing to collapse
// into and appends normally.
func CollapseRuns(entries []Entry) []Event {
	out := make([]Event, 0, len(entries))
	for _, entry := range entries {
		if entry.MergeWithPrevious && len(out) > 0 {
			out[len(out)-1] = entry.Event
			continue
		}
		out = append(out, entry.Event)
	}
	return out
}
