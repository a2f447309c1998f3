package merge

import (
	"sort"

	"github.com/jsphweid/buzzer/model"
)

func notesIn(fill []model.Event, start, end int) []model.Event {
	var res []model.Event
	for _, e := range fill {
		if !e.Rest && e.StartMs < end && e.EndMs() > start {
			res = append(res, e)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].StartMs < res[j].StartMs
	})
	return res
}

// Merge keeps choir as the primary voice and fills each of its rests lasting
// at least prolongedMs with the fill notes that overlap the rest. Fill notes
// are copied whole, even when they stick out of the rest. Shorter rests stay
// silent. Neither input is modified.
func Merge(choir, fill []model.Event, prolongedMs int) []model.Event {
	merged := make([]model.Event, 0, len(choir))

	for _, e := range choir {
		if !e.Rest || e.DurationMs < prolongedMs {
			merged = append(merged, e)
			continue
		}

		restEnd := e.EndMs()
		cursor := e.StartMs
		for _, n := range notesIn(fill, e.StartMs, restEnd) {
			if n.StartMs > cursor {
				merged = append(merged, model.NewRest(cursor, n.StartMs-cursor))
			}
			merged = append(merged, n)
			cursor = max(cursor, n.EndMs())
		}
		if cursor < restEnd {
			merged = append(merged, model.NewRest(cursor, restEnd-cursor))
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartMs < merged[j].StartMs
	})
	return merged
}
