package event

import (
	"math"

	"github.com/jsphweid/buzzer/model"
	"github.com/jsphweid/buzzer/tempo"
	"github.com/jsphweid/buzzer/util"
)

// TransposeIntoRange shifts note by whole octaves until it fits in
// [minNote, maxNote], then clamps whatever still falls outside.
func TransposeIntoRange(note, minNote, maxNote int) int {
	for note < minNote {
		note += 12
	}
	for note > maxNote {
		note -= 12
	}
	return util.Clamp(note, minNote, maxNote)
}

// NoteToFrequency returns the equal-tempered frequency of note in whole Hz,
// with A4 (69) at 440 Hz.
func NoteToFrequency(note int) int {
	return util.Round(440 * math.Pow(2, float64(note-69)/12))
}

// VelocityToLoudness maps a velocity onto levels 1..levels, or 0 for silence.
func VelocityToLoudness(velocity, levels int) int {
	if velocity <= 0 {
		return 0
	}
	v := min(velocity, 127)
	level := 1 + (v-1)*levels/127
	return util.Clamp(level, 1, levels)
}

// MapSegments converts tick segments into a millisecond timeline. Gaps of
// at least one millisecond between segments become rests.
func MapSegments(segments []model.Segment, tm model.TempoMap, ticksPerBeat int, cfg model.Config) []model.Event {
	events := make([]model.Event, 0, 2*len(segments))
	var lastEndTick int64

	for _, s := range segments {
		if s.StartTick > lastEndTick {
			restStart := tempo.TickToMs(lastEndTick, tm, ticksPerBeat)
			restEnd := tempo.TickToMs(s.StartTick, tm, ticksPerBeat)
			if restMs := restEnd - restStart; restMs >= 1 {
				events = append(events, model.NewRest(util.Round(restStart), util.Round(restMs)))
			}
		}

		startMs := tempo.TickToMs(s.StartTick, tm, ticksPerBeat)
		endMs := tempo.TickToMs(s.EndTick, tm, ticksPerBeat)
		durationMs := endMs - startMs
		gateMs := math.Max(float64(cfg.MinGateMs), durationMs*cfg.GateRatio)
		note := TransposeIntoRange(int(s.Note), cfg.MinNote, cfg.MaxNote)

		events = append(events, model.Event{
			StartMs:       util.Round(startMs),
			DurationMs:    util.Round(durationMs),
			GateMs:        util.Round(gateMs),
			Note:          note,
			FrequencyHz:   NoteToFrequency(note),
			LoudnessLevel: VelocityToLoudness(int(s.Velocity), cfg.LoudnessLevels),
			Velocity:      int(s.Velocity),
		})
		lastEndTick = s.EndTick
	}
	return events
}

// TrimLeadingRests drops rests before the first note and shifts the rest of
// the timeline so it starts at 0. events is not modified.
func TrimLeadingRests(events []model.Event) []model.Event {
	i := 0
	for i < len(events) && events[i].Rest {
		i++
	}
	res := make([]model.Event, 0, len(events)-i)
	if i == len(events) {
		return res
	}
	first := events[i].StartMs
	for _, e := range events[i:] {
		e.StartMs -= first
		res = append(res, e)
	}
	return res
}

// CapRests shortens every rest longer than maxRestMs and lays the events
// back out end to end from 0. A non-positive maxRestMs leaves events as is.
func CapRests(events []model.Event, maxRestMs int) []model.Event {
	res := make([]model.Event, len(events))
	copy(res, events)
	if maxRestMs <= 0 {
		return res
	}

	var t int
	for i := range res {
		if res[i].Rest && res[i].DurationMs > maxRestMs {
			res[i].DurationMs = maxRestMs
		}
		res[i].StartMs = t
		t += res[i].DurationMs
	}
	return res
}
