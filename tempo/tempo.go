package tempo

import (
	"sort"

	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/model"
	"github.com/jsphweid/buzzer/util"
)

// BuildTempoMap collects the tempo changes of track, normally the file's
// first track. The map always starts with a 120 BPM entry at tick 0 and
// keeps only the last tempo seen at any one tick.
func BuildTempoMap(track model.Track) model.TempoMap {
	raw := []model.TempoEntry{{Tick: 0, MicrosPerBeat: constants.DefaultTempoUs}}
	var now int64
	for _, msg := range track {
		now += int64(msg.Delta)
		if msg.Kind == model.TempoMsg {
			raw = append(raw, model.TempoEntry{Tick: now, MicrosPerBeat: msg.Tempo})
		}
	}

	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Tick < raw[j].Tick
	})

	res := make(model.TempoMap, 0, len(raw))
	for _, e := range raw {
		if len(res) > 0 && res[len(res)-1].Tick == e.Tick {
			res[len(res)-1] = e
			continue
		}
		res = append(res, e)
	}
	return res
}

func ticksToSeconds(ticks int64, ticksPerBeat int, microsPerBeat uint32) float64 {
	scale := float64(microsPerBeat) * 1e-6 / float64(ticksPerBeat)
	return float64(ticks) * scale
}

// TickToMs returns the milliseconds elapsed between tick 0 and tick. Ticks
// past the last entry use that entry's tempo.
func TickToMs(tick int64, tm model.TempoMap, ticksPerBeat int) float64 {
	if ticksPerBeat <= 0 {
		return 0
	}
	if len(tm) == 0 {
		tm = model.TempoMap{{Tick: 0, MicrosPerBeat: constants.DefaultTempoUs}}
	}

	var seconds float64
	var prevTick int64
	prevTempo := tm[0].MicrosPerBeat
	for _, e := range tm {
		if e.Tick > tick {
			break
		}
		if e.Tick > prevTick {
			seconds += ticksToSeconds(e.Tick-prevTick, ticksPerBeat, prevTempo)
		}
		prevTick = e.Tick
		prevTempo = e.MicrosPerBeat
	}
	if tick > prevTick {
		seconds += ticksToSeconds(tick-prevTick, ticksPerBeat, prevTempo)
	}
	return seconds * 1000
}

// BPM converts a tempo in microseconds per beat to whole beats per minute.
func BPM(microsPerBeat uint32) int {
	if microsPerBeat == 0 {
		return 0
	}
	return util.Round(60000000 / float64(microsPerBeat))
}

func Changes(tm model.TempoMap) []model.TempoChange {
	res := make([]model.TempoChange, 0, len(tm))
	for _, e := range tm {
		res = append(res, model.TempoChange{
			Tick:    e.Tick,
			TempoUs: e.MicrosPerBeat,
			BPM:     BPM(e.MicrosPerBeat),
		})
	}
	return res
}

// LengthMs is the playing time of the longest track.
func LengthMs(song *model.Song, tm model.TempoMap) float64 {
	var end int64
	for _, t := range song.Tracks {
		if e := model.EndTick(t); e > end {
			end = e
		}
	}
	return TickToMs(end, tm, song.TicksPerBeat)
}
