package analyze

import (
	"math"
	"strings"

	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/model"
)

// Disqualified is the score of a track that can never be picked.
const Disqualified = -1e9

// Scoring weights. Empirical, not derived; tune as needed.
const (
	monoWeight    = 3.0
	pitchWeight   = 1.5
	densityWeight = 0.5
	pitchCenter   = 69.0 // A4
	pitchSpread   = 24.0
	densityCap    = 200.0
)

// TrackName returns the first track name on t, trimmed.
func TrackName(t model.Track) string {
	for _, msg := range t {
		if msg.Kind == model.TrackNameMsg {
			return strings.TrimSpace(msg.Name)
		}
	}
	return ""
}

func isDrumTrack(t model.Track) bool {
	for _, msg := range t {
		if msg.IsNote() && msg.Channel == constants.DrumChannel {
			return true
		}
	}
	return false
}

// AnalyzeTrack measures how melodic a track is. The drum channel is ignored
// for every measurement except IsDrumTrack.
func AnalyzeTrack(t model.Track) model.TrackAnalysis {
	var active [128]bool
	var numActive int
	var now, last int64
	var res model.TrackAnalysis
	var pitchSum int

	res.MinPitch = math.MaxInt
	for _, msg := range t {
		now += int64(msg.Delta)
		if dt := now - last; dt > 0 && numActive > 0 {
			res.TimeActive += dt
			if numActive >= 2 {
				res.TimePoly += dt
			}
		}
		last = now

		if !msg.IsNote() || msg.Channel == constants.DrumChannel {
			continue
		}
		note := msg.Note & 0x7f
		if msg.IsNoteEnd() {
			if active[note] {
				active[note] = false
				numActive--
			}
			continue
		}
		if !active[note] {
			active[note] = true
			numActive++
		}
		res.NoteOnCount++
		pitchSum += int(note)
		res.MinPitch = min(res.MinPitch, int(note))
		res.MaxPitch = max(res.MaxPitch, int(note))
	}

	if res.TimeActive > 0 {
		res.MonoRatio = math.Max(0, 1-float64(res.TimePoly)/float64(res.TimeActive))
	}
	if res.NoteOnCount > 0 {
		res.AvgPitch = float64(pitchSum) / float64(res.NoteOnCount)
	} else {
		res.AvgPitch = pitchCenter
		res.MinPitch = 0
	}
	res.IsDrumTrack = isDrumTrack(t)
	res.Name = TrackName(t)
	res.Score = Score(res)
	return res
}

// Score favours monophonic, mid-register, reasonably busy tracks.
func Score(a model.TrackAnalysis) float64 {
	if a.IsDrumTrack || a.TimeActive <= 0 || a.NoteOnCount <= 0 {
		return Disqualified
	}
	pitchScore := math.Max(0, 1-math.Abs(a.AvgPitch-pitchCenter)/pitchSpread)
	densityScore := math.Min(1, float64(a.NoteOnCount)/densityCap)
	return monoWeight*a.MonoRatio + pitchWeight*pitchScore + densityWeight*densityScore
}

// AnalyzeAll analyzes every track, recording each track's index.
func AnalyzeAll(tracks []model.Track) []model.TrackAnalysis {
	res := make([]model.TrackAnalysis, 0, len(tracks))
	for i, t := range tracks {
		a := AnalyzeTrack(t)
		a.Index = i
		res = append(res, a)
	}
	return res
}

// SelectTrack returns the highest scoring analysis, preferring the earliest
// track on ties. ok is false when no track scores above Disqualified.
func SelectTrack(analyses []model.TrackAnalysis) (best model.TrackAnalysis, ok bool) {
	if len(analyses) == 0 {
		return best, false
	}
	best = analyses[0]
	for _, a := range analyses[1:] {
		if a.Score > best.Score {
			best = a
		}
	}
	return best, best.Score > Disqualified
}
