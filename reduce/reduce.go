package reduce

import (
	"sort"

	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/model"
	"github.com/sirupsen/logrus"
)

type slot struct {
	on       bool
	start    int64
	velocity uint8
}

// pressedNotes tracks every sounding note of one track, indexed by note number.
type pressedNotes [128]slot

func (p *pressedNotes) press(note uint8, tick int64, velocity uint8) {
	p[note] = slot{on: true, start: tick, velocity: velocity}
}

func (p *pressedNotes) release(note uint8) bool {
	if !p[note].on {
		return false
	}
	p[note] = slot{}
	return true
}

func (p *pressedNotes) highest() (uint8, bool) {
	for n := len(p) - 1; n >= 0; n-- {
		if p[n].on {
			return uint8(n), true
		}
	}
	return 0, false
}

type voice struct {
	note     uint8
	start    int64
	velocity uint8
}

// Reduce collapses a track into a single voice where the highest sounding
// note always wins. A voice that becomes chosen again after a higher note is
// released starts over at the release tick, so segments never overlap.
// Re-striking the note that is already chosen does not split it.
func Reduce(track model.Track) []model.Segment {
	var pressed pressedNotes
	var segments []model.Segment
	var chosen *voice
	var now int64

	closeVoice := func(v *voice, end int64) {
		if end-v.start > 0 {
			segments = append(segments, model.Segment{
				StartTick: v.start,
				EndTick:   end,
				Note:      v.note,
				Velocity:  v.velocity,
			})
		}
	}

	for _, msg := range track {
		now += int64(msg.Delta)
		if !msg.IsNote() || msg.Channel == constants.DrumChannel {
			continue
		}

		note := msg.Note & 0x7f
		if msg.IsNoteEnd() {
			if !pressed.release(note) {
				logrus.Debugf("note off for unpressed note %d at tick %d", note, now)
			}
		} else {
			pressed.press(note, now, msg.Velocity)
		}

		top, ok := pressed.highest()
		if chosen != nil && ok && top == chosen.note {
			continue
		}
		if chosen != nil {
			closeVoice(chosen, now)
			chosen = nil
		}
		if ok {
			chosen = &voice{note: top, start: now, velocity: pressed[top].velocity}
		}
	}

	if chosen != nil {
		end := model.EndTick(track)
		logrus.Debugf("note %d still sounding at end of track, closing at tick %d", chosen.note, end)
		closeVoice(chosen, end)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTick < segments[j].StartTick
	})
	return segments
}
