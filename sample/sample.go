package sample

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Note is one sounding note, in absolute ticks.
type Note struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
	Start    uint32
	End      uint32
}

type Tempo struct {
	Tick uint32
	BPM  float64
}

// Part is one track of a sample file.
type Part struct {
	Name  string
	Notes []Note
}

type timed struct {
	tick  uint32
	isOff bool
	msg   []byte
}

func closeTrack(track *smf.Track, events []timed) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		// note offs first so back to back notes do not overlap
		return events[i].isOff && !events[j].isOff
	})
	var last uint32
	for _, e := range events {
		track.Add(e.tick-last, e.msg)
		last = e.tick
	}
	track.Close(0)
}

// Create builds a format 1 file: a tempo track followed by one track per part.
func Create(ticksPerBeat uint16, tempos []Tempo, parts ...Part) *smf.SMF {
	res := smf.NewSMF1()
	res.TimeFormat = smf.MetricTicks(ticksPerBeat)

	var tempoTrack smf.Track
	var tempoEvents []timed
	for _, t := range tempos {
		tempoEvents = append(tempoEvents, timed{tick: t.Tick, msg: smf.MetaTempo(t.BPM)})
	}
	closeTrack(&tempoTrack, tempoEvents)
	res.Add(tempoTrack)

	for _, p := range parts {
		var track smf.Track
		events := []timed{{tick: 0, msg: smf.MetaTrackSequenceName(p.Name)}}
		for _, n := range p.Notes {
			events = append(events,
				timed{tick: n.Start, msg: midi.NoteOn(n.Channel, n.Key, n.Velocity)},
				timed{tick: n.End, isOff: true, msg: midi.NoteOff(n.Channel, n.Key)},
			)
		}
		closeTrack(&track, events)
		res.Add(track)
	}
	return res
}

// Bytes serializes s as a standard MIDI file.
func Bytes(s *smf.SMF) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing sample midi")
	}
	return buf.Bytes(), nil
}

// Melody is a monophonic part stepping through keys, one beat each.
func Melody(name string, channel uint8, ticksPerBeat uint32, start uint32, keys ...uint8) Part {
	p := Part{Name: name}
	for i, k := range keys {
		s := start + uint32(i)*ticksPerBeat
		p.Notes = append(p.Notes, Note{Channel: channel, Key: k, Velocity: 100, Start: s, End: s + ticksPerBeat})
	}
	return p
}
