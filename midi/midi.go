package midi

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/jsphweid/buzzer/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the scientific pitch name of a note, 60 being C4.
func NoteName(note uint8) string {
	octave := int(note)/12 - 1
	return noteNames[note%12] + strconv.Itoa(octave)
}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	return ReadMidi(bytes.NewReader(dat))
}

// ReadMidi parses a standard MIDI file. gomidi can panic on corrupt input,
// so panics come back as errors.
func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("parsing midi file: %v", r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

func decodeMessage(delta uint32, msg smf.Message) model.RawMessage {
	res := model.RawMessage{Delta: delta, Kind: model.OtherMsg}
	var ch, key, vel uint8
	var bpm float64
	var name string
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		res.Kind = model.NoteOnMsg
	case msg.GetNoteOff(&ch, &key, &vel):
		res.Kind = model.NoteOffMsg
		vel = 0
	case msg.GetMetaTempo(&bpm):
		res.Kind = model.TempoMsg
		if bpm > 0 {
			res.Tempo = uint32(math.Round(60000000 / bpm))
		}
		return res
	case msg.GetMetaTrackName(&name):
		res.Kind = model.TrackNameMsg
		res.Name = name
		return res
	default:
		return res
	}
	res.Channel = ch
	res.Note = key
	res.Velocity = vel
	return res
}

// Decode flattens a parsed file into tracks of raw messages. Only metric
// (ticks per quarter note) time formats are supported.
func Decode(s *smf.SMF) (*model.Song, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.Errorf("unsupported time format %v", s.TimeFormat)
	}
	if ticks == 0 {
		return nil, errors.New("ticks per beat is zero")
	}

	song := &model.Song{
		TicksPerBeat: int(ticks),
		Tracks:       make([]model.Track, 0, len(s.Tracks)),
	}
	for _, track := range s.Tracks {
		decoded := make(model.Track, 0, len(track))
		for _, ev := range track {
			decoded = append(decoded, decodeMessage(ev.Delta, ev.Message))
		}
		song.Tracks = append(song.Tracks, decoded)
	}
	return song, nil
}

func Load(path string) (*model.Song, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(s)
}
