package convert

import (
	"bytes"
	"path/filepath"

	"github.com/jsphweid/buzzer/analyze"
	"github.com/jsphweid/buzzer/event"
	"github.com/jsphweid/buzzer/merge"
	"github.com/jsphweid/buzzer/midi"
	"github.com/jsphweid/buzzer/model"
	"github.com/jsphweid/buzzer/reduce"
	"github.com/jsphweid/buzzer/tempo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Mode int

const (
	AutoMode Mode = iota
	TrackMode
	MergeMode
)

// Options picks the track(s) to convert. Track numbers are 1-based and 0
// means unset.
type Options struct {
	Track      int
	ChoirTrack int
	FillTrack  int
}

func (o Options) Mode() Mode {
	switch {
	case o.ChoirTrack != 0 || o.FillTrack != 0:
		return MergeMode
	case o.Track != 0:
		return TrackMode
	}
	return AutoMode
}

func ValidateOptions(o Options) error {
	if (o.ChoirTrack != 0) != (o.FillTrack != 0) {
		return errors.Wrap(ErrInvalidConfig, "choir and fill tracks must be given together")
	}
	if o.Track != 0 && o.ChoirTrack != 0 {
		return errors.Wrap(ErrInvalidConfig, "a single track cannot be combined with choir and fill tracks")
	}
	return nil
}

func ValidateConfig(cfg model.Config) error {
	switch {
	case cfg.GateRatio <= 0 || cfg.GateRatio > 1:
		return errors.Wrapf(ErrInvalidConfig, "gate ratio %v is outside (0, 1]", cfg.GateRatio)
	case cfg.LoudnessLevels < 1:
		return errors.Wrapf(ErrInvalidConfig, "loudness levels %v must be at least 1", cfg.LoudnessLevels)
	case cfg.MinNote < 0 || cfg.MaxNote > 127 || cfg.MaxNote-cfg.MinNote < 12:
		return errors.Wrapf(ErrInvalidConfig, "note range [%v, %v] must span an octave within 0-127", cfg.MinNote, cfg.MaxNote)
	case cfg.MinGateMs < 0:
		return errors.Wrapf(ErrInvalidConfig, "minimum gate %v is negative", cfg.MinGateMs)
	case cfg.ProlongedPauseMs < 0:
		return errors.Wrapf(ErrInvalidConfig, "prolonged pause %v is negative", cfg.ProlongedPauseMs)
	case cfg.MaxRestMs < 0:
		return errors.Wrapf(ErrInvalidConfig, "max rest %v is negative", cfg.MaxRestMs)
	}
	return nil
}

// extract runs one track through reduction and event mapping, without
// trimming.
func extract(song *model.Song, index int, tm model.TempoMap, cfg model.Config) []model.Event {
	segments := reduce.Reduce(song.Tracks[index])
	return event.MapSegments(segments, tm, song.TicksPerBeat, cfg)
}

func trackIndex(song *model.Song, oneBased int) (int, error) {
	i := oneBased - 1
	if i < 0 || i >= len(song.Tracks) {
		return 0, errors.Wrapf(ErrInvalidTrackIndex, "track %d of %d", oneBased, len(song.Tracks))
	}
	return i, nil
}

func newOutput(name string, song *model.Song, tm model.TempoMap, cfg model.Config) *model.Output {
	return &model.Output{
		SourceMidi:     name,
		TicksPerBeat:   song.TicksPerBeat,
		TempoBPM:       tempo.BPM(tm[0].MicrosPerBeat),
		TempoChanges:   tempo.Changes(tm),
		GateRatio:      cfg.GateRatio,
		LoudnessLevels: cfg.LoudnessLevels,
		NoteRange:      model.NoteRange{MinNote: cfg.MinNote, MaxNote: cfg.MaxNote},
	}
}

// Song converts a decoded file into its output record. It either returns a
// complete record or an error wrapping one of the package's sentinel errors.
func Song(name string, song *model.Song, opts Options, cfg model.Config) (*model.Output, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if song.TicksPerBeat <= 0 {
		return nil, errors.Wrapf(ErrMalformedInput, "ticks per beat %d", song.TicksPerBeat)
	}

	var tempoTrack model.Track
	if len(song.Tracks) > 0 {
		tempoTrack = song.Tracks[0]
	}
	tm := tempo.BuildTempoMap(tempoTrack)
	out := newOutput(name, song, tm, cfg)
	log := logrus.WithField("file", name)

	var events []model.Event
	switch opts.Mode() {
	case MergeMode:
		ci, err := trackIndex(song, opts.ChoirTrack)
		if err != nil {
			return nil, errors.WithMessage(err, "choir")
		}
		fi, err := trackIndex(song, opts.FillTrack)
		if err != nil {
			return nil, errors.WithMessage(err, "fill")
		}
		choir := extract(song, ci, tm, cfg)
		if len(choir) == 0 {
			return nil, errors.Wrapf(ErrNoEvents, "choir track %d", opts.ChoirTrack)
		}
		fill := extract(song, fi, tm, cfg)
		log.WithFields(logrus.Fields{"track": ci, "fill_track": fi}).
			Debugf("merging %d choir events with %d fill events", len(choir), len(fill))
		events = merge.Merge(choir, fill, cfg.ProlongedPauseMs)

		fillName := analyze.TrackName(song.Tracks[fi])
		prolonged := cfg.ProlongedPauseMs
		out.SelectedTrackIndex = ci
		out.SelectedTrackName = analyze.TrackName(song.Tracks[ci])
		out.FillTrackIndex = &fi
		out.FillTrackName = &fillName
		out.ProlongedPauseMs = &prolonged

	case TrackMode:
		i, err := trackIndex(song, opts.Track)
		if err != nil {
			return nil, err
		}
		events = extract(song, i, tm, cfg)
		track := opts.Track
		out.SelectedTrackIndex = i
		out.SelectedTrackName = analyze.TrackName(song.Tracks[i])
		out.Track1Based = &track

	default:
		analyses := analyze.AnalyzeAll(song.Tracks)
		best, ok := analyze.SelectTrack(analyses)
		if !ok {
			return nil, errors.Wrapf(ErrNoSuitableTrack, "%d tracks scored", len(analyses))
		}
		for _, a := range analyses {
			log.WithField("track", a.Index).Debugf("score %.3f mono=%.2f avg=%.1f notes=%d drums=%v name=%q",
				a.Score, a.MonoRatio, a.AvgPitch, a.NoteOnCount, a.IsDrumTrack, a.Name)
		}
		events = extract(song, best.Index, tm, cfg)
		out.SelectedTrackIndex = best.Index
		out.SelectedTrackName = best.Name
	}

	if len(events) == 0 {
		return nil, errors.Wrapf(ErrNoEvents, "track %d", out.SelectedTrackIndex+1)
	}
	if cfg.TrimLeadingRests {
		events = event.TrimLeadingRests(events)
	}
	if cfg.MaxRestMs > 0 {
		maxRest := cfg.MaxRestMs
		events = event.CapRests(events, maxRest)
		out.MaxRestMs = &maxRest
	}
	out.Events = events
	return out, nil
}

// Bytes decodes and converts an in-memory file.
func Bytes(name string, data []byte, opts Options, cfg model.Config) (*model.Output, error) {
	s, err := midi.ReadMidi(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}
	song, err := midi.Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}
	return Song(name, song, opts, cfg)
}

// File decodes and converts the file at path.
func File(path string, opts Options, cfg model.Config) (*model.Output, error) {
	song, err := midi.Load(path)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}
	return Song(filepath.Base(path), song, opts, cfg)
}
