package model

type TempoChange struct {
	Tick    int64  `json:"tick"`
	TempoUs uint32 `json:"tempo_us"`
	BPM     int    `json:"bpm"`
}

type NoteRange struct {
	MinNote int `json:"min_note"`
	MaxNote int `json:"max_note"`
}

// Output is the record written for one converted file. Every number is an
// integer except GateRatio.
type Output struct {
	SourceMidi         string        `json:"source_midi"`
	TicksPerBeat       int           `json:"ticks_per_beat"`
	TempoBPM           int           `json:"tempo_bpm"`
	TempoChanges       []TempoChange `json:"tempo_changes"`
	SelectedTrackIndex int           `json:"selected_track_index"`
	SelectedTrackName  string        `json:"selected_track_name"`
	Track1Based        *int          `json:"track_1based,omitempty"`
	FillTrackIndex     *int          `json:"fill_track_index,omitempty"`
	FillTrackName      *string       `json:"fill_track_name,omitempty"`
	ProlongedPauseMs   *int          `json:"prolonged_pause_ms,omitempty"`
	MaxRestMs          *int          `json:"max_rest_ms,omitempty"`
	GateRatio          float64       `json:"gate_ratio"`
	LoudnessLevels     int           `json:"loudness_levels"`
	NoteRange          NoteRange     `json:"note_range"`
	Events             []Event       `json:"events"`
}

func (o *Output) NumNotes() int {
	var n int
	for _, e := range o.Events {
		if !e.Rest {
			n++
		}
	}
	return n
}

// DurationMs is where the last event ends.
func (o *Output) DurationMs() int {
	if len(o.Events) == 0 {
		return 0
	}
	return o.Events[len(o.Events)-1].EndMs()
}
