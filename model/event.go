package model

import "encoding/json"

// Event is either a sounding note or a rest. Rests only carry StartMs and
// DurationMs.
type Event struct {
	StartMs       int
	DurationMs    int
	GateMs        int
	Note          int
	FrequencyHz   int
	LoudnessLevel int
	Velocity      int
	Rest          bool
}

func NewRest(startMs, durationMs int) Event {
	return Event{StartMs: startMs, DurationMs: durationMs, Rest: true}
}

func (e Event) EndMs() int {
	return e.StartMs + e.DurationMs
}

type noteJSON struct {
	StartMs       int `json:"start_ms"`
	DurationMs    int `json:"duration_ms"`
	GateMs        int `json:"gate_ms"`
	Note          int `json:"note"`
	FrequencyHz   int `json:"frequency_hz"`
	LoudnessLevel int `json:"loudness_level"`
	Velocity      int `json:"velocity"`
}

type restJSON struct {
	StartMs    int  `json:"start_ms"`
	DurationMs int  `json:"duration_ms"`
	Rest       bool `json:"rest"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	if e.Rest {
		return json.Marshal(restJSON{StartMs: e.StartMs, DurationMs: e.DurationMs, Rest: true})
	}
	return json.Marshal(noteJSON{
		StartMs:       e.StartMs,
		DurationMs:    e.DurationMs,
		GateMs:        e.GateMs,
		Note:          e.Note,
		FrequencyHz:   e.FrequencyHz,
		LoudnessLevel: e.LoudnessLevel,
		Velocity:      e.Velocity,
	})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var probe struct {
		Rest bool `json:"rest"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Rest {
		var r restJSON
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		*e = NewRest(r.StartMs, r.DurationMs)
		return nil
	}
	var n noteJSON
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*e = Event{
		StartMs:       n.StartMs,
		DurationMs:    n.DurationMs,
		GateMs:        n.GateMs,
		Note:          n.Note,
		FrequencyHz:   n.FrequencyHz,
		LoudnessLevel: n.LoudnessLevel,
		Velocity:      n.Velocity,
	}
	return nil
}
