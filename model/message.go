package model

type MessageKind uint8

const (
	OtherMsg MessageKind = iota
	NoteOnMsg
	NoteOffMsg
	TempoMsg
	TrackNameMsg
)

func (k MessageKind) String() string {
	switch k {
	case NoteOnMsg:
		return "note_on"
	case NoteOffMsg:
		return "note_off"
	case TempoMsg:
		return "set_tempo"
	case TrackNameMsg:
		return "track_name"
	}
	return "other"
}

// RawMessage is one decoded track message. Delta is in ticks since the
// previous message on the same track. Only the fields matching Kind are set.
type RawMessage struct {
	Delta    uint32
	Kind     MessageKind
	Channel  uint8
	Note     uint8
	Velocity uint8
	Tempo    uint32 // microseconds per beat
	Name     string
}

// IsNoteStart reports a note-on with a non-zero velocity.
func (m RawMessage) IsNoteStart() bool {
	return m.Kind == NoteOnMsg && m.Velocity > 0
}

// IsNoteEnd reports a note-off, or a note-on with zero velocity.
func (m RawMessage) IsNoteEnd() bool {
	return m.Kind == NoteOffMsg || (m.Kind == NoteOnMsg && m.Velocity == 0)
}

func (m RawMessage) IsNote() bool {
	return m.Kind == NoteOnMsg || m.Kind == NoteOffMsg
}

type Track = []RawMessage

// Song is a fully decoded source file.
type Song struct {
	TicksPerBeat int
	Tracks       []Track
}

// EndTick is the absolute tick of the last message on the track.
func EndTick(t Track) int64 {
	var abs int64
	for _, m := range t {
		abs += int64(m.Delta)
	}
	return abs
}
