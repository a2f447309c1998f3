package model

type TempoEntry struct {
	Tick          int64
	MicrosPerBeat uint32
}

// TempoMap is ordered by Tick with no duplicate ticks, starting at tick 0.
type TempoMap = []TempoEntry

// Segment is one stretch of the chosen voice, in ticks. StartTick < EndTick.
type Segment struct {
	StartTick int64
	EndTick   int64
	Note      uint8
	Velocity  uint8
}

type TrackAnalysis struct {
	Index       int
	Name        string
	TimeActive  int64
	TimePoly    int64
	MonoRatio   float64
	NoteOnCount int
	AvgPitch    float64
	MinPitch    int
	MaxPitch    int
	IsDrumTrack bool
	Score       float64
}
