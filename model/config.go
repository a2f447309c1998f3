package model

// Config carries every tunable of the conversion pipeline.
type Config struct {
	MinNote          int
	MaxNote          int
	GateRatio        float64
	LoudnessLevels   int
	MinGateMs        int
	ProlongedPauseMs int
	MaxRestMs        int // 0 disables the rest cap
	TrimLeadingRests bool
}
