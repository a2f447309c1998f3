package constants

import (
	"os"

	"github.com/jsphweid/buzzer/model"
)

// GetOutDir returns where .buzzer.json files are written. Empty means next
// to each source file.
func GetOutDir() string {
	return os.Getenv("BUZZER_OUT_DIR")
}

func GetMediaDir() string {
	path := os.Getenv("BUZZER_MEDIA_DIR")
	if path != "" {
		return path
	}
	return "."
}

// 120 BPM
const DefaultTempoUs = 500000

const DrumChannel = 9

const (
	MinNote          = 48
	MaxNote          = 96
	GateRatio        = 0.9
	LoudnessLevels   = 3
	MinGateMs        = 30
	ProlongedPauseMs = 600
	MaxRestMs        = 2000 // used when --max-rest-ms is given without a value
)

const OutputSuffix = ".buzzer.json"

func DefaultConfig() model.Config {
	return model.Config{
		MinNote:          MinNote,
		MaxNote:          MaxNote,
		GateRatio:        GateRatio,
		LoudnessLevels:   LoudnessLevels,
		MinGateMs:        MinGateMs,
		ProlongedPauseMs: ProlongedPauseMs,
		TrimLeadingRests: true,
	}
}
