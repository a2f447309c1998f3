package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/convert"
	"github.com/jsphweid/buzzer/model"
	"github.com/jsphweid/buzzer/sample"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, dir, name string, parts ...sample.Part) string {
	data, err := sample.Bytes(sample.Create(480, []sample.Tempo{{Tick: 0, BPM: 120}}, parts...))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestProcessPaths(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	good := writeSample(t, src, "good.mid", sample.Melody("Lead", 0, 480, 0, 60, 62, 64))
	drums := writeSample(t, src, "drums.mid", sample.Part{Name: "Kit", Notes: []sample.Note{
		{Channel: 9, Key: 36, Velocity: 100, Start: 0, End: 100},
	}})
	junk := filepath.Join(src, "junk.mid")
	require.NoError(t, os.WriteFile(junk, []byte("nope"), 0644))

	r := Runner{Config: constants.DefaultConfig(), OutDir: out, Jobs: 2}
	results := r.ProcessPaths([]string{good, drums, junk})

	assert := assert.New(t)
	require.Len(t, results, 3)
	assert.Equal(good, results[0].Path)
	assert.True(results[0].Ok())
	assert.Equal(filepath.Join(out, "good.buzzer.json"), results[0].OutPath)
	assert.Greater(results[0].Bytes, 0)
	assert.True(errors.Is(results[1].Err, convert.ErrNoSuitableTrack))
	assert.True(errors.Is(results[2].Err, convert.ErrMalformedInput))

	ok, skipped, failed := Counts(results)
	assert.Equal(1, ok)
	assert.Equal(1, skipped)
	assert.Equal(1, failed)

	data, err := os.ReadFile(results[0].OutPath)
	require.NoError(t, err)
	var written model.Output
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal("good.mid", written.SourceMidi)
	assert.Len(written.Events, 3)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(entries, 1)
}

func TestExplicitTrackOutputName(t *testing.T) {
	src := t.TempDir()
	path := writeSample(t, src, "song.mid", sample.Melody("Lead", 0, 480, 0, 60))

	r := Runner{Config: constants.DefaultConfig(), Options: convert.Options{Track: 2}, Compact: true}
	results := r.ProcessPaths([]string{path})

	require.True(t, results[0].Ok(), "%v", results[0].Err)
	assert.Equal(t, filepath.Join(src, "song.track2.buzzer.json"), results[0].OutPath)
	_, err := os.Stat(results[0].OutPath)
	assert.NoError(t, err)
}

func TestSummary(t *testing.T) {
	fill := "Guitar"
	res := Result{
		OutPath: "song.buzzer.json",
		Bytes:   2048,
		Output: &model.Output{
			SelectedTrackName: "Choir",
			FillTrackName:     &fill,
			Events: []model.Event{
				{StartMs: 0, DurationMs: 500, Note: 60},
				model.NewRest(500, 1000),
				{StartMs: 1500, DurationMs: 500, Note: 62},
			},
		},
	}
	assert.Equal(t, "Wrote song.buzzer.json: 2 notes, 3 events, 2 seconds, 2.0 kB, choir=Choir, fill=Guitar", Summary(res))
}
