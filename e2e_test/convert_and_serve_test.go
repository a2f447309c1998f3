//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/buzzer/batch"
	"github.com/jsphweid/buzzer/cmd"
	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/convert"
	"github.com/jsphweid/buzzer/model"
	"github.com/jsphweid/buzzer/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// song has a tempo track, a chord pad, a melody with a two bar gap and a
// low guitar part that plays during the gap.
func song(t *testing.T) []byte {
	pad := sample.Part{Name: "Pad"}
	for _, k := range []uint8{48, 52, 55} {
		pad.Notes = append(pad.Notes, sample.Note{Channel: 1, Key: k, Velocity: 60, Start: 0, End: 480 * 12})
	}
	melody := sample.Melody("Vocals", 2, 480, 0, 69, 71, 72, 74)
	melody.Notes = append(melody.Notes, sample.Melody("", 2, 480, 480*12, 76, 74).Notes...)
	guitar := sample.Melody("Guitar", 3, 480, 480*4, 48, 50, 52, 53, 55, 57, 59, 60)

	data, err := sample.Bytes(sample.Create(480,
		[]sample.Tempo{{Tick: 0, BPM: 120}, {Tick: 480 * 8, BPM: 60}}, pad, melody, guitar))
	require.NoError(t, err)
	return data
}

func TestAutoSelectionEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.mid")
	require.NoError(t, os.WriteFile(src, song(t), 0644))

	r := batch.Runner{Config: constants.DefaultConfig()}
	results := r.ProcessPaths([]string{src})
	require.True(t, results[0].Ok(), "%v", results[0].Err)

	data, err := os.ReadFile(filepath.Join(dir, "song.buzzer.json"))
	require.NoError(t, err)
	var out model.Output
	require.NoError(t, json.Unmarshal(data, &out))

	assert := assert.New(t)
	assert.Equal(2, out.SelectedTrackIndex)
	assert.Equal("Vocals", out.SelectedTrackName)
	assert.Len(out.TempoChanges, 2)
	assertContiguous(t, out.Events)
}

func TestChoirFillOverHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/convert?name=song.mid&choir_track=3&fill_track=4&max_rest_ms=1500",
		bytes.NewReader(song(t)))
	w := httptest.NewRecorder()
	cmd.Router().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out model.Output
	require.NoError(t, json.Unmarshal(body, &out))

	assert := assert.New(t)
	assert.Equal("Vocals", out.SelectedTrackName)
	assert.Equal("Guitar", *out.FillTrackName)
	assert.Equal(1500, *out.MaxRestMs)
	assert.Equal(4+8+2, out.NumNotes())
	assertContiguous(t, out.Events)
}

func TestNoSuitableTrackOverHTTP(t *testing.T) {
	data, err := sample.Bytes(sample.Create(480, nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(data))
	w := httptest.NewRecorder()
	cmd.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), convert.ErrNoSuitableTrack.Error())
}

func assertContiguous(t *testing.T, events []model.Event) {
	t.Helper()
	require.NotEmpty(t, events)
	assert.Equal(t, 0, events[0].StartMs)
	assert.False(t, events[0].Rest)
	for i := 1; i < len(events); i++ {
		assert.InDelta(t, events[i-1].EndMs(), events[i].StartMs, 1, "event %d", i)
	}
}
