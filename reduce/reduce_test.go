package reduce

import (
	"math/rand"
	"testing"

	"github.com/jsphweid/buzzer/model"
	"github.com/stretchr/testify/assert"
)

func on(delta uint32, note, vel uint8) model.RawMessage {
	return model.RawMessage{Delta: delta, Kind: model.NoteOnMsg, Note: note, Velocity: vel}
}

func off(delta uint32, note uint8) model.RawMessage {
	return model.RawMessage{Delta: delta, Kind: model.NoteOffMsg, Note: note}
}

func TestHighestNoteWins(t *testing.T) {
	// C major triad, then the top note releases
	track := model.Track{
		on(0, 60, 90),
		on(0, 64, 91),
		on(0, 67, 92),
		off(480, 67),
		off(240, 64),
		off(240, 60),
	}
	segments := Reduce(track)

	assert := assert.New(t)
	assert.Equal([]model.Segment{
		{StartTick: 0, EndTick: 480, Note: 67, Velocity: 92},
		{StartTick: 480, EndTick: 720, Note: 64, Velocity: 91},
		{StartTick: 720, EndTick: 960, Note: 60, Velocity: 90},
	}, segments)
}

func TestPressedNotesHighest(t *testing.T) {
	var p pressedNotes
	_, ok := p.highest()
	assert.False(t, ok)

	p.press(0, 0, 10)
	p.press(127, 0, 20)
	p.press(64, 0, 30)
	top, ok := p.highest()
	assert.True(t, ok)
	assert.Equal(t, uint8(127), top)

	assert.True(t, p.release(127))
	assert.False(t, p.release(127))
	top, _ = p.highest()
	assert.Equal(t, uint8(64), top)
}

func TestZeroLengthVoicesAreDropped(t *testing.T) {
	track := model.Track{
		on(0, 60, 90),
		on(0, 64, 90),
		off(100, 64),
		off(0, 60),
	}
	assert.Equal(t, []model.Segment{
		{StartTick: 0, EndTick: 100, Note: 64, Velocity: 90},
	}, Reduce(track))
}

func TestOpenVoiceClosesAtTrackEnd(t *testing.T) {
	track := model.Track{
		on(10, 72, 100),
		{Delta: 500, Kind: model.OtherMsg},
	}
	assert.Equal(t, []model.Segment{
		{StartTick: 10, EndTick: 510, Note: 72, Velocity: 100},
	}, Reduce(track))
}

func TestRetriggerOfChosenNoteDoesNotSplit(t *testing.T) {
	track := model.Track{
		on(0, 60, 80),
		on(100, 60, 120),
		off(100, 60),
	}
	assert.Equal(t, []model.Segment{
		{StartTick: 0, EndTick: 200, Note: 60, Velocity: 80},
	}, Reduce(track))
}

func TestLowerNoteResumesAtReleaseTick(t *testing.T) {
	track := model.Track{
		on(0, 60, 80),
		on(100, 72, 90),
		off(100, 72),
		off(100, 60),
	}
	assert.Equal(t, []model.Segment{
		{StartTick: 0, EndTick: 100, Note: 60, Velocity: 80},
		{StartTick: 100, EndTick: 200, Note: 72, Velocity: 90},
		{StartTick: 200, EndTick: 300, Note: 60, Velocity: 80},
	}, Reduce(track))
}

func TestDrumChannelIgnored(t *testing.T) {
	track := model.Track{
		on(0, 60, 80),
		{Delta: 0, Kind: model.NoteOnMsg, Channel: 9, Note: 100, Velocity: 127},
		off(100, 60),
	}
	assert.Equal(t, []model.Segment{
		{StartTick: 0, EndTick: 100, Note: 60, Velocity: 80},
	}, Reduce(track))
}

func TestUnpressedNoteOffIsHarmless(t *testing.T) {
	track := model.Track{
		off(50, 61),
		on(0, 60, 80),
		off(100, 62),
		off(100, 60),
	}
	assert.Equal(t, []model.Segment{
		{StartTick: 50, EndTick: 250, Note: 60, Velocity: 80},
	}, Reduce(track))
}

func TestSegmentsNeverOverlap(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		var track model.Track
		for i := 0; i < 300; i++ {
			note := uint8(40 + r.Intn(40))
			delta := uint32(r.Intn(3) * r.Intn(60))
			if r.Intn(2) == 0 {
				track = append(track, on(delta, note, uint8(1+r.Intn(127))))
			} else {
				track = append(track, off(delta, note))
			}
		}
		segments := Reduce(track)
		for i, s := range segments {
			if s.StartTick >= s.EndTick {
				t.Fatalf("run %d: empty segment %+v", run, s)
			}
			if i > 0 && segments[i-1].EndTick > s.StartTick {
				t.Fatalf("run %d: %+v overlaps %+v", run, segments[i-1], s)
			}
		}
	}
}
