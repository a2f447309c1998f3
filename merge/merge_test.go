package merge

import (
	"testing"

	"github.com/jsphweid/buzzer/model"
	"github.com/stretchr/testify/assert"
)

func note(start, duration, pitch int) model.Event {
	return model.Event{StartMs: start, DurationMs: duration, GateMs: duration * 9 / 10, Note: pitch, Velocity: 100}
}

func TestProlongedRestIsFilled(t *testing.T) {
	choir := []model.Event{note(0, 1000, 72), model.NewRest(1000, 1000), note(2000, 500, 74)}
	fill := []model.Event{note(1200, 200, 60)}
	merged := Merge(choir, fill, 600)

	assert.Equal(t, []model.Event{
		note(0, 1000, 72),
		model.NewRest(1000, 200),
		note(1200, 200, 60),
		model.NewRest(1400, 600),
		note(2000, 500, 74),
	}, merged)
}

func TestShortRestStaysSilent(t *testing.T) {
	choir := []model.Event{note(0, 100, 72), model.NewRest(100, 500), note(600, 100, 72)}
	fill := []model.Event{note(100, 500, 60), note(200, 50, 62)}

	assert.Equal(t, choir, Merge(choir, fill, 600))
}

func TestRestAtThresholdIsFilled(t *testing.T) {
	choir := []model.Event{model.NewRest(0, 600)}
	fill := []model.Event{note(0, 600, 60)}

	assert.Equal(t, []model.Event{note(0, 600, 60)}, Merge(choir, fill, 600))
}

func TestPartiallyOverlappingFillNotesAreKeptWhole(t *testing.T) {
	choir := []model.Event{model.NewRest(1000, 1000)}
	fill := []model.Event{
		note(800, 400, 60),
		model.NewRest(1200, 100),
		note(1500, 200, 62),
		note(1600, 300, 64),
		note(1900, 300, 65),
		note(2000, 100, 67),
	}
	merged := Merge(choir, fill, 600)

	assert.Equal(t, []model.Event{
		note(800, 400, 60),
		model.NewRest(1200, 300),
		note(1500, 200, 62),
		note(1600, 300, 64),
		note(1900, 300, 65),
	}, merged)
}

func TestEmptyFillLeavesRestWhole(t *testing.T) {
	choir := []model.Event{model.NewRest(0, 3000), note(3000, 100, 70)}
	assert.Equal(t, choir, Merge(choir, nil, 600))
}

func TestInputsAreNotModified(t *testing.T) {
	choir := []model.Event{model.NewRest(0, 1000)}
	fill := []model.Event{note(500, 100, 60), note(100, 100, 62)}
	choirCopy := append([]model.Event(nil), choir...)
	fillCopy := append([]model.Event(nil), fill...)

	Merge(choir, fill, 600)

	assert := assert.New(t)
	assert.Equal(choirCopy, choir)
	assert.Equal(fillCopy, fill)
}
