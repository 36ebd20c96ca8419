package canvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/wsc/internal/canvas"
	"github.com/slok/wsc/internal/model"
)

func TestManagerDispatch(t *testing.T) {
	tests := map[string]struct {
		events    []canvas.InputEvent
		expErr    bool
		expDrawn  []pixel
		expBlank  bool
		expActive bool
	}{
		"Mouse down, move and up should draw translated by the offset.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputMouseDown, Client: model.Point{X: 110, Y: 250}},
				{Kind: canvas.InputMouseMove, Client: model.Point{X: 300, Y: 250}},
				{Kind: canvas.InputMouseUp},
			},
			expDrawn: []pixel{{x: 100, y: 50}},
		},
		"Moves without a down should be ignored.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputMouseMove, Client: model.Point{X: 110, Y: 250}},
				{Kind: canvas.InputMouseMove, Client: model.Point{X: 300, Y: 250}},
			},
			expBlank: true,
		},
		"Mouse leave should end the stroke.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputMouseDown, Client: model.Point{X: 110, Y: 250}},
				{Kind: canvas.InputMouseLeave},
				{Kind: canvas.InputMouseMove, Client: model.Point{X: 300, Y: 250}},
			},
			expBlank: true,
		},
		"A stroke in progress should stay active.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputMouseDown, Client: model.Point{X: 110, Y: 250}},
			},
			expBlank:  true,
			expActive: true,
		},
		"Touch should use the first touch point.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputTouchStart, Touches: []model.Point{{X: 110, Y: 220}, {X: 0, Y: 0}}},
				{Kind: canvas.InputTouchMove, Touches: []model.Point{{X: 300, Y: 220}, {X: 600, Y: 400}}},
				{Kind: canvas.InputTouchEnd},
			},
			expDrawn: []pixel{{x: 150, y: 20}},
		},
		"Touch cancel should end the stroke.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputTouchStart, Touches: []model.Point{{X: 110, Y: 220}}},
				{Kind: canvas.InputTouchCancel},
				{Kind: canvas.InputTouchMove, Touches: []model.Point{{X: 300, Y: 220}}},
			},
			expBlank: true,
		},
		"A touch event without touches should fail.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputTouchStart},
			},
			expErr: true,
		},
		"An unknown event kind should fail.": {
			events: []canvas.InputEvent{
				{Kind: canvas.InputUnknown},
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m, err := canvas.NewManager(canvas.ManagerConfig{})
			require.NoError(err)
			require.NoError(m.InitSurface("1", canvas.WithOffset(10, 200)))

			var gotErr error
			for _, ev := range test.events {
				ev.ProblemID = "1"
				if err := m.Dispatch(ev); err != nil {
					gotErr = err
				}
			}

			if test.expErr {
				assert.ErrorIs(gotErr, model.ErrNotValid)
				return
			}
			require.NoError(gotErr)

			img := snapshot(t, m, "1")
			assert.Equal(test.expBlank, isBlank(img))
			for _, p := range test.expDrawn {
				assert.Less(img.RGBAAt(p.x, p.y).R, uint8(50))
			}
			active, err := m.Active("1")
			require.NoError(err)
			assert.Equal(test.expActive, active)
		})
	}
}

type pixel struct{ x, y int }
