package render_test

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/wsc/internal/app/render"
	"github.com/slok/wsc/internal/model"
)

func TestService_Run(t *testing.T) {
	tests := map[string]struct {
		answers  model.AnswerSheet
		outDir   func(t *testing.T) string
		expFiles map[string][2]int
		expErr   bool
	}{
		"handwritten answers should be written as PNG files": {
			answers: model.AnswerSheet{Canvas: map[string]model.CanvasAnswer{
				"2": {Strokes: []model.Stroke{{Points: []model.Point{{X: 1, Y: 1}, {X: 50, Y: 50}}}}},
				"5": {Width: 200, Height: 100},
			}},
			outDir: func(t *testing.T) string { return filepath.Join(t.TempDir(), "out") },
			expFiles: map[string][2]int{
				"2.png": {500, 150},
				"5.png": {200, 100},
			},
		},
		"a sheet without handwritten answers should fail": {
			answers: model.AnswerSheet{MultipleChoice: map[string]string{"1": "2"}},
			outDir:  func(t *testing.T) string { return t.TempDir() },
			expErr:  true,
		},
		"a missing output directory should fail": {
			answers: model.AnswerSheet{Canvas: map[string]model.CanvasAnswer{"2": {}}},
			outDir:  func(t *testing.T) string { return "" },
			expErr:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			svc, err := render.NewService(render.ServiceConfig{})
			require.NoError(err)

			outDir := test.outDir(t)
			got, err := svc.Run(context.Background(), render.Request{Answers: test.answers, OutDir: outDir})

			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			require.Len(got, len(test.expFiles))

			for _, r := range got {
				size, ok := test.expFiles[filepath.Base(r.Path)]
				require.True(ok, r.Path)

				f, err := os.Open(r.Path)
				require.NoError(err)
				img, err := png.Decode(f)
				f.Close()
				require.NoError(err)
				assert.Equal(size[0], img.Bounds().Dx())
				assert.Equal(size[1], img.Bounds().Dy())

				info, err := os.Stat(r.Path)
				require.NoError(err)
				assert.Equal(info.Size(), r.SizeBytes)
			}
		})
	}
}
