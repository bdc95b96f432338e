package hud

import (
	"image"
	"testing"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/stretchr/testify/assert"

	"winrun/cmd/winrun-demo/internal/theme"
)

func TestLayoutFillsConstraints(t *testing.T) {
	h := New(theme.New())

	gtx := layout.Context{
		Ops:         new(op.Ops),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: layout.Exact(image.Pt(800, 500)),
	}
	dims := h.Layout(gtx, Status{
		Title:   "winrun",
		Focused: true,
		Rows: []Row{
			{Label: "frames", Value: "42"},
			{Label: "cursor", Value: "visible"},
		},
		Hint: "Q quits, C toggles the cursor",
	})

	assert.Equal(t, image.Pt(800, 500), dims.Size)
}
