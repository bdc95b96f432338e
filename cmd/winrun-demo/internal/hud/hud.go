// Package hud draws the demo's live status panel in a Gio window.
package hud

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"winrun/cmd/winrun-demo/internal/theme"
)

// Row is one labelled value.
type Row struct {
	Label string
	Value string
}

// Status is what the HUD shows for one frame.
type Status struct {
	Title   string
	Focused bool
	Rows    []Row
	Hint    string
}

// HUD is the status panel.
type HUD struct {
	theme *theme.Theme
	list  widget.List
}

// New creates a HUD.
func New(t *theme.Theme) *HUD {
	return &HUD{
		theme: t,
		list: widget.List{
			List: layout.List{Axis: layout.Vertical},
		},
	}
}

// Layout renders s filling the available space.
func (h *HUD) Layout(gtx layout.Context, s Status) layout.Dimensions {
	paint.Fill(gtx.Ops, h.theme.Palette.Background)

	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			w := gtx.Dp(h.theme.Config.SidebarWidth)
			gtx.Constraints.Min.X = w
			gtx.Constraints.Max.X = w
			return h.layoutSidebar(gtx, s)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			size := image.Pt(gtx.Dp(1), gtx.Constraints.Max.Y)
			paint.FillShape(gtx.Ops, h.theme.Palette.Border, clip.Rect{Max: size}.Op())
			return layout.Dimensions{Size: size}
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return h.layoutRows(gtx, s.Rows)
		}),
	)
}

func (h *HUD) layoutSidebar(gtx layout.Context, s Status) layout.Dimensions {
	return layout.UniformInset(h.theme.Config.Padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				title := material.H6(h.theme.Theme, s.Title)
				title.Color = h.theme.Palette.Primary
				title.TextSize = h.theme.Config.FontTitle
				return title.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label, col := "unfocused", h.theme.Palette.Inactive
				if s.Focused {
					label, col = "focused", h.theme.Palette.Active
				}
				l := material.Body1(h.theme.Theme, label)
				l.Color = col
				return l.Layout(gtx)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{Size: image.Pt(gtx.Constraints.Max.X, gtx.Constraints.Min.Y)}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.Caption(h.theme.Theme, s.Hint)
				l.Color = h.theme.Palette.TextMuted
				l.TextSize = h.theme.Config.FontCaption
				return l.Layout(gtx)
			}),
		)
	})
}

func (h *HUD) layoutRows(gtx layout.Context, rows []Row) layout.Dimensions {
	return layout.UniformInset(h.theme.Config.Padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		size := gtx.Constraints.Max
		rect := clip.UniformRRect(image.Rect(0, 0, size.X, size.Y), gtx.Dp(h.theme.Config.CornerRadius)).Op(gtx.Ops)
		paint.FillShape(gtx.Ops, h.theme.Palette.Surface, rect)

		return layout.UniformInset(h.theme.Config.Spacing).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return material.List(h.theme.Theme, &h.list).Layout(gtx, len(rows), func(gtx layout.Context, i int) layout.Dimensions {
				return h.layoutRow(gtx, rows[i])
			})
		})
	})
}

func (h *HUD) layoutRow(gtx layout.Context, r Row) layout.Dimensions {
	return layout.Inset{Bottom: h.theme.Config.Spacing}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Dp(140)
				l := material.Body1(h.theme.Theme, r.Label)
				l.Color = h.theme.Palette.TextMuted
				l.TextSize = h.theme.Config.FontBody
				return l.Layout(gtx)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				l := material.Body1(h.theme.Theme, r.Value)
				l.Color = h.theme.Palette.Text
				l.TextSize = h.theme.Config.FontBody
				return l.Layout(gtx)
			}),
		)
	})
}
