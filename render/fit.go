package render

import "github.com/user-none/retrohost/gfx"

// Fit returns the largest viewport with the given aspect ratio that fits
// in a winW×winH drawable, centered.
func Fit(winW, winH int, aspect float64) gfx.Rect {
	if winW <= 0 || winH <= 0 {
		return gfx.Rect{}
	}
	if aspect <= 0 {
		return gfx.Rect{W: winW, H: winH}
	}

	screenW, screenH := float64(winW), float64(winH)
	scaledW := screenW
	scaledH := screenW / aspect
	if scaledH > screenH {
		scaledH = screenH
		scaledW = screenH * aspect
	}

	w, h := int(scaledW+0.5), int(scaledH+0.5)
	return gfx.Rect{
		X: (winW - w) / 2,
		Y: (winH - h) / 2,
		W: w,
		H: h,
	}
}
