package gfx

import "image"

// ToRGBA converts a software frame to tightly packed RGBA, reusing dst when
// it is large enough. Rows are read pitch bytes apart so padded frames work.
// Returns nil if src is too short for the given geometry.
func ToRGBA(dst []byte, cs Colorspace, w, h, pitch int, src []byte) []byte {
	if w <= 0 || h <= 0 {
		return dst[:0]
	}
	bpp := cs.BytesPerPixel()
	if pitch < w*bpp || len(src) < pitch*(h-1)+w*bpp {
		return nil
	}

	need := w * h * 4
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]

	for y := 0; y < h; y++ {
		row := src[y*pitch:]
		out := dst[y*w*4:]
		switch cs {
		case ColorRGB565:
			convertRGB565Row(row, out, w)
		default:
			convertXRGB8888Row(row, out, w)
		}
	}
	return dst
}

// convertXRGB8888Row converts little-endian XRGB8888 (bytes B,G,R,X) to RGBA.
func convertXRGB8888Row(src, dst []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		srcIdx := i * 4
		dstIdx := i * 4
		dst[dstIdx+0] = src[srcIdx+2] // R
		dst[dstIdx+1] = src[srcIdx+1] // G
		dst[dstIdx+2] = src[srcIdx+0] // B
		dst[dstIdx+3] = 0xFF
	}
}

// convertRGB565Row expands little-endian RGB565 to RGBA, replicating the
// high bits into the low bits so full intensity maps to 0xFF.
func convertRGB565Row(src, dst []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		p := uint16(src[i*2]) | uint16(src[i*2+1])<<8
		r := byte(p >> 11 & 0x1F)
		g := byte(p >> 5 & 0x3F)
		b := byte(p & 0x1F)
		dstIdx := i * 4
		dst[dstIdx+0] = r<<3 | r>>2
		dst[dstIdx+1] = g<<2 | g>>4
		dst[dstIdx+2] = b<<3 | b>>2
		dst[dstIdx+3] = 0xFF
	}
}

// FlipRows reverses row order in place. Framebuffer reads come back
// bottom row first.
func FlipRows(pix []byte, w, h int) {
	stride := w * 4
	tmp := make([]byte, stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Image wraps packed RGBA pixels as an image without copying.
func Image(pix []byte, w, h int) *image.RGBA {
	return &image.RGBA{
		Pix:    pix,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}
