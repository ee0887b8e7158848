package pdf

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// argb32ToRGBA converts cairo's native-endian premultiplied ARGB32 (BGRA in
// memory on little-endian machines) to an image.RGBA.
func argb32ToRGBA(buf []byte, w, h, stride int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := buf[y*stride : y*stride+w*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = src[x+3]
		}
	}
	return img
}

var (
	paper  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	border = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// blankPage returns a white w×h page with a one pixel border.
func blankPage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(border), image.Point{}, draw.Src)
	if w > 2 && h > 2 {
		draw.Draw(img, image.Rect(1, 1, w-1, h-1), image.NewUniform(paper), image.Point{}, draw.Src)
	}
	return img
}
