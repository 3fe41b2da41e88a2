package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// DefaultSize is the input resolution of the CLIP ViT-B/32 vision encoder.
const DefaultSize = 224

// CLIP normalization constants (per channel, RGB order).
var (
	clipMean = [3]float32{0.48145466, 0.4578275, 0.40821073}
	clipStd  = [3]float32{0.26862954, 0.26130258, 0.27577711}
)

// PixelValues converts an image into a normalized NCHW float32 plane of
// length 3*size*size, following the CLIP preprocessing pipeline: resize the
// shortest side to size, center-crop size x size, scale to [0,1], then
// normalize with the CLIP channel means and standard deviations.
func PixelValues(img image.Image, size int) []float32 {
	if size <= 0 {
		size = DefaultSize
	}
	cropped := centerCrop(resizeShortestSide(img, size), size)

	out := make([]float32, 3*size*size)
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := cropped.NRGBAAt(x, y)
			i := y*size + x
			out[i] = (float32(c.R)/255.0 - clipMean[0]) / clipStd[0]
			out[plane+i] = (float32(c.G)/255.0 - clipMean[1]) / clipStd[1]
			out[2*plane+i] = (float32(c.B)/255.0 - clipMean[2]) / clipStd[2]
		}
	}
	return out
}

// resizeShortestSide scales img so its shortest side equals size, preserving
// aspect ratio.
func resizeShortestSide(img image.Image, size int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}

	var newW, newH int
	if w < h {
		newW = size
		newH = (h*size + w/2) / w
	} else {
		newH = size
		newW = (w*size + h/2) / h
	}
	if newW < size {
		newW = size
	}
	if newH < size {
		newH = size
	}

	dst := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// centerCrop extracts the central size x size region.
func centerCrop(img *image.NRGBA, size int) *image.NRGBA {
	bounds := img.Bounds()
	x0 := (bounds.Dx() - size) / 2
	y0 := (bounds.Dy() - size) / 2

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dst.SetNRGBA(x, y, img.NRGBAAt(bounds.Min.X+x0+x, bounds.Min.Y+y0+y))
		}
	}
	return dst
}
