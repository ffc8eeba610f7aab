package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// CropAndCenter crops to the bounding box of non-transparent pixels, then
// scales the crop to fillRatio of a size×size canvas and centers it.
func CropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	if fillRatio <= 0 || fillRatio > 1 {
		fillRatio = 1
	}
	return scaleAndCenter(cropAlpha(img), size, fillRatio)
}

// opaqueBounds returns the smallest rectangle holding every pixel with
// non-zero alpha, or an empty rectangle for a fully transparent image.
func opaqueBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	r := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			px := image.Rect(b.Min.X+x, y, b.Min.X+x+1, y+1)
			if r.Empty() {
				r = px
			} else {
				r = r.Union(px)
			}
		}
	}
	return r
}

func cropAlpha(img *image.NRGBA) *image.NRGBA {
	r := opaqueBounds(img)
	if r.Empty() {
		return img
	}
	cropped := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(cropped, image.Point{}, img, r, draw.Src, nil)
	return cropped
}

func scaleAndCenter(img *image.NRGBA, canvasSize int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 || opaqueBounds(img).Empty() {
		return canvas
	}

	maxDim := float64(canvasSize) * fillRatio
	scaleF := maxDim / math.Max(float64(srcW), float64(srcH))
	newW := max(int(float64(srcW)*scaleF+0.5), 1)
	newH := max(int(float64(srcH)*scaleF+0.5), 1)

	offX := (canvasSize - newW) / 2
	offY := (canvasSize - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, b, draw.Src, nil)
	return canvas
}

// FlipHorizontal mirrors an image left-to-right.
func FlipHorizontal(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			copy(dst[x*4:x*4+4], src[(w-1-x)*4:(w-1-x)*4+4])
		}
	}
	return out
}
